package repository

import (
	"context"
	"errors"

	"skymate-service/internal/domain/entity"
)

// ErrNotFound is returned when a memory entry does not exist in the store
var ErrNotFound = errors.New("memory entry not found")

// MemoryRepository defines the interface to the long-term memory store.
// Preferences are keyed by their exact text; DeletePreference returns
// ErrNotFound when no entry matches.
type MemoryRepository interface {
	ListPreferences(ctx context.Context, userID string) (map[string][]entity.PreferenceEntry, error)
	AddPreference(ctx context.Context, userID string, add entity.PreferenceAdd) error
	DeletePreference(ctx context.Context, userID, text string) error
	TravelHistory(ctx context.Context, userID string) ([]entity.BookingMemoryEntry, error)
	RecordBooking(ctx context.Context, userID string, booking entity.BookingMemoryEntry) error
}
