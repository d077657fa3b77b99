package repository

import (
	"context"
	"errors"

	"skymate-service/internal/domain/entity"
	"skymate-service/internal/domain/repository"
	"skymate-service/pkg/logger"
)

// DualMemoryRepository writes through to a primary store and mirrors every
// change to a secondary one. The primary is the source of truth; mirror
// failures are logged and swallowed so a degraded memory service never blocks
// the user.
type DualMemoryRepository struct {
	logger  logger.Logger
	primary repository.MemoryRepository
	mirror  repository.MemoryRepository
}

// NewDualMemoryRepository creates a dual-write memory repository
func NewDualMemoryRepository(logger logger.Logger, primary, mirror repository.MemoryRepository) repository.MemoryRepository {
	return &DualMemoryRepository{
		logger:  logger,
		primary: primary,
		mirror:  mirror,
	}
}

// ListPreferences reads from the primary, falling back to the mirror when
// the primary is unavailable
func (r *DualMemoryRepository) ListPreferences(ctx context.Context, userID string) (map[string][]entity.PreferenceEntry, error) {
	prefs, err := r.primary.ListPreferences(ctx, userID)
	if err == nil {
		return prefs, nil
	}
	r.logger.Warn("Primary preference list failed, trying mirror",
		"userId", userID,
		"error", err)
	return r.mirror.ListPreferences(ctx, userID)
}

// AddPreference writes to the primary and mirrors on success
func (r *DualMemoryRepository) AddPreference(ctx context.Context, userID string, add entity.PreferenceAdd) error {
	if err := r.primary.AddPreference(ctx, userID, add); err != nil {
		return err
	}
	if err := r.mirror.AddPreference(ctx, userID, add); err != nil {
		r.logger.Warn("Preference mirror write failed",
			"userId", userID,
			"type", add.Type,
			"error", err)
	}
	return nil
}

// DeletePreference deletes from both stores. The delete counts as successful
// when either store held the entry; ErrNotFound only when both missed.
func (r *DualMemoryRepository) DeletePreference(ctx context.Context, userID, text string) error {
	primaryErr := r.primary.DeletePreference(ctx, userID, text)
	mirrorErr := r.mirror.DeletePreference(ctx, userID, text)

	if mirrorErr != nil && !errors.Is(mirrorErr, repository.ErrNotFound) {
		r.logger.Warn("Preference mirror delete failed",
			"userId", userID,
			"error", mirrorErr)
	}

	if primaryErr == nil {
		return nil
	}
	if errors.Is(primaryErr, repository.ErrNotFound) && mirrorErr == nil {
		return nil
	}
	return primaryErr
}

// TravelHistory reads from the primary, falling back to the mirror
func (r *DualMemoryRepository) TravelHistory(ctx context.Context, userID string) ([]entity.BookingMemoryEntry, error) {
	history, err := r.primary.TravelHistory(ctx, userID)
	if err == nil {
		return history, nil
	}
	r.logger.Warn("Primary travel history fetch failed, trying mirror",
		"userId", userID,
		"error", err)
	return r.mirror.TravelHistory(ctx, userID)
}

// RecordBooking writes to the primary and mirrors on success
func (r *DualMemoryRepository) RecordBooking(ctx context.Context, userID string, booking entity.BookingMemoryEntry) error {
	if err := r.primary.RecordBooking(ctx, userID, booking); err != nil {
		return err
	}
	if err := r.mirror.RecordBooking(ctx, userID, booking); err != nil {
		r.logger.Warn("Booking mirror write failed",
			"userId", userID,
			"error", err)
	}
	return nil
}
