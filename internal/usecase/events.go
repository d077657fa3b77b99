package usecase

import (
	"sync"

	"skymate-service/internal/domain/entity"
)

// PreferenceEvent is published after a successful preference commit
type PreferenceEvent struct {
	UserID string
	Draft  entity.SessionPreferenceDraft
}

// PreferenceEvents is a small in-process pub/sub for preference changes.
// Subscribers are notified synchronously, after the commit has settled.
type PreferenceEvents struct {
	mu   sync.Mutex
	subs []func(PreferenceEvent)
}

// NewPreferenceEvents creates a new event hub
func NewPreferenceEvents() *PreferenceEvents {
	return &PreferenceEvents{}
}

// Subscribe registers a callback for future preference events
func (e *PreferenceEvents) Subscribe(fn func(PreferenceEvent)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.subs = append(e.subs, fn)
}

// Publish delivers an event to every subscriber
func (e *PreferenceEvents) Publish(event PreferenceEvent) {
	e.mu.Lock()
	subs := make([]func(PreferenceEvent), len(e.subs))
	copy(subs, e.subs)
	e.mu.Unlock()

	for _, fn := range subs {
		fn(event)
	}
}
