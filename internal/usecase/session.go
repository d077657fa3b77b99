package usecase

import (
	"sync"

	"skymate-service/internal/domain/repository"
	"skymate-service/pkg/logger"
	"skymate-service/pkg/metrics"
)

// SessionRegistry hands out one reconciler per authenticated user and drops
// it again on logout. Draft state never leaks across users.
type SessionRegistry struct {
	memoryRepo repository.MemoryRepository
	events     *PreferenceEvents
	logger     logger.Logger
	metrics    *metrics.Metrics

	mu       sync.Mutex
	sessions map[string]*PreferenceReconciler
}

// NewSessionRegistry creates a new session registry
func NewSessionRegistry(
	memoryRepo repository.MemoryRepository,
	events *PreferenceEvents,
	logger logger.Logger,
	metrics *metrics.Metrics,
) *SessionRegistry {
	return &SessionRegistry{
		memoryRepo: memoryRepo,
		events:     events,
		logger:     logger,
		metrics:    metrics,
		sessions:   make(map[string]*PreferenceReconciler),
	}
}

// Reconciler returns the user's session reconciler, creating it on first use
func (s *SessionRegistry) Reconciler(userID string) *PreferenceReconciler {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r, ok := s.sessions[userID]; ok {
		return r
	}
	r := NewPreferenceReconciler(userID, s.memoryRepo, s.events, s.logger, s.metrics)
	s.sessions[userID] = r
	return r
}

// Drop discards the user's session state
func (s *SessionRegistry) Drop(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
}
