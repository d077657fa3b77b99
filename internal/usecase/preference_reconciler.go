package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"skymate-service/internal/domain/entity"
	"skymate-service/internal/domain/repository"
	"skymate-service/pkg/logger"
	"skymate-service/pkg/metrics"
)

// Reconciler states. A draft holds unsaved edits; committed means the store
// reflects the draft.
const (
	StateDraft     = "draft"
	StateCommitted = "committed"
)

// Valid draft field values
var (
	validCabinClasses   = map[string]bool{"Economy": true, "Business": true, "First": true}
	validDepartureTimes = map[string]bool{"Morning": true, "Afternoon": true, "Evening": true}
	validTripTypes      = map[string]bool{"One Way": true, "Round Trip": true}
)

// PreferenceReconciler merges persisted preferences with session-only draft
// edits and drives the supersede-then-commit save protocol against the
// memory store. One reconciler serves one user session; concurrent Commit
// calls on the same session are serialized.
type PreferenceReconciler struct {
	userID     string
	memoryRepo repository.MemoryRepository
	events     *PreferenceEvents
	logger     logger.Logger
	metrics    *metrics.Metrics

	mu    sync.Mutex
	draft entity.SessionPreferenceDraft
	state string

	// held for the whole of Commit so commits on one session never interleave
	commitMu sync.Mutex
}

// NewPreferenceReconciler creates a reconciler for one user session
func NewPreferenceReconciler(
	userID string,
	memoryRepo repository.MemoryRepository,
	events *PreferenceEvents,
	logger logger.Logger,
	metrics *metrics.Metrics,
) *PreferenceReconciler {
	return &PreferenceReconciler{
		userID:     userID,
		memoryRepo: memoryRepo,
		events:     events,
		logger:     logger,
		metrics:    metrics,
		state:      StateDraft,
	}
}

// supersedeSet returns every canonical string any previous commit could have
// produced. Deleting the whole set clears stale entries regardless of what
// the prior draft looked like.
func supersedeSet() []string {
	set := []string{
		"Direct flights only",
		"Avoid red-eye flights",
	}
	for _, cabin := range []string{"Economy", "Business", "First"} {
		set = append(set, fmt.Sprintf("I prefer %s class flights", cabin))
	}
	for _, window := range []string{"Morning", "Afternoon", "Evening"} {
		set = append(set, fmt.Sprintf("I prefer %s departures", window))
	}
	for _, trip := range []string{"One Way", "Round Trip"} {
		set = append(set, fmt.Sprintf("I prefer %s trips", trip))
	}
	return set
}

// adds builds the add requests for every set field of the draft
func (r *PreferenceReconciler) adds(draft entity.SessionPreferenceDraft) []entity.PreferenceAdd {
	var adds []entity.PreferenceAdd
	if draft.DirectFlightsOnly {
		adds = append(adds, entity.PreferenceAdd{
			Category: "preference", Type: "flight_type", Content: "Direct flights only",
		})
	}
	if draft.AvoidRedEye {
		adds = append(adds, entity.PreferenceAdd{
			Category: "preference", Type: "red_eye", Content: "Avoid red-eye flights",
		})
	}
	if draft.CabinClass != "" {
		adds = append(adds, entity.PreferenceAdd{
			Category: "preference", Type: "cabin_class",
			Content: fmt.Sprintf("I prefer %s class flights", draft.CabinClass),
		})
	}
	if draft.PreferredTime != "" {
		adds = append(adds, entity.PreferenceAdd{
			Category: "preference", Type: "departure_time",
			Content: fmt.Sprintf("I prefer %s departures", draft.PreferredTime),
		})
	}
	if draft.TripType != "" {
		adds = append(adds, entity.PreferenceAdd{
			Category: "preference", Type: "trip_type",
			Content: fmt.Sprintf("I prefer %s trips", draft.TripType),
		})
	}
	return adds
}

// SetDirectFlightsOnly updates the direct-flights toggle
func (r *PreferenceReconciler) SetDirectFlightsOnly(v bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.draft.DirectFlightsOnly = v
	r.state = StateDraft
}

// SetAvoidRedEye updates the red-eye toggle
func (r *PreferenceReconciler) SetAvoidRedEye(v bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.draft.AvoidRedEye = v
	r.state = StateDraft
}

// SetCabinClass updates the cabin-class field. Empty clears it.
func (r *PreferenceReconciler) SetCabinClass(cabin string) error {
	if cabin != "" && !validCabinClasses[cabin] {
		return fmt.Errorf("invalid cabin class: %q", cabin)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.draft.CabinClass = cabin
	r.state = StateDraft
	return nil
}

// SetPreferredTime updates the departure-time field. Empty clears it.
func (r *PreferenceReconciler) SetPreferredTime(window string) error {
	if window != "" && !validDepartureTimes[window] {
		return fmt.Errorf("invalid departure time: %q", window)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.draft.PreferredTime = window
	r.state = StateDraft
	return nil
}

// SetTripType updates the trip-type field. Empty clears it.
func (r *PreferenceReconciler) SetTripType(trip string) error {
	if trip != "" && !validTripTypes[trip] {
		return fmt.Errorf("invalid trip type: %q", trip)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.draft.TripType = trip
	r.state = StateDraft
	return nil
}

// ApplyDraft replaces the whole draft at once
func (r *PreferenceReconciler) ApplyDraft(draft entity.SessionPreferenceDraft) error {
	if draft.CabinClass != "" && !validCabinClasses[draft.CabinClass] {
		return fmt.Errorf("invalid cabin class: %q", draft.CabinClass)
	}
	if draft.PreferredTime != "" && !validDepartureTimes[draft.PreferredTime] {
		return fmt.Errorf("invalid departure time: %q", draft.PreferredTime)
	}
	if draft.TripType != "" && !validTripTypes[draft.TripType] {
		return fmt.Errorf("invalid trip type: %q", draft.TripType)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.draft = draft
	r.state = StateDraft
	return nil
}

// Draft returns a copy of the current draft
func (r *PreferenceReconciler) Draft() entity.SessionPreferenceDraft {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.draft
}

// State returns draft or committed
func (r *PreferenceReconciler) State() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Reset clears the draft back to an empty, uncommitted state
func (r *PreferenceReconciler) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.draft = entity.SessionPreferenceDraft{}
	r.state = StateDraft
}

// Commit saves the draft to the memory store. Every canonical string a prior
// commit could have written is deleted first, in parallel and best-effort,
// then the draft's own strings are added in parallel. Add failures are
// collected and returned; the state stays draft until every add lands.
func (r *PreferenceReconciler) Commit(ctx context.Context) error {
	r.commitMu.Lock()
	defer r.commitMu.Unlock()

	start := time.Now()

	r.mu.Lock()
	draft := r.draft
	r.mu.Unlock()

	var wg sync.WaitGroup
	for _, text := range supersedeSet() {
		wg.Add(1)
		go func(text string) {
			defer wg.Done()
			err := r.memoryRepo.DeletePreference(ctx, r.userID, text)
			if err != nil && !errors.Is(err, repository.ErrNotFound) {
				r.logger.Warn("Supersede delete failed",
					"userId", r.userID,
					"text", text,
					"error", err)
				r.metrics.ErrorsCount.WithLabelValues("supersede_delete").Inc()
				return
			}
			if err == nil {
				r.metrics.SupersedeDeletes.Inc()
			}
		}(text)
	}
	wg.Wait()

	adds := r.adds(draft)
	addErrs := make([]error, len(adds))
	wg = sync.WaitGroup{}
	for i, add := range adds {
		wg.Add(1)
		go func(i int, add entity.PreferenceAdd) {
			defer wg.Done()
			if err := r.memoryRepo.AddPreference(ctx, r.userID, add); err != nil {
				addErrs[i] = fmt.Errorf("add %q: %w", add.Content, err)
			}
		}(i, add)
	}
	wg.Wait()

	if err := errors.Join(addErrs...); err != nil {
		r.logger.Error("Preference commit failed",
			"userId", r.userID,
			"error", err)
		r.metrics.ErrorsCount.WithLabelValues("commit").Inc()
		return err
	}

	r.mu.Lock()
	r.state = StateCommitted
	r.mu.Unlock()

	r.metrics.PreferencesCommitted.Inc()
	r.metrics.CommitDuration.Observe(time.Since(start).Seconds())

	r.logger.Info("Preferences committed",
		"userId", r.userID,
		"adds", len(adds),
		"durationMs", time.Since(start).Milliseconds())

	if r.events != nil {
		r.events.Publish(PreferenceEvent{UserID: r.userID, Draft: draft})
	}
	return nil
}
