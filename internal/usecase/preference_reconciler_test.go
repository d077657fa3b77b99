package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skymate-service/internal/domain/entity"
	"skymate-service/internal/domain/repository"
	"skymate-service/pkg/logger"
	"skymate-service/pkg/metrics"
)

// one registration per test binary; prometheus panics on duplicates
var testMetrics = metrics.NewMetrics("test")

type fakeMemoryRepo struct {
	mu         sync.Mutex
	deletes    []string
	adds       []entity.PreferenceAdd
	deleteErr  error
	addErrFor  map[string]error
	history    []entity.BookingMemoryEntry
	historyErr error
}

func (f *fakeMemoryRepo) ListPreferences(ctx context.Context, userID string) (map[string][]entity.PreferenceEntry, error) {
	return map[string][]entity.PreferenceEntry{}, nil
}

func (f *fakeMemoryRepo) AddPreference(ctx context.Context, userID string, add entity.PreferenceAdd) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.addErrFor[add.Content]; ok {
		return err
	}
	f.adds = append(f.adds, add)
	return nil
}

func (f *fakeMemoryRepo) DeletePreference(ctx context.Context, userID, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, text)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	return nil
}

func (f *fakeMemoryRepo) TravelHistory(ctx context.Context, userID string) ([]entity.BookingMemoryEntry, error) {
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	return f.history, nil
}

func (f *fakeMemoryRepo) RecordBooking(ctx context.Context, userID string, booking entity.BookingMemoryEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.history = append(f.history, booking)
	return nil
}

func (f *fakeMemoryRepo) addContents() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	contents := make([]string, len(f.adds))
	for i, add := range f.adds {
		contents[i] = add.Content
	}
	return contents
}

func newTestReconciler(repo repository.MemoryRepository, events *PreferenceEvents) *PreferenceReconciler {
	return NewPreferenceReconciler("user-1", repo, events, logger.Nop(), testMetrics)
}

var fullSupersedeSet = []string{
	"Direct flights only",
	"Avoid red-eye flights",
	"I prefer Economy class flights",
	"I prefer Business class flights",
	"I prefer First class flights",
	"I prefer Morning departures",
	"I prefer Afternoon departures",
	"I prefer Evening departures",
	"I prefer One Way trips",
	"I prefer Round Trip trips",
}

func TestCommitDeletesFullSupersedeSet(t *testing.T) {
	repo := &fakeMemoryRepo{}
	r := newTestReconciler(repo, nil)

	r.SetDirectFlightsOnly(true)
	require.NoError(t, r.Commit(context.Background()))

	assert.ElementsMatch(t, fullSupersedeSet, repo.deletes)
}

func TestCommitAddsDraftFields(t *testing.T) {
	repo := &fakeMemoryRepo{}
	r := newTestReconciler(repo, nil)

	r.SetDirectFlightsOnly(true)
	r.SetAvoidRedEye(true)
	require.NoError(t, r.SetCabinClass("Business"))
	require.NoError(t, r.SetPreferredTime("Morning"))
	require.NoError(t, r.SetTripType("Round Trip"))

	require.NoError(t, r.Commit(context.Background()))

	assert.ElementsMatch(t, []string{
		"Direct flights only",
		"Avoid red-eye flights",
		"I prefer Business class flights",
		"I prefer Morning departures",
		"I prefer Round Trip trips",
	}, repo.addContents())

	for _, add := range repo.adds {
		assert.Equal(t, "preference", add.Category)
	}
	assert.Equal(t, StateCommitted, r.State())
}

func TestCommitEmptyDraftOnlyDeletes(t *testing.T) {
	repo := &fakeMemoryRepo{}
	r := newTestReconciler(repo, nil)

	require.NoError(t, r.Commit(context.Background()))

	assert.Empty(t, repo.adds)
	assert.Len(t, repo.deletes, len(fullSupersedeSet))
	assert.Equal(t, StateCommitted, r.State())
}

func TestCommitToleratesDeleteFailures(t *testing.T) {
	repo := &fakeMemoryRepo{deleteErr: errors.New("store down")}
	r := newTestReconciler(repo, nil)

	r.SetDirectFlightsOnly(true)
	require.NoError(t, r.Commit(context.Background()))

	assert.Equal(t, []string{"Direct flights only"}, repo.addContents())
	assert.Equal(t, StateCommitted, r.State())
}

func TestCommitToleratesNotFoundDeletes(t *testing.T) {
	repo := &fakeMemoryRepo{deleteErr: repository.ErrNotFound}
	r := newTestReconciler(repo, nil)

	r.SetAvoidRedEye(true)
	require.NoError(t, r.Commit(context.Background()))
	assert.Equal(t, StateCommitted, r.State())
}

func TestCommitSurfacesAddFailure(t *testing.T) {
	addErr := errors.New("write refused")
	repo := &fakeMemoryRepo{addErrFor: map[string]error{
		"I prefer Business class flights": addErr,
	}}
	r := newTestReconciler(repo, nil)

	r.SetDirectFlightsOnly(true)
	require.NoError(t, r.SetCabinClass("Business"))

	err := r.Commit(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, addErr)

	// draft survives for retry
	assert.Equal(t, StateDraft, r.State())
	assert.True(t, r.Draft().DirectFlightsOnly)
	assert.Equal(t, "Business", r.Draft().CabinClass)
}

func TestCommitNotifiesObserversAfterAdds(t *testing.T) {
	repo := &fakeMemoryRepo{}
	events := NewPreferenceEvents()

	var got []PreferenceEvent
	events.Subscribe(func(e PreferenceEvent) {
		// by the time observers run, every add must have settled
		assert.NotEmpty(t, repo.addContents())
		got = append(got, e)
	})

	r := newTestReconciler(repo, events)
	r.SetDirectFlightsOnly(true)
	require.NoError(t, r.Commit(context.Background()))

	require.Len(t, got, 1)
	assert.Equal(t, "user-1", got[0].UserID)
	assert.True(t, got[0].Draft.DirectFlightsOnly)
}

func TestCommitFailureDoesNotNotify(t *testing.T) {
	repo := &fakeMemoryRepo{addErrFor: map[string]error{
		"Direct flights only": errors.New("nope"),
	}}
	events := NewPreferenceEvents()

	notified := false
	events.Subscribe(func(PreferenceEvent) { notified = true })

	r := newTestReconciler(repo, events)
	r.SetDirectFlightsOnly(true)
	require.Error(t, r.Commit(context.Background()))
	assert.False(t, notified)
}

func TestSettersValidateValues(t *testing.T) {
	r := newTestReconciler(&fakeMemoryRepo{}, nil)

	assert.Error(t, r.SetCabinClass("Premium"))
	assert.Error(t, r.SetPreferredTime("Midnight"))
	assert.Error(t, r.SetTripType("Multi City"))

	assert.NoError(t, r.SetCabinClass(""))
	assert.NoError(t, r.SetCabinClass("First"))
	assert.NoError(t, r.SetPreferredTime("Evening"))
	assert.NoError(t, r.SetTripType("One Way"))
}

func TestApplyDraftAndReset(t *testing.T) {
	r := newTestReconciler(&fakeMemoryRepo{}, nil)

	err := r.ApplyDraft(entity.SessionPreferenceDraft{
		DirectFlightsOnly: true,
		CabinClass:        "Economy",
	})
	require.NoError(t, err)
	assert.False(t, r.Draft().Empty())

	assert.Error(t, r.ApplyDraft(entity.SessionPreferenceDraft{CabinClass: "Luxury"}))

	r.Reset()
	assert.True(t, r.Draft().Empty())
	assert.Equal(t, StateDraft, r.State())
}

func TestEditAfterCommitReturnsToDraft(t *testing.T) {
	repo := &fakeMemoryRepo{}
	r := newTestReconciler(repo, nil)

	r.SetDirectFlightsOnly(true)
	require.NoError(t, r.Commit(context.Background()))
	require.Equal(t, StateCommitted, r.State())

	r.SetAvoidRedEye(true)
	assert.Equal(t, StateDraft, r.State())
}

func TestSupersedeThenAddLeavesSingleEntry(t *testing.T) {
	repo := &fakeMemoryRepo{}
	r := newTestReconciler(repo, nil)

	require.NoError(t, r.SetCabinClass("Economy"))
	require.NoError(t, r.Commit(context.Background()))
	require.NoError(t, r.SetCabinClass("Business"))
	require.NoError(t, r.Commit(context.Background()))

	// both commits deleted every cabin phrasing before re-adding
	var cabinAdds []string
	for _, content := range repo.addContents() {
		if content == "I prefer Economy class flights" || content == "I prefer Business class flights" {
			cabinAdds = append(cabinAdds, content)
		}
	}
	assert.Equal(t, []string{"I prefer Economy class flights", "I prefer Business class flights"}, cabinAdds)

	deleted := 0
	for _, text := range repo.deletes {
		if text == "I prefer Economy class flights" {
			deleted++
		}
	}
	assert.Equal(t, 2, deleted, "each commit must supersede every cabin phrasing")
}
