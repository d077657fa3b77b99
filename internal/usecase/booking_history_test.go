package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skymate-service/internal/domain/entity"
	"skymate-service/pkg/logger"
	"skymate-service/pkg/utils"
)

type fakeAirlineRepo struct {
	names map[string]string
	err   error
}

func (f *fakeAirlineRepo) GetByCode(ctx context.Context, code string) (*entity.Airline, error) {
	if f.err != nil {
		return nil, f.err
	}
	name, ok := f.names[code]
	if !ok {
		return nil, errors.New("record not found")
	}
	return &entity.Airline{Code: code, Name: name}, nil
}

func newTestHistoryParser(repo *fakeMemoryRepo, airlines *fakeAirlineRepo) *BookingHistoryParser {
	log := logger.Nop()
	return NewBookingHistoryParser(repo, airlines, utils.NewMemoryParser(log), log, testMetrics)
}

func TestHistoryExcludesSearchMemories(t *testing.T) {
	repo := &fakeMemoryRepo{history: []entity.BookingMemoryEntry{
		{Memory: "User searched for flights from NYC to LHR"},
		{Memory: "User Searched business class to Tokyo"},
		{Memory: "User booked a flight from IAH to SIN with AC on 2025-03-02"},
	}}
	p := newTestHistoryParser(repo, &fakeAirlineRepo{})

	records := p.History(context.Background(), "user-1")

	require.Len(t, records, 1)
	assert.Equal(t, "IAH", records[0].Origin)
	assert.Equal(t, "SIN", records[0].Destination)
}

func TestHistoryExcludesEntriesWithoutRoute(t *testing.T) {
	repo := &fakeMemoryRepo{history: []entity.BookingMemoryEntry{
		{Memory: "prefers window seats"},
		{AirlineCode: "UA", DepartureDate: "2024-06-01"},
	}}
	p := newTestHistoryParser(repo, &fakeAirlineRepo{})

	assert.Empty(t, p.History(context.Background(), "user-1"))
}

func TestHistoryStructuredFieldsWin(t *testing.T) {
	repo := &fakeMemoryRepo{history: []entity.BookingMemoryEntry{
		{
			Origin:      "jfk",
			Destination: "lax",
			CabinClass:  "Business",
			Memory:      "United UA SFO → SEA on 2024-01-15 • Economy • USD 450",
		},
	}}
	p := newTestHistoryParser(repo, &fakeAirlineRepo{})

	records := p.History(context.Background(), "user-1")

	require.Len(t, records, 1)
	// structured route and cabin beat the parsed text
	assert.Equal(t, "JFK", records[0].Origin)
	assert.Equal(t, "LAX", records[0].Destination)
	assert.Equal(t, "Business", records[0].CabinClass)
	// text still fills the gaps
	assert.Equal(t, "2024-01-15", records[0].DepartureDate)
	assert.Equal(t, "UA", records[0].AirlineCode)
	require.NotNil(t, records[0].Price)
	assert.Equal(t, 450.0, *records[0].Price)
}

func TestHistoryResolvesAirlineFromMasterTable(t *testing.T) {
	repo := &fakeMemoryRepo{history: []entity.BookingMemoryEntry{
		{Origin: "HND", Destination: "CTS", AirlineCode: "ZR"},
	}}
	airlines := &fakeAirlineRepo{names: map[string]string{"ZR": "Zest Airways"}}
	p := newTestHistoryParser(repo, airlines)

	records := p.History(context.Background(), "user-1")

	require.Len(t, records, 1)
	assert.Equal(t, "Zest Airways", records[0].AirlineName)
}

func TestHistoryFallsBackToBuiltinCarrierList(t *testing.T) {
	repo := &fakeMemoryRepo{history: []entity.BookingMemoryEntry{
		{Origin: "YYZ", Destination: "YVR", AirlineCode: "AC"},
	}}
	airlines := &fakeAirlineRepo{err: errors.New("db down")}
	p := newTestHistoryParser(repo, airlines)

	records := p.History(context.Background(), "user-1")

	require.Len(t, records, 1)
	assert.Equal(t, "Air Canada", records[0].AirlineName)
}

func TestHistoryDeduplicatesBookings(t *testing.T) {
	repo := &fakeMemoryRepo{history: []entity.BookingMemoryEntry{
		{Origin: "JFK", Destination: "LAX", AirlineCode: "UA", DepartureDate: "2024-06-01"},
		{Memory: "United UA JFK → LAX on 2024-06-01"},
		{Origin: "JFK", Destination: "LAX", AirlineCode: "UA", DepartureDate: "2024-06-08"},
	}}
	p := newTestHistoryParser(repo, &fakeAirlineRepo{})

	records := p.History(context.Background(), "user-1")
	assert.Len(t, records, 2)
}

func TestHistoryFetchFailureDegradesToEmpty(t *testing.T) {
	repo := &fakeMemoryRepo{historyErr: errors.New("service unavailable")}
	p := newTestHistoryParser(repo, &fakeAirlineRepo{})

	records := p.History(context.Background(), "user-1")
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestHistoryReturnLegForcesRoundTrip(t *testing.T) {
	repo := &fakeMemoryRepo{history: []entity.BookingMemoryEntry{
		{
			Origin:            "JFK",
			Destination:       "LAX",
			ReturnOrigin:      "LAX",
			ReturnDestination: "JFK",
			ReturnDate:        "2024-05-10",
		},
	}}
	p := newTestHistoryParser(repo, &fakeAirlineRepo{})

	records := p.History(context.Background(), "user-1")

	require.Len(t, records, 1)
	require.NotNil(t, records[0].ReturnLeg)
	assert.Equal(t, "LAX", records[0].ReturnLeg.Origin)
	assert.Equal(t, utils.TripTypeRoundTrip, records[0].TripType)
}
