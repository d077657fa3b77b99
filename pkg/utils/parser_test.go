package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skymate-service/pkg/logger"
)

func newTestParser() *MemoryParser {
	return NewMemoryParser(logger.Nop())
}

func TestParseArrowRecord(t *testing.T) {
	p := newTestParser()

	fields := p.Parse("United UA NYC → LHR on 2024-01-15 • Economy • USD 450")

	assert.Equal(t, "NYC", fields.Origin)
	assert.Equal(t, "LHR", fields.Destination)
	assert.Equal(t, "UA", fields.AirlineCode)
	assert.Equal(t, "United", fields.AirlineName)
	assert.Equal(t, "2024-01-15", fields.DepartureDate)
	assert.Equal(t, "Economy", fields.CabinClass)
	require.NotNil(t, fields.Price)
	assert.Equal(t, 450.0, *fields.Price)
	assert.Equal(t, "USD", fields.Currency)
	assert.Equal(t, TripTypeOneWay, fields.TripType)
}

func TestParseBookingSentence(t *testing.T) {
	p := newTestParser()

	fields := p.ParseBooking("User booked a flight from IAH to SIN with AC on 2025-03-02")

	assert.Equal(t, "IAH", fields.Origin)
	assert.Equal(t, "SIN", fields.Destination)
	assert.Equal(t, "AC", fields.AirlineCode)
	assert.Equal(t, "Air Canada", fields.AirlineName)
	assert.Equal(t, "2025-03-02", fields.DepartureDate)
	assert.Equal(t, TripTypeOneWay, fields.TripType)
}

func TestParseBookingCityCodeRoute(t *testing.T) {
	p := newTestParser()

	fields := p.ParseBooking("Booked from New York (JFK) to Los Angeles (LAX) for 2")

	assert.Equal(t, "JFK", fields.Origin)
	assert.Equal(t, "LAX", fields.Destination)
	assert.Equal(t, 2, fields.Passengers)
}

func TestParseReturnLeg(t *testing.T) {
	p := newTestParser()

	raw := "JFK → LAX on 2024-05-01 (8:00 AM - 11:30 AM) | Return LAX → JFK on 2024-05-10 (1:00 PM - 9:45 PM)"
	fields := p.Parse(raw)

	assert.Equal(t, "JFK", fields.Origin)
	assert.Equal(t, "LAX", fields.Destination)
	assert.Equal(t, "2024-05-01", fields.DepartureDate)
	assert.Equal(t, "8:00 AM", fields.DepartureTime)
	assert.Equal(t, "11:30 AM", fields.ArrivalTime)

	require.NotNil(t, fields.Return)
	assert.Equal(t, "LAX", fields.Return.Origin)
	assert.Equal(t, "JFK", fields.Return.Destination)
	assert.Equal(t, "2024-05-10", fields.Return.Date)
	assert.Equal(t, "1:00 PM", fields.Return.DepartureTime)
	assert.Equal(t, "9:45 PM", fields.Return.ArrivalTime)

	assert.Equal(t, TripTypeRoundTrip, fields.TripType)
}

func TestParseDateFormats(t *testing.T) {
	p := newTestParser()

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"slash date", "from SFO to SEA on 3/5/2024", "2024-03-05"},
		{"padded slash date", "from SFO to SEA on 12/25/2024", "2024-12-25"},
		{"iso date", "from SFO to SEA on 2024-03-05", "2024-03-05"},
		{"no date", "from SFO to SEA", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Parse(tt.raw).DepartureDate)
		})
	}
}

func TestParsePriceFormats(t *testing.T) {
	p := newTestParser()

	tests := []struct {
		name string
		raw  string
		want float64
	}{
		{"usd prefix", "MAD → BCN USD 89.50", 89.50},
		{"usd suffix", "MAD → BCN 89.50 USD", 89.50},
		{"dollar sign", "MAD → BCN $89", 89},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := p.Parse(tt.raw)
			require.NotNil(t, fields.Price)
			assert.Equal(t, tt.want, *fields.Price)
			assert.Equal(t, "USD", fields.Currency)
		})
	}
}

func TestParseUnparseableText(t *testing.T) {
	p := newTestParser()

	fields := p.Parse("likes window seats and quiet cabins")

	assert.Empty(t, fields.Origin)
	assert.Empty(t, fields.Destination)
	assert.Empty(t, fields.AirlineCode)
	assert.Empty(t, fields.AirlineName)
	assert.Empty(t, fields.DepartureDate)
	assert.Nil(t, fields.Price)
	assert.Nil(t, fields.Return)
	assert.False(t, fields.HasRoute())
}

func TestParseIdempotence(t *testing.T) {
	p := newTestParser()

	raws := []string{
		"United UA NYC → LHR on 2024-01-15 • Economy • USD 450",
		"User booked a flight from IAH to SIN with AC on 2025-03-02",
		"likes window seats",
		"",
	}
	for _, raw := range raws {
		assert.Equal(t, p.Parse(raw), p.Parse(raw), "raw: %q", raw)
	}
}

func TestParseCarrierCodeIgnoresTimeMarkers(t *testing.T) {
	p := newTestParser()

	// "AM"/"PM" must never be read as a carrier code
	fields := p.Parse("from BOS to ORD departing at 8:00 AM with PM service")
	assert.NotEqual(t, "AM", fields.AirlineCode)
	assert.NotEqual(t, "PM", fields.AirlineCode)
}

func TestNormalizeAirlineName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain name", "Singapore Airlines", "Singapore Airlines"},
		{"trip suffix stripped", "Delta one way", "Delta"},
		{"round trip suffix stripped", "United round-trip", "United"},
		{"bare article rejected", "a", ""},
		{"two letter code rejected", "UA", ""},
		{"underscores cleaned", "Air_France", "Air France"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeAirlineName(tt.in))
		})
	}
}

func TestNormalizeCodes(t *testing.T) {
	assert.Equal(t, "JFK", NormalizeIATA(" jfk "))
	assert.Equal(t, "", NormalizeIATA("NEWARK"))
	assert.Equal(t, "UA", NormalizeCarrierCode("ua"))
	assert.Equal(t, "", NormalizeCarrierCode("UAL"))
}

func TestNormalizeTripType(t *testing.T) {
	assert.Equal(t, TripTypeRoundTrip, NormalizeTripType("roundtrip"))
	assert.Equal(t, TripTypeRoundTrip, NormalizeTripType("Round Trip"))
	assert.Equal(t, TripTypeOneWay, NormalizeTripType("one-way"))
	assert.Equal(t, "", NormalizeTripType(""))
}

func TestCarrierName(t *testing.T) {
	name, ok := CarrierName("AC")
	assert.True(t, ok)
	assert.Equal(t, "Air Canada", name)

	_, ok = CarrierName("ZZ")
	assert.False(t, ok)
}
