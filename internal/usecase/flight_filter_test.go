package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skymate-service/internal/domain/entity"
)

func floatPtr(v float64) *float64 { return &v }

func stopOffer(id string, price string, segments int, carrier, carrierName string, tags ...string) entity.FlightOffer {
	segs := make([]entity.Segment, segments)
	for i := range segs {
		segs[i] = entity.Segment{CarrierCode: carrier, CarrierName: carrierName}
	}
	return entity.FlightOffer{
		ID:          id,
		Price:       entity.FlightPrice{Total: price, Currency: "USD"},
		Itineraries: []entity.Itinerary{{Duration: "PT5H", Segments: segs}},
		Tags:        tags,
	}
}

func TestFilterPriceBoundsAreInclusive(t *testing.T) {
	engine := NewFlightFilterEngine()
	offers := []entity.FlightOffer{
		stopOffer("low", "99.99", 1, "UA", "United Airlines"),
		stopOffer("min", "100", 1, "UA", "United Airlines"),
		stopOffer("mid", "150", 1, "UA", "United Airlines"),
		stopOffer("max", "200", 1, "UA", "United Airlines"),
		stopOffer("high", "200.01", 1, "UA", "United Airlines"),
	}

	out := engine.Filter(offers, FlightConstraints{
		PriceMin: floatPtr(100),
		PriceMax: floatPtr(200),
	})

	ids := make([]string, len(out))
	for i, o := range out {
		ids[i] = o.ID
	}
	assert.Equal(t, []string{"min", "mid", "max"}, ids)
}

func TestFilterStopSelections(t *testing.T) {
	engine := NewFlightFilterEngine()
	offers := []entity.FlightOffer{
		stopOffer("direct", "100", 1, "UA", "United Airlines"),
		stopOffer("one-stop", "100", 2, "UA", "United Airlines"),
		stopOffer("two-stop", "100", 3, "UA", "United Airlines"),
		stopOffer("three-stop", "100", 4, "UA", "United Airlines"),
	}

	tests := []struct {
		name  string
		stops map[int]bool
		want  []string
	}{
		{"no filter", nil, []string{"direct", "one-stop", "two-stop", "three-stop"}},
		{"direct only", map[int]bool{0: true}, []string{"direct"}},
		{"one stop", map[int]bool{1: true}, []string{"one-stop"}},
		{"two or more", map[int]bool{2: true}, []string{"two-stop", "three-stop"}},
		{"union", map[int]bool{0: true, 2: true}, []string{"direct", "two-stop", "three-stop"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := engine.Filter(offers, FlightConstraints{Stops: tt.stops})
			ids := make([]string, len(out))
			for i, o := range out {
				ids[i] = o.ID
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestFilterAirlineSelections(t *testing.T) {
	engine := NewFlightFilterEngine()
	offers := []entity.FlightOffer{
		stopOffer("ua", "100", 1, "UA", "United Airlines"),
		stopOffer("ba", "100", 1, "BA", "British Airways"),
	}

	// match by name
	out := engine.Filter(offers, FlightConstraints{Airlines: map[string]bool{"British Airways": true}})
	require.Len(t, out, 1)
	assert.Equal(t, "ba", out[0].ID)

	// match by code
	out = engine.Filter(offers, FlightConstraints{Airlines: map[string]bool{"UA": true}})
	require.Len(t, out, 1)
	assert.Equal(t, "ua", out[0].ID)

	// no match
	out = engine.Filter(offers, FlightConstraints{Airlines: map[string]bool{"Lufthansa": true}})
	assert.Empty(t, out)
}

func TestFilterResetReproducesTagSortedOriginal(t *testing.T) {
	engine := NewFlightFilterEngine()
	offers := []entity.FlightOffer{
		stopOffer("plain", "100", 1, "UA", "United Airlines"),
		stopOffer("top", "150", 1, "UA", "United Airlines", entity.TagBest),
		stopOffer("cheap", "90", 1, "UA", "United Airlines", entity.TagCheapest),
	}

	filtered := engine.Filter(offers, FlightConstraints{})
	assert.Equal(t, TagSort(offers), filtered)
	assert.True(t, FlightConstraints{}.Empty())
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	engine := NewFlightFilterEngine()
	offers := []entity.FlightOffer{
		stopOffer("b", "100", 1, "UA", "United Airlines"),
		stopOffer("a", "100", 1, "UA", "United Airlines", entity.TagBest),
	}

	engine.Filter(offers, FlightConstraints{PriceMax: floatPtr(50)})

	assert.Equal(t, "b", offers[0].ID)
	assert.Equal(t, "a", offers[1].ID)
}
