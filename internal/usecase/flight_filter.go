package usecase

import (
	"skymate-service/internal/domain/entity"
)

// FlightConstraints is the user's current filter selection. Nil price bounds
// and empty sets mean the corresponding filter is off.
type FlightConstraints struct {
	PriceMin *float64        `json:"priceMin,omitempty"`
	PriceMax *float64        `json:"priceMax,omitempty"`
	Stops    map[int]bool    `json:"stops,omitempty"`
	Airlines map[string]bool `json:"airlines,omitempty"`
}

// Empty reports whether no constraint is active
func (c FlightConstraints) Empty() bool {
	return c.PriceMin == nil && c.PriceMax == nil &&
		len(c.Stops) == 0 && len(c.Airlines) == 0
}

// FlightFilterEngine filters and sorts flight offer sets. Filter is a pure
// function recomputed in full on every constraint change.
type FlightFilterEngine struct{}

// NewFlightFilterEngine creates a new filter engine
func NewFlightFilterEngine() *FlightFilterEngine {
	return &FlightFilterEngine{}
}

// Filter returns the offers matching the constraints, re-sorted by tag
// priority. The input is never mutated, and empty constraints reproduce the
// tag-sorted original set exactly.
func (f *FlightFilterEngine) Filter(offers []entity.FlightOffer, constraints FlightConstraints) []entity.FlightOffer {
	matched := make([]entity.FlightOffer, 0, len(offers))
	for _, offer := range offers {
		if f.matches(offer, constraints) {
			matched = append(matched, offer)
		}
	}
	return TagSort(matched)
}

func (f *FlightFilterEngine) matches(offer entity.FlightOffer, c FlightConstraints) bool {
	price := offer.Price.Amount()
	if c.PriceMin != nil && price < *c.PriceMin {
		return false
	}
	if c.PriceMax != nil && price > *c.PriceMax {
		return false
	}

	if len(c.Stops) > 0 && !f.matchesStops(offer, c.Stops) {
		return false
	}
	if len(c.Airlines) > 0 && !f.matchesAirlines(offer, c.Airlines) {
		return false
	}
	return true
}

// matchesStops checks the first itinerary's stop count against the selected
// buckets; the 2 bucket means two or more stops.
func (f *FlightFilterEngine) matchesStops(offer entity.FlightOffer, stops map[int]bool) bool {
	if len(offer.Itineraries) == 0 {
		return false
	}
	n := offer.Itineraries[0].Stops()
	if n >= 2 {
		return stops[2]
	}
	return stops[n]
}

// matchesAirlines checks the first itinerary's carriers, by name or code,
// against the selected airlines
func (f *FlightFilterEngine) matchesAirlines(offer entity.FlightOffer, airlines map[string]bool) bool {
	if len(offer.Itineraries) == 0 {
		return false
	}
	for _, seg := range offer.Itineraries[0].Segments {
		if airlines[seg.CarrierName] || airlines[seg.CarrierCode] {
			return true
		}
	}
	return false
}
