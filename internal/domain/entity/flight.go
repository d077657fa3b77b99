package entity

import (
	"regexp"
	"strconv"
)

// Display tags attached to flight offers. An offer carries at most one.
const (
	TagBest     = "best"
	TagCheapest = "cheapest"
	TagFastest  = "fastest"
)

// FlightPrice is the monetary part of an offer. Total arrives as a string on
// the wire.
type FlightPrice struct {
	Total    string `json:"total"`
	Currency string `json:"currency,omitempty"`
	Base     string `json:"base,omitempty"`
}

// Amount returns the total as a float, 0 when unparseable
func (p FlightPrice) Amount() float64 {
	v, err := strconv.ParseFloat(p.Total, 64)
	if err != nil {
		return 0
	}
	return v
}

// SegmentPoint is one end of a flight segment
type SegmentPoint struct {
	IataCode string `json:"iataCode"`
	Terminal string `json:"terminal,omitempty"`
	At       string `json:"at,omitempty"`
}

// Segment is one flown leg of an itinerary
type Segment struct {
	Departure     SegmentPoint `json:"departure"`
	Arrival       SegmentPoint `json:"arrival"`
	CarrierCode   string       `json:"carrierCode,omitempty"`
	CarrierName   string       `json:"carrierName,omitempty"`
	Number        string       `json:"number,omitempty"`
	Aircraft      string       `json:"aircraft,omitempty"`
	Duration      string       `json:"duration,omitempty"`
	NumberOfStops int          `json:"numberOfStops,omitempty"`
}

var reISODuration = regexp.MustCompile(`PT(?:(\d+)H)?(?:(\d+)M)?`)

// DurationMinutes parses an ISO-8601 duration such as PT7H35M into minutes.
// Returns 0 for anything it cannot read.
func DurationMinutes(iso string) int {
	m := reISODuration.FindStringSubmatch(iso)
	if m == nil {
		return 0
	}
	hours, _ := strconv.Atoi(m[1])
	mins, _ := strconv.Atoi(m[2])
	return hours*60 + mins
}

// Itinerary is one direction of an offer
type Itinerary struct {
	Duration string    `json:"duration,omitempty"`
	Segments []Segment `json:"segments"`
}

// Stops returns the number of intermediate stops in this itinerary
func (i Itinerary) Stops() int {
	if len(i.Segments) == 0 {
		return 0
	}
	return len(i.Segments) - 1
}

// Minutes returns the itinerary duration in minutes
func (i Itinerary) Minutes() int {
	return DurationMinutes(i.Duration)
}

// FlightOffer is a searchable, taggable flight result
type FlightOffer struct {
	ID                     string      `json:"id"`
	Price                  FlightPrice `json:"price"`
	Itineraries            []Itinerary `json:"itineraries"`
	NumberOfBookableSeats  int         `json:"numberOfBookableSeats,omitempty"`
	ValidatingAirlineCodes []string    `json:"validatingAirlineCodes,omitempty"`
	TravelClass            string      `json:"travelClass,omitempty"`
	Tags                   []string    `json:"tags,omitempty"`
}

// TotalMinutes sums the durations of all itineraries
func (o FlightOffer) TotalMinutes() int {
	total := 0
	for _, it := range o.Itineraries {
		total += it.Minutes()
	}
	return total
}

// HasTag reports whether the offer carries the given tag
func (o FlightOffer) HasTag(tag string) bool {
	for _, t := range o.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
