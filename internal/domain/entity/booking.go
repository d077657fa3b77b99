package entity

import (
	"strconv"
	"strings"
)

// BookingMemoryEntry is one entry of a travel-history fetch. Entries range
// from fully structured bookings down to a free-text memory string, so every
// field is optional on the wire.
type BookingMemoryEntry struct {
	ID                  string   `json:"id,omitempty"`
	Origin              string   `json:"origin,omitempty"`
	Destination         string   `json:"destination,omitempty"`
	Airline             string   `json:"airline,omitempty"`
	AirlineCode         string   `json:"airline_code,omitempty"`
	AirlineName         string   `json:"airline_name,omitempty"`
	TripType            string   `json:"tripType,omitempty"`
	DepartureDate       string   `json:"departure_date,omitempty"`
	DepartureTime       string   `json:"departure_time,omitempty"`
	ArrivalTime         string   `json:"arrival_time,omitempty"`
	ReturnOrigin        string   `json:"return_origin,omitempty"`
	ReturnDestination   string   `json:"return_destination,omitempty"`
	ReturnDate          string   `json:"return_date,omitempty"`
	ReturnDepartureTime string   `json:"return_departure_time,omitempty"`
	ReturnArrivalTime   string   `json:"return_arrival_time,omitempty"`
	CabinClass          string   `json:"cabin_class,omitempty"`
	Price               *float64 `json:"price,omitempty"`
	Currency            string   `json:"currency,omitempty"`
	Passengers          int      `json:"passengers,omitempty"`
	BookedAt            string   `json:"booked_at,omitempty"`
	Memory              string   `json:"memory,omitempty"`
}

// BookingLeg is one direction of a booked trip
type BookingLeg struct {
	Origin        string `json:"origin,omitempty"`
	Destination   string `json:"destination,omitempty"`
	Date          string `json:"date,omitempty"`
	DepartureTime string `json:"departureTime,omitempty"`
	ArrivalTime   string `json:"arrivalTime,omitempty"`
}

// BookingRecord is a reconciled booking ready for travel-history display
type BookingRecord struct {
	ID             string      `json:"id,omitempty"`
	Origin         string      `json:"origin"`
	Destination    string      `json:"destination"`
	AirlineCode    string      `json:"airlineCode,omitempty"`
	AirlineName    string      `json:"airlineName,omitempty"`
	DepartureDate  string      `json:"departureDate,omitempty"`
	DepartureTime  string      `json:"departureTime,omitempty"`
	ArrivalTime    string      `json:"arrivalTime,omitempty"`
	ReturnLeg      *BookingLeg `json:"returnLeg,omitempty"`
	CabinClass     string      `json:"cabinClass,omitempty"`
	Price          *float64    `json:"price,omitempty"`
	Currency       string      `json:"currency,omitempty"`
	PassengerCount int         `json:"passengerCount,omitempty"`
	TripType       string      `json:"tripType,omitempty"`
	BookedAt       string      `json:"bookedAt,omitempty"`
}

// DedupeKey identifies a booking by route, dates, times, carrier, cabin,
// price and trip type. Entries sharing a key are the same booking seen
// through different memory records.
func (b BookingRecord) DedupeKey() string {
	price := ""
	if b.Price != nil {
		price = strconv.FormatFloat(*b.Price, 'f', 2, 64)
	}
	ret := ""
	if b.ReturnLeg != nil {
		ret = b.ReturnLeg.Date + "|" + b.ReturnLeg.DepartureTime
	}
	return strings.Join([]string{
		b.Origin, b.Destination,
		b.DepartureDate, b.DepartureTime,
		ret,
		b.AirlineCode, b.CabinClass,
		price, b.TripType,
	}, "|")
}
