package utils

// Trip type labels used across parsing and persistence
const (
	TripTypeRoundTrip = "Round Trip"
	TripTypeOneWay    = "One Way"
)

// ReturnLeg holds the fields recovered for the return portion of a round trip
type ReturnLeg struct {
	Origin        string
	Destination   string
	Date          string
	DepartureTime string
	ArrivalTime   string
}

// MemoryFields holds the fields recovered from a single free-text memory
// record. Zero values mean the field was absent from the text.
type MemoryFields struct {
	Origin        string
	Destination   string
	AirlineCode   string
	AirlineName   string
	DepartureDate string // YYYY-MM-DD
	DepartureTime string
	ArrivalTime   string
	Return        *ReturnLeg
	CabinClass    string
	Price         *float64
	Currency      string
	Passengers    int
	TripType      string
}

// HasRoute reports whether both endpoints of the outbound route were recovered
func (f MemoryFields) HasRoute() bool {
	return f.Origin != "" && f.Destination != ""
}
