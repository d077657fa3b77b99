package entity

import "encoding/json"

// Category is the fixed category tag assigned to a preference statement
type Category string

const (
	CategorySeat          Category = "seat"
	CategoryAirline       Category = "airline"
	CategoryDepartureTime Category = "departure_time"
	CategoryFlightType    Category = "flight_type"
	CategoryCabinClass    Category = "cabin_class"
	CategoryRedEye        Category = "red_eye"
	CategoryBaggage       Category = "baggage"
	CategoryTripType      Category = "trip_type"
	CategoryGeneral       Category = "general"
)

// Categories returns the nine fixed categories in display order
func Categories() []Category {
	return []Category{
		CategorySeat,
		CategoryAirline,
		CategoryDepartureTime,
		CategoryFlightType,
		CategoryCabinClass,
		CategoryRedEye,
		CategoryBaggage,
		CategoryTripType,
		CategoryGeneral,
	}
}

// PreferenceRecord is a categorized preference as rendered by the display
// layer. Identity is the exact canonical text string.
type PreferenceRecord struct {
	Category      Category `json:"category"`
	RawText       string   `json:"rawText"`
	CanonicalText string   `json:"canonicalText"`
}

// PreferenceEntry is one entry of a preference list fetch. The memory
// collaborator returns either a bare string or an object carrying text/memory.
type PreferenceEntry struct {
	ID     string `json:"id,omitempty"`
	Text   string `json:"text,omitempty"`
	Memory string `json:"memory,omitempty"`
}

// UnmarshalJSON accepts both the bare-string and the object encoding
func (e *PreferenceEntry) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		e.Text = s
		e.Memory = s
		return nil
	}

	type alias PreferenceEntry
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*e = PreferenceEntry(a)
	return nil
}

// Display returns the string the UI should show for this entry
func (e PreferenceEntry) Display() string {
	if e.Text != "" {
		return e.Text
	}
	return e.Memory
}

// SessionPreferenceDraft holds the user's unsaved preference toggles. It has
// no server-side counterpart until committed.
type SessionPreferenceDraft struct {
	DirectFlightsOnly bool   `json:"directFlightsOnly"`
	AvoidRedEye       bool   `json:"avoidRedEye"`
	CabinClass        string `json:"cabinClass,omitempty"`
	PreferredTime     string `json:"preferredTime,omitempty"`
	TripType          string `json:"tripType,omitempty"`
}

// Empty reports whether no field of the draft is set
func (d SessionPreferenceDraft) Empty() bool {
	return !d.DirectFlightsOnly && !d.AvoidRedEye &&
		d.CabinClass == "" && d.PreferredTime == "" && d.TripType == ""
}

// PreferenceAdd is the preference add request shape
type PreferenceAdd struct {
	Category string `json:"category"`
	Type     string `json:"type"`
	Content  string `json:"content"`
}
