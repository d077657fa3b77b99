package utils

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"skymate-service/pkg/logger"
)

// MemoryParser recovers structured fields from free-text memory records. Each
// field has its own ordered list of pattern alternatives; the first match wins
// and a record that matches nothing still parses to an empty MemoryFields.
type MemoryParser struct {
	logger logger.Logger
}

// NewMemoryParser creates a new memory record parser
func NewMemoryParser(logger logger.Logger) *MemoryParser {
	return &MemoryParser{logger: logger}
}

// Route patterns, in priority order: explicit arrow notation, "from A to B",
// "flight from A (to|and) B".
var routePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b([A-Z]{3})\s*(?:→|->)\s*([A-Z]{3})\b`),
	regexp.MustCompile(`\b(?i:from)\s+([A-Z]{3})\s+(?i:to)\s+([A-Z]{3})\b`),
	regexp.MustCompile(`\b(?i:flight\s+from)\s+([A-Z]{3})\s+(?i:to|and)\s+([A-Z]{3})\b`),
}

// Booking descriptions additionally use "from City Name (CODE) to City Name
// (CODE)"; the parenthesized codes are what we keep.
var bookingRoutePatterns = append(routePatterns[:len(routePatterns):len(routePatterns)],
	regexp.MustCompile(`\b(?i:from)\s+[A-Za-z .'-]+?\(([A-Z]{3})\)\s+(?i:to)\s+[A-Za-z .'-]+?\(([A-Z]{3})\)`),
)

// Carrier code patterns: a two-letter code sitting directly on a route marker,
// then a "with XX" mention. Both guard against AM/PM.
var carrierCodePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b([A-Z]{2})\s+[A-Z]{3}\s*(?:→|->)`),
	regexp.MustCompile(`\b(?i:with)\s+([A-Z]{2})\b`),
}

// Airline name patterns: sentence templates where a free-text name precedes
// the route.
var airlineNamePatterns = []*regexp.Regexp{
	regexp.MustCompile(`([A-Z][A-Za-z]+(?:\s+[A-Z][A-Za-z]+)*)\s+[A-Z]{2}\s+[A-Z]{3}\s*(?:→|->)`),
	regexp.MustCompile(`\b(?i:on)\s+([A-Z][A-Za-z]+(?:\s+[A-Z][A-Za-z]+)*)\s+(?i:from)\s+[A-Z]{3}\s+(?i:to)\s+[A-Z]{3}`),
	regexp.MustCompile(`\b(?i:booked\s+a)\s+([A-Z][A-Za-z]+(?:\s+[A-Z][A-Za-z]+)*)\s+(?i:flight)`),
}

// Time window patterns: parenthesized "(8:00 AM - 4:30 PM)" span, then a
// "from TIME to TIME" span.
var timeWindowPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\(\s*(\d{1,2}:\d{2}\s*(?i:[AP]M))\s*-\s*(\d{1,2}:\d{2}\s*(?i:[AP]M))\s*\)`),
	regexp.MustCompile(`\b(?i:from)\s+(\d{1,2}:\d{2}\s*(?i:[AP]M))\s+(?i:to)\s+(\d{1,2}:\d{2}\s*(?i:[AP]M))`),
}

// Date patterns: MM/DD/YYYY normalized to YYYY-MM-DD, then a literal ISO date.
var (
	reDateSlash = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{4})\b`)
	reDateISO   = regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2})\b`)
)

// Cabin class patterns: bullet-separated token, "in CLASS class", "cabin: CLASS".
var cabinPatterns = []*regexp.Regexp{
	regexp.MustCompile(`•\s*(?i:(premium\s+economy|economy|business|first))\b`),
	regexp.MustCompile(`\b(?i:in)\s+(?i:(premium\s+economy|economy|business|first))\s+(?i:class)`),
	regexp.MustCompile(`(?i:cabin:)\s*(?i:(premium\s+economy|economy|business|first))\b`),
}

// Price patterns: "USD 450", "450 USD", "$450".
var pricePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i:USD)\s*(\d+(?:\.\d{1,2})?)`),
	regexp.MustCompile(`(\d+(?:\.\d{1,2})?)\s*(?i:USD)\b`),
	regexp.MustCompile(`\$\s*(\d+(?:\.\d{1,2})?)`),
}

// Passenger count patterns: "2 passengers", "for 2", "tickets: 2".
var passengerPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(\d{1,2})\s+(?i:passengers?)\b`),
	regexp.MustCompile(`\b(?i:for)\s+(\d{1,2})\b`),
	regexp.MustCompile(`(?i:tickets:)\s*(\d{1,2})\b`),
}

var (
	reReturnMarker = regexp.MustCompile(`\|\s*(?i:return)\b`)
	reRoundTrip    = regexp.MustCompile(`(?i:\bround\s*-?\s*trip\b|\breturn\b)`)
	reOneWay       = regexp.MustCompile(`(?i:\bone\s*-?\s*way\b|\bsingle\b|\boutbound\b)`)
	reTripSuffix   = regexp.MustCompile(`(?i:\s+(round\s*-?\s*trip|one\s*-?\s*way)\s*$)`)
)

// Parse extracts structured fields from a free-text memory record. It never
// fails; unmatched fields are simply absent.
func (p *MemoryParser) Parse(raw string) MemoryFields {
	return p.parse(raw, routePatterns)
}

// ParseBooking behaves like Parse but also recognizes the booking-description
// route form "from City (CODE) to City (CODE)".
func (p *MemoryParser) ParseBooking(raw string) MemoryFields {
	return p.parse(raw, bookingRoutePatterns)
}

func (p *MemoryParser) parse(raw string, routes []*regexp.Regexp) MemoryFields {
	fields := MemoryFields{}

	// The "| Return ..." suffix describes the return leg only; everything
	// before it feeds the outbound extractors.
	outbound := raw
	if loc := reReturnMarker.FindStringIndex(raw); loc != nil {
		outbound = raw[:loc[0]]
		fields.Return = parseReturnLeg(raw[loc[1]:], routes)
	}

	if origin, dest, ok := extractRoute(outbound, routes); ok {
		fields.Origin = origin
		fields.Destination = dest
	}

	fields.AirlineCode = extractCarrierCode(outbound)
	fields.AirlineName = extractAirlineName(outbound)
	if fields.AirlineName == "" && fields.AirlineCode != "" {
		if name, ok := CarrierName(fields.AirlineCode); ok {
			fields.AirlineName = name
		}
	}

	if depart, arrive, ok := extractTimeWindow(outbound); ok {
		fields.DepartureTime = depart
		fields.ArrivalTime = arrive
	}

	fields.DepartureDate = extractDate(outbound)
	fields.CabinClass = extractCabinClass(outbound)

	if price, currency, ok := extractPrice(outbound); ok {
		fields.Price = &price
		fields.Currency = currency
	}

	fields.Passengers = extractPassengerCount(outbound)
	fields.TripType = extractTripType(raw, fields.Return != nil)

	p.logger.Debug("Parsed memory record",
		"route", fmt.Sprintf("%s-%s", fields.Origin, fields.Destination),
		"airline", fields.AirlineName,
		"tripType", fields.TripType)

	return fields
}

func parseReturnLeg(suffix string, routes []*regexp.Regexp) *ReturnLeg {
	leg := &ReturnLeg{}
	if origin, dest, ok := extractRoute(suffix, routes); ok {
		leg.Origin = origin
		leg.Destination = dest
	}
	leg.Date = extractDate(suffix)
	if depart, arrive, ok := extractTimeWindow(suffix); ok {
		leg.DepartureTime = depart
		leg.ArrivalTime = arrive
	}
	return leg
}

func extractRoute(s string, routes []*regexp.Regexp) (string, string, bool) {
	for _, re := range routes {
		if m := re.FindStringSubmatch(s); m != nil {
			return strings.ToUpper(m[1]), strings.ToUpper(m[2]), true
		}
	}
	return "", "", false
}

func extractCarrierCode(s string) string {
	for _, re := range carrierCodePatterns {
		for _, m := range re.FindAllStringSubmatch(s, -1) {
			code := m[1]
			// Two-letter time-of-day markers are not carrier codes.
			if code == "AM" || code == "PM" {
				continue
			}
			return code
		}
	}
	return ""
}

func extractAirlineName(s string) string {
	for _, re := range airlineNamePatterns {
		if m := re.FindStringSubmatch(s); m != nil {
			if name := NormalizeAirlineName(m[1]); name != "" {
				return name
			}
		}
	}
	return ""
}

func extractTimeWindow(s string) (string, string, bool) {
	for _, re := range timeWindowPatterns {
		if m := re.FindStringSubmatch(s); m != nil {
			return normalizeClock(m[1]), normalizeClock(m[2]), true
		}
	}
	return "", "", false
}

func extractDate(s string) string {
	if m := reDateSlash.FindStringSubmatch(s); m != nil {
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		return fmt.Sprintf("%s-%02d-%02d", m[3], month, day)
	}
	if m := reDateISO.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return ""
}

func extractCabinClass(s string) string {
	for _, re := range cabinPatterns {
		if m := re.FindStringSubmatch(s); m != nil {
			return normalizeCabinClass(m[1])
		}
	}
	return ""
}

func extractPrice(s string) (float64, string, bool) {
	for _, re := range pricePatterns {
		if m := re.FindStringSubmatch(s); m != nil {
			price, err := strconv.ParseFloat(m[1], 64)
			if err != nil {
				continue
			}
			return price, "USD", true
		}
	}
	return 0, "", false
}

func extractPassengerCount(s string) int {
	for _, re := range passengerPatterns {
		if m := re.FindStringSubmatch(s); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
				return n
			}
		}
	}
	return 0
}

func extractTripType(s string, hasReturnLeg bool) string {
	if hasReturnLeg || reRoundTrip.MatchString(s) {
		return TripTypeRoundTrip
	}
	if reOneWay.MatchString(s) {
		return TripTypeOneWay
	}
	// No marker and no return leg defaults to one way.
	return TripTypeOneWay
}

func normalizeClock(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	// Collapse "8:00AM" to "8:00 AM".
	if idx := strings.IndexAny(s, "AP"); idx > 0 && s[idx-1] != ' ' {
		s = s[:idx] + " " + s[idx:]
	}
	return s
}

func normalizeCabinClass(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// NormalizeIATA upper-cases a candidate airport code and rejects anything
// that is not exactly three letters.
func NormalizeIATA(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) != 3 {
		return ""
	}
	return s
}

// NormalizeCarrierCode upper-cases a candidate carrier code and rejects
// anything that is not exactly two letters.
func NormalizeCarrierCode(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) != 2 {
		return ""
	}
	return s
}

// NormalizeAirlineName cleans a captured airline name: trip-type suffixes are
// stripped, bare articles and stray carrier codes are rejected.
func NormalizeAirlineName(s string) string {
	s = strings.TrimSpace(strings.ReplaceAll(s, "_", " "))
	s = strings.TrimSpace(reTripSuffix.ReplaceAllString(s, ""))
	if s == "" {
		return ""
	}
	switch strings.ToLower(s) {
	case "a", "an", "the":
		return ""
	}
	if len(s) == 2 && s == strings.ToUpper(s) {
		return ""
	}
	return s
}

// NormalizeTripType maps free-form trip type text to the two fixed labels
func NormalizeTripType(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	lower := strings.ToLower(s)
	if strings.Contains(lower, "round") {
		return TripTypeRoundTrip
	}
	if strings.Contains(lower, "one") {
		return TripTypeOneWay
	}
	return s
}
