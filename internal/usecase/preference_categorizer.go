package usecase

import (
	"regexp"
	"strings"

	"skymate-service/internal/domain/entity"
)

// PreferenceCategorizer assigns free-text preference statements to the fixed
// display categories. Rules are checked in order and the first match wins, so
// a statement always lands in exactly one category.
type PreferenceCategorizer struct{}

// NewPreferenceCategorizer creates a new preference categorizer
func NewPreferenceCategorizer() *PreferenceCategorizer {
	return &PreferenceCategorizer{}
}

var categoryRules = []struct {
	category entity.Category
	pattern  *regexp.Regexp
}{
	{entity.CategorySeat, regexp.MustCompile(`(?i)\b(seat|seats|seating|window|aisle|legroom|exit row)\b`)},
	{entity.CategoryRedEye, regexp.MustCompile(`(?i)\b(red[- ]?eye|overnight)\b`)},
	{entity.CategoryCabinClass, regexp.MustCompile(`(?i)\b(economy|business|first class|premium|cabin)\b`)},
	{entity.CategoryDepartureTime, regexp.MustCompile(`(?i)\b(morning|afternoon|evening|night|early|late|departure time|departures?)\b`)},
	{entity.CategoryTripType, regexp.MustCompile(`(?i)\b(round[- ]?trip|one[- ]?way|return trip)\b`)},
	{entity.CategoryBaggage, regexp.MustCompile(`(?i)\b(baggage|luggage|carry[- ]?on|checked bags?|bags?)\b`)},
	{entity.CategoryAirline, regexp.MustCompile(`(?i)\b(airlines?|airways|carriers?)\b`)},
	{entity.CategoryFlightType, regexp.MustCompile(`(?i)\b(direct|non[- ]?stop|layovers?|stops?|connections?)\b`)},
}

// Categorize returns the category for a preference statement. Statements
// matching no rule fall through to the general category.
func (c *PreferenceCategorizer) Categorize(text string) entity.Category {
	for _, rule := range categoryRules {
		if rule.pattern.MatchString(text) {
			return rule.category
		}
	}
	return entity.CategoryGeneral
}

// Record builds a categorized record from a raw statement
func (c *PreferenceCategorizer) Record(raw string) entity.PreferenceRecord {
	canonical := strings.TrimSpace(raw)
	return entity.PreferenceRecord{
		Category:      c.Categorize(canonical),
		RawText:       raw,
		CanonicalText: canonical,
	}
}

// Group buckets preference entries by category, preserving input order
// inside each bucket
func (c *PreferenceCategorizer) Group(entries []entity.PreferenceEntry) map[entity.Category][]entity.PreferenceEntry {
	grouped := make(map[entity.Category][]entity.PreferenceEntry)
	for _, e := range entries {
		cat := c.Categorize(e.Display())
		grouped[cat] = append(grouped[cat], e)
	}
	return grouped
}
