package usecase

import (
	"sort"

	"skymate-service/internal/domain/entity"
)

// Tag display priority, lower sorts first
const (
	priorityBest     = 1
	priorityCheapest = 2
	priorityFastest  = 3
	priorityUntagged = 999
)

// Relative weight of price versus duration when scoring the best offer
const (
	bestPriceWeight    = 0.6
	bestDurationWeight = 0.4
)

// FlightTagger assigns display tags to flight offer sets and defines the
// priority order used when sorting tagged offers.
type FlightTagger struct{}

// NewFlightTagger creates a new flight tagger
func NewFlightTagger() *FlightTagger {
	return &FlightTagger{}
}

// TagPriority returns the highest-priority tag rank carried by the offer
func TagPriority(offer entity.FlightOffer) int {
	priority := priorityUntagged
	for _, tag := range offer.Tags {
		var p int
		switch tag {
		case entity.TagBest:
			p = priorityBest
		case entity.TagCheapest:
			p = priorityCheapest
		case entity.TagFastest:
			p = priorityFastest
		default:
			continue
		}
		if p < priority {
			priority = p
		}
	}
	return priority
}

// TagSort returns the offers stably sorted by tag priority. The input is
// never mutated.
func TagSort(offers []entity.FlightOffer) []entity.FlightOffer {
	sorted := make([]entity.FlightOffer, len(offers))
	copy(sorted, offers)
	sort.SliceStable(sorted, func(i, j int) bool {
		return TagPriority(sorted[i]) < TagPriority(sorted[j])
	})
	return sorted
}

// Tag assigns cheapest, fastest and best tags across the offer set. Tagging
// is idempotent: when any offer already carries a tag the set passes through
// unchanged. The input is never mutated.
func (t *FlightTagger) Tag(offers []entity.FlightOffer) []entity.FlightOffer {
	out := make([]entity.FlightOffer, len(offers))
	copy(out, offers)

	if len(out) == 0 {
		return out
	}
	for _, offer := range out {
		if len(offer.Tags) > 0 {
			return out
		}
	}

	cheapest, fastest := 0, 0
	minPrice, maxPrice := out[0].Price.Amount(), out[0].Price.Amount()
	minDur, maxDur := out[0].TotalMinutes(), out[0].TotalMinutes()

	for i, offer := range out {
		price := offer.Price.Amount()
		dur := offer.TotalMinutes()
		if price < minPrice {
			minPrice = price
			cheapest = i
		}
		if price > maxPrice {
			maxPrice = price
		}
		if dur < minDur {
			minDur = dur
			fastest = i
		}
		if dur > maxDur {
			maxDur = dur
		}
	}

	out[cheapest] = withTag(out[cheapest], entity.TagCheapest)
	out[fastest] = withTag(out[fastest], entity.TagFastest)

	// Best balances price and duration; skipped when its winner is already
	// the cheapest or fastest offer.
	best, bestScore := -1, 0.0
	priceSpan := maxPrice - minPrice
	durSpan := float64(maxDur - minDur)
	for i, offer := range out {
		var priceNorm, durNorm float64
		if priceSpan > 0 {
			priceNorm = (offer.Price.Amount() - minPrice) / priceSpan
		}
		if durSpan > 0 {
			durNorm = float64(offer.TotalMinutes()-minDur) / durSpan
		}
		score := bestPriceWeight*priceNorm + bestDurationWeight*durNorm
		if best == -1 || score < bestScore {
			best = i
			bestScore = score
		}
	}
	if best >= 0 && best != cheapest && best != fastest {
		out[best] = withTag(out[best], entity.TagBest)
	}

	return out
}

func withTag(offer entity.FlightOffer, tag string) entity.FlightOffer {
	tags := make([]string, 0, len(offer.Tags)+1)
	tags = append(tags, offer.Tags...)
	tags = append(tags, tag)
	offer.Tags = tags
	return offer
}
