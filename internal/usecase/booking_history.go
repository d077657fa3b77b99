package usecase

import (
	"context"
	"strings"

	"skymate-service/internal/domain/entity"
	"skymate-service/internal/domain/repository"
	"skymate-service/pkg/logger"
	"skymate-service/pkg/metrics"
	"skymate-service/pkg/utils"
)

// BookingHistoryParser reconciles the user's travel history. Structured
// fields from memory entries take precedence; the free-text memory string
// only fills the gaps.
type BookingHistoryParser struct {
	memoryRepo  repository.MemoryRepository
	airlineRepo repository.AirlineRepository
	parser      *utils.MemoryParser
	logger      logger.Logger
	metrics     *metrics.Metrics
}

// NewBookingHistoryParser creates a new booking history parser
func NewBookingHistoryParser(
	memoryRepo repository.MemoryRepository,
	airlineRepo repository.AirlineRepository,
	parser *utils.MemoryParser,
	logger logger.Logger,
	metrics *metrics.Metrics,
) *BookingHistoryParser {
	return &BookingHistoryParser{
		memoryRepo:  memoryRepo,
		airlineRepo: airlineRepo,
		parser:      parser,
		logger:      logger,
		metrics:     metrics,
	}
}

// History fetches and reconciles the user's bookings. A fetch failure
// degrades to an empty list so the chat view never breaks.
func (b *BookingHistoryParser) History(ctx context.Context, userID string) []entity.BookingRecord {
	entries, err := b.memoryRepo.TravelHistory(ctx, userID)
	if err != nil {
		b.logger.Warn("Travel history fetch failed",
			"userId", userID,
			"error", err)
		b.metrics.ErrorsCount.WithLabelValues("travel_history").Inc()
		return []entity.BookingRecord{}
	}

	records := make([]entity.BookingRecord, 0, len(entries))
	seen := make(map[string]bool)
	for _, entry := range entries {
		record, ok := b.Reconcile(ctx, entry)
		if !ok {
			b.metrics.BookingsExcluded.Inc()
			continue
		}
		key := record.DedupeKey()
		if seen[key] {
			continue
		}
		seen[key] = true
		records = append(records, record)
	}
	return records
}

// Reconcile merges one memory entry with whatever its raw text parses to.
// Entries with no recoverable route, and search memories, are excluded.
func (b *BookingHistoryParser) Reconcile(ctx context.Context, entry entity.BookingMemoryEntry) (entity.BookingRecord, bool) {
	// Search memories describe queries, not trips
	if strings.Contains(strings.ToLower(entry.Memory), "searched") {
		return entity.BookingRecord{}, false
	}

	var parsed utils.MemoryFields
	if entry.Memory != "" {
		parsed = b.parser.ParseBooking(entry.Memory)
		b.metrics.MemoryRecordsParsed.Inc()
	}

	record := entity.BookingRecord{
		ID:            entry.ID,
		Origin:        firstNonEmpty(utils.NormalizeIATA(entry.Origin), parsed.Origin),
		Destination:   firstNonEmpty(utils.NormalizeIATA(entry.Destination), parsed.Destination),
		AirlineCode:   firstNonEmpty(utils.NormalizeCarrierCode(entry.AirlineCode), parsed.AirlineCode),
		AirlineName:   firstNonEmpty(utils.NormalizeAirlineName(entry.AirlineName), utils.NormalizeAirlineName(entry.Airline), parsed.AirlineName),
		DepartureDate: firstNonEmpty(entry.DepartureDate, parsed.DepartureDate),
		DepartureTime: firstNonEmpty(entry.DepartureTime, parsed.DepartureTime),
		ArrivalTime:   firstNonEmpty(entry.ArrivalTime, parsed.ArrivalTime),
		CabinClass:    firstNonEmpty(entry.CabinClass, parsed.CabinClass),
		Currency:      firstNonEmpty(entry.Currency, parsed.Currency),
		TripType:      utils.NormalizeTripType(firstNonEmpty(entry.TripType, parsed.TripType)),
		BookedAt:      entry.BookedAt,
	}

	if entry.Price != nil {
		record.Price = entry.Price
	} else if parsed.Price != nil {
		record.Price = parsed.Price
	}
	if entry.Passengers > 0 {
		record.PassengerCount = entry.Passengers
	} else if parsed.Passengers > 0 {
		record.PassengerCount = parsed.Passengers
	}

	record.ReturnLeg = b.returnLeg(entry, parsed)
	if record.ReturnLeg != nil {
		record.TripType = utils.TripTypeRoundTrip
	} else if record.TripType == "" {
		record.TripType = utils.TripTypeOneWay
	}

	if record.Origin == "" || record.Destination == "" {
		return entity.BookingRecord{}, false
	}

	b.resolveAirline(ctx, &record)
	return record, true
}

func (b *BookingHistoryParser) returnLeg(entry entity.BookingMemoryEntry, parsed utils.MemoryFields) *entity.BookingLeg {
	leg := entity.BookingLeg{
		Origin:        utils.NormalizeIATA(entry.ReturnOrigin),
		Destination:   utils.NormalizeIATA(entry.ReturnDestination),
		Date:          entry.ReturnDate,
		DepartureTime: entry.ReturnDepartureTime,
		ArrivalTime:   entry.ReturnArrivalTime,
	}
	if parsed.Return != nil {
		leg.Origin = firstNonEmpty(leg.Origin, parsed.Return.Origin)
		leg.Destination = firstNonEmpty(leg.Destination, parsed.Return.Destination)
		leg.Date = firstNonEmpty(leg.Date, parsed.Return.Date)
		leg.DepartureTime = firstNonEmpty(leg.DepartureTime, parsed.Return.DepartureTime)
		leg.ArrivalTime = firstNonEmpty(leg.ArrivalTime, parsed.Return.ArrivalTime)
	}
	if leg.Origin == "" && leg.Destination == "" && leg.Date == "" {
		return nil
	}
	return &leg
}

// resolveAirline fills the missing half of the code/name pair, preferring
// the airline master table and falling back to the built-in carrier list
func (b *BookingHistoryParser) resolveAirline(ctx context.Context, record *entity.BookingRecord) {
	if record.AirlineCode == "" || record.AirlineName != "" {
		return
	}

	if b.airlineRepo != nil {
		airline, err := b.airlineRepo.GetByCode(ctx, record.AirlineCode)
		if err == nil && airline != nil {
			record.AirlineName = airline.Name
			return
		}
		if err != nil {
			b.logger.Debug("Airline lookup failed",
				"code", record.AirlineCode,
				"error", err)
		}
	}

	if name, ok := utils.CarrierName(record.AirlineCode); ok {
		record.AirlineName = name
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
