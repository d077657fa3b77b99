package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"skymate-service/internal/domain/entity"
	"skymate-service/internal/domain/repository"
	"skymate-service/pkg/logger"
	"skymate-service/pkg/metrics"
)

// ChatIngestor absorbs assistant chat turns: it tags any attached flight
// results and persists preference statements the conversation surfaced.
type ChatIngestor struct {
	memoryRepo  repository.MemoryRepository
	categorizer *PreferenceCategorizer
	tagger      *FlightTagger
	events      *PreferenceEvents
	logger      logger.Logger
	metrics     *metrics.Metrics
}

// NewChatIngestor creates a new chat ingestor
func NewChatIngestor(
	memoryRepo repository.MemoryRepository,
	categorizer *PreferenceCategorizer,
	tagger *FlightTagger,
	events *PreferenceEvents,
	logger logger.Logger,
	metrics *metrics.Metrics,
) *ChatIngestor {
	return &ChatIngestor{
		memoryRepo:  memoryRepo,
		categorizer: categorizer,
		tagger:      tagger,
		events:      events,
		logger:      logger,
		metrics:     metrics,
	}
}

// Ingest processes one assistant turn. Preference persistence is
// best-effort: a failed write is logged and the turn still goes through, so
// a degraded memory store never interrupts the conversation.
func (c *ChatIngestor) Ingest(ctx context.Context, userID string, msg entity.ChatMessage, extracted []string) entity.ChatIngestResult {
	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	if msg.Timestamp == "" {
		msg.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}

	if len(msg.FlightResults) > 0 {
		msg.FlightResults = TagSort(c.tagger.Tag(msg.FlightResults))
	}

	var stored []string
	for _, statement := range extracted {
		statement = strings.TrimSpace(statement)
		if statement == "" {
			continue
		}
		record := c.categorizer.Record(statement)
		add := entity.PreferenceAdd{
			Category: "preference",
			Type:     string(record.Category),
			Content:  record.CanonicalText,
		}
		if err := c.memoryRepo.AddPreference(ctx, userID, add); err != nil {
			c.logger.Warn("Failed to persist extracted preference",
				"userId", userID,
				"category", record.Category,
				"error", err)
			c.metrics.ErrorsCount.WithLabelValues("chat_ingest").Inc()
			continue
		}
		stored = append(stored, record.CanonicalText)
	}

	if len(stored) > 0 {
		c.logger.Info("Stored preferences from chat turn",
			"userId", userID,
			"count", len(stored))
		if c.events != nil {
			c.events.Publish(PreferenceEvent{UserID: userID})
		}
	}

	return entity.ChatIngestResult{
		Message:              msg,
		ExtractedPreferences: stored,
	}
}
