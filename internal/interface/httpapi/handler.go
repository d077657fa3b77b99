package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"skymate-service/internal/domain/entity"
	"skymate-service/internal/domain/repository"
	"skymate-service/internal/usecase"
	"skymate-service/pkg/logger"
)

// Handler exposes the preference, booking and flight operations over HTTP.
// The caller's identity arrives in the X-User-Id header.
type Handler struct {
	memoryRepo  repository.MemoryRepository
	sessions    *usecase.SessionRegistry
	categorizer *usecase.PreferenceCategorizer
	tagger      *usecase.FlightTagger
	filter      *usecase.FlightFilterEngine
	history     *usecase.BookingHistoryParser
	ingestor    *usecase.ChatIngestor
	logger      logger.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(
	memoryRepo repository.MemoryRepository,
	sessions *usecase.SessionRegistry,
	categorizer *usecase.PreferenceCategorizer,
	tagger *usecase.FlightTagger,
	filter *usecase.FlightFilterEngine,
	history *usecase.BookingHistoryParser,
	ingestor *usecase.ChatIngestor,
	logger logger.Logger,
) *Handler {
	return &Handler{
		memoryRepo:  memoryRepo,
		sessions:    sessions,
		categorizer: categorizer,
		tagger:      tagger,
		filter:      filter,
		history:     history,
		ingestor:    ingestor,
		logger:      logger,
	}
}

// Register mounts every route on the mux
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/memory/preferences", h.listPreferences)
	mux.HandleFunc("POST /api/memory/add-preference", h.addPreference)
	mux.HandleFunc("DELETE /api/memory/preferences/{text}", h.deletePreference)
	mux.HandleFunc("GET /api/memory/travel-history", h.travelHistory)
	mux.HandleFunc("POST /api/memory/record-booking", h.recordBooking)
	mux.HandleFunc("GET /api/preferences/draft", h.getDraft)
	mux.HandleFunc("PUT /api/preferences/draft", h.putDraft)
	mux.HandleFunc("POST /api/preferences/commit", h.commit)
	mux.HandleFunc("DELETE /api/session", h.dropSession)
	mux.HandleFunc("POST /api/flights/filter", h.filterFlights)
	mux.HandleFunc("POST /api/flights/tag", h.tagFlights)
	mux.HandleFunc("POST /api/chat/ingest", h.ingestChat)
}

func (h *Handler) userID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := r.Header.Get("X-User-Id")
	if userID == "" {
		h.writeError(w, http.StatusBadRequest, "missing X-User-Id header")
		return "", false
	}
	return userID, true
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("Failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, map[string]string{"error": msg})
}

// listPreferences returns the user's stored preferences grouped by category.
// A store failure degrades to empty groups so the chat view keeps rendering.
func (h *Handler) listPreferences(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	prefs, err := h.memoryRepo.ListPreferences(r.Context(), userID)
	if err != nil {
		h.logger.Warn("Preference list failed", "userId", userID, "error", err)
		prefs = map[string][]entity.PreferenceEntry{}
	}

	count := 0
	for _, entries := range prefs {
		count += len(entries)
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"userId":      userID,
		"preferences": prefs,
		"count":       count,
	})
}

func (h *Handler) addPreference(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var body struct {
		Content string `json:"content"`
		Type    string `json:"type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Content == "" {
		h.writeError(w, http.StatusBadRequest, "content is required")
		return
	}

	record := h.categorizer.Record(body.Content)
	add := entity.PreferenceAdd{
		Category: "preference",
		Type:     body.Type,
		Content:  record.CanonicalText,
	}
	if add.Type == "" {
		add.Type = string(record.Category)
	}

	if err := h.memoryRepo.AddPreference(r.Context(), userID, add); err != nil {
		h.logger.Error("Preference add failed", "userId", userID, "error", err)
		h.writeError(w, http.StatusBadGateway, "failed to store preference")
		return
	}

	h.writeJSON(w, http.StatusCreated, record)
}

func (h *Handler) deletePreference(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	text, err := url.PathUnescape(r.PathValue("text"))
	if err != nil || text == "" {
		h.writeError(w, http.StatusBadRequest, "invalid preference text")
		return
	}

	err = h.memoryRepo.DeletePreference(r.Context(), userID, text)
	if errors.Is(err, repository.ErrNotFound) {
		h.writeError(w, http.StatusNotFound, "preference not found")
		return
	}
	if err != nil {
		h.logger.Error("Preference delete failed", "userId", userID, "error", err)
		h.writeError(w, http.StatusBadGateway, "failed to delete preference")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// travelHistory returns the reconciled booking list. Failures inside the
// parser already degrade to an empty list.
func (h *Handler) travelHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	records := h.history.History(r.Context(), userID)
	h.writeJSON(w, http.StatusOK, map[string]any{
		"history": records,
		"count":   len(records),
	})
}

func (h *Handler) recordBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var booking entity.BookingMemoryEntry
	if err := json.NewDecoder(r.Body).Decode(&booking); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid booking body")
		return
	}

	if err := h.memoryRepo.RecordBooking(r.Context(), userID, booking); err != nil {
		h.logger.Error("Booking record failed", "userId", userID, "error", err)
		h.writeError(w, http.StatusBadGateway, "failed to record booking")
		return
	}

	w.WriteHeader(http.StatusCreated)
}

func (h *Handler) getDraft(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	reconciler := h.sessions.Reconciler(userID)
	h.writeJSON(w, http.StatusOK, map[string]any{
		"draft": reconciler.Draft(),
		"state": reconciler.State(),
	})
}

func (h *Handler) putDraft(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var draft entity.SessionPreferenceDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid draft body")
		return
	}

	reconciler := h.sessions.Reconciler(userID)
	if err := reconciler.ApplyDraft(draft); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"draft": reconciler.Draft(),
		"state": reconciler.State(),
	})
}

func (h *Handler) commit(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	reconciler := h.sessions.Reconciler(userID)
	if err := reconciler.Commit(r.Context()); err != nil {
		h.writeError(w, http.StatusBadGateway, "failed to save preferences")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"draft": reconciler.Draft(),
		"state": reconciler.State(),
	})
}

func (h *Handler) dropSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	h.sessions.Drop(userID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) filterFlights(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Offers      []entity.FlightOffer     `json:"offers"`
		Constraints usecase.FlightConstraints `json:"constraints"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid filter body")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"offers": h.filter.Filter(body.Offers, body.Constraints),
	})
}

func (h *Handler) tagFlights(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Offers []entity.FlightOffer `json:"offers"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid tag body")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"offers": usecase.TagSort(h.tagger.Tag(body.Offers)),
	})
}

func (h *Handler) ingestChat(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var body struct {
		Message              entity.ChatMessage `json:"message"`
		ExtractedPreferences []string           `json:"extractedPreferences"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid chat body")
		return
	}

	result := h.ingestor.Ingest(r.Context(), userID, body.Message, body.ExtractedPreferences)
	h.writeJSON(w, http.StatusOK, result)
}
