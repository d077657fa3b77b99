package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	"skymate-service/internal/domain/entity"
	"skymate-service/internal/domain/repository"
	"skymate-service/pkg/logger"
)

// Mem0Repository handles preference and booking memories through the hosted
// memory service
type Mem0Repository struct {
	logger      logger.Logger
	baseURL     string
	bearerToken string
	client      *http.Client
}

// NewMem0Repository creates a new memory service repository
func NewMem0Repository(logger logger.Logger) repository.MemoryRepository {
	baseURL := os.Getenv("MEMORY_SERVICE_URL")
	if baseURL == "" {
		baseURL = "https://memory.skymate.dev"
	}

	return &Mem0Repository{
		logger:      logger,
		baseURL:     baseURL,
		bearerToken: os.Getenv("MEMORY_SERVICE_TOKEN"),
		client:      &http.Client{Timeout: 30 * time.Second},
	}
}

func (r *Mem0Repository) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var buf *bytes.Buffer
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		buf = bytes.NewBuffer(jsonData)
	} else {
		buf = &bytes.Buffer{}
	}

	req, err := http.NewRequestWithContext(ctx, method, r.baseURL+path, buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+r.bearerToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	return resp, nil
}

// ListPreferences fetches the user's preferences grouped by category
func (r *Mem0Repository) ListPreferences(ctx context.Context, userID string) (map[string][]entity.PreferenceEntry, error) {
	path := fmt.Sprintf("/api/v1/preferences?user_id=%s", url.QueryEscape(userID))
	resp, err := r.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errorBody map[string]interface{}
		json.NewDecoder(resp.Body).Decode(&errorBody)
		return nil, fmt.Errorf("memory service returned status %d: %v", resp.StatusCode, errorBody)
	}

	var response struct {
		Preferences map[string][]entity.PreferenceEntry `json:"preferences"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if response.Preferences == nil {
		response.Preferences = map[string][]entity.PreferenceEntry{}
	}
	return response.Preferences, nil
}

// AddPreference stores a categorized preference for the user
func (r *Mem0Repository) AddPreference(ctx context.Context, userID string, add entity.PreferenceAdd) error {
	body := map[string]string{
		"user_id":  userID,
		"category": add.Category,
		"type":     add.Type,
		"content":  add.Content,
	}

	resp, err := r.do(ctx, http.MethodPost, "/api/v1/preferences", body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		var errorBody map[string]interface{}
		json.NewDecoder(resp.Body).Decode(&errorBody)
		return fmt.Errorf("memory service returned status %d: %v", resp.StatusCode, errorBody)
	}

	r.logger.Debug("Preference stored in memory service",
		"userId", userID,
		"type", add.Type)
	return nil
}

// DeletePreference removes the preference matching the exact text. A 404 from
// the service maps to ErrNotFound.
func (r *Mem0Repository) DeletePreference(ctx context.Context, userID, text string) error {
	path := fmt.Sprintf("/api/v1/preferences/%s?user_id=%s",
		url.PathEscape(text), url.QueryEscape(userID))
	resp, err := r.do(ctx, http.MethodDelete, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return repository.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		var errorBody map[string]interface{}
		json.NewDecoder(resp.Body).Decode(&errorBody)
		return fmt.Errorf("memory service returned status %d: %v", resp.StatusCode, errorBody)
	}
	return nil
}

// TravelHistory fetches the user's booking memories
func (r *Mem0Repository) TravelHistory(ctx context.Context, userID string) ([]entity.BookingMemoryEntry, error) {
	path := fmt.Sprintf("/api/v1/bookings?user_id=%s", url.QueryEscape(userID))
	resp, err := r.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errorBody map[string]interface{}
		json.NewDecoder(resp.Body).Decode(&errorBody)
		return nil, fmt.Errorf("memory service returned status %d: %v", resp.StatusCode, errorBody)
	}

	var response struct {
		Bookings []entity.BookingMemoryEntry `json:"bookings"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return response.Bookings, nil
}

// RecordBooking stores a booking memory for the user
func (r *Mem0Repository) RecordBooking(ctx context.Context, userID string, booking entity.BookingMemoryEntry) error {
	body := struct {
		UserID string                    `json:"user_id"`
		entity.BookingMemoryEntry
	}{UserID: userID, BookingMemoryEntry: booking}

	resp, err := r.do(ctx, http.MethodPost, "/api/v1/bookings", body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		var errorBody map[string]interface{}
		json.NewDecoder(resp.Body).Decode(&errorBody)
		return fmt.Errorf("memory service returned status %d: %v", resp.StatusCode, errorBody)
	}

	r.logger.Debug("Booking recorded in memory service",
		"userId", userID,
		"origin", booking.Origin,
		"destination", booking.Destination)
	return nil
}
