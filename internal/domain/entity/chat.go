package entity

// ChatMessage is one turn of an assistant conversation. Assistant turns may
// carry flight results and the preference context that produced them.
type ChatMessage struct {
	ID            string        `json:"id,omitempty"`
	Role          string        `json:"role"`
	Content       string        `json:"content"`
	Timestamp     string        `json:"timestamp,omitempty"`
	FlightResults []FlightOffer `json:"flightResults,omitempty"`
	AppliedPrefs  string        `json:"appliedPrefs,omitempty"`
	MemoryContext string        `json:"memoryContext,omitempty"`
}

// ChatIngestResult is the outcome of ingesting an assistant turn
type ChatIngestResult struct {
	Message              ChatMessage `json:"message"`
	ConversationID       string      `json:"conversationId,omitempty"`
	ExtractedPreferences []string    `json:"extractedPreferences,omitempty"`
}
