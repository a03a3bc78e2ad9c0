package dto

// QueryRequest is a single question against a conversation thread.
type QueryRequest struct {
	ThreadId string `json:"thread_id" validate:"required"`
	Question string `json:"question" validate:"required"`
}

// QueryResponse is the full turn result.
type QueryResponse struct {
	Answer   string   `json:"answer"`
	Sources  []string `json:"sources"`
	Title    string   `json:"title"`
	Summary  string   `json:"summary"`
	FollowUp string   `json:"follow_up"`
}

// SessionResponse is the durable state readback for a thread.
type SessionResponse struct {
	ThreadId            string `json:"thread_id"`
	ConversationSummary string `json:"conversation_summary"`
	FileManifest        string `json:"file_manifest"`
}
