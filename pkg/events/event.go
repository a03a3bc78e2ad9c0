package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "DOCUMENT_INGESTED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent helps embed common logic if needed,
// strictly creating valid implementations is preferred though.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// EventTypeDocumentIngested fires when a document finished chunking,
// embedding and manifest registration for a thread.
const EventTypeDocumentIngested = "DOCUMENT_INGESTED"

// NewDocumentIngested builds the ingest-completed event for a thread.
func NewDocumentIngested(threadID, filename string, chunks int) Event {
	return BaseEvent{
		Type: EventTypeDocumentIngested,
		Data: map[string]interface{}{
			"thread_id": threadID,
			"filename":  filename,
			"chunks":    chunks,
		},
		OccurredAt: time.Now(),
	}
}
