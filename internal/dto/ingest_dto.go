package dto

// IngestDocumentRequest submits an extracted document for background
// ingestion into a thread's private partition.
type IngestDocumentRequest struct {
	ThreadId string `json:"thread_id" validate:"required"`
	Filename string `json:"filename" validate:"required"`
	Source   string `json:"source"` // Original upload locator, kept for citations
	Content  string `json:"content" validate:"required"`
}

// IngestDocumentMessage is the work-queue payload between the publisher
// and the background consumer.
type IngestDocumentMessage struct {
	ThreadId string `json:"thread_id"`
	Filename string `json:"filename"`
	Source   string `json:"source"`
	Content  string `json:"content"`
}

// IngestAcceptedResponse acknowledges that ingestion was queued.
type IngestAcceptedResponse struct {
	Status string `json:"status"`
}
