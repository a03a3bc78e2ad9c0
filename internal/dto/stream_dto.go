package dto

// StreamFrame carries one slice of the answer to a thread room. The
// terminal frame carries the literal content "__END__".
type StreamFrame struct {
	ThreadId string `json:"thread_id"`
	Type     string `json:"type"` // always "stream"
	Content  string `json:"content"`
	Summary  string `json:"summary"`
	Title    string `json:"title"`
}

// SourceFrame lists the citations backing the streamed answer. Sent once,
// after the last content frame and before the terminal frame.
type SourceFrame struct {
	ThreadId string   `json:"thread_id"`
	Type     string   `json:"type"` // always "source"
	Sources  []string `json:"sources"`
}
