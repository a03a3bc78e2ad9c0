package state

// Tool choices the router may select. The restricted set (no files
// ingested for the thread) is direct_answer and case_search only.
const (
	ToolDirectAnswer = "direct_answer"
	ToolCaseSearch   = "case_search"
	ToolFileSearch   = "file_search"
	ToolHybridSearch = "hybrid_search"
)

// SourceRef identifies one piece of evidence offered to the generator.
// Exactly one of Filename / CaseName is set depending on the partition
// the evidence came from.
type SourceRef struct {
	FullPath string // Stable locator returned to the client
	Filename string // Private file evidence
	CaseName string // Public case-law evidence
}

// Conversation is the single typed record flowing through the pipeline.
// Nodes read the fields they need and return partial updates; the
// orchestrator merges those updates back in. No node mutates shared state
// directly.
type Conversation struct {
	// Turn inputs
	ThreadID            string
	Question            string
	ConversationSummary string
	FileManifest        string

	// Router outputs
	ToolChoice        string
	FileSearchQueries []string
	CaseSearchQueries []string

	// Retriever outputs
	Documents []string
	Sources   []SourceRef

	// Generator output
	FinalAnswer string

	// Metadata outputs
	ChatTitle      string
	UpdatedSummary string
	FollowUp       string
}
