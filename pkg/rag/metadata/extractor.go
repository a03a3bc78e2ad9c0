package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"legal-rag-be/internal/pkg/logger"
	"legal-rag-be/pkg/llm"
	"legal-rag-be/pkg/utils"
)

const (
	// FallbackTitle is used whenever structured extraction fails.
	FallbackTitle = "Legal Consultation"

	// FallbackFollowUp is the static follow-up on extraction failure.
	FallbackFollowUp = "Do you have any other questions?"

	// The fallback summary is bounded to this many characters.
	fallbackSummaryMaxLen = 1000

	// Only this much of the answer is shown to the extractor, to keep
	// the call cheap.
	answerCharBudget = 3000
)

// Meta is the per-turn conversation metadata.
type Meta struct {
	Title     string
	Summary   string
	FollowUp  string
	Fallback  bool // True when the deterministic fallback produced this
}

// Extractor derives title, merged summary and follow-up in one model
// call. It never returns an error; failures resolve to a deterministic
// fallback.
type Extractor struct {
	llmProvider llm.LLMProvider
	logger      logger.ILogger
}

func NewExtractor(llmProvider llm.LLMProvider, log logger.ILogger) *Extractor {
	return &Extractor{
		llmProvider: llmProvider,
		logger:      log,
	}
}

type metadataOutput struct {
	Title                      string `json:"title"`
	UpdatedConversationSummary string `json:"updated_conversation_summary"`
	FollowUpQuestion           string `json:"follow_up_question"`
}

// Derive produces the turn metadata from the question, the (truncated)
// answer and the previous summary.
func (e *Extractor) Derive(ctx context.Context, question, answer, oldSummary string) Meta {
	truncatedAnswer := utils.TruncateRunes(answer, answerCharBudget)

	var system strings.Builder
	system.WriteString("You are a background conversation processor.\n")
	system.WriteString("Your job is to maintain the chat history and generate metadata.\n\n")
	system.WriteString("OUTPUT INSTRUCTIONS:\n")
	system.WriteString("1. 'title': Generate a professional title (6-10 words) for this session.\n")
	system.WriteString("2. 'updated_conversation_summary': Read the OLD SUMMARY and the NEW INTERACTION. Write a single fluid narrative paragraph (max 4 sentences) describing what has happened so far. Do NOT just append; synthesize.\n")
	system.WriteString("3. 'follow_up_question': Generate one relevant legal follow-up question for the user.\n\n")
	system.WriteString("Respond with ONLY valid JSON:\n")
	system.WriteString("{\"title\": \"...\", \"updated_conversation_summary\": \"...\", \"follow_up_question\": \"...\"}")

	user := fmt.Sprintf("--- OLD CONTEXT ---\n%s\n\n--- NEW INTERACTION ---\nUser: %s\nAI: %s",
		oldSummary, question, truncatedAnswer)

	history := []llm.Message{
		{Role: "system", Content: system.String()},
		{Role: "user", Content: user},
	}

	response, err := e.llmProvider.Chat(ctx, history,
		llm.WithTemperature(0.0),
		llm.WithJSONOutput(),
	)
	if err != nil {
		e.logger.Warn("Metadata", "Extraction call failed, using fallback", map[string]interface{}{"error": err.Error()})
		return e.fallback(question, oldSummary)
	}

	jsonContent := utils.ExtractJSON(response)
	if jsonContent == "" {
		e.logger.Warn("Metadata", "No JSON in extraction output, using fallback", nil)
		return e.fallback(question, oldSummary)
	}

	var out metadataOutput
	if err := json.Unmarshal([]byte(jsonContent), &out); err != nil {
		e.logger.Warn("Metadata", "Extraction JSON malformed, using fallback", map[string]interface{}{"error": err.Error()})
		return e.fallback(question, oldSummary)
	}

	if out.Title == "" || out.UpdatedConversationSummary == "" {
		e.logger.Warn("Metadata", "Extraction JSON missing required fields, using fallback", nil)
		return e.fallback(question, oldSummary)
	}

	return Meta{
		Title:    out.Title,
		Summary:  out.UpdatedConversationSummary,
		FollowUp: out.FollowUpQuestion,
	}
}

// fallback derives metadata without the model: fixed title, naive
// summary append with a hard truncation, static follow-up.
func (e *Extractor) fallback(question, oldSummary string) Meta {
	summary := utils.TruncateRunes(
		oldSummary+fmt.Sprintf(" User asked: %s. AI answered.", question),
		fallbackSummaryMaxLen,
	)

	return Meta{
		Title:    FallbackTitle,
		Summary:  summary,
		FollowUp: FallbackFollowUp,
		Fallback: true,
	}
}
