package router

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"legal-rag-be/internal/pkg/logger"
	"legal-rag-be/pkg/llm"
	"legal-rag-be/pkg/rag/state"
	"legal-rag-be/pkg/utils"
)

// Decision is the router's structured output.
type Decision struct {
	ToolChoice        string   `json:"tool_choice"`
	FileSearchQueries []string `json:"file_search_queries"`
	CaseSearchQueries []string `json:"case_search_queries"`
}

// Router classifies a question into a retrieval strategy and emits the
// sub-queries each path should run. It never returns an error: any model
// or parse failure degrades to a direct_answer decision.
type Router struct {
	llmProvider llm.LLMProvider
	logger      logger.ILogger
}

func NewRouter(llmProvider llm.LLMProvider, log logger.ILogger) *Router {
	return &Router{
		llmProvider: llmProvider,
		logger:      log,
	}
}

const dbSchema = `<database_schema>
The 'Case Law Database' contains chunks of Indian Income Tax Judgments (ITAT, High Court, Supreme Court).
Each chunk is structured as follows:
- CASE_METADATA: [Case Name, Bench/Court, Date, Filename]
- MAIN_ISSUE: The core legal question (e.g., "Whether Section 14A disallowance applies...")
- DECISION_REASONING: The judge's detailed legal argument and ratio decidendi.
- OUTCOME: "Revenue" or "Assessee".
- SECTIONS_CITED: List of Income Tax Act sections discussed (e.g., "14, 14A, 147").
</database_schema>`

// Route classifies the question. A non-empty manifest unlocks the full
// tool set; otherwise the decision space is restricted to direct_answer
// and case_search.
func (r *Router) Route(ctx context.Context, question, manifest string) Decision {
	fullMode := strings.TrimSpace(manifest) != ""

	var systemPrompt string
	if fullMode {
		r.logger.Debug("Router", "Mode: FULL (files detected)", nil)
		systemPrompt = r.buildFullPrompt(manifest)
	} else {
		r.logger.Debug("Router", "Mode: RESTRICTED", nil)
		systemPrompt = r.buildRestrictedPrompt()
	}

	history := []llm.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: question},
	}

	response, err := r.llmProvider.Chat(ctx, history,
		llm.WithTemperature(0.0),
		llm.WithJSONOutput(),
	)
	if err != nil {
		r.logger.Warn("Router", "Classification call failed, falling back to direct_answer", map[string]interface{}{"error": err.Error()})
		return fallbackDecision()
	}

	decision, err := parseDecision(response, fullMode)
	if err != nil {
		r.logger.Warn("Router", "Classification output malformed, falling back to direct_answer", map[string]interface{}{"error": err.Error()})
		return fallbackDecision()
	}

	r.logger.Info("Router", "Decision", map[string]interface{}{
		"tool_choice":  decision.ToolChoice,
		"file_queries": len(decision.FileSearchQueries),
		"case_queries": len(decision.CaseSearchQueries),
	})

	return decision
}

func (r *Router) buildFullPrompt(manifest string) string {
	var prompt strings.Builder

	prompt.WriteString("You are a legal query orchestrator.\n\n")
	prompt.WriteString(dbSchema)
	prompt.WriteString("\n\n<file_context>\n")
	prompt.WriteString(manifest)
	prompt.WriteString("\n</file_context>\n\n")

	prompt.WriteString("TOOLS:\n")
	prompt.WriteString("1. 'file_search': User asks ONLY about facts in the file.\n")
	prompt.WriteString("2. 'case_search': User asks ONLY for external general law.\n\n")
	prompt.WriteString("3. 'hybrid_search': User asks to APPLY law to the file (Drafting, Analysis, Validity).\n")
	prompt.WriteString("   - Trigger: \"Draft a reply\", \"Check validity\", \"Prepare legal opinion\", \"from given information\".\n")
	prompt.WriteString("   - ACTION: Generate 'file_search_queries' to find facts.\n")
	prompt.WriteString("   - NOTE: You do NOT need to generate 'case_search_queries' perfectly yet; the system will refine them.\n\n")
	prompt.WriteString("4. 'direct_answer': Greetings/General.\n\n")
	prompt.WriteString("CRITICAL RULE: If user says \"given information\", \"attached file\" or \"draft\", MUST use 'file_search' or 'hybrid_search'.\n\n")

	prompt.WriteString("OUTPUT FORMAT:\n")
	prompt.WriteString("Respond with ONLY valid JSON:\n")
	prompt.WriteString("{\n")
	prompt.WriteString("  \"tool_choice\": \"direct_answer|case_search|file_search|hybrid_search\",\n")
	prompt.WriteString("  \"file_search_queries\": [\"keywords to extract specific facts from the uploaded file\"],\n")
	prompt.WriteString("  \"case_search_queries\": [\"keywords for the Case Law DB, MUST include Section numbers and legal concepts\"]\n")
	prompt.WriteString("}")

	return prompt.String()
}

func (r *Router) buildRestrictedPrompt() string {
	var prompt strings.Builder

	prompt.WriteString("You are a Legal Search Optimizer.\n\n")
	prompt.WriteString(dbSchema)
	prompt.WriteString("\n\nTASK: Generate search terms to match the 'MAIN_ISSUE' and 'DECISION_REASONING' in our database.\n\n")

	prompt.WriteString("STRATEGY:\n")
	prompt.WriteString("1. **Core Concept:** Generate queries for the specific section/topic the user asked for.\n")
	prompt.WriteString("2. **Related Scope:** You MAY include queries for legally connected sections (Parent/Child relationships).\n")
	prompt.WriteString("   - *Example:* If User asks \"Section 14\", it is valid to search for \"Section 14A disallowance\" as it is a specific application of Section 14.\n")
	prompt.WriteString("3. **Keywords:** Use terms like \"principles\", \"reasoning\", \"applicability\".\n\n")

	prompt.WriteString("EXAMPLE:\n")
	prompt.WriteString("User: \"Cases on Section 14\"\n")
	prompt.WriteString("Output Queries:\n")
	prompt.WriteString("- \"Principles of computing income under Section 14\"\n")
	prompt.WriteString("- \"Jurisprudence on Section 14 and Section 14A relationship\"\n")
	prompt.WriteString("- \"Supreme Court judgments on exempt income Section 14\"\n\n")

	prompt.WriteString("OUTPUT FORMAT:\n")
	prompt.WriteString("Respond with ONLY valid JSON:\n")
	prompt.WriteString("{\n")
	prompt.WriteString("  \"tool_choice\": \"direct_answer|case_search\",\n")
	prompt.WriteString("  \"case_search_queries\": [\"queries for legal research\"]\n")
	prompt.WriteString("}")

	return prompt.String()
}

func parseDecision(response string, fullMode bool) (Decision, error) {
	jsonContent := utils.ExtractJSON(response)
	if jsonContent == "" {
		return Decision{}, fmt.Errorf("no JSON found in response")
	}

	var decision Decision
	if err := json.Unmarshal([]byte(jsonContent), &decision); err != nil {
		return Decision{}, fmt.Errorf("JSON unmarshal failed: %w", err)
	}

	decision.ToolChoice = strings.ToLower(strings.TrimSpace(decision.ToolChoice))
	if !allowedTool(decision.ToolChoice, fullMode) {
		return Decision{}, fmt.Errorf("tool %q not allowed in this mode", decision.ToolChoice)
	}

	// File queries only exist in full mode; a restricted answer claiming
	// them is discarded rather than trusted.
	if !fullMode {
		decision.FileSearchQueries = nil
	}

	return decision, nil
}

func allowedTool(tool string, fullMode bool) bool {
	switch tool {
	case state.ToolDirectAnswer, state.ToolCaseSearch:
		return true
	case state.ToolFileSearch, state.ToolHybridSearch:
		return fullMode
	default:
		return false
	}
}

func fallbackDecision() Decision {
	return Decision{
		ToolChoice:        state.ToolDirectAnswer,
		FileSearchQueries: nil,
		CaseSearchQueries: nil,
	}
}
