package generate

import (
	"context"
	"strings"

	"legal-rag-be/internal/pkg/logger"
	"legal-rag-be/pkg/llm"
	"legal-rag-be/pkg/rag/state"
	"legal-rag-be/pkg/utils"
)

const (
	// NotFoundAnswer is returned verbatim when retrieval produced nothing.
	// No model call is made in that case.
	NotFoundAnswer = "I searched but could not find specific information. Please refine your query."

	// ErrorAnswer is the worst-case user-visible string when generation
	// itself fails. The pipeline never surfaces the underlying fault.
	ErrorAnswer = "Sorry, an error occurred while composing the answer. Please try again."

	// Context fed to the generator is bounded to this many characters.
	contextCharBudget = 18000

	generationMaxTokens = 4096
)

// Generator synthesizes cited answers from retrieved context.
type Generator struct {
	llmProvider llm.LLMProvider
	logger      logger.ILogger
}

func NewGenerator(llmProvider llm.LLMProvider, log logger.ILogger) *Generator {
	return &Generator{
		llmProvider: llmProvider,
		logger:      log,
	}
}

// GenerateRAG produces the answer and the filtered source list. Empty
// documents short-circuit to the fixed not-found answer with no sources
// and no model call.
func (g *Generator) GenerateRAG(ctx context.Context, question string, documents []string, sources []state.SourceRef) (string, []state.SourceRef) {
	if len(documents) == 0 {
		g.logger.Info("Generator", "No documents retrieved, returning fixed not-found answer", nil)
		return NotFoundAnswer, nil
	}

	contextStr := utils.TruncateRunes(strings.Join(documents, "\n\n"), contextCharBudget)

	var prompt strings.Builder
	prompt.WriteString("You are an expert Indian Tax Lawyer and Legal Drafter.\n\n")
	prompt.WriteString("USER QUERY: ")
	prompt.WriteString(question)
	prompt.WriteString("\n\nLEGAL CONTEXT:\n")
	prompt.WriteString(contextStr)
	prompt.WriteString("\n\n")
	prompt.WriteString("DRAFTING INSTRUCTIONS:\n")
	prompt.WriteString("1. **Primary Source:** Use facts from the 'UPLOADED FILE CONTENT' to fill specific details (Dates, Names).\n")
	prompt.WriteString("2. **Legal Backing:** Use principles from 'RELEVANT LEGAL PRECEDENTS' to strengthen the arguments.\n")
	prompt.WriteString("   - *Example:* \"Reliance is placed on [Case Name], where it was held that...\"\n")
	prompt.WriteString("   - YOU MUST CITE cases if they are relevant.\n")
	prompt.WriteString("3. **Tone:** Formal, Authoritative.\n\n")
	prompt.WriteString("CITATION RULES:\n")
	prompt.WriteString("- You MUST cite the sources you use.\n")
	prompt.WriteString("- If retrieved cases are not exact matches but are RELATED (e.g., Section 14A vs 14), you MAY cite them but must clearly explain the distinction.\n")
	prompt.WriteString("- Do not hide retrieved cases if they are the only ones found; explain their relevance instead.\n")
	prompt.WriteString("- For Files: [Source: Filename]\n")
	prompt.WriteString("- For Cases: [Case: Case Name]")

	answer, err := g.llmProvider.Generate(ctx, prompt.String(),
		llm.WithTemperature(0.1),
		llm.WithMaxTokens(generationMaxTokens),
	)
	if err != nil {
		g.logger.Error("Generator", "RAG generation failed", map[string]interface{}{"error": err.Error()})
		return ErrorAnswer, nil
	}

	kept := FilterSources(answer, sources)
	g.logger.Info("Generator", "Answer generated", map[string]interface{}{
		"candidate_sources": len(sources),
		"kept_sources":      len(kept),
	})

	return answer, kept
}
