package generate

import (
	"context"
	"fmt"

	"legal-rag-be/pkg/llm"
)

// GenerateDirect answers without retrieval, using only the question and
// the rolling conversation summary.
func (g *Generator) GenerateDirect(ctx context.Context, question, summary string) string {
	prompt := fmt.Sprintf("You are an Indian Tax Law expert. Answer directly.\nQuery: %s\nContext: %s", question, summary)

	answer, err := g.llmProvider.Generate(ctx, prompt,
		llm.WithTemperature(0.1),
		llm.WithMaxTokens(generationMaxTokens),
	)
	if err != nil {
		g.logger.Error("Generator", "Direct generation failed", map[string]interface{}{"error": err.Error()})
		return ErrorAnswer
	}

	return answer
}
