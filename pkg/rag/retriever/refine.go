package retriever

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"legal-rag-be/pkg/llm"
	"legal-rag-be/pkg/utils"
)

const (
	// Character budget for the file-fact blob fed to the refinement call.
	refinementTextBudget = 3000

	// Number of case queries requested from the model.
	refinementQueryCount = 3
)

// RefineCaseQueries asks the model for case-law queries grounded in the
// retrieved file facts. The model answers plain JSON which we parse
// defensively; callers treat any error as "keep the original queries".
func (r *Retriever) RefineCaseQueries(ctx context.Context, fileText string) ([]string, error) {
	blob := utils.TruncateRunes(fileText, refinementTextBudget)

	var prompt strings.Builder
	prompt.WriteString("You are a Legal Research Assistant.\n\n")
	prompt.WriteString("FACTS FROM FILE:\n")
	prompt.WriteString(blob)
	prompt.WriteString("\n\n")
	prompt.WriteString(fmt.Sprintf("TASK: Generate %d specific search queries for a Supreme Court Case Database based on the legal issues in these facts.\n\n", refinementQueryCount))
	prompt.WriteString("OUTPUT FORMAT:\n")
	prompt.WriteString("Return ONLY a JSON object with a single key \"queries\" containing a list of strings.\n")
	prompt.WriteString("Example: {\"queries\": [\"Section 148 notice validity\", \"Supreme Court judgment on reassessment\"]}\n\n")
	prompt.WriteString("Do NOT add markdown. Do NOT add explanations.")

	response, err := r.llmProvider.Generate(ctx, prompt.String(), llm.WithTemperature(0.0))
	if err != nil {
		return nil, fmt.Errorf("refinement call failed: %w", err)
	}

	jsonContent := utils.ExtractJSON(response)
	if jsonContent == "" {
		return nil, fmt.Errorf("no JSON found in refinement output")
	}

	var parsed struct {
		Queries []string `json:"queries"`
	}
	if err := json.Unmarshal([]byte(jsonContent), &parsed); err != nil {
		return nil, fmt.Errorf("refinement JSON unmarshal failed: %w", err)
	}

	if len(parsed.Queries) == 0 {
		return nil, fmt.Errorf("refinement JSON parsed but no queries found")
	}

	return parsed.Queries, nil
}
