package generate

import (
	"strings"

	"legal-rag-be/pkg/rag/state"
)

// FilterSources keeps only the candidates the answer actually cites.
// The check is a literal substring match on the filename or the case
// name; the generation prompt instructs the model to copy those tokens
// verbatim, which is what makes this heuristic workable. Kept sources
// are deduplicated by their derived path.
func FilterSources(answer string, candidates []state.SourceRef) []state.SourceRef {
	var kept []state.SourceRef
	seenPaths := make(map[string]bool)

	for _, src := range candidates {
		cited := (src.Filename != "" && strings.Contains(answer, src.Filename)) ||
			(src.CaseName != "" && strings.Contains(answer, src.CaseName))
		if !cited {
			continue
		}

		// Multiple chunks of the same file collapse to one source entry.
		if seenPaths[src.FullPath] {
			continue
		}
		seenPaths[src.FullPath] = true
		kept = append(kept, src)
	}

	return kept
}
