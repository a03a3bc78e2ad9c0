package retriever

import (
	"context"
	"fmt"
	"strings"
	"time"

	"legal-rag-be/internal/entity"
	"legal-rag-be/internal/pkg/logger"
	"legal-rag-be/internal/repository/contract"
	"legal-rag-be/pkg/embedding"
	"legal-rag-be/pkg/llm"
	"legal-rag-be/pkg/rag/state"
	"legal-rag-be/pkg/utils"
)

const (
	// Dedup key length: two chunks sharing the same leading runes are
	// treated as the same evidence.
	dedupPrefixLen = 50

	// DefaultTopK is the per-query result count for both partitions.
	DefaultTopK = 5
)

// Result holds the deduplicated candidates from both partitions.
type Result struct {
	Files []*entity.FileChunk
	Cases []*entity.CaseChunk
}

// Retriever performs dual-path retrieval: private uploaded-file chunks
// (always scoped to the calling thread) and public case-law chunks.
type Retriever struct {
	embeddingProvider embedding.EmbeddingProvider
	vectorRepo        contract.VectorRepository
	llmProvider       llm.LLMProvider
	logger            logger.ILogger
	topK              int
}

func NewRetriever(
	embeddingProvider embedding.EmbeddingProvider,
	vectorRepo contract.VectorRepository,
	llmProvider llm.LLMProvider,
	log logger.ILogger,
	topK int,
) *Retriever {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Retriever{
		embeddingProvider: embeddingProvider,
		vectorRepo:        vectorRepo,
		llmProvider:       llmProvider,
		logger:            log,
		topK:              topK,
	}
}

// RetrieveSplit embeds each query independently and merges the hits,
// deduplicating by content prefix. Per-query failures (embedding or
// search) drop that query's contribution and continue; a thread isolation
// breach discards the whole private result set.
func (r *Retriever) RetrieveSplit(ctx context.Context, fileQueries, caseQueries []string, threadID string) Result {
	result := Result{}

	if len(fileQueries) > 0 {
		result.Files = r.searchFiles(ctx, fileQueries, threadID)
		r.logger.Debug("Retriever", "Unique file chunks found", map[string]interface{}{"count": len(result.Files)})
	}

	if len(caseQueries) > 0 {
		r.logger.Debug("Retriever", "Executing case queries", map[string]interface{}{"count": len(caseQueries)})

		uniqueCases := make(map[string]*entity.CaseChunk)
		var caseOrder []string

		for _, q := range caseQueries {
			res, err := r.embeddingProvider.Generate(q, embedding.TaskRetrievalQuery)
			if err != nil {
				r.logger.Warn("Retriever", "Case query embedding failed, skipping query", map[string]interface{}{"query": q, "error": err.Error()})
				continue
			}

			hits, err := r.vectorRepo.SearchPublic(ctx, res.Embedding.Values, r.topK)
			if err != nil {
				r.logger.Warn("Retriever", "Public search failed, skipping query", map[string]interface{}{"query": q, "error": err.Error()})
				continue
			}

			for _, hit := range hits {
				key := utils.TruncateRunes(hit.Chunk.CaseAbout, dedupPrefixLen)
				if key == "" {
					continue
				}
				if _, seen := uniqueCases[key]; !seen {
					uniqueCases[key] = hit.Chunk
					caseOrder = append(caseOrder, key)
				}
			}
		}

		for _, key := range caseOrder {
			result.Cases = append(result.Cases, uniqueCases[key])
		}
		r.logger.Debug("Retriever", "Unique cases found", map[string]interface{}{"count": len(result.Cases)})
	}

	return result
}

// searchFiles runs the per-query private searches and deduplicates the
// hits by content prefix. Every returned chunk is verified to carry the
// caller's thread tag; a single foreign chunk invalidates the entire
// private result set for this turn.
func (r *Retriever) searchFiles(ctx context.Context, fileQueries []string, threadID string) []*entity.FileChunk {
	r.logger.Debug("Retriever", "Executing file queries", map[string]interface{}{"count": len(fileQueries)})

	uniqueFiles := make(map[string]*entity.FileChunk)
	var order []string

	for _, q := range fileQueries {
		res, err := r.embeddingProvider.Generate(q, embedding.TaskRetrievalQuery)
		if err != nil {
			r.logger.Warn("Retriever", "File query embedding failed, skipping query", map[string]interface{}{"query": q, "error": err.Error()})
			continue
		}

		hits, err := r.vectorRepo.SearchPrivate(ctx, res.Embedding.Values, threadID, r.topK)
		if err != nil {
			r.logger.Warn("Retriever", "Private search failed, skipping query", map[string]interface{}{"query": q, "error": err.Error()})
			continue
		}

		for _, hit := range hits {
			if hit.Chunk.ThreadId != threadID {
				// Isolation breach: the private partition returned
				// foreign content, so nothing from it can be trusted
				// this turn.
				r.logger.Error("Retriever", "SECURITY: private search returned foreign thread content, discarding all private results", map[string]interface{}{
					"expected_thread": threadID,
					"actual_thread":   hit.Chunk.ThreadId,
					"chunk_id":        hit.Chunk.Id.String(),
				})
				return nil
			}

			key := utils.TruncateRunes(hit.Chunk.Content, dedupPrefixLen)
			if key == "" {
				continue
			}
			if _, seen := uniqueFiles[key]; !seen {
				uniqueFiles[key] = hit.Chunk
				order = append(order, key)
			}
		}
	}

	files := make([]*entity.FileChunk, 0, len(order))
	for _, key := range order {
		files = append(files, uniqueFiles[key])
	}
	return files
}

// Retrieve is the pipeline node. It assembles the context blocks and the
// candidate source list according to the routed strategy. File evidence
// always precedes case evidence in the output.
func (r *Retriever) Retrieve(ctx context.Context, conv *state.Conversation) ([]string, []state.SourceRef) {
	route := conv.ToolChoice

	var documents []string
	var sources []state.SourceRef

	// Step 1: private file facts
	var fileResults []*entity.FileChunk
	if route == state.ToolFileSearch || route == state.ToolHybridSearch {
		split := r.RetrieveSplit(ctx, conv.FileSearchQueries, nil, conv.ThreadID)
		fileResults = split.Files

		if len(fileResults) > 0 {
			documents = append(documents, "### FACTS FROM UPLOADED FILE")
			for _, chunk := range fileResults {
				if chunk.Content == "" {
					continue
				}
				documents = append(documents, fmt.Sprintf("SOURCE DOC: %s\nCONTENT: %s", chunk.Filename, chunk.Content))
				sources = append(sources, state.SourceRef{
					FullPath: chunk.Source,
					Filename: chunk.Filename,
				})
			}
		}
	}

	// Step 2: hybrid refinement. Retrieved file text drives an extra
	// round of case queries; failures fall through to the router's
	// original queries.
	caseQueries := conv.CaseSearchQueries
	if route == state.ToolHybridSearch && len(fileResults) > 0 {
		var blob strings.Builder
		for i, chunk := range fileResults {
			if i > 0 {
				blob.WriteString("\n")
			}
			blob.WriteString(chunk.Content)
		}

		refined, err := r.RefineCaseQueries(ctx, blob.String())
		if err != nil {
			r.logger.Warn("Retriever", "Dynamic case query refinement failed, continuing with router queries", map[string]interface{}{"error": err.Error()})
		} else if len(refined) > 0 {
			r.logger.Info("Retriever", "Refined case queries from file facts", map[string]interface{}{"queries": refined})
			caseQueries = append(append([]string{}, caseQueries...), refined...)
		}
	}

	// Step 3: public case law
	if (route == state.ToolCaseSearch || route == state.ToolHybridSearch) && len(caseQueries) > 0 {
		split := r.RetrieveSplit(ctx, nil, caseQueries, conv.ThreadID)

		if len(split.Cases) > 0 {
			documents = append(documents, "### RELEVANT LEGAL PRECEDENTS (EXTERNAL DB)")
			for _, chunk := range split.Cases {
				if chunk.DecisionReasoning == "" {
					continue
				}

				block := fmt.Sprintf("CASE: %s\nISSUE: %s\nOUTCOME: %s\nREASONING: %s",
					chunk.CaseName, chunk.MainIssue, chunk.Outcome, chunk.DecisionReasoning)
				documents = append(documents, block)

				sources = append(sources, state.SourceRef{
					FullPath: CaseSourcePath(chunk),
					CaseName: chunk.CaseName,
				})
			}
		}
	}

	r.logger.Info("Retriever", "Retrieved context blocks", map[string]interface{}{"count": len(documents)})
	return documents, sources
}

// CaseSourcePath derives the stable locator "Bench/YYYY/MM/Filename" for
// a case chunk. Malformed decision dates map to Unknown path segments.
func CaseSourcePath(chunk *entity.CaseChunk) string {
	year, month := "Unknown", "Unknown"
	if t, err := time.Parse("2006-01-02", chunk.DecisionDate); err == nil {
		year = t.Format("2006")
		month = t.Format("01")
	}

	bench := chunk.Bench
	if bench == "" {
		bench = "Unknown Bench"
	}
	filename := chunk.Filename
	if filename == "" {
		filename = "unknown.pdf"
	}

	return fmt.Sprintf("%s/%s/%s/%s", bench, year, month, filename)
}
