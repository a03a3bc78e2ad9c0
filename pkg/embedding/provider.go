package embedding

// Task types understood by the providers. Gemini uses them natively,
// the others accept and ignore them.
const (
	TaskRetrievalQuery    = "RETRIEVAL_QUERY"
	TaskRetrievalDocument = "RETRIEVAL_DOCUMENT"
)

// EmbeddingProvider defines the interface for generating text embeddings
type EmbeddingProvider interface {
	Generate(text string, taskType string) (*EmbeddingResponse, error)

	// GenerateBatch embeds multiple texts in one call where the backend
	// supports it. The result is positionally aligned with the input.
	GenerateBatch(texts []string, taskType string) ([][]float32, error)
}

type EmbeddingResponseEmbedding struct {
	Values []float32 `json:"values"`
}

type EmbeddingResponse struct {
	Embedding EmbeddingResponseEmbedding `json:"embedding"`
}
