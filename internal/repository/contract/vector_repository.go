package contract

import (
	"context"

	"legal-rag-be/internal/entity"

	"github.com/google/uuid"
)

// ScoredFileChunk wraps a private chunk with its similarity score
type ScoredFileChunk struct {
	Chunk      *entity.FileChunk
	Similarity float64 // 0.0 to 1.0 (1.0 = identical)
}

// ScoredCaseChunk wraps a public case chunk with its similarity score
type ScoredCaseChunk struct {
	Chunk      *entity.CaseChunk
	Similarity float64
}

type VectorRepository interface {
	CreateFileChunks(ctx context.Context, chunks []*entity.FileChunk) error
	CreateCaseChunks(ctx context.Context, chunks []*entity.CaseChunk) error
	DeleteFileChunksByThreadId(ctx context.Context, threadId string) error
	DeleteCaseChunk(ctx context.Context, id uuid.UUID) error

	// SearchPrivate performs cosine similarity search over file_chunks.
	// Results are ALWAYS restricted to the given threadId; there is no
	// unfiltered variant of this query.
	SearchPrivate(ctx context.Context, embedding []float32, threadId string, limit int) ([]*ScoredFileChunk, error)

	// SearchPublic performs cosine similarity search over case_chunks.
	SearchPublic(ctx context.Context, embedding []float32, limit int) ([]*ScoredCaseChunk, error)
}
