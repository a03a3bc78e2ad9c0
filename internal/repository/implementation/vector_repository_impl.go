package implementation

import (
	"context"

	"legal-rag-be/internal/entity"
	"legal-rag-be/internal/mapper"
	"legal-rag-be/internal/model"
	"legal-rag-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type VectorRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChunkMapper
}

func NewVectorRepository(db *gorm.DB) contract.VectorRepository {
	return &VectorRepositoryImpl{
		db:     db,
		mapper: mapper.NewChunkMapper(),
	}
}

func (r *VectorRepositoryImpl) CreateFileChunks(ctx context.Context, chunks []*entity.FileChunk) error {
	if len(chunks) == 0 {
		return nil
	}

	models := make([]*model.FileChunk, len(chunks))
	for i, c := range chunks {
		models[i] = r.mapper.FileToModel(c)
	}

	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}

	// Update IDs back to entities
	for i, m := range models {
		*chunks[i] = *r.mapper.FileToEntity(m)
	}
	return nil
}

func (r *VectorRepositoryImpl) CreateCaseChunks(ctx context.Context, chunks []*entity.CaseChunk) error {
	if len(chunks) == 0 {
		return nil
	}

	models := make([]*model.CaseChunk, len(chunks))
	for i, c := range chunks {
		models[i] = r.mapper.CaseToModel(c)
	}

	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}

	for i, m := range models {
		*chunks[i] = *r.mapper.CaseToEntity(m)
	}
	return nil
}

func (r *VectorRepositoryImpl) DeleteFileChunksByThreadId(ctx context.Context, threadId string) error {
	return r.db.WithContext(ctx).Where("thread_id = ?", threadId).Delete(&model.FileChunk{}).Error
}

func (r *VectorRepositoryImpl) DeleteCaseChunk(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.CaseChunk{}, id).Error
}

// SearchPrivate runs cosine similarity over the private partition.
// The thread_id predicate is the tenant isolation boundary and must never
// be dropped from this query.
func (r *VectorRepositoryImpl) SearchPrivate(ctx context.Context, embedding []float32, threadId string, limit int) ([]*contract.ScoredFileChunk, error) {
	if limit <= 0 {
		limit = 5
	}

	// Cosine distance in pgvector is: 1 - cosine_similarity
	// So we compute: 1 - (embedding <=> query_vector) = cosine_similarity
	type result struct {
		model.FileChunk
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	err := r.db.WithContext(ctx).
		Table("file_chunks").
		Select("file_chunks.*, 1 - (embedding <=> ?) as similarity", queryVector).
		Where("thread_id = ?", threadId).
		Where("deleted_at IS NULL").
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error

	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredFileChunk, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredFileChunk{
			Chunk:      r.mapper.FileToEntity(&res.FileChunk),
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}

func (r *VectorRepositoryImpl) SearchPublic(ctx context.Context, embedding []float32, limit int) ([]*contract.ScoredCaseChunk, error) {
	if limit <= 0 {
		limit = 5
	}

	type result struct {
		model.CaseChunk
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	err := r.db.WithContext(ctx).
		Table("case_chunks").
		Select("case_chunks.*, 1 - (embedding <=> ?) as similarity", queryVector).
		Where("deleted_at IS NULL").
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error

	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredCaseChunk, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredCaseChunk{
			Chunk:      r.mapper.CaseToEntity(&res.CaseChunk),
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}
