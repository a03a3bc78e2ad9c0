package mapper

import (
	"time"

	"legal-rag-be/internal/entity"
	"legal-rag-be/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type ChunkMapper struct{}

func NewChunkMapper() *ChunkMapper {
	return &ChunkMapper{}
}

func (m *ChunkMapper) FileToEntity(e *model.FileChunk) *entity.FileChunk {
	if e == nil {
		return nil
	}

	var deletedAt *time.Time
	if e.DeletedAt.Valid {
		t := e.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !e.UpdatedAt.IsZero() {
		t := e.UpdatedAt
		updatedAt = &t
	}

	return &entity.FileChunk{
		Id:         e.Id,
		ThreadId:   e.ThreadId,
		Filename:   e.Filename,
		Source:     e.Source,
		Content:    e.Content,
		ChunkIndex: e.ChunkIndex,
		Embedding:  e.Embedding.Slice(),
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  updatedAt,
		DeletedAt:  deletedAt,
		IsDeleted:  e.DeletedAt.Valid,
	}
}

func (m *ChunkMapper) FileToModel(e *entity.FileChunk) *model.FileChunk {
	if e == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if e.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *e.DeletedAt, Valid: true}
	} else if e.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if e.UpdatedAt != nil {
		updatedAt = *e.UpdatedAt
	}

	return &model.FileChunk{
		Id:         e.Id,
		ThreadId:   e.ThreadId,
		Filename:   e.Filename,
		Source:     e.Source,
		Content:    e.Content,
		ChunkIndex: e.ChunkIndex,
		Embedding:  pgvector.NewVector(e.Embedding),
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  updatedAt,
		DeletedAt:  deletedAt,
	}
}

func (m *ChunkMapper) CaseToEntity(e *model.CaseChunk) *entity.CaseChunk {
	if e == nil {
		return nil
	}

	var deletedAt *time.Time
	if e.DeletedAt.Valid {
		t := e.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !e.UpdatedAt.IsZero() {
		t := e.UpdatedAt
		updatedAt = &t
	}

	return &entity.CaseChunk{
		Id:                e.Id,
		CaseName:          e.CaseName,
		Bench:             e.Bench,
		DecisionDate:      e.DecisionDate,
		Filename:          e.Filename,
		MainIssue:         e.MainIssue,
		DecisionReasoning: e.DecisionReasoning,
		Outcome:           e.Outcome,
		SectionsCited:     e.SectionsCited,
		CaseAbout:         e.CaseAbout,
		Embedding:         e.Embedding.Slice(),
		CreatedAt:         e.CreatedAt,
		UpdatedAt:         updatedAt,
		DeletedAt:         deletedAt,
		IsDeleted:         e.DeletedAt.Valid,
	}
}

func (m *ChunkMapper) CaseToModel(e *entity.CaseChunk) *model.CaseChunk {
	if e == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if e.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *e.DeletedAt, Valid: true}
	} else if e.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if e.UpdatedAt != nil {
		updatedAt = *e.UpdatedAt
	}

	return &model.CaseChunk{
		Id:                e.Id,
		CaseName:          e.CaseName,
		Bench:             e.Bench,
		DecisionDate:      e.DecisionDate,
		Filename:          e.Filename,
		MainIssue:         e.MainIssue,
		DecisionReasoning: e.DecisionReasoning,
		Outcome:           e.Outcome,
		SectionsCited:     e.SectionsCited,
		CaseAbout:         e.CaseAbout,
		Embedding:         pgvector.NewVector(e.Embedding),
		CreatedAt:         e.CreatedAt,
		UpdatedAt:         updatedAt,
		DeletedAt:         deletedAt,
	}
}
