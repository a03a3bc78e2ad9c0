package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

// CaseChunk is one chunk of an indexed judgment. The partition is public:
// there is no ownership tag and searches never filter by caller.
type CaseChunk struct {
	Id                uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CaseName          string          `gorm:"type:text;not null"`
	Bench             string          `gorm:"type:text"`
	DecisionDate      string          `gorm:"type:text"` // YYYY-MM-DD as published; parsed lazily
	Filename          string          `gorm:"type:text"`
	MainIssue         string          `gorm:"type:text"`
	DecisionReasoning string          `gorm:"type:text"`
	Outcome           string          `gorm:"type:text"` // "Revenue" or "Assessee"
	SectionsCited     string          `gorm:"type:text"`
	CaseAbout         string          `gorm:"type:text"` // Detailed description, also the dedup key
	Embedding         pgvector.Vector `gorm:"type:vector(384)"`
	CreatedAt         time.Time       `gorm:"autoCreateTime"`
	UpdatedAt         time.Time       `gorm:"autoUpdateTime"`
	DeletedAt         gorm.DeletedAt  `gorm:"index"`
}

func (CaseChunk) TableName() string {
	return "case_chunks"
}
