package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type FileChunk struct {
	Id         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ThreadId   string          `gorm:"type:text;not null;index"` // Tenant tag, every private query filters on it
	Filename   string          `gorm:"type:text;not null"`
	Source     string          `gorm:"type:text"` // Original upload locator
	Content    string          `gorm:"type:text"`
	ChunkIndex int             `gorm:"default:0"` // 0-based index for ordering
	Embedding  pgvector.Vector `gorm:"type:vector(384)"` // all-MiniLM-L6-v2 family uses 384 dimensions
	CreatedAt  time.Time       `gorm:"autoCreateTime"`
	UpdatedAt  time.Time       `gorm:"autoUpdateTime"`
	DeletedAt  gorm.DeletedAt  `gorm:"index"`
}

func (FileChunk) TableName() string {
	return "file_chunks"
}
