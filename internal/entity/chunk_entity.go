package entity

import (
	"time"

	"github.com/google/uuid"
)

type FileChunk struct {
	Id         uuid.UUID
	ThreadId   string
	Filename   string
	Source     string
	Content    string
	ChunkIndex int
	Embedding  []float32
	CreatedAt  time.Time
	UpdatedAt  *time.Time
	DeletedAt  *time.Time
	IsDeleted  bool
}

type CaseChunk struct {
	Id                uuid.UUID
	CaseName          string
	Bench             string
	DecisionDate      string
	Filename          string
	MainIssue         string
	DecisionReasoning string
	Outcome           string
	SectionsCited     string
	CaseAbout         string
	Embedding         []float32
	CreatedAt         time.Time
	UpdatedAt         *time.Time
	DeletedAt         *time.Time
	IsDeleted         bool
}
