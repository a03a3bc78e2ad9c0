package service

import (
	"context"
	"fmt"

	"legal-rag-be/internal/dto"
	"legal-rag-be/internal/pkg/logger"
	"legal-rag-be/pkg/rag/pipeline"
	"legal-rag-be/pkg/rag/state"
	"legal-rag-be/pkg/store"
)

type IChatService interface {
	// Query runs one full pipeline turn for a thread and persists the
	// updated conversation summary.
	Query(ctx context.Context, req *dto.QueryRequest) (*dto.QueryResponse, error)

	// GetSession returns the durable session state for a thread.
	GetSession(ctx context.Context, threadId string) (*dto.SessionResponse, error)
}

type chatService struct {
	pipeline     *pipeline.Pipeline
	sessionStore store.SessionStore
	logger       logger.ILogger
}

func NewChatService(p *pipeline.Pipeline, sessionStore store.SessionStore, log logger.ILogger) IChatService {
	return &chatService{
		pipeline:     p,
		sessionStore: sessionStore,
		logger:       log,
	}
}

func (s *chatService) Query(ctx context.Context, req *dto.QueryRequest) (*dto.QueryResponse, error) {
	session, err := s.sessionStore.Get(ctx, req.ThreadId)
	if err != nil {
		// A cold session store should not block the turn; the pipeline
		// degrades to an empty summary and restricted routing.
		s.logger.Warn("ChatService", "Session load failed, starting from empty state", map[string]interface{}{
			"thread_id": req.ThreadId,
			"error":     err.Error(),
		})
		session = store.SessionState{}
	}

	conv := state.Conversation{
		ThreadID:            req.ThreadId,
		Question:            req.Question,
		ConversationSummary: session.ConversationSummary,
		FileManifest:        session.FileManifest,
	}

	final := s.pipeline.Run(ctx, conv)

	if err := s.sessionStore.SetSummary(ctx, req.ThreadId, final.UpdatedSummary); err != nil {
		s.logger.Error("ChatService", "Failed to persist conversation summary", map[string]interface{}{
			"thread_id": req.ThreadId,
			"error":     err.Error(),
		})
		// The answer is still valid; only continuity suffers.
	}

	return &dto.QueryResponse{
		Answer:   final.FinalAnswer,
		Sources:  sourcePaths(final.Sources),
		Title:    final.ChatTitle,
		Summary:  final.UpdatedSummary,
		FollowUp: final.FollowUp,
	}, nil
}

func (s *chatService) GetSession(ctx context.Context, threadId string) (*dto.SessionResponse, error) {
	session, err := s.sessionStore.Get(ctx, threadId)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	return &dto.SessionResponse{
		ThreadId:            threadId,
		ConversationSummary: session.ConversationSummary,
		FileManifest:        session.FileManifest,
	}, nil
}

// sourcePaths collapses the kept sources to their unique locators.
func sourcePaths(sources []state.SourceRef) []string {
	paths := make([]string, 0, len(sources))
	seen := make(map[string]bool)
	for _, src := range sources {
		if src.FullPath == "" || seen[src.FullPath] {
			continue
		}
		seen[src.FullPath] = true
		paths = append(paths, src.FullPath)
	}
	return paths
}
