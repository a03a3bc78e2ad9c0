package pipeline

import (
	"context"

	"legal-rag-be/internal/pkg/logger"
	"legal-rag-be/pkg/rag/generate"
	"legal-rag-be/pkg/rag/metadata"
	"legal-rag-be/pkg/rag/retriever"
	"legal-rag-be/pkg/rag/router"
	"legal-rag-be/pkg/rag/state"
)

// Pipeline executes one turn:
//
//	router -> retriever -> rag generator -> metadata -> END
//	       \-> direct generator ---------/
//
// There are no retries and no aborts. Every node resolves its own
// failures to a safe partial update, so Run always returns a complete
// best-effort Conversation.
type Pipeline struct {
	router    *router.Router
	retriever *retriever.Retriever
	generator *generate.Generator
	extractor *metadata.Extractor
	logger    logger.ILogger
}

func New(
	rt *router.Router,
	rv *retriever.Retriever,
	gen *generate.Generator,
	ext *metadata.Extractor,
	log logger.ILogger,
) *Pipeline {
	return &Pipeline{
		router:    rt,
		retriever: rv,
		generator: gen,
		extractor: ext,
		logger:    log,
	}
}

// Run executes the full turn over a copy of the conversation state and
// returns the final state.
func (p *Pipeline) Run(ctx context.Context, conv state.Conversation) state.Conversation {
	p.logger.Info("Pipeline", "Turn started", map[string]interface{}{
		"thread_id":    conv.ThreadID,
		"manifest_len": len(conv.FileManifest),
	})

	// Node 1: router
	decision := p.router.Route(ctx, conv.Question, conv.FileManifest)
	conv.ToolChoice = decision.ToolChoice
	conv.FileSearchQueries = decision.FileSearchQueries
	conv.CaseSearchQueries = decision.CaseSearchQueries

	// Node 2+3: retrieval path or direct path
	if conv.ToolChoice == state.ToolDirectAnswer {
		conv.FinalAnswer = p.generator.GenerateDirect(ctx, conv.Question, conv.ConversationSummary)
		conv.Sources = nil
	} else {
		documents, sources := p.retriever.Retrieve(ctx, &conv)
		conv.Documents = documents
		conv.Sources = sources

		answer, kept := p.generator.GenerateRAG(ctx, conv.Question, conv.Documents, conv.Sources)
		conv.FinalAnswer = answer
		conv.Sources = kept
	}

	// Node 4: metadata, always runs, never fails
	meta := p.extractor.Derive(ctx, conv.Question, conv.FinalAnswer, conv.ConversationSummary)
	conv.ChatTitle = meta.Title
	conv.UpdatedSummary = meta.Summary
	conv.FollowUp = meta.FollowUp

	p.logger.Info("Pipeline", "Turn finished", map[string]interface{}{
		"thread_id":   conv.ThreadID,
		"tool_choice": conv.ToolChoice,
		"sources":     len(conv.Sources),
	})

	return conv
}
