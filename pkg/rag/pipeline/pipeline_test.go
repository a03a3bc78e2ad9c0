package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"legal-rag-be/internal/entity"
	"legal-rag-be/internal/repository/contract"
	"legal-rag-be/pkg/embedding"
	"legal-rag-be/pkg/llm"
	"legal-rag-be/pkg/rag/generate"
	"legal-rag-be/pkg/rag/metadata"
	"legal-rag-be/pkg/rag/retriever"
	"legal-rag-be/pkg/rag/router"
	"legal-rag-be/pkg/rag/state"

	"github.com/google/uuid"
)

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

// promptAwareLLM plays all four node roles by inspecting the prompt.
type promptAwareLLM struct {
	routerResp   string
	metadataResp string
	refineResp   string
	answerResp   string
	err          error
}

func (p *promptAwareLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	for _, m := range history {
		if m.Role != "system" {
			continue
		}
		if strings.Contains(m.Content, "background conversation processor") {
			return p.metadataResp, nil
		}
	}
	return p.routerResp, nil
}

func (p *promptAwareLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	if strings.Contains(prompt, "Legal Research Assistant") {
		return p.refineResp, nil
	}
	return p.answerResp, nil
}

type fakeEmbedder struct{}

func (fakeEmbedder) Generate(text, taskType string) (*embedding.EmbeddingResponse, error) {
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: []float32{0.5}},
	}, nil
}

func (fakeEmbedder) GenerateBatch(texts []string, taskType string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{0.5}
	}
	return out, nil
}

type fakeVectorRepo struct {
	privateHits []*contract.ScoredFileChunk
	publicHits  []*contract.ScoredCaseChunk
}

func (f *fakeVectorRepo) CreateFileChunks(ctx context.Context, chunks []*entity.FileChunk) error {
	return nil
}
func (f *fakeVectorRepo) CreateCaseChunks(ctx context.Context, chunks []*entity.CaseChunk) error {
	return nil
}
func (f *fakeVectorRepo) DeleteFileChunksByThreadId(ctx context.Context, threadId string) error {
	return nil
}
func (f *fakeVectorRepo) DeleteCaseChunk(ctx context.Context, id uuid.UUID) error { return nil }
func (f *fakeVectorRepo) SearchPrivate(ctx context.Context, emb []float32, threadId string, limit int) ([]*contract.ScoredFileChunk, error) {
	return f.privateHits, nil
}
func (f *fakeVectorRepo) SearchPublic(ctx context.Context, emb []float32, limit int) ([]*contract.ScoredCaseChunk, error) {
	return f.publicHits, nil
}

func newPipeline(mock *promptAwareLLM, repo *fakeVectorRepo) *Pipeline {
	log := nopLogger{}
	return New(
		router.NewRouter(mock, log),
		retriever.NewRetriever(fakeEmbedder{}, repo, mock, log, 5),
		generate.NewGenerator(mock, log),
		metadata.NewExtractor(mock, log),
		log,
	)
}

func TestRunDirectPath(t *testing.T) {
	mock := &promptAwareLLM{
		routerResp:   `{"tool_choice": "direct_answer"}`,
		answerResp:   "Hello! I can help with Indian tax law questions.",
		metadataResp: `{"title": "General Greeting", "updated_conversation_summary": "The user greeted the assistant.", "follow_up_question": "What would you like to know?"}`,
	}
	p := newPipeline(mock, &fakeVectorRepo{})

	final := p.Run(context.Background(), state.Conversation{
		ThreadID: "t1",
		Question: "Hello",
	})

	if final.ToolChoice != state.ToolDirectAnswer {
		t.Errorf("ToolChoice = %q", final.ToolChoice)
	}
	if final.FinalAnswer != mock.answerResp {
		t.Errorf("FinalAnswer = %q", final.FinalAnswer)
	}
	if final.Sources != nil {
		t.Errorf("direct path must carry no sources, got %v", final.Sources)
	}
	if final.ChatTitle != "General Greeting" || final.UpdatedSummary == "" || final.FollowUp == "" {
		t.Errorf("metadata incomplete: %+v", final)
	}
}

func TestRunCaseSearchPath(t *testing.T) {
	repo := &fakeVectorRepo{
		publicHits: []*contract.ScoredCaseChunk{
			{
				Chunk: &entity.CaseChunk{
					Id:                uuid.New(),
					CaseName:          "CIT v. Kelvinator",
					Bench:             "Delhi HC",
					DecisionDate:      "2010-01-18",
					Filename:          "kelvinator.pdf",
					MainIssue:         "change of opinion",
					DecisionReasoning: "mere change of opinion cannot justify reopening",
					Outcome:           "Assessee",
					CaseAbout:         "reassessment on change of opinion",
				},
				Similarity: 0.91,
			},
		},
	}
	mock := &promptAwareLLM{
		routerResp:   `{"tool_choice": "case_search", "case_search_queries": ["change of opinion reassessment"]}`,
		answerResp:   "Reliance is placed on CIT v. Kelvinator, which bars reopening on a mere change of opinion.",
		metadataResp: `{"title": "Reassessment and Change of Opinion Doctrine", "updated_conversation_summary": "Discussed the Kelvinator doctrine.", "follow_up_question": "Was a fresh tangible material available?"}`,
	}
	p := newPipeline(mock, repo)

	final := p.Run(context.Background(), state.Conversation{
		ThreadID: "t1",
		Question: "Can the AO reopen on a change of opinion?",
	})

	if final.ToolChoice != state.ToolCaseSearch {
		t.Errorf("ToolChoice = %q", final.ToolChoice)
	}
	if len(final.Sources) != 1 {
		t.Fatalf("Sources = %d, want 1", len(final.Sources))
	}
	if final.Sources[0].FullPath != "Delhi HC/2010/01/kelvinator.pdf" {
		t.Errorf("FullPath = %q", final.Sources[0].FullPath)
	}
	if len(final.Documents) == 0 {
		t.Errorf("Documents should carry the retrieved context")
	}
}

func TestRunRetrievalEmptyHitsFixedAnswer(t *testing.T) {
	mock := &promptAwareLLM{
		routerResp:   `{"tool_choice": "case_search", "case_search_queries": ["obscure point"]}`,
		answerResp:   "should not be used",
		metadataResp: `{"title": "Unanswered Legal Query", "updated_conversation_summary": "Nothing was found.", "follow_up_question": "Can you rephrase?"}`,
	}
	p := newPipeline(mock, &fakeVectorRepo{})

	final := p.Run(context.Background(), state.Conversation{ThreadID: "t1", Question: "?"})

	if final.FinalAnswer != generate.NotFoundAnswer {
		t.Errorf("FinalAnswer = %q, want fixed not-found answer", final.FinalAnswer)
	}
	if final.Sources != nil {
		t.Errorf("Sources = %v, want nil", final.Sources)
	}
}

func TestRunNeverAborts(t *testing.T) {
	// Every model call fails. The turn must still complete with the
	// deterministic answer and fallback metadata.
	mock := &promptAwareLLM{err: errors.New("total outage")}
	p := newPipeline(mock, &fakeVectorRepo{})

	final := p.Run(context.Background(), state.Conversation{
		ThreadID:            "t1",
		Question:            "anything",
		ConversationSummary: "earlier context",
	})

	// Router falls back to direct_answer, direct generation fails too.
	if final.ToolChoice != state.ToolDirectAnswer {
		t.Errorf("ToolChoice = %q", final.ToolChoice)
	}
	if final.FinalAnswer != generate.ErrorAnswer {
		t.Errorf("FinalAnswer = %q, want fixed error answer", final.FinalAnswer)
	}
	if final.ChatTitle != metadata.FallbackTitle {
		t.Errorf("ChatTitle = %q, want fallback title", final.ChatTitle)
	}
	if !strings.Contains(final.UpdatedSummary, "earlier context") {
		t.Errorf("fallback summary lost the old context: %q", final.UpdatedSummary)
	}
	if final.FollowUp != metadata.FallbackFollowUp {
		t.Errorf("FollowUp = %q", final.FollowUp)
	}
}

func TestRunManifestUnlocksFileSearch(t *testing.T) {
	repo := &fakeVectorRepo{
		privateHits: []*contract.ScoredFileChunk{
			{
				Chunk: &entity.FileChunk{
					Id:       uuid.New(),
					ThreadId: "t1",
					Filename: "notice.pdf",
					Source:   "uploads/notice.pdf",
					Content:  "Notice under Section 148 dated 2021-03-31",
				},
				Similarity: 0.95,
			},
		},
	}
	mock := &promptAwareLLM{
		routerResp:   `{"tool_choice": "file_search", "file_search_queries": ["notice date"]}`,
		answerResp:   "Per notice.pdf, the notice is dated 31 March 2021.",
		metadataResp: `{"title": "Reassessment Notice Date Verification", "updated_conversation_summary": "Confirmed the notice date from the upload.", "follow_up_question": "Do you want to test its limitation period?"}`,
	}
	p := newPipeline(mock, repo)

	final := p.Run(context.Background(), state.Conversation{
		ThreadID:     "t1",
		Question:     "When was the notice issued?",
		FileManifest: "FILENAME: notice.pdf\nPREVIEW: Notice under Section 148...",
	})

	if final.ToolChoice != state.ToolFileSearch {
		t.Errorf("ToolChoice = %q", final.ToolChoice)
	}
	if len(final.Sources) != 1 || final.Sources[0].FullPath != "uploads/notice.pdf" {
		t.Errorf("Sources = %+v", final.Sources)
	}
}
