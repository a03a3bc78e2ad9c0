package generate

import (
	"context"
	"errors"
	"testing"

	"legal-rag-be/pkg/llm"
	"legal-rag-be/pkg/rag/state"
)

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

type scriptedLLM struct {
	response string
	err      error
	calls    int
}

func (s *scriptedLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	s.calls++
	return s.response, s.err
}

func (s *scriptedLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	s.calls++
	return s.response, s.err
}

func TestGenerateRAGEmptyDocuments(t *testing.T) {
	mock := &scriptedLLM{response: "should never be returned"}
	g := NewGenerator(mock, nopLogger{})

	answer, sources := g.GenerateRAG(context.Background(), "question", nil, []state.SourceRef{
		{FullPath: "uploads/a.pdf", Filename: "a.pdf"},
	})

	if answer != NotFoundAnswer {
		t.Errorf("answer = %q, want the fixed not-found answer", answer)
	}
	if sources != nil {
		t.Errorf("sources = %v, want nil", sources)
	}
	if mock.calls != 0 {
		t.Errorf("model was called %d times, want 0", mock.calls)
	}
}

func TestGenerateRAGError(t *testing.T) {
	mock := &scriptedLLM{err: errors.New("rate limited")}
	g := NewGenerator(mock, nopLogger{})

	answer, sources := g.GenerateRAG(context.Background(), "question",
		[]string{"### FACTS", "SOURCE DOC: a.pdf\nCONTENT: facts"},
		[]state.SourceRef{{FullPath: "uploads/a.pdf", Filename: "a.pdf"}},
	)

	if answer != ErrorAnswer {
		t.Errorf("answer = %q, want the fixed error answer", answer)
	}
	if sources != nil {
		t.Errorf("sources = %v, want nil", sources)
	}
}

func TestGenerateRAGFiltersSources(t *testing.T) {
	mock := &scriptedLLM{response: "As stated in notice.pdf, the reassessment is invalid. Reliance is placed on CIT v. Kelvinator."}
	g := NewGenerator(mock, nopLogger{})

	candidates := []state.SourceRef{
		{FullPath: "uploads/notice.pdf", Filename: "notice.pdf"},
		{FullPath: "Delhi HC/2010/01/kelvinator.pdf", CaseName: "CIT v. Kelvinator"},
		{FullPath: "Mumbai ITAT/2015/06/uncited.pdf", CaseName: "CIT v. Uncited"},
	}

	answer, sources := g.GenerateRAG(context.Background(), "question", []string{"context"}, candidates)

	if answer != mock.response {
		t.Errorf("answer was altered: %q", answer)
	}
	if len(sources) != 2 {
		t.Fatalf("sources = %d, want 2", len(sources))
	}
	if sources[0].Filename != "notice.pdf" || sources[1].CaseName != "CIT v. Kelvinator" {
		t.Errorf("wrong sources kept: %+v", sources)
	}
}

func TestGenerateDirect(t *testing.T) {
	t.Run("returns the model answer", func(t *testing.T) {
		mock := &scriptedLLM{response: "Section 80C allows deductions up to 1.5 lakh."}
		g := NewGenerator(mock, nopLogger{})

		answer := g.GenerateDirect(context.Background(), "What is 80C?", "")
		if answer != mock.response {
			t.Errorf("answer = %q", answer)
		}
	})

	t.Run("degrades to the fixed error answer", func(t *testing.T) {
		mock := &scriptedLLM{err: errors.New("connection reset")}
		g := NewGenerator(mock, nopLogger{})

		answer := g.GenerateDirect(context.Background(), "What is 80C?", "")
		if answer != ErrorAnswer {
			t.Errorf("answer = %q, want the fixed error answer", answer)
		}
	})
}
