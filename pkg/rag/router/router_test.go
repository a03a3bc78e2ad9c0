package router

import (
	"context"
	"errors"
	"strings"
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

// scriptedLLM returns a fixed response (or error) and records the last
// system prompt so tests can assert on mode selection.
type scriptedLLM struct {
	response   string
	err        error
	lastSystem string
}

func (s *scriptedLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	for _, m := range history {
		if m.Role == "system" {
			s.lastSystem = m.Content
		}
	}
	return s.response, s.err
}

func (s *scriptedLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return s.response, s.err
}

func TestRouteFullMode(t *testing.T) {
	tests := []struct {
		name            string
		response        string
		wantTool        string
		wantFileQueries int
		wantCaseQueries int
	}{
		{
			name:            "hybrid search decision",
			response:        `{"tool_choice": "hybrid_search", "file_search_queries": ["assessment year", "notice date"], "case_search_queries": ["Section 148 reopening validity"]}`,
			wantTool:        state.ToolHybridSearch,
			wantFileQueries: 2,
			wantCaseQueries: 1,
		},
		{
			name:            "file search decision",
			response:        `{"tool_choice": "file_search", "file_search_queries": ["penalty amount"]}`,
			wantTool:        state.ToolFileSearch,
			wantFileQueries: 1,
			wantCaseQueries: 0,
		},
		{
			name:            "fenced output still parses",
			response:        "```json\n{\"tool_choice\": \"case_search\", \"case_search_queries\": [\"Section 14A disallowance\"]}\n```",
			wantTool:        state.ToolCaseSearch,
			wantCaseQueries: 1,
		},
		{
			name:            "uppercase tool is normalized",
			response:        `{"tool_choice": "DIRECT_ANSWER"}`,
			wantTool:        state.ToolDirectAnswer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &scriptedLLM{response: tt.response}
			r := NewRouter(mock, nopLogger{})

			decision := r.Route(context.Background(), "question", "FILENAME: notice.pdf\nPREVIEW: ...")

			if decision.ToolChoice != tt.wantTool {
				t.Errorf("ToolChoice = %q, want %q", decision.ToolChoice, tt.wantTool)
			}
			if len(decision.FileSearchQueries) != tt.wantFileQueries {
				t.Errorf("FileSearchQueries = %d, want %d", len(decision.FileSearchQueries), tt.wantFileQueries)
			}
			if len(decision.CaseSearchQueries) != tt.wantCaseQueries {
				t.Errorf("CaseSearchQueries = %d, want %d", len(decision.CaseSearchQueries), tt.wantCaseQueries)
			}
		})
	}
}

func TestRouteRestrictedMode(t *testing.T) {
	tests := []struct {
		name     string
		response string
		wantTool string
	}{
		{
			name:     "case search allowed",
			response: `{"tool_choice": "case_search", "case_search_queries": ["Section 68 cash credits"]}`,
			wantTool: state.ToolCaseSearch,
		},
		{
			name:     "file search is rejected without a manifest",
			response: `{"tool_choice": "file_search", "file_search_queries": ["facts"]}`,
			wantTool: state.ToolDirectAnswer,
		},
		{
			name:     "hybrid search is rejected without a manifest",
			response: `{"tool_choice": "hybrid_search"}`,
			wantTool: state.ToolDirectAnswer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &scriptedLLM{response: tt.response}
			r := NewRouter(mock, nopLogger{})

			decision := r.Route(context.Background(), "question", "")

			if decision.ToolChoice != tt.wantTool {
				t.Errorf("ToolChoice = %q, want %q", decision.ToolChoice, tt.wantTool)
			}
		})
	}
}

func TestRouteRestrictedModeDiscardsFileQueries(t *testing.T) {
	// A restricted-mode answer claiming file queries is not trusted.
	mock := &scriptedLLM{response: `{"tool_choice": "case_search", "file_search_queries": ["should vanish"], "case_search_queries": ["kept"]}`}
	r := NewRouter(mock, nopLogger{})

	decision := r.Route(context.Background(), "question", "   ")

	if decision.FileSearchQueries != nil {
		t.Errorf("FileSearchQueries = %v, want nil", decision.FileSearchQueries)
	}
	if len(decision.CaseSearchQueries) != 1 {
		t.Errorf("CaseSearchQueries = %d, want 1", len(decision.CaseSearchQueries))
	}
}

func TestRouteFallsBackOnFailure(t *testing.T) {
	tests := []struct {
		name string
		mock *scriptedLLM
	}{
		{"model error", &scriptedLLM{err: errors.New("connection refused")}},
		{"unparseable output", &scriptedLLM{response: "I think you should use case search."}},
		{"unknown tool", &scriptedLLM{response: `{"tool_choice": "web_search"}`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRouter(tt.mock, nopLogger{})
			decision := r.Route(context.Background(), "question", "FILENAME: a.pdf")

			if decision.ToolChoice != state.ToolDirectAnswer {
				t.Errorf("ToolChoice = %q, want %q", decision.ToolChoice, state.ToolDirectAnswer)
			}
			if decision.FileSearchQueries != nil || decision.CaseSearchQueries != nil {
				t.Errorf("fallback decision must carry no queries, got %v / %v",
					decision.FileSearchQueries, decision.CaseSearchQueries)
			}
		})
	}
}

func TestRouteModeSelectsPrompt(t *testing.T) {
	mock := &scriptedLLM{response: `{"tool_choice": "direct_answer"}`}
	r := NewRouter(mock, nopLogger{})

	r.Route(context.Background(), "q", "FILENAME: notice.pdf")
	if !strings.Contains(mock.lastSystem, "file_context") {
		t.Errorf("full mode prompt should embed the manifest")
	}

	r.Route(context.Background(), "q", "")
	if strings.Contains(mock.lastSystem, "file_context") {
		t.Errorf("restricted mode prompt must not mention file context")
	}
}
