package utils

import (
	"testing"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     string
	}{
		{
			name:     "bare object",
			response: `{"tool_choice": "direct_answer"}`,
			want:     `{"tool_choice": "direct_answer"}`,
		},
		{
			name:     "object with surrounding prose",
			response: `Sure! Here is the classification: {"tool_choice": "case_search"} Hope that helps.`,
			want:     `{"tool_choice": "case_search"}`,
		},
		{
			name:     "json code fence",
			response: "```json\n{\"queries\": [\"a\", \"b\"]}\n```",
			want:     `{"queries": ["a", "b"]}`,
		},
		{
			name:     "plain code fence",
			response: "```\n{\"queries\": []}\n```",
			want:     `{"queries": []}`,
		},
		{
			name:     "nested braces",
			response: `{"outer": {"inner": 1}}`,
			want:     `{"outer": {"inner": 1}}`,
		},
		{
			name:     "no json at all",
			response: "I cannot answer that.",
			want:     "",
		},
		{
			name:     "empty input",
			response: "",
			want:     "",
		},
		{
			name:     "unbalanced close before open",
			response: "} not json {",
			want:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractJSON(tt.response)
			if got != tt.want {
				t.Errorf("ExtractJSON() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStripMarkdownFences(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "unfenced passthrough",
			raw:  `{"a": 1}`,
			want: `{"a": 1}`,
		},
		{
			name: "json fence with trailing prose discarded",
			raw:  "intro\n```json\n{\"a\": 1}\n```\ntrailer",
			want: `{"a": 1}`,
		},
		{
			name: "unterminated fence keeps remainder",
			raw:  "```json\n{\"a\": 1}",
			want: `{"a": 1}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StripMarkdownFences(tt.raw)
			if got != tt.want {
				t.Errorf("StripMarkdownFences() = %q, want %q", got, tt.want)
			}
		})
	}
}
