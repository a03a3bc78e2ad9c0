package generate

import (
	"testing"

	"legal-rag-be/pkg/rag/state"
)

func TestFilterSources(t *testing.T) {
	candidates := []state.SourceRef{
		{FullPath: "uploads/notice.pdf", Filename: "notice.pdf"},
		{FullPath: "uploads/notice.pdf", Filename: "notice.pdf"}, // second chunk, same file
		{FullPath: "Delhi HC/2010/01/kelvinator.pdf", CaseName: "CIT v. Kelvinator"},
		{FullPath: "Mumbai ITAT/2015/06/other.pdf", CaseName: "CIT v. Other"},
		{FullPath: "x/y/z.pdf"}, // no filename, no case name
	}

	tests := []struct {
		name      string
		answer    string
		wantPaths []string
	}{
		{
			name:      "cites file and one case",
			answer:    "Per notice.pdf and the ratio of CIT v. Kelvinator, the claim stands.",
			wantPaths: []string{"uploads/notice.pdf", "Delhi HC/2010/01/kelvinator.pdf"},
		},
		{
			name:      "cites nothing",
			answer:    "General principles of taxation apply here.",
			wantPaths: nil,
		},
		{
			name:      "same file cited twice collapses",
			answer:    "notice.pdf says X. Later, notice.pdf also says Y.",
			wantPaths: []string{"uploads/notice.pdf"},
		},
		{
			name:      "case only",
			answer:    "Reliance is placed on CIT v. Other.",
			wantPaths: []string{"Mumbai ITAT/2015/06/other.pdf"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kept := FilterSources(tt.answer, candidates)

			if len(kept) != len(tt.wantPaths) {
				t.Fatalf("kept = %d sources, want %d", len(kept), len(tt.wantPaths))
			}
			for i, want := range tt.wantPaths {
				if kept[i].FullPath != want {
					t.Errorf("kept[%d].FullPath = %q, want %q", i, kept[i].FullPath, want)
				}
			}
		})
	}
}

func TestFilterSourcesEmptyCandidates(t *testing.T) {
	if kept := FilterSources("any answer", nil); kept != nil {
		t.Errorf("kept = %v, want nil", kept)
	}
}
