package service

import (
	"testing"

	"legal-rag-be/pkg/rag/state"
)

func TestSourcePaths(t *testing.T) {
	sources := []state.SourceRef{
		{FullPath: "uploads/notice.pdf", Filename: "notice.pdf"},
		{FullPath: "uploads/notice.pdf", Filename: "notice.pdf"},
		{FullPath: "Delhi HC/2010/01/kelvinator.pdf", CaseName: "CIT v. Kelvinator"},
		{FullPath: ""},
	}

	paths := sourcePaths(sources)

	want := []string{"uploads/notice.pdf", "Delhi HC/2010/01/kelvinator.pdf"}
	if len(paths) != len(want) {
		t.Fatalf("paths = %v, want %v", paths, want)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("paths[%d] = %q, want %q", i, paths[i], want[i])
		}
	}
}

func TestSourcePathsEmpty(t *testing.T) {
	if paths := sourcePaths(nil); len(paths) != 0 {
		t.Errorf("paths = %v, want empty", paths)
	}
}
