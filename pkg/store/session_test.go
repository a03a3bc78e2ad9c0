package store

import (
	"context"
	"strings"
	"testing"
)

func TestManifestEntryRender(t *testing.T) {
	entry := ManifestEntry{
		Filename: "notice.pdf",
		Preview:  "Notice under\nSection 148\ndated 2021",
	}

	got := entry.Render()
	want := "FILENAME: notice.pdf\nPREVIEW: Notice under Section 148 dated 2021"
	if got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestAppendManifest(t *testing.T) {
	tests := []struct {
		name        string
		current     string
		entry       ManifestEntry
		wantChanged bool
	}{
		{
			name:        "first entry",
			current:     "",
			entry:       ManifestEntry{Filename: "a.pdf", Preview: "p"},
			wantChanged: true,
		},
		{
			name:        "second distinct file",
			current:     "FILENAME: a.pdf\nPREVIEW: p",
			entry:       ManifestEntry{Filename: "b.pdf", Preview: "q"},
			wantChanged: true,
		},
		{
			name:        "duplicate filename is a no-op",
			current:     "FILENAME: a.pdf\nPREVIEW: p",
			entry:       ManifestEntry{Filename: "a.pdf", Preview: "different preview"},
			wantChanged: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			updated, changed := AppendManifest(tt.current, tt.entry)

			if changed != tt.wantChanged {
				t.Fatalf("changed = %v, want %v", changed, tt.wantChanged)
			}
			if !changed {
				if updated != tt.current {
					t.Errorf("no-op must not alter the manifest")
				}
				return
			}
			if !strings.Contains(updated, "FILENAME: "+tt.entry.Filename) {
				t.Errorf("updated manifest missing new entry: %q", updated)
			}
			if tt.current != "" && !strings.HasPrefix(updated, tt.current) {
				t.Errorf("existing entries must be preserved: %q", updated)
			}
		})
	}
}

func TestMemorySessionStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemorySessionStore()

	// Unknown thread yields empty state, not an error.
	state, err := s.Get(ctx, "t1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if state.ConversationSummary != "" || state.FileManifest != "" {
		t.Fatalf("expected empty state, got %+v", state)
	}

	if err := s.SetSummary(ctx, "t1", "first summary"); err != nil {
		t.Fatalf("SetSummary: %v", err)
	}

	changed, err := s.AppendManifest(ctx, "t1", ManifestEntry{Filename: "a.pdf", Preview: "p"})
	if err != nil || !changed {
		t.Fatalf("AppendManifest: changed=%v err=%v", changed, err)
	}

	// Second append of the same file must be idempotent.
	changed, err = s.AppendManifest(ctx, "t1", ManifestEntry{Filename: "a.pdf", Preview: "other"})
	if err != nil {
		t.Fatalf("AppendManifest: %v", err)
	}
	if changed {
		t.Errorf("duplicate append reported a change")
	}

	state, _ = s.Get(ctx, "t1")
	if state.ConversationSummary != "first summary" {
		t.Errorf("summary lost after manifest update: %+v", state)
	}
	if strings.Count(state.FileManifest, "FILENAME: a.pdf") != 1 {
		t.Errorf("manifest duplicated: %q", state.FileManifest)
	}

	// Summary update keeps the manifest.
	if err := s.SetSummary(ctx, "t1", "second summary"); err != nil {
		t.Fatalf("SetSummary: %v", err)
	}
	state, _ = s.Get(ctx, "t1")
	if state.FileManifest == "" {
		t.Errorf("manifest lost after summary update")
	}

	// Threads are independent.
	other, _ := s.Get(ctx, "t2")
	if other.ConversationSummary != "" {
		t.Errorf("thread state leaked: %+v", other)
	}
}
