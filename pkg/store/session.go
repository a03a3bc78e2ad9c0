package store

import (
	"context"
	"fmt"
	"strings"
)

// SessionState is the durable per-thread conversation state. It survives
// across turns; everything else in the pipeline is rebuilt per question.
type SessionState struct {
	ConversationSummary string `json:"conversation_summary"`
	FileManifest        string `json:"file_manifest"`
}

// ManifestEntry describes one ingested document for the router's
// file-awareness block.
type ManifestEntry struct {
	Filename string
	Preview  string
}

// Render produces the FILENAME/PREVIEW block appended to the manifest.
func (e ManifestEntry) Render() string {
	preview := strings.ReplaceAll(e.Preview, "\n", " ")
	return fmt.Sprintf("FILENAME: %s\nPREVIEW: %s", e.Filename, preview)
}

// AppendManifest appends an entry to the current manifest unless an entry
// for the same filename is already present. Returns the updated manifest
// and whether it changed. Re-ingesting the same file is a no-op, so the
// router's file context never repeats itself.
func AppendManifest(current string, entry ManifestEntry) (string, bool) {
	if entry.Filename != "" && strings.Contains(current, entry.Filename) {
		return current, false
	}
	updated := strings.TrimSpace(current + "\n\n" + entry.Render())
	return updated, true
}

// SessionStore persists per-thread session state.
type SessionStore interface {
	Get(ctx context.Context, threadID string) (SessionState, error)
	SetSummary(ctx context.Context, threadID string, summary string) error

	// AppendManifest applies AppendManifest semantics atomically against
	// the stored state. Returns true when the manifest changed.
	AppendManifest(ctx context.Context, threadID string, entry ManifestEntry) (bool, error)
}
