package utils

import (
	"strings"
	"testing"
)

func TestSplitText(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		chunkSize  int
		overlap    int
		wantChunks int
	}{
		{
			name:       "short text is a single chunk",
			text:       "hello",
			chunkSize:  100,
			overlap:    10,
			wantChunks: 1,
		},
		{
			name:       "exact boundary is a single chunk",
			text:       strings.Repeat("a", 100),
			chunkSize:  100,
			overlap:    10,
			wantChunks: 1,
		},
		{
			name:       "long text splits with overlap",
			text:       strings.Repeat("a", 250),
			chunkSize:  100,
			overlap:    20,
			wantChunks: 3, // steps of 80: [0:100], [80:180], [160:250]
		},
		{
			name:       "overlap >= chunkSize falls back to full step",
			text:       strings.Repeat("a", 250),
			chunkSize:  100,
			overlap:    100,
			wantChunks: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := SplitText(tt.text, tt.chunkSize, tt.overlap)
			if len(chunks) != tt.wantChunks {
				t.Fatalf("chunks = %d, want %d", len(chunks), tt.wantChunks)
			}
			for i, c := range chunks {
				if len([]rune(c)) > tt.chunkSize {
					t.Errorf("chunk %d length %d exceeds chunkSize %d", i, len([]rune(c)), tt.chunkSize)
				}
			}
		})
	}
}

func TestSplitTextOverlapPreservesBoundary(t *testing.T) {
	text := strings.Repeat("x", 90) + strings.Repeat("y", 90)
	chunks := SplitText(text, 100, 20)

	if len(chunks) < 2 {
		t.Fatalf("expected at least 2 chunks, got %d", len(chunks))
	}
	// The second chunk starts 20 runes before the end of the first.
	tail := chunks[0][len(chunks[0])-20:]
	if !strings.HasPrefix(chunks[1], tail) {
		t.Errorf("second chunk does not begin with the overlap of the first")
	}
}

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		name   string
		s      string
		maxLen int
		want   string
	}{
		{"under budget", "abc", 10, "abc"},
		{"exact budget", "abc", 3, "abc"},
		{"over budget", "abcdef", 3, "abc"},
		{"zero budget", "abc", 0, ""},
		{"multibyte runes", "अनुच्छेद", 4, "अनुच"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TruncateRunes(tt.s, tt.maxLen); got != tt.want {
				t.Errorf("TruncateRunes() = %q, want %q", got, tt.want)
			}
		})
	}
}
