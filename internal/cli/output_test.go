package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSanitizeFilename(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		title string
		want  string
	}{
		{
			name:  "plain title",
			title: "My Great Video",
			want:  "my-great-video",
		},
		{
			name:  "punctuation stripped",
			title: "What's New in Go 1.25?!",
			want:  "whats-new-in-go-125",
		},
		{
			name:  "whitespace collapsed",
			title: "  spaced \t out\ntitle  ",
			want:  "spaced-out-title",
		},
		{
			name:  "hyphens kept",
			title: "A-B testing",
			want:  "a-b-testing",
		},
		{
			name:  "symbols only yields empty",
			title: "!!! ???",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := sanitizeFilename(tt.title); got != tt.want {
				t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.title, got, tt.want)
			}
		})
	}
}

func TestSaveAndPrint(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out.md")
	var buf bytes.Buffer

	if err := saveAndPrint(&buf, path, "the content", "Transcript"); err != nil {
		t.Fatalf("saveAndPrint() error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "the content" {
		t.Errorf("file content = %q", data)
	}

	out := buf.String()
	if !strings.Contains(out, "Transcript saved to "+path) {
		t.Errorf("missing save notice: %q", out)
	}
	if !strings.Contains(out, "the content") {
		t.Errorf("content not echoed: %q", out)
	}

	// Re-running for the same video overwrites.
	if err := saveAndPrint(&buf, path, "newer content", "Transcript"); err != nil {
		t.Fatalf("overwrite error: %v", err)
	}
	data, _ = os.ReadFile(path)
	if string(data) != "newer content" {
		t.Errorf("overwritten content = %q", data)
	}
}
