package cli

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
)

var (
	nonWordChars = regexp.MustCompile(`[^\w\s-]`)
	whitespace   = regexp.MustCompile(`\s+`)
)

// sanitizeFilename turns a video title into a safe lowercase file base
// name: punctuation stripped, whitespace collapsed into hyphens.
func sanitizeFilename(title string) string {
	name := nonWordChars.ReplaceAllString(title, "")
	name = whitespace.ReplaceAllString(strings.TrimSpace(name), "-")
	return strings.ToLower(name)
}

// saveAndPrint writes content to path and echoes it to w. Re-running the
// tool for the same video intentionally overwrites earlier output.
func saveAndPrint(w io.Writer, path, content, label string) error {
	// #nosec G304 G306 -- user-chosen output path with standard permissions
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", strings.ToLower(label), err)
	}

	_, _ = fmt.Fprintf(w, "%s saved to %s\n\n", label, path)
	_, _ = fmt.Fprintln(w, content)
	_, _ = fmt.Fprintln(w)
	return nil
}
