// Package youtube fetches video titles and caption transcripts. It is a
// thin I/O layer: everything interesting happens downstream in the cleanup
// pipeline.
package youtube

import (
	"fmt"
	"regexp"
)

// Video IDs are exactly 11 characters of this alphabet.
var (
	urlPattern    = regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/embed/|youtube\.com/v/|youtube\.com/shorts/)([a-zA-Z0-9_-]{11})`)
	bareIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)
)

// ExtractVideoID parses a YouTube video ID out of a watch/short/embed URL,
// or returns the input unchanged if it is already a bare ID.
func ExtractVideoID(urlOrID string) (string, error) {
	if m := urlPattern.FindStringSubmatch(urlOrID); m != nil {
		return m[1], nil
	}
	if bareIDPattern.MatchString(urlOrID) {
		return urlOrID, nil
	}
	return "", fmt.Errorf("%w from %q", ErrBadVideoURL, urlOrID)
}
