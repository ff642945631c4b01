// Package chunk splits oversized transcripts into bounded word-count segments.
package chunk

import "strings"

// DefaultMaxWords is the default segment size threshold.
// ~3000 words keeps each cleanup request well inside model context limits
// while leaving room for the instruction prompt and the response.
const DefaultMaxWords = 3000

// Segment is a contiguous, non-overlapping slice of the transcript's words,
// rejoined into a single string. Segments partition the transcript exactly:
// concatenating all segments' words in order reproduces the original word
// sequence.
type Segment struct {
	Index int    // 0-based position in the transcript
	Total int    // total number of segments
	Text  string // words rejoined with single spaces
}

// Split tokenizes text on whitespace and groups the words into consecutive
// segments of at most maxWords words each. No word is dropped, duplicated,
// or reordered. A transcript of maxWords words or fewer yields exactly one
// segment.
//
// Whitespace-only input yields no segments; callers decide whether that is
// an error. A non-positive maxWords also yields no segments.
func Split(text string, maxWords int) []Segment {
	if maxWords <= 0 {
		return nil
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var segments []Segment
	for start := 0; start < len(words); start += maxWords {
		end := min(start+maxWords, len(words))
		segments = append(segments, Segment{
			Index: len(segments),
			Text:  strings.Join(words[start:end], " "),
		})
	}

	total := len(segments)
	for i := range segments {
		segments[i].Total = total
	}

	return segments
}
