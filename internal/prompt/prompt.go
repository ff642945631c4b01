// Package prompt holds the fixed instruction templates sent to the model.
// Prompts are versioned with the binary; changing one requires a rebuild.
package prompt

import "fmt"

const cleanInstruction = `Below is a raw YouTube transcript. Clean it up by adding proper punctuation, capitalization, and paragraph breaks. Fix obvious transcription errors where the intended word is clear. Keep the content exactly as spoken: do not summarize, rephrase, or omit anything. Do not add any commentary, headers, or notes. Return only the cleaned transcript text.`

const cleanSegmentInstruction = `Below is part %d of %d of a raw YouTube transcript that was split due to length. This is a fragment from the middle of a longer document. Clean it up by adding proper punctuation, capitalization, and paragraph breaks. Fix obvious transcription errors where the intended word is clear. Keep the content exactly as spoken: do not summarize, rephrase, or omit anything. Do not add an introduction, a conclusion, any commentary, headers, or notes. Return only the cleaned text of this part.`

const explainInstruction = `Below is a transcript from a YouTube video. Explain the content to me like I'm not an expert. Break down any jargon, technical concepts, or complex ideas in plain, everyday English. Organise it clearly with headings and short paragraphs. Don't skip anything important: I want to fully understand what was said, just in simpler terms.`

const summarizeInstruction = `Below is a transcript from a YouTube video. Give me a clear summary of the key points as a bulleted list. Each bullet should be one or two sentences. Keep the language simple and plain. Cover all the main ideas without unnecessary detail.`

const tldrInstruction = `Below is a transcript from a YouTube video. Give me a single short paragraph (3-5 sentences max) that captures the core message. Write it in plain, simple English. No bullet points, no headings, just one tight paragraph.`

// Clean builds the whole-document cleanup prompt for a transcript that fits
// in a single segment.
func Clean(text string) string {
	return cleanInstruction + "\n\n" + text
}

// CleanSegment builds the cleanup prompt for one segment of a chunked
// transcript. part is 1-based; total is the segment count.
func CleanSegment(text string, part, total int) string {
	return fmt.Sprintf(cleanSegmentInstruction, part, total) + "\n\n" + text
}

// Explain builds the plain-language explanation prompt.
func Explain(document string) string {
	return explainInstruction + "\n\n" + document
}

// Summarize builds the bulleted key-points summary prompt.
func Summarize(document string) string {
	return summarizeInstruction + "\n\n" + document
}

// TLDR builds the single-paragraph digest prompt.
func TLDR(document string) string {
	return tldrInstruction + "\n\n" + document
}
