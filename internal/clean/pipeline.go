package clean

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alnah/yt-transcript/internal/chunk"
	"github.com/alnah/yt-transcript/internal/prompt"
	"github.com/alnah/yt-transcript/internal/usage"
)

// SegmentResult is the realized outcome of one segment: the cleaned text,
// or the raw chunk text carried through verbatim under the resume policy.
type SegmentResult struct {
	Index   int
	Text    string
	Carried bool // raw text reused without cleaning (index below resume point)
}

// Outcome is the result of running the cleanup pipeline over a transcript.
// Results is in-order and gap-free from index 0 up to Completed. When
// Completed < Total, Cause holds the error that stopped the run and
// ResumeIndex reports where a later run should continue.
type Outcome struct {
	Results   []SegmentResult
	Completed int
	Total     int
	Cause     error // nil when the run completed
}

// Complete reports whether every segment was processed.
func (o *Outcome) Complete() bool {
	return o.Completed == o.Total
}

// ResumeIndex is the lowest segment index not yet successfully transformed.
func (o *Outcome) ResumeIndex() int {
	return o.Completed
}

// Document assembles the cleaned document: the ordered segment results
// joined with a blank line, preserving paragraph boundaries at chunk seams.
func (o *Outcome) Document() string {
	parts := make([]string, len(o.Results))
	for i, r := range o.Results {
		parts[i] = r.Text
	}
	return strings.Join(parts, "\n\n")
}

// Pipeline drives the chunker and the invoker across all segments of a
// transcript. Segments are processed strictly in ascending order, one at a
// time; segment i's outcome decides whether the run continues.
type Pipeline struct {
	invoker    Invoker
	onProgress func(current, total int)
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithProgress sets a callback invoked before each segment call with the
// 1-based segment number and the total count.
func WithProgress(fn func(current, total int)) PipelineOption {
	return func(p *Pipeline) {
		p.onProgress = fn
	}
}

// NewPipeline creates a Pipeline using the given invoker.
func NewPipeline(invoker Invoker, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{invoker: invoker}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Clean splits raw into segments of at most maxWords words and cleans each
// with the fast model.
//
// Segments with index below resumeFrom are carried through verbatim: their
// raw chunk text is reused as their result without a model call. This is
// the resume contract, not fine-grained recovery: a prior run's cleaned
// prefix is trusted as-is (the caller persisted it), and any suffix segment
// that was in flight when that run failed is re-sent in full.
//
// On a mid-run service failure Clean stops immediately. If at least one
// segment has a result, carried ones included, it returns the partial
// in-order outcome with the failure recorded as Cause; the ResumeIndex of
// that outcome resumes the run without skipping or redoing any segment.
// If no segment has a result, the error propagates wrapped in
// ErrNoProgress. Cancellation observed between segments behaves the same
// way, so an interrupted run still yields a resumable outcome.
func (p *Pipeline) Clean(ctx context.Context, raw string, maxWords, resumeFrom int) (*Outcome, error) {
	if maxWords <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrChunkSize, maxWords)
	}

	segments := chunk.Split(raw, maxWords)
	if len(segments) == 0 {
		return nil, ErrEmptyTranscript
	}
	if resumeFrom < 0 {
		resumeFrom = 0
	}

	// A transcript that fits in one segment gets the whole-document
	// instruction; the part-labeled prompt only makes sense mid-document.
	if len(segments) == 1 {
		p.progress(1, 1)
		text, err := p.invoker.Invoke(ctx, prompt.Clean(segments[0].Text), usage.Fast)
		if err != nil {
			return p.halt(nil, 1, err)
		}
		return &Outcome{
			Results:   []SegmentResult{{Index: 0, Text: text}},
			Completed: 1,
			Total:     1,
		}, nil
	}

	total := len(segments)
	results := make([]SegmentResult, 0, total)

	for i, seg := range segments {
		if err := ctx.Err(); err != nil {
			return p.halt(results, total, err)
		}

		if i < resumeFrom {
			results = append(results, SegmentResult{Index: i, Text: seg.Text, Carried: true})
			continue
		}

		p.progress(i+1, total)
		text, err := p.invoker.Invoke(ctx, prompt.CleanSegment(seg.Text, i+1, total), usage.Fast)
		if err != nil {
			return p.halt(results, total, err)
		}
		results = append(results, SegmentResult{Index: i, Text: text})
	}

	return &Outcome{Results: results, Completed: total, Total: total}, nil
}

// halt converts a mid-run failure into either a resumable partial outcome
// or, when nothing completed, a propagated error.
func (p *Pipeline) halt(results []SegmentResult, total int, cause error) (*Outcome, error) {
	if len(results) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrNoProgress, cause)
	}
	return &Outcome{
		Results:   results,
		Completed: len(results),
		Total:     total,
		Cause:     cause,
	}, nil
}

func (p *Pipeline) progress(current, total int) {
	if p.onProgress != nil {
		p.onProgress(current, total)
	}
}

// IsServiceError reports whether err came from a failed generation call.
func IsServiceError(err error) bool {
	var se *ServiceError
	return errors.As(err, &se)
}
