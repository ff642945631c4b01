package clean

import (
	"context"

	"github.com/alnah/yt-transcript/internal/prompt"
	"github.com/alnah/yt-transcript/internal/usage"
)

// Derived transforms are pure one-shot functions of the finished document,
// run on the capable model. Each failure is scoped to that one output: it
// never invalidates the cleanup pipeline's result or another transform's
// output, so the caller may run them independently or concurrently.

// Explain returns a plain-language explanation of the document, organized
// with headings.
func (p *Pipeline) Explain(ctx context.Context, document string) (string, error) {
	return p.derive(ctx, document, prompt.Explain)
}

// Summarize returns a bulleted key-points summary of the document.
func (p *Pipeline) Summarize(ctx context.Context, document string) (string, error) {
	return p.derive(ctx, document, prompt.Summarize)
}

// TLDR returns a single tight paragraph capturing the document's core
// message.
func (p *Pipeline) TLDR(ctx context.Context, document string) (string, error) {
	return p.derive(ctx, document, prompt.TLDR)
}

func (p *Pipeline) derive(ctx context.Context, document string, build func(string) string) (string, error) {
	if document == "" {
		return "", ErrEmptyDocument
	}
	return p.invoker.Invoke(ctx, build(document), usage.Capable)
}
