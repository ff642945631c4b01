package clean_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/alnah/yt-transcript/internal/clean"
	"github.com/alnah/yt-transcript/internal/usage"
)

// upperInvoker deterministically upper-cases the text portion of each
// prompt, standing in for the generation capability. It records every
// prompt it receives.
type upperInvoker struct {
	prompts []string
	classes []usage.Class

	// failAt makes the nth call (0-based) fail with a ServiceError.
	failAt     int
	failErr    error
	callsSoFar int
}

func newUpperInvoker() *upperInvoker {
	return &upperInvoker{failAt: -1}
}

func (m *upperInvoker) Invoke(ctx context.Context, prompt string, class usage.Class) (string, error) {
	call := m.callsSoFar
	m.callsSoFar++

	if m.failAt >= 0 && call >= m.failAt {
		err := m.failErr
		if err == nil {
			err = &clean.ServiceError{Class: class, Err: clean.ErrRateLimit}
		}
		return "", err
	}

	m.prompts = append(m.prompts, prompt)
	m.classes = append(m.classes, class)

	// The prompt is "<instruction>\n\n<text>"; transform only the text.
	_, text, ok := strings.Cut(prompt, "\n\n")
	if !ok {
		text = prompt
	}
	return strings.ToUpper(text), nil
}

func TestClean_MultiSegment(t *testing.T) {
	t.Parallel()

	inv := newUpperInvoker()
	p := clean.NewPipeline(inv)

	outcome, err := p.Clean(context.Background(), "a b c d e f", 2, 0)
	if err != nil {
		t.Fatalf("Clean() error: %v", err)
	}

	if !outcome.Complete() {
		t.Errorf("outcome not complete: %+v", outcome)
	}
	if outcome.Completed != 3 || outcome.Total != 3 {
		t.Errorf("Completed/Total = %d/%d, want 3/3", outcome.Completed, outcome.Total)
	}
	if outcome.Cause != nil {
		t.Errorf("Cause = %v on a completed run", outcome.Cause)
	}

	want := []string{"A B", "C D", "E F"}
	if len(outcome.Results) != len(want) {
		t.Fatalf("got %d results, want %d", len(outcome.Results), len(want))
	}
	for i, r := range outcome.Results {
		if r.Text != want[i] {
			t.Errorf("result %d = %q, want %q", i, r.Text, want[i])
		}
		if r.Index != i {
			t.Errorf("result %d has Index %d", i, r.Index)
		}
		if r.Carried {
			t.Errorf("result %d unexpectedly carried", i)
		}
	}

	if got := outcome.Document(); got != "A B\n\nC D\n\nE F" {
		t.Errorf("Document() = %q", got)
	}

	// Each segment prompt is part-labeled and uses the fast class.
	for i, pr := range inv.prompts {
		if !strings.Contains(pr, "part") {
			t.Errorf("prompt %d lacks part label: %q", i, pr)
		}
		if inv.classes[i] != usage.Fast {
			t.Errorf("prompt %d used class %q", i, inv.classes[i])
		}
	}
}

func TestClean_SingleSegment(t *testing.T) {
	t.Parallel()

	inv := newUpperInvoker()
	p := clean.NewPipeline(inv)

	// Exactly maxWords words stays a single segment.
	outcome, err := p.Clean(context.Background(), "a b c", 3, 0)
	if err != nil {
		t.Fatalf("Clean() error: %v", err)
	}

	if outcome.Completed != 1 || outcome.Total != 1 {
		t.Errorf("Completed/Total = %d/%d, want 1/1", outcome.Completed, outcome.Total)
	}
	if got := outcome.Document(); got != "A B C" {
		t.Errorf("Document() = %q", got)
	}

	if len(inv.prompts) != 1 {
		t.Fatalf("got %d invocations, want exactly 1", len(inv.prompts))
	}
	if strings.Contains(inv.prompts[0], "part") {
		t.Errorf("single-segment prompt is part-labeled: %q", inv.prompts[0])
	}
}

func TestClean_PartialFailure(t *testing.T) {
	t.Parallel()

	inv := newUpperInvoker()
	inv.failAt = 2 // segments 0 and 1 succeed, segment 2 fails
	p := clean.NewPipeline(inv)

	outcome, err := p.Clean(context.Background(), "a b c d e f g h", 2, 0)
	if err != nil {
		t.Fatalf("Clean() error despite partial progress: %v", err)
	}

	if outcome.Complete() {
		t.Fatal("outcome reported complete")
	}
	if outcome.Completed != 2 {
		t.Errorf("Completed = %d, want 2", outcome.Completed)
	}
	if outcome.Total != 4 {
		t.Errorf("Total = %d, want 4", outcome.Total)
	}
	if outcome.ResumeIndex() != 2 {
		t.Errorf("ResumeIndex() = %d, want 2", outcome.ResumeIndex())
	}
	if !clean.IsServiceError(outcome.Cause) {
		t.Errorf("Cause = %v, want a ServiceError", outcome.Cause)
	}

	want := []string{"A B", "C D"}
	if len(outcome.Results) != len(want) {
		t.Fatalf("got %d results, want %d", len(outcome.Results), len(want))
	}
	for i, r := range outcome.Results {
		if r.Text != want[i] {
			t.Errorf("result %d = %q, want %q", i, r.Text, want[i])
		}
	}
}

func TestClean_NoProgressPropagates(t *testing.T) {
	t.Parallel()

	inv := newUpperInvoker()
	inv.failAt = 0
	p := clean.NewPipeline(inv)

	outcome, err := p.Clean(context.Background(), "a b c d", 2, 0)
	if outcome != nil {
		t.Fatalf("got outcome %+v, want nil", outcome)
	}
	if !errors.Is(err, clean.ErrNoProgress) {
		t.Errorf("err = %v, want ErrNoProgress", err)
	}
	if !errors.Is(err, clean.ErrRateLimit) {
		t.Errorf("err = %v, should wrap the service cause", err)
	}
}

func TestClean_SingleSegmentFailurePropagates(t *testing.T) {
	t.Parallel()

	inv := newUpperInvoker()
	inv.failAt = 0
	p := clean.NewPipeline(inv)

	outcome, err := p.Clean(context.Background(), "a b", 10, 0)
	if outcome != nil {
		t.Fatalf("got outcome %+v, want nil", outcome)
	}
	if !errors.Is(err, clean.ErrNoProgress) {
		t.Errorf("err = %v, want ErrNoProgress", err)
	}
}

func TestClean_Resume(t *testing.T) {
	t.Parallel()

	inv := newUpperInvoker()
	p := clean.NewPipeline(inv)

	outcome, err := p.Clean(context.Background(), "a b c d e f g h", 2, 2)
	if err != nil {
		t.Fatalf("Clean() error: %v", err)
	}

	if !outcome.Complete() {
		t.Fatalf("outcome not complete: %+v", outcome)
	}

	// Segments 0 and 1 carried through verbatim, 2 and 3 cleaned.
	want := []struct {
		text    string
		carried bool
	}{
		{"a b", true},
		{"c d", true},
		{"E F", false},
		{"G H", false},
	}
	for i, w := range want {
		r := outcome.Results[i]
		if r.Text != w.text || r.Carried != w.carried {
			t.Errorf("result %d = {%q carried=%v}, want {%q carried=%v}",
				i, r.Text, r.Carried, w.text, w.carried)
		}
	}

	// Only the two suffix segments hit the capability.
	if len(inv.prompts) != 2 {
		t.Fatalf("got %d invocations, want 2", len(inv.prompts))
	}
	if !strings.Contains(inv.prompts[0], "part 3 of 4") {
		t.Errorf("first resumed prompt = %q, want part 3 of 4", inv.prompts[0])
	}
}

func TestClean_InputErrors(t *testing.T) {
	t.Parallel()

	inv := newUpperInvoker()
	p := clean.NewPipeline(inv)

	if _, err := p.Clean(context.Background(), "a b", 0, 0); !errors.Is(err, clean.ErrChunkSize) {
		t.Errorf("chunk size 0: err = %v, want ErrChunkSize", err)
	}
	if _, err := p.Clean(context.Background(), "   ", 10, 0); !errors.Is(err, clean.ErrEmptyTranscript) {
		t.Errorf("empty transcript: err = %v, want ErrEmptyTranscript", err)
	}
	if len(inv.prompts) != 0 {
		t.Errorf("input errors triggered %d invocations", len(inv.prompts))
	}
}

func TestClean_CancellationYieldsPartialOutcome(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())

	inv := newUpperInvoker()
	p := clean.NewPipeline(inv, clean.WithProgress(func(current, total int) {
		if current == 2 {
			// Cancel while the second segment is "in flight"; the pipeline
			// must notice before starting the third.
			cancel()
		}
	}))

	outcome, err := p.Clean(ctx, "a b c d e f", 2, 0)
	if err != nil {
		t.Fatalf("Clean() error despite partial progress: %v", err)
	}
	if outcome.Complete() {
		t.Fatal("outcome reported complete after cancellation")
	}
	if outcome.Completed != 2 {
		t.Errorf("Completed = %d, want 2", outcome.Completed)
	}
	if !errors.Is(outcome.Cause, context.Canceled) {
		t.Errorf("Cause = %v, want context.Canceled", outcome.Cause)
	}
}

func TestClean_Progress(t *testing.T) {
	t.Parallel()

	var calls [][2]int
	inv := newUpperInvoker()
	p := clean.NewPipeline(inv, clean.WithProgress(func(current, total int) {
		calls = append(calls, [2]int{current, total})
	}))

	if _, err := p.Clean(context.Background(), "a b c d e f", 2, 1); err != nil {
		t.Fatalf("Clean() error: %v", err)
	}

	// Carried segment 0 reports no progress; segments 2 and 3 (1-based) do.
	want := [][2]int{{2, 3}, {3, 3}}
	if len(calls) != len(want) {
		t.Fatalf("got %d progress calls, want %d", len(calls), len(want))
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("progress call %d = %v, want %v", i, calls[i], want[i])
		}
	}
}
