package cli_test

import (
	"context"
	"strings"
	"sync"

	"github.com/alnah/yt-transcript/internal/clean"
	"github.com/alnah/yt-transcript/internal/cli"
	"github.com/alnah/yt-transcript/internal/config"
	"github.com/alnah/yt-transcript/internal/store"
	"github.com/alnah/yt-transcript/internal/usage"
)

// stubConfigLoader returns a fixed config.
type stubConfigLoader struct {
	cfg config.Config
	err error
}

func (s stubConfigLoader) Load() (config.Config, error) {
	return s.cfg, s.err
}

// stubVideoSource serves a fixed title and transcript.
type stubVideoSource struct {
	title         string
	transcript    string
	titleErr      error
	transcriptErr error

	transcriptCalls int
}

func (s *stubVideoSource) Title(ctx context.Context, videoID string) (string, error) {
	return s.title, s.titleErr
}

func (s *stubVideoSource) Transcript(ctx context.Context, videoID string) (string, error) {
	s.transcriptCalls++
	return s.transcript, s.transcriptErr
}

// scriptedInvoker upper-cases the text portion of each prompt, standing in
// for the generation capability. Calls can be scripted to fail from a
// given call index, optionally only for one model class.
type scriptedInvoker struct {
	mu        sync.Mutex
	calls     int
	failAt    int         // -1: never fail
	failClass usage.Class // "": fail regardless of class
	prompts   []string
	classes   []usage.Class
}

func newScriptedInvoker() *scriptedInvoker {
	return &scriptedInvoker{failAt: -1}
}

func (s *scriptedInvoker) Invoke(ctx context.Context, prompt string, class usage.Class) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	call := s.calls
	s.calls++

	if s.failAt >= 0 && call >= s.failAt && (s.failClass == "" || class == s.failClass) {
		return "", &clean.ServiceError{Class: class, Err: clean.ErrRateLimit}
	}

	s.prompts = append(s.prompts, prompt)
	s.classes = append(s.classes, class)

	_, text, ok := strings.Cut(prompt, "\n\n")
	if !ok {
		text = prompt
	}
	return strings.ToUpper(text), nil
}

// stubInvokerFactory hands out a pre-built invoker.
type stubInvokerFactory struct {
	invoker clean.Invoker
}

func (f stubInvokerFactory) NewInvoker(cfg config.Config, ledger *usage.Ledger) clean.Invoker {
	return f.invoker
}

// memState is an in-memory RunState.
type memState struct {
	runs   map[string]store.PartialRun
	closed bool
}

func newMemState() *memState {
	return &memState{runs: make(map[string]store.PartialRun)}
}

func (m *memState) SavePartial(run store.PartialRun) error {
	m.runs[run.VideoID] = run
	return nil
}

func (m *memState) LoadPartial(videoID string) (store.PartialRun, bool, error) {
	run, ok := m.runs[videoID]
	return run, ok, nil
}

func (m *memState) Delete(videoID string) error {
	delete(m.runs, videoID)
	return nil
}

func (m *memState) Close() error {
	m.closed = true
	return nil
}

type memStateOpener struct {
	state *memState
}

func (o memStateOpener) Open(path string) (cli.RunState, error) {
	return o.state, nil
}
