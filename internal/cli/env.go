package cli

import (
	"context"
	"io"
	"os"

	openai "github.com/sashabaranov/go-openai"

	"github.com/alnah/yt-transcript/internal/clean"
	"github.com/alnah/yt-transcript/internal/config"
	"github.com/alnah/yt-transcript/internal/store"
	"github.com/alnah/yt-transcript/internal/usage"
	"github.com/alnah/yt-transcript/internal/youtube"
)

// Env holds injectable dependencies for the CLI command.
// This is the central injection point for testing the command in isolation.
//
// All fields have production defaults via DefaultEnv(). Tests override
// specific fields using the With* options.
type Env struct {
	// I/O
	Stdout io.Writer
	Stderr io.Writer

	// Collaborators
	ConfigLoader   ConfigLoader
	VideoSource    VideoSource
	InvokerFactory InvokerFactory
	StateOpener    StateOpener
	StatePath      func() (string, error)
}

// ConfigLoader resolves the run configuration.
type ConfigLoader interface {
	Load() (config.Config, error)
}

// VideoSource supplies the transcript and display title for a video.
type VideoSource interface {
	Title(ctx context.Context, videoID string) (string, error)
	Transcript(ctx context.Context, videoID string) (string, error)
}

// InvokerFactory creates the text-generation invoker for one run.
type InvokerFactory interface {
	NewInvoker(cfg config.Config, ledger *usage.Ledger) clean.Invoker
}

// RunState is the persisted resume state for partially failed runs.
type RunState interface {
	SavePartial(run store.PartialRun) error
	LoadPartial(videoID string) (store.PartialRun, bool, error)
	Delete(videoID string) error
	Close() error
}

// StateOpener opens the resume-state store.
type StateOpener interface {
	Open(path string) (RunState, error)
}

// EnvOption configures an Env.
type EnvOption func(*Env)

// WithStdout sets the stdout writer.
func WithStdout(w io.Writer) EnvOption {
	return func(e *Env) {
		e.Stdout = w
	}
}

// WithStderr sets the stderr writer.
func WithStderr(w io.Writer) EnvOption {
	return func(e *Env) {
		e.Stderr = w
	}
}

// WithConfigLoader sets the config loader.
func WithConfigLoader(l ConfigLoader) EnvOption {
	return func(e *Env) {
		e.ConfigLoader = l
	}
}

// WithVideoSource sets the video source.
func WithVideoSource(vs VideoSource) EnvOption {
	return func(e *Env) {
		e.VideoSource = vs
	}
}

// WithInvokerFactory sets the invoker factory.
func WithInvokerFactory(f InvokerFactory) EnvOption {
	return func(e *Env) {
		e.InvokerFactory = f
	}
}

// WithStateOpener sets the resume-state opener and path resolver.
func WithStateOpener(o StateOpener, path func() (string, error)) EnvOption {
	return func(e *Env) {
		e.StateOpener = o
		e.StatePath = path
	}
}

// DefaultEnv creates an Env with production defaults.
func DefaultEnv() *Env {
	env := &Env{
		Stdout:         os.Stdout,
		Stderr:         os.Stderr,
		ConfigLoader:   configLoader{},
		VideoSource:    youtube.NewClient(),
		InvokerFactory: openAIInvokerFactory{},
		StateOpener:    sqliteStateOpener{},
		StatePath:      config.StatePath,
	}
	return env
}

// NewEnv creates an Env with production defaults and applies options.
func NewEnv(opts ...EnvOption) *Env {
	env := DefaultEnv()
	for _, opt := range opts {
		opt(env)
	}
	return env
}

// Production implementations.

type configLoader struct{}

func (configLoader) Load() (config.Config, error) {
	return config.Load()
}

type openAIInvokerFactory struct{}

func (openAIInvokerFactory) NewInvoker(cfg config.Config, ledger *usage.Ledger) clean.Invoker {
	client := openai.NewClient(cfg.APIKey)
	return clean.NewOpenAIInvoker(client, ledger,
		clean.WithModels(cfg.FastModel, cfg.CapableModel),
		clean.WithMaxOutputTokens(cfg.MaxOutputTokens),
	)
}

type sqliteStateOpener struct{}

func (sqliteStateOpener) Open(path string) (RunState, error) {
	return store.Open(path)
}
