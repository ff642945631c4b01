// Package clean turns a raw transcript into a readable document through a
// sequence of model calls: a chunked cleanup pipeline on the fast model,
// plus one-shot derived transforms (explain, summarize, TLDR) on the
// capable model. Token usage for every successful call is accumulated in a
// usage.Ledger.
package clean

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"

	"github.com/alnah/yt-transcript/internal/usage"
)

// Invoker wraps one call to the text-generation capability. Implementations
// record the call's reported token usage on success and return a
// *ServiceError on failure. No retries happen at this level; resuming a
// partial run is the caller's recovery mechanism.
type Invoker interface {
	Invoke(ctx context.Context, prompt string, class usage.Class) (string, error)
}

// chatCompleter is the slice of the OpenAI client the invoker needs.
// *openai.Client implements it implicitly; tests inject mocks.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Compile-time interface compliance check.
var _ Invoker = (*OpenAIInvoker)(nil)

// Default model configuration.
const (
	DefaultFastModel    = "gpt-4o-mini"
	DefaultCapableModel = "gpt-4o"

	// DefaultMaxOutputTokens bounds each response. Cleanup output is about
	// the size of its input segment, so this is generous.
	DefaultMaxOutputTokens = 16000
)

// OpenAIInvoker invokes OpenAI chat completions with a model chosen per
// class and records usage into a shared ledger.
type OpenAIInvoker struct {
	client          chatCompleter
	ledger          *usage.Ledger
	fastModel       string
	capableModel    string
	maxOutputTokens int
}

// InvokerOption configures an OpenAIInvoker.
type InvokerOption func(*OpenAIInvoker)

// WithModels sets the model identifiers for the fast and capable classes.
// Empty values keep the defaults.
func WithModels(fast, capable string) InvokerOption {
	return func(v *OpenAIInvoker) {
		if fast != "" {
			v.fastModel = fast
		}
		if capable != "" {
			v.capableModel = capable
		}
	}
}

// WithMaxOutputTokens sets the per-call output token ceiling.
func WithMaxOutputTokens(n int) InvokerOption {
	return func(v *OpenAIInvoker) {
		if n > 0 {
			v.maxOutputTokens = n
		}
	}
}

// withChatCompleter sets a custom chat completer (for testing).
func withChatCompleter(cc chatCompleter) InvokerOption {
	return func(v *OpenAIInvoker) {
		v.client = cc
	}
}

// NewOpenAIInvoker creates an invoker backed by the given client that
// records usage into ledger.
func NewOpenAIInvoker(client *openai.Client, ledger *usage.Ledger, opts ...InvokerOption) *OpenAIInvoker {
	v := &OpenAIInvoker{
		client:          client,
		ledger:          ledger,
		fastModel:       DefaultFastModel,
		capableModel:    DefaultCapableModel,
		maxOutputTokens: DefaultMaxOutputTokens,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Invoke sends prompt to the model designated for class and returns the
// generated text. Usage is recorded only for calls that succeed, so a
// failed call leaves the ledger untouched.
func (v *OpenAIInvoker) Invoke(ctx context.Context, prompt string, class usage.Class) (string, error) {
	model := v.fastModel
	if class == usage.Capable {
		model = v.capableModel
	}

	req := openai.ChatCompletionRequest{
		Model:               model,
		MaxCompletionTokens: v.maxOutputTokens,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		Temperature: 0, // Deterministic output for reproducibility
	}

	resp, err := v.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", &ServiceError{Class: class, Err: classifyAPIError(err)}
	}
	if len(resp.Choices) == 0 {
		return "", &ServiceError{Class: class, Err: errors.New("no response from API")}
	}

	v.ledger.Record(class, resp.Usage.PromptTokens, resp.Usage.CompletionTokens)
	return resp.Choices[0].Message.Content, nil
}

// classifyAPIError maps OpenAI API errors to sentinel errors.
// Uses errors.As for robust error type checking instead of string matching.
func classifyAPIError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusTooManyRequests:
			return fmt.Errorf("%s: %w", apiErr.Message, ErrRateLimit)
		case http.StatusUnauthorized:
			return fmt.Errorf("%s: %w", apiErr.Message, ErrAuthFailed)
		case http.StatusRequestTimeout, http.StatusGatewayTimeout:
			return fmt.Errorf("%s: %w", apiErr.Message, ErrTimeout)
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out: %w", ErrTimeout)
	}

	return err
}
