package cli

import "errors"

// CLI-specific sentinel errors.
// These are validation/usage errors that don't belong to domain packages.

var (
	// ErrAPIKeyMissing indicates OPENAI_API_KEY is not set while a model
	// call is required.
	ErrAPIKeyMissing = errors.New("OPENAI_API_KEY environment variable not set")
)
