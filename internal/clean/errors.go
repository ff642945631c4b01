package clean

import (
	"errors"
	"fmt"

	"github.com/alnah/yt-transcript/internal/usage"
)

// Input validation sentinel errors.
var (
	// ErrEmptyTranscript indicates the raw transcript contains no words.
	ErrEmptyTranscript = errors.New("transcript is empty")

	// ErrEmptyDocument indicates a derived transform was given an empty document.
	ErrEmptyDocument = errors.New("document is empty")

	// ErrChunkSize indicates a non-positive chunk size was requested.
	ErrChunkSize = errors.New("chunk size must be positive")
)

// ErrNoProgress indicates the generation service failed before any segment
// completed, so there is no partial result worth returning.
var ErrNoProgress = errors.New("no segments completed")

// Causes carried by ServiceError, classified from upstream API failures.
var (
	// ErrRateLimit indicates the API rate limit was exceeded.
	ErrRateLimit = errors.New("rate limit exceeded")

	// ErrAuthFailed indicates API authentication failed (invalid key).
	ErrAuthFailed = errors.New("authentication failed")

	// ErrTimeout indicates a request timed out.
	ErrTimeout = errors.New("request timeout")
)

// ServiceError reports the failure of one text-generation call. The pipeline
// matches on it to decide between a resumable partial outcome and a hard
// failure; Unwrap exposes the classified cause for errors.Is checks.
type ServiceError struct {
	Class usage.Class
	Err   error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s model call failed: %v", e.Class, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}
