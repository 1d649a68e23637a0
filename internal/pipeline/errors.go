package pipeline

import "fmt"

// Kind classifies terminal pipeline failures for the caller. The set is
// finite so the transport layer can map each kind to a stable status code
// and user-facing message.
type Kind string

const (
	// KindInvalidRequest: the request failed validation. No network call
	// was attempted.
	KindInvalidRequest Kind = "invalid_request"
	// KindGenerationFailed: the generation client exhausted its retries or
	// hit a non-retryable failure (auth, service down).
	KindGenerationFailed Kind = "generation_failed"
	// KindUnprocessableOutput: no valid plan could be extracted from the
	// model's output, even after regeneration.
	KindUnprocessableOutput Kind = "unprocessable_output"
	// KindInternal: anything unanticipated.
	KindInternal Kind = "internal_error"
)

// Error is the only error type Generate returns. Callers never see a
// partially populated plan alongside one.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }
