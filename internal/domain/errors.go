package domain

import (
	"errors"
	"fmt"
)

// Validation errors are caller errors: surfaced verbatim with precise causes.
var (
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrPayloadTooLarge      = errors.New("payload too large")

	// ErrNoCommand means the transcript was empty or the model recognized no
	// trade directive in it. Not a failure: callers can distinguish "nothing
	// was said" from "the pipeline broke".
	ErrNoCommand = errors.New("no trade command recognized")
)

// TranscriptionError wraps a speech-to-text provider failure. The cause is
// logged server-side and never exposed to callers.
type TranscriptionError struct {
	Err error
}

func (e *TranscriptionError) Error() string {
	return fmt.Sprintf("transcription failed: %v", e.Err)
}

func (e *TranscriptionError) Unwrap() error { return e.Err }

// ExtractionError wraps a language model failure (unreachable backend,
// timeout, output not conforming to the schema). Same opacity policy as
// TranscriptionError.
type ExtractionError struct {
	Err error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction failed: %v", e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }
