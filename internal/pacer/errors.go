package pacer

import (
	"errors"
	"fmt"
)

// ErrRetriesExhausted wraps the last failure once every attempt failed.
var ErrRetriesExhausted = errors.New("retries exhausted")

// GenerationError reports a failed model call or a broken response stream.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generate content: %v", e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// ExtractionError reports an answer with no recognisable document in it.
type ExtractionError struct {
	Kind     string
	Response string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("no %s document found in response (%d characters)", e.Kind, len(e.Response))
}
