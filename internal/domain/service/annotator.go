package service

import (
	"context"
	"fmt"

	"github.com/grammate-io/grammate-api/internal/domain/entity"
)

// Annotator defines the interface for remote grammar annotation
type Annotator interface {
	// Annotate submits a single text and returns its annotated result
	Annotate(ctx context.Context, text string) (*entity.AnalysisResult, error)
}

// RetryableError marks a transient service failure (rate limited or
// overloaded) that is eligible for backoff retry.
type RetryableError struct {
	StatusCode int
	Err        error
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("annotation service busy (status %d): %v", e.StatusCode, e.Err)
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}

// FatalError marks a failure that must not be retried, such as missing
// configuration, a rejected request, or a malformed response.
type FatalError struct {
	Err error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("annotation failed: %v", e.Err)
}

func (e *FatalError) Unwrap() error {
	return e.Err
}
