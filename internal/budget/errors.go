package budget

import (
	"context"
	"errors"
	"fmt"
)

// ErrDegradedBudget is returned when the effective budget is not positive and
// the caller asked to fail instead of flooring.
var ErrDegradedBudget = errors.New("effective token budget is not positive")

// CountError wraps a failed token measurement. It is always recoverable.
type CountError struct {
	Err error
}

func (e *CountError) Error() string {
	return fmt.Sprintf("count tokens: %v", e.Err)
}

func (e *CountError) Unwrap() error {
	return e.Err
}

// Count calls c and wraps any failure in a CountError.
func Count(ctx context.Context, c Counter, text string) (int, error) {
	n, err := c.CountTokens(ctx, text)
	if err != nil {
		return 0, &CountError{Err: err}
	}
	if n < 0 {
		return 0, &CountError{Err: fmt.Errorf("negative token count %d", n)}
	}
	return n, nil
}
