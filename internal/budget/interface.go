package budget

import "context"

// Counter measures how many model tokens a text occupies.
// Implementations may be remote and slow; callers keep invocations to a minimum.
type Counter interface {
	CountTokens(ctx context.Context, text string) (int, error)
}

// CounterFunc adapts a plain function to the Counter interface.
type CounterFunc func(ctx context.Context, text string) (int, error)

// CountTokens calls f.
func (f CounterFunc) CountTokens(ctx context.Context, text string) (int, error) {
	return f(ctx, text)
}
