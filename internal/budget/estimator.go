package budget

import "context"

// DefaultBytesPerToken is the usual UTF-8 bytes-per-token ratio for mixed text.
const DefaultBytesPerToken = 4

// Estimator approximates token counts as ceil(len(utf8 bytes) / BytesPerToken).
// It never fails and is used where no remote counter exists.
type Estimator struct {
	BytesPerToken int
}

// CountTokens implements Counter.
func (e Estimator) CountTokens(_ context.Context, text string) (int, error) {
	return e.Estimate(text), nil
}

// Estimate returns the approximate token count for text.
func (e Estimator) Estimate(text string) int {
	bpt := e.BytesPerToken
	if bpt <= 0 {
		bpt = DefaultBytesPerToken
	}
	n := len(text)
	if n == 0 {
		return 0
	}
	return (n + bpt - 1) / bpt
}
