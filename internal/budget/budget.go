package budget

// DefaultMinTokens is the floor applied when the computed budget is not positive.
const DefaultMinTokens = 100

// TokenBudget holds the ceilings a single submission must respect.
type TokenBudget struct {
	ModelInputLimit      int
	TokensPerMinuteLimit int
	SafetyMarginTokens   int
	// MinTokens is the floor used when the effective budget drops to zero or below.
	// Zero means DefaultMinTokens.
	MinTokens int
}

// Ceiling is the tighter of the model input limit and the TPM limit.
// A non-positive limit is treated as unset.
func (b TokenBudget) Ceiling() int {
	switch {
	case b.ModelInputLimit <= 0:
		return b.TokensPerMinuteLimit
	case b.TokensPerMinuteLimit <= 0:
		return b.ModelInputLimit
	default:
		return min(b.ModelInputLimit, b.TokensPerMinuteLimit)
	}
}

// Effective returns the token allowance left for transcript content once the
// fixed prompt and the safety margin are reserved. degraded reports that the
// raw result was not positive and the floor was substituted.
func (b TokenBudget) Effective(fixedPromptTokens int) (limit int, degraded bool) {
	limit = b.Ceiling() - fixedPromptTokens - b.SafetyMarginTokens
	if limit > 0 {
		return limit, false
	}
	floor := b.MinTokens
	if floor <= 0 {
		floor = DefaultMinTokens
	}
	return floor, true
}
