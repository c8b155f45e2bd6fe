package llm

import (
	"context"
	"iter"

	"github.com/nguyentantai21042004/chat-digest/internal/budget"
)

// GenerationConfig is passed through to the model untouched.
// Zero values mean "provider default".
type GenerationConfig struct {
	Temperature     float32 `yaml:"temperature"`
	TopP            float32 `yaml:"top_p"`
	TopK            int     `yaml:"top_k"`
	MaxOutputTokens int     `yaml:"max_output_tokens"`
}

// Generator produces a streamed completion for a prompt. The returned
// sequence is lazy, finite and can be ranged over once; an error element
// ends it.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string, cfg GenerationConfig) iter.Seq2[string, error]
}

// Refresher is implemented by generators that can swap credentials between
// attempts, e.g. rotating to the next API key.
type Refresher interface {
	Refresh()
}

// Client is a model backend able to both count and generate.
type Client interface {
	budget.Counter
	Generator
	Close() error
}
