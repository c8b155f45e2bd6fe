package llm

import (
	"fmt"
	"time"

	"github.com/nguyentantai21042004/chat-digest/internal/logger"
)

// Supported providers.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Config selects and configures a backend.
type Config struct {
	Provider string
	Model    string
	APIKeys  []string
	BaseURL  string
	Timeout  time.Duration
}

// New builds the Client for cfg.Provider.
func New(cfg Config, log logger.Logger) (Client, error) {
	switch cfg.Provider {
	case "", ProviderGemini:
		return NewGemini(cfg.APIKeys, cfg.Model, cfg.Timeout, log)
	case ProviderOpenAI:
		var key string
		if len(cfg.APIKeys) > 0 {
			key = cfg.APIKeys[0]
		}
		if key == "" && cfg.BaseURL == "" {
			return nil, fmt.Errorf("openai: no API key configured")
		}
		return NewOpenAI(OpenAIConfig{
			APIKey:  key,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
			Timeout: cfg.Timeout,
		}), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}
