package llm

import (
	"context"
	"fmt"
	"iter"
	"strings"
	"sync"
	"time"

	"google.golang.org/genai"

	"github.com/nguyentantai21042004/chat-digest/internal/logger"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-2.5-flash"

// Gemini talks to the Gemini API and rotates through the supplied API keys
// whenever it is asked to refresh.
type Gemini struct {
	mu         sync.Mutex
	apiKeys    []string
	currentKey int
	clients    map[int]*genai.Client
	model      string
	timeout    time.Duration
	logger     logger.Logger
}

// NewGemini creates a Gemini client. At least one API key is required.
// timeout bounds each HTTP request, including a whole streamed answer;
// zero leaves requests unbounded.
func NewGemini(apiKeys []string, model string, timeout time.Duration, log logger.Logger) (*Gemini, error) {
	keys := make([]string, 0, len(apiKeys))
	for _, k := range apiKeys {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("gemini: no API key configured")
	}
	if model == "" {
		model = DefaultGeminiModel
	}
	return &Gemini{
		apiKeys: keys,
		clients: make(map[int]*genai.Client),
		model:   model,
		timeout: timeout,
		logger:  log,
	}, nil
}

// client returns the SDK client for the current key, creating it on first use.
func (g *Gemini) client(ctx context.Context) (*genai.Client, int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	idx := g.currentKey
	if c, ok := g.clients[idx]; ok {
		return c, idx, nil
	}
	c, err := genai.NewClient(ctx, g.clientConfig(idx))
	if err != nil {
		return nil, idx, fmt.Errorf("create client: %w", err)
	}
	g.clients[idx] = c
	return c, idx, nil
}

func (g *Gemini) clientConfig(idx int) *genai.ClientConfig {
	cfg := &genai.ClientConfig{
		APIKey:  g.apiKeys[idx],
		Backend: genai.BackendGeminiAPI,
	}
	if g.timeout > 0 {
		timeout := g.timeout
		cfg.HTTPOptions = genai.HTTPOptions{Timeout: &timeout}
	}
	return cfg
}

// CountTokens asks the API how many tokens text occupies for the configured model.
func (g *Gemini) CountTokens(ctx context.Context, text string) (int, error) {
	c, _, err := g.client(ctx)
	if err != nil {
		return 0, err
	}
	resp, err := c.Models.CountTokens(ctx, g.model, genai.Text(text), nil)
	if err != nil {
		return 0, fmt.Errorf("count tokens: %w", err)
	}
	return int(resp.TotalTokens), nil
}

// GenerateContent streams the model's answer chunk by chunk.
func (g *Gemini) GenerateContent(ctx context.Context, prompt string, cfg GenerationConfig) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		c, idx, err := g.client(ctx)
		if err != nil {
			yield("", err)
			return
		}

		for result, err := range c.Models.GenerateContentStream(ctx, g.model, genai.Text(prompt), generateConfig(cfg)) {
			if err != nil {
				if isQuotaError(err) {
					g.logger.Warn(ctx, "Key %d rate limited: %v", idx+1, err)
				}
				yield("", fmt.Errorf("generate content: %w", err))
				return
			}
			if text := responseText(result); text != "" {
				if !yield(text, nil) {
					return
				}
			}
		}
	}
}

// Refresh switches to the next API key.
func (g *Gemini) Refresh() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.apiKeys) > 1 {
		g.currentKey = (g.currentKey + 1) % len(g.apiKeys)
	}
}

func (g *Gemini) Close() error {
	return nil
}

func generateConfig(cfg GenerationConfig) *genai.GenerateContentConfig {
	out := &genai.GenerateContentConfig{}
	if cfg.Temperature > 0 {
		out.Temperature = genai.Ptr(cfg.Temperature)
	}
	if cfg.TopP > 0 {
		out.TopP = genai.Ptr(cfg.TopP)
	}
	if cfg.TopK > 0 {
		out.TopK = genai.Ptr(float32(cfg.TopK))
	}
	if cfg.MaxOutputTokens > 0 {
		out.MaxOutputTokens = int32(cfg.MaxOutputTokens)
	}
	return out
}

func responseText(result *genai.GenerateContentResponse) string {
	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return ""
	}
	var text string
	for _, part := range result.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" {
			text += part.Text
		}
	}
	return text
}

func isQuotaError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(msg, "quota") || strings.Contains(msg, "RESOURCE_EXHAUSTED")
}
