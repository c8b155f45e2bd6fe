package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		LLM:    LLMConfig{APIKeys: []string{"key"}},
		Budget: BudgetConfig{ModelInputLimit: 1000000, TPMLimit: 250000},
		Paths:  PathsConfig{PromptTemplate: "prompt.txt"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid config",
			mutate:  func(*Config) {},
			wantErr: false,
		},
		{
			name:    "missing prompt template",
			mutate:  func(c *Config) { c.Paths.PromptTemplate = "" },
			wantErr: true,
		},
		{
			name:    "missing api keys",
			mutate:  func(c *Config) { c.LLM.APIKeys = nil },
			wantErr: true,
		},
		{
			name:    "openai-compatible endpoint without key",
			mutate:  func(c *Config) { c.LLM = LLMConfig{Provider: "openai", BaseURL: "http://localhost:11434/v1"} },
			wantErr: false,
		},
		{
			name:    "no limits",
			mutate:  func(c *Config) { c.Budget = BudgetConfig{} },
			wantErr: true,
		},
		{
			name:    "unknown provider",
			mutate:  func(c *Config) { c.LLM.Provider = "bard" },
			wantErr: true,
		},
		{
			name:    "safety ratio below one",
			mutate:  func(c *Config) { c.Pacer.WindowSafetyRatio = 0.5 },
			wantErr: true,
		},
		{
			name:    "bad schedule time",
			mutate:  func(c *Config) { c.Schedule.Time = "8 o'clock" },
			wantErr: true,
		},
		{
			name:    "cron schedule",
			mutate:  func(c *Config) { c.Schedule.Time = "30 9 * * 1-5" },
			wantErr: false,
		},
		{
			name:    "out of range schedule time",
			mutate:  func(c *Config) { c.Schedule.Time = "25:99" },
			wantErr: true,
		},
		{
			name:    "auto start without exe",
			mutate:  func(c *Config) { c.Chatlog.AutoStart = true },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateDefaults(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}

	if cfg.LLM.Provider != "gemini" {
		t.Errorf("Provider = %v, want gemini", cfg.LLM.Provider)
	}
	if cfg.Budget.SafetyMarginTokens != 1000 {
		t.Errorf("SafetyMarginTokens = %v, want 1000", cfg.Budget.SafetyMarginTokens)
	}
	if cfg.Chatlog.ServerURL != "http://127.0.0.1:5030" {
		t.Errorf("ServerURL = %v", cfg.Chatlog.ServerURL)
	}
	if cfg.Performance.MaxConcurrent != 1 {
		t.Errorf("MaxConcurrent = %v, want 1", cfg.Performance.MaxConcurrent)
	}

	opts := cfg.PacerOptions()
	if opts.Window != time.Minute || opts.RetryDelay != time.Minute || opts.MaxRetries != 5 {
		t.Errorf("PacerOptions() = %+v", opts)
	}
	if opts.TPMLimit != 250000 {
		t.Errorf("TPMLimit = %v, want 250000", opts.TPMLimit)
	}

	b := cfg.TokenBudget()
	if b.Ceiling() != 250000 || b.MinTokens != 100 {
		t.Errorf("TokenBudget() = %+v", b)
	}
}

func TestLoad(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("CHATLOG_SERVER_URL", "")
	t.Setenv("CHATDIGEST_LOG_LEVEL", "")

	path := writeConfig(t, `
llm:
  provider: gemini
  model: gemini-2.5-pro
  api_keys: ["k1", "k2"]
  generation:
    temperature: 0.7
    top_p: 0.8
    top_k: 40
    max_output_tokens: 65536

budget:
  model_input_limit: 1048576
  tpm_limit: 250000

talkers: ["group-a", "group-b"]
days: 1
masking_rules:
  Alice: NPC1

paths:
  prompt_template: "prompt/daily.txt"
  output: "out"

logging:
  level: "debug"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.LLM.Model != "gemini-2.5-pro" {
		t.Errorf("Model = %v, want gemini-2.5-pro", cfg.LLM.Model)
	}
	if len(cfg.LLM.APIKeys) != 2 {
		t.Errorf("APIKeys = %v", cfg.LLM.APIKeys)
	}
	if cfg.LLM.Generation.TopK != 40 || cfg.LLM.Generation.MaxOutputTokens != 65536 {
		t.Errorf("Generation = %+v", cfg.LLM.Generation)
	}
	if len(cfg.Talkers) != 2 || cfg.MaskingRules["Alice"] != "NPC1" {
		t.Errorf("Talkers = %v, MaskingRules = %v", cfg.Talkers, cfg.MaskingRules)
	}
	if cfg.Paths.Output != "out" {
		t.Errorf("Output = %v, want out", cfg.Paths.Output)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "env1, env2")
	t.Setenv("CHATLOG_SERVER_URL", "http://10.0.0.2:5030")
	t.Setenv("CHATDIGEST_LOG_LEVEL", "warn")

	path := writeConfig(t, `
llm:
  api_keys: ["file-key"]
budget:
  tpm_limit: 1000
paths:
  prompt_template: "p.txt"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cfg.LLM.APIKeys) != 2 || cfg.LLM.APIKeys[0] != "env1" || cfg.LLM.APIKeys[1] != "env2" {
		t.Errorf("APIKeys = %v", cfg.LLM.APIKeys)
	}
	if cfg.Chatlog.ServerURL != "http://10.0.0.2:5030" {
		t.Errorf("ServerURL = %v", cfg.Chatlog.ServerURL)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Level = %v", cfg.Logging.Level)
	}
}

func TestLoadDotEnvNextToConfig(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	os.Unsetenv("GEMINI_API_KEY")

	path := writeConfig(t, `
budget:
  tpm_limit: 1000
paths:
  prompt_template: "p.txt"
`)
	if err := os.WriteFile(filepath.Join(filepath.Dir(path), ".env"), []byte("GEMINI_API_KEY=dotenv-key\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cfg.LLM.APIKeys) != 1 || cfg.LLM.APIKeys[0] != "dotenv-key" {
		t.Errorf("APIKeys = %v", cfg.LLM.APIKeys)
	}
}

func TestLoadInvalidFile(t *testing.T) {
	_, err := Load("nonexistent.yaml")
	if err == nil {
		t.Error("Load() should return error for nonexistent file")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}
