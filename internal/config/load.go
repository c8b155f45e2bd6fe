package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvOverrides are environment variables that win over the YAML file.
type EnvOverrides struct {
	// GeminiAPIKey may hold several keys separated by commas.
	GeminiAPIKey string `envconfig:"GEMINI_API_KEY"`
	OpenAIAPIKey string `envconfig:"OPENAI_API_KEY"`
	ChatlogURL   string `envconfig:"CHATLOG_SERVER_URL"`
	LogLevel     string `envconfig:"CHATDIGEST_LOG_LEVEL"`
}

// Load reads the YAML file at path, loads a .env file sitting next to it,
// applies environment overrides and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := LoadDotEnv(filepath.Join(filepath.Dir(path), ".env")); err != nil {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var env EnvOverrides
	if err := envconfig.Process("", &env); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	cfg.applyEnv(env)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

// LoadDotEnv loads variables from a .env file. A missing file is not an error,
// and variables already set in the environment are kept.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return godotenv.Load(path)
}

func (c *Config) applyEnv(env EnvOverrides) {
	switch c.LLM.Provider {
	case "openai":
		if env.OpenAIAPIKey != "" {
			c.LLM.APIKeys = []string{env.OpenAIAPIKey}
		}
	default:
		if env.GeminiAPIKey != "" {
			c.LLM.APIKeys = splitKeys(env.GeminiAPIKey)
		}
	}
	if env.ChatlogURL != "" {
		c.Chatlog.ServerURL = env.ChatlogURL
	}
	if env.LogLevel != "" {
		c.Logging.Level = env.LogLevel
	}
}

func splitKeys(s string) []string {
	var keys []string
	for _, k := range strings.Split(s, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}
