package config

import (
	"fmt"
	"time"

	"github.com/nguyentantai21042004/chat-digest/internal/budget"
	"github.com/nguyentantai21042004/chat-digest/internal/llm"
	"github.com/nguyentantai21042004/chat-digest/internal/pacer"
	"github.com/nguyentantai21042004/chat-digest/internal/scheduler"
)

type Config struct {
	LLM          LLMConfig         `yaml:"llm"`
	Budget       BudgetConfig      `yaml:"budget"`
	Pacer        PacerConfig       `yaml:"pacer"`
	Chatlog      ChatlogConfig     `yaml:"chatlog"`
	Talkers      []string          `yaml:"talkers"`
	Days         int               `yaml:"days"`
	MaskingRules map[string]string `yaml:"masking_rules"`
	Paths        PathsConfig       `yaml:"paths"`
	Logging      LoggingConfig     `yaml:"logging"`
	Performance  PerformanceConfig `yaml:"performance"`
	Report       ReportConfig      `yaml:"report"`
	Schedule     ScheduleConfig    `yaml:"schedule"`
}

type LLMConfig struct {
	Provider   string               `yaml:"provider"`
	Model      string               `yaml:"model"`
	APIKeys    []string             `yaml:"api_keys"`
	BaseURL    string               `yaml:"base_url"`
	TimeoutSec int                  `yaml:"timeout_sec"`
	Generation llm.GenerationConfig `yaml:"generation"`
}

type BudgetConfig struct {
	ModelInputLimit    int  `yaml:"model_input_limit"`
	TPMLimit           int  `yaml:"tpm_limit"`
	SafetyMarginTokens int  `yaml:"safety_margin_tokens"`
	MinBudgetTokens    int  `yaml:"min_budget_tokens"`
	FailOnDegraded     bool `yaml:"fail_on_degraded"`
}

type PacerConfig struct {
	WindowSeconds     int     `yaml:"window_seconds"`
	WindowSafetyRatio float64 `yaml:"window_safety_ratio"`
	MaxRetries        int     `yaml:"max_retries"`
	RetryDelaySec     int     `yaml:"retry_delay_sec"`
}

type ChatlogConfig struct {
	ServerURL      string `yaml:"server_url"`
	TimeoutSec     int    `yaml:"timeout_sec"`
	AutoStart      bool   `yaml:"auto_start"`
	ExePath        string `yaml:"exe_path"`
	DataDir        string `yaml:"data_dir"`
	WorkDir        string `yaml:"work_dir"`
	WxVersion      string `yaml:"wx_version"`
	Platform       string `yaml:"platform"`
	StartupRetries int    `yaml:"startup_retries"`
}

type PathsConfig struct {
	PromptTemplate string `yaml:"prompt_template"`
	Output         string `yaml:"output"`
	Inbox          string `yaml:"inbox"`
	Archived       string `yaml:"archived"`
	LogDir         string `yaml:"log_dir"`
	HistoryDB      string `yaml:"history_db"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type PerformanceConfig struct {
	MaxConcurrent int `yaml:"max_concurrent"`
}

type ReportConfig struct {
	ArchiveDocx bool        `yaml:"archive_docx"`
	RelatedLink RelatedLink `yaml:"related_link"`
}

type RelatedLink struct {
	Text string `yaml:"text"`
	URL  string `yaml:"url"`
}

type ScheduleConfig struct {
	Time string `yaml:"time"`
}

func (c *Config) Validate() error {
	if c.Paths.PromptTemplate == "" {
		return fmt.Errorf("paths.prompt_template is required")
	}
	if len(c.LLM.APIKeys) == 0 && c.LLM.BaseURL == "" {
		return fmt.Errorf("llm.api_keys is required (or set GEMINI_API_KEY / OPENAI_API_KEY)")
	}
	if c.Budget.ModelInputLimit <= 0 && c.Budget.TPMLimit <= 0 {
		return fmt.Errorf("budget.model_input_limit or budget.tpm_limit is required")
	}
	if c.Days < 0 {
		return fmt.Errorf("days must not be negative")
	}
	if c.Pacer.WindowSafetyRatio != 0 && c.Pacer.WindowSafetyRatio < 1 {
		return fmt.Errorf("pacer.window_safety_ratio must be >= 1")
	}

	if c.LLM.Provider == "" {
		c.LLM.Provider = llm.ProviderGemini
	}
	if c.LLM.Provider != llm.ProviderGemini && c.LLM.Provider != llm.ProviderOpenAI {
		return fmt.Errorf("llm.provider must be %q or %q", llm.ProviderGemini, llm.ProviderOpenAI)
	}
	if c.LLM.TimeoutSec == 0 {
		c.LLM.TimeoutSec = 600
	}
	if c.Budget.SafetyMarginTokens == 0 {
		c.Budget.SafetyMarginTokens = 1000
	}
	if c.Budget.MinBudgetTokens == 0 {
		c.Budget.MinBudgetTokens = budget.DefaultMinTokens
	}
	if c.Pacer.WindowSeconds == 0 {
		c.Pacer.WindowSeconds = 60
	}
	if c.Pacer.WindowSafetyRatio == 0 {
		c.Pacer.WindowSafetyRatio = pacer.DefaultWindowSafetyRatio
	}
	if c.Pacer.MaxRetries == 0 {
		c.Pacer.MaxRetries = pacer.DefaultMaxRetries
	}
	if c.Pacer.RetryDelaySec == 0 {
		c.Pacer.RetryDelaySec = 60
	}
	if c.Chatlog.ServerURL == "" {
		c.Chatlog.ServerURL = "http://127.0.0.1:5030"
	}
	if c.Chatlog.TimeoutSec == 0 {
		c.Chatlog.TimeoutSec = 30
	}
	if c.Chatlog.WxVersion == "" {
		c.Chatlog.WxVersion = "4"
	}
	if c.Chatlog.Platform == "" {
		c.Chatlog.Platform = "windows"
	}
	if c.Chatlog.StartupRetries == 0 {
		c.Chatlog.StartupRetries = 10
	}
	if c.Chatlog.AutoStart && c.Chatlog.ExePath == "" {
		return fmt.Errorf("chatlog.exe_path is required when chatlog.auto_start is set")
	}
	if c.Paths.Output == "" {
		c.Paths.Output = "./output"
	}
	if c.Paths.Archived == "" {
		c.Paths.Archived = "data/archived"
	}
	if c.Paths.LogDir == "" {
		c.Paths.LogDir = "./logs"
	}
	if c.Paths.HistoryDB == "" {
		c.Paths.HistoryDB = "data/history.db"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Performance.MaxConcurrent == 0 {
		c.Performance.MaxConcurrent = 1
	}
	if c.Schedule.Time == "" {
		c.Schedule.Time = "08:00"
	}
	if _, err := scheduler.Parse(c.Schedule.Time); err != nil {
		return fmt.Errorf("schedule.time must be HH:MM or a cron expression: %w", err)
	}

	return nil
}

// TokenBudget projects the budget section into the segmentation limits.
func (c *Config) TokenBudget() budget.TokenBudget {
	return budget.TokenBudget{
		ModelInputLimit:      c.Budget.ModelInputLimit,
		TokensPerMinuteLimit: c.Budget.TPMLimit,
		SafetyMarginTokens:   c.Budget.SafetyMarginTokens,
		MinTokens:            c.Budget.MinBudgetTokens,
	}
}

// PacerOptions projects the pacer and generation sections into pacer options.
func (c *Config) PacerOptions() pacer.Options {
	return pacer.Options{
		TPMLimit:          c.Budget.TPMLimit,
		Window:            time.Duration(c.Pacer.WindowSeconds) * time.Second,
		WindowSafetyRatio: c.Pacer.WindowSafetyRatio,
		MaxRetries:        c.Pacer.MaxRetries,
		RetryDelay:        time.Duration(c.Pacer.RetryDelaySec) * time.Second,
		Generation:        c.LLM.Generation,
	}
}

// LLMClientConfig projects the llm section into the backend config.
func (c *Config) LLMClientConfig() llm.Config {
	return llm.Config{
		Provider: c.LLM.Provider,
		Model:    c.LLM.Model,
		APIKeys:  c.LLM.APIKeys,
		BaseURL:  c.LLM.BaseURL,
		Timeout:  time.Duration(c.LLM.TimeoutSec) * time.Second,
	}
}
