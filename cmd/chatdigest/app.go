package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/nguyentantai21042004/chat-digest/internal/chatlog"
	"github.com/nguyentantai21042004/chat-digest/internal/config"
	"github.com/nguyentantai21042004/chat-digest/internal/history"
	"github.com/nguyentantai21042004/chat-digest/internal/llm"
	"github.com/nguyentantai21042004/chat-digest/internal/logger"
	"github.com/nguyentantai21042004/chat-digest/internal/pacer"
	"github.com/nguyentantai21042004/chat-digest/internal/processor"
	"github.com/nguyentantai21042004/chat-digest/internal/report"
	"github.com/nguyentantai21042004/chat-digest/internal/segmenter"
	"github.com/nguyentantai21042004/chat-digest/internal/summarizer"
	"github.com/nguyentantai21042004/chat-digest/pkg/executor"
)

// app holds everything a command needs, wired from one config file.
type app struct {
	cfg     *config.Config
	log     logger.FileLogger
	client  llm.Client
	history history.Store
	server  chatlog.Server
	proc    processor.Processor
}

func loadConfig(flags *globalFlags) (*config.Config, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if flags.logLevel != "" {
		cfg.Logging.Level = flags.logLevel
	}
	return cfg, nil
}

func newApp(ctx context.Context, flags *globalFlags) (*app, error) {
	cfg, err := loadConfig(flags)
	if err != nil {
		return nil, err
	}

	log := logger.NewWithErrorFile(cfg.Logging.Level, cfg.Paths.LogDir)
	log.Info(ctx, "========================================")
	log.Info(ctx, "Chat Digest %s", version)
	log.Info(ctx, "========================================")
	log.Info(ctx, "System: %s/%s", runtime.GOOS, runtime.GOARCH)
	log.Info(ctx, "LLM: %s (%s)", cfg.LLM.Provider, cfg.LLM.Model)
	log.Info(ctx, "Token budget: input %d, tpm %d, margin %d",
		cfg.Budget.ModelInputLimit, cfg.Budget.TPMLimit, cfg.Budget.SafetyMarginTokens)
	log.Info(ctx, "Max Concurrent Talkers: %d", cfg.Performance.MaxConcurrent)

	if err := ensureDirectories(cfg); err != nil {
		return nil, fmt.Errorf("create directories: %w", err)
	}

	prompt, err := summarizer.LoadPrompt(cfg.Paths.PromptTemplate)
	if err != nil {
		return nil, err
	}

	client, err := llm.New(cfg.LLMClientConfig(), log)
	if err != nil {
		return nil, fmt.Errorf("create llm client: %w", err)
	}

	store, err := history.Open(ctx, cfg.Paths.HistoryDB)
	if err != nil {
		client.Close()
		return nil, err
	}

	seg := segmenter.New(client, segmenter.Options{
		Budget:         cfg.TokenBudget(),
		FailOnDegraded: cfg.Budget.FailOnDegraded,
	}, log)
	p := pacer.New(client, client, cfg.PacerOptions(), log)

	timeout := time.Duration(cfg.Chatlog.TimeoutSec) * time.Second
	proc := processor.New(cfg, processor.Deps{
		Source:     chatlog.NewClient(cfg.Chatlog.ServerURL, timeout, log),
		Masker:     chatlog.NewMasker(cfg.MaskingRules),
		Summarizer: summarizer.New(prompt, seg, log),
		Pacer:      p,
		Reports: report.New(report.Options{
			OutputDir: cfg.Paths.Output,
			RelatedLink: report.RelatedLink{
				Text: cfg.Report.RelatedLink.Text,
				URL:  cfg.Report.RelatedLink.URL,
			},
		}, log),
		History: store,
	}, log)

	var server chatlog.Server
	if cfg.Chatlog.AutoStart {
		server = chatlog.NewServer(chatlog.ServerOptions{
			BaseURL:        cfg.Chatlog.ServerURL,
			ExePath:        cfg.Chatlog.ExePath,
			DataDir:        cfg.Chatlog.DataDir,
			WorkDir:        cfg.Chatlog.WorkDir,
			WxVersion:      cfg.Chatlog.WxVersion,
			Platform:       cfg.Chatlog.Platform,
			StartupRetries: cfg.Chatlog.StartupRetries,
		}, executor.New(), log)
	}

	return &app{
		cfg:     cfg,
		log:     log,
		client:  client,
		history: store,
		server:  server,
		proc:    proc,
	}, nil
}

// ensureServer starts the chatlog server when auto_start is set. The returned
// stop function is always safe to call.
func (a *app) ensureServer(ctx context.Context) (func(), error) {
	if a.server == nil {
		return func() {}, nil
	}
	stop, err := a.server.EnsureRunning(ctx)
	if err != nil {
		return func() {}, fmt.Errorf("start chatlog server: %w", err)
	}
	return func() {
		if err := stop(); err != nil {
			a.log.Warn(ctx, "Failed to stop chatlog server: %v", err)
		}
	}, nil
}

// batch runs every talker over r and writes today's index.
func (a *app) batch(ctx context.Context, talkers []string, r chatlog.DateRange) error {
	if len(talkers) == 0 {
		return fmt.Errorf("no talkers configured")
	}

	stop, err := a.ensureServer(ctx)
	if err != nil {
		return err
	}
	defer stop()

	runs, err := a.proc.RunBatch(ctx, talkers, r)
	if _, ierr := a.proc.WriteDailyIndex(context.WithoutCancel(ctx), time.Now()); ierr != nil {
		a.log.Warn(ctx, "Failed to write daily index: %v", ierr)
	}
	if err != nil {
		return err
	}

	failed := 0
	for _, run := range runs {
		if run.Status == history.StatusFailed {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d talkers failed", failed, len(runs))
	}
	return nil
}

func (a *app) close(ctx context.Context) {
	if err := a.history.Close(); err != nil {
		a.log.Warn(ctx, "Failed to close history: %v", err)
	}
	if err := a.client.Close(); err != nil {
		a.log.Warn(ctx, "Failed to close llm client: %v", err)
	}
	if path := a.log.ErrorLogPath(); path != "" {
		fmt.Fprintf(os.Stderr, "Errors occurred during the run, see %s\n", path)
	}
}

// ensureDirectories creates required directories if they don't exist
func ensureDirectories(cfg *config.Config) error {
	dirs := []string{
		cfg.Paths.Output,
		cfg.Paths.LogDir,
	}
	if cfg.Paths.Inbox != "" {
		dirs = append(dirs, cfg.Paths.Inbox, cfg.Paths.Archived)
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}
