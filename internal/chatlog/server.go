package chatlog

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nguyentantai21042004/chat-digest/internal/logger"
	"github.com/nguyentantai21042004/chat-digest/pkg/executor"
)

// ServerOptions describes how to bootstrap the chatlog server binary.
type ServerOptions struct {
	BaseURL        string
	ExePath        string
	DataDir        string
	WorkDir        string
	WxVersion      string
	Platform       string
	StartupRetries int
	RetryInterval  time.Duration
}

type implServer struct {
	opts     ServerOptions
	executor executor.Executor
	hc       *http.Client
	logger   logger.Logger
}

// NewServer creates a Server that uses exec to run the chatlog binary.
func NewServer(opts ServerOptions, exec executor.Executor, log logger.Logger) Server {
	if opts.StartupRetries <= 0 {
		opts.StartupRetries = 10
	}
	if opts.RetryInterval <= 0 {
		opts.RetryInterval = time.Second
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	return &implServer{
		opts:     opts,
		executor: exec,
		hc:       &http.Client{Timeout: 2 * time.Second},
		logger:   log,
	}
}

func (s *implServer) EnsureRunning(ctx context.Context) (func() error, error) {
	noop := func() error { return nil }

	// Decrypt on every run so a long-lived server serves fresh messages.
	if err := s.decrypt(ctx); err != nil {
		return noop, err
	}

	if ok, _ := ping(ctx, s.hc, s.opts.BaseURL+infoPath); ok {
		s.logger.Info(ctx, "Chatlog server already running at %s", s.opts.BaseURL)
		return noop, nil
	}

	addr, err := hostPort(s.opts.BaseURL)
	if err != nil {
		return noop, err
	}

	s.logger.Info(ctx, "Starting chatlog server on %s", addr)
	proc, err := s.executor.Start(ctx, s.opts.ExePath, "server",
		"--addr", addr,
		"--data-dir", s.opts.DataDir,
		"--work-dir", s.opts.WorkDir,
		"--platform", s.opts.Platform,
		"--version", s.opts.WxVersion,
	)
	if err != nil {
		return noop, err
	}

	if err := s.waitReady(ctx); err != nil {
		_ = proc.Stop()
		return noop, err
	}
	return proc.Stop, nil
}

// decrypt obtains the data key and decrypts the local message databases.
func (s *implServer) decrypt(ctx context.Context) error {
	s.logger.Info(ctx, "Reading data key...")
	out, err := s.executor.Execute(ctx, s.opts.ExePath, "key")
	if err != nil {
		return fmt.Errorf("read data key: %w", err)
	}
	key := strings.TrimSpace(out)
	if key == "" {
		return fmt.Errorf("read data key: empty output")
	}

	s.logger.Info(ctx, "Decrypting databases in %s...", s.opts.DataDir)
	if _, err := s.executor.Execute(ctx, s.opts.ExePath, "decrypt",
		"--data-dir", s.opts.DataDir,
		"--key", key,
		"--version", s.opts.WxVersion,
	); err != nil {
		return fmt.Errorf("decrypt databases: %w", err)
	}
	return nil
}

// waitReady polls the chatroom endpoint until it answers with data.
func (s *implServer) waitReady(ctx context.Context) error {
	for i := 1; i <= s.opts.StartupRetries; i++ {
		ok, hasBody := ping(ctx, s.hc, s.opts.BaseURL+chatroomPath)
		switch {
		case ok && hasBody:
			s.logger.Info(ctx, "Chatlog server is up")
			return nil
		case ok:
			s.logger.Warn(ctx, "Chatlog server answered without data (%d/%d)", i, s.opts.StartupRetries)
		default:
			s.logger.Info(ctx, "Waiting for chatlog server (%d/%d)...", i, s.opts.StartupRetries)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.opts.RetryInterval):
		}
	}
	return fmt.Errorf("chatlog server not ready after %d attempts", s.opts.StartupRetries)
}

func hostPort(baseURL string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("invalid chatlog server url %q", baseURL)
	}
	return u.Host, nil
}
