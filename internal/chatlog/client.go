package chatlog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nguyentantai21042004/chat-digest/internal/logger"
)

// Endpoints served by the chatlog server.
const (
	chatlogPath  = "/api/v1/chatlog"
	infoPath     = "/api/v1/info"
	chatroomPath = "/api/v1/chatroom"
)

type implClient struct {
	baseURL string
	hc      *http.Client
	logger  logger.Logger
}

// NewClient creates a Source reading from the chatlog server at baseURL.
func NewClient(baseURL string, timeout time.Duration, log logger.Logger) Source {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &implClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{Timeout: timeout},
		logger:  log,
	}
}

func (c *implClient) Fetch(ctx context.Context, talker string, r DateRange) (string, error) {
	c.logger.Info(ctx, "Fetching chat log of '%s' from %s to %s", talker, r.Start, r.End)

	// The server expects the literal '~' separator, so only the talker is escaped.
	u := fmt.Sprintf("%s%s?time=%s&talker=%s", c.baseURL, chatlogPath, r.String(), url.QueryEscape(talker))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return "", fmt.Errorf("get chat log: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read chat log: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("get chat log: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if len(body) == 0 {
		c.logger.Warn(ctx, "Chat log of '%s' is empty; the talker may not exist or had no messages", talker)
		return "", nil
	}
	c.logger.Info(ctx, "Fetched chat log of '%s': %d characters", talker, len([]rune(string(body))))
	return string(body), nil
}

// ping reports whether GET path answers 200, and whether the body was non-empty.
func ping(ctx context.Context, hc *http.Client, u string) (ok bool, hasBody bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return false, false
	}
	resp, err := hc.Do(req)
	if err != nil {
		return false, false
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1))
	return resp.StatusCode == http.StatusOK, len(body) > 0
}
