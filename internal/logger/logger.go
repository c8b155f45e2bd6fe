package logger

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

var levels = map[string]int{
	"debug": 0,
	"info":  1,
	"warn":  2,
	"error": 3,
}

type implLogger struct {
	logger *log.Logger
	level  string

	// errDir, when set, receives a copy of every ERROR line in a file
	// opened on first use.
	errDir  string
	errOnce sync.Once
	errMu   sync.Mutex
	errLog  *log.Logger
	errPath string
}

// New creates a new Logger instance writing to stdout.
func New(level string) Logger {
	return NewWithWriter(level, os.Stdout)
}

// NewWithWriter creates a Logger writing to w.
func NewWithWriter(level string, w io.Writer) Logger {
	return &implLogger{
		logger: log.New(w, "", log.LstdFlags),
		level:  strings.ToLower(level),
	}
}

// FileLogger is a Logger that also keeps ERROR lines in a file.
type FileLogger interface {
	Logger
	// ErrorLogPath returns the error file path, or "" if nothing was logged at ERROR.
	ErrorLogPath() string
}

// NewWithErrorFile creates a stdout Logger that additionally appends ERROR
// lines to dir/error_<timestamp>.log.txt. The file is only created once an
// error is logged.
func NewWithErrorFile(level, dir string) FileLogger {
	return &implLogger{
		logger: log.New(os.Stdout, "", log.LstdFlags),
		level:  strings.ToLower(level),
		errDir: dir,
	}
}

func (l *implLogger) shouldLog(level string) bool {
	currentLevel, ok := levels[l.level]
	if !ok {
		currentLevel = 1 // default to info
	}

	targetLevel, ok := levels[level]
	if !ok {
		return true
	}

	return targetLevel >= currentLevel
}

func (l *implLogger) Debug(ctx context.Context, msg string, args ...interface{}) {
	if l.shouldLog("debug") {
		l.logger.Printf("[DEBUG] "+msg, args...)
	}
}

func (l *implLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	if l.shouldLog("info") {
		l.logger.Printf("[INFO] "+msg, args...)
	}
}

func (l *implLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	if l.shouldLog("warn") {
		l.logger.Printf("[WARN] "+msg, args...)
	}
}

func (l *implLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	if l.shouldLog("error") {
		l.logger.Printf("[ERROR] "+msg, args...)
	}
	l.writeErrorFile(msg, args...)
}

func (l *implLogger) writeErrorFile(msg string, args ...interface{}) {
	if l.errDir == "" {
		return
	}
	l.errOnce.Do(func() {
		if err := os.MkdirAll(l.errDir, 0755); err != nil {
			l.logger.Printf("[WARN] Failed to create log dir %s: %v", l.errDir, err)
			return
		}
		path := filepath.Join(l.errDir, fmt.Sprintf("error_%s.log.txt", time.Now().Format("20060102_150405")))
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			l.logger.Printf("[WARN] Failed to open error log %s: %v", path, err)
			return
		}
		l.errLog = log.New(f, "", log.LstdFlags)
		l.errPath = path
	})

	l.errMu.Lock()
	defer l.errMu.Unlock()
	if l.errLog != nil {
		l.errLog.Printf("[ERROR] "+msg, args...)
	}
}

func (l *implLogger) ErrorLogPath() string {
	l.errMu.Lock()
	defer l.errMu.Unlock()
	return l.errPath
}

// FormatError renders err for log lines, returning "" for nil.
func FormatError(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("%v", err)
}
