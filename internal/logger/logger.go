// Package logger provides the structured logger used across devpick.
//
// Components depend on the small Logger interface. The concrete
// implementation adapts a *slog.Logger whose handler redacts secrets, so
// JWT signing keys and tokens never reach the log output.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"
	"strings"

	"golang.org/x/term"
)

// Logger is the logging interface accepted by devpick components.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Format selects the handler used by New.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	// FormatAuto picks text when writing to a terminal and JSON otherwise.
	FormatAuto Format = "auto"
)

var isTerminal = term.IsTerminal

const redacted = "[REDACTED]"

var sensitiveKeySubstrings = []string{
	"secret",
	"token",
	"key",
	"password",
	"authorization",
	"encoded",
}

var sensitiveValuePatterns = []*regexp.Regexp{
	// Compact JWS: three base64url segments, the first starting with "eyJ".
	regexp.MustCompile(`\beyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]+\.[A-Za-z0-9_-]*`),
	regexp.MustCompile(`-----BEGIN [A-Z ]*PRIVATE KEY-----`),
	regexp.MustCompile(`(?i)\bbearer\s+[A-Za-z0-9\-._~+/]+=*`),
}

// RedactAttr is a slog.ReplaceAttr function that hides sensitive values.
func RedactAttr(_ []string, a slog.Attr) slog.Attr {
	if shouldRedact(a) {
		return slog.String(a.Key, redacted)
	}
	return a
}

func shouldRedact(a slog.Attr) bool {
	key := strings.ToLower(a.Key)
	for _, sub := range sensitiveKeySubstrings {
		if strings.Contains(key, sub) {
			return true
		}
	}

	var value string
	switch a.Value.Kind() {
	case slog.KindString:
		value = a.Value.String()
	case slog.KindAny:
		if err, ok := a.Value.Any().(error); ok && err != nil {
			value = err.Error()
		} else {
			value = fmt.Sprint(a.Value.Any())
		}
	default:
		return false
	}
	for _, re := range sensitiveValuePatterns {
		if re.MatchString(value) {
			return true
		}
	}
	return false
}

// ParseLevel converts a level name to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

// ParseFormat validates a handler format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatAuto:
		return f, nil
	case "":
		return FormatAuto, nil
	default:
		return "", fmt.Errorf("invalid log format %q (want text, json or auto)", s)
	}
}

// New builds a redacting logger writing to w. A nil w means os.Stderr.
func New(w io.Writer, level slog.Level, format Format) *SlogAdapter {
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{
		Level:       level,
		AddSource:   level <= slog.LevelDebug,
		ReplaceAttr: RedactAttr,
	}

	if format == FormatAuto {
		format = FormatJSON
		if f, ok := w.(*os.File); ok && isTerminal(int(f.Fd())) {
			format = FormatText
		}
	}

	var handler slog.Handler
	if format == FormatJSON {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return NewSlogAdapter(slog.New(handler))
}

// SlogAdapter wraps a *slog.Logger to implement the Logger interface.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a Logger adapter from a *slog.Logger.
// If logger is nil, slog.Default() is used.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogAdapter{logger: logger}
}

// Debug logs a debug-level message with optional key-value pairs.
func (s *SlogAdapter) Debug(msg string, args ...any) {
	s.logger.Debug(msg, args...)
}

// Info logs an info-level message with optional key-value pairs.
func (s *SlogAdapter) Info(msg string, args ...any) {
	s.logger.Info(msg, args...)
}

// Warn logs a warning-level message with optional key-value pairs.
func (s *SlogAdapter) Warn(msg string, args ...any) {
	s.logger.Warn(msg, args...)
}

// Error logs an error-level message with optional key-value pairs.
func (s *SlogAdapter) Error(msg string, args ...any) {
	s.logger.Error(msg, args...)
}

// With returns a logger that adds args to every record, typically a
// "component" attribute.
func (s *SlogAdapter) With(args ...any) *SlogAdapter {
	return &SlogAdapter{logger: s.logger.With(args...)}
}

// Slog returns the underlying *slog.Logger.
func (s *SlogAdapter) Slog() *slog.Logger {
	return s.logger
}

// Nop returns a Logger that discards all log messages.
func Nop() Logger {
	return nopLogger{}
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}
