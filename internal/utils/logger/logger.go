package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fatih/color"
)

type Level int32

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var (
	INFO_EMOJI    = "ℹ️ "
	SUCCESS_EMOJI = "✅ "
	WARN_EMOJI    = "⚠️ "
	ERROR_EMOJI   = "❌ "
	DEBUG_EMOJI   = "🔍 "
)

var minLevel atomic.Int32

func init() {
	minLevel.Store(int32(ParseLevel(os.Getenv("LOG_LEVEL"))))
}

// ParseLevel maps LOG_LEVEL values to a Level, defaulting to debug.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelDebug
	}
}

// SetLevel changes the process-wide minimum level.
func SetLevel(l Level) {
	minLevel.Store(int32(l))
}

type Logger struct {
	serviceName string
}

func New(serviceName string) *Logger {
	return &Logger{serviceName: serviceName}
}

func enabled(l Level) bool {
	return int32(l) >= minLevel.Load()
}

func (l *Logger) formatMessage(level, emoji, msg string) string {
	_, file, line, _ := runtime.Caller(2)
	return fmt.Sprintf("%s | %s | %s | %s:%d | %s | %s",
		emoji,
		time.Now().Format("2006-01-02 15:04:05"),
		level,
		filepath.Base(file),
		line,
		l.serviceName,
		msg,
	)
}

func (l *Logger) Info(msg string, args ...interface{}) {
	if !enabled(LevelInfo) {
		return
	}
	color.Cyan(l.formatMessage("INFO", INFO_EMOJI, fmt.Sprintf(msg, args...)))
}

func (l *Logger) Success(msg string, args ...interface{}) {
	if !enabled(LevelInfo) {
		return
	}
	color.Green(l.formatMessage("SUCCESS", SUCCESS_EMOJI, fmt.Sprintf(msg, args...)))
}

func (l *Logger) Warn(msg string, args ...interface{}) {
	if !enabled(LevelWarn) {
		return
	}
	color.Yellow(l.formatMessage("WARN", WARN_EMOJI, fmt.Sprintf(msg, args...)))
}

// Error logs msg with err appended to args and returns msg wrapping err.
func (l *Logger) Error(msg string, err error, args ...interface{}) error {
	if enabled(LevelError) {
		line := fmt.Sprintf(msg, args...)
		if err != nil {
			line = fmt.Sprintf("%s: %v", line, err)
		}
		color.Red(l.formatMessage("ERROR", ERROR_EMOJI, line))
	}
	if err == nil {
		return fmt.Errorf(msg, args...)
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(msg, args...), err)
}

func (l *Logger) Debug(msg string, args ...interface{}) {
	if !enabled(LevelDebug) {
		return
	}
	color.Magenta(l.formatMessage("DEBUG", DEBUG_EMOJI, fmt.Sprintf(msg, args...)))
}
