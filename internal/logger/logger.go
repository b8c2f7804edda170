// SPDX-License-Identifier: EPL-2.0

// Package logger provides the structured logging used across sndkit.
//
// It wraps log/slog with a package-level DefaultLogger, level control from
// the SNDKIT_LOG_LEVEL environment variable and an opt-in fatal hook for the
// embedding application. Nothing in sndkit exits the process.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// EnvLevel names the environment variable read at start-up.
const EnvLevel = "SNDKIT_LOG_LEVEL"

var (
	// DefaultLogger is the global structured logger instance.
	DefaultLogger *slog.Logger

	mu        sync.Mutex
	out       io.Writer = os.Stderr
	level               = new(slog.LevelVar)
	fatalHook func(msg string, args ...any)
)

func init() {
	level.Set(slog.LevelWarn)
	if env := os.Getenv(EnvLevel); env != "" {
		if l, err := ParseLevel(env); err == nil {
			level.Set(l)
		}
	}
	DefaultLogger = newLogger(out)
}

func newLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// ParseLevel maps debug, info, warn/warning and error to slog levels.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// SetLevel changes the level for all subsequent log calls.
func SetLevel(l slog.Level) { level.Set(l) }

// Level returns the current level.
func Level() slog.Level { return level.Level() }

// SetVerbose switches between debug and warn levels.
func SetVerbose(verbose bool) {
	if verbose {
		SetLevel(slog.LevelDebug)
	} else {
		SetLevel(slog.LevelWarn)
	}
}

// SetOutput redirects the text handler to w.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = w
	DefaultLogger = newLogger(w)
}

// SetFatalHook installs the handler run by Fatal; nil removes it.
func SetFatalHook(h func(msg string, args ...any)) {
	mu.Lock()
	fatalHook = h
	mu.Unlock()
}

func Debug(msg string, args ...any) { DefaultLogger.Debug(msg, args...) }
func Info(msg string, args ...any)  { DefaultLogger.Info(msg, args...) }
func Warn(msg string, args ...any)  { DefaultLogger.Warn(msg, args...) }
func Error(msg string, args ...any) { DefaultLogger.Error(msg, args...) }

// Fatal logs at error level and then runs the fatal hook when one is set.
func Fatal(msg string, args ...any) {
	DefaultLogger.Error(msg, args...)
	mu.Lock()
	h := fatalHook
	mu.Unlock()
	if h != nil {
		h(msg, args...)
	}
}
