// SPDX-License-Identifier: EPL-2.0

package logger

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"warning", slog.LevelWarn, false},
		{" error ", slog.LevelError, false},
		{"loud", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

// Not parallel: mutates the package logger.
func TestLevelAndFatalHook(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	prev := Level()
	t.Cleanup(func() {
		SetLevel(prev)
		SetFatalHook(nil)
	})

	SetLevel(slog.LevelWarn)
	Debug("hidden")
	Warn("chunk skipped", "tag", "JUNK")
	if strings.Contains(buf.String(), "hidden") {
		t.Errorf("debug message written at warn level: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "tag=JUNK") {
		t.Errorf("warn output = %q, want tag=JUNK", buf.String())
	}

	var got string
	SetFatalHook(func(msg string, _ ...any) { got = msg })
	Fatal("boom")
	if got != "boom" {
		t.Errorf("fatal hook got %q, want %q", got, "boom")
	}

	SetVerbose(true)
	if Level() != slog.LevelDebug {
		t.Errorf("Level() = %v after SetVerbose(true), want debug", Level())
	}
}
