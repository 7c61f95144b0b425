package logger_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/goliatone/go-proposal/pkg/logger"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]log.Level{
		"debug":   log.DebugLevel,
		"WARN":    log.WarnLevel,
		"warning": log.WarnLevel,
		"error":   log.ErrorLevel,
		"":        log.InfoLevel,
		"verbose": log.InfoLevel,
	}
	for in, want := range cases {
		if got := logger.ParseLevel(in); got != want {
			t.Errorf("%q: want %v got %v", in, want, got)
		}
	}
}

func TestNewWithWriter_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	l := logger.NewWithWriter(&buf, "warn")

	l.Info("hidden")
	l.Warn("shown", "trip", "portugal")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("expected info message to be filtered, got %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "trip=portugal") {
		t.Fatalf("expected warn message with fields, got %q", out)
	}
}

func TestL_ReturnsSharedLogger(t *testing.T) {
	logger.Init("debug")
	if logger.L() != logger.L() {
		t.Fatalf("expected the same logger instance")
	}
	if logger.L().GetLevel() != log.DebugLevel {
		t.Fatalf("expected Init level to apply")
	}
}
