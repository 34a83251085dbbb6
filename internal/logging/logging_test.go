package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestJSONLoggerWritesFields(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "debug", Format: "json", Output: &buf}).With(String("component", "view"))
	l.Debug(context.Background(), "mode switch", String("to", "location"), Float("h", 1.5))

	var rec map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &rec); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	if rec["msg"] != "mode switch" || rec["component"] != "view" || rec["to"] != "location" || rec["h"] != 1.5 {
		t.Fatalf("unexpected record %v", rec)
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "warn", Output: &buf})
	l.Info(context.Background(), "hidden")
	l.Warn(context.Background(), "shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Fatalf("level filter wrong: %q", buf.String())
	}
}

func TestOrNoop(t *testing.T) {
	l := OrNoop(nil)
	l.Error(context.Background(), "dropped")
	if _, ok := l.With(Int("n", 1)).(noopLogger); !ok {
		t.Fatal("expected noop logger")
	}
}

func TestNewFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")
	s, ok := NewFromEnv().(*slogger)
	if !ok {
		t.Fatal("expected slog-backed logger")
	}
	if !s.l.Enabled(context.Background(), slog.LevelDebug) {
		t.Fatal("LOG_LEVEL=debug not applied")
	}
	if _, ok := s.l.Handler().(*slog.JSONHandler); !ok {
		t.Fatalf("LOG_FORMAT=json gave %T", s.l.Handler())
	}

	t.Setenv("LOG_LEVEL", "")
	t.Setenv("LOG_FORMAT", "")
	s = NewFromEnv().(*slogger)
	if s.l.Enabled(context.Background(), slog.LevelDebug) || !s.l.Enabled(context.Background(), slog.LevelInfo) {
		t.Fatal("default level should be info")
	}
}
