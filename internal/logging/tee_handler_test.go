package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestTeeHandlerCollapsesTrivialInputs(t *testing.T) {
	if _, ok := TeeHandler(nil, nil).(NoopHandler); !ok {
		t.Fatal("expected NoopHandler when every handler is nil")
	}
	var buf bytes.Buffer
	inner := slog.NewJSONHandler(&buf, nil)
	if TeeHandler(nil, inner) != inner {
		t.Fatal("expected lone handler to be returned unwrapped")
	}
}

func TestTeeHandlerRoutesByLevel(t *testing.T) {
	var console, file bytes.Buffer
	h := TeeHandler(
		slog.NewTextHandler(&console, &slog.HandlerOptions{Level: slog.LevelWarn}),
		slog.NewJSONHandler(&file, &slog.HandlerOptions{Level: slog.LevelDebug}),
	)
	if !h.Enabled(context.Background(), slog.LevelDebug) {
		t.Fatal("expected tee to accept debug when any handler does")
	}

	logger := slog.New(h).With("component", "captions").WithGroup("cue")
	logger.Debug("parsed", slog.Int("count", 3))
	logger.Warn("skipped", slog.Int("line", 6))

	if strings.Contains(console.String(), "parsed") {
		t.Fatalf("warn-level handler received debug record: %s", console.String())
	}
	if !strings.Contains(console.String(), "skipped") {
		t.Fatalf("expected warning on console, got %q", console.String())
	}
	for _, want := range []string{`"msg":"parsed"`, `"msg":"skipped"`, `"component":"captions"`, `"cue":{"line":6}`} {
		if !strings.Contains(file.String(), want) {
			t.Fatalf("expected %s in file output %s", want, file.String())
		}
	}
}
