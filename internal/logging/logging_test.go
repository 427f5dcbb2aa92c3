package logging

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFromContext(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	requestLogger := slog.New(slog.NewTextHandler(&buf, nil))
	fallback := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	ctx := WithLogger(context.Background(), requestLogger)
	if got := FromContext(ctx, fallback); got != requestLogger {
		t.Fatalf("expected request logger from context")
	}
	if got := FromContext(context.Background(), fallback); got != fallback {
		t.Fatalf("expected fallback logger")
	}
	if got := FromContext(context.Background(), nil); got == nil {
		t.Fatalf("expected no-op logger, got nil")
	}
}

func TestMultiHandler_FansOutByLevel(t *testing.T) {
	t.Parallel()

	var infoBuf, errorBuf bytes.Buffer
	logger := slog.New(MultiHandler(
		slog.NewTextHandler(&infoBuf, &slog.HandlerOptions{Level: slog.LevelInfo}),
		nil,
		slog.NewJSONHandler(&errorBuf, &slog.HandlerOptions{Level: slog.LevelError}),
	)).With("component", "test")

	logger.Info("catalog loaded", "products", 3)
	logger.Error("catalog read failed")

	if !strings.Contains(infoBuf.String(), "catalog loaded") || !strings.Contains(infoBuf.String(), "catalog read failed") {
		t.Fatalf("expected both records in info handler, got %q", infoBuf.String())
	}
	if strings.Contains(errorBuf.String(), "catalog loaded") {
		t.Fatalf("expected info record to be filtered, got %q", errorBuf.String())
	}
	if !strings.Contains(errorBuf.String(), `"component":"test"`) {
		t.Fatalf("expected attrs to propagate, got %q", errorBuf.String())
	}
}

func TestOpenFileHandler_CreatesDirectory(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "logs", "catalog.log")
	handler, closer, err := OpenFileHandler(path, slog.LevelWarn)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	logger := slog.New(MultiHandler(handler))
	logger.Info("catalog loaded")
	logger.Warn("catalog has validation issues", "issues", 2)
	if err := closer.Close(); err != nil {
		t.Fatalf("failed to close log file: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if strings.Contains(string(content), "catalog loaded") {
		t.Fatalf("expected info record to be filtered, got %q", content)
	}
	if !strings.Contains(string(content), `"issues":2`) {
		t.Fatalf("expected warn record as JSON, got %q", content)
	}
}
