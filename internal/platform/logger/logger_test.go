package logger

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFileSink(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "test.log")

	logger := New(Options{Env: "prod", Level: "debug", Sink: "file", File: logFile, App: "cron-go"})
	defer Close(logger)

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")

	content := readWithRetry(t, logFile)
	assert.Contains(t, content, "debug message")
	assert.Contains(t, content, "info message")
	assert.Contains(t, content, "warn message")
	assert.Contains(t, content, `"level":"DEBUG"`)
	assert.Contains(t, content, `"app":"cron-go"`)
}

func TestNewDefaultLevelIsInfo(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "default.log")

	logger := New(Options{Env: "prod", Sink: "file", File: logFile, App: "cron-go"})
	defer Close(logger)

	logger.Debug("should be dropped")
	logger.Info("kept message")

	content := readWithRetry(t, logFile)
	assert.NotContains(t, content, "should be dropped")
	assert.Contains(t, content, "kept message")
}

func TestNewConsoleOnlyDoesNotPanic(t *testing.T) {
	logger := New(Options{Env: "dev", Level: "info", App: "cron-go"})
	require.NotNil(t, logger)
	assert.NotPanics(t, func() { logger.Info("console only message") })
}

func TestNewTraceLevelBelowDebug(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "trace.log")

	logger := New(Options{Env: "prod", Level: "trace", Sink: "file", File: logFile, App: "cron-go"})
	defer Close(logger)

	logger.Log(context.Background(), LevelTrace, "trace message")
	content := readWithRetry(t, logFile)
	assert.Contains(t, content, "trace message")
}

func TestRedactingHandlerMasksKnownKeys(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "redacted.log")

	logger := New(Options{Env: "prod", Level: "debug", Sink: "file", File: logFile, App: "cron-go"})
	defer Close(logger)

	logger.Info("smtp dial", slog.String("smtp_password", "hunter2"), slog.String("user", "ops"))

	content := readWithRetry(t, logFile)
	assert.NotContains(t, content, "hunter2")
	assert.Contains(t, content, "[REDACTED]")
	assert.Contains(t, content, "ops")
}

func TestRedactingHandlerMasksTokenLikeEnvKeys(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "redacted-env.log")

	logger := New(Options{Env: "prod", Level: "debug", Sink: "file", File: logFile, App: "cron-go"})
	defer Close(logger)

	logger.Info("spawning task", slog.String("API_TOKEN", "super-secret-value"))

	content := readWithRetry(t, logFile)
	assert.NotContains(t, content, "super-secret-value")
}

func TestMultiHandler(t *testing.T) {
	h1 := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	h2 := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn})
	multi := NewMultiHandler(h1, h2)
	ctx := context.Background()

	assert.True(t, multi.Enabled(ctx, slog.LevelInfo))
	assert.True(t, multi.Enabled(ctx, slog.LevelWarn))

	record := slog.NewRecord(time.Now(), slog.LevelInfo, "test", 0)
	assert.NoError(t, multi.Handle(ctx, record))
	assert.NotNil(t, multi.WithAttrs([]slog.Attr{slog.String("key", "value")}))
	assert.NotNil(t, multi.WithGroup("group"))
}

func readWithRetry(t *testing.T, path string) string {
	t.Helper()
	var content []byte
	for i := 0; i < 20; i++ {
		b, err := os.ReadFile(path)
		if err == nil && len(b) > 0 {
			content = b
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	return string(content)
}
