package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bufferedLogger(t *testing.T) (*ChanneledLogger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	cfg := DefaultLoggerConfig()
	cfg.Console = &buf
	logger, err := NewChanneledLogger(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { logger.Close() })
	return logger, &buf
}

func lines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m), line)
		out = append(out, m)
	}
	return out
}

func TestChanneledLogger_TagsChannel(t *testing.T) {
	logger, buf := bufferedLogger(t)
	logger.Editor().Info("Command recorded", "historyIndex", 3)

	entries := lines(t, buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "editor", entries[0]["channel"])
	assert.Equal(t, "Command recorded", entries[0]["msg"])
	assert.Equal(t, 3.0, entries[0]["historyIndex"])
}

func TestChanneledLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultLoggerConfig()
	cfg.Console = &buf
	cfg.ChannelLevels[ChannelDatabase] = slog.LevelError
	logger, err := NewChanneledLogger(cfg)
	require.NoError(t, err)

	logger.Editor().Debug("hidden")
	logger.Database().Warn("hidden too")
	logger.Database().Error("shown")
	entries := lines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "shown", entries[0]["msg"])

	require.NoError(t, logger.SetChannelLevel(ChannelEditor, slog.LevelDebug))
	buf.Reset()
	logger.Editor().Debug("now visible")
	entries = lines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "now visible", entries[0]["msg"])

	levels := logger.GetChannelLevels()
	assert.Equal(t, "DEBUG", levels["editor"])
	assert.Equal(t, "ERROR", levels["database"])
	assert.Equal(t, "INFO", levels["media"])

	assert.Error(t, logger.SetChannelLevel(Channel("nope"), slog.LevelInfo))
}

func TestChanneledLogger_Context(t *testing.T) {
	logger, buf := bufferedLogger(t)
	ctx := context.WithValue(context.Background(), RequestIDKey, "req-1")

	logger.WithContext(ChannelContent, ctx).Info("with request")
	logger.WithSession(ChannelEditor, "sess-1").Info("with session")
	logger.LogStartupPhase("database", time.Second, false, map[string]any{"driver": "sqlite3"})
	logger.LogSlowQuery("SELECT *\n\tFROM cards", 2*time.Second)

	entries := lines(t, buf)
	require.Len(t, entries, 4)
	assert.Equal(t, "req-1", entries[0]["requestId"])
	assert.Equal(t, "sess-1", entries[1]["sessionId"])
	assert.Equal(t, "ERROR", entries[2]["level"])
	assert.Equal(t, "sqlite3", entries[2]["driver"])
	assert.Equal(t, "SELECT *  FROM cards", entries[3]["query"])
}

func TestChanneledLogger_FileOutput(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultLoggerConfig()
	cfg.OutputToConsole = false
	cfg.OutputToFile = true
	cfg.LogDirectory = dir
	logger, err := NewChanneledLogger(cfg)
	require.NoError(t, err)

	logger.Media().Info("Image stored", "fileId", "f1")
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(filepath.Join(dir, "media.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"fileId":"f1"`)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel(" warning "))
	assert.Equal(t, slog.LevelError, ParseLevel("ERROR"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("loud"))
}

func TestNopLogger(t *testing.T) {
	logger := NewNopLogger()
	assert.NotNil(t, logger.Live())
	assert.NotPanics(t, func() { logger.Editor().Error("discarded") })
}
