package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, closeFn := New(Options{Level: slog.LevelInfo, Writer: &buf})
	defer closeFn()

	logger.Debug("hidden")
	logger.Info("session started", "session_id", 7)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "session started", entry["msg"])
	assert.Equal(t, "INFO", entry["level"])
	assert.EqualValues(t, 7, entry["session_id"])
}

func TestNewRotatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log", "tempo.log")
	logger, closeFn := New(Options{Level: slog.LevelDebug, File: path, MaxSizeMB: 1, MaxBackups: 1})

	logger.Debug("written to file")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
}

func TestDiscard(t *testing.T) {
	assert.NotPanics(t, func() { Discard().Error("nowhere") })
}
