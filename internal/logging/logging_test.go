package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_ConsoleAndFile(t *testing.T) {
	var console bytes.Buffer
	path := filepath.Join(t.TempDir(), "app.log")

	logger, closer := Setup(&console, slog.LevelInfo, path)
	logger.Debug("debug only in file", "payment_hash", "abc")
	logger.Info("balance checked", "balance_sats", 1234)
	require.NoError(t, closer.Close())

	assert.NotContains(t, console.String(), "debug only in file")
	assert.Contains(t, console.String(), "balance checked")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)

	var first map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "debug only in file", first["msg"])
	assert.Equal(t, "abc", first["payment_hash"])
}

func TestSetup_ConsoleOnly(t *testing.T) {
	var console bytes.Buffer

	logger, closer := Setup(&console, slog.LevelWarn, "")
	logger.Info("hidden")
	logger.Warn("shown")

	assert.NoError(t, closer.Close())
	assert.NotContains(t, console.String(), "hidden")
	assert.Contains(t, console.String(), "shown")
}

func TestCronLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	cl := CronLogger(logger)
	cl.Info("schedule", "entry", 1)
	cl.Error(errors.New("boom"), "panic", "job", "payments")

	out := buf.String()
	assert.Contains(t, out, "level=DEBUG msg=schedule scheduler.entry=1")
	assert.Contains(t, out, "level=ERROR msg=panic scheduler.job=payments scheduler.error=boom")
}
