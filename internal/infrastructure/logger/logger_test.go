package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_WritesJSONWithAction(t *testing.T) {
	var buf bytes.Buffer
	log := New("debug", &buf).Action("Create")

	log.Info("user created", "userId", "abc")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "user created", entry["message"])
	assert.Equal(t, "Create", entry["action"])
	assert.Equal(t, "abc", entry["userId"])
	assert.Contains(t, entry, "timestamp")
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New("WARN", &buf)

	log.Info("ignored")
	log.Debug("ignored")
	assert.Zero(t, buf.Len())

	log.Error("boom", errors.New("database down"))
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "ERROR", entry["level"])
	errGroup, ok := entry["error"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "database down", errGroup["msg"])
	assert.NotContains(t, errGroup, "message")
	assert.Equal(t, "boom", entry["message"])
}

func TestLogger_RenamesTopLevelKeysOnly(t *testing.T) {
	var buf bytes.Buffer
	log := New("INFO", &buf)

	log.Info("retry scheduled", slog.Group("job", slog.String("msg", "sync"), slog.String("time", "5s")))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "retry scheduled", entry["message"])
	assert.Contains(t, entry, "timestamp")
	job, ok := entry["job"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "sync", job["msg"])
	assert.Equal(t, "5s", job["time"])
}

func TestLogger_ErrorLeavesCallerArgsIntact(t *testing.T) {
	var buf bytes.Buffer
	log := New("INFO", &buf)

	backing := make([]any, 2, 4)
	backing[0], backing[1] = "userId", "abc"
	spare := backing[:4]
	spare[2], spare[3] = "keep", "me"

	log.Error("failed", errors.New("boom"), backing...)

	assert.Equal(t, "keep", spare[2])
	assert.Equal(t, "me", spare[3])
}
