package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/travel-places/internal/models"
	"github.com/ahmetcoskunkizilkaya/travel-places/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel(" error "))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestMultiHandlerFansOut(t *testing.T) {
	var infoBuf, errorBuf bytes.Buffer
	logger := slog.New(NewMultiHandler(
		slog.NewJSONHandler(&infoBuf, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewJSONHandler(&errorBuf, &slog.HandlerOptions{Level: slog.LevelError}),
	)).With("component", "test")

	logger.Info("hello")
	logger.Error("boom")

	assert.Equal(t, 2, bytes.Count(infoBuf.Bytes(), []byte("\n")))
	assert.Equal(t, 1, bytes.Count(errorBuf.Bytes(), []byte("\n")))

	var rec map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(errorBuf.Bytes()), &rec))
	assert.Equal(t, "boom", rec["msg"])
	assert.Equal(t, "test", rec["component"])
}

func TestPGHandlerPersistsErrors(t *testing.T) {
	db := testutil.NewDB(t)
	h := NewPGHandler(db)
	t.Cleanup(h.Stop)

	assert.False(t, h.Enabled(context.Background(), slog.LevelWarn))
	assert.True(t, h.Enabled(context.Background(), slog.LevelError))

	logger := slog.New(h).With("request_id", "req-1")
	logger.Info("ignored")
	logger.Error("request failed",
		"method", "POST",
		"path", "/api/places",
		"error", "connection reset",
		"latency_ms", 42,
		"place_id", 7,
	)
	h.Flush()

	var logs []models.SystemLog
	require.NoError(t, db.Find(&logs).Error)
	require.Len(t, logs, 1)

	entry := logs[0]
	assert.NotEqual(t, uuid.Nil, entry.ID)
	assert.Equal(t, "ERROR", entry.Level)
	assert.Equal(t, "request failed", entry.Message)
	assert.Equal(t, "req-1", entry.RequestID)
	assert.Equal(t, "POST", entry.Method)
	assert.Equal(t, "/api/places", entry.Path)
	assert.Equal(t, "connection reset", entry.Error)
	assert.Equal(t, 42, entry.LatencyMs)

	var extra map[string]interface{}
	require.NoError(t, json.Unmarshal(entry.Extra, &extra))
	assert.EqualValues(t, 7, extra["place_id"])
}

func TestPurgeSystemLogs(t *testing.T) {
	db := testutil.NewDB(t)
	now := time.Now()

	require.NoError(t, db.Create(&[]models.SystemLog{
		{ID: uuid.New(), Timestamp: now.Add(-40 * 24 * time.Hour), Level: "ERROR", Message: "old"},
		{ID: uuid.New(), Timestamp: now, Level: "ERROR", Message: "fresh"},
	}).Error)

	deleted := PurgeSystemLogs(db, now.Add(-30*24*time.Hour))
	assert.Equal(t, int64(1), deleted)

	var remaining []models.SystemLog
	require.NoError(t, db.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, "fresh", remaining[0].Message)
}
