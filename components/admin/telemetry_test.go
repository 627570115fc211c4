package admin

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogTelemetryWritesEvent(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	telemetry := NewLogTelemetry(logger)

	ctx := ContextWithActivity(context.Background(), ActivityContext{ActorID: "admin-1"})
	telemetry.Record(ctx, "admin.widget.create", map[string]any{"id": "widget-1"})

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "admin.widget.create", line["event"])
	assert.Equal(t, "admin-1", line["actor_id"])
	assert.Equal(t, "widget-1", line["id"])
	assert.Equal(t, "info", line["level"])
}

func TestLogTelemetryRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.InfoLevel)
	NewLogTelemetry(logger).WithLevel(zerolog.DebugLevel).Record(context.Background(), "admin.seed", nil)
	assert.Zero(t, buf.Len())
}

func TestNormalizeTelemetry(t *testing.T) {
	assert.IsType(t, noopTelemetry{}, normalizeTelemetry(nil))
	custom := NewLogTelemetry(zerolog.Nop())
	assert.Same(t, custom, normalizeTelemetry(custom))
}
