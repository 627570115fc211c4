package admin

import (
	"context"

	"github.com/rs/zerolog"
)

// Telemetry records admin events for observability.
type Telemetry interface {
	Record(ctx context.Context, event string, payload map[string]any)
}

type noopTelemetry struct{}

func (noopTelemetry) Record(context.Context, string, map[string]any) {}

func normalizeTelemetry(t Telemetry) Telemetry {
	if t == nil {
		return noopTelemetry{}
	}
	return t
}

// LogTelemetry writes every event as a structured zerolog line.
type LogTelemetry struct {
	logger zerolog.Logger
	level  zerolog.Level
}

// NewLogTelemetry logs events at info level.
func NewLogTelemetry(logger zerolog.Logger) *LogTelemetry {
	return &LogTelemetry{logger: logger, level: zerolog.InfoLevel}
}

// WithLevel returns a copy logging at level.
func (t *LogTelemetry) WithLevel(level zerolog.Level) *LogTelemetry {
	return &LogTelemetry{logger: t.logger, level: level}
}

// Record emits event with payload as fields. Actor info from the context is
// attached when present.
func (t *LogTelemetry) Record(ctx context.Context, event string, payload map[string]any) {
	entry := t.logger.WithLevel(t.level).Str("event", event)
	if meta := activityContextFrom(ctx); meta.ActorID != "" {
		entry = entry.Str("actor_id", meta.ActorID)
	}
	entry.Fields(payload).Msg("admin event")
}
