package commands

import "context"

// Telemetry receives one structured event per executed command.
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

func record(ctx context.Context, t Telemetry, entity, action, id string) {
	t.Record(ctx, "admin.command."+action, map[string]any{
		"entity": entity,
		"id":     id,
	})
}
