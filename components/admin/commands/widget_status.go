package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-chatadmin/components/admin"
)

// SetWidgetStatusInput toggles a widget between active and inactive.
type SetWidgetStatusInput struct {
	ID     string             `json:"id"`
	Status admin.WidgetStatus `json:"status"`
	Result *admin.Widget      `json:"-"`
}

// SetWidgetStatusCommand flips the status of one widget.
type SetWidgetStatusCommand struct {
	service   widgetService
	telemetry Telemetry
}

// NewSetWidgetStatusCommand creates a command instance.
func NewSetWidgetStatusCommand(service widgetService, telemetry Telemetry) *SetWidgetStatusCommand {
	return &SetWidgetStatusCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SetWidgetStatusInput] = (*SetWidgetStatusCommand)(nil)

// Execute delegates to the admin service.
func (c *SetWidgetStatusCommand) Execute(ctx context.Context, msg SetWidgetStatusInput) error {
	if c.service == nil {
		return errors.New("widget status command requires service")
	}
	widget, err := c.service.SetWidgetStatus(ctx, msg.ID, msg.Status)
	if err != nil {
		return err
	}
	if msg.Result != nil {
		*msg.Result = widget
	}
	c.telemetry.Record(ctx, "admin.command.widget_status", map[string]any{
		"id":     msg.ID,
		"status": string(widget.Status),
	})
	return nil
}
