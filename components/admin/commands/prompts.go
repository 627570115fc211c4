package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-chatadmin/components/admin"
)

// SavePromptsInput replaces the prompt list of a model.
type SavePromptsInput struct {
	ModelID string         `json:"model_id"`
	Prompts []admin.Prompt `json:"prompts"`
	Result  *admin.AIModel `json:"-"`
}

// SavePromptsCommand stores the prompts edited in the model configuration view.
type SavePromptsCommand struct {
	service   modelService
	telemetry Telemetry
}

// NewSavePromptsCommand creates a command instance.
func NewSavePromptsCommand(service modelService, telemetry Telemetry) *SavePromptsCommand {
	return &SavePromptsCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SavePromptsInput] = (*SavePromptsCommand)(nil)

// Execute delegates to the admin service.
func (c *SavePromptsCommand) Execute(ctx context.Context, msg SavePromptsInput) error {
	if c.service == nil {
		return errors.New("save prompts command requires service")
	}
	model, err := c.service.SavePrompts(ctx, msg.ModelID, msg.Prompts)
	if err != nil {
		return err
	}
	if msg.Result != nil {
		*msg.Result = model
	}
	c.telemetry.Record(ctx, "admin.command.prompts", map[string]any{
		"model_id": msg.ModelID,
		"prompts":  len(model.Prompts),
	})
	return nil
}
