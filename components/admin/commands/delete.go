package commands

import (
	"context"
	"errors"
	"fmt"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-chatadmin/components/admin"
)

// DeleteInput names the record to remove.
type DeleteInput struct {
	Entity admin.Entity `json:"entity"`
	ID     string       `json:"id"`
}

type deleteService interface {
	DeleteWidget(ctx context.Context, id string) error
	DeleteModel(ctx context.Context, id string) error
	DeleteUser(ctx context.Context, id string) error
	DeleteRole(ctx context.Context, id string) error
	DeletePermission(ctx context.Context, id string) error
}

// DeleteCommand removes a record of any entity. Role and permission deletes
// cascade through the service.
type DeleteCommand struct {
	service   deleteService
	telemetry Telemetry
}

// NewDeleteCommand creates a command instance.
func NewDeleteCommand(service deleteService, telemetry Telemetry) *DeleteCommand {
	return &DeleteCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[DeleteInput] = (*DeleteCommand)(nil)

// Execute dispatches to the delete operation of msg.Entity.
func (c *DeleteCommand) Execute(ctx context.Context, msg DeleteInput) error {
	if c.service == nil {
		return errors.New("delete command requires service")
	}
	if msg.ID == "" {
		return fmt.Errorf("delete %s command requires id", msg.Entity)
	}
	var err error
	switch msg.Entity {
	case admin.EntityWidget:
		err = c.service.DeleteWidget(ctx, msg.ID)
	case admin.EntityModel:
		err = c.service.DeleteModel(ctx, msg.ID)
	case admin.EntityUser:
		err = c.service.DeleteUser(ctx, msg.ID)
	case admin.EntityRole:
		err = c.service.DeleteRole(ctx, msg.ID)
	case admin.EntityPermission:
		err = c.service.DeletePermission(ctx, msg.ID)
	default:
		return fmt.Errorf("delete command: unknown entity %q", msg.Entity)
	}
	if err != nil {
		return err
	}
	record(ctx, c.telemetry, string(msg.Entity), "delete", msg.ID)
	return nil
}
