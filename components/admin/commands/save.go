package commands

import (
	"context"
	"fmt"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-chatadmin/components/admin"
)

// CreateInput carries a create payload. Result, when set, receives the stored record.
type CreateInput[In any, Out admin.Record] struct {
	Input  In
	Result *Out
}

// CreateCommand validates and stores a new record through the admin service.
type CreateCommand[In any, Out admin.Record] struct {
	entity    admin.Entity
	create    func(context.Context, In) (Out, error)
	telemetry Telemetry
}

func newCreateCommand[In any, Out admin.Record](entity admin.Entity, create func(context.Context, In) (Out, error), telemetry Telemetry) *CreateCommand[In, Out] {
	return &CreateCommand[In, Out]{entity: entity, create: create, telemetry: normalizeTelemetry(telemetry)}
}

// Execute stores msg.Input and records the new id.
func (c *CreateCommand[In, Out]) Execute(ctx context.Context, msg CreateInput[In, Out]) error {
	if c.create == nil {
		return fmt.Errorf("create %s command requires service", c.entity)
	}
	rec, err := c.create(ctx, msg.Input)
	if err != nil {
		return err
	}
	if msg.Result != nil {
		*msg.Result = rec
	}
	record(ctx, c.telemetry, string(c.entity), "create", rec.RecordID())
	return nil
}

// UpdateInput carries a partial update for the record ID.
type UpdateInput[P any, Out admin.Record] struct {
	ID     string
	Patch  P
	Result *Out
}

// UpdateCommand merges a patch into an existing record.
type UpdateCommand[P any, Out admin.Record] struct {
	entity    admin.Entity
	update    func(context.Context, string, P) (Out, error)
	telemetry Telemetry
}

func newUpdateCommand[P any, Out admin.Record](entity admin.Entity, update func(context.Context, string, P) (Out, error), telemetry Telemetry) *UpdateCommand[P, Out] {
	return &UpdateCommand[P, Out]{entity: entity, update: update, telemetry: normalizeTelemetry(telemetry)}
}

// Execute applies msg.Patch to the record msg.ID.
func (c *UpdateCommand[P, Out]) Execute(ctx context.Context, msg UpdateInput[P, Out]) error {
	if c.update == nil {
		return fmt.Errorf("update %s command requires service", c.entity)
	}
	if msg.ID == "" {
		return fmt.Errorf("update %s command requires id", c.entity)
	}
	rec, err := c.update(ctx, msg.ID, msg.Patch)
	if err != nil {
		return err
	}
	if msg.Result != nil {
		*msg.Result = rec
	}
	record(ctx, c.telemetry, string(c.entity), "update", msg.ID)
	return nil
}

type (
	CreateWidgetCommand     = CreateCommand[admin.WidgetInput, admin.Widget]
	UpdateWidgetCommand     = UpdateCommand[admin.WidgetPatch, admin.Widget]
	CreateModelCommand      = CreateCommand[admin.ModelInput, admin.AIModel]
	UpdateModelCommand      = UpdateCommand[admin.ModelPatch, admin.AIModel]
	CreateUserCommand       = CreateCommand[admin.UserInput, admin.UserView]
	UpdateUserCommand       = UpdateCommand[admin.UserPatch, admin.UserView]
	CreateRoleCommand       = CreateCommand[admin.RoleInput, admin.RoleView]
	UpdateRoleCommand       = UpdateCommand[admin.RolePatch, admin.RoleView]
	CreatePermissionCommand = CreateCommand[admin.PermissionInput, admin.Permission]
	UpdatePermissionCommand = UpdateCommand[admin.PermissionPatch, admin.Permission]
)

var (
	_ gocommand.Commander[CreateInput[admin.WidgetInput, admin.Widget]]         = (*CreateWidgetCommand)(nil)
	_ gocommand.Commander[UpdateInput[admin.WidgetPatch, admin.Widget]]         = (*UpdateWidgetCommand)(nil)
	_ gocommand.Commander[CreateInput[admin.ModelInput, admin.AIModel]]         = (*CreateModelCommand)(nil)
	_ gocommand.Commander[UpdateInput[admin.ModelPatch, admin.AIModel]]         = (*UpdateModelCommand)(nil)
	_ gocommand.Commander[CreateInput[admin.UserInput, admin.UserView]]         = (*CreateUserCommand)(nil)
	_ gocommand.Commander[UpdateInput[admin.UserPatch, admin.UserView]]         = (*UpdateUserCommand)(nil)
	_ gocommand.Commander[CreateInput[admin.RoleInput, admin.RoleView]]         = (*CreateRoleCommand)(nil)
	_ gocommand.Commander[UpdateInput[admin.RolePatch, admin.RoleView]]         = (*UpdateRoleCommand)(nil)
	_ gocommand.Commander[CreateInput[admin.PermissionInput, admin.Permission]] = (*CreatePermissionCommand)(nil)
	_ gocommand.Commander[UpdateInput[admin.PermissionPatch, admin.Permission]] = (*UpdatePermissionCommand)(nil)
)

type widgetService interface {
	CreateWidget(ctx context.Context, in admin.WidgetInput) (admin.Widget, error)
	UpdateWidget(ctx context.Context, id string, patch admin.WidgetPatch) (admin.Widget, error)
	SetWidgetStatus(ctx context.Context, id string, status admin.WidgetStatus) (admin.Widget, error)
}

type modelService interface {
	CreateModel(ctx context.Context, in admin.ModelInput) (admin.AIModel, error)
	UpdateModel(ctx context.Context, id string, patch admin.ModelPatch) (admin.AIModel, error)
	SavePrompts(ctx context.Context, id string, prompts []admin.Prompt) (admin.AIModel, error)
}

type userService interface {
	CreateUser(ctx context.Context, in admin.UserInput) (admin.UserView, error)
	UpdateUser(ctx context.Context, id string, patch admin.UserPatch) (admin.UserView, error)
}

type roleService interface {
	CreateRole(ctx context.Context, in admin.RoleInput) (admin.RoleView, error)
	UpdateRole(ctx context.Context, id string, patch admin.RolePatch) (admin.RoleView, error)
}

type permissionService interface {
	CreatePermission(ctx context.Context, in admin.PermissionInput) (admin.Permission, error)
	UpdatePermission(ctx context.Context, id string, patch admin.PermissionPatch) (admin.Permission, error)
}

// NewCreateWidgetCommand creates widgets.
func NewCreateWidgetCommand(service widgetService, telemetry Telemetry) *CreateWidgetCommand {
	var fn func(context.Context, admin.WidgetInput) (admin.Widget, error)
	if service != nil {
		fn = service.CreateWidget
	}
	return newCreateCommand(admin.EntityWidget, fn, telemetry)
}

// NewUpdateWidgetCommand updates widgets.
func NewUpdateWidgetCommand(service widgetService, telemetry Telemetry) *UpdateWidgetCommand {
	var fn func(context.Context, string, admin.WidgetPatch) (admin.Widget, error)
	if service != nil {
		fn = service.UpdateWidget
	}
	return newUpdateCommand(admin.EntityWidget, fn, telemetry)
}

// NewCreateModelCommand creates AI models.
func NewCreateModelCommand(service modelService, telemetry Telemetry) *CreateModelCommand {
	var fn func(context.Context, admin.ModelInput) (admin.AIModel, error)
	if service != nil {
		fn = service.CreateModel
	}
	return newCreateCommand(admin.EntityModel, fn, telemetry)
}

// NewUpdateModelCommand updates AI models.
func NewUpdateModelCommand(service modelService, telemetry Telemetry) *UpdateModelCommand {
	var fn func(context.Context, string, admin.ModelPatch) (admin.AIModel, error)
	if service != nil {
		fn = service.UpdateModel
	}
	return newUpdateCommand(admin.EntityModel, fn, telemetry)
}

// NewCreateUserCommand creates users.
func NewCreateUserCommand(service userService, telemetry Telemetry) *CreateUserCommand {
	var fn func(context.Context, admin.UserInput) (admin.UserView, error)
	if service != nil {
		fn = service.CreateUser
	}
	return newCreateCommand(admin.EntityUser, fn, telemetry)
}

// NewUpdateUserCommand updates users.
func NewUpdateUserCommand(service userService, telemetry Telemetry) *UpdateUserCommand {
	var fn func(context.Context, string, admin.UserPatch) (admin.UserView, error)
	if service != nil {
		fn = service.UpdateUser
	}
	return newUpdateCommand(admin.EntityUser, fn, telemetry)
}

// NewCreateRoleCommand creates roles.
func NewCreateRoleCommand(service roleService, telemetry Telemetry) *CreateRoleCommand {
	var fn func(context.Context, admin.RoleInput) (admin.RoleView, error)
	if service != nil {
		fn = service.CreateRole
	}
	return newCreateCommand(admin.EntityRole, fn, telemetry)
}

// NewUpdateRoleCommand updates roles.
func NewUpdateRoleCommand(service roleService, telemetry Telemetry) *UpdateRoleCommand {
	var fn func(context.Context, string, admin.RolePatch) (admin.RoleView, error)
	if service != nil {
		fn = service.UpdateRole
	}
	return newUpdateCommand(admin.EntityRole, fn, telemetry)
}

// NewCreatePermissionCommand creates permissions.
func NewCreatePermissionCommand(service permissionService, telemetry Telemetry) *CreatePermissionCommand {
	var fn func(context.Context, admin.PermissionInput) (admin.Permission, error)
	if service != nil {
		fn = service.CreatePermission
	}
	return newCreateCommand(admin.EntityPermission, fn, telemetry)
}

// NewUpdatePermissionCommand updates permissions.
func NewUpdatePermissionCommand(service permissionService, telemetry Telemetry) *UpdatePermissionCommand {
	var fn func(context.Context, string, admin.PermissionPatch) (admin.Permission, error)
	if service != nil {
		fn = service.UpdatePermission
	}
	return newUpdateCommand(admin.EntityPermission, fn, telemetry)
}
