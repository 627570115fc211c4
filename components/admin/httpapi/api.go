package httpapi

import (
	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-chatadmin/components/admin"
	"github.com/goliatone/go-chatadmin/components/admin/commands"
	"github.com/goliatone/go-chatadmin/components/admin/queries"
)

// Handlers exposes admin endpoints backed by shared commands and queries.
// Nil fields leave their routes unregistered.
type Handlers struct {
	CreateWidget     gocommand.Commander[commands.CreateInput[admin.WidgetInput, admin.Widget]]
	UpdateWidget     gocommand.Commander[commands.UpdateInput[admin.WidgetPatch, admin.Widget]]
	SetWidgetStatus  gocommand.Commander[commands.SetWidgetStatusInput]
	CreateModel      gocommand.Commander[commands.CreateInput[admin.ModelInput, admin.AIModel]]
	UpdateModel      gocommand.Commander[commands.UpdateInput[admin.ModelPatch, admin.AIModel]]
	SavePrompts      gocommand.Commander[commands.SavePromptsInput]
	CreateUser       gocommand.Commander[commands.CreateInput[admin.UserInput, admin.UserView]]
	UpdateUser       gocommand.Commander[commands.UpdateInput[admin.UserPatch, admin.UserView]]
	CreateRole       gocommand.Commander[commands.CreateInput[admin.RoleInput, admin.RoleView]]
	UpdateRole       gocommand.Commander[commands.UpdateInput[admin.RolePatch, admin.RoleView]]
	CreatePermission gocommand.Commander[commands.CreateInput[admin.PermissionInput, admin.Permission]]
	UpdatePermission gocommand.Commander[commands.UpdateInput[admin.PermissionPatch, admin.Permission]]
	Delete           gocommand.Commander[commands.DeleteInput]
	Seed             gocommand.Commander[commands.SeedInput]

	ListWidgets     gocommand.Querier[admin.Query, []admin.Widget]
	GetWidget       gocommand.Querier[queries.GetInput, admin.Widget]
	ListModels      gocommand.Querier[admin.Query, []admin.AIModel]
	GetModel        gocommand.Querier[queries.GetInput, admin.AIModel]
	ListUsers       gocommand.Querier[admin.Query, []admin.UserView]
	GetUser         gocommand.Querier[queries.GetInput, admin.UserView]
	ListRoles       gocommand.Querier[admin.Query, []admin.RoleView]
	GetRole         gocommand.Querier[queries.GetInput, admin.RoleView]
	ListPermissions gocommand.Querier[admin.Query, []admin.Permission]
	GetPermission   gocommand.Querier[queries.GetInput, admin.Permission]
	WidgetStats     gocommand.Querier[queries.StatsInput, admin.WidgetStats]
	WidgetChart     gocommand.Querier[queries.StatsInput, string]
	Snippet         gocommand.Querier[queries.SnippetInput, admin.Snippet]
	Export          gocommand.Querier[queries.StatsInput, admin.SeedDocument]
}

// NewHandlers wires every endpoint to service.
func NewHandlers(service *admin.Service, telemetry commands.Telemetry) *Handlers {
	return &Handlers{
		CreateWidget:     commands.NewCreateWidgetCommand(service, telemetry),
		UpdateWidget:     commands.NewUpdateWidgetCommand(service, telemetry),
		SetWidgetStatus:  commands.NewSetWidgetStatusCommand(service, telemetry),
		CreateModel:      commands.NewCreateModelCommand(service, telemetry),
		UpdateModel:      commands.NewUpdateModelCommand(service, telemetry),
		SavePrompts:      commands.NewSavePromptsCommand(service, telemetry),
		CreateUser:       commands.NewCreateUserCommand(service, telemetry),
		UpdateUser:       commands.NewUpdateUserCommand(service, telemetry),
		CreateRole:       commands.NewCreateRoleCommand(service, telemetry),
		UpdateRole:       commands.NewUpdateRoleCommand(service, telemetry),
		CreatePermission: commands.NewCreatePermissionCommand(service, telemetry),
		UpdatePermission: commands.NewUpdatePermissionCommand(service, telemetry),
		Delete:           commands.NewDeleteCommand(service, telemetry),
		Seed:             commands.NewSeedCommand(service, telemetry),

		ListWidgets:     queries.NewWidgetListQuery(service),
		GetWidget:       queries.NewWidgetQuery(service),
		ListModels:      queries.NewModelListQuery(service),
		GetModel:        queries.NewModelQuery(service),
		ListUsers:       queries.NewUserListQuery(service),
		GetUser:         queries.NewUserQuery(service),
		ListRoles:       queries.NewRoleListQuery(service),
		GetRole:         queries.NewRoleQuery(service),
		ListPermissions: queries.NewPermissionListQuery(service),
		GetPermission:   queries.NewPermissionQuery(service),
		WidgetStats:     queries.NewWidgetStatsQuery(service),
		WidgetChart:     queries.NewWidgetChartQuery(service),
		Snippet:         queries.NewSnippetQuery(service),
		Export:          queries.NewExportQuery(service),
	}
}
