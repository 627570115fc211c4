package queries

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-chatadmin/components/admin"
)

// ListQuery returns the records of one entity visible under a search text
// and filter tags.
type ListQuery[T any] struct {
	list func(admin.Query) []T
}

// Query runs the list function. A nil result is returned as an empty slice.
func (q *ListQuery[T]) Query(_ context.Context, input admin.Query) ([]T, error) {
	if q.list == nil {
		return nil, errors.New("list query requires service")
	}
	out := q.list(input)
	if out == nil {
		out = []T{}
	}
	return out, nil
}

// GetInput identifies a single record.
type GetInput struct {
	ID string `json:"id"`
}

// GetQuery fetches one record by id.
type GetQuery[T any] struct {
	get func(string) (T, error)
}

// Query returns admin.ErrNotFound for unknown ids.
func (q *GetQuery[T]) Query(_ context.Context, input GetInput) (T, error) {
	var zero T
	if q.get == nil {
		return zero, errors.New("get query requires service")
	}
	return q.get(input.ID)
}

type readService interface {
	Widgets(query admin.Query) []admin.Widget
	Widget(id string) (admin.Widget, error)
	Models(query admin.Query) []admin.AIModel
	Model(id string) (admin.AIModel, error)
	Users(query admin.Query) []admin.UserView
	User(id string) (admin.UserView, error)
	Roles(query admin.Query) []admin.RoleView
	Role(id string) (admin.RoleView, error)
	Permissions(query admin.Query) []admin.Permission
	Permission(id string) (admin.Permission, error)
}

var (
	_ gocommand.Querier[admin.Query, []admin.Widget]     = (*ListQuery[admin.Widget])(nil)
	_ gocommand.Querier[admin.Query, []admin.AIModel]    = (*ListQuery[admin.AIModel])(nil)
	_ gocommand.Querier[admin.Query, []admin.UserView]   = (*ListQuery[admin.UserView])(nil)
	_ gocommand.Querier[admin.Query, []admin.RoleView]   = (*ListQuery[admin.RoleView])(nil)
	_ gocommand.Querier[admin.Query, []admin.Permission] = (*ListQuery[admin.Permission])(nil)
	_ gocommand.Querier[GetInput, admin.Widget]          = (*GetQuery[admin.Widget])(nil)
	_ gocommand.Querier[GetInput, admin.AIModel]         = (*GetQuery[admin.AIModel])(nil)
	_ gocommand.Querier[GetInput, admin.UserView]        = (*GetQuery[admin.UserView])(nil)
	_ gocommand.Querier[GetInput, admin.RoleView]        = (*GetQuery[admin.RoleView])(nil)
	_ gocommand.Querier[GetInput, admin.Permission]      = (*GetQuery[admin.Permission])(nil)
)

// NewWidgetListQuery lists widgets.
func NewWidgetListQuery(service readService) *ListQuery[admin.Widget] {
	if service == nil {
		return &ListQuery[admin.Widget]{}
	}
	return &ListQuery[admin.Widget]{list: service.Widgets}
}

// NewModelListQuery lists AI models.
func NewModelListQuery(service readService) *ListQuery[admin.AIModel] {
	if service == nil {
		return &ListQuery[admin.AIModel]{}
	}
	return &ListQuery[admin.AIModel]{list: service.Models}
}

// NewUserListQuery lists users with their resolved roles.
func NewUserListQuery(service readService) *ListQuery[admin.UserView] {
	if service == nil {
		return &ListQuery[admin.UserView]{}
	}
	return &ListQuery[admin.UserView]{list: service.Users}
}

// NewRoleListQuery lists roles with their resolved permissions.
func NewRoleListQuery(service readService) *ListQuery[admin.RoleView] {
	if service == nil {
		return &ListQuery[admin.RoleView]{}
	}
	return &ListQuery[admin.RoleView]{list: service.Roles}
}

// NewPermissionListQuery lists permissions.
func NewPermissionListQuery(service readService) *ListQuery[admin.Permission] {
	if service == nil {
		return &ListQuery[admin.Permission]{}
	}
	return &ListQuery[admin.Permission]{list: service.Permissions}
}

// NewWidgetQuery fetches a widget.
func NewWidgetQuery(service readService) *GetQuery[admin.Widget] {
	if service == nil {
		return &GetQuery[admin.Widget]{}
	}
	return &GetQuery[admin.Widget]{get: service.Widget}
}

// NewModelQuery fetches an AI model.
func NewModelQuery(service readService) *GetQuery[admin.AIModel] {
	if service == nil {
		return &GetQuery[admin.AIModel]{}
	}
	return &GetQuery[admin.AIModel]{get: service.Model}
}

// NewUserQuery fetches a user.
func NewUserQuery(service readService) *GetQuery[admin.UserView] {
	if service == nil {
		return &GetQuery[admin.UserView]{}
	}
	return &GetQuery[admin.UserView]{get: service.User}
}

// NewRoleQuery fetches a role.
func NewRoleQuery(service readService) *GetQuery[admin.RoleView] {
	if service == nil {
		return &GetQuery[admin.RoleView]{}
	}
	return &GetQuery[admin.RoleView]{get: service.Role}
}

// NewPermissionQuery fetches a permission.
func NewPermissionQuery(service readService) *GetQuery[admin.Permission] {
	if service == nil {
		return &GetQuery[admin.Permission]{}
	}
	return &GetQuery[admin.Permission]{get: service.Permission}
}
