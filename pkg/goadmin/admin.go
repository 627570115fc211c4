package goadmin

import (
	"context"
	"errors"

	"github.com/ettle/strcase"

	core "github.com/goliatone/go-chatadmin/components/admin"
	activitypkg "github.com/goliatone/go-chatadmin/pkg/activity"
	"github.com/goliatone/go-chatadmin/pkg/chatadmin"
)

// MenuBuilder ensures admin entries exist within the host navigation.
type MenuBuilder interface {
	EnsureMenuItem(ctx context.Context, menuCode string, item MenuItem) error
}

// MenuItem captures admin link metadata.
type MenuItem struct {
	Label    string
	Route    string
	Icon     string
	Position int
}

// Config wires the chat admin service and feature flags into an admin shell.
// When Service is nil one is built with the demo fixtures and the activity
// hooks below.
type Config struct {
	EnableAdmin    bool
	MenuCode       string
	MenuBuilder    MenuBuilder
	Service        *chatadmin.Service
	MenuItems      []MenuItem
	ActivityHooks  activitypkg.Hooks
	ActivityConfig activitypkg.Config
}

// Admin exposes helpers for go-admin style applications.
type Admin struct {
	cfg Config
}

var defaultIcons = map[core.Area]string{
	core.AreaWidgets: "message-circle",
	core.AreaModels:  "cpu",
	core.AreaUsers:   "users",
}

// DefaultMenuItems returns one entry per navigation area, e.g. "admin.ai-models".
func DefaultMenuItems() []MenuItem {
	areas := core.NewNavigation().Areas()
	items := make([]MenuItem, 0, len(areas))
	for idx, area := range areas {
		items = append(items, MenuItem{
			Label:    strcase.ToPascal(string(area)),
			Route:    "admin." + strcase.ToKebab(string(area)),
			Icon:     defaultIcons[area],
			Position: idx + 1,
		})
	}
	return items
}

// New creates an Admin helper that can seed admin menus.
func New(cfg Config) (*Admin, error) {
	if cfg.MenuCode == "" {
		cfg.MenuCode = "admin.main"
	}
	if len(cfg.MenuItems) == 0 {
		cfg.MenuItems = DefaultMenuItems()
	}
	if cfg.EnableAdmin && cfg.Service == nil {
		service, err := chatadmin.NewDemoService(chatadmin.Options{
			ActivityHooks:  cfg.ActivityHooks,
			ActivityConfig: cfg.ActivityConfig,
		})
		if err != nil {
			return nil, errors.Join(errors.New("goadmin: build admin service"), err)
		}
		cfg.Service = service
	}
	return &Admin{cfg: cfg}, nil
}

// Service exposes the configured admin service when enabled.
func (a *Admin) Service() *chatadmin.Service {
	if !a.cfg.EnableAdmin {
		return nil
	}
	return a.cfg.Service
}

// Bootstrap seeds menu entries when admin support is enabled.
func (a *Admin) Bootstrap(ctx context.Context) error {
	if !a.cfg.EnableAdmin || a.cfg.MenuBuilder == nil {
		return nil
	}
	for _, item := range a.cfg.MenuItems {
		if err := a.cfg.MenuBuilder.EnsureMenuItem(ctx, a.cfg.MenuCode, item); err != nil {
			return err
		}
	}
	return nil
}
