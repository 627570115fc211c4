package admin

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/goliatone/go-chatadmin/pkg/activity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureRefresh struct {
	mu     sync.Mutex
	events []ChangeEvent
}

func (c *captureRefresh) EntityChanged(_ context.Context, evt ChangeEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, evt)
	return nil
}

func (c *captureRefresh) snapshot() []ChangeEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]ChangeEvent(nil), c.events...)
}

type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Minute)
	return c.now
}

func newSeededService(t *testing.T, opts Options) *Service {
	t.Helper()
	seed := DefaultSeed()
	opts.Seed = &seed
	if opts.IDs == nil {
		opts.IDs = SequenceIDFactory()
	}
	svc, err := NewService(opts)
	require.NoError(t, err)
	return svc
}

func TestServiceCreateWidgetDefaults(t *testing.T) {
	today := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	svc := newSeededService(t, Options{Clock: func() time.Time { return today }})

	widget, err := svc.CreateWidget(context.Background(), WidgetInput{Name: "  Support Bot "})
	require.NoError(t, err)
	assert.Equal(t, "widget-1", widget.ID)
	assert.Equal(t, "Support Bot", widget.Name)
	assert.Equal(t, WidgetInactive, widget.Status)
	assert.Equal(t, "2024-05-01", widget.CreatedAt)
	assert.Equal(t, "GPT-3.5", widget.AIModel)
	assert.Equal(t, DefaultWidgetSettings(), widget.Settings)

	widgets := svc.Widgets(Query{})
	require.Len(t, widgets, 5)
	assert.Equal(t, "widget-1", widgets[4].ID)
}

func TestServiceCreateRejectsInvalidInput(t *testing.T) {
	svc := newSeededService(t, Options{})
	_, err := svc.CreateWidget(context.Background(), WidgetInput{})
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Len(t, svc.Widgets(Query{}), 4)

	settings := DefaultWidgetSettings()
	settings.Appearance.Width = 900
	_, err = svc.CreateWidget(context.Background(), WidgetInput{Name: "Wide", Settings: &settings})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	_, ok := verr.Field("settings.appearance.width")
	assert.True(t, ok)
}

func TestServiceUpdateUserKeepsOtherFields(t *testing.T) {
	clock := &stepClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	svc := newSeededService(t, Options{Clock: clock.Now})
	before, err := svc.User("user-2")
	require.NoError(t, err)

	name := "Jane Doe"
	after, err := svc.UpdateUser(context.Background(), "user-2", UserPatch{Name: &name})
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe", after.Name)
	assert.Equal(t, before.Email, after.Email)
	assert.Equal(t, before.Avatar, after.Avatar)
	assert.Equal(t, before.RoleIDs, after.RoleIDs)
	assert.Equal(t, before.Status, after.Status)
	assert.Equal(t, before.CreatedAt, after.CreatedAt)
	assert.True(t, after.UpdatedAt.After(before.UpdatedAt))
	require.Len(t, after.Roles, 2)
	assert.Equal(t, "Editor", after.Roles[0].Name)
}

func TestServiceUpdateValidatesMergedRecord(t *testing.T) {
	svc := newSeededService(t, Options{})
	bad := "nope"
	_, err := svc.UpdateUser(context.Background(), "user-1", UserPatch{Email: &bad})
	assert.ErrorIs(t, err, ErrValidation)

	user, err := svc.User("user-1")
	require.NoError(t, err)
	assert.Equal(t, "john@example.com", user.Email)

	_, err = svc.UpdateUser(context.Background(), "user-99", UserPatch{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestServiceDeleteRoleCascades(t *testing.T) {
	refresh := &captureRefresh{}
	svc := newSeededService(t, Options{RefreshHook: refresh})

	require.NoError(t, svc.DeleteRole(context.Background(), "role-3"))

	_, err := svc.Role("role-3")
	assert.ErrorIs(t, err, ErrNotFound)
	jane, err := svc.User("user-2")
	require.NoError(t, err)
	assert.Equal(t, []string{"role-2"}, jane.RoleIDs)
	bob, err := svc.User("user-3")
	require.NoError(t, err)
	assert.Empty(t, bob.RoleIDs)
	assert.Empty(t, bob.Roles)

	events := refresh.snapshot()
	require.Len(t, events, 3)
	assert.Equal(t, ChangeEvent{Entity: EntityRole, Action: ChangeDelete, ID: "role-3", Version: events[0].Version}, events[0])
	assert.Equal(t, EntityUser, events[1].Entity)
	assert.True(t, events[1].Cascaded)
	assert.Equal(t, "user-2", events[1].ID)
	assert.Equal(t, "user-3", events[2].ID)
}

func TestServiceDeletePermissionCascades(t *testing.T) {
	svc := newSeededService(t, Options{})
	require.NoError(t, svc.DeletePermission(context.Background(), "perm-1"))

	for _, role := range svc.Roles(Query{}) {
		assert.NotContains(t, role.PermissionIDs, "perm-1", role.ID)
	}
	viewer, err := svc.Role("role-3")
	require.NoError(t, err)
	assert.Empty(t, viewer.PermissionIDs)

	assert.ErrorIs(t, svc.DeletePermission(context.Background(), "perm-1"), ErrNotFound)
}

func TestServiceEmitsActivity(t *testing.T) {
	capture := &activity.CaptureHook{}
	at := time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC)
	svc := newSeededService(t, Options{
		Clock:          func() time.Time { return at },
		ActivityHooks:  activity.Hooks{capture},
		ActivityConfig: activity.Config{Enabled: true},
	})
	ctx := ContextWithActivity(context.Background(), ActivityContext{ActorID: "admin-1", TenantID: "acme"})

	_, err := svc.SetWidgetStatus(ctx, "3", WidgetActive)
	require.NoError(t, err)

	events := capture.Snapshot()
	require.Len(t, events, 1)
	evt := events[0]
	assert.Equal(t, "admin.widget.update", evt.Verb)
	assert.Equal(t, "admin-1", evt.ActorID)
	assert.Equal(t, "acme", evt.TenantID)
	assert.Equal(t, "widget", evt.ObjectType)
	assert.Equal(t, "3", evt.ObjectID)
	assert.Equal(t, activity.DefaultChannel, evt.Channel)
	assert.Equal(t, at, evt.OccurredAt)
}

func TestServiceActivityDisabledByDefault(t *testing.T) {
	capture := &activity.CaptureHook{}
	svc := newSeededService(t, Options{ActivityHooks: activity.Hooks{capture}})
	require.NoError(t, svc.DeleteWidget(context.Background(), "1"))
	assert.Empty(t, capture.Snapshot())
}

func TestServiceSavePromptsAssignsIDs(t *testing.T) {
	svc := newSeededService(t, Options{})
	model, err := svc.SavePrompts(context.Background(), "1", []Prompt{
		{ID: "p-1", Name: "Support", Content: "Be helpful"},
		{Name: " Sales ", Content: "Sell things"},
	})
	require.NoError(t, err)
	require.Len(t, model.Prompts, 2)
	assert.Equal(t, "p-1", model.Prompts[0].ID)
	assert.Equal(t, "prompt-1", model.Prompts[1].ID)
	assert.Equal(t, "Sales", model.Prompts[1].Name)

	_, err = svc.SavePrompts(context.Background(), "1", []Prompt{{Name: "Empty"}})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestServiceSeedAndExport(t *testing.T) {
	refresh := &captureRefresh{}
	svc, err := NewService(Options{RefreshHook: refresh})
	require.NoError(t, err)
	assert.Empty(t, svc.Widgets(Query{}))

	require.NoError(t, svc.Seed(context.Background(), DefaultSeed()))
	assert.Len(t, refresh.snapshot(), 5)
	for _, evt := range refresh.snapshot() {
		assert.Equal(t, ChangeReset, evt.Action)
	}

	doc := svc.Export()
	assert.Equal(t, SeedVersion, doc.Version)
	assert.Len(t, doc.Widgets, 4)
	assert.Len(t, doc.Models, 3)
	assert.Len(t, doc.Users, 3)
	assert.Len(t, doc.Roles, 3)
	assert.Len(t, doc.Permissions, 4)

	bad := DefaultSeed()
	bad.Users[0].RoleIDs = []string{"role-404"}
	assert.Error(t, svc.Seed(context.Background(), bad))
	assert.Len(t, svc.Users(Query{}), 3)
}

func TestServiceWidgetChartIsCached(t *testing.T) {
	renders := 0
	telemetry := telemetryFunc(func(_ context.Context, event string, _ map[string]any) {
		if event == "admin.widget.chart.render" {
			renders++
		}
	})
	svc := newSeededService(t, Options{Telemetry: telemetry})

	first, err := svc.WidgetStatsChart(context.Background())
	require.NoError(t, err)
	second, err := svc.WidgetStatsChart(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, renders)

	_, err = svc.SetWidgetStatus(context.Background(), "3", WidgetActive)
	require.NoError(t, err)
	_, err = svc.WidgetStatsChart(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, renders)
}

type telemetryFunc func(ctx context.Context, event string, payload map[string]any)

func (f telemetryFunc) Record(ctx context.Context, event string, payload map[string]any) {
	f(ctx, event, payload)
}

func TestServiceRejectsUnknownRoleReferences(t *testing.T) {
	svc := newSeededService(t, Options{})

	_, err := svc.CreateUser(context.Background(), UserInput{
		Name:    "Ada Lovelace",
		Email:   "ada@example.com",
		RoleIDs: []string{"role-1", "role-404"},
	})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "err: %v", err)
	field, ok := verr.Field("role_ids")
	require.True(t, ok)
	assert.Contains(t, field.Message, `"role-404"`)
	assert.Len(t, svc.Users(Query{}), 3)

	roles := []string{"role-404"}
	_, err = svc.UpdateUser(context.Background(), "user-1", UserPatch{RoleIDs: &roles})
	assert.ErrorIs(t, err, ErrValidation)
	john, err := svc.User("user-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"role-1"}, john.RoleIDs)
}

func TestServiceDanglingRoleIsNotAdoptedByLaterRole(t *testing.T) {
	svc, err := NewService(Options{IDs: SequenceIDFactory()})
	require.NoError(t, err)

	_, err = svc.CreateUser(context.Background(), UserInput{
		Name:    "Ada Lovelace",
		Email:   "ada@example.com",
		RoleIDs: []string{"role-1"},
	})
	require.ErrorIs(t, err, ErrValidation)

	role, err := svc.CreateRole(context.Background(), RoleInput{Name: "Superuser"})
	require.NoError(t, err)
	assert.Equal(t, "role-1", role.ID)
	assert.Empty(t, svc.Users(Query{}))
}

func TestServiceRejectsUnknownPermissionReferences(t *testing.T) {
	svc := newSeededService(t, Options{})

	_, err := svc.CreateRole(context.Background(), RoleInput{Name: "Auditor", PermissionIDs: []string{"nope"}})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "err: %v", err)
	_, ok := verr.Field("permission_ids")
	assert.True(t, ok)
	assert.Len(t, svc.Roles(Query{}), 3)

	perms := []string{"perm-1", "nope"}
	_, err = svc.UpdateRole(context.Background(), "role-3", RolePatch{PermissionIDs: &perms})
	assert.ErrorIs(t, err, ErrValidation)

	valid := []string{"perm-1", "perm-4"}
	viewer, err := svc.UpdateRole(context.Background(), "role-3", RolePatch{PermissionIDs: &valid})
	require.NoError(t, err)
	assert.Len(t, viewer.Permissions, 2)
}

func TestServiceRejectsMultilineWidgetName(t *testing.T) {
	svc := newSeededService(t, Options{})
	_, err := svc.CreateWidget(context.Background(), WidgetInput{Name: "Bot\n</script><script>alert(1)</script>"})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "err: %v", err)
	_, ok := verr.Field("name")
	assert.True(t, ok)

	name := "Line\tbreak"
	_, err = svc.UpdateWidget(context.Background(), "1", WidgetPatch{Name: &name})
	assert.ErrorIs(t, err, ErrValidation)
}
