package commands

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-chatadmin/components/admin"
)

func newSeededService(t *testing.T) *admin.Service {
	t.Helper()
	seed := admin.DefaultSeed()
	svc, err := admin.NewService(admin.Options{Seed: &seed, IDs: admin.SequenceIDFactory()})
	require.NoError(t, err)
	return svc
}

type stubTelemetry struct {
	events []string
}

func (s *stubTelemetry) Record(_ context.Context, event string, _ map[string]any) {
	s.events = append(s.events, event)
}

func TestCreateWidgetCommand(t *testing.T) {
	svc := newSeededService(t)
	telemetry := &stubTelemetry{}
	cmd := NewCreateWidgetCommand(svc, telemetry)

	in := admin.DefaultWidgetInput()
	in.Name = "Support Bot"
	var created admin.Widget
	if err := cmd.Execute(context.Background(), CreateInput[admin.WidgetInput, admin.Widget]{Input: in, Result: &created}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	assert.Equal(t, "widget-1", created.ID)
	assert.Equal(t, admin.WidgetInactive, created.Status)
	assert.Equal(t, 5, svc.WidgetStore().Len())
	assert.Equal(t, []string{"admin.command.create"}, telemetry.events)
}

func TestCreateCommandReturnsValidationError(t *testing.T) {
	svc := newSeededService(t)
	telemetry := &stubTelemetry{}
	cmd := NewCreateModelCommand(svc, telemetry)

	in := admin.DefaultModelInput()
	in.Name = "X"
	err := cmd.Execute(context.Background(), CreateInput[admin.ModelInput, admin.AIModel]{Input: in})
	require.Error(t, err)
	assert.True(t, errors.Is(err, admin.ErrValidation))
	assert.Empty(t, telemetry.events)
	assert.Equal(t, 3, svc.ModelStore().Len())
}

func TestCreateCommandRequiresService(t *testing.T) {
	cmd := NewCreateUserCommand(nil, nil)
	if err := cmd.Execute(context.Background(), CreateInput[admin.UserInput, admin.UserView]{}); err == nil {
		t.Fatalf("expected error without service")
	}
}

func TestUpdateUserCommand(t *testing.T) {
	svc := newSeededService(t)
	cmd := NewUpdateUserCommand(svc, nil)

	name := "Johnny Doe"
	var updated admin.UserView
	err := cmd.Execute(context.Background(), UpdateInput[admin.UserPatch, admin.UserView]{
		ID:     "user-1",
		Patch:  admin.UserPatch{Name: &name},
		Result: &updated,
	})
	require.NoError(t, err)
	assert.Equal(t, "Johnny Doe", updated.Name)
	assert.Equal(t, "john@example.com", updated.Email)
	assert.Len(t, updated.Roles, 1)
}

func TestUpdateCommandRequiresID(t *testing.T) {
	svc := newSeededService(t)
	cmd := NewUpdateRoleCommand(svc, nil)
	if err := cmd.Execute(context.Background(), UpdateInput[admin.RolePatch, admin.RoleView]{}); err == nil {
		t.Fatalf("expected error without id")
	}
}

func TestUpdateCommandUnknownID(t *testing.T) {
	svc := newSeededService(t)
	cmd := NewUpdatePermissionCommand(svc, nil)
	name := "widgets:list"
	err := cmd.Execute(context.Background(), UpdateInput[admin.PermissionPatch, admin.Permission]{ID: "missing", Patch: admin.PermissionPatch{Name: &name}})
	assert.ErrorIs(t, err, admin.ErrNotFound)
}

func TestDeleteCommandCascades(t *testing.T) {
	svc := newSeededService(t)
	telemetry := &stubTelemetry{}
	cmd := NewDeleteCommand(svc, telemetry)

	if err := cmd.Execute(context.Background(), DeleteInput{Entity: admin.EntityRole, ID: "role-3"}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	user, err := svc.User("user-3")
	require.NoError(t, err)
	assert.Empty(t, user.RoleIDs)
	assert.Equal(t, []string{"admin.command.delete"}, telemetry.events)
}

func TestDeleteCommandRejectsUnknownEntity(t *testing.T) {
	cmd := NewDeleteCommand(newSeededService(t), nil)
	err := cmd.Execute(context.Background(), DeleteInput{Entity: "gadget", ID: "1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown entity")
}

func TestSetWidgetStatusCommand(t *testing.T) {
	svc := newSeededService(t)
	cmd := NewSetWidgetStatusCommand(svc, nil)
	var widget admin.Widget
	require.NoError(t, cmd.Execute(context.Background(), SetWidgetStatusInput{ID: "3", Status: admin.WidgetActive, Result: &widget}))
	assert.Equal(t, admin.WidgetActive, widget.Status)
}

func TestSavePromptsCommand(t *testing.T) {
	svc := newSeededService(t)
	cmd := NewSavePromptsCommand(svc, nil)
	var model admin.AIModel
	err := cmd.Execute(context.Background(), SavePromptsInput{
		ModelID: "2",
		Prompts: []admin.Prompt{{Name: "Summary", Content: "Summarize the conversation."}},
		Result:  &model,
	})
	require.NoError(t, err)
	require.Len(t, model.Prompts, 1)
	assert.NotEmpty(t, model.Prompts[0].ID)
}

func TestSeedCommandFromFile(t *testing.T) {
	svc := newSeededService(t)
	path := filepath.Join(t.TempDir(), "seed.yaml")
	doc := `version: "1"
widgets:
  - id: w-1
    name: Only Widget
    status: active
    created_at: "2024-01-01"
    ai_model: GPT-4
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	telemetry := &stubTelemetry{}
	cmd := NewSeedCommand(svc, telemetry)
	if err := cmd.Execute(context.Background(), SeedInput{Path: path}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	assert.Equal(t, 1, svc.WidgetStore().Len())
	assert.Equal(t, 0, svc.UserStore().Len())
	assert.Equal(t, []string{"admin.command.seed"}, telemetry.events)
}

func TestSeedCommandDefaults(t *testing.T) {
	svc, err := admin.NewService(admin.Options{})
	require.NoError(t, err)
	cmd := NewSeedCommand(svc, nil)
	require.NoError(t, cmd.Execute(context.Background(), SeedInput{}))
	assert.Equal(t, len(admin.DefaultSeed().Widgets), svc.WidgetStore().Len())
}
