package admin

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRoleForm(t *testing.T) *FormController[RoleInput] {
	t.Helper()
	form, err := NewFormController(RoleForm, nil, RoleInput{PermissionIDs: []string{}})
	require.NoError(t, err)
	return form
}

func TestFormSubmitFailureSkipsCallback(t *testing.T) {
	form := newRoleForm(t)
	called := false
	err := form.Submit(context.Background(), func(context.Context, Submission[RoleInput]) error {
		called = true
		return nil
	})
	require.Error(t, err)
	assert.False(t, called)
	require.NotNil(t, form.Errors())
	_, ok := form.Errors().Field("name")
	assert.True(t, ok)
}

func TestFormSubmitDecodesPayload(t *testing.T) {
	form := newRoleForm(t)
	require.NoError(t, form.Set("name", "Support"))
	require.NoError(t, form.AppendItem("permission_ids", "perm-1"))
	require.NoError(t, form.AppendItem("permission_ids", "perm-2"))
	require.NoError(t, form.SwapItems("permission_ids", 0, 1))

	var got Submission[RoleInput]
	err := form.Submit(context.Background(), func(_ context.Context, sub Submission[RoleInput]) error {
		got = sub
		return nil
	})
	require.NoError(t, err)
	assert.Nil(t, form.Errors())
	assert.Equal(t, FormCreate, got.Mode)
	assert.Equal(t, "Support", got.Payload.Name)
	assert.Equal(t, []string{"perm-2", "perm-1"}, got.Payload.PermissionIDs)
}

func TestFormSubmitReturnsCallbackError(t *testing.T) {
	form := newRoleForm(t)
	require.NoError(t, form.Set("name", "Support"))
	boom := errors.New("boom")
	err := form.Submit(context.Background(), func(context.Context, Submission[RoleInput]) error { return boom })
	assert.ErrorIs(t, err, boom)
}

func TestFormEditKeepsStagedValuesForSameRecord(t *testing.T) {
	form := newRoleForm(t)
	require.NoError(t, form.Edit("role-1", RoleInput{Name: "Administrator", PermissionIDs: []string{"perm-1"}}))
	assert.Equal(t, FormEdit, form.Mode())
	assert.Equal(t, "role-1", form.TargetID())

	require.NoError(t, form.Set("name", "Root"))
	require.NoError(t, form.Edit("role-1", RoleInput{Name: "Administrator"}))
	name, _ := form.Get("name")
	assert.Equal(t, "Root", name)

	require.NoError(t, form.Edit("role-2", RoleInput{Name: "Editor"}))
	name, _ = form.Get("name")
	assert.Equal(t, "Editor", name)

	require.NoError(t, form.Set("name", "Changed"))
	form.Reset()
	name, _ = form.Get("name")
	assert.Equal(t, "Editor", name)

	assert.Error(t, form.Edit("", RoleInput{}))

	form.Create()
	assert.Equal(t, FormCreate, form.Mode())
	assert.Empty(t, form.TargetID())
}

func TestFormNestedListErrors(t *testing.T) {
	form := newRoleForm(t)
	require.NoError(t, form.AppendItem("permission_ids", "perm-1"))

	assert.ErrorIs(t, form.RemoveItem("permission_ids", 3), ErrIndexOutOfRange)
	assert.ErrorIs(t, form.SwapItems("permission_ids", 0, -1), ErrIndexOutOfRange)
	assert.ErrorIs(t, form.SwapItems("name", 0, 0), ErrNotList)
	assert.ErrorIs(t, form.RemoveItem("missing.list", 0), ErrNotList)

	require.NoError(t, form.RemoveItem("permission_ids", 0))
	ids, ok := form.Get("permission_ids")
	require.True(t, ok)
	assert.Empty(t, ids)
}

func TestFormDottedPaths(t *testing.T) {
	form, err := NewFormController(ModelForm, nil, DefaultModelInput())
	require.NoError(t, err)

	temp, ok := form.Get("parameters.temperature")
	require.True(t, ok)
	assert.Equal(t, 0.7, temp)

	require.NoError(t, form.Set("parameters.temperature", 0.2))
	temp, _ = form.Get("parameters.temperature")
	assert.Equal(t, 0.2, temp)

	require.NoError(t, form.AppendItem("prompts", Prompt{Name: "Greeting", Content: "Hi"}))
	prompts, _ := form.Get("prompts")
	require.Len(t, prompts, 1)
	assert.Equal(t, "Greeting", prompts.([]any)[0].(map[string]any)["name"])

	assert.ErrorIs(t, form.Set("status.nested", "x"), ErrInvalidPath)
	assert.ErrorIs(t, form.Set("parameters..top_p", 1), ErrInvalidPath)
	_, ok = form.Get("nothing.here")
	assert.False(t, ok)
}

func TestFormValuesAreCopies(t *testing.T) {
	form := newRoleForm(t)
	values := form.Values()
	values["name"] = "Mutated"
	name, _ := form.Get("name")
	assert.Equal(t, "", name)
}

func TestFormEditRepopulatesAfterSubmit(t *testing.T) {
	form := newRoleForm(t)
	require.NoError(t, form.Edit("role-2", RoleInput{Name: "Editor", PermissionIDs: []string{}}))
	require.NoError(t, form.Set("name", "Senior Editor"))
	require.NoError(t, form.Submit(context.Background(), func(context.Context, Submission[RoleInput]) error { return nil }))

	require.NoError(t, form.Edit("role-2", RoleInput{Name: "Senior Editor", PermissionIDs: []string{}}))
	name, _ := form.Get("name")
	assert.Equal(t, "Senior Editor", name)

	require.NoError(t, form.Set("name", "Unsaved"))
	require.NoError(t, form.Edit("role-2", RoleInput{Name: "Senior Editor", PermissionIDs: []string{}}))
	name, _ = form.Get("name")
	assert.Equal(t, "Unsaved", name)
}

func TestFormFailedCallbackKeepsStagedValues(t *testing.T) {
	form := newRoleForm(t)
	require.NoError(t, form.Edit("role-2", RoleInput{Name: "Editor", PermissionIDs: []string{}}))
	require.NoError(t, form.Set("name", "Staged"))
	err := form.Submit(context.Background(), func(context.Context, Submission[RoleInput]) error { return errors.New("conflict") })
	require.Error(t, err)

	require.NoError(t, form.Edit("role-2", RoleInput{Name: "Editor", PermissionIDs: []string{}}))
	name, _ := form.Get("name")
	assert.Equal(t, "Staged", name)
}
