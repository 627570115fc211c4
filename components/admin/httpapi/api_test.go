package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-chatadmin/components/admin"
	"github.com/goliatone/go-chatadmin/components/admin/commands"
	"github.com/goliatone/go-chatadmin/pkg/activity"
)

type stubCommander[T any] struct {
	last  T
	calls int
	err   error
}

func (s *stubCommander[T]) Execute(ctx context.Context, msg T) error {
	s.last = msg
	s.calls++
	return s.err
}

type apiFixture struct {
	service *admin.Service
	capture *activity.CaptureHook
	mux     *http.ServeMux
}

func newAPIFixture(t *testing.T) apiFixture {
	t.Helper()
	seed := admin.DefaultSeed()
	capture := &activity.CaptureHook{}
	svc, err := admin.NewService(admin.Options{
		Seed:           &seed,
		IDs:            admin.SequenceIDFactory(),
		ActivityHooks:  activity.Hooks{capture},
		ActivityConfig: activity.Config{Enabled: true},
	})
	require.NoError(t, err)
	mux := http.NewServeMux()
	NewHandlers(svc, nil).Mount(mux, "/admin", admin.NewBroadcastHook())
	return apiFixture{service: svc, capture: capture, mux: mux}
}

func (f apiFixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(HeaderActorID, "admin-1")
	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, req)
	return rec
}

func TestListWidgetsWithFilters(t *testing.T) {
	f := newAPIFixture(t)
	rec := f.do(t, http.MethodGet, "/admin/widgets?filter=model:GPT-4&q=guide", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var payload struct {
		Items []admin.Widget `json:"items"`
		Total int            `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Equal(t, 1, payload.Total)
	assert.Equal(t, "Onboarding Guide", payload.Items[0].Name)
}

func TestCreateWidget(t *testing.T) {
	f := newAPIFixture(t)
	rec := f.do(t, http.MethodPost, "/admin/widgets", map[string]any{"name": "Support Bot"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var widget admin.Widget
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &widget))
	assert.Equal(t, "widget-1", widget.ID)
	assert.Equal(t, admin.WidgetInactive, widget.Status)

	events := f.capture.Snapshot()
	require.Len(t, events, 1)
	assert.Equal(t, "admin-1", events[0].ActorID)
	assert.Equal(t, "admin.widget.create", events[0].Verb)
}

func TestCreateModelValidationError(t *testing.T) {
	f := newAPIFixture(t)
	rec := f.do(t, http.MethodPost, "/admin/models", map[string]any{
		"name":           "Test Model",
		"provider":       "Acme",
		"version":        "1",
		"description":    "A test model",
		"context_length": 2048,
		"status":         "active",
		"parameters":     map[string]any{"temperature": 1.5, "top_p": 1, "frequency_penalty": 0, "presence_penalty": 0},
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", rec.Code, rec.Body.String())
	}
	var payload struct {
		Fields []admin.FieldError `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.NotEmpty(t, payload.Fields)
	assert.Equal(t, "parameters.temperature", payload.Fields[0].Field)
	assert.Equal(t, 3, f.service.ModelStore().Len())
}

func TestUpdateUserKeepsOtherFields(t *testing.T) {
	f := newAPIFixture(t)
	rec := f.do(t, http.MethodPost, "/admin/users/user-2", map[string]any{"name": "Jane Q. Smith"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	user, err := f.service.User("user-2")
	require.NoError(t, err)
	assert.Equal(t, "Jane Q. Smith", user.Name)
	assert.Equal(t, "jane@example.com", user.Email)
	assert.Equal(t, []string{"role-2", "role-3"}, user.RoleIDs)
}

func TestGetUnknownRecord(t *testing.T) {
	f := newAPIFixture(t)
	rec := f.do(t, http.MethodGet, "/admin/roles/missing", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestDeletePermissionCascades(t *testing.T) {
	f := newAPIFixture(t)
	rec := f.do(t, http.MethodDelete, "/admin/permissions/perm-1", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	role, err := f.service.Role("role-3")
	require.NoError(t, err)
	assert.Empty(t, role.PermissionIDs)
}

func TestWidgetStatusAndSnippet(t *testing.T) {
	f := newAPIFixture(t)
	rec := f.do(t, http.MethodPost, "/admin/widgets/3/status", map[string]string{"status": "active"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = f.do(t, http.MethodGet, "/admin/widgets/1/snippet?format=react", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var snippet admin.Snippet
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snippet))
	assert.Equal(t, "CustomerSupportChatWidget.jsx", snippet.Filename)

	rec = f.do(t, http.MethodGet, "/admin/widgets/1/snippet?format=cobol", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWidgetStatsAndChart(t *testing.T) {
	f := newAPIFixture(t)
	rec := f.do(t, http.MethodGet, "/admin/widgets/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var stats admin.WidgetStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 4, stats.Total)

	rec = f.do(t, http.MethodGet, "/admin/widgets/stats/chart", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/html"))
}

func TestSavePromptsEndpoint(t *testing.T) {
	f := newAPIFixture(t)
	rec := f.do(t, http.MethodPost, "/admin/models/1/prompts", map[string]any{
		"prompts": []map[string]string{{"name": "Upsell", "content": "Suggest the premium plan."}},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	model, err := f.service.Model("1")
	require.NoError(t, err)
	require.Len(t, model.Prompts, 1)
	assert.Equal(t, "Upsell", model.Prompts[0].Name)
}

func TestMalformedBody(t *testing.T) {
	f := newAPIFixture(t)
	req := httptest.NewRequest(http.MethodPost, "/admin/roles", strings.NewReader("{"))
	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSeedEndpointDefaults(t *testing.T) {
	f := newAPIFixture(t)
	require.NoError(t, f.service.DeleteWidget(context.Background(), "1"))
	rec := f.do(t, http.MethodPost, "/admin/seed", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 4, f.service.WidgetStore().Len())
}

func TestSeedEndpointRejectsInvalidDocument(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodPost, "/admin/seed", map[string]string{"version": "2"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())

	doc := admin.SeedDocument{
		Version: "1",
		Users:   []admin.User{{ID: "user-9", Name: "Ghost", Email: "ghost@example.com", RoleIDs: []string{"role-404"}}},
	}
	rec = f.do(t, http.MethodPost, "/admin/seed", doc)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "role-404")
	assert.Equal(t, 3, f.service.UserStore().Len())
}

func TestEndpointsSkipMissingHandlers(t *testing.T) {
	remove := &stubCommander[commands.DeleteInput]{}
	api := &Handlers{Delete: remove}
	endpoints := api.Endpoints()
	require.Len(t, endpoints, 5)
	for _, ep := range endpoints {
		assert.Equal(t, http.MethodDelete, ep.Method)
	}

	resp := endpoints[0].Handle(context.Background(), Request{Params: map[string]string{"id": "w1"}})
	assert.Equal(t, http.StatusNoContent, resp.Status)
	assert.Equal(t, commands.DeleteInput{Entity: admin.EntityWidget, ID: "w1"}, remove.last)
}

func TestParseQuery(t *testing.T) {
	values := url.Values{
		"q":      {"  support "},
		"filter": {"status:active,model:GPT-4", "bogus", "role:role-1"},
	}
	query := ParseQuery(values)
	assert.Equal(t, "support", query.Search)
	require.Len(t, query.Filters, 3)
	assert.Equal(t, "model", query.Filters[1].Type)
	assert.Equal(t, "role-1", query.Filters[2].Value)
}

func TestStatusFor(t *testing.T) {
	cases := map[error]int{
		nil:                               http.StatusOK,
		&admin.ValidationError{Form: "f"}: http.StatusUnprocessableEntity,
		fmt.Errorf("x: %w", admin.ErrNotFound):             http.StatusNotFound,
		admin.ErrDuplicateID:                               http.StatusConflict,
		fmt.Errorf("x: %w", admin.ErrInvalidSeed):          http.StatusUnprocessableEntity,
		fmt.Errorf("x: %w", admin.ErrInvalidTransition):    http.StatusBadRequest,
		fmt.Errorf("x: %w", admin.ErrUnknownSnippetFormat): http.StatusBadRequest,
		errors.New("boom"):                                 http.StatusInternalServerError,
	}
	for err, want := range cases {
		assert.Equal(t, want, StatusFor(err), "error %v", err)
	}
}
