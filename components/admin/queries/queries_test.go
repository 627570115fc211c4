package queries

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-chatadmin/components/admin"
)

func newSeededService(t *testing.T) *admin.Service {
	t.Helper()
	seed := admin.DefaultSeed()
	svc, err := admin.NewService(admin.Options{Seed: &seed})
	require.NoError(t, err)
	return svc
}

func TestWidgetListQueryFilters(t *testing.T) {
	query := NewWidgetListQuery(newSeededService(t))
	widgets, err := query.Query(context.Background(), admin.Query{
		Filters: []admin.FilterTag{{Type: "model", Value: "GPT-4"}},
	})
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	require.Len(t, widgets, 2)
	assert.Equal(t, "Customer Support Chat", widgets[0].Name)
	assert.Equal(t, "Onboarding Guide", widgets[1].Name)
}

func TestListQueryReturnsEmptySlice(t *testing.T) {
	query := NewModelListQuery(newSeededService(t))
	models, err := query.Query(context.Background(), admin.Query{Search: "no such model"})
	require.NoError(t, err)
	assert.NotNil(t, models)
	assert.Empty(t, models)
}

func TestListQueryRequiresService(t *testing.T) {
	if _, err := NewUserListQuery(nil).Query(context.Background(), admin.Query{}); err == nil {
		t.Fatalf("expected error without service")
	}
}

func TestUserQueryResolvesRoles(t *testing.T) {
	query := NewUserQuery(newSeededService(t))
	user, err := query.Query(context.Background(), GetInput{ID: "user-2"})
	require.NoError(t, err)
	require.Len(t, user.Roles, 2)
	assert.Equal(t, "Editor", user.Roles[0].Name)
	assert.Equal(t, "Viewer", user.Roles[1].Name)
}

func TestGetQueryNotFound(t *testing.T) {
	_, err := NewRoleQuery(newSeededService(t)).Query(context.Background(), GetInput{ID: "missing"})
	assert.True(t, errors.Is(err, admin.ErrNotFound))
}

func TestWidgetStatsQuery(t *testing.T) {
	stats, err := NewWidgetStatsQuery(newSeededService(t)).Query(context.Background(), StatsInput{})
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 3, stats.Active)
	assert.Equal(t, 1, stats.Inactive)
}

func TestWidgetChartQuery(t *testing.T) {
	html, err := NewWidgetChartQuery(newSeededService(t)).Query(context.Background(), StatsInput{})
	require.NoError(t, err)
	assert.True(t, strings.Contains(html, "echarts"))
}

func TestSnippetQuery(t *testing.T) {
	query := NewSnippetQuery(newSeededService(t))
	snippet, err := query.Query(context.Background(), SnippetInput{WidgetID: "1", Format: admin.SnippetReact})
	require.NoError(t, err)
	assert.Equal(t, "CustomerSupportChatWidget.jsx", snippet.Filename)

	_, err = query.Query(context.Background(), SnippetInput{WidgetID: "1", Format: "cobol"})
	assert.ErrorIs(t, err, admin.ErrUnknownSnippetFormat)
}

func TestExportQuery(t *testing.T) {
	doc, err := NewExportQuery(newSeededService(t)).Query(context.Background(), StatsInput{})
	require.NoError(t, err)
	assert.Equal(t, admin.SeedVersion, doc.Version)
	assert.Len(t, doc.Users, 3)
}
