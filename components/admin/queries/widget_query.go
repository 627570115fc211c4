package queries

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-chatadmin/components/admin"
)

type widgetReporter interface {
	WidgetStats() admin.WidgetStats
	WidgetStatsChart(ctx context.Context) (string, error)
	IntegrationSnippet(ctx context.Context, id string, format admin.SnippetFormat) (admin.Snippet, error)
}

// StatsInput is the empty message of the stats queries.
type StatsInput struct{}

// WidgetStatsQuery counts widgets by status and model.
type WidgetStatsQuery struct {
	service widgetReporter
}

// NewWidgetStatsQuery builds the query.
func NewWidgetStatsQuery(service widgetReporter) *WidgetStatsQuery {
	return &WidgetStatsQuery{service: service}
}

var _ gocommand.Querier[StatsInput, admin.WidgetStats] = (*WidgetStatsQuery)(nil)

// Query returns the current counts.
func (q *WidgetStatsQuery) Query(_ context.Context, _ StatsInput) (admin.WidgetStats, error) {
	if q.service == nil {
		return admin.WidgetStats{}, errors.New("widget stats query requires service")
	}
	return q.service.WidgetStats(), nil
}

// WidgetChartQuery renders the widgets by model chart as an HTML fragment.
type WidgetChartQuery struct {
	service widgetReporter
}

// NewWidgetChartQuery builds the query.
func NewWidgetChartQuery(service widgetReporter) *WidgetChartQuery {
	return &WidgetChartQuery{service: service}
}

var _ gocommand.Querier[StatsInput, string] = (*WidgetChartQuery)(nil)

// Query returns the cached chart markup.
func (q *WidgetChartQuery) Query(ctx context.Context, _ StatsInput) (string, error) {
	if q.service == nil {
		return "", errors.New("widget chart query requires service")
	}
	return q.service.WidgetStatsChart(ctx)
}

// SnippetInput selects a widget and an embed format.
type SnippetInput struct {
	WidgetID string              `json:"widget_id"`
	Format   admin.SnippetFormat `json:"format"`
}

// SnippetQuery renders the integration code of a widget.
type SnippetQuery struct {
	service widgetReporter
}

// NewSnippetQuery builds the query.
func NewSnippetQuery(service widgetReporter) *SnippetQuery {
	return &SnippetQuery{service: service}
}

var _ gocommand.Querier[SnippetInput, admin.Snippet] = (*SnippetQuery)(nil)

// Query renders the snippet. Unknown formats fail with admin.ErrUnknownSnippetFormat.
func (q *SnippetQuery) Query(ctx context.Context, input SnippetInput) (admin.Snippet, error) {
	if q.service == nil {
		return admin.Snippet{}, errors.New("snippet query requires service")
	}
	return q.service.IntegrationSnippet(ctx, input.WidgetID, input.Format)
}
