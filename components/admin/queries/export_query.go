package queries

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-chatadmin/components/admin"
)

type exporter interface {
	Export() admin.SeedDocument
}

// ExportQuery snapshots every collection as a seed document.
type ExportQuery struct {
	service exporter
}

// NewExportQuery builds the query.
func NewExportQuery(service exporter) *ExportQuery {
	return &ExportQuery{service: service}
}

var _ gocommand.Querier[StatsInput, admin.SeedDocument] = (*ExportQuery)(nil)

// Query returns the snapshot.
func (q *ExportQuery) Query(_ context.Context, _ StatsInput) (admin.SeedDocument, error) {
	if q.service == nil {
		return admin.SeedDocument{}, errors.New("export query requires service")
	}
	return q.service.Export(), nil
}
