package report

import (
	"context"
	"errors"

	"github.com/fleetwatch/fleetwatch/internal/domain"
)

// errNotFound is returned by stores for unknown report ids.
var errNotFound = errors.New("no such report")

// errExists is returned by stores when a report id is already taken.
var errExists = errors.New("report already exists")

// Store persists reports keyed by id. Reports are only ever added, never updated or removed.
type Store interface {
	// Put adds a report, failing if its id is already taken.
	Put(ctx context.Context, r domain.Report) error

	// Get returns the report with the given id, or an error matching errNotFound.
	Get(ctx context.Context, id string) (domain.Report, error)

	// Summaries returns the listing view of every stored report, in no particular order.
	Summaries(ctx context.Context) ([]domain.ReportSummary, error)
}
