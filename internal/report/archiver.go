// Package report freezes fleet status snapshots into immutable, timestamped reports.
package report

import (
	"cmp"
	"context"
	stderrors "errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"github.com/fleetwatch/fleetwatch/internal/contracts"
	"github.com/fleetwatch/fleetwatch/internal/domain"
	"github.com/fleetwatch/fleetwatch/internal/errors"
)

var _ contracts.ReportArchiver = (*Archiver)(nil)

const (
	// DefaultListLimit is the number of summaries returned when no limit is requested.
	DefaultListLimit = 5

	// MaxListLimit is the largest number of summaries returned by one List call.
	MaxListLimit = 100
)

// Archiver assigns ids and timestamps to fleet snapshots and keeps them in a Store.
// NewArchiver should be used to create instances of Archiver.
type Archiver struct {
	logger hclog.Logger
	store  Store
	clock  func() time.Time
	newID  func() (string, error)
}

// ArchiverOption configures an Archiver.
type ArchiverOption func(*Archiver) error

// WithArchiverClock overrides the source of report timestamps.
func WithArchiverClock(clock func() time.Time) ArchiverOption {
	return func(a *Archiver) error {
		if clock == nil {
			return fmt.Errorf("clock cannot be nil")
		}
		a.clock = clock
		return nil
	}
}

// NewArchiver creates an Archiver on top of store.
func NewArchiver(logger hclog.Logger, store Store, opt ...ArchiverOption) (*Archiver, error) {
	if logger == nil || reflect.ValueOf(logger).IsNil() {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if store == nil || reflect.ValueOf(store).IsNil() {
		return nil, fmt.Errorf("report store cannot be nil")
	}

	a := &Archiver{
		logger: logger.Named("reports"),
		store:  store,
		clock:  time.Now,
		newID:  newReportID,
	}

	for _, o := range opt {
		if o == nil {
			continue
		}
		if err := o(a); err != nil {
			return nil, err
		}
	}

	return a, nil
}

// Save archives a deep copy of status tagged with environment.
// Later changes to status never reach the archived report.
func (a *Archiver) Save(ctx context.Context, status domain.FleetStatus, environment string) (domain.Report, error) {
	id, err := a.newID()
	if err != nil {
		return domain.Report{}, fmt.Errorf("%w: failed to allocate report id: %w", errors.ErrReportStoreFailed, err)
	}

	environment = strings.TrimSpace(environment)
	if environment == "" {
		environment = status.Environment
	}

	r := domain.Report{
		ID:          id,
		Environment: environment,
		Timestamp:   a.clock().UTC(),
		Snapshot:    status.Clone(),
	}

	if err := a.store.Put(ctx, r); err != nil {
		a.logger.Error("Failed to archive report", "id", id, "environment", environment, "error", err)
		return domain.Report{}, fmt.Errorf("%w: %w", errors.ErrReportStoreFailed, err)
	}

	a.logger.Info("Archived report", "id", id, "environment", environment)

	r.Snapshot = r.Snapshot.Clone()
	return r, nil
}

// List returns up to limit report summaries, most recent first.
// A limit below 1 selects DefaultListLimit, and limits above MaxListLimit are capped.
// An empty environment matches every report.
func (a *Archiver) List(ctx context.Context, limit int, environment string) ([]domain.ReportSummary, error) {
	switch {
	case limit < 1:
		limit = DefaultListLimit
	case limit > MaxListLimit:
		limit = MaxListLimit
	}

	summaries, err := a.store.Summaries(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrReportStoreFailed, err)
	}

	environment = strings.TrimSpace(environment)
	if environment != "" {
		summaries = slices.DeleteFunc(summaries, func(s domain.ReportSummary) bool {
			return s.Environment != environment
		})
	}

	slices.SortFunc(summaries, func(x, y domain.ReportSummary) int {
		if c := y.Timestamp.Compare(x.Timestamp); c != 0 {
			return c
		}
		return cmp.Compare(y.ID, x.ID)
	})

	if len(summaries) > limit {
		summaries = summaries[:limit]
	}

	return summaries, nil
}

// Get returns the report with the given id.
func (a *Archiver) Get(ctx context.Context, id string) (domain.Report, error) {
	r, err := a.store.Get(ctx, strings.TrimSpace(id))
	if err == nil {
		return r, nil
	}

	if stderrors.Is(err, errNotFound) {
		return domain.Report{}, fmt.Errorf("%w: %s", errors.ErrReportNotFound, id)
	}

	return domain.Report{}, fmt.Errorf("%w: %w", errors.ErrReportStoreFailed, err)
}

// newReportID returns a time-ordered UUID.
func newReportID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
