// Package daemon runs the fleetwatch HTTP API and the scheduled report snapshots.
package daemon

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/errgroup"

	"github.com/fleetwatch/fleetwatch/internal/contracts"
	"github.com/fleetwatch/fleetwatch/internal/domain"
)

// Daemon serves the API and, when configured, periodically archives fleet reports.
// NewDaemon should be used to create instances of Daemon.
type Daemon struct {
	apiServer            *APIServer
	logger               hclog.Logger
	registry             contracts.HostRegistry
	collector            contracts.FleetCollector
	archiver             contracts.ReportArchiver
	snapshotInterval     time.Duration
	snapshotEnvironments []string
}

// NewDaemon creates a new Daemon instance with proper initialization.
// Use this function instead of directly instantiating Daemon.
func NewDaemon(deps Dependencies, opt ...Option) (*Daemon, error) {
	if err := deps.Validate(); err != nil {
		return nil, fmt.Errorf("invalid daemon dependencies: %w", err)
	}

	opts, err := NewOptions(opt...)
	if err != nil {
		return nil, fmt.Errorf("invalid daemon options: %w", err)
	}

	apiDeps, err := NewAPIDependencies(deps.Logger, deps.Registry, deps.Collector, deps.Archiver, deps.APIAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to create API dependencies: %w", err)
	}

	apiServer, err := NewAPIServer(apiDeps, opts.APIOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to create daemon API server: %w", err)
	}

	envs := opts.SnapshotEnvironments
	if len(envs) == 0 {
		envs = []string{deps.Registry.DefaultEnvironment()}
	}

	return &Daemon{
		apiServer:            apiServer,
		logger:               deps.Logger.Named("daemon"),
		registry:             deps.Registry,
		collector:            deps.Collector,
		archiver:             deps.Archiver,
		snapshotInterval:     opts.SnapshotInterval,
		snapshotEnvironments: envs,
	}, nil
}

// StartAndManage runs the API server, and the snapshot schedule when enabled, until ctx is canceled
// or one of them fails.
func (d *Daemon) StartAndManage(ctx context.Context) error {
	g, gCtx := errgroup.WithContext(ctx)

	if d.snapshotInterval > 0 {
		g.Go(func() error {
			d.snapshotLoop(gCtx)
			return nil
		})
	}

	g.Go(func() error {
		return d.apiServer.Start(gCtx, nil)
	})

	return g.Wait()
}

// snapshotLoop archives a report for every snapshot environment on each tick.
func (d *Daemon) snapshotLoop(ctx context.Context) {
	d.logger.Info(
		"Scheduling fleet snapshots",
		"interval", d.snapshotInterval.String(),
		"environments", d.snapshotEnvironments,
	)

	ticker := time.NewTicker(d.snapshotInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("Stopping fleet snapshots")
			return
		case <-ticker.C:
			d.snapshotAll(ctx)
		}
	}
}

// snapshotAll collects and archives each snapshot environment in turn.
// Failures are logged and do not stop the remaining environments.
func (d *Daemon) snapshotAll(ctx context.Context) []domain.Report {
	reports := make([]domain.Report, 0, len(d.snapshotEnvironments))

	for _, env := range d.snapshotEnvironments {
		if ctx.Err() != nil {
			break
		}

		status, err := d.collector.Collect(ctx, env, domain.Credentials{})
		if err != nil {
			d.logger.Error("Scheduled collection failed", "environment", env, "error", err)
			continue
		}

		r, err := d.archiver.Save(ctx, status, status.Environment)
		if err != nil {
			d.logger.Error("Scheduled report could not be archived", "environment", env, "error", err)
			continue
		}

		d.logger.Info("Archived scheduled report", "environment", r.Environment, "id", r.ID)
		reports = append(reports, r)
	}

	return reports
}
