package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"

	"github.com/hashicorp/go-hclog"

	"github.com/fleetwatch/fleetwatch/internal/collector"
	"github.com/fleetwatch/fleetwatch/internal/config"
	configcontext "github.com/fleetwatch/fleetwatch/internal/context"
	"github.com/fleetwatch/fleetwatch/internal/contracts"
	"github.com/fleetwatch/fleetwatch/internal/endpoint"
	"github.com/fleetwatch/fleetwatch/internal/files"
	"github.com/fleetwatch/fleetwatch/internal/probe"
	"github.com/fleetwatch/fleetwatch/internal/registry"
	"github.com/fleetwatch/fleetwatch/internal/report"
)

// reportsDirName is the directory inside the user data directory holding archived reports.
const reportsDirName = "reports"

var _ ComponentBuilder = (*DefaultComponentBuilder)(nil)

// Components are the collection engine shared by the CLI commands and the daemon.
type Components struct {
	Registry  contracts.HostRegistry
	Collector contracts.FleetCollector
	Archiver  contracts.ReportArchiver
}

// ComponentBuilder wires Components from the loaded configuration and the stored credentials.
type ComponentBuilder interface {
	Build(logger hclog.Logger, cfg *config.Config, secrets configcontext.Getter) (*Components, error)
}

// DefaultComponentBuilder builds the registry, collector and file backed report archiver described by cfg.
type DefaultComponentBuilder struct{}

// Build wires the components. secrets may be nil, in which case only the global credential fallback applies.
func (b *DefaultComponentBuilder) Build(
	logger hclog.Logger,
	cfg *config.Config,
	secrets configcontext.Getter,
) (*Components, error) {
	if logger == nil || reflect.ValueOf(logger).IsNil() {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	reg, err := registry.NewRegistry(logger, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create host registry: %w", err)
	}

	client, err := endpoint.New(
		logger,
		cfg.Probe.ClientOrDefault(endpoint.ClientTypeHTTP),
		cfg.Probe.EndpointOptions()...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create endpoint client: %w", err)
	}

	prober, err := probe.NewProber(logger, client)
	if err != nil {
		return nil, fmt.Errorf("failed to create prober: %w", err)
	}

	coll, err := collector.NewCollector(
		logger,
		reg,
		prober,
		collector.WithConcurrency(cfg.Probe.ConcurrencyOrDefault(collector.DefaultConcurrency())),
		collector.WithScanTimeout(cfg.Probe.ScanTimeoutOrDefault(collector.DefaultScanTimeout())),
		collector.WithCredentialSource(configcontext.NewSource(secrets, nil)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create fleet collector: %w", err)
	}

	dir, err := ReportsDir(cfg)
	if err != nil {
		return nil, err
	}

	store, err := report.NewFileStore(logger, dir)
	if err != nil {
		return nil, err
	}

	archiver, err := report.NewArchiver(logger, store)
	if err != nil {
		return nil, fmt.Errorf("failed to create report archiver: %w", err)
	}

	logger.Debug(
		"Components ready",
		"environments", reg.Environments(),
		"client", cfg.Probe.ClientOrDefault(endpoint.ClientTypeHTTP),
		"reports", dir,
	)

	return &Components{
		Registry:  reg,
		Collector: coll,
		Archiver:  archiver,
	}, nil
}

// BuildComponents loads the configuration and the stored credentials named by the global flags,
// then wires the components with builder.
func (c *BaseCmd) BuildComponents(
	cfgLoader config.Loader,
	ctxLoader configcontext.Loader,
	builder ComponentBuilder,
) (*Components, error) {
	logger, err := c.Logger()
	if err != nil {
		return nil, err
	}

	if cfgLoader == nil || reflect.ValueOf(cfgLoader).IsNil() {
		return nil, fmt.Errorf("config loader cannot be nil")
	}

	cfg, err := c.LoadConfig(config.NewValidatingLoader(cfgLoader, config.RequireEnvironments))
	if err != nil {
		return nil, err
	}

	secrets, err := c.LoadSecrets(ctxLoader)
	if err != nil {
		return nil, err
	}

	if builder == nil || reflect.ValueOf(builder).IsNil() {
		return nil, fmt.Errorf("component builder cannot be nil")
	}

	return builder.Build(logger, cfg, secrets)
}

// ReportsDir returns the configured report directory, defaulting to a directory inside the user data directory.
func ReportsDir(cfg *config.Config) (string, error) {
	var configured *config.ReportsConfig
	if cfg != nil {
		configured = cfg.Reports
	}

	// Only needed to expand '~/' in a configured directory.
	home, _ := os.UserHomeDir()

	if dir := configured.DirOrDefault("", home); dir != "" {
		return dir, nil
	}

	dataDir, err := files.UserSpecificDataDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve report directory: %w", err)
	}

	return filepath.Join(dataDir, reportsDirName), nil
}
