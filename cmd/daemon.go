package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/fleetwatch/fleetwatch/internal/cmd"
	cmdopts "github.com/fleetwatch/fleetwatch/internal/cmd/options"
	"github.com/fleetwatch/fleetwatch/internal/config"
	configcontext "github.com/fleetwatch/fleetwatch/internal/context"
	"github.com/fleetwatch/fleetwatch/internal/daemon"
	"github.com/fleetwatch/fleetwatch/internal/flags"
)

const (
	flagDev                 = "dev"
	flagAddr                = "addr"
	flagCORSEnable          = "cors-enable"
	flagCORSOrigin          = "cors-allow-origin"
	flagTimeoutAPIShutdown  = "timeout-api-shutdown"
	flagSnapshotInterval    = "snapshot-interval"
	flagSnapshotEnvironment = "snapshot-environment"

	defaultAddr    = "0.0.0.0:8090"
	defaultDevAddr = "localhost:8090"
)

// DaemonCmd should be used to represent the 'daemon' command.
type DaemonCmd struct {
	*cmd.BaseCmd
	Dev                  bool
	Addr                 string
	CORSEnable           bool
	CORSOrigins          []string
	ShutdownTimeout      string
	SnapshotInterval     string
	SnapshotEnvironments []string

	cfgLoader config.Loader
	ctxLoader configcontext.Loader
	builder   cmd.ComponentBuilder
}

// NewDaemonCmd creates a newly configured (Cobra) command.
func NewDaemonCmd(baseCmd *cmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	opts, err := cmdopts.NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	c := &DaemonCmd{
		BaseCmd:   baseCmd,
		cfgLoader: opts.ConfigLoader,
		ctxLoader: opts.ContextLoader,
		builder:   opts.ComponentBuilder,
	}

	return c.command(), nil
}

// command builds the Cobra command bound to the fields of c.
func (c *DaemonCmd) command() *cobra.Command {
	cobraCommand := &cobra.Command{
		Use:   "daemon [--dev] [--addr]",
		Short: "Launches a fleetwatch daemon instance",
		Long: "Launches a fleetwatch daemon instance, which serves fleet status and archived reports " +
			"over an HTTP API and optionally archives reports on a schedule.\n\n" +
			"Flags take precedence over the [daemon] section of the configuration file.",
		Args: cobra.NoArgs,
		RunE: c.run,
	}

	cobraCommand.Flags().BoolVar(
		&c.Dev,
		flagDev,
		false,
		"Run the daemon in development-focused mode, bound to "+defaultDevAddr,
	)

	cobraCommand.Flags().StringVar(
		&c.Addr,
		flagAddr,
		defaultAddr,
		"Address for the daemon to bind (not applicable in --dev mode)",
	)

	cobraCommand.MarkFlagsMutuallyExclusive(flagDev, flagAddr)

	cobraCommand.Flags().BoolVar(
		&c.CORSEnable,
		flagCORSEnable,
		false,
		"Enable CORS for the API",
	)

	cobraCommand.Flags().StringArrayVar(
		&c.CORSOrigins,
		flagCORSOrigin,
		nil,
		"Origin allowed to call the API (can be repeated)",
	)

	cobraCommand.Flags().StringVar(
		&c.ShutdownTimeout,
		flagTimeoutAPIShutdown,
		"",
		fmt.Sprintf("Graceful API shutdown timeout (default %s)", daemon.DefaultAPIShutdownTimeout()),
	)

	cobraCommand.Flags().StringVar(
		&c.SnapshotInterval,
		flagSnapshotInterval,
		"",
		fmt.Sprintf("Archive a report of each snapshot environment at this interval (at least %s)", daemon.MinSnapshotInterval()),
	)

	cobraCommand.Flags().StringArrayVar(
		&c.SnapshotEnvironments,
		flagSnapshotEnvironment,
		nil,
		"Environment archived on schedule (can be repeated, defaults to the default environment)",
	)

	return cobraCommand
}

// run is configured (via NewDaemonCmd) to be called by the Cobra framework when the command is executed.
func (c *DaemonCmd) run(cmd *cobra.Command, _ []string) error {
	logger, err := c.LoggerTo(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	cfg, err := c.LoadConfig(config.NewValidatingLoader(c.cfgLoader, config.RequireEnvironments, config.RequireHosts))
	if err != nil {
		return err
	}

	addr := c.addr(cmd, cfg)
	if c.Dev {
		logger.Info("Development-focused mode", "addr", addr, "override", defaultDevAddr)
		addr = defaultDevAddr
	}

	daemonOpts, err := c.daemonOptions(cmd, cfg)
	if err != nil {
		return err
	}

	secrets, err := c.LoadSecrets(c.ctxLoader)
	if err != nil {
		return err
	}

	components, err := c.builder.Build(logger, cfg, secrets)
	if err != nil {
		return fmt.Errorf("error configuring fleetwatch components: %w", err)
	}

	deps, err := daemon.NewDependencies(logger, addr, components.Registry, components.Collector, components.Archiver)
	if err != nil {
		return fmt.Errorf("error configuring fleetwatch daemon: %w", err)
	}

	d, err := daemon.NewDaemon(deps, daemonOpts...)
	if err != nil {
		return fmt.Errorf("failed to create fleetwatch daemon instance: %w", err)
	}

	// Create the signal handling context for the application.
	daemonCtx, daemonCtxCancel := signal.NotifyContext(
		cmd.Context(),
		os.Interrupt,
		syscall.SIGTERM, syscall.SIGINT,
	)
	defer daemonCtxCancel()

	runErr := make(chan error, 1)
	go func() {
		if err := d.StartAndManage(daemonCtx); err != nil && !errors.Is(err, context.Canceled) {
			runErr <- err
		}
		close(runErr)
	}()

	if c.Dev {
		_, _ = fmt.Fprint(cmd.OutOrStdout(), c.devBanner(addr))
	}

	select {
	case <-daemonCtx.Done():
		logger.Info("Shutting down daemon")
		return <-runErr // Wait for cleanup.
	case err := <-runErr:
		if err != nil {
			logger.Error("daemon exited with error", "error", err)
		}
		return err
	}
}

// addr returns the bind address: the flag when set, then the configuration, then the default.
func (c *DaemonCmd) addr(cmd *cobra.Command, cfg *config.Config) string {
	if cmd.Flags().Changed(flagAddr) {
		return strings.TrimSpace(c.Addr)
	}
	if cfg.Daemon != nil && cfg.Daemon.API != nil && cfg.Daemon.API.Addr != nil {
		return strings.TrimSpace(*cfg.Daemon.API.Addr)
	}
	return strings.TrimSpace(c.Addr)
}

// daemonOptions merges the daemon configuration with the flags, flags applied last.
func (c *DaemonCmd) daemonOptions(cmd *cobra.Command, cfg *config.Config) ([]daemon.Option, error) {
	var apiCfg *config.APIConfigSection
	var snapshotCfg *config.SnapshotConfigSection
	if cfg.Daemon != nil {
		apiCfg = cfg.Daemon.API
		snapshotCfg = cfg.Daemon.Snapshot
	}

	apiOpts := daemon.APIOptionsFromConfig(apiCfg)

	if cmd.Flags().Changed(flagCORSEnable) {
		apiOpts = append(apiOpts, daemon.WithCORSEnabled(c.CORSEnable))
	}
	if cmd.Flags().Changed(flagCORSOrigin) {
		apiOpts = append(apiOpts, daemon.WithCORSAllowOrigins(c.CORSOrigins))
	}
	if cmd.Flags().Changed(flagTimeoutAPIShutdown) {
		d, err := time.ParseDuration(c.ShutdownTimeout)
		if err != nil {
			return nil, fmt.Errorf("invalid --%s duration: %w", flagTimeoutAPIShutdown, err)
		}
		apiOpts = append(apiOpts, daemon.WithShutdownTimeout(d))
	}

	opts := []daemon.Option{daemon.WithAPIOptions(apiOpts...)}

	interval := snapshotCfg.IntervalOrDefault(0)
	if cmd.Flags().Changed(flagSnapshotInterval) {
		d, err := time.ParseDuration(c.SnapshotInterval)
		if err != nil {
			return nil, fmt.Errorf("invalid --%s duration: %w", flagSnapshotInterval, err)
		}
		interval = d
	}
	if interval > 0 {
		opts = append(opts, daemon.WithSnapshotInterval(interval))
	}

	envs := c.SnapshotEnvironments
	if !cmd.Flags().Changed(flagSnapshotEnvironment) && snapshotCfg != nil {
		envs = snapshotCfg.Environments
	}
	if len(envs) > 0 {
		opts = append(opts, daemon.WithSnapshotEnvironments(envs...))
	}

	return opts, nil
}

func (c *DaemonCmd) devBanner(addr string) string {
	banner := fmt.Sprintf("fleetwatch daemon running in 'dev' mode.\n\n"+
		"  Local API:\thttp://%s/api/v1\n"+
		"  OpenAPI UI:\thttp://%s/docs\n"+
		"  Config file:\t%s\n"+
		"  Secrets file:\t%s\n",
		addr, addr, flags.ConfigFile, flags.SecretsFile)

	if flags.LogPath != "" {
		banner += fmt.Sprintf("  Log file:\t%s => (%s)\n", flags.LogPath, flags.LogLevel)
	}

	banner += "\nPress Ctrl+C to stop.\n\n"

	return banner
}
