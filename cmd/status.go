package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fleetwatch/fleetwatch/internal/api"
	internalcmd "github.com/fleetwatch/fleetwatch/internal/cmd"
	cmdopts "github.com/fleetwatch/fleetwatch/internal/cmd/options"
	"github.com/fleetwatch/fleetwatch/internal/cmd/output"
	"github.com/fleetwatch/fleetwatch/internal/collector"
	"github.com/fleetwatch/fleetwatch/internal/config"
	configcontext "github.com/fleetwatch/fleetwatch/internal/context"
	"github.com/fleetwatch/fleetwatch/internal/domain"
	"github.com/fleetwatch/fleetwatch/internal/printer"
)

const (
	flagEnvironment = "environment"
	flagInstance    = "instance"
	flagSaveReport  = "save-report"
	flagUsername    = "username"
	flagPassword    = "password"
	flagFormat      = "format"
	flagFilter      = "filter"
)

// StatusCmd collects the status of an environment, or of a single instance.
type StatusCmd struct {
	*internalcmd.BaseCmd
	Environment string
	InstanceID  int
	SaveReport  bool
	Username    string
	Password    string
	Format      internalcmd.OutputFormat
	Filters     map[string]string

	cfgLoader       config.Loader
	ctxLoader       configcontext.Loader
	builder         internalcmd.ComponentBuilder
	fleetPrinter    output.Printer[api.FleetStatusBody]
	instancePrinter output.Printer[api.InstanceStatusBody]
}

func NewStatusCmd(baseCmd *internalcmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	opts, err := cmdopts.NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	c := &StatusCmd{
		BaseCmd:         baseCmd,
		Format:          internalcmd.FormatText,
		cfgLoader:       opts.ConfigLoader,
		ctxLoader:       opts.ContextLoader,
		builder:         opts.ComponentBuilder,
		fleetPrinter:    &printer.FleetStatusPrinter{},
		instancePrinter: &printer.InstanceStatusPrinter{},
	}

	cobraCmd := &cobra.Command{
		Use:   "status",
		Short: "Collects the status of every instance of an environment",
		Long: "Probes every configured instance of an environment for its server state, data sources and deployments.\n\n" +
			"Instances that cannot be reached are reported as down or unknown, they never abort the scan.",
		Example: `  # Status of the default environment
  fleetwatch status

  # Status of a single instance
  fleetwatch status --environment production --instance 3

  # Archive the collected status
  fleetwatch status --environment production --save-report

  # Only show instances that are not healthy
  fleetwatch status --filter healthy=false

  # Only show running instances of app01 that deploy billing
  fleetwatch status --filter state=running,hostname=app01 --filter deployment=billing`,
		Args: cobra.NoArgs,
		RunE: c.run,
	}

	cobraCmd.Flags().StringVar(
		&c.Environment,
		flagEnvironment,
		"",
		"Environment to scan, defaults to the configured default environment",
	)

	cobraCmd.Flags().IntVar(
		&c.InstanceID,
		flagInstance,
		0,
		"Probe only the instance with this id",
	)

	cobraCmd.Flags().BoolVar(
		&c.SaveReport,
		flagSaveReport,
		false,
		"Archive the collected status as a report",
	)

	cobraCmd.Flags().StringVar(
		&c.Username,
		flagUsername,
		"",
		"Management username for this scan only",
	)

	cobraCmd.Flags().StringVar(
		&c.Password,
		flagPassword,
		"",
		"Management password for this scan only",
	)

	cobraCmd.Flags().StringToStringVar(
		&c.Filters,
		flagFilter,
		nil,
		"Only show instances matching key=value (keys: state, hostname, name, deployment, healthy). "+
			"Saved reports always hold every instance",
	)

	allowed := internalcmd.AllowedOutputFormats()
	cobraCmd.Flags().Var(
		&c.Format,
		flagFormat,
		fmt.Sprintf("Specify the output format (one of: %s)", allowed.String()),
	)

	cobraCmd.MarkFlagsMutuallyExclusive(flagInstance, flagSaveReport)
	cobraCmd.MarkFlagsMutuallyExclusive(flagInstance, flagFilter)

	return cobraCmd, nil
}

func (c *StatusCmd) run(cmd *cobra.Command, _ []string) error {
	if cmd.Flags().Changed(flagInstance) {
		return c.runInstance(cmd)
	}

	handler, err := internalcmd.FormatHandler(cmd.OutOrStdout(), c.Format, c.fleetPrinter)
	if err != nil {
		return err
	}

	if err := collector.ValidateFilters(c.Filters); err != nil {
		return handler.HandleError(err)
	}

	components, err := c.BuildComponents(c.cfgLoader, c.ctxLoader, c.builder)
	if err != nil {
		return handler.HandleError(err)
	}

	status, err := components.Collector.Collect(cmd.Context(), c.environment(), c.credentials())
	if err != nil {
		return handler.HandleError(err)
	}

	var saved *domain.Report
	if c.SaveReport {
		r, err := components.Archiver.Save(cmd.Context(), status, status.Environment)
		if err != nil {
			return handler.HandleError(err)
		}
		saved = &r
	}

	shown, err := collector.FilterFleet(status, c.Filters)
	if err != nil {
		return handler.HandleError(err)
	}

	body, err := api.NewFleetStatusBody(shown, saved)
	if err != nil {
		return handler.HandleError(err)
	}

	return handler.HandleResult(body)
}

func (c *StatusCmd) runInstance(cmd *cobra.Command) error {
	handler, err := internalcmd.FormatHandler(cmd.OutOrStdout(), c.Format, c.instancePrinter)
	if err != nil {
		return err
	}

	if c.InstanceID < 1 {
		return handler.HandleError(fmt.Errorf("instance id must be at least 1, got %d", c.InstanceID))
	}

	components, err := c.BuildComponents(c.cfgLoader, c.ctxLoader, c.builder)
	if err != nil {
		return handler.HandleError(err)
	}

	host, status, err := components.Collector.CollectInstance(cmd.Context(), c.environment(), c.InstanceID, c.credentials())
	if err != nil {
		return handler.HandleError(err)
	}

	body, err := api.NewInstanceStatusBody(host, status)
	if err != nil {
		return handler.HandleError(err)
	}

	return handler.HandleResult(body)
}

func (c *StatusCmd) environment() string {
	return strings.TrimSpace(c.Environment)
}

func (c *StatusCmd) credentials() domain.Credentials {
	return domain.Credentials{Username: strings.TrimSpace(c.Username), Password: c.Password}
}
