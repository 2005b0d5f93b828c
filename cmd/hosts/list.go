package hosts

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	internalcmd "github.com/fleetwatch/fleetwatch/internal/cmd"
	cmdopts "github.com/fleetwatch/fleetwatch/internal/cmd/options"
	"github.com/fleetwatch/fleetwatch/internal/cmd/output"
	"github.com/fleetwatch/fleetwatch/internal/config"
	configcontext "github.com/fleetwatch/fleetwatch/internal/context"
	"github.com/fleetwatch/fleetwatch/internal/printer"
)

type ListCmd struct {
	*internalcmd.BaseCmd
	Environment string
	Format      internalcmd.OutputFormat

	cfgLoader   config.Loader
	ctxLoader   configcontext.Loader
	builder     internalcmd.ComponentBuilder
	hostPrinter output.Printer[printer.HostResult]
}

func NewListCmd(baseCmd *internalcmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	opts, err := cmdopts.NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	c := &ListCmd{
		BaseCmd:     baseCmd,
		Format:      internalcmd.FormatText,
		cfgLoader:   opts.ConfigLoader,
		ctxLoader:   opts.ContextLoader,
		builder:     opts.ComponentBuilder,
		hostPrinter: &printer.HostPrinter{},
	}

	cobraCmd := &cobra.Command{
		Use:   "list",
		Short: "Lists the configured hosts and their instances",
		Long:  "Lists the configured hosts and their instances, for one environment or every environment in configuration order",
		Args:  cobra.NoArgs,
		RunE:  c.run,
	}

	cobraCmd.Flags().StringVar(
		&c.Environment,
		"environment",
		"",
		"Only list hosts of this environment",
	)

	allowed := internalcmd.AllowedOutputFormats()
	cobraCmd.Flags().Var(
		&c.Format,
		"format",
		fmt.Sprintf("Specify the output format (one of: %s)", allowed.String()),
	)

	return cobraCmd, nil
}

func (c *ListCmd) run(cmd *cobra.Command, _ []string) error {
	handler, err := internalcmd.FormatHandler(cmd.OutOrStdout(), c.Format, c.hostPrinter)
	if err != nil {
		return err
	}

	components, err := c.BuildComponents(c.cfgLoader, c.ctxLoader, c.builder)
	if err != nil {
		return handler.HandleError(err)
	}

	environments := components.Registry.Environments()
	if env := strings.TrimSpace(c.Environment); env != "" {
		environments = []string{env}
	}

	results := make([]printer.HostResult, 0)
	for _, env := range environments {
		hosts, err := components.Registry.ListHosts(cmd.Context(), env)
		if err != nil {
			return handler.HandleError(err)
		}
		for _, h := range hosts {
			results = append(results, printer.NewHostResult(env, h))
		}
	}

	return handler.HandleResults(results...)
}
