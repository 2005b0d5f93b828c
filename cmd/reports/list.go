package reports

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fleetwatch/fleetwatch/internal/api"
	internalcmd "github.com/fleetwatch/fleetwatch/internal/cmd"
	cmdopts "github.com/fleetwatch/fleetwatch/internal/cmd/options"
	"github.com/fleetwatch/fleetwatch/internal/cmd/output"
	"github.com/fleetwatch/fleetwatch/internal/config"
	configcontext "github.com/fleetwatch/fleetwatch/internal/context"
	"github.com/fleetwatch/fleetwatch/internal/printer"
	"github.com/fleetwatch/fleetwatch/internal/report"
)

type ListCmd struct {
	*internalcmd.BaseCmd
	Limit       int
	Environment string
	Format      internalcmd.OutputFormat

	cfgLoader      config.Loader
	ctxLoader      configcontext.Loader
	builder        internalcmd.ComponentBuilder
	summaryPrinter output.Printer[api.ReportSummary]
}

func NewListCmd(baseCmd *internalcmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	opts, err := cmdopts.NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	c := &ListCmd{
		BaseCmd:        baseCmd,
		Format:         internalcmd.FormatText,
		cfgLoader:      opts.ConfigLoader,
		ctxLoader:      opts.ContextLoader,
		builder:        opts.ComponentBuilder,
		summaryPrinter: printer.NewReportSummaryPrinter(),
	}

	cobraCmd := &cobra.Command{
		Use:   "list",
		Short: "Lists archived reports, most recent first",
		Long:  "Lists the summaries of archived reports, most recent first, optionally restricted to one environment",
		Args:  cobra.NoArgs,
		RunE:  c.run,
	}

	cobraCmd.Flags().IntVar(
		&c.Limit,
		"limit",
		report.DefaultListLimit,
		fmt.Sprintf("Maximum number of reports to list (1-%d)", report.MaxListLimit),
	)

	cobraCmd.Flags().StringVar(
		&c.Environment,
		"environment",
		"",
		"Only list reports of this environment",
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
	handler, err := internalcmd.FormatHandler(cmd.OutOrStdout(), c.Format, c.summaryPrinter)
	if err != nil {
		return err
	}

	if c.Limit < 1 || c.Limit > report.MaxListLimit {
		return handler.HandleError(fmt.Errorf("limit must be between 1 and %d, got %d", report.MaxListLimit, c.Limit))
	}

	components, err := c.BuildComponents(c.cfgLoader, c.ctxLoader, c.builder)
	if err != nil {
		return handler.HandleError(err)
	}

	summaries, err := components.Archiver.List(cmd.Context(), c.Limit, strings.TrimSpace(c.Environment))
	if err != nil {
		return handler.HandleError(err)
	}

	results := make([]api.ReportSummary, 0, len(summaries))
	for _, s := range summaries {
		results = append(results, api.DomainReportSummary(s).ToAPIType())
	}

	return handler.HandleResults(results...)
}
