package reports

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/fleetwatch/fleetwatch/internal/api"
	internalcmd "github.com/fleetwatch/fleetwatch/internal/cmd"
	cmdopts "github.com/fleetwatch/fleetwatch/internal/cmd/options"
	"github.com/fleetwatch/fleetwatch/internal/cmd/output"
	"github.com/fleetwatch/fleetwatch/internal/config"
	configcontext "github.com/fleetwatch/fleetwatch/internal/context"
	"github.com/fleetwatch/fleetwatch/internal/printer"
)

type GetCmd struct {
	*internalcmd.BaseCmd
	Format internalcmd.OutputFormat

	cfgLoader     config.Loader
	ctxLoader     configcontext.Loader
	builder       internalcmd.ComponentBuilder
	reportPrinter output.Printer[api.Report]
}

func NewGetCmd(baseCmd *internalcmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	opts, err := cmdopts.NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	c := &GetCmd{
		BaseCmd:       baseCmd,
		Format:        internalcmd.FormatText,
		cfgLoader:     opts.ConfigLoader,
		ctxLoader:     opts.ContextLoader,
		builder:       opts.ComponentBuilder,
		reportPrinter: &printer.ReportPrinter{},
	}

	cobraCmd := &cobra.Command{
		Use:   "get <report-id>",
		Short: "Shows an archived report",
		Long:  "Shows an archived report along with the full fleet snapshot it froze",
		Args:  cobra.ExactArgs(1),
		RunE:  c.run,
	}

	allowed := internalcmd.AllowedOutputFormats()
	cobraCmd.Flags().Var(
		&c.Format,
		"format",
		fmt.Sprintf("Specify the output format (one of: %s)", allowed.String()),
	)

	return cobraCmd, nil
}

func (c *GetCmd) run(cmd *cobra.Command, args []string) error {
	handler, err := internalcmd.FormatHandler(cmd.OutOrStdout(), c.Format, c.reportPrinter)
	if err != nil {
		return err
	}

	id := strings.TrimSpace(args[0])
	if _, err := uuid.Parse(id); err != nil {
		return handler.HandleError(fmt.Errorf("invalid report id '%s'", id))
	}

	components, err := c.BuildComponents(c.cfgLoader, c.ctxLoader, c.builder)
	if err != nil {
		return handler.HandleError(err)
	}

	r, err := components.Archiver.Get(cmd.Context(), id)
	if err != nil {
		return handler.HandleError(err)
	}

	data, err := api.DomainReport(r).ToAPIType()
	if err != nil {
		return handler.HandleError(err)
	}

	return handler.HandleResult(data)
}
