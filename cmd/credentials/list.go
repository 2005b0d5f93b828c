package credentials

import (
	"fmt"

	"github.com/spf13/cobra"

	internalcmd "github.com/fleetwatch/fleetwatch/internal/cmd"
	cmdopts "github.com/fleetwatch/fleetwatch/internal/cmd/options"
	"github.com/fleetwatch/fleetwatch/internal/cmd/output"
	"github.com/fleetwatch/fleetwatch/internal/context"
	"github.com/fleetwatch/fleetwatch/internal/domain"
	"github.com/fleetwatch/fleetwatch/internal/printer"
)

type listCmd struct {
	*internalcmd.BaseCmd
	Format internalcmd.OutputFormat

	ctxLoader          context.Loader
	credentialsPrinter output.Printer[printer.CredentialsResult]
}

// NewListCmd creates a command that lists the environments with stored credentials, never revealing passwords.
func NewListCmd(baseCmd *internalcmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	opts, err := cmdopts.NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	c := &listCmd{
		BaseCmd:            baseCmd,
		Format:             internalcmd.FormatText,
		ctxLoader:          opts.ContextLoader,
		credentialsPrinter: &printer.CredentialsPrinter{},
	}

	cobraCmd := &cobra.Command{
		Use:   "list",
		Short: "Lists the environments with stored credentials",
		Long:  "Lists the environments with stored management credentials. Passwords are never printed.",
		Args:  cobra.NoArgs,
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

func (c *listCmd) run(cmd *cobra.Command, _ []string) error {
	handler, err := internalcmd.FormatHandler(cmd.OutOrStdout(), c.Format, c.credentialsPrinter)
	if err != nil {
		return err
	}

	secrets, err := c.LoadSecrets(c.ctxLoader)
	if err != nil {
		return handler.HandleError(fmt.Errorf("failed to load secrets: %w", err))
	}

	environments := secrets.List()
	results := make([]printer.CredentialsResult, 0, len(environments))
	for _, env := range environments {
		creds, _ := secrets.Get(env)
		results = append(results, newCredentialsResult(env, creds))
	}

	return handler.HandleResults(results...)
}

func newCredentialsResult(environment string, creds domain.Credentials) printer.CredentialsResult {
	return printer.CredentialsResult{
		Environment: environment,
		Username:    creds.Username,
		PasswordSet: creds.Password != "",
	}
}
