package credentials

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fleetwatch/fleetwatch/internal/cmd"
	cmdopts "github.com/fleetwatch/fleetwatch/internal/cmd/options"
	"github.com/fleetwatch/fleetwatch/internal/context"
	"github.com/fleetwatch/fleetwatch/internal/domain"
)

type removeCmd struct {
	*cmd.BaseCmd
	ctxLoader context.Loader
}

// NewRemoveCmd creates a command that deletes the stored credentials of an environment.
func NewRemoveCmd(baseCmd *cmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	opts, err := cmdopts.NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	c := &removeCmd{
		BaseCmd:   baseCmd,
		ctxLoader: opts.ContextLoader,
	}

	cobraCmd := &cobra.Command{
		Use:   "remove <environment>",
		Short: "Removes the stored management credentials of an environment",
		Long: "Removes the stored management credentials of an environment. " +
			"The environment does not need to be configured, so stale entries can be cleaned up.",
		Args: cobra.ExactArgs(1),
		RunE: c.run,
	}

	return cobraCmd, nil
}

func (c *removeCmd) run(cmd *cobra.Command, args []string) error {
	environment := strings.TrimSpace(args[0])
	if environment == "" {
		return fmt.Errorf("environment is required")
	}

	secrets, err := c.LoadSecrets(c.ctxLoader)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	res, err := secrets.Upsert(environment, domain.Credentials{})
	if err != nil {
		return fmt.Errorf("error removing credentials for environment '%s': %w", environment, err)
	}
	if res == context.Noop {
		return fmt.Errorf("no credentials stored for environment '%s'", environment)
	}

	if _, err := fmt.Fprintf(
		cmd.OutOrStdout(),
		"✓ Credentials removed for environment '%s'\n", environment,
	); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	return nil
}
