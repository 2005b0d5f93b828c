package credentials

import (
	"github.com/spf13/cobra"

	"github.com/fleetwatch/fleetwatch/internal/cmd"
	"github.com/fleetwatch/fleetwatch/internal/cmd/options"
	"github.com/fleetwatch/fleetwatch/internal/flags"
)

type Cmd struct {
	*cmd.BaseCmd
}

func NewCmd(baseCmd *cmd.BaseCmd, opt ...options.CmdOption) (*cobra.Command, error) {
	cobraCmd := &cobra.Command{
		Use:   "credentials",
		Short: "Manages the default management credentials of each environment",
		Long: "Manages the default management credentials of each environment, stored in a secrets file " +
			"readable only by the current user (" + flags.DefaultSecretsFile + " in the user configuration directory).\n\n" +
			"Credentials given to a single scan take precedence over stored ones, which in turn take precedence over " +
			"the FLEETWATCH_MGMT_USERNAME and FLEETWATCH_MGMT_PASSWORD environment variables.",
	}

	// Sub-commands for: fleetwatch credentials
	fns := []func(baseCmd *cmd.BaseCmd, opt ...options.CmdOption) (*cobra.Command, error){
		NewSetCmd,    // set
		NewRemoveCmd, // remove
		NewListCmd,   // list
	}

	for _, fn := range fns {
		tempCmd, err := fn(baseCmd, opt...)
		if err != nil {
			return nil, err
		}
		cobraCmd.AddCommand(tempCmd)
	}

	return cobraCmd, nil
}
