package hosts

import (
	"github.com/spf13/cobra"

	"github.com/fleetwatch/fleetwatch/internal/cmd"
	"github.com/fleetwatch/fleetwatch/internal/cmd/options"
)

type Cmd struct {
	*cmd.BaseCmd
}

func NewCmd(baseCmd *cmd.BaseCmd, opt ...options.CmdOption) (*cobra.Command, error) {
	cobraCmd := &cobra.Command{
		Use:   "hosts",
		Short: "Shows the hosts and instances of the configuration",
		Long:  "Shows the hosts and instances declared per environment in the configuration file, without probing them",
	}

	// Sub-commands for: fleetwatch hosts
	fns := []func(baseCmd *cmd.BaseCmd, opt ...options.CmdOption) (*cobra.Command, error){
		NewListCmd, // list
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
