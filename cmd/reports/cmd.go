package reports

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
		Use:   "reports",
		Short: "Browses archived fleet reports",
		Long: "Browses the reports archived by 'fleetwatch status --save-report' or by the daemon's snapshot schedule, " +
			"dealing with listing and showing reports",
	}

	// Sub-commands for: fleetwatch reports
	fns := []func(baseCmd *cmd.BaseCmd, opt ...options.CmdOption) (*cobra.Command, error){
		NewListCmd, // list
		NewGetCmd,  // get
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
