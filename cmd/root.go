package cmd

import (
	"github.com/spf13/cobra"

	"github.com/fleetwatch/fleetwatch/cmd/credentials"
	"github.com/fleetwatch/fleetwatch/cmd/hosts"
	"github.com/fleetwatch/fleetwatch/cmd/reports"
	"github.com/fleetwatch/fleetwatch/internal/cmd"
	cmdopts "github.com/fleetwatch/fleetwatch/internal/cmd/options"
	"github.com/fleetwatch/fleetwatch/internal/flags"
)

type RootCmd struct {
	*cmd.BaseCmd
}

// Execute runs the fleetwatch CLI.
func Execute() error {
	rootCmd, err := NewRootCmd(&RootCmd{BaseCmd: &cmd.BaseCmd{}})
	if err != nil {
		return err
	}

	return rootCmd.Execute()
}

// NewRootCmd creates the root command with every sub-command registered.
func NewRootCmd(c *RootCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	rootCmd := &cobra.Command{
		Use:          "fleetwatch <command> [sub-command] [args]",
		Short:        "Monitors a fleet of application server instances through their management endpoints.",
		Long:         c.longDescription(),
		SilenceUsage: true,
		Version:      cmd.Version(),
	}

	if err := flags.InitFlags(rootCmd.PersistentFlags()); err != nil {
		return nil, err
	}

	fns := []func(baseCmd *cmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error){
		NewInitCmd,         // init
		NewDaemonCmd,       // daemon
		NewStatusCmd,       // status
		credentials.NewCmd, // credentials
		hosts.NewCmd,       // hosts
		reports.NewCmd,     // reports
	}

	for _, fn := range fns {
		tempCmd, err := fn(c.BaseCmd, opt...)
		if err != nil {
			return nil, err
		}
		rootCmd.AddCommand(tempCmd)
	}

	return rootCmd, nil
}

func (c *RootCmd) longDescription() string {
	return `The 'fleetwatch' CLI collects the status of every configured application server instance,
including its data sources and deployments, archives point-in-time reports and serves both
through an HTTP API when running as a daemon.`
}
