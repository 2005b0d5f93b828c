package credentials

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fleetwatch/fleetwatch/internal/cmd"
	cmdopts "github.com/fleetwatch/fleetwatch/internal/cmd/options"
	"github.com/fleetwatch/fleetwatch/internal/config"
	"github.com/fleetwatch/fleetwatch/internal/context"
	"github.com/fleetwatch/fleetwatch/internal/domain"
)

const (
	flagUsername      = "username"
	flagPassword      = "password"
	flagPasswordStdin = "password-stdin"
)

type setCmd struct {
	*cmd.BaseCmd
	Username      string
	Password      string
	PasswordStdin bool

	cfgLoader config.Loader
	ctxLoader context.Loader
}

// NewSetCmd creates a command that stores the management credentials of an environment.
func NewSetCmd(baseCmd *cmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	opts, err := cmdopts.NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	c := &setCmd{
		BaseCmd:   baseCmd,
		cfgLoader: opts.ConfigLoader,
		ctxLoader: opts.ContextLoader,
	}

	cobraCmd := &cobra.Command{
		Use:   "set <environment>",
		Short: "Stores the management credentials of an environment",
		Long: "Stores the management credentials used to probe every instance of a configured environment.\n\n" +
			"A field that is not provided keeps its stored value.",
		Example: `  # Store both fields
  fleetwatch credentials set production --username admin --password 's3cret'

  # Read the password from stdin
  printf '%s' "$PASSWORD" | fleetwatch credentials set production --username admin --password-stdin`,
		Args: cobra.ExactArgs(1),
		RunE: c.run,
	}

	cobraCmd.Flags().StringVar(&c.Username, flagUsername, "", "Management username")
	cobraCmd.Flags().StringVar(&c.Password, flagPassword, "", "Management password")
	cobraCmd.Flags().BoolVar(&c.PasswordStdin, flagPasswordStdin, false, "Read the management password from stdin")

	cobraCmd.MarkFlagsMutuallyExclusive(flagPassword, flagPasswordStdin)
	cobraCmd.MarkFlagsOneRequired(flagUsername, flagPassword, flagPasswordStdin)

	return cobraCmd, nil
}

func (c *setCmd) run(cmd *cobra.Command, args []string) error {
	environment := strings.TrimSpace(args[0])
	if environment == "" {
		return fmt.Errorf("environment is required")
	}

	cfg, err := c.LoadConfig(c.cfgLoader)
	if err != nil {
		return err
	}
	if _, ok := cfg.Environment(environment); !ok {
		return fmt.Errorf("environment '%s' is not configured", environment)
	}

	password := c.Password
	if c.PasswordStdin {
		password, err = readPassword(cmd)
		if err != nil {
			return err
		}
	}

	secrets, err := c.LoadSecrets(c.ctxLoader)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	creds, _ := secrets.Get(environment)
	creds = creds.Override(domain.Credentials{Username: c.Username, Password: password})

	res, err := secrets.Upsert(environment, creds)
	if err != nil {
		return fmt.Errorf("error setting credentials for environment '%s': %w", environment, err)
	}

	if _, err := fmt.Fprintf(
		cmd.OutOrStdout(),
		"✓ Credentials set for environment '%s' (operation: %s)\n", environment, string(res),
	); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	return nil
}

// readPassword reads the first line of stdin.
func readPassword(cmd *cobra.Command) (string, error) {
	scanner := bufio.NewScanner(cmd.InOrStdin())
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", fmt.Errorf("failed to read password from stdin: %w", err)
		}
		return "", fmt.Errorf("no password provided on stdin")
	}

	password := strings.TrimRight(scanner.Text(), "\r")
	if password == "" {
		return "", fmt.Errorf("no password provided on stdin")
	}

	return password, nil
}
