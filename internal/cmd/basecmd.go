package cmd

import (
	"fmt"
	"io"
	"os"
	"reflect"
	"slices"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/fleetwatch/fleetwatch/internal/config"
	configcontext "github.com/fleetwatch/fleetwatch/internal/context"
	"github.com/fleetwatch/fleetwatch/internal/flags"
	"github.com/fleetwatch/fleetwatch/internal/perms"
)

type BaseCmd struct {
	logger hclog.Logger
}

// SetLogger updates the command's logger.
func (c *BaseCmd) SetLogger(logger hclog.Logger) {
	c.logger = logger
}

// Logger returns the logger for the command, creating it from the global log flags on first use.
// Logs are discarded unless a log path is configured.
func (c *BaseCmd) Logger() (hclog.Logger, error) {
	return c.LoggerTo(io.Discard)
}

// LoggerTo behaves like Logger but writes to fallback when no log path is configured.
func (c *BaseCmd) LoggerTo(fallback io.Writer) (hclog.Logger, error) {
	if c.logger != nil {
		return c.logger, nil
	}

	logLevel := strings.ToLower(strings.TrimSpace(flags.LogLevel))
	if logLevel == "" {
		logLevel = flags.DefaultLogLevel
	}
	if !slices.Contains(AllowedLogLevels(), logLevel) {
		return nil, fmt.Errorf("invalid log level '%s', must be one of %s", logLevel, strings.Join(AllowedLogLevels(), ", "))
	}

	output := fallback
	if logPath := strings.TrimSpace(flags.LogPath); logPath != "" {
		f, err := openLogFile(logPath)
		if err != nil {
			return nil, err
		}
		output = f
	}

	c.logger = hclog.New(&hclog.LoggerOptions{
		Name:   AppName(),
		Level:  hclog.LevelFromString(logLevel),
		Output: output,
	})

	return c.logger, nil
}

// LoadConfig loads the configuration file named by the global flags.
func (c *BaseCmd) LoadConfig(loader config.Loader) (*config.Config, error) {
	if loader == nil || reflect.ValueOf(loader).IsNil() {
		return nil, fmt.Errorf("config loader cannot be nil")
	}

	cfg, err := loader.Load(flags.ConfigFile)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadSecrets loads the secrets file named by the global flags.
func (c *BaseCmd) LoadSecrets(loader configcontext.Loader) (configcontext.Modifier, error) {
	if loader == nil || reflect.ValueOf(loader).IsNil() {
		return nil, fmt.Errorf("context loader cannot be nil")
	}

	return loader.Load(flags.SecretsFile)
}

// RequireTogether returns an error when only some of the named flags were set on the command.
func (c *BaseCmd) RequireTogether(cmd *cobra.Command, flagNames ...string) error {
	var set int
	for _, name := range flagNames {
		if cmd.Flags().Changed(name) {
			set++
		}
	}

	if set == 0 || set == len(flagNames) {
		return nil
	}

	names := slices.Clone(flagNames)
	slices.Sort(names)

	return fmt.Errorf("flags must be provided together or not at all (%s)", strings.Join(names, ", "))
}

// AllowedLogLevels returns the log levels accepted by --log-level.
func AllowedLogLevels() []string {
	return []string{"trace", "debug", "info", "warn", "error", "off"}
}

func openLogFile(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, perms.RegularFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file (%s): %w", path, err)
	}

	return f, nil
}
