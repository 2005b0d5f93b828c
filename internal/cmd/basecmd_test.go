package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/fleetwatch/fleetwatch/internal/config"
	"github.com/fleetwatch/fleetwatch/internal/flags"
)

func TestBaseCmd_RequireTogether(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		flagNames   []string
		setFlags    []string
		expectError bool
	}{
		{
			name:        "all flags provided",
			flagNames:   []string{"flag1", "flag2"},
			setFlags:    []string{"flag1", "flag2"},
			expectError: false,
		},
		{
			name:        "no flags provided",
			flagNames:   []string{"flag1", "flag2"},
			setFlags:    []string{},
			expectError: false,
		},
		{
			name:        "only first flag provided",
			flagNames:   []string{"flag1", "flag2"},
			setFlags:    []string{"flag1"},
			expectError: true,
		},
		{
			name:        "only second flag provided",
			flagNames:   []string{"flag1", "flag2"},
			setFlags:    []string{"flag2"},
			expectError: true,
		},
		{
			name:        "three flags all provided",
			flagNames:   []string{"flag1", "flag2", "flag3"},
			setFlags:    []string{"flag1", "flag2", "flag3"},
			expectError: false,
		},
		{
			name:        "three flags none provided",
			flagNames:   []string{"flag1", "flag2", "flag3"},
			setFlags:    []string{},
			expectError: false,
		},
		{
			name:        "three flags only one provided",
			flagNames:   []string{"flag1", "flag2", "flag3"},
			setFlags:    []string{"flag1"},
			expectError: true,
		},
		{
			name:        "three flags only two provided",
			flagNames:   []string{"flag1", "flag2", "flag3"},
			setFlags:    []string{"flag1", "flag3"},
			expectError: true,
		},
		{
			name:        "three flags only two provided - test sorting",
			flagNames:   []string{"flag1", "flag2", "flag3"},
			setFlags:    []string{"flag3", "flag1"},
			expectError: true,
		},
		{
			name:        "single flag not provided",
			flagNames:   []string{"flag1"},
			setFlags:    []string{},
			expectError: false,
		},
		{
			name:        "single flag provided",
			flagNames:   []string{"flag1"},
			setFlags:    []string{"flag1"},
			expectError: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cmd := &cobra.Command{
				Use: "test",
			}

			for _, flagName := range tc.flagNames {
				cmd.Flags().String(flagName, "", "test flag")
			}

			for _, flagName := range tc.setFlags {
				err := cmd.Flags().Set(flagName, "value")
				require.NoError(t, err)
			}

			baseCmd := &BaseCmd{}
			err := baseCmd.RequireTogether(cmd, tc.flagNames...)

			if tc.expectError {
				require.Error(t, err)
				require.ErrorContains(t, err, "must be provided together or not at all")
				names := slices.Clone(tc.flagNames)
				slices.Sort(names)
				sortedNames := strings.Join(names, ", ")
				require.ErrorContains(t, err, fmt.Sprintf("(%s)", sortedNames))
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestBaseCmd_Logger_UsesExisting(t *testing.T) {
	t.Parallel()

	existing := hclog.NewNullLogger()
	base := &BaseCmd{}
	base.SetLogger(existing)

	logger, err := base.Logger()
	require.NoError(t, err)
	require.Same(t, existing, logger)
}

// Tests below modify the global flags and must not run in parallel.

func TestBaseCmd_Logger_FromFlags(t *testing.T) {
	setFlags(t, filepath.Join(t.TempDir(), "fleetwatch.log"), "debug")

	base := &BaseCmd{}
	logger, err := base.Logger()
	require.NoError(t, err)
	require.True(t, logger.IsDebug())

	logger.Debug("probe finished", "instance", "node-a")

	data, err := os.ReadFile(flags.LogPath)
	require.NoError(t, err)
	require.Contains(t, string(data), "probe finished")

	again, err := base.Logger()
	require.NoError(t, err)
	require.Same(t, logger, again)
}

func TestBaseCmd_Logger_InvalidLevel(t *testing.T) {
	setFlags(t, "", "loud")

	_, err := (&BaseCmd{}).Logger()
	require.EqualError(t, err, "invalid log level 'loud', must be one of trace, debug, info, warn, error, off")
}

func TestBaseCmd_Logger_UnwritablePath(t *testing.T) {
	setFlags(t, filepath.Join(t.TempDir(), "missing", "fleetwatch.log"), "info")

	_, err := (&BaseCmd{}).Logger()
	require.ErrorContains(t, err, "failed to open log file")
}

func TestBaseCmd_LoadConfig(t *testing.T) {
	t.Parallel()

	_, err := (&BaseCmd{}).LoadConfig(nil)
	require.EqualError(t, err, "config loader cannot be nil")

	cfg := &config.Config{DefaultEnvironment: "production"}
	got, err := (&BaseCmd{}).LoadConfig(&stubLoader{cfg: cfg})
	require.NoError(t, err)
	require.Same(t, cfg, got)

	_, err = (&BaseCmd{}).LoadConfig(&stubLoader{err: fmt.Errorf("boom")})
	require.EqualError(t, err, "boom")
}

type stubLoader struct {
	cfg *config.Config
	err error
}

func (s *stubLoader) Load(_ string) (*config.Config, error) {
	return s.cfg, s.err
}

func setFlags(t *testing.T, logPath string, logLevel string) {
	t.Helper()

	prevPath, prevLevel := flags.LogPath, flags.LogLevel
	flags.LogPath, flags.LogLevel = logPath, logLevel
	t.Cleanup(func() {
		flags.LogPath, flags.LogLevel = prevPath, prevLevel
	})
}

func TestBaseCmd_LoggerTo_Fallback(t *testing.T) {
	setFlags(t, "", "info")

	var buf strings.Builder
	logger, err := (&BaseCmd{}).LoggerTo(&buf)
	require.NoError(t, err)

	logger.Info("daemon started")
	logger.Debug("hidden")
	require.Contains(t, buf.String(), "daemon started")
	require.NotContains(t, buf.String(), "hidden")
}
