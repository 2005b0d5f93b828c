package credentials

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/fleetwatch/fleetwatch/internal/cmd"
	cmdopts "github.com/fleetwatch/fleetwatch/internal/cmd/options"
	"github.com/fleetwatch/fleetwatch/internal/config"
	"github.com/fleetwatch/fleetwatch/internal/context"
	"github.com/fleetwatch/fleetwatch/internal/domain"
)

type mockConfigLoader struct{}

func (m *mockConfigLoader) Load(_ string) (*config.Config, error) {
	return &config.Config{
		Environments: []config.EnvironmentEntry{{Name: "production"}, {Name: "staging"}},
	}, nil
}

type mockLoader struct {
	secrets   *context.SecretsConfig
	loadError error
}

func (m *mockLoader) Load(_ string) (context.Modifier, error) {
	if m.loadError != nil {
		return nil, m.loadError
	}
	return m.secrets, nil
}

// newSecrets returns a secrets file in a temporary directory, seeded with creds per environment.
func newSecrets(t *testing.T, seed map[string]domain.Credentials) *context.SecretsConfig {
	t.Helper()

	secrets := context.NewSecretsConfig(filepath.Join(t.TempDir(), "fleetwatch", "secrets.toml"))
	for env, creds := range seed {
		_, err := secrets.Upsert(env, creds)
		require.NoError(t, err)
	}

	return secrets
}

type newCmdFunc func(baseCmd *cmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error)

func execute(t *testing.T, fn newCmdFunc, loader context.Loader, stdin string, args ...string) (string, error) {
	t.Helper()

	base := &cmd.BaseCmd{}
	base.SetLogger(hclog.NewNullLogger())

	c, err := fn(
		base,
		cmdopts.WithConfigLoader(&mockConfigLoader{}),
		cmdopts.WithContextLoader(loader),
	)
	require.NoError(t, err)

	var buf bytes.Buffer
	c.SetOut(&buf)
	c.SetErr(&buf)
	c.SetIn(strings.NewReader(stdin))
	c.SetArgs(append([]string{}, args...))

	err = c.Execute()
	return buf.String(), err
}
