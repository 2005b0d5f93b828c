package hosts

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/require"

	internalcmd "github.com/fleetwatch/fleetwatch/internal/cmd"
	cmdopts "github.com/fleetwatch/fleetwatch/internal/cmd/options"
	"github.com/fleetwatch/fleetwatch/internal/cmd/output"
	"github.com/fleetwatch/fleetwatch/internal/config"
	configcontext "github.com/fleetwatch/fleetwatch/internal/context"
	"github.com/fleetwatch/fleetwatch/internal/printer"
)

type mockConfigLoader struct {
	cfg *config.Config
}

func (m *mockConfigLoader) Load(_ string) (*config.Config, error) {
	return m.cfg, nil
}

type mockContextLoader struct{}

func (m *mockContextLoader) Load(_ string) (configcontext.Modifier, error) {
	return configcontext.NewSecretsConfig(""), nil
}

func testConfig(reportsDir string) *config.Config {
	return &config.Config{
		DefaultEnvironment: "production",
		Reports:            &config.ReportsConfig{Dir: &reportsDir},
		Environments: []config.EnvironmentEntry{
			{
				Name: "production",
				Hosts: []config.HostEntry{
					{
						ID:       1,
						Hostname: "app01.internal",
						Instances: []config.InstanceEntry{
							{ID: 1, Name: "node-a", Port: 9990},
							{ID: 2, Name: "node-b", Port: 10090},
						},
					},
					{ID: 2, Hostname: "app02.internal"},
				},
			},
			{
				Name: "staging",
				Hosts: []config.HostEntry{
					{
						ID:        1,
						Hostname:  "stage01.internal",
						Instances: []config.InstanceEntry{{ID: 1, Name: "node-s", Port: 9990}},
					},
				},
			},
			{Name: "sandbox"},
		},
	}
}

func runList(t *testing.T, args ...string) (string, error) {
	t.Helper()

	base := &internalcmd.BaseCmd{}
	base.SetLogger(hclog.NewNullLogger())

	c, err := NewListCmd(
		base,
		cmdopts.WithConfigLoader(&mockConfigLoader{cfg: testConfig(filepath.Join(t.TempDir(), "reports"))}),
		cmdopts.WithContextLoader(&mockContextLoader{}),
	)
	require.NoError(t, err)

	var buf bytes.Buffer
	c.SetOut(&buf)
	c.SetErr(&buf)
	c.SetArgs(append([]string{}, args...))

	err = c.Execute()
	return buf.String(), err
}

func TestListCmd_Run(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		args           []string
		expectedOutput string
	}{
		{
			name: "every environment",
			expectedOutput: `app01.internal (host 1, production)
  node-a [1] port 9990
  node-b [2] port 10090
app02.internal (host 2, production)
  (no instances configured)
stage01.internal (host 1, staging)
  node-s [1] port 9990
`,
		},
		{
			name: "one environment",
			args: []string{"--environment", "staging"},
			expectedOutput: `stage01.internal (host 1, staging)
  node-s [1] port 9990
`,
		},
		{
			name:           "environment without hosts",
			args:           []string{"--environment", "sandbox"},
			expectedOutput: "No items found\n",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			out, err := runList(t, tc.args...)
			require.NoError(t, err)
			require.Equal(t, tc.expectedOutput, out)
		})
	}
}

func TestListCmd_JSON(t *testing.T) {
	t.Parallel()

	out, err := runList(t, "--environment", "production", "--format", "json")
	require.NoError(t, err)

	var payload output.ResultsPayload[printer.HostResult]
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	require.Equal(t, []printer.HostResult{
		{
			Environment: "production",
			ID:          1,
			Hostname:    "app01.internal",
			Instances: []printer.InstanceResult{
				{ID: 1, Name: "node-a", Port: 9990},
				{ID: 2, Name: "node-b", Port: 10090},
			},
		},
		{
			Environment: "production",
			ID:          2,
			Hostname:    "app02.internal",
			Instances:   []printer.InstanceResult{},
		},
	}, payload.Results)
}

func TestListCmd_UnknownEnvironment(t *testing.T) {
	t.Parallel()

	_, err := runList(t, "--environment", "qa")
	require.EqualError(t, err, "environment not found: 'qa'")
}
