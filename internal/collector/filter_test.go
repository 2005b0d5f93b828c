package collector

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fleetwatch/fleetwatch/internal/domain"
)

func filterFleet() domain.FleetStatus {
	healthy := domain.InstanceStatus{
		Instance:    domain.Instance{ID: 1, Name: "node-a", Port: 9990},
		ServerState: domain.ServerStateRunning,
		DataSources: []domain.DataSourceStatus{
			{DataSourceInfo: domain.DataSourceInfo{Name: "MainDS", Enabled: true}, Connected: true},
		},
		Deployments: []domain.DeploymentStatus{{Name: "billing.war", Enabled: true, RuntimeStatus: "OK"}},
	}
	brokenDS := domain.InstanceStatus{
		Instance:    domain.Instance{ID: 2, Name: "node-b", Port: 10090},
		ServerState: domain.ServerStateRunning,
		DataSources: []domain.DataSourceStatus{
			{DataSourceInfo: domain.DataSourceInfo{Name: "MainDS", Enabled: true}, Connected: false},
		},
		Deployments: []domain.DeploymentStatus{{Name: "portal.war", Enabled: true, RuntimeStatus: "OK"}},
	}
	down := domain.Unreachable(domain.Instance{ID: 3, Name: "node-c", Port: 9990}, domain.ServerStateDown, "refused")

	return domain.FleetStatus{
		Environment: "production",
		CollectedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		Hosts: []domain.HostStatus{
			{Host: domain.HostRef{ID: 1, Hostname: "app01.internal"}, Instances: []domain.InstanceStatus{healthy, brokenDS}},
			{Host: domain.HostRef{ID: 2, Hostname: "app02.internal"}, Instances: []domain.InstanceStatus{down}},
		},
	}
}

func TestHealthy(t *testing.T) {
	t.Parallel()

	fleet := filterFleet()
	require.True(t, Healthy(fleet.Hosts[0].Instances[0]))
	require.False(t, Healthy(fleet.Hosts[0].Instances[1]))
	require.False(t, Healthy(fleet.Hosts[1].Instances[0]))

	disabled := fleet.Hosts[0].Instances[1].Clone()
	disabled.DataSources[0].Enabled = false
	require.True(t, Healthy(disabled))

	failed := fleet.Hosts[0].Instances[0].Clone()
	failed.Deployments[0].RuntimeStatus = "FAILED"
	require.False(t, Healthy(failed))
}

func TestFilterFleet(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		filters  map[string]string
		expected []string
		errMsg   string
	}{
		{name: "no filters", expected: []string{"app01.internal/node-a", "app01.internal/node-b", "app02.internal/node-c"}},
		{name: "state", filters: map[string]string{"state": "DOWN"}, expected: []string{"app02.internal/node-c"}},
		{name: "hostname", filters: map[string]string{"hostname": "app01"}, expected: []string{"app01.internal/node-a", "app01.internal/node-b"}},
		{name: "name", filters: map[string]string{"name": "node-b"}, expected: []string{"app01.internal/node-b"}},
		{name: "deployment", filters: map[string]string{"deployment": "portal"}, expected: []string{"app01.internal/node-b"}},
		{name: "healthy", filters: map[string]string{"healthy": "false"}, expected: []string{"app01.internal/node-b", "app02.internal/node-c"}},
		{
			name:     "combined",
			filters:  map[string]string{"state": "running", "healthy": "true"},
			expected: []string{"app01.internal/node-a"},
		},
		{name: "nothing matches", filters: map[string]string{"name": "node-z"}, expected: nil},
		{
			name:    "unsupported key",
			filters: map[string]string{"zone": "eu"},
			errMsg:  "unsupported filter key(s): zone (supported: deployment, healthy, hostname, name, state)",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			out, err := FilterFleet(filterFleet(), tc.filters)
			if tc.errMsg != "" {
				require.EqualError(t, err, tc.errMsg)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.expected, instanceNames(out))
			require.Equal(t, "production", out.Environment)
		})
	}
}

func TestFilterFleet_DropsEmptyHosts(t *testing.T) {
	t.Parallel()

	out, err := FilterFleet(filterFleet(), map[string]string{"state": "running"})
	require.NoError(t, err)
	require.Len(t, out.Hosts, 1)
	require.Equal(t, "app01.internal", out.Hosts[0].Host.Hostname)
}

func TestFilterFleet_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	in := filterFleet()
	out, err := FilterFleet(in, nil)
	require.NoError(t, err)

	out.Hosts[0].Instances[0].Deployments[0].Name = "changed.war"
	require.Equal(t, "billing.war", in.Hosts[0].Instances[0].Deployments[0].Name)
}

func TestValidateFilters(t *testing.T) {
	t.Parallel()

	require.NoError(t, ValidateFilters(nil))
	require.NoError(t, ValidateFilters(map[string]string{"State": "down", "healthy": "true"}))
	require.EqualError(
		t,
		ValidateFilters(map[string]string{"owner": "ops"}),
		"unsupported filter key(s): owner (supported: deployment, healthy, hostname, name, state)",
	)
}
