package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"

	internalcmd "github.com/fleetwatch/fleetwatch/internal/cmd"
	"github.com/fleetwatch/fleetwatch/internal/config"
	configcontext "github.com/fleetwatch/fleetwatch/internal/context"
	"github.com/fleetwatch/fleetwatch/internal/domain"
)

var testCollectedAt = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

type mockConfigLoader struct {
	cfg *config.Config
	err error
}

func (m *mockConfigLoader) Load(_ string) (*config.Config, error) {
	return m.cfg, m.err
}

type mockContextLoader struct {
	secrets configcontext.Modifier
	err     error
}

func (m *mockContextLoader) Load(_ string) (configcontext.Modifier, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.secrets == nil {
		return configcontext.NewSecretsConfig(""), nil
	}
	return m.secrets, nil
}

type mockBuilder struct {
	components *internalcmd.Components
	err        error
	cfg        *config.Config
}

func (m *mockBuilder) Build(_ hclog.Logger, cfg *config.Config, _ configcontext.Getter) (*internalcmd.Components, error) {
	m.cfg = cfg
	if m.err != nil {
		return nil, m.err
	}
	return m.components, nil
}

type mockCollector struct {
	status   domain.FleetStatus
	host     domain.HostRef
	instance domain.InstanceStatus
	err      error

	environment string
	instanceID  int
	creds       domain.Credentials
}

func (m *mockCollector) Collect(_ context.Context, environment string, creds domain.Credentials) (domain.FleetStatus, error) {
	m.environment = environment
	m.creds = creds
	if m.err != nil {
		return domain.FleetStatus{}, m.err
	}
	return m.status, nil
}

func (m *mockCollector) CollectInstance(
	_ context.Context,
	environment string,
	instanceID int,
	creds domain.Credentials,
) (domain.HostRef, domain.InstanceStatus, error) {
	m.environment = environment
	m.instanceID = instanceID
	m.creds = creds
	if m.err != nil {
		return domain.HostRef{}, domain.InstanceStatus{}, m.err
	}
	return m.host, m.instance, nil
}

type mockArchiver struct {
	id    string
	err   error
	saved []domain.Report
}

func (m *mockArchiver) Save(_ context.Context, status domain.FleetStatus, environment string) (domain.Report, error) {
	if m.err != nil {
		return domain.Report{}, m.err
	}
	r := domain.Report{ID: m.id, Environment: environment, Timestamp: status.CollectedAt, Snapshot: status.Clone()}
	m.saved = append(m.saved, r)
	return r, nil
}

func (m *mockArchiver) List(context.Context, int, string) ([]domain.ReportSummary, error) {
	return nil, fmt.Errorf("not implemented")
}

func (m *mockArchiver) Get(context.Context, string) (domain.Report, error) {
	return domain.Report{}, fmt.Errorf("not implemented")
}

func testConfig() *config.Config {
	return &config.Config{
		DefaultEnvironment: "production",
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
				},
			},
		},
	}
}

func runningInstance() domain.InstanceStatus {
	return domain.InstanceStatus{
		Instance:    domain.Instance{ID: 1, Name: "node-a", Port: 9990},
		ServerState: domain.ServerStateRunning,
		DataSources: []domain.DataSourceStatus{
			{
				DataSourceInfo: domain.DataSourceInfo{
					Name:       "MainDS",
					JNDIName:   "java:jboss/datasources/MainDS",
					DriverName: "mysql",
					Kind:       domain.DataSourceKindPlain,
					Enabled:    true,
				},
				Connected: true,
			},
		},
		Deployments: []domain.DeploymentStatus{
			{Name: "app.war", Enabled: true, RuntimeStatus: "OK"},
		},
	}
}

func testFleetStatus() domain.FleetStatus {
	return domain.FleetStatus{
		Environment: "production",
		CollectedAt: testCollectedAt,
		Hosts: []domain.HostStatus{
			{
				Host: domain.HostRef{ID: 1, Hostname: "app01.internal"},
				Instances: []domain.InstanceStatus{
					runningInstance(),
					domain.Unreachable(
						domain.Instance{ID: 2, Name: "node-b", Port: 10090},
						domain.ServerStateDown,
						"connection refused",
					),
				},
			},
		},
	}
}
