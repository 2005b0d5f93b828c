package daemon

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fleetwatch/fleetwatch/internal/domain"
	"github.com/fleetwatch/fleetwatch/internal/errors"
)

type mockRegistry struct {
	environments []string
}

func (m *mockRegistry) Environments() []string { return m.environments }

func (m *mockRegistry) DefaultEnvironment() string {
	if len(m.environments) == 0 {
		return ""
	}
	return m.environments[0]
}

func (m *mockRegistry) ListHosts(_ context.Context, environment string) ([]domain.Host, error) {
	for _, env := range m.environments {
		if env == environment {
			return []domain.Host{{ID: 1, Hostname: "app01", Instances: []domain.Instance{{ID: 1, Name: "node-a", Port: 9990}}}}, nil
		}
	}
	return nil, fmt.Errorf("%w: '%s'", errors.ErrEnvironmentNotFound, environment)
}

func (m *mockRegistry) Instance(ctx context.Context, environment string, id int) (domain.Host, domain.Instance, error) {
	hosts, err := m.ListHosts(ctx, environment)
	if err != nil {
		return domain.Host{}, domain.Instance{}, err
	}
	if id != 1 {
		return domain.Host{}, domain.Instance{}, fmt.Errorf("%w: id %d", errors.ErrInstanceNotFound, id)
	}
	return hosts[0], hosts[0].Instances[0], nil
}

func newMockRegistry() *mockRegistry {
	return &mockRegistry{environments: []string{"production", "staging"}}
}

type mockCollector struct {
	mu    sync.Mutex
	calls []string
	err   map[string]error
}

func (m *mockCollector) Collect(_ context.Context, environment string, _ domain.Credentials) (domain.FleetStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, environment)
	if err := m.err[environment]; err != nil {
		return domain.FleetStatus{}, err
	}

	return domain.FleetStatus{
		Environment: environment,
		CollectedAt: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
		Hosts: []domain.HostStatus{
			{
				Host: domain.HostRef{ID: 1, Hostname: "app01"},
				Instances: []domain.InstanceStatus{
					domain.Unreachable(domain.Instance{ID: 1, Name: "node-a", Port: 9990}, domain.ServerStateDown, "connection refused"),
				},
			},
		},
	}, nil
}

func (m *mockCollector) CollectInstance(
	_ context.Context,
	environment string,
	instanceID int,
	_ domain.Credentials,
) (domain.HostRef, domain.InstanceStatus, error) {
	if instanceID != 1 {
		return domain.HostRef{}, domain.InstanceStatus{}, fmt.Errorf(
			"%w: id %d in environment '%s'", errors.ErrInstanceNotFound, instanceID, environment,
		)
	}
	return domain.HostRef{ID: 1, Hostname: "app01"},
		domain.Unreachable(domain.Instance{ID: 1, Name: "node-a", Port: 9990}, domain.ServerStateDown, "connection refused"),
		nil
}

type mockArchiver struct {
	mu      sync.Mutex
	saved   []domain.Report
	saveErr error
}

func (m *mockArchiver) Save(_ context.Context, status domain.FleetStatus, environment string) (domain.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.saveErr != nil {
		return domain.Report{}, m.saveErr
	}
	r := domain.Report{
		ID:          fmt.Sprintf("report-%d", len(m.saved)+1),
		Environment: environment,
		Timestamp:   status.CollectedAt,
		Snapshot:    status,
	}
	m.saved = append(m.saved, r)
	return r, nil
}

func (m *mockArchiver) List(context.Context, int, string) ([]domain.ReportSummary, error) {
	return []domain.ReportSummary{}, nil
}

func (m *mockArchiver) Get(_ context.Context, id string) (domain.Report, error) {
	return domain.Report{}, fmt.Errorf("%w: %s", errors.ErrReportNotFound, id)
}
