package api

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"mime/multipart"
	"net/url"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/fleetwatch/fleetwatch/internal/domain"
	"github.com/fleetwatch/fleetwatch/internal/errors"
)

// mockHumaContext implements huma.Context for testing.
type mockHumaContext struct {
	queryParams map[string]string
}

func (m *mockHumaContext) Query(name string) string {
	return m.queryParams[name]
}

// Minimal no-op implementations for other required methods.
func (m *mockHumaContext) Operation() *huma.Operation                 { return nil }
func (m *mockHumaContext) Context() context.Context                   { return context.Background() }
func (m *mockHumaContext) TLS() *tls.ConnectionState                  { return nil }
func (m *mockHumaContext) Version() huma.ProtoVersion                 { return huma.ProtoVersion{} }
func (m *mockHumaContext) Method() string                             { return "" }
func (m *mockHumaContext) Host() string                               { return "" }
func (m *mockHumaContext) RemoteAddr() string                         { return "" }
func (m *mockHumaContext) URL() url.URL                               { return url.URL{} }
func (m *mockHumaContext) Param(name string) string                   { return "" }
func (m *mockHumaContext) Header(name string) string                  { return "" }
func (m *mockHumaContext) EachHeader(cb func(name, value string))     {}
func (m *mockHumaContext) BodyReader() io.Reader                      { return nil }
func (m *mockHumaContext) GetMultipartForm() (*multipart.Form, error) { return nil, nil }
func (m *mockHumaContext) SetReadDeadline(t time.Time) error          { return nil }
func (m *mockHumaContext) SetStatus(code int)                         {}
func (m *mockHumaContext) Status() int                                { return 0 }
func (m *mockHumaContext) SetHeader(name, value string)               {}
func (m *mockHumaContext) AppendHeader(name, value string)            {}
func (m *mockHumaContext) BodyWriter() io.Writer                      { return nil }

var testCollectedAt = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

type mockRegistry struct {
	environments []string
	defaultEnv   string
	hosts        map[string][]domain.Host
	err          error
}

func (m *mockRegistry) Environments() []string     { return m.environments }
func (m *mockRegistry) DefaultEnvironment() string { return m.defaultEnv }

func (m *mockRegistry) ListHosts(_ context.Context, environment string) ([]domain.Host, error) {
	if m.err != nil {
		return nil, m.err
	}
	if environment == "" {
		environment = m.defaultEnv
	}
	hosts, ok := m.hosts[environment]
	if !ok {
		return nil, fmt.Errorf("%w: '%s'", errors.ErrEnvironmentNotFound, environment)
	}
	return hosts, nil
}

func (m *mockRegistry) Instance(ctx context.Context, environment string, id int) (domain.Host, domain.Instance, error) {
	hosts, err := m.ListHosts(ctx, environment)
	if err != nil {
		return domain.Host{}, domain.Instance{}, err
	}
	for _, h := range hosts {
		for _, inst := range h.Instances {
			if inst.ID == id {
				return h, inst, nil
			}
		}
	}
	return domain.Host{}, domain.Instance{}, fmt.Errorf("%w: id %d", errors.ErrInstanceNotFound, id)
}

type mockCollector struct {
	status       domain.FleetStatus
	host         domain.HostRef
	instance     domain.InstanceStatus
	err          error
	gotEnv       string
	gotCreds     domain.Credentials
	gotInstance  int
	collectCalls int
}

func (m *mockCollector) Collect(
	_ context.Context,
	environment string,
	creds domain.Credentials,
) (domain.FleetStatus, error) {
	m.collectCalls++
	m.gotEnv = environment
	m.gotCreds = creds
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
	m.gotEnv = environment
	m.gotInstance = instanceID
	m.gotCreds = creds
	if m.err != nil {
		return domain.HostRef{}, domain.InstanceStatus{}, m.err
	}
	return m.host, m.instance, nil
}

type mockArchiver struct {
	reports   map[string]domain.Report
	saved     []domain.Report
	saveErr   error
	gotLimit  int
	gotEnv    string
	summaries []domain.ReportSummary
}

func (m *mockArchiver) Save(_ context.Context, status domain.FleetStatus, environment string) (domain.Report, error) {
	if m.saveErr != nil {
		return domain.Report{}, m.saveErr
	}
	r := domain.Report{
		ID:          "0192f0c4-5b7e-7c9a-9d1e-3f4a5b6c7d8e",
		Environment: environment,
		Timestamp:   testCollectedAt.Add(time.Second),
		Snapshot:    status.Clone(),
	}
	m.saved = append(m.saved, r)
	return r, nil
}

func (m *mockArchiver) List(_ context.Context, limit int, environment string) ([]domain.ReportSummary, error) {
	m.gotLimit = limit
	m.gotEnv = environment
	return m.summaries, nil
}

func (m *mockArchiver) Get(_ context.Context, id string) (domain.Report, error) {
	r, ok := m.reports[id]
	if !ok {
		return domain.Report{}, fmt.Errorf("%w: %s", errors.ErrReportNotFound, id)
	}
	return r, nil
}

func testFleetStatus() domain.FleetStatus {
	return domain.FleetStatus{
		Environment: "production",
		CollectedAt: testCollectedAt,
		Hosts: []domain.HostStatus{
			{
				Host: domain.HostRef{ID: 1, Hostname: "app01"},
				Instances: []domain.InstanceStatus{
					{
						Instance:    domain.Instance{ID: 1, Name: "node-a", Port: 9990},
						ServerState: domain.ServerStateRunning,
						DataSources: []domain.DataSourceStatus{
							{
								DataSourceInfo: domain.DataSourceInfo{
									Name:       "OrdersDS",
									JNDIName:   "java:/jdbc/OrdersDS",
									DriverName: "postgresql",
									Kind:       domain.DataSourceKindPlain,
									Enabled:    true,
								},
								Connected: true,
							},
							{
								DataSourceInfo: domain.DataSourceInfo{
									Name:       "LedgerXA",
									JNDIName:   "java:/jdbc/LedgerXA",
									DriverName: "oracle",
									Kind:       domain.DataSourceKindTransactional,
									Enabled:    true,
								},
								Connected: false,
							},
						},
						Deployments: []domain.DeploymentStatus{
							{Name: "orders.war", Enabled: true, RuntimeStatus: "OK"},
						},
					},
					domain.Unreachable(
						domain.Instance{ID: 2, Name: "node-b", Port: 10090},
						domain.ServerStateUnknown,
						"connection refused",
					),
				},
			},
			{
				Host: domain.HostRef{ID: 2, Hostname: "app02"},
				Instances: []domain.InstanceStatus{
					{
						Instance:    domain.Instance{ID: 3, Name: "node-c", Port: 9990},
						ServerState: domain.ServerStateDown,
						DataSources: []domain.DataSourceStatus{},
						Deployments: []domain.DeploymentStatus{},
					},
				},
			},
		},
	}
}
