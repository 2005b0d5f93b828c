package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/fleetwatch/fleetwatch/internal/contracts"
	"github.com/fleetwatch/fleetwatch/internal/domain"
)

const (
	ServerStateRunning ServerState = "running"
	ServerStateDown    ServerState = "down"
	ServerStateUnknown ServerState = "unknown"
)

const (
	DataSourceKindPlain         DataSourceKind = "plain"
	DataSourceKindTransactional DataSourceKind = "transactional"
)

// ServerState is the operational state of an instance as reported by the API.
type ServerState string

// DataSourceKind distinguishes plain data sources from transactional (XA) ones.
type DataSourceKind string

// DomainInstanceStatus is a wrapper that allows receivers to be declared in the API package that deal with domain types.
type DomainInstanceStatus domain.InstanceStatus

// DomainHostStatus wraps domain.HostStatus for API conversion.
type DomainHostStatus domain.HostStatus

// DomainFleetStatus wraps domain.FleetStatus for API conversion.
type DomainFleetStatus domain.FleetStatus

// DataSource is a data source of an instance along with the outcome of its connection test.
type DataSource struct {
	Name       string         `json:"name" yaml:"name"`
	JNDIName   string         `json:"jndiName" yaml:"jndiName"`
	DriverName string         `json:"driverName" yaml:"driverName"`
	Kind       DataSourceKind `json:"kind" yaml:"kind"       enum:"plain,transactional"`
	Enabled    bool           `json:"enabled" yaml:"enabled"`
	Connected  bool           `json:"connected" yaml:"connected"`
}

// Deployment is an application deployed to an instance.
type Deployment struct {
	Name          string `json:"name" yaml:"name"`
	Enabled       bool   `json:"enabled" yaml:"enabled"`
	RuntimeStatus string `json:"runtimeStatus" yaml:"runtimeStatus"`
}

// Instance is the status of one application server instance.
// DataSources and Deployments are empty unless the server is running.
type Instance struct {
	ID          int          `json:"id" yaml:"id"`
	Name        string       `json:"name" yaml:"name"`
	Port        int          `json:"port" yaml:"port"`
	ServerState ServerState  `json:"serverState" yaml:"serverState"     enum:"running,down,unknown"`
	DataSources []DataSource `json:"dataSources" yaml:"dataSources"`
	Deployments []Deployment `json:"deployments" yaml:"deployments"`
	Error       string       `json:"error,omitempty" yaml:"error,omitempty" doc:"Human-readable reason when the instance is down, unknown or degraded"`
}

// HostRef identifies a host.
type HostRef struct {
	ID       int    `json:"id" yaml:"id"`
	Hostname string `json:"hostname" yaml:"hostname"`
}

// Host is the status of every instance of one host, in configuration order.
type Host struct {
	ID        int        `json:"id" yaml:"id"`
	Hostname  string     `json:"hostname" yaml:"hostname"`
	Instances []Instance `json:"instances" yaml:"instances"`
}

// FleetStatus is the status of every host of an environment.
type FleetStatus struct {
	Environment string    `json:"environment" yaml:"environment"`
	Hosts       []Host    `json:"hosts" yaml:"hosts"`
	CollectedAt time.Time `json:"collectedAt" yaml:"collectedAt"`
}

// FleetStatusRequest represents the incoming API request to collect the status of an environment.
type FleetStatusRequest struct {
	Environment string `doc:"Environment to scan, defaults to the configured default environment" example:"production" query:"environment"`
	SaveReport  bool   `doc:"Archive the collected status as a report"                                            query:"save_report"`
	Username    string `doc:"Management username for this scan only"                                               query:"username"`
	Password    string `doc:"Management password for this scan only"                                               query:"password"`
	Detail      string `doc:"Level of detail per instance"                    enum:"full,summary" default:"full"  query:"detail"`
}

// FleetStatusBody is the body of a fleet status response.
type FleetStatusBody struct {
	Environment string         `json:"environment" yaml:"environment"`
	Hosts       []Host         `json:"hosts" yaml:"hosts"`
	CollectedAt time.Time      `json:"collectedAt" yaml:"collectedAt"`
	Report      *ReportSummary `json:"report,omitempty" yaml:"report,omitempty" doc:"Summary of the archived report when save_report was requested"`
}

// FleetStatusResponse represents the wrapped API response for a fleet status collection.
type FleetStatusResponse struct {
	Body FleetStatusBody
}

// InstanceStatusRequest represents the incoming API request to probe a single instance.
type InstanceStatusRequest struct {
	ID          int    `doc:"Instance id"                                  example:"1"          minimum:"1" path:"id"`
	Environment string `doc:"Environment the instance is configured in"    example:"production" query:"environment"`
	Username    string `doc:"Management username for this probe only"                           query:"username"`
	Password    string `doc:"Management password for this probe only"                           query:"password"`
}

// InstanceStatusBody is the body of a single instance status response.
type InstanceStatusBody struct {
	Host     HostRef  `json:"host" yaml:"host"`
	Instance Instance `json:"instance" yaml:"instance"`
}

// InstanceStatusResponse represents the wrapped API response for a single instance status.
type InstanceStatusResponse struct {
	Body InstanceStatusBody
}

// ToAPIType can be used to convert a wrapped domain type to an API-safe type.
func (d DomainInstanceStatus) ToAPIType() (Instance, error) {
	state, err := parseServerState(d.ServerState)
	if err != nil {
		return Instance{}, err
	}

	sources := make([]DataSource, 0, len(d.DataSources))
	for _, ds := range d.DataSources {
		kind, err := parseDataSourceKind(ds.Kind)
		if err != nil {
			return Instance{}, err
		}
		sources = append(sources, DataSource{
			Name:       ds.Name,
			JNDIName:   ds.JNDIName,
			DriverName: ds.DriverName,
			Kind:       kind,
			Enabled:    ds.Enabled,
			Connected:  ds.Connected,
		})
	}

	deployments := make([]Deployment, 0, len(d.Deployments))
	for _, dep := range d.Deployments {
		deployments = append(deployments, Deployment{
			Name:          dep.Name,
			Enabled:       dep.Enabled,
			RuntimeStatus: dep.RuntimeStatus,
		})
	}

	return Instance{
		ID:          d.Instance.ID,
		Name:        d.Instance.Name,
		Port:        d.Instance.Port,
		ServerState: state,
		DataSources: sources,
		Deployments: deployments,
		Error:       d.Error,
	}, nil
}

// ToAPIType converts a host status, preserving instance order.
func (d DomainHostStatus) ToAPIType() (Host, error) {
	instances := make([]Instance, 0, len(d.Instances))
	for _, inst := range d.Instances {
		data, err := DomainInstanceStatus(inst).ToAPIType()
		if err != nil {
			return Host{}, fmt.Errorf("host %s: %w", d.Host.Hostname, err)
		}
		instances = append(instances, data)
	}

	return Host{
		ID:        d.Host.ID,
		Hostname:  d.Host.Hostname,
		Instances: instances,
	}, nil
}

// ToAPIType converts a fleet status, preserving host order.
func (d DomainFleetStatus) ToAPIType() (FleetStatus, error) {
	hosts := make([]Host, 0, len(d.Hosts))
	for _, h := range d.Hosts {
		data, err := DomainHostStatus(h).ToAPIType()
		if err != nil {
			return FleetStatus{}, err
		}
		hosts = append(hosts, data)
	}

	return FleetStatus{
		Environment: d.Environment,
		Hosts:       hosts,
		CollectedAt: d.CollectedAt,
	}, nil
}

// RegisterFleetRoutes sets up fleet status API endpoint routes.
func RegisterFleetRoutes(
	routerAPI huma.API,
	collector contracts.FleetCollector,
	archiver contracts.ReportArchiver,
	apiPathPrefix string,
) {
	fleetAPI := huma.NewGroup(routerAPI, apiPathPrefix)
	tags := []string{"Fleet"}

	huma.Register(
		fleetAPI,
		huma.Operation{
			OperationID: "getFleetStatus",
			Method:      http.MethodGet,
			Path:        "/status",
			Summary:     "Collect the status of every instance of an environment",
			Tags:        tags,
		},
		func(ctx context.Context, input *FleetStatusRequest) (*FleetStatusResponse, error) {
			return handleFleetStatus(ctx, collector, archiver, input)
		},
	)

	huma.Register(
		fleetAPI,
		huma.Operation{
			OperationID: "getInstanceStatus",
			Method:      http.MethodGet,
			Path:        "/instances/{id}/status",
			Summary:     "Probe a single instance",
			Tags:        tags,
		},
		func(ctx context.Context, input *InstanceStatusRequest) (*InstanceStatusResponse, error) {
			return handleInstanceStatus(ctx, collector, input)
		},
	)
}

// handleFleetStatus collects the status of an environment and optionally archives it.
func handleFleetStatus(
	ctx context.Context,
	collector contracts.FleetCollector,
	archiver contracts.ReportArchiver,
	input *FleetStatusRequest,
) (*FleetStatusResponse, error) {
	creds := domain.Credentials{Username: input.Username, Password: input.Password}

	status, err := collector.Collect(ctx, input.Environment, creds)
	if err != nil {
		return nil, err
	}

	var saved *domain.Report
	if input.SaveReport {
		r, err := archiver.Save(ctx, status, status.Environment)
		if err != nil {
			return nil, err
		}
		saved = &r
	}

	body, err := NewFleetStatusBody(status, saved)
	if err != nil {
		return nil, err
	}

	return &FleetStatusResponse{Body: body}, nil
}

// handleInstanceStatus probes one instance.
func handleInstanceStatus(
	ctx context.Context,
	collector contracts.FleetCollector,
	input *InstanceStatusRequest,
) (*InstanceStatusResponse, error) {
	creds := domain.Credentials{Username: input.Username, Password: input.Password}

	host, status, err := collector.CollectInstance(ctx, input.Environment, input.ID, creds)
	if err != nil {
		return nil, err
	}

	body, err := NewInstanceStatusBody(host, status)
	if err != nil {
		return nil, err
	}

	return &InstanceStatusResponse{Body: body}, nil
}

// NewFleetStatusBody converts a collected fleet status, and the report it was archived as when not nil.
func NewFleetStatusBody(status domain.FleetStatus, saved *domain.Report) (FleetStatusBody, error) {
	data, err := DomainFleetStatus(status).ToAPIType()
	if err != nil {
		return FleetStatusBody{}, err
	}

	body := FleetStatusBody{
		Environment: data.Environment,
		Hosts:       data.Hosts,
		CollectedAt: data.CollectedAt,
	}

	if saved != nil {
		summary := DomainReportSummary(saved.Summary()).ToAPIType()
		body.Report = &summary
	}

	return body, nil
}

// NewInstanceStatusBody converts a single probed instance and its owning host.
func NewInstanceStatusBody(host domain.HostRef, status domain.InstanceStatus) (InstanceStatusBody, error) {
	data, err := DomainInstanceStatus(status).ToAPIType()
	if err != nil {
		return InstanceStatusBody{}, err
	}

	return InstanceStatusBody{
		Host:     HostRef{ID: host.ID, Hostname: host.Hostname},
		Instance: data,
	}, nil
}

func parseServerState(state domain.ServerState) (ServerState, error) {
	switch state {
	case domain.ServerStateRunning:
		return ServerStateRunning, nil
	case domain.ServerStateDown:
		return ServerStateDown, nil
	case domain.ServerStateUnknown:
		return ServerStateUnknown, nil
	default:
		return "", fmt.Errorf("unknown server state: %s", state)
	}
}

func parseDataSourceKind(kind domain.DataSourceKind) (DataSourceKind, error) {
	switch kind {
	case domain.DataSourceKindPlain:
		return DataSourceKindPlain, nil
	case domain.DataSourceKindTransactional:
		return DataSourceKindTransactional, nil
	default:
		return "", fmt.Errorf("unknown data source kind: %s", kind)
	}
}
