// Package probe determines the status of a single application server instance.
package probe

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/fleetwatch/fleetwatch/internal/domain"
	"github.com/fleetwatch/fleetwatch/internal/endpoint"
	"github.com/fleetwatch/fleetwatch/internal/mgmt"
)

const (
	// OutcomeOK means every query answered and all data was gathered.
	OutcomeOK Outcome = "ok"

	// OutcomeDegraded means the server is running but some queries failed, the data gathered so far is kept.
	OutcomeDegraded Outcome = "degraded"

	// OutcomeUnreachable means the server is not running or could not be asked.
	OutcomeUnreachable Outcome = "unreachable"
)

// Outcome tags how complete a probe Result is.
type Outcome string

// Result is the tagged outcome of probing one instance.
type Result struct {
	Outcome Outcome
	Status  domain.InstanceStatus
}

// Prober drives management commands against one instance at a time.
// NewProber should be used to create instances of Prober.
type Prober struct {
	logger hclog.Logger
	client endpoint.Client
}

// NewProber creates a Prober that talks to instances through client.
func NewProber(logger hclog.Logger, client endpoint.Client) (*Prober, error) {
	if logger == nil || reflect.ValueOf(logger).IsNil() {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if client == nil || reflect.ValueOf(client).IsNil() {
		return nil, fmt.Errorf("endpoint client cannot be nil")
	}

	return &Prober{
		logger: logger.Named("probe"),
		client: client,
	}, nil
}

// Probe queries the server state of the instance on hostname and, when it is running,
// its data sources (each with a connection test) and deployments.
// Failures are never returned as errors, they are carried by the Result instead.
func (p *Prober) Probe(
	ctx context.Context,
	hostname string,
	inst domain.Instance,
	creds domain.Credentials,
) Result {
	start := time.Now()
	res := p.probe(ctx, hostname, inst, creds)

	p.logger.Debug(
		"Probed instance",
		"host", hostname,
		"port", inst.Port,
		"instance", inst.Name,
		"state", res.Status.ServerState,
		"outcome", res.Outcome,
		"duration", time.Since(start),
	)

	return res
}

func (p *Prober) probe(ctx context.Context, hostname string, inst domain.Instance, creds domain.Credentials) Result {
	reply, err := p.client.Execute(ctx, hostname, inst.Port, mgmt.ServerStateQuery(), creds)
	if err != nil {
		return unreachable(inst, domain.ServerStateUnknown, err.Error())
	}

	switch state := mgmt.ParseServerState(reply); state {
	case domain.ServerStateDown:
		return unreachable(inst, state, mgmt.FailureDescription(reply))
	case domain.ServerStateUnknown:
		return unreachable(inst, state, fmt.Sprintf("unexpected server state: %v", reply.Payload))
	}

	status := domain.InstanceStatus{
		Instance:    inst,
		ServerState: domain.ServerStateRunning,
		DataSources: []domain.DataSourceStatus{},
		Deployments: []domain.DeploymentStatus{},
	}

	var problems []string

	sources, err := p.dataSources(ctx, hostname, inst, creds)
	if err != nil {
		problems = append(problems, err.Error())
	}
	for _, ds := range sources {
		connected, err := p.testConnection(ctx, hostname, inst, ds, creds)
		if err != nil {
			problems = append(problems, err.Error())
		}
		status.DataSources = append(status.DataSources, domain.DataSourceStatus{DataSourceInfo: ds, Connected: connected})
	}

	deployments, err := p.deployments(ctx, hostname, inst, creds)
	if err != nil {
		problems = append(problems, err.Error())
	}
	status.Deployments = deployments

	if len(problems) == 0 {
		return Result{Outcome: OutcomeOK, Status: status}
	}

	status.Error = strings.Join(problems, "; ")
	return Result{Outcome: OutcomeDegraded, Status: status}
}

func (p *Prober) dataSources(
	ctx context.Context,
	hostname string,
	inst domain.Instance,
	creds domain.Credentials,
) ([]domain.DataSourceInfo, error) {
	reply, err := p.client.Execute(ctx, hostname, inst.Port, mgmt.DataSourceEnumeration(), creds)
	if err != nil {
		return nil, fmt.Errorf("data source enumeration: %w", err)
	}
	if !reply.Succeeded {
		return nil, fmt.Errorf("data source enumeration: %s", mgmt.FailureDescription(reply))
	}

	return mgmt.ParseDataSources(reply), nil
}

// testConnection reports whether the data source pool can connect.
// A failed test is a normal outcome; only transport failures are returned as errors.
func (p *Prober) testConnection(
	ctx context.Context,
	hostname string,
	inst domain.Instance,
	ds domain.DataSourceInfo,
	creds domain.Credentials,
) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("connection test for %s: %w", ds.Name, err)
	}

	reply, err := p.client.Execute(ctx, hostname, inst.Port, mgmt.ConnectionTest(ds.Name, ds.Kind), creds)
	if err != nil {
		return false, fmt.Errorf("connection test for %s: %w", ds.Name, err)
	}

	return mgmt.ParseConnectionTest(reply), nil
}

func (p *Prober) deployments(
	ctx context.Context,
	hostname string,
	inst domain.Instance,
	creds domain.Credentials,
) ([]domain.DeploymentStatus, error) {
	reply, err := p.client.Execute(ctx, hostname, inst.Port, mgmt.DeploymentEnumeration(), creds)
	if err != nil {
		return []domain.DeploymentStatus{}, fmt.Errorf("deployment enumeration: %w", err)
	}
	if !reply.Succeeded {
		return []domain.DeploymentStatus{}, fmt.Errorf("deployment enumeration: %s", mgmt.FailureDescription(reply))
	}

	return mgmt.ParseDeployments(reply), nil
}

func unreachable(inst domain.Instance, state domain.ServerState, reason string) Result {
	return Result{
		Outcome: OutcomeUnreachable,
		Status:  domain.Unreachable(inst, state, reason),
	}
}
