// Package collector probes every instance of an environment and assembles the fleet status.
package collector

import (
	"context"
	stderrors "errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/errgroup"

	"github.com/fleetwatch/fleetwatch/internal/contracts"
	"github.com/fleetwatch/fleetwatch/internal/domain"
	"github.com/fleetwatch/fleetwatch/internal/errors"
	"github.com/fleetwatch/fleetwatch/internal/probe"
)

var _ contracts.FleetCollector = (*Collector)(nil)

const (
	reasonTimedOut = "timed out"
	reasonCanceled = "collection canceled"
)

// InstanceProber determines the status of a single instance.
type InstanceProber interface {
	Probe(ctx context.Context, hostname string, inst domain.Instance, creds domain.Credentials) probe.Result
}

// Collector fans probes out across the instances of an environment.
// NewCollector should be used to create instances of Collector.
type Collector struct {
	logger      hclog.Logger
	registry    contracts.HostRegistry
	prober      InstanceProber
	credentials contracts.CredentialSource
	concurrency int
	scanTimeout time.Duration
	clock       func() time.Time
}

// job is one instance to probe and the result slot it owns.
type job struct {
	host     int
	instance int
	hostname string
	target   domain.Instance
}

// NewCollector creates a Collector reading hosts from registry and probing them with prober.
func NewCollector(
	logger hclog.Logger,
	registry contracts.HostRegistry,
	prober InstanceProber,
	opt ...Option,
) (*Collector, error) {
	if logger == nil || reflect.ValueOf(logger).IsNil() {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if registry == nil || reflect.ValueOf(registry).IsNil() {
		return nil, fmt.Errorf("host registry cannot be nil")
	}
	if prober == nil || reflect.ValueOf(prober).IsNil() {
		return nil, fmt.Errorf("prober cannot be nil")
	}

	opts, err := NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	return &Collector{
		logger:      logger.Named("collector"),
		registry:    registry,
		prober:      prober,
		credentials: opts.Credentials,
		concurrency: opts.Concurrency,
		scanTimeout: opts.ScanTimeout,
		clock:       opts.Clock,
	}, nil
}

// Collect probes every instance of the environment, at most Concurrency at a time.
// Results are nested under their hosts in registry order, regardless of completion order.
// When the scan timeout expires, instances not yet probed are reported as unknown and the
// partial result is returned. Only a registry failure is returned as an error.
func (c *Collector) Collect(
	ctx context.Context,
	environment string,
	creds domain.Credentials,
) (domain.FleetStatus, error) {
	environment = c.environment(environment)

	hosts, err := c.listHosts(ctx, environment)
	if err != nil {
		return domain.FleetStatus{}, err
	}

	start := time.Now()
	creds = c.resolveCredentials(environment, creds)

	status := domain.FleetStatus{
		Environment: environment,
		Hosts:       make([]domain.HostStatus, len(hosts)),
	}

	var jobs []job
	for i, h := range hosts {
		status.Hosts[i] = domain.HostStatus{
			Host:      h.Ref(),
			Instances: make([]domain.InstanceStatus, len(h.Instances)),
		}
		for j, inst := range h.Instances {
			jobs = append(jobs, job{host: i, instance: j, hostname: h.Hostname, target: inst})
		}
	}

	results, abandoned := c.run(ctx, jobs, creds)
	outcomes := make(map[probe.Outcome]int)
	for k, jb := range jobs {
		status.Hosts[jb.host].Instances[jb.instance] = results[k].Status
		outcomes[results[k].Outcome]++
	}
	status.CollectedAt = c.clock().UTC()

	_, instances, running := status.Counts()
	c.logger.Info(
		"Collected fleet status",
		"environment", environment,
		"hosts", len(hosts),
		"instances", instances,
		"running", running,
		"degraded", outcomes[probe.OutcomeDegraded],
		"unreachable", outcomes[probe.OutcomeUnreachable],
		"abandoned", abandoned,
		"duration", time.Since(start),
	)

	return status, nil
}

// CollectInstance probes one instance of the environment and returns it with its owning host.
func (c *Collector) CollectInstance(
	ctx context.Context,
	environment string,
	instanceID int,
	creds domain.Credentials,
) (domain.HostRef, domain.InstanceStatus, error) {
	environment = c.environment(environment)

	host, inst, err := c.registry.Instance(ctx, environment, instanceID)
	if err != nil {
		return domain.HostRef{}, domain.InstanceStatus{}, c.registryError(ctx, environment, err)
	}

	creds = c.resolveCredentials(environment, creds)
	results, _ := c.run(ctx, []job{{hostname: host.Hostname, target: inst}}, creds)
	return host.Ref(), results[0].Status, nil
}

// run probes jobs under the scan deadline and returns one result per job, in job order,
// along with the number of jobs abandoned when the deadline expired.
func (c *Collector) run(ctx context.Context, jobs []job, creds domain.Credentials) ([]probe.Result, int) {
	scanCtx, cancel := context.WithTimeout(ctx, c.scanTimeout)
	defer cancel()

	var (
		mu      sync.Mutex
		sealed  bool
		results = make([]probe.Result, len(jobs))
		filled  = make([]bool, len(jobs))
	)

	g := new(errgroup.Group)
	g.SetLimit(c.concurrency)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for k, jb := range jobs {
			if scanCtx.Err() != nil {
				break
			}
			g.Go(func() error {
				res := c.probe(scanCtx, jb, creds)

				mu.Lock()
				defer mu.Unlock()
				if !sealed {
					results[k] = res
					filled[k] = true
				}
				return nil
			})
		}
		_ = g.Wait()
	}()

	select {
	case <-done:
	case <-scanCtx.Done():
	}

	mu.Lock()
	defer mu.Unlock()
	sealed = true

	reason := reasonTimedOut
	if err := scanCtx.Err(); err != nil && !stderrors.Is(err, context.DeadlineExceeded) {
		reason = reasonCanceled
	}

	abandoned := 0
	for k, jb := range jobs {
		if filled[k] {
			continue
		}
		abandoned++
		results[k] = unreachable(jb.target, reason)
	}

	if abandoned > 0 {
		c.logger.Warn("Abandoned outstanding probes", "count", abandoned, "reason", reason)
	}

	return results, abandoned
}

// probe runs a single probe, turning a panic into an unknown status so that other instances are unaffected.
func (c *Collector) probe(ctx context.Context, jb job, creds domain.Credentials) (res probe.Result) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error(
				"Probe panicked",
				"host", jb.hostname,
				"port", jb.target.Port,
				"instance", jb.target.Name,
				"error", r,
			)
			res = unreachable(jb.target, fmt.Sprintf("probe failed: %v", r))
		}
	}()

	return c.prober.Probe(ctx, jb.hostname, jb.target, creds)
}

func unreachable(inst domain.Instance, reason string) probe.Result {
	return probe.Result{
		Outcome: probe.OutcomeUnreachable,
		Status:  domain.Unreachable(inst, domain.ServerStateUnknown, reason),
	}
}

func (c *Collector) listHosts(ctx context.Context, environment string) ([]domain.Host, error) {
	hosts, err := c.registry.ListHosts(ctx, environment)
	if err != nil {
		return nil, c.registryError(ctx, environment, err)
	}
	return hosts, nil
}

// registryError passes lookup misses through and reports any other registry failure as unavailable.
func (c *Collector) registryError(ctx context.Context, environment string, err error) error {
	if stderrors.Is(err, errors.ErrEnvironmentNotFound) || stderrors.Is(err, errors.ErrInstanceNotFound) || ctx.Err() != nil {
		return err
	}

	c.logger.Error("Failed to read host registry", "environment", environment, "error", err)
	return fmt.Errorf("%w: %w", errors.ErrRegistryUnavailable, err)
}

func (c *Collector) environment(name string) string {
	if name = strings.TrimSpace(name); name != "" {
		return name
	}
	return c.registry.DefaultEnvironment()
}

// resolveCredentials layers the per-request override on top of the stored credentials of the environment.
func (c *Collector) resolveCredentials(environment string, override domain.Credentials) domain.Credentials {
	var base domain.Credentials
	if c.credentials != nil {
		base = c.credentials.Credentials(environment)
	}
	if override.IsZero() {
		return base
	}
	return base.Override(override)
}
