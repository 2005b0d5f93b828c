// Package registry exposes the hosts and instances configured per environment.
package registry

import (
	"context"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/fleetwatch/fleetwatch/internal/config"
	"github.com/fleetwatch/fleetwatch/internal/contracts"
	"github.com/fleetwatch/fleetwatch/internal/domain"
	"github.com/fleetwatch/fleetwatch/internal/errors"
)

var _ contracts.HostRegistry = (*Registry)(nil)

// Registry is a read-only snapshot of the environments of a loaded configuration.
// NewRegistry should be used to create instances of Registry.
type Registry struct {
	logger             hclog.Logger
	environments       []string
	defaultEnvironment string
	hosts              map[string][]domain.Host
}

// NewRegistry snapshots the environments, hosts and instances of cfg.
// Later changes to cfg are not observed.
func NewRegistry(logger hclog.Logger, cfg *config.Config) (*Registry, error) {
	if logger == nil || reflect.ValueOf(logger).IsNil() {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	hosts := make(map[string][]domain.Host, len(cfg.Environments))
	for _, env := range cfg.Environments {
		entries := make([]domain.Host, 0, len(env.Hosts))
		for _, h := range env.Hosts {
			entries = append(entries, h.ToDomain())
		}
		hosts[env.Name] = entries
	}

	return &Registry{
		logger:             logger.Named("registry"),
		environments:       cfg.EnvironmentNames(),
		defaultEnvironment: cfg.DefaultEnvironmentName(),
		hosts:              hosts,
	}, nil
}

// Environments returns the configured environment names in configuration order.
func (r *Registry) Environments() []string {
	return slices.Clone(r.environments)
}

// DefaultEnvironment returns the environment used when a caller does not name one.
func (r *Registry) DefaultEnvironment() string {
	return r.defaultEnvironment
}

// ListHosts returns copies of the hosts of the environment in configuration order.
// An empty environment name selects the default environment.
func (r *Registry) ListHosts(ctx context.Context, environment string) ([]domain.Host, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	env, hosts, err := r.lookup(environment)
	if err != nil {
		return nil, err
	}

	r.logger.Trace("Listing hosts", "environment", env, "hosts", len(hosts))

	out := make([]domain.Host, 0, len(hosts))
	for _, h := range hosts {
		h.Instances = slices.Clone(h.Instances)
		out = append(out, h)
	}

	return out, nil
}

// Instance finds an instance by id within the environment and returns it along with its owning host.
func (r *Registry) Instance(ctx context.Context, environment string, id int) (domain.Host, domain.Instance, error) {
	hosts, err := r.ListHosts(ctx, environment)
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

	if strings.TrimSpace(environment) == "" {
		environment = r.defaultEnvironment
	}

	return domain.Host{}, domain.Instance{}, fmt.Errorf(
		"%w: id %d in environment '%s'",
		errors.ErrInstanceNotFound,
		id,
		environment,
	)
}

func (r *Registry) lookup(environment string) (string, []domain.Host, error) {
	environment = strings.TrimSpace(environment)
	if environment == "" {
		environment = r.defaultEnvironment
	}

	hosts, ok := r.hosts[environment]
	if !ok {
		return "", nil, fmt.Errorf("%w: '%s'", errors.ErrEnvironmentNotFound, environment)
	}

	return environment, hosts, nil
}
