package collector

import (
	"github.com/fleetwatch/fleetwatch/internal/domain"
	"github.com/fleetwatch/fleetwatch/internal/filter"
)

const (
	FilterKeyState      = "state"
	FilterKeyHostname   = "hostname"
	FilterKeyName       = "name"
	FilterKeyDeployment = "deployment"
	FilterKeyHealthy    = "healthy"
)

// instanceView is what instance filters are matched against.
type instanceView struct {
	hostname string
	status   domain.InstanceStatus
}

func instanceMatchers() []filter.Option[instanceView] {
	return []filter.Option[instanceView]{
		filter.WithMatchers(map[string]filter.Predicate[instanceView]{
			FilterKeyState: filter.Equals(func(v instanceView) string {
				return string(v.status.ServerState)
			}),
			FilterKeyHostname: filter.Partial(func(v instanceView) string {
				return v.hostname
			}),
			FilterKeyName: filter.Partial(func(v instanceView) string {
				return v.status.Instance.Name
			}),
			FilterKeyDeployment: filter.PartialAny(func(v instanceView) []string {
				names := make([]string, 0, len(v.status.Deployments))
				for _, d := range v.status.Deployments {
					names = append(names, d.Name)
				}
				return names
			}),
			FilterKeyHealthy: filter.EqualsBool(func(v instanceView) bool {
				return Healthy(v.status)
			}),
		}),
	}
}

// Healthy reports whether an instance is running, every enabled data source is connected
// and every enabled deployment reports OK.
func Healthy(s domain.InstanceStatus) bool {
	if s.ServerState != domain.ServerStateRunning {
		return false
	}
	for _, ds := range s.DataSources {
		if ds.Enabled && !ds.Connected {
			return false
		}
	}
	for _, d := range s.Deployments {
		if d.Enabled && d.RuntimeStatus != domain.RuntimeStatusOK {
			return false
		}
	}
	return true
}

// ValidateFilters returns an error naming every filter key FilterFleet does not support.
func ValidateFilters(filters map[string]string) error {
	opts, err := filter.NewOptions(instanceMatchers()...)
	if err != nil {
		return err
	}
	return opts.Validate(filters)
}

// FilterFleet returns a copy of status holding only the instances that match every filter.
// Hosts left without instances are dropped. Supported keys are state, hostname, name,
// deployment and healthy.
func FilterFleet(status domain.FleetStatus, filters map[string]string) (domain.FleetStatus, error) {
	opts, err := filter.NewOptions(instanceMatchers()...)
	if err != nil {
		return domain.FleetStatus{}, err
	}
	if err := opts.Validate(filters); err != nil {
		return domain.FleetStatus{}, err
	}

	out := status.Clone()
	if len(filters) == 0 {
		return out, nil
	}

	hosts := make([]domain.HostStatus, 0, len(out.Hosts))
	for _, h := range out.Hosts {
		var instances []domain.InstanceStatus
		for _, inst := range h.Instances {
			ok, err := opts.Match(instanceView{hostname: h.Host.Hostname, status: inst}, filters)
			if err != nil {
				return domain.FleetStatus{}, err
			}
			if ok {
				instances = append(instances, inst)
			}
		}
		if len(instances) > 0 {
			hosts = append(hosts, domain.HostStatus{Host: h.Host, Instances: instances})
		}
	}
	out.Hosts = hosts

	return out, nil
}
