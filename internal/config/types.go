package config

import "github.com/fleetwatch/fleetwatch/internal/domain"

var (
	_ Provider = (*DefaultLoader)(nil)
	_ Loader   = (*validatingLoader)(nil)
)

type Loader interface {
	Load(path string) (*Config, error)
}

type Initializer interface {
	Init(path string) error
}

type Provider interface {
	Initializer
	Loader
}

type DefaultLoader struct{}

// Config represents the .fleetwatch.toml file structure.
type Config struct {
	// DefaultEnvironment is scanned when a caller does not name an environment.
	// When unset, the first configured environment is used.
	DefaultEnvironment string `json:"defaultEnvironment,omitempty" toml:"default_environment,omitempty" yaml:"default_environment,omitempty"`

	Daemon  *DaemonConfig  `json:"daemon,omitempty"  toml:"daemon,omitempty"  yaml:"daemon,omitempty"`
	Probe   *ProbeConfig   `json:"probe,omitempty"   toml:"probe,omitempty"   yaml:"probe,omitempty"`
	Reports *ReportsConfig `json:"reports,omitempty" toml:"reports,omitempty" yaml:"reports,omitempty"`

	// Environments group the monitored hosts, e.g. 'production' and 'non-production'.
	Environments []EnvironmentEntry `json:"environments" toml:"environments" yaml:"environments"`

	configFilePath string `toml:"-"`
}

// EnvironmentEntry is a named group of hosts scanned together.
type EnvironmentEntry struct {
	Name  string      `json:"name"  toml:"name"  yaml:"name"`
	Hosts []HostEntry `json:"hosts" toml:"hosts" yaml:"hosts"`
}

// HostEntry is a machine running one or more application server instances.
type HostEntry struct {
	// ID is unique within the environment.
	ID int `json:"id" toml:"id" yaml:"id"`

	// Hostname is used to reach the management endpoints of the instances.
	Hostname string `json:"hostname" toml:"hostname" yaml:"hostname"`

	Instances []InstanceEntry `json:"instances" toml:"instances" yaml:"instances"`
}

// InstanceEntry is an application server instance reachable on a management port.
type InstanceEntry struct {
	// ID is unique within the environment.
	ID int `json:"id" toml:"id" yaml:"id"`

	// Name is the display name of the instance, e.g. 'node-a'.
	Name string `json:"name" toml:"name" yaml:"name"`

	// Port of the management interface (9990 by default on the application server).
	Port int `json:"port" toml:"port" yaml:"port"`
}

// ToDomain converts the host entry, preserving instance order.
func (h HostEntry) ToDomain() domain.Host {
	instances := make([]domain.Instance, 0, len(h.Instances))
	for _, inst := range h.Instances {
		instances = append(instances, domain.Instance{ID: inst.ID, Name: inst.Name, Port: inst.Port})
	}

	return domain.Host{
		ID:        h.ID,
		Hostname:  h.Hostname,
		Instances: instances,
	}
}

// InstanceCount returns the number of instances across all hosts of the environment.
func (e EnvironmentEntry) InstanceCount() int {
	n := 0
	for _, h := range e.Hosts {
		n += len(h.Instances)
	}
	return n
}
