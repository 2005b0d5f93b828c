package domain

import (
	"slices"
	"time"
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

const (
	// RuntimeStatusOK is reported by deployments that are up.
	RuntimeStatusOK = "OK"
	// RuntimeStatusUnknown is reported for deployments whose reply carries no status attribute.
	RuntimeStatusUnknown = "UNKNOWN"
)

// ServerState represents the operational state of an application server instance.
type ServerState string

// DataSourceKind distinguishes plain data sources from transactional (XA) ones.
type DataSourceKind string

// Host is a machine that runs one or more application server instances.
type Host struct {
	ID        int        `json:"id"`
	Hostname  string     `json:"hostname"`
	Instances []Instance `json:"instances,omitempty"`
}

// HostRef identifies a Host without its instances.
type HostRef struct {
	ID       int    `json:"id"`
	Hostname string `json:"hostname"`
}

// Instance is a named application server reachable on a management port of its Host.
type Instance struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Port int    `json:"port"`
}

// DataSourceInfo describes a data source as declared by an instance.
type DataSourceInfo struct {
	Name       string         `json:"name"`
	JNDIName   string         `json:"jndiName"`
	DriverName string         `json:"driverName"`
	Kind       DataSourceKind `json:"kind"`
	Enabled    bool           `json:"enabled"`
}

// DataSourceStatus is a DataSourceInfo plus the outcome of its connection test.
type DataSourceStatus struct {
	DataSourceInfo
	Connected bool `json:"connected"`
}

// DeploymentStatus describes a deployed application unit.
type DeploymentStatus struct {
	Name          string `json:"name"`
	Enabled       bool   `json:"enabled"`
	RuntimeStatus string `json:"runtimeStatus"`
}

// InstanceStatus is the normalized result of probing a single instance.
// When ServerState is not running, DataSources and Deployments are always empty.
type InstanceStatus struct {
	Instance    Instance           `json:"instance"`
	ServerState ServerState        `json:"serverState"`
	DataSources []DataSourceStatus `json:"dataSources"`
	Deployments []DeploymentStatus `json:"deployments"`
	Error       string             `json:"error,omitempty"`
}

// HostStatus groups the instance results of one host in registry order.
type HostStatus struct {
	Host      HostRef          `json:"host"`
	Instances []InstanceStatus `json:"instances"`
}

// FleetStatus is the aggregated result of one collection run.
// Values are never mutated after a collection returns them.
type FleetStatus struct {
	Environment string       `json:"environment"`
	Hosts       []HostStatus `json:"hosts"`
	CollectedAt time.Time    `json:"collectedAt"`
}

// Ref returns the identity of the host without its instances.
func (h Host) Ref() HostRef {
	return HostRef{ID: h.ID, Hostname: h.Hostname}
}

// Unreachable returns the status for an instance that could not be probed.
func Unreachable(inst Instance, state ServerState, reason string) InstanceStatus {
	return InstanceStatus{
		Instance:    inst,
		ServerState: state,
		DataSources: []DataSourceStatus{},
		Deployments: []DeploymentStatus{},
		Error:       reason,
	}
}

// Clone returns a deep copy of the instance status.
func (s InstanceStatus) Clone() InstanceStatus {
	s.DataSources = slices.Clone(s.DataSources)
	s.Deployments = slices.Clone(s.Deployments)
	if s.DataSources == nil {
		s.DataSources = []DataSourceStatus{}
	}
	if s.Deployments == nil {
		s.Deployments = []DeploymentStatus{}
	}
	return s
}

// Clone returns a deep copy of the fleet status, sharing no slices with the receiver.
func (f FleetStatus) Clone() FleetStatus {
	hosts := make([]HostStatus, len(f.Hosts))
	for i, h := range f.Hosts {
		instances := make([]InstanceStatus, len(h.Instances))
		for j, inst := range h.Instances {
			instances[j] = inst.Clone()
		}
		hosts[i] = HostStatus{Host: h.Host, Instances: instances}
	}
	f.Hosts = hosts
	return f
}

// Counts returns the number of hosts, instances and running instances.
func (f FleetStatus) Counts() (hosts int, instances int, running int) {
	for _, h := range f.Hosts {
		instances += len(h.Instances)
		for _, inst := range h.Instances {
			if inst.ServerState == ServerStateRunning {
				running++
			}
		}
	}
	return len(f.Hosts), instances, running
}
