// Package mgmt builds the read-only management commands issued to application server instances
// and normalizes their replies into domain types.
//
// Commands use the management CLI syntax (e.g. "/subsystem=datasources:read-resource(recursive=true)").
// Transports that do not speak the CLI syntax translate commands with ParseOperation.
package mgmt

import (
	"fmt"

	"github.com/fleetwatch/fleetwatch/internal/domain"
)

const (
	// ResourceDataSource is the resource category of plain data sources.
	ResourceDataSource = "data-source"

	// ResourceXADataSource is the resource category of transactional data sources.
	ResourceXADataSource = "xa-data-source"

	// StateRunning is the server-state attribute value of a fully started server.
	StateRunning = "running"
)

// Reply is the single shape returned by an endpoint for any command.
// Payload holds the command specific result tree (decoded JSON), or a failure description.
type Reply struct {
	Succeeded bool
	Payload   any
}

// ServerStateQuery returns the command that reads the server-state attribute.
func ServerStateQuery() string {
	return ":read-attribute(name=server-state)"
}

// DataSourceEnumeration returns the command that lists plain and transactional data sources.
func DataSourceEnumeration() string {
	return "/subsystem=datasources:read-resource(recursive=true)"
}

// ConnectionTest returns the command that tests the pool of the named data source.
func ConnectionTest(name string, kind domain.DataSourceKind) string {
	return fmt.Sprintf("/subsystem=datasources/%s=%s:test-connection-in-pool", resourceFor(kind), name)
}

// DeploymentEnumeration returns the command that lists deployments including runtime attributes.
func DeploymentEnumeration() string {
	return "/deployment=*:read-resource(include-runtime=true)"
}

func resourceFor(kind domain.DataSourceKind) string {
	if kind == domain.DataSourceKindTransactional {
		return ResourceXADataSource
	}
	return ResourceDataSource
}
