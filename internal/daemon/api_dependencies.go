package daemon

import (
	"fmt"
	"reflect"

	"github.com/hashicorp/go-hclog"

	"github.com/fleetwatch/fleetwatch/internal/contracts"
)

// APIDependencies contains the required external dependencies for the API server.
// NewAPIDependencies should be used to create instances of APIDependencies.
type APIDependencies struct {
	// Addr specifies the network address to bind (e.g., "0.0.0.0:8090").
	Addr string

	// Registry provides the configured environments and hosts.
	Registry contracts.HostRegistry

	// Collector gathers fleet status on request.
	Collector contracts.FleetCollector

	// Archiver stores and serves reports.
	Archiver contracts.ReportArchiver

	// Logger for API server operations.
	Logger hclog.Logger
}

// NewAPIDependencies creates and validates APIDependencies.
func NewAPIDependencies(
	logger hclog.Logger,
	registry contracts.HostRegistry,
	collector contracts.FleetCollector,
	archiver contracts.ReportArchiver,
	addr string,
) (APIDependencies, error) {
	deps := APIDependencies{
		Addr:      addr,
		Registry:  registry,
		Collector: collector,
		Archiver:  archiver,
		Logger:    logger,
	}

	if err := deps.Validate(); err != nil {
		return APIDependencies{}, err
	}

	return deps, nil
}

// Validate ensures all required dependencies are provided and valid.
func (d APIDependencies) Validate() error {
	if err := validateAddr(d.Addr); err != nil {
		return fmt.Errorf("invalid API address '%s': %w", d.Addr, err)
	}
	if d.Registry == nil || reflect.ValueOf(d.Registry).IsNil() {
		return fmt.Errorf("host registry cannot be nil")
	}
	if d.Collector == nil || reflect.ValueOf(d.Collector).IsNil() {
		return fmt.Errorf("fleet collector cannot be nil")
	}
	if d.Archiver == nil || reflect.ValueOf(d.Archiver).IsNil() {
		return fmt.Errorf("report archiver cannot be nil")
	}
	if d.Logger == nil || reflect.ValueOf(d.Logger).IsNil() {
		return fmt.Errorf("logger cannot be nil")
	}
	return nil
}
