package daemon

import (
	"fmt"
	"reflect"

	"github.com/hashicorp/go-hclog"

	"github.com/fleetwatch/fleetwatch/internal/contracts"
)

// Dependencies contains required dependencies for the Daemon.
// NewDependencies should be used to create instances of Dependencies.
type Dependencies struct {
	// APIAddr specifies the network address for the APIServer to bind (e.g., "0.0.0.0:8090").
	APIAddr string

	// Logger for daemon and subcomponent (API server) operations.
	Logger hclog.Logger

	// Registry provides the configured environments and hosts.
	Registry contracts.HostRegistry

	// Collector gathers fleet status.
	Collector contracts.FleetCollector

	// Archiver stores reports.
	Archiver contracts.ReportArchiver
}

// NewDependencies creates validated Dependencies.
func NewDependencies(
	logger hclog.Logger,
	apiAddr string,
	registry contracts.HostRegistry,
	collector contracts.FleetCollector,
	archiver contracts.ReportArchiver,
) (Dependencies, error) {
	deps := Dependencies{
		APIAddr:   apiAddr,
		Logger:    logger,
		Registry:  registry,
		Collector: collector,
		Archiver:  archiver,
	}

	if err := deps.Validate(); err != nil {
		return Dependencies{}, err
	}

	return deps, nil
}

// Validate ensures all required dependencies are provided and valid.
func (d Dependencies) Validate() error {
	if d.Logger == nil || reflect.ValueOf(d.Logger).IsNil() {
		return fmt.Errorf("logger cannot be nil")
	}

	if err := validateAddr(d.APIAddr); err != nil {
		return fmt.Errorf("invalid API address '%s': %w", d.APIAddr, err)
	}

	if d.Registry == nil || reflect.ValueOf(d.Registry).IsNil() {
		return fmt.Errorf("host registry cannot be nil")
	}

	if len(d.Registry.Environments()) == 0 {
		return fmt.Errorf("no environments configured")
	}

	if d.Collector == nil || reflect.ValueOf(d.Collector).IsNil() {
		return fmt.Errorf("fleet collector cannot be nil")
	}

	if d.Archiver == nil || reflect.ValueOf(d.Archiver).IsNil() {
		return fmt.Errorf("report archiver cannot be nil")
	}

	return nil
}
