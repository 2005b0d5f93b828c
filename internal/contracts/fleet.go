package contracts

import (
	"context"

	"github.com/fleetwatch/fleetwatch/internal/domain"
)

// HostRegistry provides read access to the hosts and instances configured per environment.
type HostRegistry interface {
	// Environments returns the configured environment names in configuration order.
	Environments() []string

	// DefaultEnvironment returns the environment used when a caller does not name one.
	DefaultEnvironment() string

	// ListHosts returns the hosts of the environment, each with its instances, in registry order.
	ListHosts(ctx context.Context, environment string) ([]domain.Host, error)

	// Instance finds an instance by id within the environment and returns it along with its owning host.
	Instance(ctx context.Context, environment string, id int) (domain.Host, domain.Instance, error)
}

// FleetCollector gathers the status of every instance of an environment.
type FleetCollector interface {
	// Collect probes all instances of the environment.
	// Only a registry read failure is returned as an error; unreachable instances are part of the result.
	Collect(ctx context.Context, environment string, creds domain.Credentials) (domain.FleetStatus, error)

	// CollectInstance probes a single instance by id and returns it along with its owning host.
	CollectInstance(
		ctx context.Context,
		environment string,
		instanceID int,
		creds domain.Credentials,
	) (domain.HostRef, domain.InstanceStatus, error)
}

// ReportArchiver freezes fleet snapshots into immutable reports.
type ReportArchiver interface {
	// Save archives a copy of status tagged with environment.
	Save(ctx context.Context, status domain.FleetStatus, environment string) (domain.Report, error)

	// List returns up to limit report summaries, most recent first.
	// An empty environment matches every report.
	List(ctx context.Context, limit int, environment string) ([]domain.ReportSummary, error)

	// Get returns the report with the given id.
	Get(ctx context.Context, id string) (domain.Report, error)
}

// CredentialSource resolves the default management credentials of an environment.
type CredentialSource interface {
	// Credentials returns the stored credentials for the environment, which may be zero.
	Credentials(environment string) domain.Credentials
}
