package api

import (
	"fmt"
	"net/url"
	"reflect"

	"github.com/danielgtaylor/huma/v2"

	"github.com/fleetwatch/fleetwatch/internal/contracts"
)

// APIVersion is the version used in URL paths.
const APIVersion = "v1"

// RegisterRoutes registers all API routes on the provided Huma router.
// This is the single source of truth for the API route structure.
// Returns the API path prefix (e.g., "/api/v1") under which the routes are created.
func RegisterRoutes(
	router huma.API,
	registry contracts.HostRegistry,
	collector contracts.FleetCollector,
	archiver contracts.ReportArchiver,
) (string, error) {
	if router == nil || reflect.ValueOf(router).IsNil() {
		return "", fmt.Errorf("router cannot be nil")
	}
	if registry == nil || reflect.ValueOf(registry).IsNil() {
		return "", fmt.Errorf("host registry cannot be nil")
	}
	if collector == nil || reflect.ValueOf(collector).IsNil() {
		return "", fmt.Errorf("fleet collector cannot be nil")
	}
	if archiver == nil || reflect.ValueOf(archiver).IsNil() {
		return "", fmt.Errorf("report archiver cannot be nil")
	}

	// The prefix is fixed by APIVersion, whatever version the OpenAPI document reports.
	apiPathPrefix, err := url.JoinPath("/api", APIVersion)
	if err != nil {
		return "", fmt.Errorf("failed to construct API path prefix: %w", err)
	}

	// Group all routes under the /api/{version} prefix.
	versionedGroup := huma.NewGroup(router, apiPathPrefix)
	RegisterEnvironmentRoutes(versionedGroup, registry, "/environments")
	RegisterFleetRoutes(versionedGroup, collector, archiver, "/fleet")
	RegisterReportRoutes(versionedGroup, archiver, "/reports")

	return apiPathPrefix, nil
}
