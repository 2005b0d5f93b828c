//go:build docsgen_api
// +build docsgen_api

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hashicorp/go-hclog"

	"github.com/fleetwatch/fleetwatch/internal/api"
	"github.com/fleetwatch/fleetwatch/internal/domain"
	"github.com/fleetwatch/fleetwatch/internal/files"
	"github.com/fleetwatch/fleetwatch/internal/perms"
)

// stubRegistry provides a stub implementation for documentation generation.
type stubRegistry struct{}

func (s *stubRegistry) Environments() []string     { return nil }
func (s *stubRegistry) DefaultEnvironment() string { return "" }
func (s *stubRegistry) ListHosts(context.Context, string) ([]domain.Host, error) {
	return nil, nil
}

func (s *stubRegistry) Instance(context.Context, string, int) (domain.Host, domain.Instance, error) {
	return domain.Host{}, domain.Instance{}, nil
}

// stubCollector provides a stub implementation for documentation generation.
type stubCollector struct{}

func (s *stubCollector) Collect(context.Context, string, domain.Credentials) (domain.FleetStatus, error) {
	return domain.FleetStatus{}, nil
}

func (s *stubCollector) CollectInstance(
	context.Context,
	string,
	int,
	domain.Credentials,
) (domain.HostRef, domain.InstanceStatus, error) {
	return domain.HostRef{}, domain.InstanceStatus{}, nil
}

// stubArchiver provides a stub implementation for documentation generation.
type stubArchiver struct{}

func (s *stubArchiver) Save(context.Context, domain.FleetStatus, string) (domain.Report, error) {
	return domain.Report{}, nil
}

func (s *stubArchiver) List(context.Context, int, string) ([]domain.ReportSummary, error) {
	return nil, nil
}
func (s *stubArchiver) Get(context.Context, string) (domain.Report, error) { return domain.Report{}, nil }

// main generates the OpenAPI specification for the fleetwatch API.
// It assumes it is run from the repository root.
func main() {
	logger := hclog.New(&hclog.LoggerOptions{
		Name:   "fleetwatch.docsgen.api",
		Level:  hclog.Info,
		Output: os.Stderr,
	})

	// Output path for the OpenAPI spec, relative to the repository root.
	outputPath := "./docs/api/openapi.yaml"

	// Create a chi router (same as the daemon).
	mux := chi.NewMux()
	mux.Use(middleware.StripSlashes)

	// Create Huma config and router (same as the daemon).
	config := huma.DefaultConfig("fleetwatch docs", api.APIVersion)
	router := humachi.New(mux, config)

	// The OpenAPI spec generation only needs the route definitions, not the actual handlers.
	apiPathPrefix, err := api.RegisterRoutes(router, &stubRegistry{}, &stubCollector{}, &stubArchiver{})
	if err != nil {
		logger.Error("failed to register API routes", "error", err)
		os.Exit(1)
	}

	logger.Info("Routes registered", "prefix", apiPathPrefix)

	yamlBytes, err := router.OpenAPI().YAML()
	if err != nil {
		logger.Error("failed to generate OpenAPI YAML", "error", err)
		os.Exit(1)
	}

	docsDir := filepath.Dir(outputPath)
	if err := os.MkdirAll(docsDir, perms.RegularDir); err != nil {
		logger.Error("failed to create docs directory", "path", docsDir, "error", err)
		os.Exit(1)
	}

	if err := files.WriteFileAtomic(outputPath, yamlBytes, perms.RegularFile); err != nil {
		logger.Error("failed to write OpenAPI spec", "path", outputPath, "error", err)
		os.Exit(1)
	}

	logger.Info("OpenAPI spec generated", "path", outputPath, "size", fmt.Sprintf("%d bytes", len(yamlBytes)))
}
