package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/fleetwatch/fleetwatch/internal/contracts"
)

// Environment is a configured environment with the size of its fleet.
type Environment struct {
	Name      string `json:"name" yaml:"name"      example:"production"`
	Default   bool   `json:"default" yaml:"default"   doc:"Whether this environment is scanned when none is named"`
	Hosts     int    `json:"hosts" yaml:"hosts"`
	Instances int    `json:"instances" yaml:"instances"`
}

// EnvironmentsListResponse represents the wrapped API response for the configured environments.
type EnvironmentsListResponse struct {
	Body struct {
		Environments []Environment `json:"environments" yaml:"environments" doc:"Environments in configuration order"`
	}
}

// RegisterEnvironmentRoutes sets up environment API endpoint routes.
func RegisterEnvironmentRoutes(routerAPI huma.API, registry contracts.HostRegistry, apiPathPrefix string) {
	envAPI := huma.NewGroup(routerAPI, apiPathPrefix)
	tags := []string{"Environments"}

	huma.Register(
		envAPI,
		huma.Operation{
			OperationID: "listEnvironments",
			Method:      http.MethodGet,
			Summary:     "List configured environments",
			Tags:        tags,
		},
		func(ctx context.Context, _ *struct{}) (*EnvironmentsListResponse, error) {
			return handleEnvironmentsList(ctx, registry)
		},
	)
}

// handleEnvironmentsList returns every configured environment with host and instance counts.
func handleEnvironmentsList(ctx context.Context, registry contracts.HostRegistry) (*EnvironmentsListResponse, error) {
	names := registry.Environments()
	defaultEnv := registry.DefaultEnvironment()

	resp := &EnvironmentsListResponse{}
	resp.Body.Environments = make([]Environment, 0, len(names))
	for _, name := range names {
		hosts, err := registry.ListHosts(ctx, name)
		if err != nil {
			return nil, err
		}

		instances := 0
		for _, h := range hosts {
			instances += len(h.Instances)
		}

		resp.Body.Environments = append(resp.Body.Environments, Environment{
			Name:      name,
			Default:   name == defaultEnv,
			Hosts:     len(hosts),
			Instances: instances,
		})
	}

	return resp, nil
}
