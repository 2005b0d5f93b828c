package daemon

import (
	"context"
	stdErrors "errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/hashicorp/go-hclog"

	"github.com/fleetwatch/fleetwatch/internal/api"
	"github.com/fleetwatch/fleetwatch/internal/contracts"
	"github.com/fleetwatch/fleetwatch/internal/errors"
)

// APIServer manages the HTTP API for the daemon.
// NewAPIServer should be used to create instances of APIServer.
type APIServer struct {
	// Logger for API server operations.
	logger hclog.Logger

	// Registry provides the configured environments and hosts.
	registry contracts.HostRegistry

	// Collector gathers fleet status on request.
	collector contracts.FleetCollector

	// Archiver stores and serves reports.
	archiver contracts.ReportArchiver

	// Addr specifies the network address to bind.
	addr string

	// CORS configuration for cross-origin requests.
	cors CORSConfig

	// ShutdownTimeout specifies how long to wait for graceful shutdown.
	shutdownTimeout time.Duration
}

// NewAPIServer creates a new API server with the provided dependencies and options.
// Applies default options first, then user-provided options to ensure all fields have valid values.
func NewAPIServer(deps APIDependencies, opt ...APIOption) (*APIServer, error) {
	if err := deps.Validate(); err != nil {
		return nil, fmt.Errorf("invalid dependencies for API server: %w", err)
	}

	// Ensure we always start with defaults and apply user options on top.
	apiOpts, err := NewAPIOptions(opt...)
	if err != nil {
		return nil, fmt.Errorf("invalid API options: %w", err)
	}

	return &APIServer{
		logger:          deps.Logger.Named("api"),
		registry:        deps.Registry,
		collector:       deps.Collector,
		archiver:        deps.Archiver,
		addr:            deps.Addr,
		cors:            apiOpts.CORS,
		shutdownTimeout: apiOpts.ShutdownTimeout,
	}, nil
}

// Handler builds the router serving the versioned API and its OpenAPI documentation.
// Returns the API path prefix the routes are registered under.
func (a *APIServer) Handler() (http.Handler, string, error) {
	mux := chi.NewMux()
	mux.Use(middleware.StripSlashes)

	// Add CORS middleware if enabled.
	if a.cors.Enabled {
		a.applyCORS(mux)
	}

	config := huma.DefaultConfig("fleetwatch docs", api.APIVersion)
	config.Transformers = append(config.Transformers, api.Transformers()...)
	router := humachi.New(mux, config)

	// Configure the error handling wrapping.
	huma.NewErrorWithContext = errorHandler(a.logger)

	apiPathPrefix, err := api.RegisterRoutes(router, a.registry, a.collector, a.archiver)
	if err != nil {
		return nil, "", err
	}

	return mux, apiPathPrefix, nil
}

// Start starts the API server and blocks until the context is canceled or an error occurs.
// The ready channel, when not nil, is closed once the listener is bound.
func (a *APIServer) Start(ctx context.Context, ready chan<- struct{}) error {
	handler, apiPathPrefix, err := a.Handler()
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", a.addr)
	if err != nil {
		return fmt.Errorf("failed to bind API address '%s': %w", a.addr, err)
	}

	srv := &http.Server{
		Addr:              a.addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)

	// Start the API.
	go func() {
		a.logger.Info("Starting API server", "address", ln.Addr().String(), "prefix", apiPathPrefix)
		if err := srv.Serve(ln); err != nil && !stdErrors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	if ready != nil {
		close(ready)
	}

	// Handle graceful shutdown.
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()
		a.logger.Info("Shutting down API server...")
		_ = srv.Shutdown(shutdownCtx)
		a.logger.Info("Shutdown complete")
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

// applyCORS applies CORS middleware to the router based on the configured options.
func (a *APIServer) applyCORS(mux *chi.Mux) {
	a.logger.Info("Enabling CORS", "origins", a.cors.AllowOrigins)

	mux.Use(cors.Handler(a.corsOptions()))
}

// corsOptions converts the CORS configuration into go-chi/cors options.
// A wildcard origin replaces all other origins and disables credentials.
func (a *APIServer) corsOptions() cors.Options {
	opts := cors.Options{
		AllowedMethods:   a.cors.AllowMethods,
		AllowedHeaders:   a.cors.AllowedHeaders,
		ExposedHeaders:   a.cors.ExposedHeaders,
		AllowCredentials: a.cors.AllowCredentials,
		MaxAge:           int(a.cors.MaxAge.Seconds()),
	}

	origins := make([]string, 0, len(a.cors.AllowOrigins))
	for _, origin := range a.cors.AllowOrigins {
		origin = strings.TrimSpace(origin)
		if origin == "*" {
			origins = []string{"*"}
			opts.AllowCredentials = false
			break
		}
		origins = append(origins, origin)
	}
	opts.AllowedOrigins = origins

	return opts
}

// mapError maps application domain errors to appropriate HTTP status codes.
//
// This function is the central place where domain errors from internal/errors are converted to HTTP responses.
// When adding new errors to internal/errors/errors.go, you MUST add them here to prevent them from falling
// through to the default case which returns HTTP 500.
//
// Mapping guidelines:
//   - 400: Client errors (bad input, invalid requests)
//   - 404: Resource not found errors
//   - 503: The host registry cannot be read
//   - 500: Report storage failures and unexpected internal errors (default case)
//
// Don't forget to add test cases to TestMapError (internal/daemon/api_server_test.go).
func mapError(logger hclog.Logger, err error) huma.StatusError {
	switch {
	case stdErrors.Is(err, errors.ErrBadRequest):
		return huma.Error400BadRequest(err.Error())
	case stdErrors.Is(err, errors.ErrEnvironmentNotFound):
		return huma.Error404NotFound(err.Error())
	case stdErrors.Is(err, errors.ErrInstanceNotFound):
		return huma.Error404NotFound(err.Error())
	case stdErrors.Is(err, errors.ErrReportNotFound):
		return huma.Error404NotFound(err.Error())
	case stdErrors.Is(err, errors.ErrRegistryUnavailable):
		logger.Error("Host registry unavailable", "error", err)
		return huma.Error503ServiceUnavailable("Host registry unavailable", err)
	case stdErrors.Is(err, errors.ErrReportStoreFailed):
		logger.Error("Report store failed", "error", err)
		return huma.Error500InternalServerError("Report store failed", err)
	default:
		logger.Error("Unexpected error handling API request", "error", err)
		return huma.Error500InternalServerError("Internal server error", err)
	}
}

// errorHandler wraps error handling for the application when converting to API friendly errors.
// Errors raised by handlers arrive with status 500 and are mapped to their domain status.
// Errors raised by Huma itself, such as request validation failures, keep their status and details.
func errorHandler(logger hclog.Logger) func(_ huma.Context, status int, msg string, errs ...error) huma.StatusError {
	return func(_ huma.Context, status int, msg string, errs ...error) huma.StatusError {
		if status != http.StatusInternalServerError || len(errs) == 0 {
			return huma.NewError(status, msg, errs...)
		}

		if len(errs) == 1 {
			return mapError(logger, errs[0])
		}

		// Multiple errors; join them and map.
		return mapError(logger, stdErrors.Join(errs...))
	}
}
