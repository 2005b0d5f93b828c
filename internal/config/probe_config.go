package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fleetwatch/fleetwatch/internal/endpoint"
)

const (
	minConcurrency = 1
	maxConcurrency = 64
)

// ProbeConfig controls how management endpoints are contacted during a scan.
type ProbeConfig struct {
	// Client selects the endpoint client: 'http', 'cli' or 'mock'.
	Client *string `json:"client,omitempty" toml:"client,omitempty" yaml:"client,omitempty"`

	// RequestTimeout bounds every single management request.
	RequestTimeout *Duration `json:"requestTimeout,omitempty" toml:"request_timeout,omitempty" yaml:"request_timeout,omitempty"`

	// ScanTimeout bounds a whole fleet collection.
	ScanTimeout *Duration `json:"scanTimeout,omitempty" toml:"scan_timeout,omitempty" yaml:"scan_timeout,omitempty"`

	// Concurrency is the maximum number of instances probed at once.
	Concurrency *int `json:"concurrency,omitempty" toml:"concurrency,omitempty" yaml:"concurrency,omitempty"`

	// Scheme used by the HTTP client ('http' or 'https').
	Scheme *string `json:"scheme,omitempty" toml:"scheme,omitempty" yaml:"scheme,omitempty"`

	// CLIPath is the location of the management CLI script used by the CLI client.
	CLIPath *string `json:"cliPath,omitempty" toml:"cli_path,omitempty" yaml:"cli_path,omitempty"`
}

// ReportsConfig controls where archived reports are stored.
type ReportsConfig struct {
	// Dir holds one JSON document per report, defaults to the user data directory.
	Dir *string `json:"dir,omitempty" toml:"dir,omitempty" yaml:"dir,omitempty"`
}

// Validate validates probe configuration values.
func (p *ProbeConfig) Validate() error {
	if p == nil {
		return nil
	}

	var validationErrors []error

	if p.Client != nil {
		if _, err := endpoint.ParseClientType(*p.Client); err != nil {
			validationErrors = append(validationErrors, err)
		}
	}

	if p.RequestTimeout != nil && *p.RequestTimeout <= 0 {
		validationErrors = append(validationErrors, fmt.Errorf("request timeout must be positive"))
	}

	if p.ScanTimeout != nil && *p.ScanTimeout <= 0 {
		validationErrors = append(validationErrors, fmt.Errorf("scan timeout must be positive"))
	}

	if p.Concurrency != nil && (*p.Concurrency < minConcurrency || *p.Concurrency > maxConcurrency) {
		validationErrors = append(
			validationErrors,
			fmt.Errorf("%w: must be between %d and %d", NewErrInvalidValue("concurrency", fmt.Sprint(*p.Concurrency)), minConcurrency, maxConcurrency),
		)
	}

	if p.Scheme != nil {
		s := strings.ToLower(strings.TrimSpace(*p.Scheme))
		if s != "http" && s != "https" {
			validationErrors = append(validationErrors, fmt.Errorf("%w: must be http or https", NewErrInvalidValue("scheme", *p.Scheme)))
		}
	}

	if p.CLIPath != nil && strings.TrimSpace(*p.CLIPath) == "" {
		validationErrors = append(validationErrors, fmt.Errorf("cli path cannot be empty"))
	}

	return errors.Join(validationErrors...)
}

// ClientOrDefault returns the configured client type, or defaultClient when unset.
func (p *ProbeConfig) ClientOrDefault(defaultClient endpoint.ClientType) endpoint.ClientType {
	if p == nil || p.Client == nil {
		return defaultClient
	}
	ct, err := endpoint.ParseClientType(*p.Client)
	if err != nil {
		return defaultClient
	}
	return ct
}

// RequestTimeoutOrDefault returns the configured request timeout, or d when unset.
func (p *ProbeConfig) RequestTimeoutOrDefault(d time.Duration) time.Duration {
	if p == nil || p.RequestTimeout == nil {
		return d
	}
	return time.Duration(*p.RequestTimeout)
}

// ScanTimeoutOrDefault returns the configured scan timeout, or d when unset.
func (p *ProbeConfig) ScanTimeoutOrDefault(d time.Duration) time.Duration {
	if p == nil || p.ScanTimeout == nil {
		return d
	}
	return time.Duration(*p.ScanTimeout)
}

// ConcurrencyOrDefault returns the configured concurrency, or n when unset.
func (p *ProbeConfig) ConcurrencyOrDefault(n int) int {
	if p == nil || p.Concurrency == nil {
		return n
	}
	return *p.Concurrency
}

// EndpointOptions translates the probe configuration into endpoint client options.
func (p *ProbeConfig) EndpointOptions() []endpoint.Option {
	if p == nil {
		return nil
	}

	var opts []endpoint.Option
	if p.RequestTimeout != nil {
		opts = append(opts, endpoint.WithRequestTimeout(time.Duration(*p.RequestTimeout)))
	}
	if p.Scheme != nil {
		opts = append(opts, endpoint.WithScheme(*p.Scheme))
	}
	if p.CLIPath != nil {
		opts = append(opts, endpoint.WithCLIPath(*p.CLIPath))
	}
	return opts
}

// DirOrDefault returns the configured report directory, or dir when unset.
// A leading '~/' is expanded to home.
func (r *ReportsConfig) DirOrDefault(dir string, home string) string {
	if r == nil || r.Dir == nil || strings.TrimSpace(*r.Dir) == "" {
		return dir
	}
	d := strings.TrimSpace(*r.Dir)
	if strings.HasPrefix(d, "~/") && home != "" {
		return home + d[1:]
	}
	return d
}
