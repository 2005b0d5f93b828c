package endpoint

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	ClientTypeHTTP ClientType = "http"
	ClientTypeCLI  ClientType = "cli"
	ClientTypeMock ClientType = "mock"
)

// ClientType selects the Client implementation created by New.
type ClientType string

// Options contains optional configuration for endpoint clients.
// NewOptions should be used to create instances of Options.
type Options struct {
	// RequestTimeout bounds every single Execute call.
	RequestTimeout time.Duration

	// Scheme used by the HTTP client ("http" or "https").
	Scheme string

	// ManagementPath is the URL path of the HTTP management interface.
	ManagementPath string

	// HTTPClient used by the HTTP client, mainly to allow injecting test transports.
	HTTPClient *http.Client

	// CLIPath is the location of the management CLI script used by the CLI client.
	CLIPath string

	// CommandRunner executes the management CLI, mainly to allow injecting fakes in tests.
	CommandRunner CommandRunner
}

// Option defines a functional option for configuring Options.
// Options are applied in order, with later options overriding earlier ones.
type Option func(*Options) error

// NewOptions creates Options with optional configurations applied on top of the defaults.
func NewOptions(opts ...Option) (Options, error) {
	options := Options{
		RequestTimeout: DefaultRequestTimeout(),
		Scheme:         "http",
		ManagementPath: "/management",
		CLIPath:        DefaultCLIPath(),
		CommandRunner:  execRunner,
	}

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&options); err != nil {
			return Options{}, err
		}
	}

	return options, nil
}

// WithRequestTimeout bounds every management request.
func WithRequestTimeout(timeout time.Duration) Option {
	return func(o *Options) error {
		if timeout <= 0 {
			return fmt.Errorf("request timeout must be positive, got %v", timeout)
		}
		o.RequestTimeout = timeout
		return nil
	}
}

// WithScheme sets the scheme used to reach the HTTP management interface.
func WithScheme(scheme string) Option {
	return func(o *Options) error {
		scheme = strings.ToLower(strings.TrimSpace(scheme))
		if scheme != "http" && scheme != "https" {
			return fmt.Errorf("unsupported scheme '%s', must be one of: http, https", scheme)
		}
		o.Scheme = scheme
		return nil
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(o *Options) error {
		if c == nil {
			return fmt.Errorf("http client cannot be nil")
		}
		o.HTTPClient = c
		return nil
	}
}

// WithCLIPath sets the location of the management CLI script.
func WithCLIPath(path string) Option {
	return func(o *Options) error {
		path = strings.TrimSpace(path)
		if path == "" {
			return fmt.Errorf("cli path cannot be empty")
		}
		o.CLIPath = path
		return nil
	}
}

// WithCommandRunner overrides how the management CLI is executed.
func WithCommandRunner(r CommandRunner) Option {
	return func(o *Options) error {
		if r == nil {
			return fmt.Errorf("command runner cannot be nil")
		}
		o.CommandRunner = r
		return nil
	}
}

// DefaultRequestTimeout is the default bound for a single management request.
func DefaultRequestTimeout() time.Duration {
	return 5 * time.Second
}

// DefaultCLIPath is the default location of the management CLI script.
func DefaultCLIPath() string {
	return "/opt/jboss/bin/jboss-cli.sh"
}

// AllowedClientTypes returns the client types accepted by New.
func AllowedClientTypes() []ClientType {
	return []ClientType{ClientTypeCLI, ClientTypeHTTP, ClientTypeMock}
}

// ParseClientType validates a client type string.
func ParseClientType(s string) (ClientType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, t := range AllowedClientTypes() {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unsupported endpoint client '%s', must be one of: http, cli, mock", s)
}
