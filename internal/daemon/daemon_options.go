package daemon

import (
	"fmt"
	"strings"
	"time"
)

// Options contains optional configuration for the daemon.
// NewOptions should be used to create instances of Options.
type Options struct {
	// APIOptions contains functional options for the API server.
	APIOptions []APIOption

	// SnapshotInterval specifies how often reports are collected and archived in the background.
	// Zero disables scheduled snapshots.
	SnapshotInterval time.Duration

	// SnapshotEnvironments lists the environments to snapshot.
	// Empty means the registry's default environment.
	SnapshotEnvironments []string
}

// Option defines a functional option for configuring Options.
// Options are applied in order, with later options overriding earlier ones.
type Option func(*Options) error

// NewOptions creates Options with optional configurations applied.
// Starts with default values, then applies options in order with later options overriding earlier ones.
func NewOptions(opts ...Option) (Options, error) {
	options := defaultOptions()

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

// WithAPIOptions configures API server options.
// Replaces all previous API configuration including CORS settings.
func WithAPIOptions(apiOpts ...APIOption) Option {
	return func(o *Options) error {
		o.APIOptions = apiOpts
		return nil
	}
}

// WithSnapshotInterval configures how often reports are archived in the background.
func WithSnapshotInterval(interval time.Duration) Option {
	return func(o *Options) error {
		if interval < MinSnapshotInterval() {
			return fmt.Errorf("snapshot interval must be at least %v, got %v", MinSnapshotInterval(), interval)
		}
		o.SnapshotInterval = interval
		return nil
	}
}

// WithSnapshotEnvironments configures which environments are archived in the background.
func WithSnapshotEnvironments(environments ...string) Option {
	return func(o *Options) error {
		envs := make([]string, 0, len(environments))
		for _, env := range environments {
			env = strings.TrimSpace(env)
			if env == "" {
				return fmt.Errorf("snapshot environment cannot be empty")
			}
			envs = append(envs, env)
		}
		o.SnapshotEnvironments = envs
		return nil
	}
}

// MinSnapshotInterval is the shortest allowed interval between scheduled snapshots.
func MinSnapshotInterval() time.Duration {
	return time.Minute
}

// defaultOptions returns Options with default values.
func defaultOptions() Options {
	return Options{}
}
