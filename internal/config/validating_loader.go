package config

import "fmt"

// ValidationPredicate evaluates a loaded Config and returns an error if invalid.
type ValidationPredicate func(*Config) error

// validatingLoader wraps a Loader to run additional validation predicates at load time.
type validatingLoader struct {
	Loader
	predicates []ValidationPredicate
}

// NewValidatingLoader creates a loader that runs validation predicates after Load().
func NewValidatingLoader(inner Loader, predicates ...ValidationPredicate) *validatingLoader {
	return &validatingLoader{
		Loader:     inner,
		predicates: predicates,
	}
}

// Load delegates to inner loader, then runs validation predicates.
func (l *validatingLoader) Load(path string) (*Config, error) {
	cfg, err := l.Loader.Load(path)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("invalid config structure")
	}

	for _, predicate := range l.predicates {
		if err := predicate(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// RequireEnvironments rejects configurations without any environment.
func RequireEnvironments(cfg *Config) error {
	if len(cfg.Environments) == 0 {
		return fmt.Errorf("%w: no environments configured", ErrConfigLoadFailed)
	}
	return nil
}

// RequireHosts rejects configurations where no environment declares a host.
func RequireHosts(cfg *Config) error {
	for _, env := range cfg.Environments {
		if len(env.Hosts) > 0 {
			return nil
		}
	}
	return fmt.Errorf("%w: no hosts configured in any environment", ErrConfigLoadFailed)
}
