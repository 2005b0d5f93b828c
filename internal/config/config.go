package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/fleetwatch/fleetwatch/internal/perms"
)

// skeleton is written by Init.
const skeleton = `# Environment scanned when none is requested.
default_environment = "non-production"

[probe]
client = "http"
request_timeout = "5s"
scan_timeout = "60s"
concurrency = 8

[[environments]]
name = "non-production"

#  [[environments.hosts]]
#  id = 1
#  hostname = "app01.internal"
#
#    [[environments.hosts.instances]]
#    id = 1
#    name = "node-a"
#    port = 9990
`

// Init creates the base skeleton configuration file for the fleetwatch project.
func (d *DefaultLoader) Init(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	if err := os.WriteFile(path, []byte(skeleton), perms.RegularFile); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}

// Load decodes and validates the configuration file at path.
func (d *DefaultLoader) Load(path string) (*Config, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("%w: path cannot be empty", ErrConfigLoadFailed)
	}

	_, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: config file cannot be found, run: 'fleetwatch init'", ErrConfigLoadFailed)
		}
		return nil, fmt.Errorf("%w: failed to stat config file (%s): %w", ErrConfigLoadFailed, path, err)
	}

	var cfg *Config
	_, err = toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode config from file (%s): %w", ErrConfigLoadFailed, path, err)
	}
	if cfg == nil {
		return nil, fmt.Errorf("%w: config file is empty (%s)", ErrConfigLoadFailed, path)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%w: failed to validate existing config (%s): %w", ErrConfigLoadFailed, path, err)
	}

	// Update the path that loaded this file to track it.
	cfg.configFilePath = path

	return cfg, nil
}

// Path returns the file this configuration was loaded from.
func (c *Config) Path() string {
	return c.configFilePath
}

// EnvironmentNames returns the configured environment names in file order.
func (c *Config) EnvironmentNames() []string {
	names := make([]string, 0, len(c.Environments))
	for _, e := range c.Environments {
		names = append(names, e.Name)
	}
	return names
}

// DefaultEnvironmentName returns the environment used when none is requested.
func (c *Config) DefaultEnvironmentName() string {
	if c.DefaultEnvironment != "" {
		return c.DefaultEnvironment
	}
	if len(c.Environments) > 0 {
		return c.Environments[0].Name
	}
	return ""
}

// Environment returns the named environment entry.
func (c *Config) Environment(name string) (EnvironmentEntry, bool) {
	name = strings.TrimSpace(name)
	for _, e := range c.Environments {
		if e.Name == name {
			return e, true
		}
	}
	return EnvironmentEntry{}, false
}

// validate orchestrates validation of configuration structure.
func (c *Config) validate() error {
	var validationErrors []error

	if err := c.validateEnvironments(); err != nil {
		validationErrors = append(validationErrors, err)
	}

	if c.DefaultEnvironment != "" {
		if _, ok := c.Environment(c.DefaultEnvironment); !ok {
			validationErrors = append(
				validationErrors,
				fmt.Errorf("default environment '%s' is not configured", c.DefaultEnvironment),
			)
		}
	}

	if c.Daemon != nil {
		if err := c.Daemon.Validate(); err != nil {
			validationErrors = append(validationErrors, fmt.Errorf("daemon configuration error: %w", err))
		}
	}

	if c.Daemon != nil && c.Daemon.Snapshot != nil {
		for _, env := range c.Daemon.Snapshot.Environments {
			if _, ok := c.Environment(env); !ok {
				validationErrors = append(
					validationErrors,
					fmt.Errorf("snapshot environment '%s' is not configured", env),
				)
			}
		}
	}

	if c.Probe != nil {
		if err := c.Probe.Validate(); err != nil {
			validationErrors = append(validationErrors, fmt.Errorf("probe configuration error: %w", err))
		}
	}

	return errors.Join(validationErrors...)
}

// validateEnvironments ensures environment names are unique and each environment is well formed.
func (c *Config) validateEnvironments() error {
	seen := map[string]struct{}{}

	for _, env := range c.Environments {
		if strings.TrimSpace(env.Name) == "" {
			return fmt.Errorf("environment entry has empty name")
		}
		if _, ok := seen[env.Name]; ok {
			return fmt.Errorf("duplicate environment name '%s'", env.Name)
		}
		seen[env.Name] = struct{}{}

		if err := env.validate(); err != nil {
			return fmt.Errorf("environment '%s': %w", env.Name, err)
		}
	}

	return nil
}

// validate ensures host and instance ids are unique within the environment and every entry is reachable.
func (e EnvironmentEntry) validate() error {
	hostIDs := map[int]struct{}{}
	instanceIDs := map[int]struct{}{}

	for _, h := range e.Hosts {
		if h.ID <= 0 {
			return fmt.Errorf("host '%s' must have a positive id, got %d", h.Hostname, h.ID)
		}
		if _, ok := hostIDs[h.ID]; ok {
			return fmt.Errorf("duplicate host id %d", h.ID)
		}
		hostIDs[h.ID] = struct{}{}

		if strings.TrimSpace(h.Hostname) == "" {
			return fmt.Errorf("host %d has empty hostname", h.ID)
		}

		for _, inst := range h.Instances {
			if inst.ID <= 0 {
				return fmt.Errorf("instance '%s' on host '%s' must have a positive id, got %d", inst.Name, h.Hostname, inst.ID)
			}
			if _, ok := instanceIDs[inst.ID]; ok {
				return fmt.Errorf("duplicate instance id %d", inst.ID)
			}
			instanceIDs[inst.ID] = struct{}{}

			if strings.TrimSpace(inst.Name) == "" {
				return fmt.Errorf("instance %d on host '%s' has empty name", inst.ID, h.Hostname)
			}
			if inst.Port < 1 || inst.Port > 65535 {
				return fmt.Errorf("instance '%s' on host '%s' has invalid port %d", inst.Name, h.Hostname, inst.Port)
			}
		}
	}

	return nil
}
