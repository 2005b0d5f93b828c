// Package context stores the default management credentials of each environment in a user-only secrets file.
package context

import (
	"bytes"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/fleetwatch/fleetwatch/internal/domain"
	"github.com/fleetwatch/fleetwatch/internal/files"
	"github.com/fleetwatch/fleetwatch/internal/perms"
)

// EnvironmentSecrets are the management credentials stored for one environment.
type EnvironmentSecrets struct {
	Username string `toml:"username,omitempty"`
	Password string `toml:"password,omitempty"`
}

func (e EnvironmentSecrets) toDomain() domain.Credentials {
	return domain.Credentials{Username: e.Username, Password: e.Password}
}

type DefaultLoader struct{}

// Load reads the secrets file at path. A missing file yields an empty, writable configuration.
func (d *DefaultLoader) Load(path string) (Modifier, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("path cannot be empty")
	}

	cfg, err := loadSecretsConfig(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load secrets file: %w", err)
		}

		// Secrets don't exist yet, so create a new instance to interact with.
		cfg = NewSecretsConfig(path)
	}

	return cfg, nil
}

// SecretsConfig stores the management credentials of every environment.
type SecretsConfig struct {
	Environments map[string]EnvironmentSecrets `toml:"environments"`
	filePath     string                        `toml:"-"`
}

// NewSecretsConfig returns a newly initialized SecretsConfig.
func NewSecretsConfig(path string) *SecretsConfig {
	return &SecretsConfig{
		Environments: map[string]EnvironmentSecrets{},
		filePath:     strings.TrimSpace(path),
	}
}

// Path returns the file the secrets are stored in.
func (c *SecretsConfig) Path() string {
	return c.filePath
}

// List returns the names of the environments with stored credentials, sorted.
func (c *SecretsConfig) List() []string {
	return slices.Sorted(maps.Keys(c.Environments))
}

// Get returns the credentials stored for the environment.
func (c *SecretsConfig) Get(environment string) (domain.Credentials, bool) {
	environment = strings.TrimSpace(environment)
	if environment == "" {
		return domain.Credentials{}, false
	}

	s, ok := c.Environments[environment]
	if !ok {
		return domain.Credentials{}, false
	}

	return s.toDomain(), true
}

// Upsert updates the credentials stored for the environment.
// Zero credentials remove an existing entry.
// Returns the operation performed and writes changes to disk if applicable.
func (c *SecretsConfig) Upsert(environment string, creds domain.Credentials) (UpsertResult, error) {
	environment = strings.TrimSpace(environment)
	if environment == "" {
		return Noop, fmt.Errorf("environment name cannot be empty")
	}

	if c.Environments == nil {
		c.Environments = map[string]EnvironmentSecrets{}
	}

	entry := EnvironmentSecrets{Username: strings.TrimSpace(creds.Username), Password: creds.Password}
	current, exists := c.Environments[environment]
	isEmpty := entry == EnvironmentSecrets{}

	var op UpsertResult
	switch {
	case !exists && isEmpty:
		return Noop, nil
	case exists && current == entry:
		return Noop, nil
	case isEmpty:
		delete(c.Environments, environment)
		op = Deleted
	case exists:
		c.Environments[environment] = entry
		op = Updated
	default:
		c.Environments[environment] = entry
		op = Created
	}

	if err := c.SaveConfig(); err != nil {
		return Noop, fmt.Errorf("error saving secrets file: %w", err)
	}

	return op, nil
}

// SaveConfig writes the secrets to disk as TOML, readable only by the current user.
func (c *SecretsConfig) SaveConfig() error {
	path := c.filePath
	if path == "" {
		return fmt.Errorf("secrets file path not present")
	}

	if err := files.EnsureAtLeastSecureDir(filepath.Dir(path)); err != nil {
		return fmt.Errorf("could not ensure secrets directory exists for '%s': %w", path, err)
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Errorf("could not encode secrets to file '%s': %w", path, err)
	}

	return files.WriteFileAtomic(path, buf.Bytes(), perms.SecureFile)
}

// loadSecretsConfig loads the secrets file from disk, refusing files readable by other users.
func loadSecretsConfig(path string) (*SecretsConfig, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("secrets file '%s' does not exist: %w", path, err)
		}

		return nil, fmt.Errorf("could not stat secrets file '%s': %w", path, err)
	}

	if info.Mode().Perm()&^perms.SecureFile != 0 {
		return nil, fmt.Errorf(
			"secrets file '%s' has permissions %#o, want %#o or more restrictive",
			path,
			info.Mode().Perm(),
			perms.SecureFile,
		)
	}

	cfg := NewSecretsConfig(path)
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("secrets file '%s' could not be parsed: %w", path, err)
	}

	if cfg.Environments == nil {
		cfg.Environments = map[string]EnvironmentSecrets{}
	}

	return cfg, nil
}
