package context

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fleetwatch/fleetwatch/internal/domain"
	"github.com/fleetwatch/fleetwatch/internal/perms"
)

func TestDefaultLoader_Load(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		setup      func(t *testing.T) string
		errMsg     string
		expectInit bool
	}{
		{
			name: "file does not exist - returns initialized config",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "nonexistent.toml")
			},
			expectInit: true,
		},
		{
			name: "file exists and is valid",
			setup: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "secrets.toml")
				content := `
[environments.production]
username = "admin"
password = "s3cret"
`
				require.NoError(t, os.WriteFile(path, []byte(content), perms.SecureFile))
				return path
			},
		},
		{
			name: "file exists but is malformed",
			setup: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "bad.toml")
				require.NoError(t, os.WriteFile(path, []byte("not [valid"), perms.SecureFile))
				return path
			},
			errMsg: "could not be parsed",
		},
		{
			name: "file readable by others",
			setup: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "open.toml")
				require.NoError(t, os.WriteFile(path, []byte(""), perms.RegularFile))
				require.NoError(t, os.Chmod(path, perms.RegularFile))
				return path
			},
			errMsg: "want 0600 or more restrictive",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cfg, err := (&DefaultLoader{}).Load(tc.setup(t))
			if tc.errMsg != "" {
				require.ErrorContains(t, err, "failed to load secrets file")
				require.ErrorContains(t, err, tc.errMsg)
				return
			}

			require.NoError(t, err)
			if tc.expectInit {
				require.Empty(t, cfg.List())
				return
			}

			require.Equal(t, []string{"production"}, cfg.List())
			creds, ok := cfg.Get("production")
			require.True(t, ok)
			require.Equal(t, domain.Credentials{Username: "admin", Password: "s3cret"}, creds)
		})
	}
}

func TestDefaultLoader_Load_EmptyPath(t *testing.T) {
	t.Parallel()

	_, err := (&DefaultLoader{}).Load(" ")
	require.EqualError(t, err, "path cannot be empty")
}

func TestSecretsConfig_Upsert(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "fleetwatch", "secrets.toml")
	cfg := NewSecretsConfig(path)

	steps := []struct {
		name     string
		env      string
		creds    domain.Credentials
		expected UpsertResult
	}{
		{name: "empty new entry", env: "production", expected: Noop},
		{name: "create", env: "production", creds: domain.Credentials{Username: "admin", Password: "one"}, expected: Created},
		{name: "unchanged", env: "production", creds: domain.Credentials{Username: "admin", Password: "one"}, expected: Noop},
		{name: "update", env: "production", creds: domain.Credentials{Username: "admin", Password: "two"}, expected: Updated},
		{name: "second environment", env: "staging", creds: domain.Credentials{Username: "ops"}, expected: Created},
		{name: "delete", env: "staging", expected: Deleted},
	}

	// Steps build on each other and must run in order.
	for _, step := range steps {
		op, err := cfg.Upsert(step.env, step.creds)
		require.NoError(t, err, step.name)
		require.Equal(t, step.expected, op, step.name)
	}

	_, err := cfg.Upsert(" ", domain.Credentials{Username: "x"})
	require.EqualError(t, err, "environment name cannot be empty")

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, perms.SecureFile, info.Mode().Perm())

	dirInfo, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
	require.Equal(t, perms.SecureDir, dirInfo.Mode().Perm())

	loaded, err := (&DefaultLoader{}).Load(path)
	require.NoError(t, err)
	require.Equal(t, []string{"production"}, loaded.List())
	creds, ok := loaded.Get("production")
	require.True(t, ok)
	require.Equal(t, domain.Credentials{Username: "admin", Password: "two"}, creds)

	_, ok = loaded.Get("staging")
	require.False(t, ok)
}

func TestSecretsConfig_SaveConfig_NoPath(t *testing.T) {
	t.Parallel()

	cfg := NewSecretsConfig("")
	_, err := cfg.Upsert("production", domain.Credentials{Username: "admin"})
	require.ErrorContains(t, err, "secrets file path not present")
}
