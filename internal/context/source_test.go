package context

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fleetwatch/fleetwatch/internal/domain"
)

func TestSource_Credentials(t *testing.T) {
	t.Parallel()

	secrets := &SecretsConfig{Environments: map[string]EnvironmentSecrets{
		"production":     {Username: "prod-admin", Password: "prod-pass"},
		"non-production": {Username: "dev-admin"},
	}}

	env := map[string]string{
		EnvVarMgmtUsername: "global",
		EnvVarMgmtPassword: "global-pass",
	}
	lookup := func(k string) string { return env[k] }

	tests := []struct {
		name        string
		secrets     Getter
		lookup      func(string) string
		environment string
		expected    domain.Credentials
	}{
		{
			name:        "stored credentials win",
			secrets:     secrets,
			lookup:      lookup,
			environment: "production",
			expected:    domain.Credentials{Username: "prod-admin", Password: "prod-pass"},
		},
		{
			name:        "stored username keeps global password",
			secrets:     secrets,
			lookup:      lookup,
			environment: "non-production",
			expected:    domain.Credentials{Username: "dev-admin", Password: "global-pass"},
		},
		{
			name:        "nothing stored",
			secrets:     secrets,
			lookup:      lookup,
			environment: "staging",
			expected:    domain.Credentials{Username: "global", Password: "global-pass"},
		},
		{
			name:        "no secrets file",
			secrets:     nil,
			lookup:      lookup,
			environment: "production",
			expected:    domain.Credentials{Username: "global", Password: "global-pass"},
		},
		{
			name:        "typed nil secrets",
			secrets:     (*SecretsConfig)(nil),
			lookup:      func(string) string { return "" },
			environment: "production",
			expected:    domain.Credentials{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			src := NewSource(tc.secrets, tc.lookup)
			require.Equal(t, tc.expected, src.Credentials(tc.environment))
		})
	}
}
