package context

import (
	"os"
	"reflect"

	"github.com/fleetwatch/fleetwatch/internal/contracts"
	"github.com/fleetwatch/fleetwatch/internal/domain"
)

var _ contracts.CredentialSource = (*Source)(nil)

const (
	// EnvVarMgmtUsername provides a management username for environments without stored credentials.
	EnvVarMgmtUsername = "FLEETWATCH_MGMT_USERNAME"

	// EnvVarMgmtPassword provides a management password for environments without stored credentials.
	EnvVarMgmtPassword = "FLEETWATCH_MGMT_PASSWORD"
)

// Source resolves the default credentials of an environment.
// Stored credentials take precedence, field by field, over the global environment variables.
type Source struct {
	secrets  Getter
	fallback domain.Credentials
}

// NewSource creates a Source reading stored credentials from secrets, which may be nil,
// and the global fallback through lookup (os.Getenv when nil).
func NewSource(secrets Getter, lookup func(string) string) *Source {
	if lookup == nil {
		lookup = os.Getenv
	}
	if secrets != nil && reflect.ValueOf(secrets).IsNil() {
		secrets = nil
	}

	return &Source{
		secrets: secrets,
		fallback: domain.Credentials{
			Username: lookup(EnvVarMgmtUsername),
			Password: lookup(EnvVarMgmtPassword),
		},
	}
}

// Credentials returns the default credentials of the environment, which may be zero.
func (s *Source) Credentials(environment string) domain.Credentials {
	creds := s.fallback
	if s.secrets == nil {
		return creds
	}

	if stored, ok := s.secrets.Get(environment); ok {
		creds = creds.Override(stored)
	}

	return creds
}
