package context

import "github.com/fleetwatch/fleetwatch/internal/domain"

var (
	_ Loader   = (*DefaultLoader)(nil)
	_ Modifier = (*SecretsConfig)(nil)
)

type Loader interface {
	Load(path string) (Modifier, error)
}

type Getter interface {
	Get(environment string) (domain.Credentials, bool)
}

type Modifier interface {
	Getter
	Upsert(environment string, creds domain.Credentials) (UpsertResult, error)
	List() []string
}

type UpsertResult string

const (
	Created UpsertResult = "created"
	Updated UpsertResult = "updated"
	Deleted UpsertResult = "deleted"
	Noop    UpsertResult = "noop"
)
