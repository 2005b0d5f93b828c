// Package endpoint provides clients that send a single management command to a single management endpoint.
package endpoint

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/fleetwatch/fleetwatch/internal/domain"
	"github.com/fleetwatch/fleetwatch/internal/mgmt"
)

const (
	ErrorKindTimeout      ErrorKind = "timeout"
	ErrorKindUnreachable  ErrorKind = "unreachable"
	ErrorKindUnauthorized ErrorKind = "unauthorized"
)

var (
	// ErrTimeout matches (via errors.Is) any TransportError of kind timeout.
	ErrTimeout = errors.New("timed out")

	// ErrUnreachable matches (via errors.Is) any TransportError of kind unreachable.
	ErrUnreachable = errors.New("unreachable")

	// ErrUnauthorized matches (via errors.Is) any TransportError of kind unauthorized.
	ErrUnauthorized = errors.New("unauthorized")
)

var (
	_ Client = (*HTTPClient)(nil)
	_ Client = (*CLIClient)(nil)
	_ Client = (*MockClient)(nil)
)

// Client executes management commands against an instance's management endpoint.
// Implementations must be safe for concurrent use.
type Client interface {
	// Execute sends command to host:port, authenticating with creds when they are complete.
	// A reply with Succeeded=false is a normal outcome; errors are reserved for transport failures.
	Execute(ctx context.Context, host string, port int, command string, creds domain.Credentials) (mgmt.Reply, error)
}

// ErrorKind classifies a TransportError.
type ErrorKind string

// TransportError is returned when a command could not be exchanged with the endpoint at all.
type TransportError struct {
	Kind ErrorKind
	Host string
	Port int
	Err  error
}

func (e *TransportError) Error() string {
	addr := net.JoinHostPort(e.Host, fmt.Sprint(e.Port))
	if e.Err == nil {
		return fmt.Sprintf("management endpoint %s: %s", addr, e.Kind)
	}
	return fmt.Sprintf("management endpoint %s: %s: %v", addr, e.Kind, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is allows errors.Is(err, ErrTimeout) style matching on the error kind.
func (e *TransportError) Is(target error) bool {
	switch target {
	case ErrTimeout:
		return e.Kind == ErrorKindTimeout
	case ErrUnreachable:
		return e.Kind == ErrorKindUnreachable
	case ErrUnauthorized:
		return e.Kind == ErrorKindUnauthorized
	default:
		return false
	}
}

// classify wraps a low level failure into a TransportError, treating deadlines as timeouts.
func classify(ctx context.Context, host string, port int, err error) *TransportError {
	var te *TransportError
	if errors.As(err, &te) {
		return te
	}

	kind := ErrorKindUnreachable
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded), ctx.Err() != nil && errors.Is(ctx.Err(), context.DeadlineExceeded):
		kind = ErrorKindTimeout
	case errors.As(err, &netErr) && netErr.Timeout():
		kind = ErrorKindTimeout
	}

	return &TransportError{Kind: kind, Host: host, Port: port, Err: err}
}
