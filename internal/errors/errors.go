// Package errors defines domain-level errors used throughout the application.
// These errors represent business logic failures and are mapped to appropriate HTTP status codes at the API boundary.
//
// NOTE: Important for developers
// When adding a new error here, you MUST consider how it should be handled when returned from API endpoints.
//
// Unmapped errors will default to HTTP 500 Internal Server Error.
//
// Don't forget to:
// 1. Add your error to mapError (internal/daemon/api_server.go)
// 2. Add a test case to TestMapError (internal/daemon/api_server_test.go)
package errors

import (
	"errors"
)

var (
	// ErrBadRequest indicates that the client provided invalid input or made a malformed request.
	// Recommended to map to HTTP 400 Bad Request.
	ErrBadRequest = errors.New("bad request")

	// ErrRegistryUnavailable indicates that the hosts and instances of an environment could not be read at all.
	// This is the only failure that aborts a whole fleet collection.
	// Recommended to map to HTTP 503 Service Unavailable.
	ErrRegistryUnavailable = errors.New("host registry unavailable")

	// ErrEnvironmentNotFound indicates that the requested environment is not configured.
	// Recommended to map to HTTP 404 Not Found.
	ErrEnvironmentNotFound = errors.New("environment not found")

	// ErrInstanceNotFound indicates that no instance with the requested id exists in the environment.
	// Recommended to map to HTTP 404 Not Found.
	ErrInstanceNotFound = errors.New("instance not found")

	// ErrReportNotFound indicates that no archived report has the requested id.
	// Recommended to map to HTTP 404 Not Found.
	ErrReportNotFound = errors.New("report not found")

	// ErrReportStoreFailed indicates that the report store could not persist or read a report.
	// Recommended to map to HTTP 500 Internal Server Error.
	ErrReportStoreFailed = errors.New("report store failed")
)
