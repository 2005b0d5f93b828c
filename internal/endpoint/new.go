package endpoint

import (
	"fmt"
	"reflect"

	"github.com/hashicorp/go-hclog"
)

// New creates the Client implementation selected by clientType.
func New(logger hclog.Logger, clientType ClientType, opt ...Option) (Client, error) {
	if logger == nil || reflect.ValueOf(logger).IsNil() {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	logger = logger.Named("endpoint")

	switch clientType {
	case ClientTypeHTTP:
		return NewHTTPClient(logger, opt...)
	case ClientTypeCLI:
		return NewCLIClient(logger, opt...)
	case ClientTypeMock:
		logger.Warn("Using simulated management endpoints, no instance will be contacted")
		return NewMockClient(logger, opt...)
	default:
		return nil, fmt.Errorf("unsupported endpoint client '%s'", clientType)
	}
}
