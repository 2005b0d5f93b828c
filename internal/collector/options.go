package collector

import (
	"fmt"
	"reflect"
	"time"

	"github.com/fleetwatch/fleetwatch/internal/contracts"
)

// MaxConcurrency is the upper bound for concurrent probes in one collection.
const MaxConcurrency = 64

// Options contains optional configuration for the Collector.
// NewOptions should be used to create instances of Options.
type Options struct {
	// Concurrency is the maximum number of instances probed at the same time.
	Concurrency int

	// ScanTimeout is the overall deadline of one collection.
	// Instances still being probed when it expires are reported as timed out.
	ScanTimeout time.Duration

	// Credentials resolves the stored credentials of an environment, may be nil.
	Credentials contracts.CredentialSource

	// Clock returns the collection timestamp.
	Clock func() time.Time
}

// Option defines a functional option for configuring Options.
// Options are applied in order, with later options overriding earlier ones.
type Option func(*Options) error

// NewOptions creates Options with optional configurations applied.
// Starts with default values, then applies options in order with later options overriding earlier ones.
func NewOptions(opts ...Option) (Options, error) {
	options := defaultOptions()

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&options); err != nil {
			return Options{}, err
		}
	}

	return options, nil
}

// WithConcurrency bounds how many instances are probed at the same time.
func WithConcurrency(n int) Option {
	return func(o *Options) error {
		if n < 1 || n > MaxConcurrency {
			return fmt.Errorf("concurrency must be between 1 and %d, got %d", MaxConcurrency, n)
		}
		o.Concurrency = n
		return nil
	}
}

// WithScanTimeout sets the overall deadline of a collection.
func WithScanTimeout(timeout time.Duration) Option {
	return func(o *Options) error {
		if timeout <= 0 {
			return fmt.Errorf("scan timeout must be positive, got %v", timeout)
		}
		o.ScanTimeout = timeout
		return nil
	}
}

// WithCredentialSource configures where default credentials of an environment come from.
func WithCredentialSource(src contracts.CredentialSource) Option {
	return func(o *Options) error {
		if src == nil || reflect.ValueOf(src).IsNil() {
			return fmt.Errorf("credential source cannot be nil")
		}
		o.Credentials = src
		return nil
	}
}

// WithClock overrides the source of collection timestamps.
func WithClock(clock func() time.Time) Option {
	return func(o *Options) error {
		if clock == nil {
			return fmt.Errorf("clock cannot be nil")
		}
		o.Clock = clock
		return nil
	}
}

// DefaultConcurrency is the default number of instances probed at the same time.
func DefaultConcurrency() int {
	return 8
}

// DefaultScanTimeout is the default overall deadline of a collection.
func DefaultScanTimeout() time.Duration {
	return 60 * time.Second
}

// defaultOptions returns Options with default values.
func defaultOptions() Options {
	return Options{
		Concurrency: DefaultConcurrency(),
		ScanTimeout: DefaultScanTimeout(),
		Clock:       time.Now,
	}
}
