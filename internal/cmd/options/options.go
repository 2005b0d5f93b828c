package options

import (
	"fmt"
	"reflect"

	"github.com/fleetwatch/fleetwatch/internal/cmd"
	"github.com/fleetwatch/fleetwatch/internal/config"
	"github.com/fleetwatch/fleetwatch/internal/context"
)

type CmdOption func(*CmdOptions) error

// CmdOptions holds the collaborators of a command, allowing tests to replace them.
type CmdOptions struct {
	ConfigLoader      config.Loader
	ConfigInitializer config.Initializer
	ContextLoader     context.Loader
	ComponentBuilder  cmd.ComponentBuilder
}

func defaultOptions() CmdOptions {
	configLoader := &config.DefaultLoader{}
	return CmdOptions{
		ConfigLoader:      configLoader,
		ConfigInitializer: configLoader,
		ContextLoader:     &context.DefaultLoader{},
		ComponentBuilder:  &cmd.DefaultComponentBuilder{},
	}
}

func NewOptions(opt ...CmdOption) (CmdOptions, error) {
	opts := defaultOptions()

	for _, o := range opt {
		if o == nil {
			continue
		}
		if err := o(&opts); err != nil {
			return CmdOptions{}, err
		}
	}
	return opts, nil
}

func WithConfigLoader(l config.Loader) CmdOption {
	return func(o *CmdOptions) error {
		if isNil(l) {
			return fmt.Errorf("config loader cannot be nil")
		}
		o.ConfigLoader = l
		return nil
	}
}

func WithConfigInitializer(i config.Initializer) CmdOption {
	return func(o *CmdOptions) error {
		if isNil(i) {
			return fmt.Errorf("config initializer cannot be nil")
		}
		o.ConfigInitializer = i
		return nil
	}
}

func WithContextLoader(l context.Loader) CmdOption {
	return func(o *CmdOptions) error {
		if isNil(l) {
			return fmt.Errorf("context loader cannot be nil")
		}
		o.ContextLoader = l
		return nil
	}
}

func WithComponentBuilder(b cmd.ComponentBuilder) CmdOption {
	return func(o *CmdOptions) error {
		if isNil(b) {
			return fmt.Errorf("component builder cannot be nil")
		}
		o.ComponentBuilder = b
		return nil
	}
}

func isNil(v any) bool {
	return v == nil || reflect.ValueOf(v).IsNil()
}
