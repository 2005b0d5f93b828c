package printer

import (
	"fmt"
	"io"

	"github.com/fleetwatch/fleetwatch/internal/cmd/output"
	"github.com/fleetwatch/fleetwatch/internal/domain"
)

var _ output.Printer[HostResult] = (*HostPrinter)(nil)

// HostResult represents a configured host and its instances.
type HostResult struct {
	Environment string           `json:"environment" yaml:"environment"`
	ID          int              `json:"id"          yaml:"id"`
	Hostname    string           `json:"hostname"    yaml:"hostname"`
	Instances   []InstanceResult `json:"instances"   yaml:"instances"`
}

// InstanceResult represents a configured instance.
type InstanceResult struct {
	ID   int    `json:"id"   yaml:"id"`
	Name string `json:"name" yaml:"name"`
	Port int    `json:"port" yaml:"port"`
}

// NewHostResult converts a configured host of the environment.
func NewHostResult(environment string, h domain.Host) HostResult {
	instances := make([]InstanceResult, 0, len(h.Instances))
	for _, inst := range h.Instances {
		instances = append(instances, InstanceResult{ID: inst.ID, Name: inst.Name, Port: inst.Port})
	}

	return HostResult{
		Environment: environment,
		ID:          h.ID,
		Hostname:    h.Hostname,
		Instances:   instances,
	}
}

type HostPrinter struct {
	headerFunc output.WriteFunc[HostResult]
	footerFunc output.WriteFunc[HostResult]
}

func (p *HostPrinter) Header(w io.Writer, count int) {
	if p.headerFunc != nil {
		p.headerFunc(w, count)
	}
}

func (p *HostPrinter) SetHeader(fn output.WriteFunc[HostResult]) {
	p.headerFunc = fn
}

func (p *HostPrinter) Item(w io.Writer, h HostResult) error {
	_, _ = fmt.Fprintf(w, "%s (host %d, %s)\n", h.Hostname, h.ID, h.Environment)
	if len(h.Instances) == 0 {
		_, _ = fmt.Fprintln(w, "  (no instances configured)")
	}
	for _, inst := range h.Instances {
		_, _ = fmt.Fprintf(w, "  %s [%d] port %d\n", inst.Name, inst.ID, inst.Port)
	}

	return nil
}

func (p *HostPrinter) Footer(w io.Writer, count int) {
	if p.footerFunc != nil {
		p.footerFunc(w, count)
	}
}

func (p *HostPrinter) SetFooter(fn output.WriteFunc[HostResult]) {
	p.footerFunc = fn
}
