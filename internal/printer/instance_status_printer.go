package printer

import (
	"fmt"
	"io"

	"github.com/fleetwatch/fleetwatch/internal/api"
	"github.com/fleetwatch/fleetwatch/internal/cmd/output"
)

var _ output.Printer[api.InstanceStatusBody] = (*InstanceStatusPrinter)(nil)

// InstanceStatusPrinter handles text output for a single probed instance.
type InstanceStatusPrinter struct {
	headerFunc output.WriteFunc[api.InstanceStatusBody]
	footerFunc output.WriteFunc[api.InstanceStatusBody]
}

func (p *InstanceStatusPrinter) Header(w io.Writer, count int) {
	if p.headerFunc != nil {
		p.headerFunc(w, count)
	}
}

func (p *InstanceStatusPrinter) SetHeader(fn output.WriteFunc[api.InstanceStatusBody]) {
	p.headerFunc = fn
}

func (p *InstanceStatusPrinter) Item(w io.Writer, status api.InstanceStatusBody) error {
	_, _ = fmt.Fprintf(w, "%s (host %d)\n", status.Host.Hostname, status.Host.ID)
	writeInstance(w, "  ", status.Instance)

	return nil
}

func (p *InstanceStatusPrinter) Footer(w io.Writer, count int) {
	if p.footerFunc != nil {
		p.footerFunc(w, count)
	}
}

func (p *InstanceStatusPrinter) SetFooter(fn output.WriteFunc[api.InstanceStatusBody]) {
	p.footerFunc = fn
}
