package printer

import (
	"fmt"
	"io"

	"github.com/fleetwatch/fleetwatch/internal/api"
	"github.com/fleetwatch/fleetwatch/internal/cmd/output"
)

var _ output.Printer[api.FleetStatusBody] = (*FleetStatusPrinter)(nil)

// FleetStatusPrinter handles text output for the status of an environment.
type FleetStatusPrinter struct {
	headerFunc output.WriteFunc[api.FleetStatusBody]
	footerFunc output.WriteFunc[api.FleetStatusBody]
}

// Header writes a custom header if one has been configured via SetHeader.
func (p *FleetStatusPrinter) Header(w io.Writer, count int) {
	if p.headerFunc != nil {
		p.headerFunc(w, count)
	}
}

// SetHeader configures a custom header function for the printer.
func (p *FleetStatusPrinter) SetHeader(fn output.WriteFunc[api.FleetStatusBody]) {
	p.headerFunc = fn
}

// Item writes every host and instance of the environment, and the archived report when present.
func (p *FleetStatusPrinter) Item(w io.Writer, status api.FleetStatusBody) error {
	_, _ = fmt.Fprintf(
		w,
		"Environment '%s' (collected %s)\n",
		status.Environment,
		status.CollectedAt.Format(timestampLayout),
	)

	writeHosts(w, status.Hosts)

	if status.Report != nil {
		_, _ = fmt.Fprintf(w, "\nReport saved: %s\n", status.Report.ID)
	}

	return nil
}

// Footer writes a custom footer if one has been configured via SetFooter.
func (p *FleetStatusPrinter) Footer(w io.Writer, count int) {
	if p.footerFunc != nil {
		p.footerFunc(w, count)
	}
}

// SetFooter configures a custom footer function for the printer.
func (p *FleetStatusPrinter) SetFooter(fn output.WriteFunc[api.FleetStatusBody]) {
	p.footerFunc = fn
}
