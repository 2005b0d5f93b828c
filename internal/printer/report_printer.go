package printer

import (
	"fmt"
	"io"

	"github.com/fleetwatch/fleetwatch/internal/api"
	"github.com/fleetwatch/fleetwatch/internal/cmd/output"
)

var (
	_ output.Printer[api.ReportSummary] = (*ReportSummaryPrinter)(nil)
	_ output.Printer[api.Report]        = (*ReportPrinter)(nil)
)

const reportRowFormat = "%-36s  %-16s  %-23s  %5s  %9s  %7s\n"

// ReportSummaryPrinter prints one line per archived report.
type ReportSummaryPrinter struct {
	headerFunc output.WriteFunc[api.ReportSummary]
	footerFunc output.WriteFunc[api.ReportSummary]
}

// NewReportSummaryPrinter returns a printer with a column header and a count footer.
func NewReportSummaryPrinter() *ReportSummaryPrinter {
	return &ReportSummaryPrinter{
		headerFunc: DefaultReportsHeader(),
		footerFunc: DefaultReportsFooter(),
	}
}

func (p *ReportSummaryPrinter) Header(w io.Writer, count int) {
	if p.headerFunc != nil {
		p.headerFunc(w, count)
	}
}

func (p *ReportSummaryPrinter) SetHeader(fn output.WriteFunc[api.ReportSummary]) {
	p.headerFunc = fn
}

func (p *ReportSummaryPrinter) Item(w io.Writer, s api.ReportSummary) error {
	_, _ = fmt.Fprintf(
		w,
		reportRowFormat,
		s.ID,
		s.Environment,
		s.Timestamp.Format(timestampLayout),
		fmt.Sprint(s.HostCount),
		fmt.Sprint(s.InstanceCount),
		fmt.Sprint(s.RunningCount),
	)

	return nil
}

func (p *ReportSummaryPrinter) Footer(w io.Writer, count int) {
	if p.footerFunc != nil {
		p.footerFunc(w, count)
	}
}

func (p *ReportSummaryPrinter) SetFooter(fn output.WriteFunc[api.ReportSummary]) {
	p.footerFunc = fn
}

// DefaultReportsHeader writes the column names of the report list.
func DefaultReportsHeader() output.WriteFunc[api.ReportSummary] {
	return func(w io.Writer, _ int) {
		_, _ = fmt.Fprintf(w, reportRowFormat, "ID", "ENVIRONMENT", "TIMESTAMP", "HOSTS", "INSTANCES", "RUNNING")
	}
}

// DefaultReportsFooter writes the number of reports listed.
func DefaultReportsFooter() output.WriteFunc[api.ReportSummary] {
	return func(w io.Writer, count int) {
		_, _ = fmt.Fprintf(w, "\n%s\n", plural(count, "report"))
	}
}

// ReportPrinter prints an archived report with its full snapshot.
type ReportPrinter struct {
	headerFunc output.WriteFunc[api.Report]
	footerFunc output.WriteFunc[api.Report]
}

func (p *ReportPrinter) Header(w io.Writer, count int) {
	if p.headerFunc != nil {
		p.headerFunc(w, count)
	}
}

func (p *ReportPrinter) SetHeader(fn output.WriteFunc[api.Report]) {
	p.headerFunc = fn
}

func (p *ReportPrinter) Item(w io.Writer, r api.Report) error {
	_, _ = fmt.Fprintf(w, "Report %s\n", r.ID)
	_, _ = fmt.Fprintf(w, "  Environment: %s\n", r.Environment)
	_, _ = fmt.Fprintf(w, "  Timestamp:   %s\n", r.Timestamp.Format(timestampLayout))
	_, _ = fmt.Fprintf(w, "  Collected:   %s\n", r.Snapshot.CollectedAt.Format(timestampLayout))

	writeHosts(w, r.Snapshot.Hosts)

	return nil
}

func (p *ReportPrinter) Footer(w io.Writer, count int) {
	if p.footerFunc != nil {
		p.footerFunc(w, count)
	}
}

func (p *ReportPrinter) SetFooter(fn output.WriteFunc[api.Report]) {
	p.footerFunc = fn
}
