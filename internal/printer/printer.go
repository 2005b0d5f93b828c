// Package printer renders fleet status, reports and configured hosts as text for the CLI.
package printer

import (
	"fmt"
	"io"
	"strings"

	"github.com/fleetwatch/fleetwatch/internal/api"
)

const timestampLayout = "2006-01-02 15:04:05 MST"

// stateMark returns the marker printed in front of an instance.
func stateMark(state api.ServerState) string {
	switch state {
	case api.ServerStateRunning:
		return "✓"
	case api.ServerStateDown:
		return "✗"
	default:
		return "?"
	}
}

func boolMark(ok bool) string {
	if ok {
		return "✓"
	}
	return "✗"
}

// plural returns s when n is not one.
func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

// writeInstance writes one instance and, for running instances, its data sources and deployments.
func writeInstance(w io.Writer, indent string, inst api.Instance) {
	_, _ = fmt.Fprintf(
		w,
		"%s%s %s [%d] port %d: %s\n",
		indent,
		stateMark(inst.ServerState),
		inst.Name,
		inst.ID,
		inst.Port,
		inst.ServerState,
	)

	if inst.Error != "" {
		_, _ = fmt.Fprintf(w, "%s    ! %s\n", indent, inst.Error)
	}

	if inst.ServerState != api.ServerStateRunning {
		return
	}

	connected := 0
	for _, ds := range inst.DataSources {
		if ds.Connected {
			connected++
		}
	}
	_, _ = fmt.Fprintf(w, "%s    Data sources (%d/%d connected):\n", indent, connected, len(inst.DataSources))
	if len(inst.DataSources) == 0 {
		_, _ = fmt.Fprintf(w, "%s      (none)\n", indent)
	}
	for _, ds := range inst.DataSources {
		details := []string{string(ds.Kind)}
		if ds.DriverName != "" {
			details = append(details, ds.DriverName)
		}
		if !ds.Enabled {
			details = append(details, "disabled")
		}
		_, _ = fmt.Fprintf(
			w,
			"%s      %s %s %s (%s)\n",
			indent,
			boolMark(ds.Connected),
			ds.Name,
			ds.JNDIName,
			strings.Join(details, ", "),
		)
	}

	_, _ = fmt.Fprintf(w, "%s    Deployments (%d):\n", indent, len(inst.Deployments))
	if len(inst.Deployments) == 0 {
		_, _ = fmt.Fprintf(w, "%s      (none)\n", indent)
	}
	for _, dep := range inst.Deployments {
		_, _ = fmt.Fprintf(w, "%s      %s %s (%s)\n", indent, boolMark(dep.Enabled), dep.Name, dep.RuntimeStatus)
	}
}

// writeHosts writes every host of a fleet status followed by a one-line tally.
func writeHosts(w io.Writer, hosts []api.Host) {
	var instances, running int
	for _, h := range hosts {
		_, _ = fmt.Fprintf(w, "\n%s (host %d)\n", h.Hostname, h.ID)
		if len(h.Instances) == 0 {
			_, _ = fmt.Fprintln(w, "  (no instances configured)")
		}
		for _, inst := range h.Instances {
			instances++
			if inst.ServerState == api.ServerStateRunning {
				running++
			}
			writeInstance(w, "  ", inst)
		}
	}

	_, _ = fmt.Fprintf(
		w,
		"\n%s, %s, %d running\n",
		plural(len(hosts), "host"),
		plural(instances, "instance"),
		running,
	)
}
