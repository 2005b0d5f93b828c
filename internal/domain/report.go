package domain

import "time"

// Report is an immutable, timestamped snapshot of a fleet-wide collection.
type Report struct {
	ID          string      `json:"id"`
	Environment string      `json:"environment"`
	Timestamp   time.Time   `json:"timestamp"`
	Snapshot    FleetStatus `json:"snapshot"`
}

// ReportSummary is the listing view of a Report.
type ReportSummary struct {
	ID            string    `json:"id"`
	Environment   string    `json:"environment"`
	Timestamp     time.Time `json:"timestamp"`
	HostCount     int       `json:"hostCount"`
	InstanceCount int       `json:"instanceCount"`
	RunningCount  int       `json:"runningCount"`
}

// Summary returns the listing view of the report.
func (r Report) Summary() ReportSummary {
	hosts, instances, running := r.Snapshot.Counts()
	return ReportSummary{
		ID:            r.ID,
		Environment:   r.Environment,
		Timestamp:     r.Timestamp,
		HostCount:     hosts,
		InstanceCount: instances,
		RunningCount:  running,
	}
}
