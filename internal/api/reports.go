package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/fleetwatch/fleetwatch/internal/contracts"
	"github.com/fleetwatch/fleetwatch/internal/domain"
	"github.com/fleetwatch/fleetwatch/internal/errors"
)

// DomainReport wraps domain.Report for API conversion.
type DomainReport domain.Report

// DomainReportSummary wraps domain.ReportSummary for API conversion.
type DomainReportSummary domain.ReportSummary

// ReportSummary is the listing view of an archived report.
type ReportSummary struct {
	ID            string    `json:"id" yaml:"id"            example:"0192f0c4-5b7e-7c9a-9d1e-3f4a5b6c7d8e"`
	Environment   string    `json:"environment" yaml:"environment"   example:"production"`
	Timestamp     time.Time `json:"timestamp" yaml:"timestamp"`
	HostCount     int       `json:"hostCount" yaml:"hostCount"`
	InstanceCount int       `json:"instanceCount" yaml:"instanceCount"`
	RunningCount  int       `json:"runningCount" yaml:"runningCount"`
}

// Report is an archived fleet snapshot.
type Report struct {
	ID          string      `json:"id" yaml:"id"`
	Environment string      `json:"environment" yaml:"environment"`
	Timestamp   time.Time   `json:"timestamp" yaml:"timestamp"`
	Snapshot    FleetStatus `json:"snapshot" yaml:"snapshot"`
}

// ReportsListRequest represents the incoming API request to list archived reports.
type ReportsListRequest struct {
	Limit       int    `default:"5" doc:"Maximum number of reports to return" maximum:"100" minimum:"1" query:"limit"`
	Environment string `doc:"Only list reports of this environment" example:"production" query:"environment"`
}

// ReportsListResponse represents the wrapped API response for a list of reports.
type ReportsListResponse struct {
	Body struct {
		Reports []ReportSummary `json:"reports" yaml:"reports" doc:"Report summaries, most recent first"`
	}
}

// ReportGetRequest represents the incoming API request to fetch one report.
type ReportGetRequest struct {
	ID string `doc:"Report id" example:"0192f0c4-5b7e-7c9a-9d1e-3f4a5b6c7d8e" path:"id"`
}

// ReportGetResponse represents the wrapped API response for a single report.
type ReportGetResponse struct {
	Body Report
}

// ToAPIType converts a report summary. It never fails.
func (d DomainReportSummary) ToAPIType() ReportSummary {
	return ReportSummary{
		ID:            d.ID,
		Environment:   d.Environment,
		Timestamp:     d.Timestamp,
		HostCount:     d.HostCount,
		InstanceCount: d.InstanceCount,
		RunningCount:  d.RunningCount,
	}
}

// ToAPIType converts a report including its snapshot.
func (d DomainReport) ToAPIType() (Report, error) {
	snapshot, err := DomainFleetStatus(d.Snapshot).ToAPIType()
	if err != nil {
		return Report{}, fmt.Errorf("report %s: %w", d.ID, err)
	}

	return Report{
		ID:          d.ID,
		Environment: d.Environment,
		Timestamp:   d.Timestamp,
		Snapshot:    snapshot,
	}, nil
}

// RegisterReportRoutes sets up report archive API endpoint routes.
func RegisterReportRoutes(routerAPI huma.API, archiver contracts.ReportArchiver, apiPathPrefix string) {
	reportsAPI := huma.NewGroup(routerAPI, apiPathPrefix)
	tags := []string{"Reports"}

	// Add route at the root of the group (no path specified).
	huma.Register(
		reportsAPI,
		huma.Operation{
			OperationID: "listReports",
			Method:      http.MethodGet,
			Summary:     "List archived reports",
			Tags:        tags,
		},
		func(ctx context.Context, input *ReportsListRequest) (*ReportsListResponse, error) {
			return handleReportsList(ctx, archiver, input)
		},
	)

	huma.Register(
		reportsAPI,
		huma.Operation{
			OperationID: "getReport",
			Method:      http.MethodGet,
			Path:        "/{id}",
			Summary:     "Get an archived report",
			Tags:        tags,
		},
		func(ctx context.Context, input *ReportGetRequest) (*ReportGetResponse, error) {
			return handleReportGet(ctx, archiver, input)
		},
	)
}

// handleReportsList returns report summaries, most recent first.
func handleReportsList(
	ctx context.Context,
	archiver contracts.ReportArchiver,
	input *ReportsListRequest,
) (*ReportsListResponse, error) {
	summaries, err := archiver.List(ctx, input.Limit, input.Environment)
	if err != nil {
		return nil, err
	}

	resp := &ReportsListResponse{}
	resp.Body.Reports = make([]ReportSummary, 0, len(summaries))
	for _, s := range summaries {
		resp.Body.Reports = append(resp.Body.Reports, DomainReportSummary(s).ToAPIType())
	}

	return resp, nil
}

// handleReportGet returns one archived report.
func handleReportGet(
	ctx context.Context,
	archiver contracts.ReportArchiver,
	input *ReportGetRequest,
) (*ReportGetResponse, error) {
	if _, err := uuid.Parse(input.ID); err != nil {
		return nil, fmt.Errorf("%w: invalid report id '%s'", errors.ErrBadRequest, input.ID)
	}

	r, err := archiver.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	data, err := DomainReport(r).ToAPIType()
	if err != nil {
		return nil, err
	}

	return &ReportGetResponse{Body: data}, nil
}
