package api

import (
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
)

const queryParamDetail = "detail"

const (
	detailFull    detailLevel = "full"
	detailSummary detailLevel = "summary"
)

// detailLevel is the amount of per-instance information included in a fleet status response.
type detailLevel string

// Normalize returns the known detail level, falling back to full.
func (d detailLevel) Normalize() detailLevel {
	switch detailLevel(strings.ToLower(strings.TrimSpace(string(d)))) {
	case detailSummary:
		return detailSummary
	default:
		return detailFull
	}
}

// InstanceSummary is the condensed view of an instance, counting rather than listing its resources.
type InstanceSummary struct {
	ID                   int         `json:"id" yaml:"id"`
	Name                 string      `json:"name" yaml:"name"`
	Port                 int         `json:"port" yaml:"port"`
	ServerState          ServerState `json:"serverState" yaml:"serverState"          enum:"running,down,unknown"`
	DataSourceCount      int         `json:"dataSourceCount" yaml:"dataSourceCount"`
	ConnectedDataSources int         `json:"connectedDataSources" yaml:"connectedDataSources"`
	DeploymentCount      int         `json:"deploymentCount" yaml:"deploymentCount"`
	Error                string      `json:"error,omitempty" yaml:"error,omitempty"`
}

// HostSummary is a host with condensed instances.
type HostSummary struct {
	ID        int               `json:"id" yaml:"id"`
	Hostname  string            `json:"hostname" yaml:"hostname"`
	Instances []InstanceSummary `json:"instances" yaml:"instances"`
}

// FleetStatusSummaryBody is the body of a fleet status response requested with detail=summary.
type FleetStatusSummaryBody struct {
	Environment string         `json:"environment" yaml:"environment"`
	Hosts       []HostSummary  `json:"hosts" yaml:"hosts"`
	CollectedAt time.Time      `json:"collectedAt" yaml:"collectedAt"`
	Report      *ReportSummary `json:"report,omitempty" yaml:"report,omitempty"`
}

// summarizeInstance condenses an instance.
func summarizeInstance(inst Instance) InstanceSummary {
	connected := 0
	for _, ds := range inst.DataSources {
		if ds.Connected {
			connected++
		}
	}

	return InstanceSummary{
		ID:                   inst.ID,
		Name:                 inst.Name,
		Port:                 inst.Port,
		ServerState:          inst.ServerState,
		DataSourceCount:      len(inst.DataSources),
		ConnectedDataSources: connected,
		DeploymentCount:      len(inst.Deployments),
		Error:                inst.Error,
	}
}

// fleetDetailTransformer reduces fleet status responses when the detail query parameter asks for a summary.
func fleetDetailTransformer(ctx huma.Context, _ string, v any) (any, error) {
	detail := detailLevel(ctx.Query(queryParamDetail)).Normalize()
	if detail == detailFull {
		return v, nil
	}

	// Huma passes the Body field to transformers, not the full response.
	body, ok := v.(FleetStatusBody)
	if !ok {
		return v, nil
	}

	hosts := make([]HostSummary, len(body.Hosts))
	for i, h := range body.Hosts {
		instances := make([]InstanceSummary, len(h.Instances))
		for j, inst := range h.Instances {
			instances[j] = summarizeInstance(inst)
		}
		hosts[i] = HostSummary{ID: h.ID, Hostname: h.Hostname, Instances: instances}
	}

	return FleetStatusSummaryBody{
		Environment: body.Environment,
		Hosts:       hosts,
		CollectedAt: body.CollectedAt,
		Report:      body.Report,
	}, nil
}
