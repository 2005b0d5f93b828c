package api

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDetailLevel_Normalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in       string
		expected detailLevel
	}{
		{in: "", expected: detailFull},
		{in: "full", expected: detailFull},
		{in: "summary", expected: detailSummary},
		{in: " Summary ", expected: detailSummary},
		{in: "verbose", expected: detailFull},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.expected, detailLevel(tc.in).Normalize())
		})
	}
}

func TestFleetDetailTransformer_Full(t *testing.T) {
	t.Parallel()

	data, err := DomainFleetStatus(testFleetStatus()).ToAPIType()
	require.NoError(t, err)
	body := FleetStatusBody{Environment: data.Environment, Hosts: data.Hosts, CollectedAt: data.CollectedAt}

	result, err := fleetDetailTransformer(&mockHumaContext{queryParams: map[string]string{}}, "200", body)
	require.NoError(t, err)

	resultBody, ok := result.(FleetStatusBody)
	require.True(t, ok)
	require.Len(t, resultBody.Hosts[0].Instances[0].DataSources, 2)
}

func TestFleetDetailTransformer_Summary(t *testing.T) {
	t.Parallel()

	data, err := DomainFleetStatus(testFleetStatus()).ToAPIType()
	require.NoError(t, err)
	report := &ReportSummary{ID: "r1"}
	body := FleetStatusBody{Environment: data.Environment, Hosts: data.Hosts, CollectedAt: data.CollectedAt, Report: report}

	ctx := &mockHumaContext{queryParams: map[string]string{queryParamDetail: "summary"}}
	result, err := fleetDetailTransformer(ctx, "200", body)
	require.NoError(t, err)

	summary, ok := result.(FleetStatusSummaryBody)
	require.True(t, ok)
	require.Equal(t, "production", summary.Environment)
	require.Equal(t, testCollectedAt, summary.CollectedAt)
	require.Same(t, report, summary.Report)
	require.Len(t, summary.Hosts, 2)
	require.Equal(t, InstanceSummary{
		ID:                   1,
		Name:                 "node-a",
		Port:                 9990,
		ServerState:          ServerStateRunning,
		DataSourceCount:      2,
		ConnectedDataSources: 1,
		DeploymentCount:      1,
	}, summary.Hosts[0].Instances[0])
	require.Equal(t, "connection refused", summary.Hosts[0].Instances[1].Error)
}

func TestFleetDetailTransformer_PassesThroughOtherTypes(t *testing.T) {
	t.Parallel()

	ctx := &mockHumaContext{queryParams: map[string]string{queryParamDetail: "summary"}}
	in := ReportSummary{ID: "r1"}

	result, err := fleetDetailTransformer(ctx, "200", in)
	require.NoError(t, err)
	require.Equal(t, in, result)
}
