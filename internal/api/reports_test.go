package api

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fleetwatch/fleetwatch/internal/domain"
	"github.com/fleetwatch/fleetwatch/internal/errors"
)

func TestHandleReportsList(t *testing.T) {
	t.Parallel()

	archiver := &mockArchiver{summaries: []domain.ReportSummary{
		{ID: "b", Environment: "production", Timestamp: testCollectedAt.Add(time.Hour), HostCount: 2, InstanceCount: 3},
		{ID: "a", Environment: "production", Timestamp: testCollectedAt, HostCount: 2, InstanceCount: 3, RunningCount: 3},
	}}

	resp, err := handleReportsList(context.Background(), archiver, &ReportsListRequest{Limit: 2, Environment: "production"})
	require.NoError(t, err)

	require.Equal(t, 2, archiver.gotLimit)
	require.Equal(t, "production", archiver.gotEnv)
	require.Len(t, resp.Body.Reports, 2)
	require.Equal(t, "b", resp.Body.Reports[0].ID)
	require.Equal(t, 3, resp.Body.Reports[1].RunningCount)
}

func TestHandleReportsList_Empty(t *testing.T) {
	t.Parallel()

	resp, err := handleReportsList(context.Background(), &mockArchiver{}, &ReportsListRequest{Limit: 5})
	require.NoError(t, err)
	require.NotNil(t, resp.Body.Reports)
	require.Empty(t, resp.Body.Reports)
}

func TestHandleReportGet(t *testing.T) {
	t.Parallel()

	id := "0192f0c4-5b7e-7c9a-9d1e-3f4a5b6c7d8e"
	archiver := &mockArchiver{reports: map[string]domain.Report{
		id: {ID: id, Environment: "production", Timestamp: testCollectedAt, Snapshot: testFleetStatus()},
	}}

	tests := []struct {
		name   string
		id     string
		target error
	}{
		{name: "found", id: id},
		{name: "unknown id", id: "0192f0c4-0000-7000-8000-000000000000", target: errors.ErrReportNotFound},
		{name: "not a uuid", id: "../secrets", target: errors.ErrBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			resp, err := handleReportGet(context.Background(), archiver, &ReportGetRequest{ID: tc.id})
			if tc.target != nil {
				require.ErrorIs(t, err, tc.target)
				return
			}

			require.NoError(t, err)
			require.Equal(t, id, resp.Body.ID)
			require.Equal(t, "production", resp.Body.Environment)
			require.Len(t, resp.Body.Snapshot.Hosts, 2)
			require.Equal(t, "app01", resp.Body.Snapshot.Hosts[0].Hostname)
		})
	}
}
