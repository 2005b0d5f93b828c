package mgmt

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fleetwatch/fleetwatch/internal/domain"
)

func TestCommands(t *testing.T) {
	t.Parallel()

	require.Equal(t, ":read-attribute(name=server-state)", ServerStateQuery())
	require.Equal(t, "/subsystem=datasources:read-resource(recursive=true)", DataSourceEnumeration())
	require.Equal(t, "/deployment=*:read-resource(include-runtime=true)", DeploymentEnumeration())
	require.Equal(
		t,
		"/subsystem=datasources/data-source=MainDS:test-connection-in-pool",
		ConnectionTest("MainDS", domain.DataSourceKindPlain),
	)
	require.Equal(
		t,
		"/subsystem=datasources/xa-data-source=TransactionDS:test-connection-in-pool",
		ConnectionTest("TransactionDS", domain.DataSourceKindTransactional),
	)
}

func TestParseServerState(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		reply    Reply
		expected domain.ServerState
	}{
		{
			name:     "running",
			reply:    Reply{Succeeded: true, Payload: "running"},
			expected: domain.ServerStateRunning,
		},
		{
			name:     "reload required",
			reply:    Reply{Succeeded: true, Payload: "reload-required"},
			expected: domain.ServerStateUnknown,
		},
		{
			name:     "unexpected payload shape",
			reply:    Reply{Succeeded: true, Payload: map[string]any{"result": "running"}},
			expected: domain.ServerStateUnknown,
		},
		{
			name:     "failed",
			reply:    Reply{Succeeded: false},
			expected: domain.ServerStateDown,
		},
		{
			name:     "failed with running payload",
			reply:    Reply{Succeeded: false, Payload: "running"},
			expected: domain.ServerStateDown,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.expected, ParseServerState(tc.reply))
		})
	}
}

func TestParseDataSources(t *testing.T) {
	t.Parallel()

	t.Run("plain and transactional", func(t *testing.T) {
		t.Parallel()

		payload := decode(t, `{
			"data-source": {
				"MainDS": {"jndi-name": "java:jboss/datasources/MainDS", "driver-name": "mysql", "enabled": true}
			},
			"xa-data-source": {
				"TransactionDS": {"jndi-name": "java:jboss/datasources/TransactionDS", "driver-name": "postgresql", "enabled": true}
			}
		}`)

		got := ParseDataSources(Reply{Succeeded: true, Payload: payload})
		require.Equal(t, []domain.DataSourceInfo{
			{
				Name:       "MainDS",
				JNDIName:   "java:jboss/datasources/MainDS",
				DriverName: "mysql",
				Kind:       domain.DataSourceKindPlain,
				Enabled:    true,
			},
			{
				Name:       "TransactionDS",
				JNDIName:   "java:jboss/datasources/TransactionDS",
				DriverName: "postgresql",
				Kind:       domain.DataSourceKindTransactional,
				Enabled:    true,
			},
		}, got)
	})

	t.Run("ordered by name within category", func(t *testing.T) {
		t.Parallel()

		payload := decode(t, `{"data-source": {"ReportingDS": {}, "MainDS": {}}}`)
		got := ParseDataSources(Reply{Succeeded: true, Payload: payload})
		require.Len(t, got, 2)
		require.Equal(t, "MainDS", got[0].Name)
		require.Equal(t, "ReportingDS", got[1].Name)
	})

	t.Run("missing attributes use defaults", func(t *testing.T) {
		t.Parallel()

		payload := decode(t, `{"xa-data-source": {"XA": null}}`)
		got := ParseDataSources(Reply{Succeeded: true, Payload: payload})
		require.Equal(t, []domain.DataSourceInfo{{Name: "XA", Kind: domain.DataSourceKindTransactional}}, got)
	})

	t.Run("string enabled flag", func(t *testing.T) {
		t.Parallel()

		payload := decode(t, `{"data-source": {"DS": {"enabled": "true"}}}`)
		got := ParseDataSources(Reply{Succeeded: true, Payload: payload})
		require.True(t, got[0].Enabled)
	})

	for name, reply := range map[string]Reply{
		"no categories":      {Succeeded: true, Payload: map[string]any{}},
		"category not a map": {Succeeded: true, Payload: map[string]any{"data-source": []any{"x"}}},
		"payload is string":  {Succeeded: true, Payload: "oops"},
		"nil payload":        {Succeeded: true},
		"failed reply":       {Succeeded: false, Payload: "boom"},
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got := ParseDataSources(reply)
			require.NotNil(t, got)
			require.Empty(t, got)
		})
	}
}

func TestParseConnectionTest(t *testing.T) {
	t.Parallel()

	require.True(t, ParseConnectionTest(Reply{Succeeded: true}))
	require.False(t, ParseConnectionTest(Reply{Succeeded: false, Payload: map[string]any{"outcome": "failed"}}))
}

func TestParseDeployments(t *testing.T) {
	t.Parallel()

	t.Run("map shape", func(t *testing.T) {
		t.Parallel()

		payload := decode(t, `{
			"app.war": {"runtime-name": "app.war", "enabled": true, "status": "OK"},
			"api.war": {"enabled": false, "status": "FAILED"},
			"bare.ear": {}
		}`)

		got := ParseDeployments(Reply{Succeeded: true, Payload: payload})
		require.Equal(t, []domain.DeploymentStatus{
			{Name: "api.war", Enabled: false, RuntimeStatus: "FAILED"},
			{Name: "app.war", Enabled: true, RuntimeStatus: "OK"},
			{Name: "bare.ear", Enabled: false, RuntimeStatus: domain.RuntimeStatusUnknown},
		}, got)
	})

	t.Run("wildcard step list shape", func(t *testing.T) {
		t.Parallel()

		payload := decode(t, `[
			{"address": [{"deployment": "b.war"}], "outcome": "success", "result": {"enabled": true, "status": "OK"}},
			{"address": [{"deployment": "a.war"}], "outcome": "success", "result": {"enabled": true}},
			{"address": [{"deployment": "broken.war"}], "outcome": "failed"},
			{"address": [], "outcome": "success", "result": {}},
			"garbage"
		]`)

		got := ParseDeployments(Reply{Succeeded: true, Payload: payload})
		require.Equal(t, []domain.DeploymentStatus{
			{Name: "a.war", Enabled: true, RuntimeStatus: domain.RuntimeStatusUnknown},
			{Name: "b.war", Enabled: true, RuntimeStatus: "OK"},
		}, got)
	})

	t.Run("unexpected shapes", func(t *testing.T) {
		t.Parallel()

		require.Empty(t, ParseDeployments(Reply{Succeeded: true, Payload: "nope"}))
		require.Empty(t, ParseDeployments(Reply{Succeeded: false, Payload: map[string]any{"a.war": map[string]any{}}}))
	})
}

func TestFailureDescription(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		reply    Reply
		expected string
	}{
		{"nil", Reply{}, "operation failed"},
		{"blank string", Reply{Payload: "  "}, "operation failed"},
		{"string", Reply{Payload: "Failed to connect to the controller"}, "Failed to connect to the controller"},
		{
			"failure description",
			Reply{Payload: map[string]any{"outcome": "failed", "failure-description": "WFLYJCA0040: failed"}},
			"WFLYJCA0040: failed",
		},
		{"other", Reply{Payload: 42}, "operation failed: 42"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.expected, FailureDescription(tc.reply))
		})
	}
}

func decode(t *testing.T, s string) any {
	t.Helper()

	var v any
	require.NoError(t, json.Unmarshal([]byte(s), &v))
	return v
}
