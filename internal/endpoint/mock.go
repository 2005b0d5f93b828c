package endpoint

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/fleetwatch/fleetwatch/internal/domain"
	"github.com/fleetwatch/fleetwatch/internal/mgmt"
)

// MockClient answers management commands deterministically without any network call.
// Unless a response is scripted for a host, port and command, it simulates a small fleet where
// roughly 80% of instances are online and data source tests mostly succeed, keyed on stable hashes.
// NewMockClient should be used to create instances of MockClient.
type MockClient struct {
	logger  hclog.Logger
	timeout time.Duration

	mu       sync.RWMutex
	scripted map[mockKey]mockResult
	delays   map[mockTarget]time.Duration
	calls    map[mockTarget]int
}

type mockTarget struct {
	host string
	port int
}

type mockKey struct {
	target  mockTarget
	command string
}

type mockResult struct {
	reply mgmt.Reply
	err   error
}

// NewMockClient creates a deterministic simulated management client.
func NewMockClient(logger hclog.Logger, opt ...Option) (*MockClient, error) {
	opts, err := NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	return &MockClient{
		logger:   logger.Named("mock"),
		timeout:  opts.RequestTimeout,
		scripted: make(map[mockKey]mockResult),
		delays:   make(map[mockTarget]time.Duration),
		calls:    make(map[mockTarget]int),
	}, nil
}

// Script fixes the outcome of a command for a host and port.
// A non-nil err is returned as is, wrap it in a TransportError to simulate transport failures.
func (m *MockClient) Script(host string, port int, command string, reply mgmt.Reply, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scripted[mockKey{mockTarget{host, port}, command}] = mockResult{reply: reply, err: err}
}

// Delay makes every command sent to host and port take d before answering.
// Delays honor the request timeout and context cancellation, surfacing as timeout errors.
func (m *MockClient) Delay(host string, port int, d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delays[mockTarget{host, port}] = d
}

// Calls returns how many commands have been sent to host and port.
func (m *MockClient) Calls(host string, port int) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls[mockTarget{host, port}]
}

// Execute returns the scripted or simulated reply for the command.
func (m *MockClient) Execute(
	ctx context.Context,
	host string,
	port int,
	command string,
	_ domain.Credentials,
) (mgmt.Reply, error) {
	target := mockTarget{host, port}

	m.mu.Lock()
	m.calls[target]++
	delay := m.delays[target]
	scripted, isScripted := m.scripted[mockKey{target, command}]
	m.mu.Unlock()

	m.logger.Trace("Simulating management command", "host", host, "port", port, "command", command)

	if delay > 0 {
		ctx, cancel := context.WithTimeout(ctx, m.timeout)
		defer cancel()

		timer := time.NewTimer(delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return mgmt.Reply{}, classify(ctx, host, port, ctx.Err())
		case <-timer.C:
		}
	}

	if isScripted {
		return scripted.reply, scripted.err
	}

	return simulate(host, port, command), nil
}

// simulate produces the built-in fleet simulation.
func simulate(host string, port int, command string) mgmt.Reply {
	switch {
	case command == mgmt.ServerStateQuery():
		if stableBucket(fmt.Sprintf("%s:%d", host, port)) < 8 {
			return mgmt.Reply{Succeeded: true, Payload: mgmt.StateRunning}
		}
		return mgmt.Reply{Succeeded: false, Payload: "Failed to connect to the controller"}

	case command == mgmt.DataSourceEnumeration():
		return mgmt.Reply{Succeeded: true, Payload: map[string]any{
			mgmt.ResourceDataSource: map[string]any{
				"MainDS": map[string]any{
					"jndi-name":   "java:jboss/datasources/MainDS",
					"driver-name": "mysql",
					"enabled":     true,
				},
				"ReportingDS": map[string]any{
					"jndi-name":   "java:jboss/datasources/ReportingDS",
					"driver-name": "oracle",
					"enabled":     true,
				},
			},
			mgmt.ResourceXADataSource: map[string]any{
				"TransactionDS": map[string]any{
					"jndi-name":   "java:jboss/datasources/TransactionDS",
					"driver-name": "postgresql",
					"enabled":     true,
				},
			},
		}}

	case strings.HasSuffix(command, ":test-connection-in-pool"):
		if stableBucket(fmt.Sprintf("%s:%d%s", host, port, command)) < 8 {
			return mgmt.Reply{Succeeded: true, Payload: nil}
		}
		return mgmt.Reply{Succeeded: false, Payload: map[string]any{
			"outcome":             "failed",
			"failure-description": "Could not connect to data source",
		}}

	case command == mgmt.DeploymentEnumeration():
		apiHealthy := stableBucket(fmt.Sprintf("%s:%d/api.war", host, port)) < 5
		apiStatus := "FAILED"
		if apiHealthy {
			apiStatus = "OK"
		}
		return mgmt.Reply{Succeeded: true, Payload: map[string]any{
			"app.war":   map[string]any{"runtime-name": "app.war", "enabled": true, "status": "OK"},
			"admin.war": map[string]any{"runtime-name": "admin.war", "enabled": true, "status": "OK"},
			"api.war":   map[string]any{"runtime-name": "api.war", "enabled": apiHealthy, "status": apiStatus},
		}}

	default:
		return mgmt.Reply{Succeeded: true, Payload: "Command executed in mock mode"}
	}
}

// stableBucket maps s onto 0-9 using a stable hash.
func stableBucket(s string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(s))
	return h.Sum32() % 10
}
