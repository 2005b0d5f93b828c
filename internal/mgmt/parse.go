package mgmt

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/fleetwatch/fleetwatch/internal/domain"
)

// ParseServerState interprets a reply to ServerStateQuery.
func ParseServerState(r Reply) domain.ServerState {
	if !r.Succeeded {
		return domain.ServerStateDown
	}
	if s, ok := r.Payload.(string); ok && s == StateRunning {
		return domain.ServerStateRunning
	}
	return domain.ServerStateUnknown
}

// ParseDataSources interprets a reply to DataSourceEnumeration.
// Plain data sources come first, each category ordered by name.
// Missing or malformed categories yield no entries.
func ParseDataSources(r Reply) []domain.DataSourceInfo {
	result := []domain.DataSourceInfo{}
	if !r.Succeeded {
		return result
	}

	root, ok := r.Payload.(map[string]any)
	if !ok {
		return result
	}

	categories := []struct {
		resource string
		kind     domain.DataSourceKind
	}{
		{ResourceDataSource, domain.DataSourceKindPlain},
		{ResourceXADataSource, domain.DataSourceKindTransactional},
	}

	for _, c := range categories {
		entries, ok := root[c.resource].(map[string]any)
		if !ok {
			continue
		}
		for _, name := range slices.Sorted(maps.Keys(entries)) {
			attrs, _ := entries[name].(map[string]any)
			result = append(result, domain.DataSourceInfo{
				Name:       name,
				JNDIName:   stringAttr(attrs, "jndi-name", ""),
				DriverName: stringAttr(attrs, "driver-name", ""),
				Kind:       c.kind,
				Enabled:    boolAttr(attrs, "enabled"),
			})
		}
	}

	return result
}

// ParseConnectionTest interprets a reply to ConnectionTest.
// A failed test is an expected outcome and simply reports false.
func ParseConnectionTest(r Reply) bool {
	return r.Succeeded
}

// ParseDeployments interprets a reply to DeploymentEnumeration, ordered by name.
// Both a name to attributes map and the wildcard step list shape are accepted.
func ParseDeployments(r Reply) []domain.DeploymentStatus {
	result := []domain.DeploymentStatus{}
	if !r.Succeeded {
		return result
	}

	switch payload := r.Payload.(type) {
	case map[string]any:
		for name, v := range payload {
			attrs, _ := v.(map[string]any)
			result = append(result, deployment(name, attrs))
		}
	case []any:
		for _, item := range payload {
			step, ok := item.(map[string]any)
			if !ok {
				continue
			}
			if outcome, ok := step["outcome"].(string); ok && outcome != "success" {
				continue
			}
			name := deploymentName(step)
			if name == "" {
				continue
			}
			attrs, _ := step["result"].(map[string]any)
			result = append(result, deployment(name, attrs))
		}
	}

	slices.SortFunc(result, func(a, b domain.DeploymentStatus) int {
		return cmp.Compare(a.Name, b.Name)
	})

	return result
}

// FailureDescription extracts a human-readable reason from an unsuccessful reply.
func FailureDescription(r Reply) string {
	switch p := r.Payload.(type) {
	case nil:
		return "operation failed"
	case string:
		if s := strings.TrimSpace(p); s != "" {
			return s
		}
		return "operation failed"
	case map[string]any:
		if s := stringAttr(p, "failure-description", ""); s != "" {
			return s
		}
	}
	return fmt.Sprintf("operation failed: %v", r.Payload)
}

func deployment(name string, attrs map[string]any) domain.DeploymentStatus {
	return domain.DeploymentStatus{
		Name:          name,
		Enabled:       boolAttr(attrs, "enabled"),
		RuntimeStatus: stringAttr(attrs, "status", domain.RuntimeStatusUnknown),
	}
}

// deploymentName reads the deployment name from a step address like [{"deployment": "app.war"}].
func deploymentName(step map[string]any) string {
	address, ok := step["address"].([]any)
	if !ok {
		return ""
	}
	for _, element := range address {
		if m, ok := element.(map[string]any); ok {
			if name, ok := m["deployment"].(string); ok {
				return name
			}
		}
	}
	return ""
}

func stringAttr(attrs map[string]any, key string, fallback string) string {
	if attrs == nil {
		return fallback
	}
	if s, ok := attrs[key].(string); ok && s != "" {
		return s
	}
	return fallback
}

// boolAttr accepts both JSON booleans and their string form, anything else is false.
func boolAttr(attrs map[string]any, key string) bool {
	if attrs == nil {
		return false
	}
	switch v := attrs[key].(type) {
	case bool:
		return v
	case string:
		return strings.EqualFold(strings.TrimSpace(v), "true")
	default:
		return false
	}
}
