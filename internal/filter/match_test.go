package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testItem struct {
	Name    string
	State   string
	Tags    []string
	Healthy bool
}

func testOptions() []Option[testItem] {
	return []Option[testItem]{
		WithMatchers(map[string]Predicate[testItem]{
			"name":    Partial(func(m testItem) string { return m.Name }),
			"state":   Equals(func(m testItem) string { return m.State }),
			"tag":     PartialAny(func(m testItem) []string { return m.Tags }),
			"healthy": EqualsBool(func(m testItem) bool { return m.Healthy }),
		}),
	}
}

func TestNormalizeString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "hello", NormalizeString("  Hello "))
	assert.Equal(t, "world", NormalizeString("WORLD"))
	assert.Equal(t, "", NormalizeString("  "))
}

func TestEquals(t *testing.T) {
	t.Parallel()

	p := Equals(func(m testItem) string { return m.State })
	assert.True(t, p(testItem{State: "running"}, " RUNNING"))
	assert.False(t, p(testItem{State: "running"}, "run"))
}

func TestPartial(t *testing.T) {
	t.Parallel()

	p := Partial(func(m testItem) string { return m.Name })
	assert.True(t, p(testItem{Name: "node-a"}, "NODE"))
	assert.False(t, p(testItem{Name: "node-a"}, "node-b"))
}

func TestPartialAny(t *testing.T) {
	t.Parallel()

	p := PartialAny(func(m testItem) []string { return m.Tags })
	assert.True(t, p(testItem{Tags: []string{"app.war", "api.war"}}, "API"))
	assert.False(t, p(testItem{Tags: []string{"app.war"}}, "admin"))
	assert.False(t, p(testItem{}, "admin"))
}

func TestEqualsBool(t *testing.T) {
	t.Parallel()

	p := EqualsBool(func(m testItem) bool { return m.Healthy })
	assert.True(t, p(testItem{Healthy: true}, "true"))
	assert.True(t, p(testItem{Healthy: false}, "0"))
	assert.False(t, p(testItem{Healthy: true}, "false"))
	assert.False(t, p(testItem{Healthy: true}, "maybe"))
}

func TestOptions_Match(t *testing.T) {
	t.Parallel()

	item := testItem{Name: "node-a", State: "running", Tags: []string{"app.war"}, Healthy: true}

	tests := []struct {
		name     string
		filters  map[string]string
		expected bool
		errMsg   string
	}{
		{name: "no filters", expected: true},
		{name: "single match", filters: map[string]string{"state": "running"}, expected: true},
		{name: "all must match", filters: map[string]string{"state": "running", "name": "node-b"}, expected: false},
		{name: "keys are normalized", filters: map[string]string{" NAME ": "node", "Healthy": "true"}, expected: true},
		{name: "tag", filters: map[string]string{"tag": "app"}, expected: true},
		{
			name:    "unsupported keys",
			filters: map[string]string{"zone": "eu", "owner": "ops", "state": "down"},
			errMsg:  "unsupported filter key(s): owner, zone (supported: healthy, name, state, tag)",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			opts, err := NewOptions(testOptions()...)
			require.NoError(t, err)

			ok, err := opts.Match(item, tc.filters)
			if tc.errMsg != "" {
				require.EqualError(t, err, tc.errMsg)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.expected, ok)
		})
	}
}

func TestWithMatcher_Invalid(t *testing.T) {
	t.Parallel()

	_, err := NewOptions(WithMatcher[testItem](" ", Equals(func(m testItem) string { return m.Name })))
	require.EqualError(t, err, "filter key cannot be empty")

	_, err = NewOptions(WithMatcher[testItem]("name", nil))
	require.EqualError(t, err, "matcher for filter key 'name' cannot be nil")
}

func TestOptions_Keys(t *testing.T) {
	t.Parallel()

	opts, err := NewOptions(testOptions()...)
	require.NoError(t, err)
	require.Equal(t, []string{"healthy", "name", "state", "tag"}, opts.Keys())
}
