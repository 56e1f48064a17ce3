package objutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type serverStats struct {
	Name     string `kit:"name"`
	Requests int    `kit:"requests"`
	Healthy  bool   `kit:"healthy"`
	Uptime   time.Duration
}

func TestToMap(t *testing.T) {
	m, err := ToMap(serverStats{Name: "api", Requests: 3, Healthy: true, Uptime: time.Second})
	require.NoError(t, err)
	assert.Equal(t, "api", m["name"])
	assert.Equal(t, 3, m["requests"])
	assert.Equal(t, true, m["healthy"])
	assert.Equal(t, time.Second, m["Uptime"])

	m, err = ToMap(&serverStats{Name: "ptr"})
	require.NoError(t, err)
	assert.Equal(t, "ptr", m["name"])

	src := map[string]any{"a": 1}
	m, err = ToMap(src)
	require.NoError(t, err)
	m["a"] = 2
	assert.Equal(t, 1, src["a"], "ToMap must copy map input")

	m, err = ToMap(nil)
	require.NoError(t, err)
	assert.Empty(t, m)

	_, err = ToMap(42)
	assert.Error(t, err)
}

func TestFromMap(t *testing.T) {
	var stats serverStats
	err := FromMap(map[string]any{
		"name":     "api",
		"requests": 7.0,
		"healthy":  "true",
		"Uptime":   "2s",
	}, &stats)
	require.NoError(t, err)
	assert.Equal(t, serverStats{Name: "api", Requests: 7, Healthy: true, Uptime: 2 * time.Second}, stats)
}

func TestMapHelpers(t *testing.T) {
	m := map[string]int{"b": 2, "a": 1, "c": 3}

	assert.Equal(t, []string{"a", "b", "c"}, Keys(m))
	assert.Equal(t, map[string]int{"a": 1, "c": 3}, Pick(m, "a", "c", "missing"))
	assert.Equal(t, map[string]int{"b": 2}, Omit(m, "a", "c"))
	assert.Equal(t, map[string]int{"a": 1, "b": 20, "c": 3}, Merge(nil, m, map[string]int{"b": 20}))
	assert.Equal(t, 2, m["b"], "Merge must not touch sources")
}
