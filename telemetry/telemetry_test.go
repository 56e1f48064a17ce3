package telemetry

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/grovetools/kit/config"
	"github.com/grovetools/kit/reporter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func enabledConfig() config.TelemetryConfig {
	cfg := config.Config{Telemetry: config.TelemetryConfig{Enabled: true}}
	cfg.SetDefaults()
	return cfg.Telemetry
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	out := make(map[string]metricdata.Aggregation)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

func gaugeValues(t *testing.T, data metricdata.Aggregation) map[string]float64 {
	t.Helper()
	gauge, ok := data.(metricdata.Gauge[float64])
	require.True(t, ok, "unexpected aggregation %T", data)
	out := make(map[string]float64)
	for _, dp := range gauge.DataPoints {
		key, ok := dp.Attributes.Value(KeyAttribute)
		require.True(t, ok)
		out[key.AsString()] = dp.Value
	}
	return out
}

func emissions(data metricdata.Aggregation) int64 {
	sum, ok := data.(metricdata.Sum[int64])
	if !ok {
		return -1
	}
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestBridgeObservesState(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	p, err := NewProvider(context.Background(), enabledConfig(), WithReader(reader))
	require.NoError(t, err)
	defer p.Shutdown(context.Background())
	require.True(t, p.Enabled())

	r := reporter.New(reporter.State{"requests": 3, "ready": true, "region": "eu"})
	defer r.Close()

	b, err := NewBridge(p.Meter(), r)
	require.NoError(t, err)
	defer b.Close()

	metrics := collect(t, reader)
	values := gaugeValues(t, metrics[ValueMetric])
	assert.Equal(t, map[string]float64{"requests": 3, "ready": 1}, values)

	keys, ok := metrics[KeysMetric].(metricdata.Gauge[int64])
	require.True(t, ok)
	require.Len(t, keys.DataPoints, 1)
	assert.Equal(t, int64(3), keys.DataPoints[0].Value)

	r.Apply(reporter.Add("requests", 2), reporter.Set("ready", false))
	r.Set("region", "us")
	r.Set("region", "us")

	assert.Eventually(t, func() bool {
		return emissions(collect(t, reader)[EmissionsMetric]) == 2
	}, 2*time.Second, 10*time.Millisecond)

	values = gaugeValues(t, collect(t, reader)[ValueMetric])
	assert.Equal(t, 5.0, values["requests"])
	assert.Equal(t, 0.0, values["ready"])
}

func TestBridgeClose(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	p, err := NewProvider(context.Background(), enabledConfig(), WithReader(reader))
	require.NoError(t, err)
	defer p.Shutdown(context.Background())

	r := reporter.New(reporter.State{"n": 1})
	defer r.Close()

	b, err := NewBridge(p.Meter(), r)
	require.NoError(t, err)
	require.NoError(t, b.Close())

	if data, ok := collect(t, reader)[ValueMetric]; ok {
		assert.Empty(t, gaugeValues(t, data), "unregistered callback must not report values")
	}
}

func TestDisabledProvider(t *testing.T) {
	p, err := NewProvider(context.Background(), config.TelemetryConfig{})
	require.NoError(t, err)
	assert.False(t, p.Enabled())
	assert.NotNil(t, p.Meter())
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestStdoutExporter(t *testing.T) {
	var buf bytes.Buffer
	p, err := NewProvider(context.Background(), enabledConfig(), WithOutput(&buf))
	require.NoError(t, err)

	r := reporter.New(reporter.State{"requests": 7})
	defer r.Close()
	b, err := NewBridge(p.Meter(), r)
	require.NoError(t, err)
	defer b.Close()

	require.NoError(t, p.Shutdown(context.Background()))
	assert.Contains(t, buf.String(), ValueMetric)
	assert.Contains(t, buf.String(), `"requests"`)
}

func TestObservable(t *testing.T) {
	f, ok := observable(int8(4))
	assert.True(t, ok)
	assert.Equal(t, 4.0, f)

	_, ok = observable("4")
	assert.False(t, ok)

	_, ok = observable(nil)
	assert.False(t, ok)
}
