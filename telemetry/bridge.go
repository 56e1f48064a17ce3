package telemetry

import (
	"context"
	"fmt"

	"github.com/grovetools/kit/equal"
	"github.com/grovetools/kit/logging"
	"github.com/grovetools/kit/reporter"
	"github.com/sourcegraph/conc"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	// ValueMetric is the gauge observing every numeric or boolean key.
	ValueMetric = "kit.reporter.value"
	// KeysMetric is the gauge observing the number of keys.
	KeysMetric = "kit.reporter.keys"
	// EmissionsMetric counts committed changes.
	EmissionsMetric = "kit.reporter.emissions"
	// KeyAttribute names the state key on ValueMetric data points.
	KeyAttribute = attribute.Key("key")
)

// Bridge publishes a reporter's state through a meter. Gauges read the
// current snapshot at collection time; the emission counter follows the
// reporter's change stream.
type Bridge struct {
	registration metric.Registration
	changes      *reporter.Subscription[[]reporter.Change]
	wg           conc.WaitGroup
}

// NewBridge registers the reporter instruments on meter.
func NewBridge(meter metric.Meter, r *reporter.Reporter) (*Bridge, error) {
	values, err := meter.Float64ObservableGauge(ValueMetric,
		metric.WithDescription("Numeric and boolean reporter values, one series per key"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", ValueMetric, err)
	}
	keys, err := meter.Int64ObservableGauge(KeysMetric,
		metric.WithDescription("Number of keys held by the reporter"),
		metric.WithUnit("{key}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", KeysMetric, err)
	}
	emissions, err := meter.Int64Counter(EmissionsMetric,
		metric.WithDescription("Committed reporter state changes"),
		metric.WithUnit("{change}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", EmissionsMetric, err)
	}

	reg, err := meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		snap := r.Snapshot()
		o.ObserveInt64(keys, int64(len(snap)))
		for k, v := range snap {
			if f, ok := observable(v); ok {
				o.ObserveFloat64(values, f, metric.WithAttributes(KeyAttribute.String(k)))
			}
		}
		return nil
	}, values, keys)
	if err != nil {
		return nil, fmt.Errorf("register reporter callback: %w", err)
	}

	b := &Bridge{
		registration: reg,
		changes:      r.Changes(),
	}
	log := logging.NewLogger("kit.telemetry")
	b.wg.Go(func() {
		for range b.changes.C() {
			emissions.Add(context.Background(), 1)
		}
		log.Debug("Reporter change stream closed")
	})
	return b, nil
}

// Close unregisters the instruments and stops following the reporter.
func (b *Bridge) Close() error {
	b.changes.Close()
	b.wg.Wait()
	return b.registration.Unregister()
}

// observable converts numbers to float64 and booleans to 0 or 1.
func observable(v any) (float64, bool) {
	if b, ok := v.(bool); ok {
		if b {
			return 1, true
		}
		return 0, true
	}
	return equal.Float(v)
}
