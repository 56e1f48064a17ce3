// Package telemetry exports reporter state as OpenTelemetry metrics.
package telemetry

import (
	"context"
	"fmt"
	"io"

	"github.com/grovetools/kit/config"
	"github.com/grovetools/kit/version"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.32.0"
)

// Provider owns the meter provider built from the telemetry config section.
// A disabled Provider hands out meters from the global (no-op by default)
// provider.
type Provider struct {
	meterProvider *sdkmetric.MeterProvider
	cfg           config.TelemetryConfig
}

// ProviderOption configures NewProvider.
type ProviderOption func(*providerOptions)

type providerOptions struct {
	readers []sdkmetric.Reader
	out     io.Writer
}

// WithReader adds a reader, e.g. an sdkmetric.ManualReader in tests. When
// any reader is given the stdout exporter is not installed.
func WithReader(r sdkmetric.Reader) ProviderOption {
	return func(o *providerOptions) {
		o.readers = append(o.readers, r)
	}
}

// WithOutput sets where the stdout exporter writes.
func WithOutput(w io.Writer) ProviderOption {
	return func(o *providerOptions) {
		o.out = w
	}
}

// NewProvider builds a meter provider exporting to stdout every
// cfg.ExportInterval().
func NewProvider(ctx context.Context, cfg config.TelemetryConfig, opts ...ProviderOption) (*Provider, error) {
	if !cfg.Enabled {
		return &Provider{cfg: cfg}, nil
	}

	var o providerOptions
	for _, opt := range opts {
		opt(&o)
	}

	res, err := newResource(ctx, cfg)
	if err != nil {
		return nil, err
	}

	readers := o.readers
	if len(readers) == 0 {
		exporterOpts := []stdoutmetric.Option{stdoutmetric.WithPrettyPrint()}
		if o.out != nil {
			exporterOpts = append(exporterOpts, stdoutmetric.WithWriter(o.out))
		}
		exporter, err := stdoutmetric.New(exporterOpts...)
		if err != nil {
			return nil, fmt.Errorf("create metric exporter: %w", err)
		}
		readers = append(readers, sdkmetric.NewPeriodicReader(exporter,
			sdkmetric.WithInterval(cfg.ExportInterval()),
		))
	}

	mpOpts := []sdkmetric.Option{sdkmetric.WithResource(res)}
	for _, r := range readers {
		mpOpts = append(mpOpts, sdkmetric.WithReader(r))
	}
	return &Provider{
		meterProvider: sdkmetric.NewMeterProvider(mpOpts...),
		cfg:           cfg,
	}, nil
}

// Enabled reports whether metrics are exported.
func (p *Provider) Enabled() bool { return p.meterProvider != nil }

// Meter returns the meter named by the config's meter_name.
func (p *Provider) Meter(opts ...metric.MeterOption) metric.Meter {
	name := p.cfg.MeterName
	if name == "" {
		name = config.DefaultMeterName
	}
	if p.meterProvider == nil {
		return otel.Meter(name, opts...)
	}
	return p.meterProvider.Meter(name, opts...)
}

// Shutdown flushes and stops the exporter.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p.meterProvider == nil {
		return nil
	}
	if err := p.meterProvider.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown meter: %w", err)
	}
	return nil
}

func newResource(ctx context.Context, cfg config.TelemetryConfig) (*resource.Resource, error) {
	name := cfg.ServiceName
	if name == "" {
		name = config.DefaultServiceName
	}
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(name),
			semconv.ServiceVersionKey.String(version.Version),
		),
		resource.WithProcessRuntimeName(),
		resource.WithProcessRuntimeVersion(),
	)
	if err != nil {
		return nil, fmt.Errorf("create telemetry resource: %w", err)
	}
	return res, nil
}
