// Package metrics provides OpenTelemetry metrics instrumentation with Prometheus export.
// Business operations of every domain and HTTP traffic are recorded through one provider.
package metrics

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
)

// ServiceName identifies the process in exported resource attributes.
const ServiceName = "capital-desk"

// Provider owns the meter provider and the Prometheus registry it exports into.
type Provider struct {
	meterProvider *metric.MeterProvider
	exporter      *promexporter.Exporter
	registry      *prometheus.Registry
}

type providerOptions struct {
	serviceVersion   string
	runtimeCollector bool
}

// ProviderOption customizes NewProvider.
type ProviderOption func(*providerOptions)

// WithServiceVersion tags exported metrics with the build version.
func WithServiceVersion(version string) ProviderOption {
	return func(o *providerOptions) { o.serviceVersion = version }
}

// WithoutRuntimeCollectors skips the Go runtime and process collectors. Tests that
// create many providers use it to keep registries small.
func WithoutRuntimeCollectors() ProviderOption {
	return func(o *providerOptions) { o.runtimeCollector = false }
}

// NewProvider creates a provider whose instruments are prefixed with namespace by
// their callers (e.g. "capitaldesk_http_requests_total").
func NewProvider(namespace string, opts ...ProviderOption) (*Provider, error) {
	options := providerOptions{runtimeCollector: true}
	for _, opt := range opts {
		opt(&options)
	}

	registry := prometheus.NewRegistry()
	if options.runtimeCollector {
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{Namespace: namespace}),
		)
	}

	exporter, err := promexporter.New(promexporter.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	attrs := []attribute.KeyValue{attribute.String("service.name", ServiceName)}
	if options.serviceVersion != "" {
		attrs = append(attrs, attribute.String("service.version", options.serviceVersion))
	}

	meterProvider := metric.NewMeterProvider(
		metric.WithReader(exporter),
		metric.WithResource(resource.NewSchemaless(attrs...)),
	)

	return &Provider{
		meterProvider: meterProvider,
		exporter:      exporter,
		registry:      registry,
	}, nil
}

// Handler serves the registry in Prometheus exposition format.
func (p *Provider) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// MeterProvider returns the OpenTelemetry meter provider.
func (p *Provider) MeterProvider() *metric.MeterProvider {
	return p.meterProvider
}

// Shutdown flushes and stops the meter provider.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p.meterProvider == nil {
		return nil
	}
	return p.meterProvider.Shutdown(ctx)
}
