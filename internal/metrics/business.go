package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// Status labels recorded by the use case decorators.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// BusinessMetrics records use case outcomes. Domains are "auth", "cases", "shifts",
// "sts" and "outbox"; operations are named after the use case method in snake case.
type BusinessMetrics interface {
	// RecordOperation counts one call of operation in domain with its status.
	RecordOperation(ctx context.Context, domain, operation, status string)

	// RecordDuration observes how long operation took, in seconds.
	RecordDuration(ctx context.Context, domain, operation string, duration time.Duration, status string)

	// RecordRateLimit counts a fixed-window limiter decision for a named policy.
	RecordRateLimit(ctx context.Context, policy string, allowed bool)
}

type businessMetrics struct {
	operations metric.Int64Counter
	durations  metric.Float64Histogram
	rateLimits metric.Int64Counter
}

// NewBusinessMetrics registers the business instruments on meterProvider. Instrument
// names are prefixed with namespace, e.g. "capitaldesk_operations_total".
func NewBusinessMetrics(meterProvider metric.MeterProvider, namespace string) (BusinessMetrics, error) {
	meter := meterProvider.Meter(namespace)
	name := func(suffix string) string { return namespace + "_" + suffix }

	operations, err := meter.Int64Counter(name("operations_total"),
		metric.WithDescription("Use case calls by domain, operation and status"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create operation counter: %w", err)
	}

	durations, err := meter.Float64Histogram(name("operation_duration_seconds"),
		metric.WithDescription("Use case latency in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}

	rateLimits, err := meter.Int64Counter(name("rate_limit_decisions_total"),
		metric.WithDescription("Fixed-window rate limit decisions by policy"),
		metric.WithUnit("{decision}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit counter: %w", err)
	}

	return &businessMetrics{operations: operations, durations: durations, rateLimits: rateLimits}, nil
}

// NewNoOpBusinessMetrics returns a recorder that discards everything. It is used when
// metrics are disabled.
func NewNoOpBusinessMetrics() BusinessMetrics {
	m, err := NewBusinessMetrics(noop.NewMeterProvider(), "noop")
	if err != nil {
		// The no-op meter never fails to create instruments.
		panic(err)
	}
	return m
}

func operationAttrs(domain, operation, status string) metric.MeasurementOption {
	return metric.WithAttributes(
		attribute.String("domain", domain),
		attribute.String("operation", operation),
		attribute.String("status", status),
	)
}

func (b *businessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	b.operations.Add(ctx, 1, operationAttrs(domain, operation, status))
}

func (b *businessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	b.durations.Record(ctx, duration.Seconds(), operationAttrs(domain, operation, status))
}

func (b *businessMetrics) RecordRateLimit(ctx context.Context, policy string, allowed bool) {
	decision := "denied"
	if allowed {
		decision = "allowed"
	}
	b.rateLimits.Add(ctx, 1, metric.WithAttributes(
		attribute.String("policy", policy),
		attribute.String("decision", decision),
	))
}
