package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// QueryMetrics holds custom metrics for paged query resolution.
type QueryMetrics struct {
	requestDuration metric.Float64Histogram
	requestCounter  metric.Int64Counter
	errorCounter    metric.Int64Counter
	activeRequests  metric.Int64UpDownCounter
	resultsCount    metric.Int64Histogram
	dedupedRows     metric.Int64Counter
}

// InitQueryMetrics initializes query resolution metrics.
func InitQueryMetrics() (*QueryMetrics, error) {
	meter := otel.Meter("graphql-pagequery")

	requestDuration, err := meter.Float64Histogram(
		"graphql.request.duration",
		metric.WithDescription("Duration of GraphQL requests in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create request duration histogram: %w", err)
	}

	requestCounter, err := meter.Int64Counter(
		"graphql.requests.total",
		metric.WithDescription("Total number of GraphQL requests"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create request counter: %w", err)
	}

	errorCounter, err := meter.Int64Counter(
		"graphql.errors.total",
		metric.WithDescription("Total number of GraphQL errors"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create error counter: %w", err)
	}

	activeRequests, err := meter.Int64UpDownCounter(
		"graphql.requests.active",
		metric.WithDescription("Number of active GraphQL requests"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create active requests counter: %w", err)
	}

	resultsCount, err := meter.Int64Histogram(
		"graphql.results.count",
		metric.WithDescription("Number of records returned by paged queries"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create results count histogram: %w", err)
	}

	dedupedRows, err := meter.Int64Counter(
		"graphql.records.deduped",
		metric.WithDescription("Rows removed by in-memory deduplication"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create deduped rows counter: %w", err)
	}

	return &QueryMetrics{
		requestDuration: requestDuration,
		requestCounter:  requestCounter,
		errorCounter:    errorCounter,
		activeRequests:  activeRequests,
		resultsCount:    resultsCount,
		dedupedRows:     dedupedRows,
	}, nil
}

// RecordRequest records a completed GraphQL request.
func (m *QueryMetrics) RecordRequest(ctx context.Context, duration time.Duration, hadErrors bool) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.Bool("error", hadErrors))
	m.requestCounter.Add(ctx, 1, attrs)
	m.requestDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
	if hadErrors {
		m.errorCounter.Add(ctx, 1)
	}
}

// RequestStarted marks a request in flight; the returned func marks it done.
func (m *QueryMetrics) RequestStarted(ctx context.Context) func() {
	if m == nil {
		return func() {}
	}
	m.activeRequests.Add(ctx, 1)
	return func() {
		m.activeRequests.Add(ctx, -1)
	}
}

// RecordResults records the record count of a resolved page.
func (m *QueryMetrics) RecordResults(ctx context.Context, entity string, count int) {
	if m == nil {
		return
	}
	m.resultsCount.Record(ctx, int64(count), metric.WithAttributes(attribute.String("entity", entity)))
}

// RecordDeduped records rows dropped by deduplication.
func (m *QueryMetrics) RecordDeduped(ctx context.Context, entity string, removed int) {
	if m == nil || removed <= 0 {
		return
	}
	m.dedupedRows.Add(ctx, int64(removed), metric.WithAttributes(attribute.String("entity", entity)))
}
