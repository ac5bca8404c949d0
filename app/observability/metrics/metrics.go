package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	CatalogMutationsTotal       metric.Int64Counter
	RegulatoryCheckSeconds      metric.Float64Histogram
	AuthenticationAttemptsTotal metric.Int64Counter
	AuditWritesTotal            metric.Int64Counter
}

// NewAppMetrics creates the instruments on the given meter.
func NewAppMetrics(meter metric.Meter) (*AppMetrics, error) {
	var err error
	m := &AppMetrics{}

	m.CatalogMutationsTotal, err = meter.Int64Counter(
		"catalog_mutations_total",
		metric.WithDescription("Total number of catalog mutation attempts by action and outcome"),
		metric.WithUnit("{mutation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create catalog_mutations_total: %w", err)
	}

	m.RegulatoryCheckSeconds, err = meter.Float64Histogram(
		"regulatory_check_duration_seconds",
		metric.WithDescription("Duration of external regulatory validation calls in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("create regulatory_check_duration_seconds: %w", err)
	}

	m.AuthenticationAttemptsTotal, err = meter.Int64Counter(
		"authentication_attempts_total",
		metric.WithDescription("Total number of authentication attempts by outcome"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create authentication_attempts_total: %w", err)
	}

	m.AuditWritesTotal, err = meter.Int64Counter(
		"audit_writes_total",
		metric.WithDescription("Total number of audit records appended by outcome"),
		metric.WithUnit("{record}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create audit_writes_total: %w", err)
	}

	return m, nil
}

// NewNoop returns instruments that record nothing.
func NewNoop() *AppMetrics {
	m, _ := NewAppMetrics(noop.NewMeterProvider().Meter("noop"))
	return m
}

func (m *AppMetrics) RecordMutation(ctx context.Context, action, outcome string) {
	m.CatalogMutationsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("action", action),
		attribute.String("outcome", outcome),
	))
}

func (m *AppMetrics) RecordRegulatoryCheck(ctx context.Context, elapsed time.Duration, outcome string) {
	m.RegulatoryCheckSeconds.Record(ctx, elapsed.Seconds(), metric.WithAttributes(
		attribute.String("outcome", outcome),
	))
}

func (m *AppMetrics) RecordAuthentication(ctx context.Context, outcome string) {
	m.AuthenticationAttemptsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

func (m *AppMetrics) RecordAuditWrite(ctx context.Context, outcome string) {
	m.AuditWritesTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}
