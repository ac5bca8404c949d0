package tracer

import (
	"context"
	"fmt"
	"net/http"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/sdk/metric"
)

// MetricsProvider bundles the meter provider with the handler serving its Prometheus registry.
type MetricsProvider struct {
	Provider *metric.MeterProvider
	Handler  http.Handler
}

func (m *MetricsProvider) Shutdown(ctx context.Context) error {
	return m.Provider.Shutdown(ctx)
}

// InitMetrics sets up a meter provider exporting to a dedicated Prometheus registry
// and installs it globally.
func InitMetrics(serviceName string) (*MetricsProvider, error) {
	registry := promclient.NewRegistry()
	exporter, err := prometheus.New(prometheus.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("create prometheus exporter: %w", err)
	}

	mp := metric.NewMeterProvider(
		metric.WithReader(exporter),
		metric.WithResource(newResource(serviceName)),
	)
	otel.SetMeterProvider(mp)

	return &MetricsProvider{
		Provider: mp,
		Handler:  promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	}, nil
}
