package regulatory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-medpoint-api/config"
	"github.com/FACorreiaa/go-medpoint-api/internal/types"
)

const (
	ModeSimulated = "simulated"
	ModeHTTP      = "http"
)

// ErrRejected is returned when the regulatory source does not approve a drug.
var ErrRejected = errors.New("rejected by regulatory source")

var (
	_ Gateway = (*SimulatedGateway)(nil)
	_ Gateway = (*HTTPGateway)(nil)
)

// Gateway validates a drug against an external regulatory source.
// Calls are idempotent and never retried.
type Gateway interface {
	ValidateDrug(ctx context.Context, drug types.Drug) error
}

// New selects the gateway implementation configured by cfg.Mode.
func New(cfg config.RegulatoryConfig, logger *slog.Logger) (Gateway, error) {
	switch cfg.NormalizedMode() {
	case "", ModeSimulated:
		return NewSimulatedGateway(cfg.SimulatedLatency, logger), nil
	case ModeHTTP:
		return NewHTTPGateway(cfg.BaseURL, nil, logger)
	default:
		return nil, fmt.Errorf("unknown regulatory mode %q", cfg.Mode)
	}
}

// SimulatedGateway approves every drug after a fixed delay.
type SimulatedGateway struct {
	latency time.Duration
	logger  *slog.Logger
}

func NewSimulatedGateway(latency time.Duration, logger *slog.Logger) *SimulatedGateway {
	return &SimulatedGateway{latency: latency, logger: logger}
}

func (g *SimulatedGateway) ValidateDrug(ctx context.Context, drug types.Drug) error {
	ctx, span := otel.Tracer("RegulatoryGateway").Start(ctx, "SimulatedValidateDrug", trace.WithAttributes(
		attribute.String("drug.name", drug.Name),
	))
	defer span.End()

	timer := time.NewTimer(g.latency)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		span.RecordError(ctx.Err())
		span.SetStatus(codes.Error, "cancelled")
		return fmt.Errorf("regulatory check cancelled: %w", ctx.Err())
	case <-timer.C:
	}

	g.logger.DebugContext(ctx, "Simulated regulatory check approved", slog.String("name", drug.Name))
	span.SetStatus(codes.Ok, "")
	return nil
}

// HTTPGateway queries an openFDA-style NDC endpoint.
type HTTPGateway struct {
	baseURL *url.URL
	client  *http.Client
	logger  *slog.Logger
}

// NewHTTPGateway builds a gateway for baseURL. A nil client gets an
// otelhttp-instrumented default. Deadlines come from the caller's context.
func NewHTTPGateway(baseURL string, client *http.Client, logger *slog.Logger) (*HTTPGateway, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid regulatory base url %q", baseURL)
	}
	if client == nil {
		client = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}
	return &HTTPGateway{baseURL: u, client: client, logger: logger}, nil
}

var phraseEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// phrase quotes s as an exact-match search term.
func phrase(s string) string {
	return `"` + phraseEscaper.Replace(s) + `"`
}

func (g *HTTPGateway) searchURL(drug types.Drug) string {
	q := url.Values{}
	q.Set("search", "brand_name:"+phrase(drug.Name)+" AND generic_name:"+phrase(drug.ChemicalName))
	q.Set("limit", "1")
	return g.baseURL.String() + "/drug/ndc.json?" + q.Encode()
}

func (g *HTTPGateway) ValidateDrug(ctx context.Context, drug types.Drug) error {
	ctx, span := otel.Tracer("RegulatoryGateway").Start(ctx, "HTTPValidateDrug", trace.WithAttributes(
		attribute.String("drug.name", drug.Name),
		attribute.String("drug.chemical_name", drug.ChemicalName),
	))
	defer span.End()

	l := g.logger.With(slog.String("method", "ValidateDrug"), slog.String("name", drug.Name))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.searchURL(drug), nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "build request")
		return fmt.Errorf("failed to build regulatory request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		l.WarnContext(ctx, "Regulatory request failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport")
		return fmt.Errorf("regulatory request failed: %w", err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		l.DebugContext(ctx, "Regulatory check approved")
		span.SetStatus(codes.Ok, "")
		return nil
	case resp.StatusCode == http.StatusNotFound:
		l.InfoContext(ctx, "Drug not registered with regulatory source")
		span.SetStatus(codes.Error, "not registered")
		return fmt.Errorf("drug not registered: %w", ErrRejected)
	default:
		l.WarnContext(ctx, "Unexpected regulatory response", slog.Int("status", resp.StatusCode))
		span.SetStatus(codes.Error, "unexpected status")
		return fmt.Errorf("unexpected status %d: %w", resp.StatusCode, ErrRejected)
	}
}
