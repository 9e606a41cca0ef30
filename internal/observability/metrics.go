// Package observability provides OpenTelemetry metrics (Prometheus exporter) and request-scoped logging.
package observability

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	prometheusexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

const (
	meterScope         = "github.com/supportdesk/hub/internal/observability"
	defaultServiceName = "supportdesk-hub"
)

// latencyHistogramBoundaries are Prometheus-style buckets (seconds) for request and recommendation duration histograms.
var latencyHistogramBoundaries = []float64{0.005, 0.025, 0.1, 0.5, 1, 2.5, 5}

// HubMetrics is the single metrics interface for the hub (HTTP, recommendations, alerts, gap analysis).
type HubMetrics interface {
	RecordRequest(ctx context.Context, method, route, statusClass string, duration time.Duration)
	RecordRecommendation(ctx context.Context, source string, duration time.Duration)
	RecordAlertRaised(ctx context.Context, kind string)
	RecordAlertDelivery(ctx context.Context, outcome string)
	RecordGapAnalysisRun(ctx context.Context, duration time.Duration)
}

// MeterProviderShutdown is the subset of the SDK MeterProvider needed for shutdown.
type MeterProviderShutdown interface {
	Shutdown(ctx context.Context) error
}

// MeterProviderConfig holds configuration for creating the MeterProvider and metrics.
type MeterProviderConfig struct {
	// ServiceName is used in the resource (default: supportdesk-hub).
	ServiceName string
}

// Metrics bundles the per-concern metric recorders built from one meter.
// A nil *Metrics (metrics disabled) makes every field read as nil.
type Metrics struct {
	Hub        HubMetrics
	Cache      CacheMetrics
	Embeddings EmbeddingMetrics
}

// NewMeterProvider creates a MeterProvider with Prometheus exporter and returns the provider,
// an HTTP handler for /metrics, and the Metrics bundle built from the provider's Meter.
// Caller must call provider.Shutdown on exit. When metrics are disabled, pass nil for metrics at call sites.
func NewMeterProvider(_ context.Context, cfg MeterProviderConfig) (provider MeterProviderShutdown, metricsHandler http.Handler, metrics *Metrics, err error) {
	serviceNameVal := cfg.ServiceName
	if serviceNameVal == "" {
		serviceNameVal = defaultServiceName
	}

	// Use a single resource to avoid Schema URL conflicts when merging with resource.Default().
	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(serviceNameVal),
	)

	reg := prometheus.NewRegistry()

	exporter, err := prometheusexporter.New(
		prometheusexporter.WithRegisterer(reg),
	)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("create prometheus exporter: %w", err)
	}

	// Label cardinality is bounded by the normalize* helpers below; every
	// attribute value outside the allowed sets collapses to a single bucket.
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
		sdkmetric.WithView(
			sdkmetric.NewView(
				sdkmetric.Instrument{Name: "http.server.duration"},
				sdkmetric.Stream{Aggregation: sdkmetric.AggregationExplicitBucketHistogram{Boundaries: latencyHistogramBoundaries}},
			),
			sdkmetric.NewView(
				sdkmetric.Instrument{Name: "recommendation_duration_seconds"},
				sdkmetric.Stream{Aggregation: sdkmetric.AggregationExplicitBucketHistogram{Boundaries: latencyHistogramBoundaries}},
			),
		),
	)
	provider = mp
	meter := mp.Meter(meterScope)

	hub, err := newMetricsFromMeter(meter)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("create metrics instruments: %w", err)
	}

	cache, err := NewCacheMetrics(meter)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("create cache metrics: %w", err)
	}

	embeddings, err := NewEmbeddingMetrics(meter)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("create embedding metrics: %w", err)
	}

	metrics = &Metrics{
		Hub:        hub,
		Cache:      cache,
		Embeddings: embeddings,
	}

	metricsHandler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})

	return provider, metricsHandler, metrics, nil
}

func newMetricsFromMeter(meter metric.Meter) (*hubMetricsImpl, error) {
	requestCount, err := meter.Int64Counter(
		"http.server.request_count",
		metric.WithDescription("Total HTTP requests"),
	)
	if err != nil {
		return nil, fmt.Errorf("request_count: %w", err)
	}

	requestDuration, err := meter.Float64Histogram(
		"http.server.duration",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("http.server.duration: %w", err)
	}

	recommendations, err := meter.Int64Counter(
		"recommendations_total",
		metric.WithDescription("Ranking invocations per source"),
	)
	if err != nil {
		return nil, fmt.Errorf("recommendations_total: %w", err)
	}

	recommendationDuration, err := meter.Float64Histogram(
		"recommendation_duration_seconds",
		metric.WithDescription("Ranking invocation duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("recommendation_duration_seconds: %w", err)
	}

	alertsRaised, err := meter.Int64Counter(
		"alerts_raised_total",
		metric.WithDescription("Alerts queued per kind (coverage, low_ctr, accuracy, manual)"),
	)
	if err != nil {
		return nil, fmt.Errorf("alerts_raised_total: %w", err)
	}

	alertDeliveries, err := meter.Int64Counter(
		"alert_deliveries_total",
		metric.WithDescription("Alert delivery outcomes"),
	)
	if err != nil {
		return nil, fmt.Errorf("alert_deliveries_total: %w", err)
	}

	gapAnalysisRuns, err := meter.Int64Counter(
		"gap_analysis_runs_total",
		metric.WithDescription("Completed gap-analysis runs"),
	)
	if err != nil {
		return nil, fmt.Errorf("gap_analysis_runs_total: %w", err)
	}

	gapAnalysisDuration, err := meter.Float64Histogram(
		"gap_analysis_duration_seconds",
		metric.WithDescription("Gap-analysis run duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("gap_analysis_duration_seconds: %w", err)
	}

	return &hubMetricsImpl{
		requestCount:        requestCount,
		requestDuration:     requestDuration,
		recommendations:     recommendations,
		recommendationDur:   recommendationDuration,
		alertsRaised:        alertsRaised,
		alertDeliveries:     alertDeliveries,
		gapAnalysisRuns:     gapAnalysisRuns,
		gapAnalysisDuration: gapAnalysisDuration,
	}, nil
}

type hubMetricsImpl struct {
	requestCount        metric.Int64Counter
	requestDuration     metric.Float64Histogram
	recommendations     metric.Int64Counter
	recommendationDur   metric.Float64Histogram
	alertsRaised        metric.Int64Counter
	alertDeliveries     metric.Int64Counter
	gapAnalysisRuns     metric.Int64Counter
	gapAnalysisDuration metric.Float64Histogram
}

func (m *hubMetricsImpl) RecordRequest(ctx context.Context, method, route, statusClass string, duration time.Duration) {
	attrs := attribute.NewSet(
		attribute.String("method", method),
		attribute.String("route", route),
		attribute.String("status_class", statusClass),
	)
	m.requestCount.Add(ctx, 1, metric.WithAttributeSet(attrs))

	durAttrs := attribute.NewSet(
		attribute.String("method", method),
		attribute.String("route", route),
	)
	m.requestDuration.Record(ctx, duration.Seconds(), metric.WithAttributeSet(durAttrs))
}

func (m *hubMetricsImpl) RecordRecommendation(ctx context.Context, source string, duration time.Duration) {
	source = normalizeRecommendationSource(source)
	m.recommendations.Add(ctx, 1, metric.WithAttributes(attribute.String("source", source)))
	m.recommendationDur.Record(ctx, duration.Seconds(), metric.WithAttributes(attribute.String("source", source)))
}

func (m *hubMetricsImpl) RecordAlertRaised(ctx context.Context, kind string) {
	kind = normalizeAlertKind(kind)
	m.alertsRaised.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}

func (m *hubMetricsImpl) RecordAlertDelivery(ctx context.Context, outcome string) {
	outcome = normalizeDeliveryOutcome(outcome)
	m.alertDeliveries.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

func (m *hubMetricsImpl) RecordGapAnalysisRun(ctx context.Context, duration time.Duration) {
	m.gapAnalysisRuns.Add(ctx, 1)
	m.gapAnalysisDuration.Record(ctx, duration.Seconds())
}

// normalizeRecommendationSource maps ranking sources to a bounded set for cardinality control.
func normalizeRecommendationSource(s string) string {
	switch s {
	case "recommend", "ticket_create", "predict", "evaluation":
		return s
	default:
		return "unknown"
	}
}

// normalizeAlertKind maps alert kinds to a bounded set.
func normalizeAlertKind(s string) string {
	switch s {
	case "coverage", "low_ctr", "accuracy", "manual":
		return s
	default:
		return "unknown"
	}
}

// normalizeDeliveryOutcome maps alert delivery outcomes to a bounded set.
func normalizeDeliveryOutcome(s string) string {
	switch s {
	case "delivered", "failed", "skipped":
		return s
	default:
		return "unknown"
	}
}
