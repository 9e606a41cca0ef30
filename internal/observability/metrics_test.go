package observability

import (
	"context"
	"testing"
	"time"
)

func Test_NewMeterProvider(t *testing.T) {
	ctx := context.Background()

	provider, handler, metrics, err := NewMeterProvider(ctx, MeterProviderConfig{})
	if err != nil {
		t.Fatalf("NewMeterProvider() error = %v", err)
	}
	if handler == nil {
		t.Error("NewMeterProvider() handler = nil, want /metrics handler")
	}
	if metrics == nil || metrics.Hub == nil || metrics.Cache == nil || metrics.Embeddings == nil {
		t.Fatal("NewMeterProvider() returned incomplete metrics bundle")
	}

	// Recording must not panic, including out-of-set label values.
	metrics.Hub.RecordRequest(ctx, "GET", "/v1/articles", "2xx", 10*time.Millisecond)
	metrics.Hub.RecordRecommendation(ctx, "nonsense-source", time.Millisecond)
	metrics.Hub.RecordAlertRaised(ctx, "coverage")
	metrics.Hub.RecordAlertDelivery(ctx, "delivered")
	metrics.Hub.RecordGapAnalysisRun(ctx, time.Second)
	metrics.Cache.RecordHit(ctx, "query_embedding")
	metrics.Embeddings.RecordEmbeddingOutcome(ctx, "computed")

	if err := provider.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func Test_normalizeRecommendationSource(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"known recommend", "recommend", "recommend"},
		{"known ticket_create", "ticket_create", "ticket_create"},
		{"known predict", "predict", "predict"},
		{"known evaluation", "evaluation", "evaluation"},
		{"unknown empty", "", "unknown"},
		{"unknown random", "batch", "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeRecommendationSource(tt.input)
			if got != tt.expected {
				t.Errorf("normalizeRecommendationSource(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func Test_normalizeAlertKind(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"coverage", "coverage", "coverage"},
		{"low_ctr", "low_ctr", "low_ctr"},
		{"accuracy", "accuracy", "accuracy"},
		{"manual", "manual", "manual"},
		{"unknown empty", "", "unknown"},
		{"unknown random", "latency", "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeAlertKind(tt.input)
			if got != tt.expected {
				t.Errorf("normalizeAlertKind(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func Test_normalizeDeliveryOutcome(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"delivered", "delivered", "delivered"},
		{"failed", "failed", "failed"},
		{"skipped", "skipped", "skipped"},
		{"unknown empty", "", "unknown"},
		{"unknown random", "timeout", "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeDeliveryOutcome(tt.input)
			if got != tt.expected {
				t.Errorf("normalizeDeliveryOutcome(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
