package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds all application metrics
type Metrics struct {
	RequestCounter   metric.Int64Counter
	RequestDuration  metric.Float64Histogram
	TranslationCalls metric.Int64Counter
	TokensRefreshed  metric.Int64Counter
	FeedCacheHits    metric.Int64Counter
	FeedCacheMisses  metric.Int64Counter
}

// InitMetrics initializes all application metrics
func InitMetrics() (*Metrics, error) {
	meter := otel.Meter("realty-marketing-platform")

	requestCounter, err := meter.Int64Counter(
		"http.requests.total",
		metric.WithDescription("Total HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	requestDuration, err := meter.Float64Histogram(
		"http.request.duration",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	translationCalls, err := meter.Int64Counter(
		"gemini.translation.calls",
		metric.WithDescription("Translation gateway calls by operation and outcome"),
	)
	if err != nil {
		return nil, err
	}

	tokensRefreshed, err := meter.Int64Counter(
		"instagram.tokens.refreshed",
		metric.WithDescription("Instagram tokens refreshed by sweep outcome"),
	)
	if err != nil {
		return nil, err
	}

	feedCacheHits, err := meter.Int64Counter(
		"instagram.feed.cache_hits",
		metric.WithDescription("Instagram feed responses served from cache"),
	)
	if err != nil {
		return nil, err
	}

	feedCacheMisses, err := meter.Int64Counter(
		"instagram.feed.cache_misses",
		metric.WithDescription("Instagram feed responses fetched from the provider"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		RequestCounter:   requestCounter,
		RequestDuration:  requestDuration,
		TranslationCalls: translationCalls,
		TokensRefreshed:  tokensRefreshed,
		FeedCacheHits:    feedCacheHits,
		FeedCacheMisses:  feedCacheMisses,
	}, nil
}

// RecordSweepOutcome records one token refresh outcome.
func (m *Metrics) RecordSweepOutcome(ctx context.Context, tenant, status string) {
	if m == nil {
		return
	}
	m.TokensRefreshed.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("tenant", tenant),
			attribute.String("status", status),
		),
	)
}
