// Package metrics provides Prometheus metrics for the card trade service.
// Scrape these at /metrics.
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

var (
	// HTTP Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "poketrade_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "poketrade_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Pricing Metrics
	PriceEstimatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "poketrade_price_estimates_total",
			Help: "Price estimates computed, by confidence tier",
		},
		[]string{"confidence"}, // "low", "medium", "high"
	)

	PriceCacheRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "poketrade_price_cache_requests_total",
			Help: "Estimate cache lookups by result",
		},
		[]string{"result"}, // "hit", "miss"
	)

	PricingUpstreamErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "poketrade_pricing_upstream_errors_total",
			Help: "Pricing source failures by reason",
		},
		[]string{"reason"}, // "network", "timeout", "status", "decode", "rate_limit"
	)

	PricingUpstreamLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "poketrade_pricing_upstream_latency_seconds",
			Help:    "Pricing source call latency",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
	)

	// Catalog Metrics
	CollectionEntriesCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "poketrade_collection_entries_created_total",
			Help: "Collection entries appended, by status",
		},
		[]string{"status"},
	)

	CatalogCardsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "poketrade_catalog_cards_total",
			Help: "Number of canonical cards in the catalog",
		},
	)

	CollectionEntriesByStatus = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "poketrade_collection_entries",
			Help: "Collection entries currently stored, by status",
		},
		[]string{"status"},
	)
)

// UpdateCatalogMetrics refreshes the catalog gauges from the database
func UpdateCatalogMetrics(db *gorm.DB) {
	var cards int64
	if err := db.Table("cards_master").Count(&cards).Error; err != nil {
		log.Warn().Err(err).Msg("metrics: failed to count cards")
		return
	}
	CatalogCardsTotal.Set(float64(cards))

	type statusCount struct {
		Status string
		Count  int64
	}
	var rows []statusCount
	err := db.Table("user_cards").
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		log.Warn().Err(err).Msg("metrics: failed to count collection entries")
		return
	}

	CollectionEntriesByStatus.Reset()
	for _, r := range rows {
		CollectionEntriesByStatus.WithLabelValues(r.Status).Set(float64(r.Count))
	}
}

// RunCatalogRefresh refreshes the catalog gauges immediately and then every
// interval until ctx is cancelled.
func RunCatalogRefresh(ctx context.Context, db *gorm.DB, interval time.Duration) {
	UpdateCatalogMetrics(db.WithContext(ctx))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			UpdateCatalogMetrics(db.WithContext(ctx))
		}
	}
}
