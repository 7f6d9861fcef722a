package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog/log"

	"github.com/bramment1/poke-trade-scan-web/internal/metrics"
	"github.com/bramment1/poke-trade-scan-web/internal/models"
)

const (
	defaultEstimateCacheSize = 512
	defaultEstimateCacheTTL  = 10 * time.Minute
)

// PriceService answers price estimates by looking a card up on the pricing
// source and running it through the Aggregator.
type PriceService struct {
	source     PriceSource
	aggregator *Aggregator
	cache      *expirable.LRU[estimateKey, models.PriceEstimate]
}

// NewPriceService creates a price service. Successful estimates are cached
// for ttl; upstream failures are never cached.
func NewPriceService(source PriceSource, aggregator *Aggregator, cacheSize int, ttl time.Duration) *PriceService {
	if cacheSize <= 0 {
		cacheSize = defaultEstimateCacheSize
	}
	if ttl <= 0 {
		ttl = defaultEstimateCacheTTL
	}

	return &PriceService{
		source:     source,
		aggregator: aggregator,
		cache:      expirable.NewLRU[estimateKey, models.PriceEstimate](cacheSize, nil, ttl),
	}
}

// EstimatePrice returns the merged estimate for a card variant. Zero matches
// upstream is a valid low-confidence estimate; a failing source is ErrUpstream.
func (s *PriceService) EstimatePrice(ctx context.Context, setID, number, variant string) (models.PriceEstimate, error) {
	setID = strings.TrimSpace(setID)
	number = strings.TrimSpace(number)
	variant = strings.TrimSpace(variant)

	if setID == "" || number == "" {
		return models.PriceEstimate{}, fmt.Errorf("%w: setId and number are required", ErrValidation)
	}
	if variant == "" {
		variant = DefaultVariant
	}

	key := estimateKey{setID: setID, number: number, variant: variant}
	if cached, ok := s.cache.Get(key); ok {
		metrics.PriceCacheRequestsTotal.WithLabelValues("hit").Inc()
		return cached, nil
	}
	metrics.PriceCacheRequestsTotal.WithLabelValues("miss").Inc()

	card, err := s.source.Lookup(ctx, setID, number)
	if err != nil {
		log.Warn().Err(err).Str("set_id", setID).Str("number", number).Msg("price lookup failed")
		return models.PriceEstimate{}, err
	}

	estimate := s.aggregator.Estimate(card, variant)
	metrics.PriceEstimatesTotal.WithLabelValues(string(estimate.Confidence)).Inc()
	s.cache.Add(key, estimate)

	return estimate, nil
}

// CacheLen reports how many estimates are currently cached
func (s *PriceService) CacheLen() int {
	return s.cache.Len()
}

// estimateKey identifies a cached estimate by its trimmed inputs
type estimateKey struct {
	setID   string
	number  string
	variant string
}
