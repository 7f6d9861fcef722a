package services

import (
	"github.com/shopspring/decimal"

	"github.com/bramment1/poke-trade-scan-web/internal/models"
)

const (
	// DefaultVariant is the TCGplayer finish used when none is requested
	DefaultVariant = "normal"

	// DefaultUSDToEUR is used when no exchange rate is configured
	DefaultUSDToEUR = 0.92
)

// variantFallbacks is tried in order after the requested variant
var variantFallbacks = []string{"normal", "holofoil", "reverseHolofoil"}

// highMarkup is the assumed ceiling over the floor when only a low price is known
var highMarkup = decimal.RequireFromString("1.2")

// Aggregator merges Cardmarket and TCGplayer quotes into one EUR estimate
type Aggregator struct {
	usdToEUR decimal.Decimal
}

// NewAggregator creates an aggregator with a fixed USD to EUR rate.
// A non-positive rate falls back to DefaultUSDToEUR.
func NewAggregator(usdToEUR float64) *Aggregator {
	if usdToEUR <= 0 {
		usdToEUR = DefaultUSDToEUR
	}
	return &Aggregator{usdToEUR: decimal.NewFromFloat(usdToEUR)}
}

// Estimate builds a PriceEstimate from one pricing-source record. A nil card
// (no match upstream) produces the zero-source estimate.
func (a *Aggregator) Estimate(card *RawCard, variant string) models.PriceEstimate {
	if card == nil {
		return emptyEstimate()
	}

	var cmTrend, cmLow decimal.NullDecimal
	var cmUpdated string
	if card.Cardmarket != nil {
		cmTrend = Coerce(card.Cardmarket.Prices.TrendPrice)
		cmLow = Coerce(card.Cardmarket.Prices.LowPrice)
		cmUpdated = card.Cardmarket.UpdatedAt
	}

	tp := selectVariant(card.TCGPlayer, variant)
	tpMarketUSD := Coerce(tp.Market)
	tpLowUSD := Coerce(tp.Low)
	tpMarketEUR := a.toEUR(tpMarketUSD)
	tpLowEUR := a.toEUR(tpLowUSD)

	candidates := presentValues(cmTrend, tpMarketEUR)
	estimate := Median(candidates)

	low := minOf(presentValues(cmLow, tpLowEUR))
	if !low.Valid {
		low = minOf(candidates)
	}

	high := maxOf(candidates)
	if !high.Valid && low.Valid {
		high = decimal.NewNullDecimal(Round2(low.Decimal.Mul(highMarkup)))
	}

	var breakdown models.SourceBreakdown
	if cmTrend.Valid || cmLow.Valid {
		quote := &models.CardmarketQuote{
			Trend: toFloatPtr(cmTrend),
			Low:   toFloatPtr(cmLow),
		}
		if cmUpdated != "" {
			quote.UpdatedAt = &cmUpdated
		}
		breakdown.Cardmarket = quote
	}
	if tpMarketEUR.Valid || tpLowEUR.Valid {
		breakdown.TCGPlayer = &models.TCGPlayerQuote{
			MarketEUR: toFloatPtr(tpMarketEUR),
			LowEUR:    toFloatPtr(tpLowEUR),
			RawUSD: models.USDPricing{
				Market: toFloatPtr(tpMarketUSD),
				Low:    toFloatPtr(tpLowUSD),
			},
		}
	}

	return models.PriceEstimate{
		Estimate:    toFloatPtr(estimate),
		Range:       [2]*float64{toFloatPtr(low), toFloatPtr(high)},
		SourceCount: len(candidates),
		BySource:    breakdown,
		Confidence:  models.ConfidenceFor(len(candidates)),
	}
}

func (a *Aggregator) toEUR(usd decimal.NullDecimal) decimal.NullDecimal {
	if !usd.Valid {
		return usd
	}
	return decimal.NewNullDecimal(Round2(usd.Decimal.Mul(a.usdToEUR)))
}

// selectVariant picks the requested finish, then the default finishes in
// order, and finally an empty record.
func selectVariant(tp *TCGPlayerPrices, variant string) TCGPlayerVariant {
	if tp == nil || tp.Prices == nil {
		return TCGPlayerVariant{}
	}
	if v, ok := tp.Prices[variant]; ok && v != nil {
		return *v
	}
	for _, name := range variantFallbacks {
		if v, ok := tp.Prices[name]; ok && v != nil {
			return *v
		}
	}
	return TCGPlayerVariant{}
}

func emptyEstimate() models.PriceEstimate {
	return models.PriceEstimate{
		Confidence: models.ConfidenceLow,
	}
}
