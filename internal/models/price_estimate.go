package models

// Confidence is a coarse reliability label for a price estimate
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// ConfidenceFor derives the confidence tier from how many sources contributed
// a usable price.
func ConfidenceFor(sourceCount int) Confidence {
	switch {
	case sourceCount >= 2:
		return ConfidenceHigh
	case sourceCount == 1:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// PriceEstimate is the merged price for one card variant. All amounts are in
// EUR; nil means unknown.
type PriceEstimate struct {
	Estimate    *float64        `json:"estimateEUR"`
	Range       [2]*float64     `json:"rangeEUR"`
	SourceCount int             `json:"n"`
	BySource    SourceBreakdown `json:"bySource"`
	Confidence  Confidence      `json:"confidence"`
}

// Low returns the lower bound of the range
func (p PriceEstimate) Low() *float64 { return p.Range[0] }

// High returns the upper bound of the range
func (p PriceEstimate) High() *float64 { return p.Range[1] }

// SourceBreakdown keeps the fields each source contributed. A source is only
// present when it reported at least one usable number.
type SourceBreakdown struct {
	Cardmarket *CardmarketQuote `json:"cardmarket,omitempty"`
	TCGPlayer  *TCGPlayerQuote  `json:"tcgplayer,omitempty"`
}

// Len returns how many sources appear in the breakdown
func (b SourceBreakdown) Len() int {
	n := 0
	if b.Cardmarket != nil {
		n++
	}
	if b.TCGPlayer != nil {
		n++
	}
	return n
}

// CardmarketQuote holds Cardmarket's EUR prices as reported
type CardmarketQuote struct {
	Trend     *float64 `json:"trend"`
	Low       *float64 `json:"low"`
	UpdatedAt *string  `json:"updatedAt"`
}

// TCGPlayerQuote holds TCGplayer's prices converted to EUR next to the raw USD values
type TCGPlayerQuote struct {
	MarketEUR *float64   `json:"marketEUR"`
	LowEUR    *float64   `json:"lowEUR"`
	RawUSD    USDPricing `json:"rawUSD"`
}

type USDPricing struct {
	Market *float64 `json:"market"`
	Low    *float64 `json:"low"`
}
