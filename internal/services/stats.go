package services

import (
	"encoding/json"
	"math"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Coerce converts a loosely typed upstream field to a number. Missing values
// and anything that does not parse as a finite number come back invalid;
// callers treat that as "absent", never as an error.
func Coerce(v any) decimal.NullDecimal {
	switch t := v.(type) {
	case nil:
		return decimal.NullDecimal{}
	case decimal.Decimal:
		return decimal.NewNullDecimal(t)
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return decimal.NullDecimal{}
		}
		return decimal.NewNullDecimal(decimal.NewFromFloat(t))
	case float32:
		return Coerce(float64(t))
	case int:
		return decimal.NewNullDecimal(decimal.NewFromInt(int64(t)))
	case int64:
		return decimal.NewNullDecimal(decimal.NewFromInt(t))
	case json.Number:
		return parseDecimal(string(t))
	case string:
		return parseDecimal(t)
	default:
		return decimal.NullDecimal{}
	}
}

func parseDecimal(s string) decimal.NullDecimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

// Round2 rounds to cents
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Median returns the median of values. An even count averages the two middle
// values and rounds to cents. An empty slice yields an invalid result.
func Median(values []decimal.Decimal) decimal.NullDecimal {
	if len(values) == 0 {
		return decimal.NullDecimal{}
	}

	sorted := make([]decimal.Decimal, len(values))
	copy(sorted, values)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].LessThan(sorted[j])
	})

	m := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return decimal.NewNullDecimal(sorted[m])
	}
	avg := sorted[m-1].Add(sorted[m]).Div(decimal.NewFromInt(2))
	return decimal.NewNullDecimal(Round2(avg))
}

// presentValues drops invalid entries
func presentValues(values ...decimal.NullDecimal) []decimal.Decimal {
	out := make([]decimal.Decimal, 0, len(values))
	for _, v := range values {
		if v.Valid {
			out = append(out, v.Decimal)
		}
	}
	return out
}

func minOf(values []decimal.Decimal) decimal.NullDecimal {
	if len(values) == 0 {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(decimal.Min(values[0], values[1:]...))
}

func maxOf(values []decimal.Decimal) decimal.NullDecimal {
	if len(values) == 0 {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(decimal.Max(values[0], values[1:]...))
}

// toFloatPtr converts for JSON output; invalid becomes nil
func toFloatPtr(d decimal.NullDecimal) *float64 {
	if !d.Valid {
		return nil
	}
	f := d.Decimal.InexactFloat64()
	return &f
}
