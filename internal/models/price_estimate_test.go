package models

import (
	"testing"

	"pgregory.net/rapid"
)

func TestConfidenceFor(t *testing.T) {
	tests := []struct {
		count    int
		expected Confidence
	}{
		{0, ConfidenceLow},
		{1, ConfidenceMedium},
		{2, ConfidenceHigh},
		{3, ConfidenceHigh},
	}

	for _, tt := range tests {
		if got := ConfidenceFor(tt.count); got != tt.expected {
			t.Errorf("ConfidenceFor(%d) = %s, want %s", tt.count, got, tt.expected)
		}
	}
}

func TestConfidenceMonotonic(t *testing.T) {
	rank := map[Confidence]int{ConfidenceLow: 0, ConfidenceMedium: 1, ConfidenceHigh: 2}

	rapid.Check(t, func(t *rapid.T) {
		a := rapid.IntRange(0, 10).Draw(t, "a")
		b := rapid.IntRange(0, 10).Draw(t, "b")
		if a > b {
			a, b = b, a
		}
		if rank[ConfidenceFor(a)] > rank[ConfidenceFor(b)] {
			t.Fatalf("ConfidenceFor(%d)=%s ranks above ConfidenceFor(%d)=%s", a, ConfidenceFor(a), b, ConfidenceFor(b))
		}
	})
}

func TestSourceBreakdownLen(t *testing.T) {
	var b SourceBreakdown
	if b.Len() != 0 {
		t.Errorf("empty breakdown Len() = %d", b.Len())
	}
	b.Cardmarket = &CardmarketQuote{}
	b.TCGPlayer = &TCGPlayerQuote{}
	if b.Len() != 2 {
		t.Errorf("full breakdown Len() = %d", b.Len())
	}
}
