package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bramment1/poke-trade-scan-web/internal/models"
)

type fakeSource struct {
	card  *RawCard
	err   error
	calls []string
}

func (f *fakeSource) Lookup(_ context.Context, setID, number string) (*RawCard, error) {
	f.calls = append(f.calls, setID+"/"+number)
	return f.card, f.err
}

func TestEstimatePrice(t *testing.T) {
	source := &fakeSource{card: cardmarketCard(10.0, 8.0)}
	svc := NewPriceService(source, NewAggregator(0.92), 8, time.Minute)

	est, err := svc.EstimatePrice(context.Background(), " base1 ", "4 ", "")
	require.NoError(t, err)

	assert.Equal(t, []string{"base1/4"}, source.calls)
	require.NotNil(t, est.Estimate)
	assert.InDelta(t, 10.0, *est.Estimate, 1e-9)
	assert.Equal(t, models.ConfidenceMedium, est.Confidence)
}

func TestEstimatePriceCachesSuccess(t *testing.T) {
	source := &fakeSource{card: cardmarketCard(10.0, 8.0)}
	svc := NewPriceService(source, NewAggregator(0.92), 8, time.Minute)
	ctx := context.Background()

	_, err := svc.EstimatePrice(ctx, "base1", "4", "holofoil")
	require.NoError(t, err)
	_, err = svc.EstimatePrice(ctx, "base1", "4", "holofoil")
	require.NoError(t, err)
	assert.Len(t, source.calls, 1)
	assert.Equal(t, 1, svc.CacheLen())

	// a different variant is a different estimate
	_, err = svc.EstimatePrice(ctx, "base1", "4", "normal")
	require.NoError(t, err)
	assert.Len(t, source.calls, 2)
}

func TestEstimatePriceNoMatchIsNotAnError(t *testing.T) {
	svc := NewPriceService(&fakeSource{}, NewAggregator(0.92), 8, time.Minute)

	est, err := svc.EstimatePrice(context.Background(), "base1", "999", "normal")
	require.NoError(t, err)
	assert.Nil(t, est.Estimate)
	assert.Equal(t, 0, est.SourceCount)
	assert.Equal(t, models.ConfidenceLow, est.Confidence)
}

func TestEstimatePriceUpstreamErrorNotCached(t *testing.T) {
	source := &fakeSource{err: fmt.Errorf("%w: status 503", ErrUpstream)}
	svc := NewPriceService(source, NewAggregator(0.92), 8, time.Minute)
	ctx := context.Background()

	_, err := svc.EstimatePrice(ctx, "base1", "4", "normal")
	require.ErrorIs(t, err, ErrUpstream)
	assert.Equal(t, 0, svc.CacheLen())

	source.err = nil
	source.card = cardmarketCard(5.0, nil)
	est, err := svc.EstimatePrice(ctx, "base1", "4", "normal")
	require.NoError(t, err)
	require.NotNil(t, est.Estimate)
	assert.InDelta(t, 5.0, *est.Estimate, 1e-9)
	assert.Len(t, source.calls, 2)
}

func TestEstimatePriceValidation(t *testing.T) {
	source := &fakeSource{}
	svc := NewPriceService(source, NewAggregator(0.92), 8, time.Minute)

	for _, tc := range []struct{ setID, number string }{
		{"", "4"},
		{"base1", ""},
		{"  ", "  "},
	} {
		_, err := svc.EstimatePrice(context.Background(), tc.setID, tc.number, "")
		assert.True(t, errors.Is(err, ErrValidation), "setID=%q number=%q: %v", tc.setID, tc.number, err)
	}
	assert.Empty(t, source.calls)
}

func TestNewPriceServiceDefaults(t *testing.T) {
	svc := NewPriceService(&fakeSource{}, NewAggregator(0.92), 0, 0)
	require.NotNil(t, svc.cache)
	assert.Equal(t, 0, svc.CacheLen())
}

func TestEstimatePriceCacheKeysDoNotCollide(t *testing.T) {
	source := &fakeSource{card: cardmarketCard(10.0, nil)}
	svc := NewPriceService(source, NewAggregator(0.92), 8, time.Minute)
	ctx := context.Background()

	_, err := svc.EstimatePrice(ctx, "A", "1|x", "y")
	require.NoError(t, err)
	_, err = svc.EstimatePrice(ctx, "A", "1", "x|y")
	require.NoError(t, err)

	assert.Equal(t, []string{"A/1|x", "A/1"}, source.calls)
	assert.Equal(t, 2, svc.CacheLen())
}
