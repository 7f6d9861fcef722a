package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/bramment1/poke-trade-scan-web/internal/metrics"
)

const (
	pokemonTCGBaseURL        = "https://api.pokemontcg.io/v2"
	pokemonTCGDefaultTimeout = 10 * time.Second
	pokemonTCGDefaultRate    = 5.0
)

// PriceSource looks up the raw pricing record for a canonical card. A nil
// record with a nil error means the source has no such card.
type PriceSource interface {
	Lookup(ctx context.Context, setID, number string) (*RawCard, error)
}

// PokemonTCGService queries pokemontcg.io, which carries both Cardmarket and
// TCGplayer prices on each card.
type PokemonTCGService struct {
	client  *http.Client
	apiKey  string
	baseURL string
	limiter *rate.Limiter
}

// Ensure PokemonTCGService implements PriceSource.
var _ PriceSource = (*PokemonTCGService)(nil)

// NewPokemonTCGService creates a client. Zero timeout or rate use the defaults;
// an empty baseURL targets the public API.
func NewPokemonTCGService(apiKey, baseURL string, timeout time.Duration, requestsPerSecond float64) *PokemonTCGService {
	if baseURL == "" {
		baseURL = pokemonTCGBaseURL
	}
	if timeout <= 0 {
		timeout = pokemonTCGDefaultTimeout
	}
	if requestsPerSecond <= 0 {
		requestsPerSecond = pokemonTCGDefaultRate
	}

	return &PokemonTCGService{
		client: &http.Client{
			Timeout: timeout,
		},
		apiKey:  apiKey,
		baseURL: baseURL,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), int(requestsPerSecond)+1),
	}
}

type pokemonSearchResponse struct {
	Data       []RawCard `json:"data"`
	TotalCount int       `json:"totalCount"`
}

// RawCard is a pokemontcg.io card with only the fields pricing needs
type RawCard struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Number     string            `json:"number"`
	Set        pokemonSet        `json:"set"`
	Cardmarket *CardmarketPrices `json:"cardmarket"`
	TCGPlayer  *TCGPlayerPrices  `json:"tcgplayer"`
}

type pokemonSet struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CardmarketPrices is the Cardmarket block, prices in EUR
type CardmarketPrices struct {
	URL       string              `json:"url"`
	UpdatedAt string              `json:"updatedAt"`
	Prices    CardmarketPriceList `json:"prices"`
}

// CardmarketPriceList fields are left untyped; Coerce decides what is a number.
type CardmarketPriceList struct {
	TrendPrice any `json:"trendPrice"`
	LowPrice   any `json:"lowPrice"`
}

// TCGPlayerPrices is the TCGplayer block, prices in USD keyed by finish
type TCGPlayerPrices struct {
	URL       string                       `json:"url"`
	UpdatedAt string                       `json:"updatedAt"`
	Prices    map[string]*TCGPlayerVariant `json:"prices"`
}

type TCGPlayerVariant struct {
	Low    any `json:"low"`
	Mid    any `json:"mid"`
	High   any `json:"high"`
	Market any `json:"market"`
}

// Lookup fetches the first card matching set id and number. Transport errors,
// timeouts and non-2xx responses are reported as ErrUpstream.
func (s *PokemonTCGService) Lookup(ctx context.Context, setID, number string) (*RawCard, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		metrics.PricingUpstreamErrorsTotal.WithLabelValues("rate_limit").Inc()
		return nil, fmt.Errorf("%w: waiting for rate limiter: %v", ErrUpstream, err)
	}

	params := url.Values{}
	params.Set("q", fmt.Sprintf("set.id:%s number:%s", setID, number))
	params.Set("pageSize", "1")
	reqURL := fmt.Sprintf("%s/cards?%s", s.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if s.apiKey != "" {
		req.Header.Set("X-Api-Key", s.apiKey)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := s.client.Do(req)
	metrics.PricingUpstreamLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		reason := "network"
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			reason = "timeout"
		}
		metrics.PricingUpstreamErrorsTotal.WithLabelValues(reason).Inc()
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.PricingUpstreamErrorsTotal.WithLabelValues("status").Inc()
		return nil, fmt.Errorf("%w: pokemon tcg API returned status %d", ErrUpstream, resp.StatusCode)
	}

	var searchResp pokemonSearchResponse
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(&searchResp); err != nil {
		metrics.PricingUpstreamErrorsTotal.WithLabelValues("decode").Inc()
		return nil, fmt.Errorf("%w: failed to decode pokemon tcg response: %v", ErrUpstream, err)
	}

	if len(searchResp.Data) == 0 {
		log.Debug().Str("set_id", setID).Str("number", number).Msg("pokemon tcg: no matching card")
		return nil, nil
	}

	card := searchResp.Data[0]
	return &card, nil
}

func isTimeout(err error) bool {
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}
