package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"fintrack-api/internal/config"
)

var (
	ErrExchangeAPIKeyMissing = errors.New("exchange rate API key is not configured")
	ErrExchangeUpstream      = errors.New("exchange rate provider request failed")
)

// exchangeRatePayload is the upstream provider's response envelope
type exchangeRatePayload struct {
	Result          string             `json:"result"`
	ErrorType       string             `json:"error-type"`
	BaseCode        string             `json:"base_code"`
	ConversionRates map[string]float64 `json:"conversion_rates"`
}

// ExchangeRateClient fetches rate tables from the ExchangeRate-API v6
// endpoint. Calls run through a circuit breaker so a failing provider is
// not hammered on every request.
type ExchangeRateClient struct {
	httpClient *http.Client
	breaker    *CircuitBreaker
	baseURL    string
	apiKey     string
}

// NewExchangeRateClient creates a client from exchange configuration
func NewExchangeRateClient(cfg *config.ExchangeConfig) RateFetcher {
	return &ExchangeRateClient{
		httpClient: &http.Client{Timeout: cfg.FetchTimeout},
		breaker:    NewCircuitBreaker(DefaultCircuitBreakerConfig()),
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
	}
}

// FetchRates retrieves the current rate table for the base currency
func (c *ExchangeRateClient) FetchRates(ctx context.Context, baseCurrency string) (map[string]float64, error) {
	if c.apiKey == "" {
		return nil, ErrExchangeAPIKeyMissing
	}

	if c.breaker.IsOpen() {
		return nil, fmt.Errorf("%w: %w", ErrExchangeUpstream, ErrCircuitBreakerOpen)
	}

	rates, err := c.fetchRates(ctx, baseCurrency)
	if err != nil {
		c.breaker.RecordFailure()
		return nil, err
	}

	c.breaker.RecordSuccess()
	return rates, nil
}

func (c *ExchangeRateClient) fetchRates(ctx context.Context, baseCurrency string) (map[string]float64, error) {
	url := fmt.Sprintf("%s/%s/latest/%s", c.baseURL, c.apiKey, strings.ToUpper(baseCurrency))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build rate request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExchangeUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrExchangeUpstream, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrExchangeUpstream, err)
	}

	var payload exchangeRatePayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", ErrExchangeUpstream, err)
	}

	if payload.Result != "success" {
		return nil, fmt.Errorf("%w: provider reported %q", ErrExchangeUpstream, payload.ErrorType)
	}

	if len(payload.ConversionRates) == 0 {
		return nil, fmt.Errorf("%w: empty rate table", ErrExchangeUpstream)
	}

	return payload.ConversionRates, nil
}
