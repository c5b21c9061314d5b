package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/openfx/currency-widget/internal/domain/entity"
	"github.com/openfx/currency-widget/internal/infrastructure/config"
	"github.com/openfx/currency-widget/internal/infrastructure/logger"
	"github.com/shopspring/decimal"
)

const defaultBaseURL = "https://v6.exchangerate-api.com/v6"

// ExchangeRateClient talks to the exchangerate-api.com v6 endpoints. It
// implements the domain RateProvider interface. Every call goes to the remote
// service; nothing is cached here.
type ExchangeRateClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     logger.Logger
}

// NewExchangeRateClient creates a client from the API configuration
func NewExchangeRateClient(cfg config.APIConfig, log logger.Logger) *ExchangeRateClient {
	if log == nil {
		log = logger.NewNop()
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &ExchangeRateClient{
		baseURL:    baseURL,
		apiKey:     cfg.Key,
		httpClient: &http.Client{Timeout: timeout},
		logger:     log,
	}
}

// latestResponse mirrors the v6 /latest payload. Result is "success" on
// success; otherwise error-type names the failure.
type latestResponse struct {
	Result          string                     `json:"result"`
	ErrorType       string                     `json:"error-type,omitempty"`
	BaseCode        string                     `json:"base_code"`
	ConversionRates map[string]decimal.Decimal `json:"conversion_rates"`
}

// LoadCatalog fetches the full code→rate mapping for the base currency
func (c *ExchangeRateClient) LoadCatalog(ctx context.Context, base string) (*entity.CurrencyCatalog, error) {
	payload, err := c.fetchLatest(ctx, base)
	if err != nil {
		return nil, err
	}

	return entity.NewCurrencyCatalog(base, payload.ConversionRates), nil
}

// FetchRate fetches the mapping scoped to the source currency and extracts
// the target's rate. A target code absent from the mapping is an explicit
// failure, never a silent zero.
func (c *ExchangeRateClient) FetchRate(ctx context.Context, from, to string) (decimal.Decimal, error) {
	payload, err := c.fetchLatest(ctx, from)
	if err != nil {
		return decimal.Zero, err
	}

	rate, ok := payload.ConversionRates[to]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s in %s response", entity.ErrMissingRate, to, from)
	}
	if !rate.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: non-positive rate %s for %s", entity.ErrAPI, rate, to)
	}

	return rate, nil
}

// fetchLatest issues one GET to /{key}/latest/{code} and decodes the payload
func (c *ExchangeRateClient) fetchLatest(ctx context.Context, code string) (*latestResponse, error) {
	reqURL := fmt.Sprintf("%s/%s/latest/%s", c.baseURL, c.apiKey, url.PathEscape(code))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Add("Accept", "application/json")

	c.logger.Debug("Requesting exchange rates", map[string]interface{}{
		"code": code,
	})

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrNetwork, err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Warn("Error closing response body", map[string]interface{}{
				"error": closeErr.Error(),
			})
		}
	}()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", entity.ErrNetwork, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", entity.ErrAPI, resp.StatusCode)
	}

	var payload latestResponse
	if err := json.Unmarshal(bodyBytes, &payload); err != nil {
		return nil, fmt.Errorf("%w: malformed payload: %v", entity.ErrAPI, err)
	}

	if payload.Result != "success" {
		return nil, fmt.Errorf("%w: result=%q error-type=%q", entity.ErrAPI, payload.Result, payload.ErrorType)
	}

	return &payload, nil
}
