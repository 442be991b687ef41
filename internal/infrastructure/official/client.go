package official

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/remitip/rates-service/internal/domain"
)

const requestTimeout = 5 * time.Second

// ExchangeRateAPIClient fetches mid-market rates from exchangerate-api.com,
// the reference every platform quote is measured against.
type ExchangeRateAPIClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewExchangeRateAPIClient(baseURL, apiKey string) *ExchangeRateAPIClient {
	return &ExchangeRateAPIClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: requestTimeout},
	}
}

type pairConversionResponse struct {
	Result           string  `json:"result"`
	BaseCode         string  `json:"base_code"`
	TargetCode       string  `json:"target_code"`
	ConversionRate   float64 `json:"conversion_rate"`
	ConversionResult float64 `json:"conversion_result"`
	TimeLastUpdate   string  `json:"time_last_update_utc"`
	ErrorType        string  `json:"error-type"`
}

func (c *ExchangeRateAPIClient) GetOfficialRate(ctx context.Context, from, to string, amount float64) (*domain.OfficialRate, error) {
	url := fmt.Sprintf("%s/v6/%s/pair/%s/%s/%v", c.baseURL, c.apiKey, from, to, amount)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build official rate request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNoOfficialRate, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", domain.ErrNoOfficialRate, resp.StatusCode)
	}

	var body pairConversionResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", domain.ErrNoOfficialRate, err)
	}

	if body.Result != "success" {
		return nil, fmt.Errorf("%w: %s", domain.ErrNoOfficialRate, body.ErrorType)
	}

	return &domain.OfficialRate{
		BaseCurrency:    body.BaseCode,
		TargetCurrency:  body.TargetCode,
		ConversionRate:  body.ConversionRate,
		ConvertedAmount: body.ConversionResult,
		LastUpdate:      body.TimeLastUpdate,
	}, nil
}
