package platforms

import (
	"context"
	"net/url"
	"strconv"

	"github.com/remitip/rates-service/internal/domain"
)

type AirwallexAdapter struct {
	client *apiClient
}

func NewAirwallexAdapter() *AirwallexAdapter {
	return &AirwallexAdapter{client: newAPIClient("Airwallex", "https://www.airwallex.com")}
}

func (a *AirwallexAdapter) Name() string { return "Airwallex" }

type airwallexResponse struct {
	BuyAmount  float64 `json:"buyAmount"`
	ClientRate float64 `json:"clientRate"`
	SellAmount float64 `json:"sellAmount"`
	AwxRate    float64 `json:"awxRate"`
}

func (a *AirwallexAdapter) GetRate(ctx context.Context, req *domain.RateQuoteRequest) (*domain.RateQuoteResult, error) {
	sellCcy := domain.CurrencyForCountry(req.SenderCountry)
	buyCcy := domain.CurrencyForCountry(req.RecipientCountry)

	query := url.Values{}
	query.Set("sellAmount", strconv.FormatFloat(req.Amount, 'f', -1, 64))
	query.Set("sellCcy", sellCcy)
	query.Set("buyCcy", buyCcy)
	query.Set("feePercent", "1")

	var resp airwallexResponse
	elapsed, err := a.client.getJSON(ctx, "/api/fx/fxRate/indicativeQuote", query, &resp)
	if err != nil {
		return failedQuote(a.Name(), req, elapsed, err), nil
	}

	if resp.BuyAmount == 0 || resp.ClientRate == 0 {
		return nil, nil
	}

	// Airwallex bakes its margin into the client rate; the fee is the gap
	// between the interbank (awx) rate and what the client actually gets,
	// expressed in the sell currency.
	expectedReceive := resp.SellAmount * resp.AwxRate
	feeAmount := (expectedReceive - resp.BuyAmount) / resp.AwxRate

	return &domain.RateQuoteResult{
		Platform:       a.Name(),
		SendAmount:     resp.SellAmount,
		ReceiveAmount:  resp.BuyAmount,
		ExchangeRate:   resp.ClientRate,
		Fees:           feeAmount,
		TotalCost:      resp.SellAmount,
		ResponseTimeMs: elapsed,
		Success:        true,
	}, nil
}
