package platforms

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/remitip/rates-service/internal/domain"
)

type RemitlyAdapter struct {
	client *apiClient
}

func NewRemitlyAdapter() *RemitlyAdapter {
	return &RemitlyAdapter{client: newAPIClient("Remitly", "https://api.remitly.io")}
}

func (a *RemitlyAdapter) Name() string { return "Remitly" }

type remitlyEstimate struct {
	ReceiveAmount json.Number `json:"receive_amount"`
	SendAmount    json.Number `json:"send_amount"`
	Fee           struct {
		TotalFeeAmount json.Number `json:"total_fee_amount"`
	} `json:"fee"`
	ExchangeRate struct {
		BaseRate json.Number `json:"base_rate"`
	} `json:"exchange_rate"`
	TotalChargeAmount json.Number `json:"total_charge_amount"`
}

type remitlyResponse struct {
	Estimate *remitlyEstimate `json:"estimate"`
}

func (a *RemitlyAdapter) GetRate(ctx context.Context, req *domain.RateQuoteRequest) (*domain.RateQuoteResult, error) {
	sourceCurrency := domain.CurrencyForCountry(req.SenderCountry)
	targetCurrency := domain.CurrencyForCountry(req.RecipientCountry)

	// Remitly addresses corridors with a conduit string: US:USD-NG:NGN.
	conduit := fmt.Sprintf("%s:%s-%s:%s", req.SenderCountry, sourceCurrency, req.RecipientCountry, targetCurrency)

	query := url.Values{}
	query.Set("conduit", conduit)
	query.Set("anchor", "SEND")
	query.Set("amount", strconv.FormatFloat(req.Amount, 'f', -1, 64))
	query.Set("purpose", "OTHER")
	query.Set("customer_segment", "UNRECOGNIZED")
	query.Set("strict_promo", "false")

	var resp remitlyResponse
	elapsed, err := a.client.getJSON(ctx, "/v3/calculator/estimate", query, &resp)
	if err != nil {
		return failedQuote(a.Name(), req, elapsed, err), nil
	}

	if resp.Estimate == nil {
		return nil, nil
	}

	receiveAmount, err1 := resp.Estimate.ReceiveAmount.Float64()
	sendAmount, err2 := resp.Estimate.SendAmount.Float64()
	totalFee, err3 := resp.Estimate.Fee.TotalFeeAmount.Float64()
	exchangeRate, err4 := resp.Estimate.ExchangeRate.BaseRate.Float64()
	totalCharge, err5 := resp.Estimate.TotalChargeAmount.Float64()
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil || err5 != nil {
		return nil, nil
	}

	return &domain.RateQuoteResult{
		Platform:       a.Name(),
		SendAmount:     sendAmount,
		ReceiveAmount:  receiveAmount,
		ExchangeRate:   exchangeRate,
		Fees:           totalFee,
		TotalCost:      totalCharge,
		ResponseTimeMs: elapsed,
		Success:        true,
	}, nil
}
