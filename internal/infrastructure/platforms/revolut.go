package platforms

import (
	"context"
	"net/url"
	"strconv"

	"github.com/remitip/rates-service/internal/domain"
)

// Revolut quotes remittance routes in minor units.
type RevolutAdapter struct {
	client *apiClient
}

func NewRevolutAdapter() *RevolutAdapter {
	client := newAPIClient("Revolut", "https://www.revolut.com")
	client.setHeader("x-api-version", "v2")
	return &RevolutAdapter{client: client}
}

func (a *RevolutAdapter) Name() string { return "Revolut" }

type revolutPlan struct {
	TotalRecipientAmount struct {
		Amount float64 `json:"amount"`
	} `json:"totalRecipientAmount"`
	SenderAmountWithoutFees struct {
		Amount float64 `json:"amount"`
	} `json:"senderAmountWithoutFees"`
	Fees struct {
		Total float64 `json:"total"`
	} `json:"fees"`
	TotalSenderAmount struct {
		Amount float64 `json:"amount"`
	} `json:"totalSenderAmount"`
}

type revolutResponse struct {
	Rate struct {
		Rate float64 `json:"rate"`
	} `json:"rate"`
	Routes []struct {
		Plans []revolutPlan `json:"plans"`
	} `json:"routes"`
}

func (a *RevolutAdapter) GetRate(ctx context.Context, req *domain.RateQuoteRequest) (*domain.RateQuoteResult, error) {
	senderCurrency := domain.CurrencyForCountry(req.SenderCountry)
	recipientCurrency := domain.CurrencyForCountry(req.RecipientCountry)

	query := url.Values{}
	query.Set("amount", strconv.FormatInt(int64(req.Amount*100), 10))
	query.Set("isRecipientAmount", "false")
	query.Set("recipientCountry", req.RecipientCountry)
	query.Set("recipientCurrency", recipientCurrency)
	query.Set("senderCountry", req.SenderCountry)
	query.Set("senderCurrency", senderCurrency)

	var resp revolutResponse
	elapsed, err := a.client.getJSON(ctx, "/api/remittance/routes", query, &resp)
	if err != nil {
		return failedQuote(a.Name(), req, elapsed, err), nil
	}

	if len(resp.Routes) == 0 || len(resp.Routes[0].Plans) == 0 {
		return nil, nil
	}

	// First route, first plan is the best offer Revolut presents.
	plan := resp.Routes[0].Plans[0]

	return &domain.RateQuoteResult{
		Platform:       a.Name(),
		SendAmount:     plan.SenderAmountWithoutFees.Amount / 100,
		ReceiveAmount:  plan.TotalRecipientAmount.Amount / 100,
		ExchangeRate:   resp.Rate.Rate,
		Fees:           plan.Fees.Total / 100,
		TotalCost:      plan.TotalSenderAmount.Amount / 100,
		ResponseTimeMs: elapsed,
		Success:        true,
	}, nil
}
