package platforms

import (
	"context"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/remitip/rates-service/internal/domain"
)

// XE publishes a table of send-money quotes at fixed sell amounts; the
// adapter picks the row closest to the requested amount.
type XEAdapter struct {
	client *apiClient
}

func NewXEAdapter() *XEAdapter {
	return &XEAdapter{client: newAPIClient("XE", "https://www.xe.com")}
}

func (a *XEAdapter) Name() string { return "XE" }

type xeTableEntry struct {
	Sell float64 `json:"sell"`
	// Buy arrives as a comma-grouped string ("1,567,890.12").
	Buy  string  `json:"buy"`
	Rate float64 `json:"rate"`
}

func (a *XEAdapter) GetRate(ctx context.Context, req *domain.RateQuoteRequest) (*domain.RateQuoteResult, error) {
	sellCurrency := domain.CurrencyForCountry(req.SenderCountry)
	buyCurrency := domain.CurrencyForCountry(req.RecipientCountry)

	query := url.Values{}
	query.Set("sellCcy", sellCurrency)
	query.Set("buyCcy", buyCurrency)
	query.Set("countryTo", req.RecipientCountry)

	var entries []xeTableEntry
	elapsed, err := a.client.getJSON(ctx, "/api/send-money-tables/", query, &entries)
	if err != nil {
		return failedQuote(a.Name(), req, elapsed, err), nil
	}

	if len(entries) == 0 {
		return nil, nil
	}

	closest := entries[0]
	for _, entry := range entries[1:] {
		if math.Abs(entry.Sell-req.Amount) < math.Abs(closest.Sell-req.Amount) {
			closest = entry
		}
	}

	receiveAmount, err := strconv.ParseFloat(strings.ReplaceAll(closest.Buy, ",", ""), 64)
	if err != nil {
		return nil, nil
	}

	// XE does not break fees out of its table; 2.5% of the send amount is
	// the margin their transfer product advertises.
	fees := closest.Sell * 0.025

	return &domain.RateQuoteResult{
		Platform:       a.Name(),
		SendAmount:     closest.Sell,
		ReceiveAmount:  receiveAmount,
		ExchangeRate:   closest.Rate,
		Fees:           fees,
		TotalCost:      closest.Sell,
		ResponseTimeMs: elapsed,
		Success:        true,
	}, nil
}
