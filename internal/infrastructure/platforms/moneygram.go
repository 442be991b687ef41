package platforms

import (
	"context"
	"fmt"
	"net/url"

	"github.com/remitip/rates-service/internal/domain"
)

// MoneyGram's fee-quote endpoint wants a locale header and a corridor
// referer or it answers 403.
type MoneyGramAdapter struct {
	client *apiClient
}

func NewMoneyGramAdapter() *MoneyGramAdapter {
	client := newAPIClient("MoneyGram", "https://www.moneygram.com")
	client.setHeader("locale-header", "en-us")
	client.setHeader("referer", "https://www.moneygram.com/us/en/corridor/nigeria")
	return &MoneyGramAdapter{client: client}
}

func (a *MoneyGramAdapter) Name() string { return "MoneyGram" }

type moneyGramQuote struct {
	SendAmount         float64 `json:"sendAmount"`
	TotalReceiveAmount float64 `json:"totalReceiveAmount"`
	SendFee            float64 `json:"sendFee"`
	FxRate             float64 `json:"fxRate"`
	TotalSendAmount    float64 `json:"totalSendAmount"`
	Promo              *struct {
		TotalReceiveAmount float64 `json:"totalReceiveAmount"`
		SendFee            float64 `json:"sendFee"`
		FxRate             float64 `json:"fxRate"`
		TotalSendAmount    float64 `json:"totalSendAmount"`
	} `json:"promo"`
}

type moneyGramResponse struct {
	FeeQuotesByCurrency map[string]moneyGramQuote `json:"feeQuotesByCurrency"`
}

func (a *MoneyGramAdapter) GetRate(ctx context.Context, req *domain.RateQuoteRequest) (*domain.RateQuoteResult, error) {
	senderCurrency := domain.CurrencyForCountry(req.SenderCountry)
	recipientCurrency := domain.CurrencyForCountry(req.RecipientCountry)

	query := url.Values{}
	query.Set("senderCountryCode", req.SenderCountry)
	query.Set("senderCurrencyCode", senderCurrency)
	query.Set("receiverCountryCode", req.RecipientCountry)
	query.Set("sendAmount", fmt.Sprintf("%.2f", req.Amount))

	var resp moneyGramResponse
	elapsed, err := a.client.getJSON(ctx, "/api/send-money/fee-quote/v2", query, &resp)
	if err != nil {
		return failedQuote(a.Name(), req, elapsed, err), nil
	}

	quote, ok := resp.FeeQuotesByCurrency[recipientCurrency]
	if !ok {
		return nil, nil
	}

	// Promo rates win over the regular ones when present.
	receiveAmount := quote.TotalReceiveAmount
	sendFee := quote.SendFee
	fxRate := quote.FxRate
	totalSendAmount := quote.TotalSendAmount
	if quote.Promo != nil {
		if quote.Promo.TotalReceiveAmount != 0 {
			receiveAmount = quote.Promo.TotalReceiveAmount
		}
		if quote.Promo.SendFee != 0 {
			sendFee = quote.Promo.SendFee
		}
		if quote.Promo.FxRate != 0 {
			fxRate = quote.Promo.FxRate
		}
		if quote.Promo.TotalSendAmount != 0 {
			totalSendAmount = quote.Promo.TotalSendAmount
		}
	}

	return &domain.RateQuoteResult{
		Platform:       a.Name(),
		SendAmount:     quote.SendAmount,
		ReceiveAmount:  receiveAmount,
		ExchangeRate:   fxRate,
		Fees:           sendFee,
		TotalCost:      totalSendAmount,
		ResponseTimeMs: elapsed,
		Success:        true,
	}, nil
}
