package platforms

import (
	"context"
	"net/url"

	"github.com/remitip/rates-service/internal/domain"
)

// Wise has no public quote API; the rates history endpoint with a one-point
// hourly window is the closest thing to a live rate. Fees are estimated from
// their published pricing (0.5% variable + fixed).
type WiseAdapter struct {
	client *apiClient
}

func NewWiseAdapter() *WiseAdapter {
	return &WiseAdapter{client: newAPIClient("Wise", "https://wise.com")}
}

func (a *WiseAdapter) Name() string { return "Wise" }

type wiseRatePoint struct {
	Value float64 `json:"value"`
	Time  int64   `json:"time"`
}

func (a *WiseAdapter) GetRate(ctx context.Context, req *domain.RateQuoteRequest) (*domain.RateQuoteResult, error) {
	source := domain.CurrencyForCountry(req.SenderCountry)
	target := domain.CurrencyForCountry(req.RecipientCountry)

	query := url.Values{}
	query.Set("source", source)
	query.Set("target", target)
	query.Set("length", "1")
	query.Set("resolution", "hourly")
	query.Set("unit", "day")

	var series []wiseRatePoint
	elapsed, err := a.client.getJSON(ctx, "/rates/history+live", query, &series)
	if err != nil {
		return failedQuote(a.Name(), req, elapsed, err), nil
	}

	if len(series) == 0 {
		return nil, nil
	}

	rate := series[len(series)-1].Value
	receiveAmount := req.Amount * rate

	percentageFee := req.Amount * 0.005
	fixedFee := 2.0
	fees := percentageFee + fixedFee

	return &domain.RateQuoteResult{
		Platform:       a.Name(),
		SendAmount:     req.Amount,
		ReceiveAmount:  receiveAmount,
		ExchangeRate:   rate,
		Fees:           fees,
		TotalCost:      req.Amount + fees,
		ResponseTimeMs: elapsed,
		Success:        true,
	}, nil
}
