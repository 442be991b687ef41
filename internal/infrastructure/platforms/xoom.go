package platforms

import (
	"context"

	"github.com/remitip/rates-service/internal/domain"
)

// Xoom retired the public fee-table endpoint this adapter used to call.
// It stays registered so callers see the platform as known but down,
// rather than silently missing from comparisons.
type XoomAdapter struct{}

func NewXoomAdapter() *XoomAdapter { return &XoomAdapter{} }

func (a *XoomAdapter) Name() string { return "Xoom" }

func (a *XoomAdapter) GetRate(ctx context.Context, req *domain.RateQuoteRequest) (*domain.RateQuoteResult, error) {
	return &domain.RateQuoteResult{
		Platform:       a.Name(),
		SendAmount:     req.Amount,
		ReceiveAmount:  0,
		ExchangeRate:   0,
		Fees:           0,
		TotalCost:      req.Amount,
		ResponseTimeMs: 0,
		Success:        false,
		Error:          "Xoom public rate API is no longer available",
	}, nil
}
