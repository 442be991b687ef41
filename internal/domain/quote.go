package domain

import "context"

// RateQuoteRequest describes one corridor comparison request.
type RateQuoteRequest struct {
	SenderCountry       string
	RecipientCountry    string
	Amount              float64
	FetchHistoricalData bool
}

// RateQuoteResult is the normalized quote every platform adapter produces.
// When Success is false ReceiveAmount and ExchangeRate are zero and
// TotalCost equals SendAmount.
type RateQuoteResult struct {
	Platform       string  `json:"platform"`
	SendAmount     float64 `json:"sendAmount"`
	ReceiveAmount  float64 `json:"receiveAmount"`
	ExchangeRate   float64 `json:"exchangeRate"`
	Fees           float64 `json:"fees"`
	TotalCost      float64 `json:"totalCost"`
	ResponseTimeMs int64   `json:"responseTimeMs"`
	Success        bool    `json:"success"`
	Error          string  `json:"error,omitempty"`
}

// PlatformAdapter is implemented once per remittance provider. GetRate
// returns (nil, nil) when the upstream answered but had no computable quote.
// Upstream failures come back as a result with Success=false, never as a
// propagated error; the error return is reserved for unexpected faults and
// is still fault-isolated by the caller.
type PlatformAdapter interface {
	Name() string
	GetRate(ctx context.Context, req *RateQuoteRequest) (*RateQuoteResult, error)
}
