package domain

import "context"

// OfficialRate is the mid-market reference rate from the official source.
type OfficialRate struct {
	BaseCurrency    string  `json:"baseCurrency"`
	TargetCurrency  string  `json:"targetCurrency"`
	ConversionRate  float64 `json:"conversionRate"`
	ConvertedAmount float64 `json:"convertedAmount"`
	LastUpdate      string  `json:"lastUpdate"`
}

// OfficialRateClient fetches the reference rate. It is the one upstream
// dependency allowed to fail a whole comparison.
type OfficialRateClient interface {
	GetOfficialRate(ctx context.Context, fromCurrency, toCurrency string, amount float64) (*OfficialRate, error)
}
