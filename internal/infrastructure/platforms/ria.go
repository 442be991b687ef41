package platforms

import (
	"context"

	"github.com/remitip/rates-service/internal/domain"
)

type RiaAdapter struct {
	client *apiClient
}

func NewRiaAdapter() *RiaAdapter {
	return &RiaAdapter{client: newAPIClient("Ria", "https://public.riamoneytransfer.com")}
}

func (a *RiaAdapter) Name() string { return "Ria" }

type riaSelections struct {
	CountryTo               string  `json:"countryTo"`
	AmountFrom              float64 `json:"amountFrom"`
	CurrencyFrom            string  `json:"currencyFrom"`
	PaymentMethod           string  `json:"paymentMethod"`
	DeliveryMethod          string  `json:"deliveryMethod"`
	ShouldCalcVariableRates bool    `json:"shouldCalcVariableRates"`
	PromoID                 int     `json:"promoId"`
	CountryFrom             string  `json:"countryFrom"`
}

type riaRequest struct {
	Selections riaSelections `json:"selections"`
}

type riaCalculation struct {
	AmountFrom    float64 `json:"amountFrom"`
	AmountTo      float64 `json:"amountTo"`
	ExchangeRate  float64 `json:"exchangeRate"`
	TransferFee   float64 `json:"transferFee"`
	TotalAmount   float64 `json:"totalAmount"`
	CurrencyTo    string  `json:"currencyTo"`
	PaymentMethod string  `json:"paymentMethod"`
}

type riaResponse struct {
	Model struct {
		TransferDetails struct {
			Calculations *riaCalculation `json:"calculations"`
		} `json:"transferDetails"`
	} `json:"model"`
}

func (a *RiaAdapter) GetRate(ctx context.Context, req *domain.RateQuoteRequest) (*domain.RateQuoteResult, error) {
	currencyFrom := domain.CurrencyForCountry(req.SenderCountry)

	body := riaRequest{
		Selections: riaSelections{
			CountryTo:               req.RecipientCountry,
			AmountFrom:              req.Amount,
			CurrencyFrom:            currencyFrom,
			PaymentMethod:           "DebitCard",
			DeliveryMethod:          "OfficePickup",
			ShouldCalcVariableRates: true,
			PromoID:                 0,
			CountryFrom:             req.SenderCountry,
		},
	}

	var resp riaResponse
	elapsed, err := a.client.postJSON(ctx, "/MoneyTransferCalculator/Calculate", body, &resp)
	if err != nil {
		return failedQuote(a.Name(), req, elapsed, err), nil
	}

	calc := resp.Model.TransferDetails.Calculations
	if calc == nil {
		return nil, nil
	}

	return &domain.RateQuoteResult{
		Platform:       a.Name(),
		SendAmount:     calc.AmountFrom,
		ReceiveAmount:  calc.AmountTo,
		ExchangeRate:   calc.ExchangeRate,
		Fees:           calc.TransferFee,
		TotalCost:      calc.TotalAmount,
		ResponseTimeMs: elapsed,
		Success:        true,
	}, nil
}
