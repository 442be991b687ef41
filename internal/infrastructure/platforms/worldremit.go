package platforms

import (
	"context"

	"github.com/remitip/rates-service/internal/domain"
)

// WorldRemit only speaks GraphQL; the createCalculation mutation is the
// same call their own web calculator makes.
type WorldRemitAdapter struct {
	client *apiClient
}

func NewWorldRemitAdapter() *WorldRemitAdapter {
	return &WorldRemitAdapter{client: newAPIClient("WorldRemit", "https://api.worldremit.com")}
}

func (a *WorldRemitAdapter) Name() string { return "WorldRemit" }

const worldRemitCalculationQuery = `mutation createCalculation($amount: BigDecimal!, $type: CalculationType!, $sendCountryCode: CountryCode!, $sendCurrencyCode: CurrencyCode!, $receiveCountryCode: CountryCode!, $receiveCurrencyCode: CurrencyCode!, $payOutMethodCode: String, $correspondentId: String) {
  createCalculation(
    calculationInput: {amount: $amount, send: {country: $sendCountryCode, currency: $sendCurrencyCode}, type: $type, receive: {country: $receiveCountryCode, currency: $receiveCurrencyCode}, payOutMethodCode: $payOutMethodCode, correspondentId: $correspondentId}
  ) {
    calculation {
      id
      isFree
      informativeSummary {
        fee { value { amount currency } type }
        totalToPay { amount }
      }
      send { currency amount }
      receive { amount currency }
      exchangeRate { value }
    }
    errors { message }
  }
}`

type worldRemitRequest struct {
	OperationName string         `json:"operationName"`
	Variables     map[string]any `json:"variables"`
	Query         string         `json:"query"`
}

type worldRemitCalculation struct {
	InformativeSummary struct {
		Fee struct {
			Value struct {
				Amount float64 `json:"amount"`
			} `json:"value"`
		} `json:"fee"`
		TotalToPay struct {
			Amount float64 `json:"amount"`
		} `json:"totalToPay"`
	} `json:"informativeSummary"`
	Send struct {
		Amount   float64 `json:"amount"`
		Currency string  `json:"currency"`
	} `json:"send"`
	Receive struct {
		Amount   float64 `json:"amount"`
		Currency string  `json:"currency"`
	} `json:"receive"`
	ExchangeRate struct {
		Value float64 `json:"value"`
	} `json:"exchangeRate"`
}

type worldRemitResponse struct {
	Data struct {
		CreateCalculation struct {
			Calculation *worldRemitCalculation `json:"calculation"`
		} `json:"createCalculation"`
	} `json:"data"`
}

func (a *WorldRemitAdapter) GetRate(ctx context.Context, req *domain.RateQuoteRequest) (*domain.RateQuoteResult, error) {
	sendCurrency := domain.CurrencyForCountry(req.SenderCountry)
	receiveCurrency := domain.CurrencyForCountry(req.RecipientCountry)

	body := worldRemitRequest{
		OperationName: "createCalculation",
		Variables: map[string]any{
			"amount":              req.Amount,
			"type":                "SEND",
			"sendCountryCode":     req.SenderCountry,
			"sendCurrencyCode":    sendCurrency,
			"receiveCountryCode":  req.RecipientCountry,
			"receiveCurrencyCode": receiveCurrency,
			"payOutMethodCode":    "BNK",
			"correspondentId":     "",
		},
		Query: worldRemitCalculationQuery,
	}

	var resp worldRemitResponse
	elapsed, err := a.client.postJSON(ctx, "/graphql", body, &resp)
	if err != nil {
		return failedQuote(a.Name(), req, elapsed, err), nil
	}

	calculation := resp.Data.CreateCalculation.Calculation
	if calculation == nil {
		return nil, nil
	}

	return &domain.RateQuoteResult{
		Platform:       a.Name(),
		SendAmount:     calculation.Send.Amount,
		ReceiveAmount:  calculation.Receive.Amount,
		ExchangeRate:   calculation.ExchangeRate.Value,
		Fees:           calculation.InformativeSummary.Fee.Value.Amount,
		TotalCost:      calculation.InformativeSummary.TotalToPay.Amount,
		ResponseTimeMs: elapsed,
		Success:        true,
	}, nil
}
