package api

import (
	"encoding/json"

	"calclog/pkg/calclog"
)

type trainingPayload struct {
	Code   string    `json:"code"`
	Values []float64 `json:"values"`
}

type trainingResponse struct {
	ID      int64                   `json:"id"`
	Code    string                  `json:"code"`
	Summary calclog.TrainingSummary `json:"summary"`
	Message string                  `json:"message"`
}

type importTrainingsPayload struct {
	Lines []string `json:"lines"`
}

// usd_rate accepts a JSON number or a string so that malformed rates
// surface as INVALID_RATE rather than a decode failure.
type financialPayload struct {
	Asset     string          `json:"asset"`
	Quoted    bool            `json:"quoted"`
	USDRate   json.RawMessage `json:"usd_rate"`
	BuyPrice  calclog.Amount  `json:"buy_price"`
	SellPrice calclog.Amount  `json:"sell_price"`
	Amount    calclog.Amount  `json:"amount"`
	Balance   calclog.Amount  `json:"balance"`
}

type financialResponse struct {
	ID      int64                   `json:"id"`
	Asset   string                  `json:"asset"`
	Quoted  bool                    `json:"quoted"`
	USDRate *calclog.Amount         `json:"usd_rate,omitempty"`
	Result  calclog.FinancialResult `json:"result"`
}

type exchangeRatePayload struct {
	FromCurrency string         `json:"from_currency"`
	ToCurrency   string         `json:"to_currency"`
	Rate         calclog.Amount `json:"rate"`
}

type refreshExchangeRatePayload struct {
	FromCurrency string `json:"from_currency"`
	ToCurrency   string `json:"to_currency"`
}
