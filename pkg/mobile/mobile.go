package mobile

import (
	"context"
	"encoding/json"
	"errors"

	"calclog/pkg/calclog"
)

// Core wraps the calclog journal for gomobile bindings. Bound methods take
// and return JSON strings because gomobile cannot export slices or structs.
type Core struct {
	core *calclog.Core
}

// Open initializes the journal with a database path.
func Open(dbPath string) (*Core, error) {
	core, err := calclog.Open(dbPath)
	if err != nil {
		return nil, err
	}
	return &Core{core: core}, nil
}

// Close releases resources.
func (c *Core) Close() error {
	if c == nil || c.core == nil {
		return nil
	}
	return c.core.Close()
}

// WorkoutTypesJSON lists supported workout codes and their fields.
func WorkoutTypesJSON() (string, error) {
	return marshalJSON(calclog.WorkoutTypes())
}

// ComputeTrainingJSON computes and journals a summary from {"code", "values"}.
func (c *Core) ComputeTrainingJSON(payloadJSON string) (string, error) {
	var payload trainingPayload
	if err := json.Unmarshal([]byte(payloadJSON), &payload); err != nil {
		return "", err
	}
	summary, err := calclog.ProcessPackage(payload.Code, payload.Values)
	if err != nil {
		return "", err
	}
	id, err := c.core.RecordSummary(context.Background(), payload.Code, summary)
	if err != nil {
		return "", err
	}
	return marshalJSON(map[string]any{
		"id":      id,
		"summary": summary,
		"message": calclog.FormatSummary(summary),
	})
}

// GetTrainingsJSON returns journaled summaries, newest first.
func (c *Core) GetTrainingsJSON(limit, offset int) (string, error) {
	data, err := c.core.GetSummaries(context.Background(), limit, offset)
	if err != nil {
		return "", err
	}
	return marshalJSON(data)
}

// ComputeFinancialResultJSON computes and journals a financial result. A
// quoted asset without usd_rate uses the stored USD rate.
func (c *Core) ComputeFinancialResultJSON(payloadJSON string) (string, error) {
	var payload financialPayload
	if err := json.Unmarshal([]byte(payloadJSON), &payload); err != nil {
		return "", err
	}
	if payload.Asset == "" {
		return "", errors.New("asset is required")
	}

	ctx := context.Background()
	asset := calclog.NewAsset(payload.Asset)
	if payload.Quoted {
		asset = calclog.NewQuotedAsset(payload.Asset)
		var err error
		if payload.USDRate != nil {
			err = asset.SetUSDRate(*payload.USDRate)
		} else {
			err = c.core.QuoteAsset(ctx, asset)
		}
		if err != nil {
			return "", err
		}
	}

	entry := calclog.FinancialEntry{
		AssetName: asset.Name,
		Quoted:    asset.Quoted(),
		BuyPrice:  calclog.NewAmount(payload.BuyPrice),
		SellPrice: calclog.NewAmount(payload.SellPrice),
		Amount:    calclog.NewAmount(payload.Amount),
		Balance:   calclog.NewAmount(payload.Balance),
	}
	result, err := asset.CalcFinRes(entry.BuyPrice, entry.SellPrice, entry.Amount, entry.Balance)
	if err != nil {
		return "", err
	}
	entry.Result = result
	if rate, ok := asset.USDRate(); ok {
		entry.USDRate = &rate
	}
	if entry.ID, err = c.core.RecordFinancialResult(ctx, entry); err != nil {
		return "", err
	}
	return marshalJSON(entry)
}

// GetFinancialResultsJSON returns journaled financial results, newest first.
func (c *Core) GetFinancialResultsJSON(limit, offset int) (string, error) {
	data, err := c.core.GetFinancialResults(context.Background(), limit, offset)
	if err != nil {
		return "", err
	}
	return marshalJSON(data)
}

// SetExchangeRate stores a manual rate.
func (c *Core) SetExchangeRate(fromCurrency, toCurrency string, rate float64) error {
	return c.core.SetExchangeRate(context.Background(), fromCurrency, toCurrency, rate, "manual")
}

// GetExchangeRatesJSON returns all stored exchange rates.
func (c *Core) GetExchangeRatesJSON() (string, error) {
	data, err := c.core.GetExchangeRates(context.Background())
	if err != nil {
		return "", err
	}
	return marshalJSON(data)
}

// ErrorCode returns the calclog error code carried by err, or "".
func ErrorCode(err error) string {
	return string(calclog.CodeOf(err))
}

func marshalJSON(value any) (string, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

type trainingPayload struct {
	Code   string    `json:"code"`
	Values []float64 `json:"values"`
}

type financialPayload struct {
	Asset     string   `json:"asset"`
	Quoted    bool     `json:"quoted"`
	USDRate   *float64 `json:"usd_rate"`
	BuyPrice  float64  `json:"buy_price"`
	SellPrice float64  `json:"sell_price"`
	Amount    float64  `json:"amount"`
	Balance   float64  `json:"balance"`
}
