package calclog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/multierr"
)

const (
	exchangeRateSourceManual    = "manual"
	exchangeRateSourceAutoFetch = "auto_fetch"

	exchangeRateRequestTimeout = 10 * time.Second
	maxExchangeRateBodySize    = 1 << 20
)

// ExchangeRateSetting is a maintained conversion rate.
type ExchangeRateSetting struct {
	ID           int64   `json:"id"`
	FromCurrency string  `json:"from_currency"`
	ToCurrency   string  `json:"to_currency"`
	Rate         float64 `json:"rate"`
	Source       string  `json:"source"`
	UpdatedAt    *string `json:"updated_at"`
}

var exchangeRateFetcher = fetchExchangeRateFromProviders

// GetExchangeRates returns all maintained exchange rates.
func (c *Core) GetExchangeRates(ctx context.Context) ([]ExchangeRateSetting, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT id, from_currency, to_currency, rate, source, updated_at
		FROM exchange_rates
		ORDER BY from_currency, to_currency
	`)
	if err != nil {
		return nil, WrapError(ErrCodeDatabase, "query exchange rates", err)
	}
	defer rows.Close()

	result := []ExchangeRateSetting{}
	for rows.Next() {
		var item ExchangeRateSetting
		var updatedAt sql.NullString
		if err := rows.Scan(
			&item.ID,
			&item.FromCurrency,
			&item.ToCurrency,
			&item.Rate,
			&item.Source,
			&updatedAt,
		); err != nil {
			return nil, err
		}
		if updatedAt.Valid {
			item.UpdatedAt = &updatedAt.String
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// SetExchangeRate inserts or updates a maintained exchange rate.
func (c *Core) SetExchangeRate(ctx context.Context, fromCurrency, toCurrency string, rate float64, source string) error {
	fromCurrency = normalizeCurrency(fromCurrency)
	toCurrency = normalizeCurrency(toCurrency)
	if err := validateExchangeRatePair(fromCurrency, toCurrency); err != nil {
		return err
	}
	if !isPositiveFinite(rate) {
		return NewError(ErrCodeInvalidRate, "rate must be greater than 0")
	}

	_, err := c.db.ExecContext(ctx, `
		INSERT INTO exchange_rates (from_currency, to_currency, rate, source, updated_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(from_currency, to_currency) DO UPDATE SET
			rate = excluded.rate,
			source = excluded.source,
			updated_at = CURRENT_TIMESTAMP
	`, fromCurrency, toCurrency, rate, normalizeExchangeRateSource(source))
	if err != nil {
		return WrapError(ErrCodeDatabase, "store exchange rate", err)
	}
	c.logger.Info("exchange rate updated", "from", fromCurrency, "to", toCurrency, "rate", rate)
	return nil
}

// GetExchangeRate returns the maintained rate for a pair.
func (c *Core) GetExchangeRate(ctx context.Context, fromCurrency, toCurrency string) (float64, error) {
	fromCurrency = normalizeCurrency(fromCurrency)
	toCurrency = normalizeCurrency(toCurrency)
	if fromCurrency == toCurrency && fromCurrency != "" {
		return 1, nil
	}
	if err := validateExchangeRatePair(fromCurrency, toCurrency); err != nil {
		return 0, err
	}

	var rate float64
	err := c.db.QueryRowContext(ctx,
		"SELECT rate FROM exchange_rates WHERE from_currency = ? AND to_currency = ?",
		fromCurrency, toCurrency,
	).Scan(&rate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, NewError(ErrCodeMissingRate, fmt.Sprintf("exchange rate not found for %s/%s", fromCurrency, toCurrency))
		}
		return 0, WrapError(ErrCodeDatabase, "query exchange rate", err)
	}
	return rate, nil
}

// QuoteAsset sets a quoted asset's USD rate from the maintained USD rate.
// Local assets are left untouched.
func (c *Core) QuoteAsset(ctx context.Context, asset *Asset) error {
	if asset == nil || !asset.Quoted() {
		return nil
	}
	rate, err := c.GetExchangeRate(ctx, "USD", c.localCurrency)
	if err != nil {
		return err
	}
	return asset.SetUSDRate(rate)
}

// RefreshExchangeRate fetches a pair from online providers and stores it.
func (c *Core) RefreshExchangeRate(ctx context.Context, fromCurrency, toCurrency string) (float64, string, error) {
	fromCurrency = normalizeCurrency(fromCurrency)
	toCurrency = normalizeCurrency(toCurrency)
	if err := validateExchangeRatePair(fromCurrency, toCurrency); err != nil {
		return 0, "", err
	}
	ctx, cancel := context.WithTimeout(ctx, c.httpTimeout)
	defer cancel()

	rate, provider, err := exchangeRateFetcher(ctx, fromCurrency, toCurrency)
	if err != nil {
		return 0, "", err
	}
	if err := c.SetExchangeRate(ctx, fromCurrency, toCurrency, rate, exchangeRateSourceAutoFetch); err != nil {
		return 0, "", err
	}
	return rate, provider, nil
}

func validateExchangeRatePair(fromCurrency, toCurrency string) error {
	if len(fromCurrency) != 3 {
		return NewError(ErrCodeInvalidInput, fmt.Sprintf("invalid from_currency: %s", fromCurrency))
	}
	if len(toCurrency) != 3 {
		return NewError(ErrCodeInvalidInput, fmt.Sprintf("invalid to_currency: %s", toCurrency))
	}
	if fromCurrency == toCurrency {
		return NewError(ErrCodeInvalidInput, fmt.Sprintf("currencies must differ: %s", fromCurrency))
	}
	return nil
}

func normalizeExchangeRateSource(source string) string {
	trimmed := strings.TrimSpace(source)
	if trimmed == "" {
		return exchangeRateSourceManual
	}
	return strings.ToLower(trimmed)
}

var (
	frankfurterBaseURL = "https://api.frankfurter.app"
	openERAPIBaseURL   = "https://open.er-api.com"
)

func fetchExchangeRateFromProviders(ctx context.Context, fromCurrency, toCurrency string) (float64, string, error) {
	client := resty.New().
		SetTimeout(exchangeRateRequestTimeout).
		SetHeader("User-Agent", "calclog/1.0").
		SetHeader("Accept", "application/json")

	providers := []struct {
		name string
		fn   func(context.Context, *resty.Client, string, string) (float64, error)
	}{
		{name: "frankfurter", fn: fetchExchangeRateFromFrankfurter},
		{name: "open_er_api", fn: fetchExchangeRateFromOpenERAPI},
	}

	var errs error
	for _, provider := range providers {
		rate, err := provider.fn(ctx, client, fromCurrency, toCurrency)
		if err == nil {
			return rate, provider.name, nil
		}
		errs = multierr.Append(errs, fmt.Errorf("%s: %w", provider.name, err))
	}

	return 0, "", fmt.Errorf("all providers failed: %w", errs)
}

type frankfurterRateResponse struct {
	Rates map[string]float64 `json:"rates"`
}

func fetchExchangeRateFromFrankfurter(ctx context.Context, client *resty.Client, fromCurrency, toCurrency string) (float64, error) {
	var payload frankfurterRateResponse
	req := client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{"from": fromCurrency, "to": toCurrency})
	if err := fetchRateJSON(req, frankfurterBaseURL+"/latest", &payload); err != nil {
		return 0, err
	}
	rate := payload.Rates[toCurrency]
	if rate <= 0 {
		return 0, fmt.Errorf("rate missing in response")
	}
	return rate, nil
}

type openERAPIRateResponse struct {
	Result string             `json:"result"`
	Rates  map[string]float64 `json:"rates"`
}

func fetchExchangeRateFromOpenERAPI(ctx context.Context, client *resty.Client, fromCurrency, toCurrency string) (float64, error) {
	var payload openERAPIRateResponse
	req := client.R().SetContext(ctx)
	if err := fetchRateJSON(req, openERAPIBaseURL+"/v6/latest/"+fromCurrency, &payload); err != nil {
		return 0, err
	}
	if payload.Result != "" && strings.ToLower(payload.Result) != "success" {
		return 0, fmt.Errorf("provider status: %s", payload.Result)
	}
	rate := payload.Rates[toCurrency]
	if rate <= 0 {
		return 0, fmt.Errorf("rate missing in response")
	}
	return rate, nil
}

// fetchRateJSON reads at most maxExchangeRateBodySize bytes of the body.
func fetchRateJSON(req *resty.Request, url string, target any) error {
	resp, err := req.SetDoNotParseResponse(true).Get(url)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	body := resp.RawBody()
	if body == nil {
		return fmt.Errorf("empty response")
	}
	defer body.Close()

	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode())
	}
	data, err := io.ReadAll(io.LimitReader(body, maxExchangeRateBodySize+1))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if len(data) > maxExchangeRateBodySize {
		return fmt.Errorf("response exceeds %d bytes", maxExchangeRateBodySize)
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
