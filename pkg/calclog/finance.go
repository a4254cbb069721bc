package calclog

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// FinancialResult is the profit or loss of a closed position.
type FinancialResult struct {
	Absolute         Amount `json:"absolute"`
	PercentOfBalance Amount `json:"percent_of_balance"`
}

// Asset is a traded instrument. A quoted asset is priced in USD and
// needs a USD rate before its result can be converted to the local currency.
type Asset struct {
	Name    string
	quoted  bool
	usdRate *Amount
}

// NewAsset creates an asset priced in the local currency.
func NewAsset(name string) *Asset {
	return &Asset{Name: strings.TrimSpace(name)}
}

// NewQuotedAsset creates a USD-quoted asset without a rate.
func NewQuotedAsset(name string) *Asset {
	return &Asset{Name: strings.TrimSpace(name), quoted: true}
}

// Quoted reports whether the asset is priced in USD.
func (a *Asset) Quoted() bool {
	return a.quoted
}

// USDRate returns the current rate and whether one is usable.
// A zero rate counts as unset.
func (a *Asset) USDRate() (Amount, bool) {
	if a.usdRate == nil || a.usdRate.IsZero() {
		return Amount{}, false
	}
	return *a.usdRate, true
}

// SetUSDRate stores the USD to local currency rate.
// Not safe for concurrent use on a shared asset.
func (a *Asset) SetUSDRate(rate float64) error {
	if math.IsNaN(rate) || math.IsInf(rate, 0) {
		return NewError(ErrCodeInvalidRate, fmt.Sprintf("rate must be a finite number, got %v", rate))
	}
	return a.setRate(NewAmount(rate))
}

// SetUSDRateString parses and stores a rate given as text.
func (a *Asset) SetUSDRateString(rate string) error {
	parsed, err := ParseAmount(strings.TrimSpace(rate))
	if err != nil {
		return WrapError(ErrCodeInvalidRate, fmt.Sprintf("rate %q is not a number", rate), err)
	}
	return a.setRate(parsed)
}

func (a *Asset) setRate(rate Amount) error {
	if rate.IsNegative() {
		return NewError(ErrCodeInvalidRate, fmt.Sprintf("rate must not be negative, got %s", rate.String()))
	}
	a.usdRate = amountPtr(rate)
	return nil
}

// CalcFinRes computes the result using the formula for the asset variant.
func (a *Asset) CalcFinRes(buyPrice, sellPrice, amount, balance Amount) (FinancialResult, error) {
	if a.quoted {
		return CalcQuotedResult(a, buyPrice, sellPrice, amount, balance)
	}
	return CalcBaseResult(buyPrice, sellPrice, amount, balance)
}

// CalcBaseResult computes (sell - buy) * amount and its share of balance in percent.
func CalcBaseResult(buyPrice, sellPrice, amount, balance Amount) (FinancialResult, error) {
	if balance.IsZero() {
		return FinancialResult{}, invalidInputf("balance must not be zero")
	}
	absolute := sellPrice.Sub(buyPrice.Decimal).Mul(amount.Decimal)
	return finiteResult(absolute, balance.Decimal)
}

// CalcQuotedResult computes the base result and converts it with the asset's USD rate.
func CalcQuotedResult(asset *Asset, buyPrice, sellPrice, amount, balance Amount) (FinancialResult, error) {
	if asset == nil {
		return FinancialResult{}, invalidInputf("asset is required")
	}
	rate, ok := asset.USDRate()
	if !ok {
		return FinancialResult{}, NewError(ErrCodeMissingRate, fmt.Sprintf("usd rate is not set for %s", asset.Name))
	}
	base, err := CalcBaseResult(buyPrice, sellPrice, amount, balance)
	if err != nil {
		return FinancialResult{}, err
	}
	absolute := base.Absolute.Mul(rate.Decimal)
	return finiteResult(absolute, balance.Decimal)
}

// finiteResult rejects results that cannot be stored or serialized as float64.
func finiteResult(absolute, balance decimal.Decimal) (FinancialResult, error) {
	result := FinancialResult{
		Absolute:         Amount{absolute},
		PercentOfBalance: Amount{absolute.Mul(hundred).Div(balance)},
	}
	if !result.Absolute.IsFinite() || !result.PercentOfBalance.IsFinite() {
		return FinancialResult{}, invalidInputf("result is out of range: absolute %s, percent %s",
			result.Absolute.String(), result.PercentOfBalance.String())
	}
	return result, nil
}

// String renders the result as "(absolute, percent)".
func (r FinancialResult) String() string {
	return fmt.Sprintf("(%s, %s)", r.Absolute.Round(4).String(), r.PercentOfBalance.Round(4).String())
}
