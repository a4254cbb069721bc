package calclog

import (
	"database/sql/driver"
	"fmt"
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

// Amount wraps decimal.Decimal for monetary values.
// JSON marshaling outputs a float64 number, while internal arithmetic
// uses precise decimal operations.
type Amount struct {
	decimal.Decimal
}

// MarshalJSON outputs as a JSON number (not a string).
func (a Amount) MarshalJSON() ([]byte, error) {
	f, err := a.finiteFloat()
	if err != nil {
		return nil, err
	}
	return []byte(strconv.FormatFloat(f, 'f', -1, 64)), nil
}

// UnmarshalJSON accepts both JSON numbers and quoted strings.
func (a *Amount) UnmarshalJSON(data []byte) error {
	return a.Decimal.UnmarshalJSON(data)
}

// Scan implements sql.Scanner, reading float64 from SQLite REAL columns.
func (a *Amount) Scan(src any) error {
	if src == nil {
		a.Decimal = decimal.Zero
		return nil
	}
	switch v := src.(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("scan amount: non-finite value %v", v)
		}
		a.Decimal = decimal.NewFromFloat(v)
		return nil
	case int64:
		a.Decimal = decimal.NewFromInt(v)
		return nil
	case string:
		d, err := decimal.NewFromString(v)
		if err != nil {
			return err
		}
		a.Decimal = d
		return nil
	}
	return a.Decimal.Scan(src)
}

// Value implements driver.Valuer for database writes.
func (a Amount) Value() (driver.Value, error) {
	return a.finiteFloat()
}

// IsFinite reports whether the amount fits in a float64.
func (a Amount) IsFinite() bool {
	_, err := a.finiteFloat()
	return err == nil
}

// finiteFloat rounds to 4 places and fails when the result overflows float64.
func (a Amount) finiteFloat() (float64, error) {
	f, _ := a.Round(4).Float64()
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, fmt.Errorf("amount %s is out of range", a.String())
	}
	return f, nil
}

// NewAmount creates an Amount from a float64.
func NewAmount(f float64) Amount {
	return Amount{decimal.NewFromFloat(f)}
}

// NewAmountFromInt creates an Amount from an int64.
func NewAmountFromInt(i int64) Amount {
	return Amount{decimal.NewFromInt(i)}
}

// ParseAmount parses a decimal string such as "92.5".
func ParseAmount(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, err
	}
	return Amount{d}, nil
}

func amountPtr(v Amount) *Amount {
	return &v
}
