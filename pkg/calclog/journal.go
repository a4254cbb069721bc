package calclog

import (
	"context"
	"database/sql"
)

// SummaryEntry is a journaled training summary.
type SummaryEntry struct {
	ID          int64           `json:"id"`
	WorkoutCode string          `json:"workout_code"`
	Summary     TrainingSummary `json:"summary"`
	Message     string          `json:"message"`
	CreatedAt   *string         `json:"created_at"`
}

// FinancialEntry is a journaled financial result with its inputs.
type FinancialEntry struct {
	ID        int64           `json:"id"`
	AssetName string          `json:"asset_name"`
	Quoted    bool            `json:"quoted"`
	BuyPrice  Amount          `json:"buy_price"`
	SellPrice Amount          `json:"sell_price"`
	Amount    Amount          `json:"amount"`
	Balance   Amount          `json:"balance"`
	USDRate   *Amount         `json:"usd_rate"`
	Result    FinancialResult `json:"result"`
	CreatedAt *string         `json:"created_at"`
}

func pageBounds(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// RecordSummary stores a computed training summary.
func (c *Core) RecordSummary(ctx context.Context, code string, s TrainingSummary) (int64, error) {
	return insertSummary(ctx, c.db, normalizeWorkoutCode(code), s)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertSummary(ctx context.Context, db execer, code string, s TrainingSummary) (int64, error) {
	result, err := db.ExecContext(ctx, `
		INSERT INTO training_summaries (workout_code, training_type, duration, distance, speed, calories)
		VALUES (?, ?, ?, ?, ?, ?)
	`, code, s.Kind, s.DurationHours, s.DistanceKm, s.MeanSpeedKmh, s.CaloriesKcal)
	if err != nil {
		return 0, WrapError(ErrCodeDatabase, "insert training summary", err)
	}
	return result.LastInsertId()
}

// ImportSummaries parses formatted summary lines and stores them in one transaction.
// Nothing is stored if any line fails to parse.
func (c *Core) ImportSummaries(ctx context.Context, lines []string) (int, error) {
	summaries := make([]TrainingSummary, 0, len(lines))
	for _, line := range lines {
		s, err := ParseSummary(line)
		if err != nil {
			return 0, err
		}
		summaries = append(summaries, s)
	}
	err := c.WithTx(ctx, func(tx *sql.Tx) error {
		for _, s := range summaries {
			if _, err := insertSummary(ctx, tx, codeForLabel(s.Kind), s); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(summaries), nil
}

func codeForLabel(label string) string {
	for _, entry := range workoutTypes {
		if entry.Kind.String() == label {
			return entry.Code
		}
	}
	return ""
}

// GetSummaries returns journaled summaries, newest first.
func (c *Core) GetSummaries(ctx context.Context, limit, offset int) ([]SummaryEntry, error) {
	limit, offset = pageBounds(limit, offset)
	rows, err := c.db.QueryContext(ctx, `
		SELECT id, workout_code, training_type, duration, distance, speed, calories, created_at
		FROM training_summaries
		ORDER BY id DESC
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, WrapError(ErrCodeDatabase, "query training summaries", err)
	}
	defer rows.Close()

	entries := []SummaryEntry{}
	for rows.Next() {
		var e SummaryEntry
		var createdAt sql.NullString
		if err := rows.Scan(
			&e.ID,
			&e.WorkoutCode,
			&e.Summary.Kind,
			&e.Summary.DurationHours,
			&e.Summary.DistanceKm,
			&e.Summary.MeanSpeedKmh,
			&e.Summary.CaloriesKcal,
			&createdAt,
		); err != nil {
			return nil, err
		}
		if createdAt.Valid {
			e.CreatedAt = &createdAt.String
		}
		e.Message = FormatSummary(e.Summary)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// RecordFinancialResult stores a computed result with its inputs.
func (c *Core) RecordFinancialResult(ctx context.Context, e FinancialEntry) (int64, error) {
	var rate any
	if e.USDRate != nil {
		rate = *e.USDRate
	}
	result, err := c.db.ExecContext(ctx, `
		INSERT INTO financial_results
			(asset_name, quoted, buy_price, sell_price, amount, balance, usd_rate, absolute, percent_of_balance)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, e.AssetName, e.Quoted, e.BuyPrice, e.SellPrice, e.Amount, e.Balance, rate,
		e.Result.Absolute, e.Result.PercentOfBalance)
	if err != nil {
		return 0, WrapError(ErrCodeDatabase, "insert financial result", err)
	}
	return result.LastInsertId()
}

// GetFinancialResults returns journaled financial results, newest first.
func (c *Core) GetFinancialResults(ctx context.Context, limit, offset int) ([]FinancialEntry, error) {
	limit, offset = pageBounds(limit, offset)
	rows, err := c.db.QueryContext(ctx, `
		SELECT id, asset_name, quoted, buy_price, sell_price, amount, balance, usd_rate,
			absolute, percent_of_balance, created_at
		FROM financial_results
		ORDER BY id DESC
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, WrapError(ErrCodeDatabase, "query financial results", err)
	}
	defer rows.Close()

	entries := []FinancialEntry{}
	for rows.Next() {
		var e FinancialEntry
		var rate sql.NullFloat64
		var createdAt sql.NullString
		if err := rows.Scan(
			&e.ID,
			&e.AssetName,
			&e.Quoted,
			&e.BuyPrice,
			&e.SellPrice,
			&e.Amount,
			&e.Balance,
			&rate,
			&e.Result.Absolute,
			&e.Result.PercentOfBalance,
			&createdAt,
		); err != nil {
			return nil, err
		}
		if rate.Valid {
			e.USDRate = amountPtr(NewAmount(rate.Float64))
		}
		if createdAt.Valid {
			e.CreatedAt = &createdAt.String
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
