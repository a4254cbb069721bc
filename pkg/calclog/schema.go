package calclog

import "database/sql"

func initDatabase(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	statements := []string{
		`CREATE TABLE IF NOT EXISTS training_summaries (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			workout_code TEXT NOT NULL,
			training_type TEXT NOT NULL,
			duration REAL NOT NULL,
			distance REAL NOT NULL,
			speed REAL NOT NULL,
			calories REAL NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_training_summaries_code ON training_summaries(workout_code)`,
		`CREATE TABLE IF NOT EXISTS financial_results (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			asset_name TEXT NOT NULL,
			quoted INTEGER NOT NULL DEFAULT 0,
			buy_price REAL NOT NULL,
			sell_price REAL NOT NULL,
			amount REAL NOT NULL,
			balance REAL NOT NULL,
			usd_rate REAL,
			absolute REAL NOT NULL,
			percent_of_balance REAL NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS exchange_rates (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			from_currency TEXT NOT NULL,
			to_currency TEXT NOT NULL,
			rate REAL NOT NULL CHECK (rate > 0),
			source TEXT NOT NULL DEFAULT 'manual',
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(from_currency, to_currency)
		)`,
	}
	for _, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}
	return tx.Commit()
}
