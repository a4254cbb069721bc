package calclog

import (
	"context"
	"database/sql"
)

// WithTx executes fn within a database transaction.
// It rolls back on error or panic and commits on success.
func (c *Core) WithTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return WrapError(ErrCodeDatabase, "failed to begin transaction", err)
	}

	defer func() {
		if p := recover(); p != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				c.logger.Error("transaction rollback failed on panic", "error", rbErr, "panic_value", p)
			}
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			c.logger.Error("transaction rollback failed", "error", rbErr, "original_error", err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return WrapError(ErrCodeDatabase, "failed to commit transaction", err)
	}

	return nil
}
