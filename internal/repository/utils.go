package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/PixVoxGames/0pg/internal/logger"
)

// SafeRollback rolls back a transaction and logs any error
func SafeRollback(ctx context.Context, tx Tx) {
	if err := tx.Rollback(ctx); err != nil {
		// ErrTxClosed means the tx already committed and the deferred
		// rollback found nothing to undo
		if !errors.Is(err, pgx.ErrTxClosed) {
			logger.FromContext(ctx).Error("Failed to rollback transaction", "error", err)
		}
	}
}
