package db

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"
)

// StartExpiredDocCleaner removes snapshot documents idle longer than
// retention, checking on the given interval. A client holding an expired
// identifier gets NotFound on its next fetch and has to re-provision.
func StartExpiredDocCleaner(
	ctx context.Context,
	db *sql.DB,
	interval time.Duration,
	retention time.Duration,
	log *zap.Logger,
) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				cutoff := time.Now().Add(-retention)
				res, err := db.ExecContext(ctx, `
                    DELETE FROM documents
                     WHERE updated_at < $1
                `, cutoff)
				if err != nil {
					log.Error("failed to clean expired documents", zap.Error(err))
					continue
				}
				if rows, _ := res.RowsAffected(); rows > 0 {
					log.Info("cleaned expired documents", zap.Int64("removed", rows))
				}
			}
		}
	}()
}
