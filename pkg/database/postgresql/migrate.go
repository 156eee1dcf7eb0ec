package postgresql

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kinkando/blog-auth-service/pkg/logger"
)

// Migrate applies idempotent DDL statements, such as CREATE TABLE IF NOT EXISTS.
func Migrate(ctx context.Context, pgPool *pgxpool.Pool, statements ...string) error {
	migrateCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	for _, stmt := range statements {
		if _, err := pgPool.Exec(migrateCtx, stmt); err != nil {
			return err
		}
	}

	logger.Infof("postgresql: applied %d schema statement(s)", len(statements))
	return nil
}
