package sqlitestore

import (
	"context"
	"database/sql"
	"hunter-tracker/internal/constants"
	"hunter-tracker/internal/db"
)

type HealthChecker struct {
	db      *sql.DB
	queries *db.Queries
}

func NewHealthChecker(sqlDB *sql.DB, queries *db.Queries) *HealthChecker {
	return &HealthChecker{db: sqlDB, queries: queries}
}

func (h *HealthChecker) Driver() string { return "sqlite" }

func (h *HealthChecker) Name() string { return "main" }

func (h *HealthChecker) Ping(ctx context.Context) error {
	return h.db.PingContext(ctx)
}

func (h *HealthChecker) Collections(ctx context.Context) ([]string, error) {
	return h.queries.ListTables(ctx, constants.DiagnosticsCollectionLimit)
}
