// Package sqlitestore implements the repository contract on SQLite.
package sqlitestore

import (
	"database/sql"
	"errors"
	"fmt"
	"hunter-tracker/internal/db"
	"hunter-tracker/internal/domain"
	"hunter-tracker/internal/repository"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

func New(sqlDB *sql.DB, logger zerolog.Logger) repository.Store {
	queries := db.New(sqlDB)
	return repository.Store{
		Hunters: NewHunterRepository(sqlDB, queries, logger),
		Stats:   NewStatsRepository(sqlDB, queries, logger),
		Quests:  NewQuestRepository(sqlDB, queries, logger),
		Logs:    NewLogRepository(queries, logger),
		Health:  NewHealthChecker(sqlDB, queries),
	}
}

func newID() (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("failed to generate nanoid: %w", err)
	}
	return id, nil
}

// notFound maps sql.ErrNoRows onto domain.ErrNotFound and leaves other
// errors untouched.
func notFound(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s not found: %w", what, domain.ErrNotFound)
	}
	return err
}
