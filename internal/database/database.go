package database

import (
	"database/sql"
	"embed"
	"fmt"
	"hunter-tracker/internal/config"
	"hunter-tracker/internal/constants"

	"github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

const sqliteDriver = "sqlite3_hunter"

// Pragmas scoped to a single connection. The hook runs them on every
// connection the pool opens.
var connPragmas = []string{
	"PRAGMA synchronous = NORMAL",
	"PRAGMA cache_size = -64000",
	"PRAGMA temp_store = MEMORY",
	"PRAGMA mmap_size = 268435456",
}

func init() {
	sql.Register(sqliteDriver, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			for _, pragma := range connPragmas {
				if _, err := conn.Exec(pragma, nil); err != nil {
					return fmt.Errorf("failed to run %q: %w", pragma, err)
				}
			}
			return nil
		},
	})
}

func NewSQLite(cfg *config.Config, logger zerolog.Logger) (*sql.DB, error) {
	return OpenSQLite(cfg.DBPath, logger)
}

// OpenSQLite opens the database at path, tunes it and applies every pending
// migration.
func OpenSQLite(path string, logger zerolog.Logger) (*sql.DB, error) {
	logger.Info().Str("path", path).Msg("connecting to database")

	// transactions take the write lock up front
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_foreign_keys=on&_txlock=immediate", path)

	db, err := sql.Open(sqliteDriver, dsn)
	if err != nil {
		logger.Error().Err(err).Msg("failed to connect to database")
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(constants.DBMaxOpenConns)
	db.SetMaxIdleConns(constants.DBMaxIdleConns)
	db.SetConnMaxLifetime(constants.DBConnMaxLifetime)
	db.SetConnMaxIdleTime(constants.DBMaxIdleTime)

	if err := enableWAL(db, logger); err != nil {
		logger.Error().Err(err).Msg("failed to enable WAL")
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}
	if err := runMigrations(db, logger); err != nil {
		logger.Error().Err(err).Msg("failed to run migrations")
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info().Msg("database connection established and optimized")
	return db, nil
}

func runMigrations(db *sql.DB, logger zerolog.Logger) error {
	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("failed to run goose migrations: %w", err)
	}

	logger.Info().Msg("migrations completed successfully")
	return nil
}

// enableWAL switches the database file to write-ahead logging. The mode is
// stored in the file, so one connection is enough. In-memory databases
// report "memory" and stay that way.
func enableWAL(db *sql.DB, logger zerolog.Logger) error {
	var mode string
	if err := db.QueryRow("PRAGMA journal_mode = WAL").Scan(&mode); err != nil {
		return err
	}
	if mode != "wal" {
		logger.Warn().Str("journal_mode", mode).Msg("WAL not available")
		return nil
	}
	logger.Debug().Str("journal_mode", mode).Msg("SQLite journal mode set")
	return nil
}
