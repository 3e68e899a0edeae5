package constants

import "time"

const (
	LevelStep        = 100
	DefaultExpReward = 20
	DefaultLogLimit  = 20
	MaxLogLimit      = 100
	StartingEnergy   = 100
)

const (
	DatabaseTimeout = 5 * time.Second
	RequestTimeout  = 30 * time.Second
	StartupTimeout  = 10 * time.Second
)

const (
	DBMaxOpenConns    = 100
	DBMaxIdleConns    = 10
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
	DBBatchSize       = 100
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	DiagnosticsCollectionLimit = 10
	DiagnosticsErrorLength     = 80
)
