package config

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.StoreDriver)
	assert.Equal(t, "8000", cfg.ServerPort)
	assert.Equal(t, "hunter.db", cfg.DBPath)
	assert.Equal(t, 0, cfg.HunterCacheSize, "hunter cache is opt-in")
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
}

func TestParse_MongoRequiresURL(t *testing.T) {
	t.Setenv("STORE_DRIVER", "mongo")
	t.Setenv("DATABASE_URL", "")

	_, err := Parse()
	assert.Error(t, err)

	t.Setenv("DATABASE_URL", "mongodb://localhost:27017")
	cfg, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, DriverMongo, cfg.StoreDriver)
	assert.Equal(t, "solo_leveling", cfg.DatabaseName)
}

func TestParse_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "postgres")

	_, err := Parse()
	assert.Error(t, err)
}

func TestParse_Origins(t *testing.T) {
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:5173,https://hunter.example")

	cfg, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, []string{"http://localhost:5173", "https://hunter.example"}, cfg.AllowedOrigins)
}

func TestLevel(t *testing.T) {
	cfg := &Config{LogLevel: "debug"}
	assert.Equal(t, zerolog.DebugLevel, cfg.Level())

	cfg.LogLevel = "nonsense"
	assert.Equal(t, zerolog.InfoLevel, cfg.Level())
}
