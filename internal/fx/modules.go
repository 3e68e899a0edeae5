package fx

import (
	"context"
	"fmt"
	"hunter-tracker/internal/cache"
	"hunter-tracker/internal/config"
	"hunter-tracker/internal/constants"
	"hunter-tracker/internal/database"
	"hunter-tracker/internal/logger"
	"hunter-tracker/internal/repository"
	"hunter-tracker/internal/repository/mongostore"
	"hunter-tracker/internal/repository/sqlitestore"
	"hunter-tracker/internal/server"
	"hunter-tracker/internal/service"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

// ProvideStore opens the backend named by STORE_DRIVER and closes it when the
// app stops.
func ProvideStore(lc fx.Lifecycle, cfg *config.Config, logger zerolog.Logger) (repository.Store, error) {
	switch cfg.StoreDriver {
	case config.DriverSQLite:
		sqlDB, err := database.NewSQLite(cfg, logger)
		if err != nil {
			return repository.Store{}, err
		}
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				if err := sqlDB.Close(); err != nil {
					logger.Warn().Err(err).Msg("error closing database connection")
				}
				return nil
			},
		})
		return sqlitestore.New(sqlDB, logger), nil

	case config.DriverMongo:
		ctx, cancel := context.WithTimeout(context.Background(), constants.StartupTimeout)
		defer cancel()

		client, err := database.NewMongo(ctx, cfg, logger)
		if err != nil {
			return repository.Store{}, err
		}
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				if err := client.Disconnect(ctx); err != nil {
					logger.Warn().Err(err).Msg("error disconnecting from mongodb")
				}
				return nil
			},
		})
		return mongostore.New(client, cfg.DatabaseName, logger), nil
	}
	return repository.Store{}, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}

var Module = fx.Options(
	config.Module,
	logger.Module,
	fx.Provide(ProvideStore),
	fx.Provide(cache.NewHunterCache),
	// svc
	fx.Provide(service.NewLogService),
	fx.Provide(service.NewHunterService),
	fx.Provide(service.NewQuestService),
	fx.Provide(service.NewSeedService),
	fx.Provide(service.NewDiagnosticsService),
	// server
	fx.Provide(server.NewHunterServer),
)
