package service

import (
	"context"
	"hunter-tracker/internal/config"
	"hunter-tracker/internal/constants"
	"hunter-tracker/internal/repository"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Status values of the /test payload. Existing clients match on the exact
// strings, markers included.
const (
	StatusRunning          = "✅ Running"
	StatusNotAvailable     = "❌ Not Available"
	StatusAvailable        = "✅ Available"
	StatusWorking          = "✅ Connected & Working"
	StatusConnectedError   = "⚠️ Connected but Error: "
	StatusError            = "❌ Error: "
	StatusURLSet           = "✅ Set"
	StatusURLNotSet        = "❌ Not Set"
	ConnectionConnected    = "Connected"
	ConnectionNotConnected = "Not Connected"
)

type DiagnosticsReport struct {
	Backend          string
	Database         string
	DatabaseURL      string
	DatabaseName     string
	Driver           string
	ConnectionStatus string
	Collections      []string
}

type DiagnosticsService struct {
	health repository.HealthChecker
	cfg    *config.Config
	logger zerolog.Logger
}

func NewDiagnosticsService(store repository.Store, cfg *config.Config, logger zerolog.Logger) *DiagnosticsService {
	return &DiagnosticsService{health: store.Health, cfg: cfg, logger: logger}
}

// Report checks the store. It never fails; problems end up in the payload.
func (s *DiagnosticsService) Report(ctx context.Context) DiagnosticsReport {
	report := DiagnosticsReport{
		Backend:          StatusRunning,
		Database:         StatusNotAvailable,
		DatabaseURL:      StatusURLNotSet,
		ConnectionStatus: ConnectionNotConnected,
		Collections:      []string{},
	}
	if s.cfg != nil && s.cfg.DatabaseURL != "" {
		report.DatabaseURL = StatusURLSet
	}
	if s.health == nil {
		return report
	}

	report.Driver = s.health.Driver()
	report.DatabaseName = s.health.Name()
	report.Database = StatusAvailable

	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	var pingErr, listErr error
	var collections []string

	g := new(errgroup.Group)
	g.Go(func() error {
		pingErr = s.health.Ping(ctx)
		return nil
	})
	g.Go(func() error {
		collections, listErr = s.health.Collections(ctx)
		return nil
	})
	_ = g.Wait()

	switch {
	case pingErr != nil:
		report.Database = StatusError + truncate(pingErr.Error(), constants.DiagnosticsErrorLength)
		s.logger.Warn().Err(pingErr).Str("driver", report.Driver).Msg("store ping failed")
	case listErr != nil:
		report.Database = StatusConnectedError + truncate(listErr.Error(), constants.DiagnosticsErrorLength)
		report.ConnectionStatus = ConnectionConnected
		s.logger.Warn().Err(listErr).Str("driver", report.Driver).Msg("failed to list collections")
	default:
		if len(collections) > constants.DiagnosticsCollectionLimit {
			collections = collections[:constants.DiagnosticsCollectionLimit]
		}
		if collections != nil {
			report.Collections = collections
		}
		report.Database = StatusWorking
		report.ConnectionStatus = ConnectionConnected
	}

	s.logger.Debug().Str("driver", report.Driver).Str("status", report.ConnectionStatus).Msg("diagnostics report built")
	return report
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
