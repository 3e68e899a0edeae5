// Package repository declares the storage contract shared by the SQLite and
// MongoDB backends. Lookups that miss return an error wrapping
// domain.ErrNotFound.
package repository

import (
	"context"
	"hunter-tracker/internal/domain"
	"time"
)

type HunterRepository interface {
	Get(ctx context.Context, id string) (*domain.Hunter, error)
	FindByEmail(ctx context.Context, email string) (*domain.Hunter, error)
	FindByDisplayName(ctx context.Context, displayName string) (*domain.Hunter, error)
	// CreateWithStats writes the hunter, its stats and the welcome entry as one
	// unit and fills in the generated ids. On failure nothing is left behind.
	CreateWithStats(ctx context.Context, hunter *domain.Hunter, stats *domain.Stats, welcome *domain.LogEntry) error
	UpdateProgress(ctx context.Context, id string, progress domain.Progress, updatedAt time.Time) error
}

type StatsRepository interface {
	// GetOrCreate returns the stats of a hunter, inserting defaults if none exist.
	GetOrCreate(ctx context.Context, defaults *domain.Stats) (*domain.Stats, error)
	// Increment adds deltas to the named counters, creating the record and
	// any missing counter at 0 first.
	Increment(ctx context.Context, hunterID string, deltas map[string]int, updatedAt time.Time) error
}

type QuestFilter struct {
	HunterID string
	Type     domain.QuestType
}

type QuestRepository interface {
	Create(ctx context.Context, quest *domain.Quest) error
	// CreateBatch inserts quests and the accompanying log entry together.
	CreateBatch(ctx context.Context, quests []*domain.Quest, entry *domain.LogEntry) error
	Get(ctx context.Context, id string) (*domain.Quest, error)
	// List returns quests newest first.
	List(ctx context.Context, filter QuestFilter) ([]domain.Quest, error)
	// TransitionStatus sets the status to `to` only if the current status is
	// one of `from`. It reports whether the update happened.
	TransitionStatus(ctx context.Context, id string, from []domain.QuestStatus, to domain.QuestStatus, updatedAt time.Time) (bool, error)
}

type LogRepository interface {
	Create(ctx context.Context, entry *domain.LogEntry) error
	// Recent returns at most limit entries, newest first.
	Recent(ctx context.Context, hunterID string, limit int) ([]domain.LogEntry, error)
}

type HealthChecker interface {
	Driver() string
	Name() string
	Ping(ctx context.Context) error
	Collections(ctx context.Context) ([]string, error)
}

// Store bundles one backend's repositories.
type Store struct {
	Hunters HunterRepository
	Stats   StatsRepository
	Quests  QuestRepository
	Logs    LogRepository
	Health  HealthChecker
}
