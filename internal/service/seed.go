package service

import (
	"context"
	"fmt"
	"hunter-tracker/internal/constants"
	"hunter-tracker/internal/domain"
	"hunter-tracker/internal/repository"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const dailiesGeneratedMessage = "System: Daily quests generated."

type dailyTemplate struct {
	title      string
	expReward  int
	statReward map[string]int
}

var dailyTemplates = []dailyTemplate{
	{"Study 1 hour", 25, map[string]int{domain.StatINT: 1}},
	{"Workout 30 mins", 30, map[string]int{domain.StatSTR: 1, domain.StatSTA: 1}},
	{"Read 20 pages", 20, map[string]int{domain.StatINT: 1}},
}

type SeedService struct {
	quests repository.QuestRepository
	logger zerolog.Logger
}

func NewSeedService(store repository.Store, logger zerolog.Logger) *SeedService {
	return &SeedService{quests: store.Quests, logger: logger}
}

// SeedDailies writes the fixed set of daily quests plus one log entry in a
// single batch.
func (s *SeedService) SeedDailies(ctx context.Context, hunterID string) ([]*domain.Quest, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	hunterID = strings.TrimSpace(hunterID)
	if hunterID == "" {
		return nil, fmt.Errorf("hunter_id is required: %w", domain.ErrInvalid)
	}

	now := time.Now().UTC()
	quests := make([]*domain.Quest, 0, len(dailyTemplates))
	for _, tmpl := range dailyTemplates {
		reward := make(map[string]int, len(tmpl.statReward))
		for name, delta := range tmpl.statReward {
			reward[name] = delta
		}
		quests = append(quests, &domain.Quest{
			HunterID:   hunterID,
			Title:      tmpl.title,
			Type:       domain.QuestDaily,
			ExpReward:  tmpl.expReward,
			StatReward: reward,
			Status:     domain.StatusPending,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
	}
	entry := &domain.LogEntry{
		HunterID:  hunterID,
		Message:   dailiesGeneratedMessage,
		Level:     domain.LogInfo,
		CreatedAt: now,
	}

	if err := s.quests.CreateBatch(ctx, quests, entry); err != nil {
		s.logger.Error().Err(err).Str("hunter_id", hunterID).Msg("failed to seed daily quests")
		return nil, fmt.Errorf("failed to seed daily quests: %w", err)
	}

	s.logger.Info().Str("hunter_id", hunterID).Int("count", len(quests)).Msg("daily quests seeded")
	return quests, nil
}
