package service

import (
	"context"
	"errors"
	"fmt"
	"hunter-tracker/internal/cache"
	"hunter-tracker/internal/constants"
	"hunter-tracker/internal/domain"
	"hunter-tracker/internal/progression"
	"hunter-tracker/internal/repository"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type QuestService struct {
	quests  repository.QuestRepository
	hunters repository.HunterRepository
	stats   repository.StatsRepository
	logs    *LogService
	cache   *cache.HunterCache
	logger  zerolog.Logger
}

func NewQuestService(store repository.Store, logs *LogService, hunterCache *cache.HunterCache, logger zerolog.Logger) *QuestService {
	return &QuestService{
		quests:  store.Quests,
		hunters: store.Hunters,
		stats:   store.Stats,
		logs:    logs,
		cache:   hunterCache,
		logger:  logger,
	}
}

// CreateQuestInput carries the optional fields of a new quest. A nil
// ExpReward means the default reward.
type CreateQuestInput struct {
	HunterID    string
	Title       string
	Description *string
	Type        domain.QuestType
	ExpReward   *int
	StatReward  map[string]int
	DueDate     *time.Time
}

// TransitionResult is returned by Start and Complete. Changed is false when
// the call was a no-op.
type TransitionResult struct {
	QuestID string
	Status  domain.QuestStatus
	Changed bool
}

type ClaimResult struct {
	QuestID      string
	Status       domain.QuestStatus
	Awarded      bool
	Level        int
	Exp          int
	TotalExp     int
	Rank         domain.Rank
	LeveledUp    bool
	LevelsGained int
}

func (s *QuestService) Create(ctx context.Context, in CreateQuestInput) (*domain.Quest, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	hunterID := strings.TrimSpace(in.HunterID)
	title := strings.TrimSpace(in.Title)
	if hunterID == "" {
		return nil, fmt.Errorf("hunter_id is required: %w", domain.ErrInvalid)
	}
	if title == "" {
		return nil, fmt.Errorf("title is required: %w", domain.ErrInvalid)
	}

	questType := in.Type
	if questType == "" {
		questType = domain.QuestDaily
	}
	if !questType.Valid() {
		return nil, fmt.Errorf("unknown quest type %q: %w", questType, domain.ErrInvalid)
	}

	expReward := constants.DefaultExpReward
	if in.ExpReward != nil {
		expReward = *in.ExpReward
	}
	if err := progression.ValidateReward(expReward, in.StatReward); err != nil {
		return nil, err
	}

	statReward := make(map[string]int, len(in.StatReward))
	for name, delta := range in.StatReward {
		statReward[name] = delta
	}

	now := time.Now().UTC()
	quest := &domain.Quest{
		HunterID:    hunterID,
		Title:       title,
		Description: in.Description,
		Type:        questType,
		ExpReward:   expReward,
		StatReward:  statReward,
		Status:      domain.StatusPending,
		DueDate:     in.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.quests.Create(ctx, quest); err != nil {
		s.logger.Error().Err(err).Str("hunter_id", hunterID).Msg("failed to create quest")
		return nil, fmt.Errorf("failed to create quest: %w", err)
	}

	s.logs.emitBestEffort(ctx, hunterID, domain.LogInfo, fmt.Sprintf("System: Registered new quest - %s", title))
	s.logger.Info().
		Str("hunter_id", hunterID).
		Str("quest_id", quest.ID).
		Str("type", string(questType)).
		Int("exp_reward", expReward).
		Msg("quest created")
	return quest, nil
}

func (s *QuestService) List(ctx context.Context, hunterID string, questType domain.QuestType) ([]domain.Quest, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if strings.TrimSpace(hunterID) == "" {
		return nil, fmt.Errorf("hunter_id is required: %w", domain.ErrInvalid)
	}
	if questType != "" && !questType.Valid() {
		return nil, fmt.Errorf("unknown quest type %q: %w", questType, domain.ErrInvalid)
	}

	quests, err := s.quests.List(ctx, repository.QuestFilter{HunterID: hunterID, Type: questType})
	if err != nil {
		s.logger.Error().Err(err).Str("hunter_id", hunterID).Msg("failed to list quests")
		return nil, err
	}

	s.logger.Debug().Str("hunter_id", hunterID).Int("count", len(quests)).Msg("quests listed")
	return quests, nil
}

// Start moves a pending quest to in_progress. Any other status is left alone.
func (s *QuestService) Start(ctx context.Context, questID string) (*TransitionResult, error) {
	return s.transition(ctx, questID,
		[]domain.QuestStatus{domain.StatusPending},
		domain.StatusInProgress,
		domain.LogInfo, "Quest started: %s")
}

// Complete marks a pending or in-progress quest completed. Completing a
// completed or claimed quest is a no-op.
func (s *QuestService) Complete(ctx context.Context, questID string) (*TransitionResult, error) {
	return s.transition(ctx, questID,
		[]domain.QuestStatus{domain.StatusPending, domain.StatusInProgress},
		domain.StatusCompleted,
		domain.LogSuccess, "Quest completed: %s")
}

func (s *QuestService) transition(ctx context.Context, questID string, from []domain.QuestStatus, to domain.QuestStatus, level domain.LogLevel, format string) (*TransitionResult, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	quest, err := s.getQuest(ctx, questID)
	if err != nil {
		return nil, err
	}
	if !statusIn(quest.Status, from) {
		s.logger.Debug().Str("quest_id", questID).Str("status", string(quest.Status)).Msg("transition is a no-op")
		return &TransitionResult{QuestID: quest.ID, Status: quest.Status}, nil
	}

	changed, err := s.quests.TransitionStatus(ctx, quest.ID, from, to, time.Now().UTC())
	if err != nil {
		s.logger.Error().Err(err).Str("quest_id", questID).Str("to", string(to)).Msg("failed to update quest status")
		return nil, fmt.Errorf("failed to update quest status: %w", err)
	}
	if !changed {
		// lost to a concurrent request; report what it left behind
		current, err := s.getQuest(ctx, questID)
		if err != nil {
			return nil, err
		}
		return &TransitionResult{QuestID: current.ID, Status: current.Status}, nil
	}

	s.logs.emitBestEffort(ctx, quest.HunterID, level, fmt.Sprintf(format, quest.Title))
	s.logger.Info().
		Str("quest_id", quest.ID).
		Str("from", string(quest.Status)).
		Str("to", string(to)).
		Msg("quest status changed")
	return &TransitionResult{QuestID: quest.ID, Status: to, Changed: true}, nil
}

// Claim awards the quest's rewards exactly once. The status flip to claimed
// happens before the award; only the request that wins it touches the hunter.
func (s *QuestService) Claim(ctx context.Context, questID string) (*ClaimResult, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	quest, err := s.getQuest(ctx, questID)
	if err != nil {
		return nil, err
	}
	if quest.Status == domain.StatusClaimed {
		s.logger.Debug().Str("quest_id", questID).Msg("quest already claimed")
		return &ClaimResult{QuestID: quest.ID, Status: domain.StatusClaimed}, nil
	}

	if _, err := s.hunters.Get(ctx, quest.HunterID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("failed to claim quest %s: %w", quest.ID, domain.ErrHunterNotFound)
		}
		s.logger.Error().Err(err).Str("hunter_id", quest.HunterID).Msg("failed to get hunter")
		return nil, fmt.Errorf("failed to get hunter: %w", err)
	}

	won, err := s.quests.TransitionStatus(ctx, quest.ID,
		[]domain.QuestStatus{domain.StatusPending, domain.StatusInProgress, domain.StatusCompleted},
		domain.StatusClaimed, time.Now().UTC())
	if err != nil {
		s.logger.Error().Err(err).Str("quest_id", questID).Msg("failed to claim quest")
		return nil, fmt.Errorf("failed to claim quest: %w", err)
	}
	if !won {
		s.logger.Info().Str("quest_id", questID).Msg("quest claimed by a concurrent request")
		return &ClaimResult{QuestID: quest.ID, Status: domain.StatusClaimed}, nil
	}

	// re-read after winning so the reward builds on the latest progression
	hunter, err := s.hunters.Get(ctx, quest.HunterID)
	if err != nil {
		s.logger.Error().Err(err).Str("hunter_id", quest.HunterID).Str("quest_id", questID).Msg("hunter vanished during claim")
		return nil, fmt.Errorf("failed to get hunter: %w", err)
	}

	result := progression.ApplyReward(hunter.Progress(), quest.ExpReward)
	now := time.Now().UTC()
	if err := s.hunters.UpdateProgress(ctx, hunter.ID, result.Progress(), now); err != nil {
		s.logger.Error().Err(err).Str("hunter_id", hunter.ID).Str("quest_id", questID).Msg("failed to persist progression")
		return nil, fmt.Errorf("failed to update hunter progress: %w", err)
	}
	s.cache.Remove(hunter.ID)

	if len(quest.StatReward) > 0 {
		if err := s.stats.Increment(ctx, hunter.ID, quest.StatReward, now); err != nil {
			s.logger.Error().Err(err).Str("hunter_id", hunter.ID).Str("quest_id", questID).Msg("failed to award stats")
			return nil, fmt.Errorf("failed to award stats: %w", err)
		}
	}

	if result.LeveledUp {
		s.logs.emitBestEffort(ctx, hunter.ID, domain.LogSuccess,
			fmt.Sprintf("Level Up! You are now Level %d - Rank %s.", result.Level, result.Rank))
	}
	s.logs.emitBestEffort(ctx, hunter.ID, domain.LogInfo, rewardSummary(quest.ExpReward, quest.StatReward))

	s.logger.Info().
		Str("hunter_id", hunter.ID).
		Str("quest_id", quest.ID).
		Int("exp_reward", quest.ExpReward).
		Int("level", result.Level).
		Str("rank", string(result.Rank)).
		Bool("leveled_up", result.LeveledUp).
		Msg("quest rewards claimed")

	return &ClaimResult{
		QuestID:      quest.ID,
		Status:       domain.StatusClaimed,
		Awarded:      true,
		Level:        result.Level,
		Exp:          result.Exp,
		TotalExp:     result.TotalExp,
		Rank:         result.Rank,
		LeveledUp:    result.LeveledUp,
		LevelsGained: result.LevelsGained,
	}, nil
}

func (s *QuestService) getQuest(ctx context.Context, questID string) (*domain.Quest, error) {
	if strings.TrimSpace(questID) == "" {
		return nil, fmt.Errorf("quest not found: %w", domain.ErrNotFound)
	}
	quest, err := s.quests.Get(ctx, questID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Error().Err(err).Str("quest_id", questID).Msg("failed to get quest")
		}
		return nil, err
	}
	return quest, nil
}

func statusIn(status domain.QuestStatus, set []domain.QuestStatus) bool {
	for _, s := range set {
		if s == status {
			return true
		}
	}
	return false
}

// rewardSummary renders e.g. "Rewards claimed: +30 EXP, +{STA: 1, STR: 1} stats".
func rewardSummary(exp int, stats map[string]int) string {
	msg := fmt.Sprintf("Rewards claimed: +%d EXP", exp)
	if len(stats) == 0 {
		return msg
	}

	names := make([]string, 0, len(stats))
	for name := range stats {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %d", name, stats[name]))
	}
	return msg + ", +{" + strings.Join(parts, ", ") + "} stats"
}
