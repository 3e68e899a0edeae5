package service

import (
	"context"
	"fmt"
	"hunter-tracker/internal/constants"
	"hunter-tracker/internal/domain"
	"hunter-tracker/internal/repository"
	"strings"

	"github.com/sahilm/fuzzy"
)

// questTitles implements fuzzy.Source over lowercased quest titles.
type questTitles []domain.Quest

func (q questTitles) Len() int { return len(q) }

func (q questTitles) String(i int) string { return strings.ToLower(q[i].Title) }

// Search ranks the hunter's quests by fuzzy title match, best first. Quests
// whose title does not contain the query characters in order are dropped.
func (s *QuestService) Search(ctx context.Context, hunterID, query string, limit int) ([]domain.Quest, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if strings.TrimSpace(hunterID) == "" {
		return nil, fmt.Errorf("hunter_id is required: %w", domain.ErrInvalid)
	}
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil, fmt.Errorf("q is required: %w", domain.ErrInvalid)
	}

	quests, err := s.quests.List(ctx, repository.QuestFilter{HunterID: hunterID})
	if err != nil {
		s.logger.Error().Err(err).Str("hunter_id", hunterID).Msg("failed to list quests for search")
		return nil, err
	}

	matches := fuzzy.FindFrom(query, questTitles(quests))
	limit = clampLimit(limit)
	if len(matches) > limit {
		matches = matches[:limit]
	}

	result := make([]domain.Quest, 0, len(matches))
	for _, m := range matches {
		result = append(result, quests[m.Index])
	}

	s.logger.Debug().
		Str("hunter_id", hunterID).
		Str("query", query).
		Int("candidates", len(quests)).
		Int("matches", len(result)).
		Msg("quests searched")
	return result, nil
}
