// Package progression turns quest rewards into hunter progression.
//
// Everything here is pure: callers load state, call into this package and
// persist the result themselves.
package progression

import (
	"fmt"
	"hunter-tracker/internal/constants"
	"hunter-tracker/internal/domain"
	"regexp"
)

type Result struct {
	Level        int
	Exp          int
	TotalExp     int
	Rank         domain.Rank
	LeveledUp    bool
	LevelsGained int
}

func (r Result) Progress() domain.Progress {
	return domain.Progress{Level: r.Level, Exp: r.Exp, TotalExp: r.TotalExp, Rank: r.Rank}
}

var rankThresholds = []struct {
	minLevel int
	rank     domain.Rank
}{
	{30, domain.RankShadowMonarch},
	{25, domain.RankS},
	{20, domain.RankA},
	{15, domain.RankB},
	{10, domain.RankC},
	{5, domain.RankD},
}

// ComputeRank derives the rank from the level alone. First match wins.
func ComputeRank(level int) domain.Rank {
	for _, t := range rankThresholds {
		if level >= t.minLevel {
			return t.rank
		}
	}
	return domain.RankE
}

// ApplyReward adds expReward to the given progress, rolling over as many
// levels as the reward covers. The returned Exp is always below LevelStep.
func ApplyReward(p domain.Progress, expReward int) Result {
	level := p.Level
	exp := p.Exp + expReward
	gained := 0

	for exp >= constants.LevelStep {
		exp -= constants.LevelStep
		level++
		gained++
	}

	return Result{
		Level:        level,
		Exp:          exp,
		TotalExp:     p.TotalExp + expReward,
		Rank:         ComputeRank(level),
		LeveledUp:    gained > 0,
		LevelsGained: gained,
	}
}

var statName = regexp.MustCompile(`^[A-Z][A-Z0-9_]*$`)

func ValidateReward(expReward int, statReward map[string]int) error {
	if expReward < 0 {
		return fmt.Errorf("exp_reward must be >= 0, got %d: %w", expReward, domain.ErrInvalid)
	}
	for name, delta := range statReward {
		if !statName.MatchString(name) {
			return fmt.Errorf("stat_reward name %q must be an upper-case code like STR: %w", name, domain.ErrInvalid)
		}
		if delta < 0 {
			return fmt.Errorf("stat_reward %s must be >= 0, got %d: %w", name, delta, domain.ErrInvalid)
		}
	}
	return nil
}
