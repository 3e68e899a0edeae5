package progression

import (
	"hunter-tracker/internal/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeRank_Boundaries(t *testing.T) {
	cases := []struct {
		level int
		want  domain.Rank
	}{
		{1, domain.RankE},
		{4, domain.RankE},
		{5, domain.RankD},
		{9, domain.RankD},
		{10, domain.RankC},
		{14, domain.RankC},
		{15, domain.RankB},
		{19, domain.RankB},
		{20, domain.RankA},
		{24, domain.RankA},
		{25, domain.RankS},
		{29, domain.RankS},
		{30, domain.RankShadowMonarch},
		{99, domain.RankShadowMonarch},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ComputeRank(tc.level), "level %d", tc.level)
	}
}

func TestComputeRank_Monotonic(t *testing.T) {
	order := map[domain.Rank]int{
		domain.RankE: 0, domain.RankD: 1, domain.RankC: 2, domain.RankB: 3,
		domain.RankA: 4, domain.RankS: 5, domain.RankShadowMonarch: 6,
	}
	prev := order[ComputeRank(1)]
	for level := 2; level <= 60; level++ {
		cur := order[ComputeRank(level)]
		assert.GreaterOrEqual(t, cur, prev, "rank dropped at level %d", level)
		prev = cur
	}
}

func TestApplyReward_MultiLevelRollover(t *testing.T) {
	got := ApplyReward(domain.Progress{Level: 1, Exp: 95, TotalExp: 95}, 250)

	assert.Equal(t, 4, got.Level)
	assert.Equal(t, 45, got.Exp)
	assert.Equal(t, 345, got.TotalExp)
	assert.Equal(t, 3, got.LevelsGained)
	assert.True(t, got.LeveledUp)
	assert.Equal(t, domain.RankE, got.Rank)
}

func TestApplyReward_NoLevelUp(t *testing.T) {
	got := ApplyReward(domain.Progress{Level: 3, Exp: 10, TotalExp: 210}, 89)

	assert.Equal(t, 3, got.Level)
	assert.Equal(t, 99, got.Exp)
	assert.Equal(t, 299, got.TotalExp)
	assert.False(t, got.LeveledUp)
}

func TestApplyReward_ExactBoundary(t *testing.T) {
	got := ApplyReward(domain.Progress{Level: 4, Exp: 50, TotalExp: 350}, 50)

	assert.Equal(t, 5, got.Level)
	assert.Equal(t, 0, got.Exp)
	assert.Equal(t, domain.RankD, got.Rank)
	assert.True(t, got.LeveledUp)
}

func TestApplyReward_ZeroReward(t *testing.T) {
	start := domain.Progress{Level: 29, Exp: 99, TotalExp: 2899, Rank: domain.RankS}
	got := ApplyReward(start, 0)

	assert.Equal(t, start.Level, got.Level)
	assert.Equal(t, start.Exp, got.Exp)
	assert.Equal(t, start.TotalExp, got.TotalExp)
	assert.False(t, got.LeveledUp)
}

func TestApplyReward_MatchesClosedForm(t *testing.T) {
	for level := 1; level <= 40; level += 3 {
		for exp := 0; exp < 100; exp += 7 {
			for _, reward := range []int{0, 1, 5, 99, 100, 101, 250, 1234} {
				got := ApplyReward(domain.Progress{Level: level, Exp: exp}, reward)
				require.Equal(t, level+(exp+reward)/100, got.Level)
				require.Equal(t, (exp+reward)%100, got.Exp)
				require.Equal(t, ComputeRank(got.Level), got.Rank)
			}
		}
	}
}

func TestValidateReward(t *testing.T) {
	assert.NoError(t, ValidateReward(0, nil))
	assert.NoError(t, ValidateReward(20, map[string]int{"INT": 1}))
	assert.ErrorIs(t, ValidateReward(-1, nil), domain.ErrInvalid)
	assert.ErrorIs(t, ValidateReward(10, map[string]int{"STR": -2}), domain.ErrInvalid)
	assert.ErrorIs(t, ValidateReward(10, map[string]int{"": 1}), domain.ErrInvalid)
	assert.ErrorIs(t, ValidateReward(10, map[string]int{"hunter_id": 1}), domain.ErrInvalid)
	assert.ErrorIs(t, ValidateReward(10, map[string]int{"$inc": 1}), domain.ErrInvalid)
}
