package service

import (
	"context"
	"errors"
	"hunter-tracker/internal/cache"
	"hunter-tracker/internal/config"
	"hunter-tracker/internal/database"
	"hunter-tracker/internal/domain"
	"hunter-tracker/internal/repository"
	"hunter-tracker/internal/repository/sqlitestore"
	"path/filepath"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store   repository.Store
	cache   *cache.HunterCache
	hunters *HunterService
	quests  *QuestService
	logs    *LogService
	seed    *SeedService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	sqlDB, err := database.OpenSQLite(filepath.Join(t.TempDir(), "hunter.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	store := sqlitestore.New(sqlDB, zerolog.Nop())
	hunterCache, err := cache.NewHunterCacheSize(16)
	require.NoError(t, err)

	logs := NewLogService(store, zerolog.Nop())
	return &fixture{
		store:   store,
		cache:   hunterCache,
		hunters: NewHunterService(store, hunterCache, zerolog.Nop()),
		quests:  NewQuestService(store, logs, hunterCache, zerolog.Nop()),
		logs:    logs,
		seed:    NewSeedService(store, zerolog.Nop()),
	}
}

func (f *fixture) newHunter(t *testing.T, name string) *domain.Hunter {
	t.Helper()
	hunter, created, err := f.hunters.CreateOrGet(context.Background(), name, nil)
	require.NoError(t, err)
	require.True(t, created)
	return hunter
}

func (f *fixture) newQuest(t *testing.T, hunterID, title string, exp int, stats map[string]int) *domain.Quest {
	t.Helper()
	quest, err := f.quests.Create(context.Background(), CreateQuestInput{
		HunterID:   hunterID,
		Title:      title,
		ExpReward:  &exp,
		StatReward: stats,
	})
	require.NoError(t, err)
	return quest
}

func messages(entries []domain.LogEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Message)
	}
	return out
}

func TestHunterService_CreateOrGetIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	email := "jinwoo@example.com"

	first, created, err := f.hunters.CreateOrGet(ctx, "Sung Jinwoo", &email)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, domain.RankE, first.Rank)
	assert.Equal(t, 1, first.Level)
	assert.Equal(t, 0, first.Exp)
	assert.Equal(t, 0, first.TotalExp)
	assert.Equal(t, 100, first.Energy)

	second, created, err := f.hunters.CreateOrGet(ctx, "Another Name", &email)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Sung Jinwoo", second.DisplayName)

	logs, err := f.logs.Recent(ctx, first.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"System: You have awakened as a Hunter."}, messages(logs))
	assert.Equal(t, domain.LogSuccess, logs[0].Level)

	stats, err := f.hunters.GetStats(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"STR": 1, "INT": 1, "DEX": 1, "STA": 1, "LUK": 1}, stats.Counters)
}

func TestHunterService_CreateOrGetByDisplayName(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := f.newHunter(t, "Cha Hae-In")
	blank := "  "
	second, created, err := f.hunters.CreateOrGet(ctx, "Cha Hae-In", &blank)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	_, _, err = f.hunters.CreateOrGet(ctx, "   ", nil)
	assert.ErrorIs(t, err, domain.ErrInvalid)
}

func TestHunterService_GetNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.hunters.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestHunterService_GetStatsLazilyCreatesDefaults(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	stats, err := f.hunters.GetStats(ctx, "orphan")
	require.NoError(t, err)
	assert.Equal(t, "orphan", stats.HunterID)
	assert.Equal(t, 1, stats.Counters["STR"])

	again, err := f.hunters.GetStats(ctx, "orphan")
	require.NoError(t, err)
	assert.Equal(t, stats.ID, again.ID)
}

func TestQuestService_CreateDefaultsAndValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	hunter := f.newHunter(t, "Yoo Jinho")

	quest, err := f.quests.Create(ctx, CreateQuestInput{HunterID: hunter.ID, Title: "Push-ups"})
	require.NoError(t, err)
	assert.Equal(t, domain.QuestDaily, quest.Type)
	assert.Equal(t, 20, quest.ExpReward)
	assert.Equal(t, domain.StatusPending, quest.Status)
	assert.Empty(t, quest.StatReward)

	logs, err := f.logs.Recent(ctx, hunter.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"System: Registered new quest - Push-ups"}, messages(logs))

	negative := -5
	cases := []CreateQuestInput{
		{HunterID: "", Title: "x"},
		{HunterID: hunter.ID, Title: " "},
		{HunterID: hunter.ID, Title: "x", Type: "raid"},
		{HunterID: hunter.ID, Title: "x", ExpReward: &negative},
		{HunterID: hunter.ID, Title: "x", StatReward: map[string]int{"STR": -1}},
	}
	for _, in := range cases {
		_, err := f.quests.Create(ctx, in)
		assert.ErrorIs(t, err, domain.ErrInvalid, "%+v", in)
	}
}

func TestQuestService_ListFiltersByType(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	hunter := f.newHunter(t, "Baek Yoonho")

	_, err := f.quests.Create(ctx, CreateQuestInput{HunterID: hunter.ID, Title: "daily one"})
	require.NoError(t, err)
	_, err = f.quests.Create(ctx, CreateQuestInput{HunterID: hunter.ID, Title: "dungeon one", Type: domain.QuestDungeon})
	require.NoError(t, err)

	all, err := f.quests.List(ctx, hunter.ID, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "dungeon one", all[0].Title)

	dungeons, err := f.quests.List(ctx, hunter.ID, domain.QuestDungeon)
	require.NoError(t, err)
	require.Len(t, dungeons, 1)
	assert.Equal(t, "dungeon one", dungeons[0].Title)

	_, err = f.quests.List(ctx, hunter.ID, "raid")
	assert.ErrorIs(t, err, domain.ErrInvalid)
}

func TestQuestService_Search(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	hunter := f.newHunter(t, "Min Byung-Gyu")

	_, err := f.seed.SeedDailies(ctx, hunter.ID)
	require.NoError(t, err)

	found, err := f.quests.Search(ctx, hunter.ID, "WORK", 0)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Workout 30 mins", found[0].Title)

	found, err = f.quests.Search(ctx, hunter.ID, "zzz", 0)
	require.NoError(t, err)
	assert.Empty(t, found)

	_, err = f.quests.Search(ctx, hunter.ID, " ", 0)
	assert.ErrorIs(t, err, domain.ErrInvalid)
}

func TestQuestService_StartAndComplete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	hunter := f.newHunter(t, "Go Gunhee")
	quest := f.newQuest(t, hunter.ID, "Run 5km", 10, nil)

	started, err := f.quests.Start(ctx, quest.ID)
	require.NoError(t, err)
	assert.True(t, started.Changed)
	assert.Equal(t, domain.StatusInProgress, started.Status)

	again, err := f.quests.Start(ctx, quest.ID)
	require.NoError(t, err)
	assert.False(t, again.Changed)
	assert.Equal(t, domain.StatusInProgress, again.Status)

	done, err := f.quests.Complete(ctx, quest.ID)
	require.NoError(t, err)
	assert.True(t, done.Changed)
	assert.Equal(t, domain.StatusCompleted, done.Status)

	doneAgain, err := f.quests.Complete(ctx, quest.ID)
	require.NoError(t, err)
	assert.False(t, doneAgain.Changed)
	assert.Equal(t, domain.StatusCompleted, doneAgain.Status)

	logs, err := f.logs.Recent(ctx, hunter.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"Quest completed: Run 5km", "Quest started: Run 5km"}, messages(logs))
	assert.Equal(t, domain.LogSuccess, logs[0].Level)
}

func TestQuestService_TransitionsOnMissingQuest(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.quests.Start(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.quests.Complete(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.quests.Claim(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestQuestService_ClaimMultiLevelUp(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	hunter := f.newHunter(t, "Sung Jinwoo")

	warmup := f.newQuest(t, hunter.ID, "Warm up", 95, nil)
	res, err := f.quests.Claim(ctx, warmup.ID)
	require.NoError(t, err)
	assert.True(t, res.Awarded)
	assert.False(t, res.LeveledUp)
	assert.Equal(t, 95, res.Exp)

	big := f.newQuest(t, hunter.ID, "Double dungeon", 250, nil)
	res, err = f.quests.Claim(ctx, big.ID)
	require.NoError(t, err)
	assert.True(t, res.Awarded)
	assert.True(t, res.LeveledUp)
	assert.Equal(t, 3, res.LevelsGained)
	assert.Equal(t, 4, res.Level)
	assert.Equal(t, 45, res.Exp)
	assert.Equal(t, 345, res.TotalExp)
	assert.Equal(t, domain.RankE, res.Rank)

	got, err := f.hunters.Get(ctx, hunter.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, got.Level)
	assert.Equal(t, 45, got.Exp)
	assert.Equal(t, 345, got.TotalExp)

	logs, err := f.logs.Recent(ctx, hunter.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Rewards claimed: +250 EXP",
		"Level Up! You are now Level 4 - Rank E.",
	}, messages(logs))
}

func TestQuestService_ClaimIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	hunter := f.newHunter(t, "Choi Jong-In")
	quest := f.newQuest(t, hunter.ID, "Workout 30 mins", 30, map[string]int{"STR": 2})

	first, err := f.quests.Claim(ctx, quest.ID)
	require.NoError(t, err)
	assert.True(t, first.Awarded)
	assert.Equal(t, domain.StatusClaimed, first.Status)

	second, err := f.quests.Claim(ctx, quest.ID)
	require.NoError(t, err)
	assert.False(t, second.Awarded)
	assert.Equal(t, domain.StatusClaimed, second.Status)

	got, err := f.hunters.Get(ctx, hunter.ID)
	require.NoError(t, err)
	assert.Equal(t, 30, got.TotalExp)

	stats, err := f.hunters.GetStats(ctx, hunter.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Counters["STR"])

	logs, err := f.logs.Recent(ctx, hunter.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, "Rewards claimed: +30 EXP, +{STR: 2} stats", logs[0].Message)

	// completing a claimed quest must not move it backwards
	done, err := f.quests.Complete(ctx, quest.ID)
	require.NoError(t, err)
	assert.False(t, done.Changed)
	assert.Equal(t, domain.StatusClaimed, done.Status)
}

func TestQuestService_ConcurrentClaimsAwardOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	hunter := f.newHunter(t, "Hwang Dongsoo")
	quest := f.newQuest(t, hunter.ID, "Raid", 40, map[string]int{"DEX": 1})

	const workers = 8
	var wg sync.WaitGroup
	var mu sync.Mutex
	awarded := 0
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := f.quests.Claim(ctx, quest.ID)
			if err != nil {
				t.Errorf("claim failed: %v", err)
				return
			}
			if res.Awarded {
				mu.Lock()
				awarded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, awarded)

	got, err := f.hunters.Get(ctx, hunter.ID)
	require.NoError(t, err)
	assert.Equal(t, 40, got.TotalExp)

	stats, err := f.hunters.GetStats(ctx, hunter.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Counters["DEX"])
}

func TestQuestService_ClaimUnknownHunter(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	quest := f.newQuest(t, "ghost", "Haunt", 10, nil)

	_, err := f.quests.Claim(ctx, quest.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	current, err := f.store.Quests.Get(ctx, quest.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, current.Status)
}

func TestQuestService_ClaimInvalidatesCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	hunter := f.newHunter(t, "Lee Joohee")

	_, err := f.hunters.Get(ctx, hunter.ID)
	require.NoError(t, err)
	quest := f.newQuest(t, hunter.ID, "Heal", 120, nil)
	_, err = f.quests.Claim(ctx, quest.ID)
	require.NoError(t, err)

	got, err := f.hunters.Get(ctx, hunter.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Level)
	assert.Equal(t, 20, got.Exp)
}

// pausingHunters blocks Get after its store read until release is closed.
type pausingHunters struct {
	repository.HunterRepository
	loaded  chan struct{}
	release chan struct{}
}

func (p *pausingHunters) Get(ctx context.Context, id string) (*domain.Hunter, error) {
	h, err := p.HunterRepository.Get(ctx, id)
	close(p.loaded)
	<-p.release
	return h, err
}

func TestHunterService_GetDoesNotCacheReadOverlappingClaim(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	hunter := f.newHunter(t, "Yoo Jinho")
	f.cache.Remove(hunter.ID)
	quest := f.newQuest(t, hunter.ID, "Carry bags", 150, nil)

	paused := &pausingHunters{
		HunterRepository: f.store.Hunters,
		loaded:           make(chan struct{}),
		release:          make(chan struct{}),
	}
	slow := &HunterService{hunters: paused, stats: f.store.Stats, cache: f.cache, logger: zerolog.Nop()}

	done := make(chan *domain.Hunter)
	go func() {
		h, err := slow.Get(ctx, hunter.ID)
		assert.NoError(t, err)
		done <- h
	}()

	<-paused.loaded
	res, err := f.quests.Claim(ctx, quest.ID)
	require.NoError(t, err)
	require.Equal(t, 2, res.Level)
	close(paused.release)

	stale := <-done
	assert.Equal(t, 1, stale.Level)

	got, err := f.hunters.Get(ctx, hunter.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Level)
	assert.Equal(t, 50, got.Exp)
}

func TestLogService_RecentLimits(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		_, err := f.logs.Emit(ctx, "h1", domain.LogInfo, "tick")
		require.NoError(t, err)
	}

	logs, err := f.logs.Recent(ctx, "h1", 0)
	require.NoError(t, err)
	assert.Len(t, logs, 20)

	logs, err = f.logs.Recent(ctx, "h1", 5)
	require.NoError(t, err)
	assert.Len(t, logs, 5)

	_, err = f.logs.Emit(ctx, "h1", "debug", "nope")
	assert.ErrorIs(t, err, domain.ErrInvalid)

	_, err = f.logs.Recent(ctx, "", 5)
	assert.ErrorIs(t, err, domain.ErrInvalid)
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, 20, clampLimit(0))
	assert.Equal(t, 20, clampLimit(-3))
	assert.Equal(t, 7, clampLimit(7))
	assert.Equal(t, 100, clampLimit(500))
}

func TestSeedService_SeedDailies(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	hunter := f.newHunter(t, "Park Heejin")

	quests, err := f.seed.SeedDailies(ctx, hunter.ID)
	require.NoError(t, err)
	require.Len(t, quests, 3)

	listed, err := f.quests.List(ctx, hunter.ID, domain.QuestDaily)
	require.NoError(t, err)
	require.Len(t, listed, 3)
	byTitle := map[string]domain.Quest{}
	for _, q := range listed {
		assert.Equal(t, domain.StatusPending, q.Status)
		byTitle[q.Title] = q
	}
	assert.Equal(t, 25, byTitle["Study 1 hour"].ExpReward)
	assert.Equal(t, map[string]int{"STR": 1, "STA": 1}, byTitle["Workout 30 mins"].StatReward)
	assert.Equal(t, 20, byTitle["Read 20 pages"].ExpReward)

	logs, err := f.logs.Recent(ctx, hunter.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"System: Daily quests generated.",
		"System: You have awakened as a Hunter.",
	}, messages(logs))

	_, err = f.seed.SeedDailies(ctx, "")
	assert.ErrorIs(t, err, domain.ErrInvalid)
}

func TestRewardSummary(t *testing.T) {
	assert.Equal(t, "Rewards claimed: +20 EXP", rewardSummary(20, nil))
	assert.Equal(t, "Rewards claimed: +30 EXP, +{STA: 1, STR: 1} stats",
		rewardSummary(30, map[string]int{"STR": 1, "STA": 1}))
}

type fakeHealth struct {
	pingErr error
	listErr error
	names   []string
}

func (h fakeHealth) Driver() string                 { return "fake" }
func (h fakeHealth) Name() string                   { return "solo_leveling" }
func (h fakeHealth) Ping(ctx context.Context) error { return h.pingErr }
func (h fakeHealth) Collections(ctx context.Context) ([]string, error) {
	return h.names, h.listErr
}

func TestDiagnosticsService_Report(t *testing.T) {
	cfg := &config.Config{DatabaseURL: "mongodb://localhost:27017"}

	ok := NewDiagnosticsService(repository.Store{Health: fakeHealth{
		names: []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l"},
	}}, cfg, zerolog.Nop()).Report(context.Background())
	assert.Equal(t, "✅ Running", ok.Backend)
	assert.Equal(t, "✅ Connected & Working", ok.Database)
	assert.Equal(t, "Connected", ok.ConnectionStatus)
	assert.Equal(t, "✅ Set", ok.DatabaseURL)
	assert.Equal(t, "solo_leveling", ok.DatabaseName)
	assert.Len(t, ok.Collections, 10)

	longErr := errors.New("connection refused because the server at the configured address is not listening right now")
	down := NewDiagnosticsService(repository.Store{Health: fakeHealth{pingErr: longErr}}, &config.Config{}, zerolog.Nop()).
		Report(context.Background())
	assert.Equal(t, "Not Connected", down.ConnectionStatus)
	assert.Equal(t, "❌ Not Set", down.DatabaseURL)
	assert.Equal(t, "❌ Error: "+longErr.Error()[:80], down.Database)
	assert.Empty(t, down.Collections)

	partial := NewDiagnosticsService(repository.Store{Health: fakeHealth{listErr: errors.New("unauthorized")}}, cfg, zerolog.Nop()).
		Report(context.Background())
	assert.Equal(t, "⚠️ Connected but Error: unauthorized", partial.Database)

	none := NewDiagnosticsService(repository.Store{}, nil, zerolog.Nop()).Report(context.Background())
	assert.Equal(t, "❌ Not Available", none.Database)
}
