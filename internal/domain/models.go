package domain

import (
	"time"
)

type Rank string

const (
	RankE             Rank = "E"
	RankD             Rank = "D"
	RankC             Rank = "C"
	RankB             Rank = "B"
	RankA             Rank = "A"
	RankS             Rank = "S"
	RankShadowMonarch Rank = "Shadow Monarch"
)

type QuestType string

const (
	QuestDaily   QuestType = "daily"
	QuestWeekly  QuestType = "weekly"
	QuestMain    QuestType = "main"
	QuestDungeon QuestType = "dungeon"
)

func (t QuestType) Valid() bool {
	switch t {
	case QuestDaily, QuestWeekly, QuestMain, QuestDungeon:
		return true
	}
	return false
}

type QuestStatus string

const (
	StatusPending    QuestStatus = "pending"
	StatusInProgress QuestStatus = "in_progress"
	StatusCompleted  QuestStatus = "completed"
	StatusClaimed    QuestStatus = "claimed"
)

type LogLevel string

const (
	LogInfo    LogLevel = "info"
	LogSuccess LogLevel = "success"
	LogAlert   LogLevel = "alert"
)

func (l LogLevel) Valid() bool {
	switch l {
	case LogInfo, LogSuccess, LogAlert:
		return true
	}
	return false
}

// Stat names seeded with a default value of 1.
const (
	StatSTR = "STR"
	StatINT = "INT"
	StatDEX = "DEX"
	StatSTA = "STA"
	StatLUK = "LUK"
)

var DefaultStatNames = []string{StatSTR, StatINT, StatDEX, StatSTA, StatLUK}

type Hunter struct {
	ID          string
	DisplayName string
	Email       *string
	Rank        Rank
	Level       int
	Exp         int // progress inside the current level
	TotalExp    int
	Energy      int // 0-100
	Title       *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Stats struct {
	ID        string
	HunterID  string
	Counters  map[string]int
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Quest struct {
	ID          string
	HunterID    string
	Title       string
	Description *string
	Type        QuestType
	ExpReward   int
	StatReward  map[string]int
	Status      QuestStatus
	DueDate     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type LogEntry struct {
	ID        string
	HunterID  string
	Message   string
	Level     LogLevel
	CreatedAt time.Time
}

// Progress is the slice of a hunter that a reward claim rewrites.
type Progress struct {
	Level    int
	Exp      int
	TotalExp int
	Rank     Rank
}

func NewHunter(displayName string, email *string, now time.Time) *Hunter {
	return &Hunter{
		DisplayName: displayName,
		Email:       email,
		Rank:        RankE,
		Level:       1,
		Exp:         0,
		TotalExp:    0,
		Energy:      100,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func DefaultStats(hunterID string, now time.Time) *Stats {
	counters := make(map[string]int, len(DefaultStatNames))
	for _, name := range DefaultStatNames {
		counters[name] = 1
	}
	return &Stats{
		HunterID:  hunterID,
		Counters:  counters,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (h *Hunter) Progress() Progress {
	return Progress{Level: h.Level, Exp: h.Exp, TotalExp: h.TotalExp, Rank: h.Rank}
}
