package db

import (
	"time"
)

type Hunter struct {
	ID          string
	DisplayName string
	Email       *string
	Rank        string
	Level       int64
	Exp         int64
	TotalExp    int64
	Energy      int64
	Title       *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Stat struct {
	ID        string
	HunterID  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type StatCounter struct {
	HunterID string
	Name     string
	Value    int64
}

type Quest struct {
	ID          string
	HunterID    string
	Title       string
	Description *string
	Type        string
	ExpReward   int64
	StatReward  string // JSON object
	Status      string
	DueDate     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Log struct {
	ID        string
	HunterID  string
	Message   string
	Level     string
	CreatedAt time.Time
}
