package db

import (
	"context"
	"strings"
	"time"
)

const questColumns = `id, hunter_id, title, description, type, exp_reward, stat_reward, status, due_date, created_at, updated_at`

func scanQuest(row interface{ Scan(...interface{}) error }) (Quest, error) {
	var i Quest
	err := row.Scan(
		&i.ID,
		&i.HunterID,
		&i.Title,
		&i.Description,
		&i.Type,
		&i.ExpReward,
		&i.StatReward,
		&i.Status,
		&i.DueDate,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const insertQuest = `INSERT INTO quests (
    id, hunter_id, title, description, type, exp_reward, stat_reward, status, due_date, created_at, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

type InsertQuestParams struct {
	ID          string
	HunterID    string
	Title       string
	Description *string
	Type        string
	ExpReward   int64
	StatReward  string
	Status      string
	DueDate     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (q *Queries) InsertQuest(ctx context.Context, arg InsertQuestParams) error {
	_, err := q.db.ExecContext(ctx, insertQuest,
		arg.ID,
		arg.HunterID,
		arg.Title,
		arg.Description,
		arg.Type,
		arg.ExpReward,
		arg.StatReward,
		arg.Status,
		arg.DueDate,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}

const getQuest = `SELECT ` + questColumns + ` FROM quests WHERE id = ?`

func (q *Queries) GetQuest(ctx context.Context, id string) (Quest, error) {
	return scanQuest(q.db.QueryRowContext(ctx, getQuest, id))
}

const listQuestsByHunter = `SELECT ` + questColumns + ` FROM quests
WHERE hunter_id = ?1 AND (?2 = '' OR type = ?2)
ORDER BY created_at DESC, rowid DESC`

type ListQuestsByHunterParams struct {
	HunterID string
	Type     string // empty matches every type
}

func (q *Queries) ListQuestsByHunter(ctx context.Context, arg ListQuestsByHunterParams) ([]Quest, error) {
	rows, err := q.db.QueryContext(ctx, listQuestsByHunter, arg.HunterID, arg.Type)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Quest
	for rows.Next() {
		i, err := scanQuest(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const transitionQuestStatus = `UPDATE quests SET status = ?, updated_at = ? WHERE id = ? AND status IN (/*FROM*/)`

type TransitionQuestStatusParams struct {
	ID        string
	From      []string
	To        string
	UpdatedAt time.Time
}

// TransitionQuestStatus returns the number of rows moved to the new status.
func (q *Queries) TransitionQuestStatus(ctx context.Context, arg TransitionQuestStatusParams) (int64, error) {
	if len(arg.From) == 0 {
		return 0, nil
	}
	query := strings.Replace(transitionQuestStatus, "/*FROM*/", strings.Repeat(",?", len(arg.From))[1:], 1)

	args := make([]interface{}, 0, len(arg.From)+3)
	args = append(args, arg.To, arg.UpdatedAt, arg.ID)
	for _, s := range arg.From {
		args = append(args, s)
	}

	result, err := q.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
