package db

import (
	"context"
	"time"
)

const hunterColumns = `id, display_name, email, rank, level, exp, total_exp, energy, title, created_at, updated_at`

func scanHunter(row interface{ Scan(...interface{}) error }) (Hunter, error) {
	var i Hunter
	err := row.Scan(
		&i.ID,
		&i.DisplayName,
		&i.Email,
		&i.Rank,
		&i.Level,
		&i.Exp,
		&i.TotalExp,
		&i.Energy,
		&i.Title,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getHunter = `SELECT ` + hunterColumns + ` FROM hunters WHERE id = ?`

func (q *Queries) GetHunter(ctx context.Context, id string) (Hunter, error) {
	return scanHunter(q.db.QueryRowContext(ctx, getHunter, id))
}

const getHunterByEmail = `SELECT ` + hunterColumns + ` FROM hunters
WHERE email = ?
ORDER BY created_at ASC, rowid ASC
LIMIT 1`

func (q *Queries) GetHunterByEmail(ctx context.Context, email string) (Hunter, error) {
	return scanHunter(q.db.QueryRowContext(ctx, getHunterByEmail, email))
}

const getHunterByDisplayName = `SELECT ` + hunterColumns + ` FROM hunters
WHERE display_name = ?
ORDER BY created_at ASC, rowid ASC
LIMIT 1`

func (q *Queries) GetHunterByDisplayName(ctx context.Context, displayName string) (Hunter, error) {
	return scanHunter(q.db.QueryRowContext(ctx, getHunterByDisplayName, displayName))
}

const insertHunter = `INSERT INTO hunters (
    id, display_name, email, rank, level, exp, total_exp, energy, title, created_at, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

type InsertHunterParams struct {
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

func (q *Queries) InsertHunter(ctx context.Context, arg InsertHunterParams) error {
	_, err := q.db.ExecContext(ctx, insertHunter,
		arg.ID,
		arg.DisplayName,
		arg.Email,
		arg.Rank,
		arg.Level,
		arg.Exp,
		arg.TotalExp,
		arg.Energy,
		arg.Title,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}

const updateHunterProgress = `UPDATE hunters
SET level = ?, exp = ?, total_exp = ?, rank = ?, updated_at = ?
WHERE id = ?`

type UpdateHunterProgressParams struct {
	Level     int64
	Exp       int64
	TotalExp  int64
	Rank      string
	UpdatedAt time.Time
	ID        string
}

func (q *Queries) UpdateHunterProgress(ctx context.Context, arg UpdateHunterProgressParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateHunterProgress,
		arg.Level,
		arg.Exp,
		arg.TotalExp,
		arg.Rank,
		arg.UpdatedAt,
		arg.ID,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
