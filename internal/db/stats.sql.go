package db

import (
	"context"
	"time"
)

const getStatByHunter = `SELECT id, hunter_id, created_at, updated_at FROM stats WHERE hunter_id = ?`

func (q *Queries) GetStatByHunter(ctx context.Context, hunterID string) (Stat, error) {
	row := q.db.QueryRowContext(ctx, getStatByHunter, hunterID)
	var i Stat
	err := row.Scan(&i.ID, &i.HunterID, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

const insertStatIfAbsent = `INSERT INTO stats (id, hunter_id, created_at, updated_at)
VALUES (?, ?, ?, ?)
ON CONFLICT (hunter_id) DO NOTHING`

type InsertStatParams struct {
	ID        string
	HunterID  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// InsertStatIfAbsent reports whether a new row was written.
func (q *Queries) InsertStatIfAbsent(ctx context.Context, arg InsertStatParams) (bool, error) {
	result, err := q.db.ExecContext(ctx, insertStatIfAbsent, arg.ID, arg.HunterID, arg.CreatedAt, arg.UpdatedAt)
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

const touchStat = `UPDATE stats SET updated_at = ? WHERE hunter_id = ?`

func (q *Queries) TouchStat(ctx context.Context, hunterID string, updatedAt time.Time) error {
	_, err := q.db.ExecContext(ctx, touchStat, updatedAt, hunterID)
	return err
}

const listStatCounters = `SELECT hunter_id, name, value FROM stat_counters WHERE hunter_id = ? ORDER BY name`

func (q *Queries) ListStatCounters(ctx context.Context, hunterID string) ([]StatCounter, error) {
	rows, err := q.db.QueryContext(ctx, listStatCounters, hunterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []StatCounter
	for rows.Next() {
		var i StatCounter
		if err := rows.Scan(&i.HunterID, &i.Name, &i.Value); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const setStatCounter = `INSERT INTO stat_counters (hunter_id, name, value)
VALUES (?, ?, ?)
ON CONFLICT (hunter_id, name) DO UPDATE SET value = excluded.value`

func (q *Queries) SetStatCounter(ctx context.Context, arg StatCounter) error {
	_, err := q.db.ExecContext(ctx, setStatCounter, arg.HunterID, arg.Name, arg.Value)
	return err
}

const incrementStatCounter = `INSERT INTO stat_counters (hunter_id, name, value)
VALUES (?, ?, ?)
ON CONFLICT (hunter_id, name) DO UPDATE SET value = stat_counters.value + excluded.value`

func (q *Queries) IncrementStatCounter(ctx context.Context, arg StatCounter) error {
	_, err := q.db.ExecContext(ctx, incrementStatCounter, arg.HunterID, arg.Name, arg.Value)
	return err
}
