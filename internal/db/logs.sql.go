package db

import (
	"context"
	"time"
)

const insertLog = `INSERT INTO logs (id, hunter_id, message, level, created_at) VALUES (?, ?, ?, ?, ?)`

type InsertLogParams struct {
	ID        string
	HunterID  string
	Message   string
	Level     string
	CreatedAt time.Time
}

func (q *Queries) InsertLog(ctx context.Context, arg InsertLogParams) error {
	_, err := q.db.ExecContext(ctx, insertLog, arg.ID, arg.HunterID, arg.Message, arg.Level, arg.CreatedAt)
	return err
}

const listRecentLogs = `SELECT id, hunter_id, message, level, created_at FROM logs
WHERE hunter_id = ?
ORDER BY created_at DESC, rowid DESC
LIMIT ?`

type ListRecentLogsParams struct {
	HunterID string
	Limit    int64
}

func (q *Queries) ListRecentLogs(ctx context.Context, arg ListRecentLogsParams) ([]Log, error) {
	rows, err := q.db.QueryContext(ctx, listRecentLogs, arg.HunterID, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Log
	for rows.Next() {
		var i Log
		if err := rows.Scan(&i.ID, &i.HunterID, &i.Message, &i.Level, &i.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
