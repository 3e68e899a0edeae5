package db

import (
	"context"
)

const listTables = `SELECT name FROM sqlite_master
WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
ORDER BY name
LIMIT ?`

func (q *Queries) ListTables(ctx context.Context, limit int64) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, listTables, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		items = append(items, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
