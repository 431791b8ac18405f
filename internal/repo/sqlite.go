package repo

import (
	"context"
	"database/sql"

	"daywheel/internal/domain"
)

// SQLite persists snapshots in the workspace database. Flush rewrites the
// tasks table in one transaction so the stored order always matches the
// store order.
type SQLite struct {
	DB *sql.DB
}

func NewSQLite(db *sql.DB) *SQLite {
	return &SQLite{DB: db}
}

func (r *SQLite) LoadTasks(ctx context.Context) ([]domain.Task, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id,title,COALESCE(description,''),date,completed,priority,category,created_at,updated_at FROM tasks ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var tasks []domain.Task
	for rows.Next() {
		var t domain.Task
		var completed int
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Date, &completed, &t.Priority, &t.Category, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		t.Completed = completed != 0
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *SQLite) FlushTasks(ctx context.Context, tasks []domain.Task) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, `DELETE FROM tasks`); err != nil {
		return err
	}
	for i, t := range tasks {
		completed := 0
		if t.Completed {
			completed = 1
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO tasks(id,position,title,description,date,completed,priority,category,created_at,updated_at) VALUES (?,?,?,?,?,?,?,?,?,?)`,
			t.ID, i, t.Title, nullable(t.Description), string(t.Date), completed, string(t.Priority), string(t.Category), t.CreatedAt, t.UpdatedAt); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *SQLite) LoadUnlocks(ctx context.Context) (map[string]string, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT achievement_id,unlocked_at FROM achievement_unlocks`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	unlocks := map[string]string{}
	for rows.Next() {
		var id, at string
		if err := rows.Scan(&id, &at); err != nil {
			return nil, err
		}
		unlocks[id] = at
	}
	return unlocks, rows.Err()
}

func (r *SQLite) SaveUnlock(ctx context.Context, achievementID, unlockedAt string) error {
	_, err := r.DB.ExecContext(ctx, `INSERT INTO achievement_unlocks(achievement_id,unlocked_at) VALUES (?,?)
ON CONFLICT(achievement_id) DO NOTHING`, achievementID, unlockedAt)
	return err
}

func (r *SQLite) Close() error {
	return r.DB.Close()
}

func nullable(v string) any {
	if v == "" {
		return nil
	}
	return v
}
