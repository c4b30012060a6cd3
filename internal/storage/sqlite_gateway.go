package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const sqliteTimeLayout = time.RFC3339Nano

// SQLiteGateway stores account snapshots in a local sqlite database.
// It plays the role of the remote store: full-snapshot upserts, last
// writer wins, no compare-and-swap.
type SQLiteGateway struct {
	db *sql.DB
}

func NewSQLiteGateway(db *sql.DB) (*SQLiteGateway, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return &SQLiteGateway{db: db}, nil
}

func OpenSQLite(path string) (*SQLiteGateway, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	gw, err := NewSQLiteGateway(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return gw, nil
}

func (g *SQLiteGateway) Close() error {
	return g.db.Close()
}

func (g *SQLiteGateway) Load(ctx context.Context, accountID string) (Snapshot, bool, error) {
	var snap Snapshot
	row := g.db.QueryRowContext(ctx, `
		SELECT total_xp, level, streak FROM profiles WHERE account_id = ?`, accountID)
	if err := row.Scan(&snap.TotalXP, &snap.Level, &snap.Streak); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Snapshot{}, false, nil
		}
		return Snapshot{}, false, fmt.Errorf("load profile: %w", err)
	}

	sections, err := g.loadSections(ctx, accountID)
	if err != nil {
		return Snapshot{}, false, err
	}
	snap.Sections = sections

	hist, err := g.loadHistory(ctx, accountID)
	if err != nil {
		return Snapshot{}, false, err
	}
	snap.History = hist
	return snap, true, nil
}

func (g *SQLiteGateway) loadSections(ctx context.Context, accountID string) ([]SectionRecord, error) {
	rows, err := g.db.QueryContext(ctx, `
		SELECT id, name, icon, color_tag FROM sections
		WHERE account_id = ? ORDER BY position`, accountID)
	if err != nil {
		return nil, fmt.Errorf("load sections: %w", err)
	}
	defer rows.Close()

	out := make([]SectionRecord, 0)
	for rows.Next() {
		var sec SectionRecord
		if err := rows.Scan(&sec.ID, &sec.Name, &sec.Icon, &sec.ColorTag); err != nil {
			return nil, fmt.Errorf("scan section: %w", err)
		}
		out = append(out, sec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		tasks, err := g.loadTasks(ctx, accountID, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Tasks = tasks
	}
	return out, nil
}

func (g *SQLiteGateway) loadTasks(ctx context.Context, accountID, sectionID string) ([]TaskRecord, error) {
	rows, err := g.db.QueryContext(ctx, `
		SELECT id, name, xp, completed, due_at FROM tasks
		WHERE account_id = ? AND section_id = ? ORDER BY position`, accountID, sectionID)
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	defer rows.Close()

	out := make([]TaskRecord, 0)
	for rows.Next() {
		var (
			task      TaskRecord
			completed int
			due       sql.NullString
		)
		if err := rows.Scan(&task.ID, &task.Name, &task.XP, &completed, &due); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		task.Completed = completed != 0
		if due.Valid {
			at, parseErr := time.Parse(sqliteTimeLayout, due.String)
			if parseErr != nil {
				return nil, fmt.Errorf("parse due_at: %w", parseErr)
			}
			task.DueAt = &at
		}
		out = append(out, task)
	}
	return out, rows.Err()
}

func (g *SQLiteGateway) loadHistory(ctx context.Context, accountID string) ([]HistoryRecord, error) {
	rows, err := g.db.QueryContext(ctx, `
		SELECT date, xp, tasks_completed FROM history
		WHERE account_id = ? ORDER BY date`, accountID)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	defer rows.Close()

	out := make([]HistoryRecord, 0)
	for rows.Next() {
		var h HistoryRecord
		if err := rows.Scan(&h.Date, &h.XP, &h.TasksCompleted); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// Save replaces the account's snapshot in one transaction. Sections,
// tasks and history are rewritten wholesale; the profile row is
// upserted.
func (g *SQLiteGateway) Save(ctx context.Context, accountID string, snap Snapshot) error {
	tx, err := g.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO profiles (account_id, total_xp, level, streak, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(account_id) DO UPDATE SET
			total_xp = excluded.total_xp,
			level = excluded.level,
			streak = excluded.streak,
			updated_at = excluded.updated_at`,
		accountID, snap.TotalXP, snap.Level, snap.Streak, time.Now().UTC().Format(sqliteTimeLayout))
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}

	for _, table := range []string{"tasks", "sections", "history"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE account_id = ?`, accountID); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for pos, sec := range snap.Sections {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO sections (account_id, id, name, icon, color_tag, position)
			VALUES (?, ?, ?, ?, ?, ?)`,
			accountID, sec.ID, sec.Name, sec.Icon, sec.ColorTag, pos)
		if err != nil {
			return fmt.Errorf("save section: %w", err)
		}
		for tpos, task := range sec.Tasks {
			completed := 0
			if task.Completed {
				completed = 1
			}
			_, err := tx.ExecContext(ctx, `
				INSERT INTO tasks (account_id, section_id, id, name, xp, completed, due_at, position)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				accountID, sec.ID, task.ID, task.Name, task.XP, completed, nullTime(task.DueAt), tpos)
			if err != nil {
				return fmt.Errorf("save task: %w", err)
			}
		}
	}

	for _, h := range snap.History {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO history (account_id, date, xp, tasks_completed)
			VALUES (?, ?, ?, ?)`,
			accountID, h.Date, h.XP, h.TasksCompleted)
		if err != nil {
			return fmt.Errorf("save history: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(sqliteTimeLayout)
}
