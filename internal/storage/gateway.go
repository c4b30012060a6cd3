package storage

import (
	"context"
	"time"
)

// TaskRecord mirrors a task at the storage boundary.
type TaskRecord struct {
	ID        string
	Name      string
	XP        int
	Completed bool
	DueAt     *time.Time
}

type SectionRecord struct {
	ID       string
	Name     string
	Icon     string
	ColorTag string
	Tasks    []TaskRecord
}

type HistoryRecord struct {
	Date           string
	XP             int
	TasksCompleted int
}

// Snapshot is the persisted shape of an account's progress. The
// last-active date is deliberately absent: a loaded session always
// starts its day accounting fresh.
type Snapshot struct {
	TotalXP  int
	Level    int
	Streak   int
	Sections []SectionRecord
	History  []HistoryRecord
}

// Gateway is the remote-persistence boundary. Load reports absence via
// the bool, not an error, so a first-time account is not a failure.
// Save is a best-effort last-writer-wins upsert of the full snapshot.
type Gateway interface {
	Load(ctx context.Context, accountID string) (Snapshot, bool, error)
	Save(ctx context.Context, accountID string, snap Snapshot) error
}
