package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func setupGateway(t *testing.T) *SQLiteGateway {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "lvlup-test.db")
	gw, err := OpenSQLite(dbPath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = gw.Close() })
	return gw
}

func sampleSnapshot(t *testing.T) Snapshot {
	t.Helper()
	due, err := time.Parse(time.RFC3339, "2024-01-01T18:00:00Z")
	if err != nil {
		t.Fatalf("parse due: %v", err)
	}
	return Snapshot{
		TotalXP: 250,
		Level:   3,
		Streak:  7,
		Sections: []SectionRecord{
			{
				ID: "career", Name: "Career", Icon: "💼", ColorTag: "career",
				Tasks: []TaskRecord{
					{ID: "c1", Name: "Deep work", XP: 20, Completed: true},
					{ID: "c2", Name: "Ship release", XP: 15, DueAt: &due},
				},
			},
			{ID: "health", Name: "Health", Icon: "❤️", ColorTag: "health", Tasks: []TaskRecord{}},
		},
		History: []HistoryRecord{
			{Date: "2024-01-01", XP: 35, TasksCompleted: 2},
			{Date: "2023-12-31", XP: -10, TasksCompleted: 0},
		},
	}
}

func TestLoadAbsentAccount(t *testing.T) {
	gw := setupGateway(t)
	_, ok, err := gw.Load(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if ok {
		t.Fatal("expected absent snapshot for first-time account")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	gw := setupGateway(t)
	ctx := context.Background()
	in := sampleSnapshot(t)

	if err := gw.Save(ctx, "u1", in); err != nil {
		t.Fatalf("save: %v", err)
	}
	out, ok, err := gw.Load(ctx, "u1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !ok {
		t.Fatal("expected snapshot present")
	}
	if out.TotalXP != 250 || out.Level != 3 || out.Streak != 7 {
		t.Fatalf("unexpected profile: %+v", out)
	}
	if len(out.Sections) != 2 || out.Sections[0].ID != "career" || out.Sections[1].ID != "health" {
		t.Fatalf("section order not preserved: %+v", out.Sections)
	}
	tasks := out.Sections[0].Tasks
	if len(tasks) != 2 || tasks[0].ID != "c1" || !tasks[0].Completed {
		t.Fatalf("unexpected tasks: %+v", tasks)
	}
	if tasks[1].DueAt == nil || !tasks[1].DueAt.Equal(*in.Sections[0].Tasks[1].DueAt) {
		t.Fatalf("dueAt not round-tripped: %+v", tasks[1].DueAt)
	}
	if tasks[0].DueAt != nil {
		t.Fatal("nil dueAt must stay nil")
	}
	if len(out.History) != 2 || out.History[0].Date != "2023-12-31" {
		t.Fatalf("history not ordered by date: %+v", out.History)
	}
}

func TestSaveIsLastWriterWins(t *testing.T) {
	gw := setupGateway(t)
	ctx := context.Background()

	if err := gw.Save(ctx, "u1", sampleSnapshot(t)); err != nil {
		t.Fatalf("first save: %v", err)
	}
	second := Snapshot{
		TotalXP:  5,
		Level:    1,
		Sections: []SectionRecord{{ID: "solo", Name: "Solo", Icon: "⭐", ColorTag: "custom"}},
		History:  []HistoryRecord{{Date: "2024-01-02", XP: 5, TasksCompleted: 1}},
	}
	if err := gw.Save(ctx, "u1", second); err != nil {
		t.Fatalf("second save: %v", err)
	}

	out, ok, err := gw.Load(ctx, "u1")
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if out.TotalXP != 5 || len(out.Sections) != 1 || out.Sections[0].ID != "solo" {
		t.Fatalf("second save did not fully replace the first: %+v", out)
	}
	if len(out.History) != 1 || out.History[0].Date != "2024-01-02" {
		t.Fatalf("stale history survived: %+v", out.History)
	}
}

func TestAccountsAreIsolated(t *testing.T) {
	gw := setupGateway(t)
	ctx := context.Background()

	if err := gw.Save(ctx, "u1", sampleSnapshot(t)); err != nil {
		t.Fatalf("save u1: %v", err)
	}
	if err := gw.Save(ctx, "u2", Snapshot{TotalXP: 1, Level: 1}); err != nil {
		t.Fatalf("save u2: %v", err)
	}

	out, ok, err := gw.Load(ctx, "u2")
	if err != nil || !ok {
		t.Fatalf("load u2: ok=%v err=%v", ok, err)
	}
	if out.TotalXP != 1 || len(out.Sections) != 0 {
		t.Fatalf("u2 saw another account's data: %+v", out)
	}
}
