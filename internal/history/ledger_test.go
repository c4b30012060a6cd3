package history

import (
	"reflect"
	"testing"
)

func TestUpsertCreatesThenAccumulates(t *testing.T) {
	l := New()
	l.Upsert("2024-01-01", 20, 1)
	l.Upsert("2024-01-01", -5, 0)
	l.Upsert("2024-01-02", 15, 1)

	entry, ok := l.Entry("2024-01-01")
	if !ok || entry.XP != 15 || entry.TasksCompleted != 1 {
		t.Fatalf("unexpected accumulated entry: %+v ok=%v", entry, ok)
	}
	if l.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", l.Len())
	}
	if l.XPTotal() != 30 {
		t.Fatalf("expected XP total 30, got %d", l.XPTotal())
	}
}

func TestSnapshotOrderedByDate(t *testing.T) {
	l := New()
	l.Upsert("2024-02-10", 5, 0)
	l.Upsert("2024-01-03", 10, 1)
	l.Upsert("2024-01-20", -3, 0)

	snap := l.Snapshot()
	want := []string{"2024-01-03", "2024-01-20", "2024-02-10"}
	for i, date := range want {
		if snap[i].Date != date {
			t.Fatalf("snapshot[%d].Date = %q, want %q", i, snap[i].Date, date)
		}
	}

	// Mutating the snapshot must not reach the ledger.
	snap[0].XP = 999
	entry, _ := l.Entry("2024-01-03")
	if entry.XP != 10 {
		t.Fatalf("snapshot mutation leaked into ledger: %+v", entry)
	}
}

func TestFromEntriesAccumulatesDuplicates(t *testing.T) {
	l := FromEntries([]Entry{
		{Date: "2024-01-01", XP: 10, TasksCompleted: 1},
		{Date: "2024-01-01", XP: -4, TasksCompleted: 0},
		{Date: "2024-01-02", XP: 7, TasksCompleted: 1},
	})
	entry, _ := l.Entry("2024-01-01")
	if entry.XP != 6 || entry.TasksCompleted != 1 {
		t.Fatalf("unexpected merged entry: %+v", entry)
	}
	if l.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", l.Len())
	}
}

func TestCloneIsIndependent(t *testing.T) {
	l := New()
	l.Upsert("2024-01-01", 10, 1)

	clone := l.Clone()
	if !reflect.DeepEqual(clone, l) {
		t.Fatal("clone should equal its source")
	}
	clone.Upsert("2024-01-01", 5, 0)
	clone.Upsert("2024-01-02", 1, 0)

	entry, _ := l.Entry("2024-01-01")
	if entry.XP != 10 || l.Len() != 1 {
		t.Fatalf("clone mutation leaked into source: %+v len=%d", entry, l.Len())
	}
}

func TestZeroValueLedgerIsUsable(t *testing.T) {
	var l Ledger
	l.Upsert("2024-01-01", 3, 1)
	if l.XPTotal() != 3 {
		t.Fatalf("expected XP total 3, got %d", l.XPTotal())
	}
}
