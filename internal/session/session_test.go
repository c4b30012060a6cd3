package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/lvlup-app/lvlup/internal/engine"
	"github.com/lvlup-app/lvlup/internal/storage"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(t *testing.T, value string) *fakeClock {
	t.Helper()
	now, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("parse clock time: %v", err)
	}
	return &fakeClock{now: now}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Today() string {
	return c.Now().Format(engine.DateKeyLayout)
}

func (c *fakeClock) Set(t *testing.T, value string) {
	t.Helper()
	now, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("parse clock time: %v", err)
	}
	c.mu.Lock()
	c.now = now
	c.mu.Unlock()
}

type gatewayCall struct {
	op   string
	snap storage.Snapshot
}

type fakeGateway struct {
	mu        sync.Mutex
	snap      storage.Snapshot
	has       bool
	loadErr   error
	saveErr   error
	loadDelay time.Duration
	calls     []gatewayCall
}

func (g *fakeGateway) Load(ctx context.Context, accountID string) (storage.Snapshot, bool, error) {
	if g.loadDelay > 0 {
		select {
		case <-time.After(g.loadDelay):
		case <-ctx.Done():
			return storage.Snapshot{}, false, ctx.Err()
		}
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, gatewayCall{op: "load"})
	return g.snap, g.has, g.loadErr
}

func (g *fakeGateway) Save(ctx context.Context, accountID string, snap storage.Snapshot) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, gatewayCall{op: "save", snap: snap})
	if g.saveErr != nil {
		return g.saveErr
	}
	g.snap = snap
	g.has = true
	return nil
}

func (g *fakeGateway) callOps() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]string, len(g.calls))
	for i, c := range g.calls {
		out[i] = c.op
	}
	return out
}

func (g *fakeGateway) lastSave() (storage.Snapshot, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i := len(g.calls) - 1; i >= 0; i-- {
		if g.calls[i].op == "save" {
			return g.calls[i].snap, true
		}
	}
	return storage.Snapshot{}, false
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition never met")
}

func startSession(t *testing.T, cfg Config) *Session {
	t.Helper()
	sess, err := New(cfg)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	sess.Start()
	t.Cleanup(sess.Close)
	return sess
}

func TestFreshSessionStartsOnDefaults(t *testing.T) {
	clock := newFakeClock(t, "2024-01-01T10:00:00Z")
	sess := startSession(t, Config{Clock: clock})

	snap := sess.Snapshot()
	if snap.TotalXP != 0 || snap.Level != 1 || len(snap.Sections) != 3 {
		t.Fatalf("unexpected defaults: totalXP=%d level=%d sections=%d", snap.TotalXP, snap.Level, len(snap.Sections))
	}
	if snap.LastActiveDate != "2024-01-01" {
		t.Fatalf("unexpected lastActiveDate %q", snap.LastActiveDate)
	}
}

func TestLoadReplacesDefaults(t *testing.T) {
	clock := newFakeClock(t, "2024-01-01T10:00:00Z")
	gw := &fakeGateway{
		has: true,
		snap: storage.Snapshot{
			TotalXP: 250,
			Level:   99, // stale persisted value; must be rederived
			Streak:  4,
			Sections: []storage.SectionRecord{{
				ID: "s1", Name: "Solo", Icon: "⭐", ColorTag: "custom",
				Tasks: []storage.TaskRecord{{ID: "t1", Name: "only", XP: 10}},
			}},
			History: []storage.HistoryRecord{{Date: "2023-12-31", XP: 40, TasksCompleted: 2}},
		},
	}
	sess := startSession(t, Config{Clock: clock, Gateway: gw, AccountID: "u1"})

	waitFor(t, time.Second, func() bool { return sess.Snapshot().TotalXP == 250 })
	snap := sess.Snapshot()
	if snap.Level != 3 || snap.CurrentXP != 50 {
		t.Fatalf("derived fields not recomputed: level=%d currentXP=%d", snap.Level, snap.CurrentXP)
	}
	if snap.Streak != 4 || len(snap.Sections) != 1 || snap.Sections[0].ID != "s1" {
		t.Fatalf("unexpected loaded state: %+v", snap)
	}
	if entry, ok := snap.History.Entry("2023-12-31"); !ok || entry.XP != 40 {
		t.Fatalf("history not loaded: %+v ok=%v", entry, ok)
	}
	if snap.LastActiveDate != "2024-01-01" {
		t.Fatalf("expected lastActiveDate reset to today, got %q", snap.LastActiveDate)
	}
}

func TestLoadFailureDegradesToDefaults(t *testing.T) {
	clock := newFakeClock(t, "2024-01-01T10:00:00Z")
	gw := &fakeGateway{loadErr: errors.New("remote unavailable")}
	sess := startSession(t, Config{Clock: clock, Gateway: gw, AccountID: "u1"})

	waitFor(t, time.Second, func() bool { return len(gw.callOps()) > 0 })
	snap := sess.Snapshot()
	if snap.TotalXP != 0 || len(snap.Sections) != 3 {
		t.Fatalf("expected defaults after load failure, got %+v", snap)
	}
}

func TestCommitTriggersSave(t *testing.T) {
	clock := newFakeClock(t, "2024-01-01T10:00:00Z")
	gw := &fakeGateway{}
	sess := startSession(t, Config{Clock: clock, Gateway: gw, AccountID: "u1"})

	sess.ToggleTask("career", "c1")
	waitFor(t, time.Second, func() bool {
		snap, ok := gw.lastSave()
		return ok && snap.TotalXP == 20
	})
}

func TestNoSaveBeforeLoadSettles(t *testing.T) {
	clock := newFakeClock(t, "2024-01-01T10:00:00Z")
	gw := &fakeGateway{loadDelay: 80 * time.Millisecond}
	sess := startSession(t, Config{Clock: clock, Gateway: gw, AccountID: "u1"})

	// Submitted while the load is still in flight.
	sess.ToggleTask("career", "c1")

	waitFor(t, time.Second, func() bool {
		_, ok := gw.lastSave()
		return ok
	})
	ops := gw.callOps()
	if ops[0] != "load" {
		t.Fatalf("expected load before any save, got call order %v", ops)
	}
}

func TestNoOpCommandDoesNotSave(t *testing.T) {
	clock := newFakeClock(t, "2024-01-01T10:00:00Z")
	gw := &fakeGateway{}
	sess := startSession(t, Config{Clock: clock, Gateway: gw, AccountID: "u1"})

	sess.ToggleTask("missing-section", "missing-task")
	time.Sleep(50 * time.Millisecond)
	if _, ok := gw.lastSave(); ok {
		t.Fatal("no-op command must not trigger a save")
	}
	if sess.Snapshot().TotalXP != 0 {
		t.Fatal("no-op command must not change state")
	}
}

func TestGuestSessionNeverTouchesGateway(t *testing.T) {
	clock := newFakeClock(t, "2024-01-01T10:00:00Z")
	gw := &fakeGateway{}
	sess := startSession(t, Config{Clock: clock, Gateway: gw})

	sess.ToggleTask("career", "c1")
	waitFor(t, time.Second, func() bool { return sess.Snapshot().TotalXP == 20 })
	if len(gw.callOps()) != 0 {
		t.Fatalf("guest session called the gateway: %v", gw.callOps())
	}
}

func TestSaveFailureIsSwallowed(t *testing.T) {
	clock := newFakeClock(t, "2024-01-01T10:00:00Z")
	gw := &fakeGateway{saveErr: errors.New("write refused")}
	sess := startSession(t, Config{Clock: clock, Gateway: gw, AccountID: "u1"})

	sess.ToggleTask("career", "c1")
	waitFor(t, time.Second, func() bool {
		for _, op := range gw.callOps() {
			if op == "save" {
				return true
			}
		}
		return false
	})
	// Engine state is unaffected by the failed save.
	if sess.Snapshot().TotalXP != 20 {
		t.Fatalf("state lost after save failure: %+v", sess.Snapshot())
	}
}

func TestOverdueSweepPenalizesDeadlineTasks(t *testing.T) {
	clock := newFakeClock(t, "2024-01-01T10:00:00Z")
	sess := startSession(t, Config{
		Clock:         clock,
		OverduePeriod: 10 * time.Millisecond,
	})

	sess.ToggleTask("career", "c1") // bank 20 XP first
	due := clock.Now().Add(-time.Minute)
	sess.AddTask("career", "missed already", 15, &due)

	waitFor(t, time.Second, func() bool { return sess.Snapshot().TotalXP == 5 })
	snap := sess.Snapshot()
	tasks := snap.Sections[snap.SectionIndex("career")].Tasks
	failed := tasks[len(tasks)-1]
	if !failed.Completed || failed.DueAt != nil {
		t.Fatalf("expected overdue task closed out, got %+v", failed)
	}
}

func TestRolloverSweepAppliesDailyPenalty(t *testing.T) {
	clock := newFakeClock(t, "2024-01-01T10:00:00Z")
	sess := startSession(t, Config{
		Clock:          clock,
		RolloverPeriod: 10 * time.Millisecond,
	})

	sess.ToggleTask("career", "c1") // 20 XP banked, c1 completed
	waitFor(t, time.Second, func() bool { return sess.Snapshot().TotalXP == 20 })

	clock.Set(t, "2024-01-02T00:01:00Z")
	waitFor(t, time.Second, func() bool { return sess.Snapshot().LastActiveDate == "2024-01-02" })

	snap := sess.Snapshot()
	// Default sections carry 120 XP of incomplete tasks after c1 is
	// done: the 20 banked cannot cover it, so the balance clamps.
	if snap.TotalXP != 0 {
		t.Fatalf("expected clamped totalXP 0 after rollover, got %d", snap.TotalXP)
	}
	for _, section := range snap.Sections {
		for _, task := range section.Tasks {
			if task.Completed {
				t.Fatalf("expected all tasks reset, found completed %+v", task)
			}
		}
	}
	if entry, ok := snap.History.Entry("2024-01-01"); !ok || entry.XP != 0 {
		// +20 from the toggle, -20 effective from the clamped penalty.
		t.Fatalf("unexpected ledger for the ended day: %+v ok=%v", entry, ok)
	}
}

func TestCloseStopsAcceptingWork(t *testing.T) {
	clock := newFakeClock(t, "2024-01-01T10:00:00Z")
	sess, err := New(Config{Clock: clock})
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	sess.Start()
	sess.Close()
	sess.Close() // idempotent

	// Must not block or panic after teardown.
	sess.ToggleTask("career", "c1")
	if snap := sess.Snapshot(); snap.TotalXP != 0 {
		t.Fatalf("command applied after Close: %+v", snap)
	}
}

func TestAccountRequiresGateway(t *testing.T) {
	if _, err := New(Config{AccountID: "u1"}); err == nil {
		t.Fatal("expected error for account without gateway")
	}
}
