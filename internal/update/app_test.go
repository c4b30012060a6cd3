package update

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lvlup-app/lvlup/internal/session"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	sess, err := session.New(session.Config{})
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	sess.Start()
	t.Cleanup(sess.Close)
	return NewModel(sess)
}

func keyMsg(s string) tea.KeyMsg {
	if s == "space" {
		return tea.KeyMsg{Type: tea.KeySpace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewModelDefaults(t *testing.T) {
	m := newTestModel(t)
	if m.CurrentView != ViewBoard {
		t.Fatalf("expected default view %q, got %q", ViewBoard, m.CurrentView)
	}
	if m.Keys.Quit != "q" {
		t.Fatalf("expected quit key q, got %q", m.Keys.Quit)
	}
	if len(m.state.Sections) != 3 {
		t.Fatalf("expected default sections in snapshot, got %d", len(m.state.Sections))
	}
}

func TestUpdateKeySwitchesView(t *testing.T) {
	m := newTestModel(t)
	updated, _ := m.Update(keyMsg("2"))
	next := updated.(Model)
	if next.CurrentView != ViewCalendar {
		t.Fatalf("expected calendar view, got %q", next.CurrentView)
	}

	updated, _ = next.Update(keyMsg("1"))
	next = updated.(Model)
	if next.CurrentView != ViewBoard {
		t.Fatalf("expected board view, got %q", next.CurrentView)
	}
}

func TestUpdateSwitchViewMsg(t *testing.T) {
	m := newTestModel(t)
	updated, _ := m.Update(SwitchViewMsg{View: ViewCalendar})
	next := updated.(Model)
	if next.CurrentView != ViewCalendar {
		t.Fatalf("expected calendar view, got %q", next.CurrentView)
	}

	updated, _ = next.Update(SwitchViewMsg{View: View("Unknown")})
	next = updated.(Model)
	if next.CurrentView != ViewCalendar {
		t.Fatalf("expected view unchanged for unknown view, got %q", next.CurrentView)
	}
}

func TestUpdateStatusMessages(t *testing.T) {
	m := newTestModel(t)
	updated, _ := m.Update(SetStatusMsg{Text: "saved", IsError: false})
	next := updated.(Model)
	if next.Status.Text != "saved" || next.Status.IsError {
		t.Fatalf("unexpected status: %+v", next.Status)
	}

	updated, _ = next.Update(ClearStatusMsg{})
	next = updated.(Model)
	if next.Status.Text != "" {
		t.Fatalf("expected cleared status, got %+v", next.Status)
	}
}

func TestQuitKey(t *testing.T) {
	m := newTestModel(t)
	updated, cmd := m.Update(keyMsg("q"))
	next := updated.(Model)
	if !next.Quitting {
		t.Fatal("expected quitting state")
	}
	if cmd == nil {
		t.Fatal("expected quit command")
	}
}

func TestToggleTaskFromBoard(t *testing.T) {
	m := newTestModel(t)
	updated, _ := m.Update(keyMsg("space"))
	next := updated.(Model)

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if next.Session.Snapshot().TotalXP == 20 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	if next.Session.Snapshot().TotalXP != 20 {
		t.Fatalf("toggle never reached the session: %d", next.Session.Snapshot().TotalXP)
	}

	refreshed, _ := next.Update(RefreshMsg{})
	next = refreshed.(Model)
	if !next.state.Sections[0].Tasks[0].Completed {
		t.Fatal("refresh did not pick up the toggled task")
	}
}

func TestPaletteOpensAndExecutes(t *testing.T) {
	m := newTestModel(t)
	updated, _ := m.Update(keyMsg("/"))
	next := updated.(Model)
	if !next.Palette.Active {
		t.Fatal("expected palette active")
	}

	next.commandInput.SetValue("toggle career deep")
	updated, _ = next.Update(tea.KeyMsg{Type: tea.KeyEnter})
	next = updated.(Model)
	if next.Palette.Active {
		t.Fatal("expected palette closed after enter")
	}
	if next.Status.IsError {
		t.Fatalf("unexpected error status: %+v", next.Status)
	}

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if next.Session.Snapshot().TotalXP == 20 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("palette toggle never reached the session")
}

func TestPaletteReportsParseErrors(t *testing.T) {
	m := newTestModel(t)
	updated, _ := m.Update(keyMsg("/"))
	next := updated.(Model)

	next.commandInput.SetValue("explode now")
	updated, _ = next.Update(tea.KeyMsg{Type: tea.KeyEnter})
	next = updated.(Model)
	if !next.Status.IsError {
		t.Fatalf("expected error status, got %+v", next.Status)
	}
}

func TestResolveSectionByPrefix(t *testing.T) {
	m := newTestModel(t)

	section, err := m.resolveSection("heal")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if section.ID != "health" {
		t.Fatalf("expected health, got %q", section.ID)
	}

	if _, err := m.resolveSection("zzz"); err == nil {
		t.Fatal("expected error for unknown section")
	}
	// "c" prefixes both Career and Creativity.
	if _, err := m.resolveSection("c"); err == nil {
		t.Fatal("expected ambiguity error")
	}
}

func TestParseQuickAdd(t *testing.T) {
	name, xp, dueAt, err := parseQuickAdd("write report xp:25 due:2024-01-01T18:00:00Z")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if name != "write report" || xp != 25 || dueAt == nil {
		t.Fatalf("unexpected parse: name=%q xp=%d dueAt=%v", name, xp, dueAt)
	}

	name, xp, dueAt, err = parseQuickAdd("just a task")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if name != "just a task" || xp != 10 || dueAt != nil {
		t.Fatalf("unexpected defaults: name=%q xp=%d dueAt=%v", name, xp, dueAt)
	}

	if _, _, _, err := parseQuickAdd("xp:5"); err == nil {
		t.Fatal("expected error for empty name")
	}
	if _, _, _, err := parseQuickAdd("task xp:nope"); err == nil {
		t.Fatal("expected error for bad xp")
	}
}
