package update

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
)

const refreshEvery = 500 * time.Millisecond

// RefreshMsg re-reads the session's published snapshot. It ticks
// periodically because the scheduler mutates state without user input.
type RefreshMsg struct{}

type SwitchViewMsg struct {
	View View
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

func refreshTick() tea.Cmd {
	return tea.Tick(refreshEvery, func(time.Time) tea.Msg { return RefreshMsg{} })
}

func (m Model) Init() tea.Cmd {
	return refreshTick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case RefreshMsg:
		if m.Session != nil {
			m.state = m.Session.Snapshot()
		}
		m.clampCursors()
		m.syncHistoryTable()
		return m, refreshTick()

	case SwitchViewMsg:
		switch typed.View {
		case ViewBoard, ViewCalendar, ViewHelp:
			m.CurrentView = typed.View
		}
		return m, nil

	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil

	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(typed)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keyStr := msg.String()

	if keyStr == "ctrl+c" {
		m.Quitting = true
		return m, tea.Quit
	}

	if m.Palette.Active {
		return m.handlePaletteKey(msg)
	}
	if m.AddingTask {
		return m.handleQuickAddKey(msg)
	}

	switch keyStr {
	case m.Keys.Quit:
		m.Quitting = true
		return m, tea.Quit
	case m.Keys.Board:
		m.CurrentView = ViewBoard
		return m, nil
	case m.Keys.Calendar:
		m.CurrentView = ViewCalendar
		return m, nil
	case m.Keys.Help:
		m.HelpVisible = !m.HelpVisible
		return m, nil
	case "/":
		m.Palette.Active = true
		m.Palette.Input = ""
		m.commandInput.SetValue("")
		m.commandInput.Focus()
		m.Status = StatusBar{Text: "command palette active"}
		return m, nil
	}

	if m.CurrentView == ViewCalendar {
		var cmd tea.Cmd
		m.historyTable, cmd = m.historyTable.Update(msg)
		return m, cmd
	}
	return m.handleBoardKey(msg)
}

func (m *Model) syncHistoryTable() {
	entries := m.state.History.Snapshot()
	rows := make([]table.Row, 0, len(entries))
	// Newest day on top.
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		rows = append(rows, table.Row{e.Date, fmt.Sprintf("%+d", e.XP), fmt.Sprintf("%d", e.TasksCompleted)})
	}
	m.historyTable.SetRows(rows)
}

func (m *Model) clampCursors() {
	if len(m.state.Sections) == 0 {
		m.SectionCursor = 0
		m.TaskCursor = 0
		return
	}
	if m.SectionCursor >= len(m.state.Sections) {
		m.SectionCursor = len(m.state.Sections) - 1
	}
	if m.SectionCursor < 0 {
		m.SectionCursor = 0
	}
	tasks := m.state.Sections[m.SectionCursor].Tasks
	if m.TaskCursor >= len(tasks) {
		m.TaskCursor = len(tasks) - 1
	}
	if m.TaskCursor < 0 {
		m.TaskCursor = 0
	}
}
