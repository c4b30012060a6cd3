package update

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lvlup-app/lvlup/internal/model"
)

func (m Model) handleBoardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		m.moveTaskCursor(1)
	case "k", "up":
		m.moveTaskCursor(-1)
	case "J", "tab":
		m.moveSectionCursor(1)
	case "K", "shift+tab":
		m.moveSectionCursor(-1)
	case " ", "enter":
		if section, task, ok := m.selectedTask(); ok {
			m.Session.ToggleTask(section.ID, task.ID)
			m.Status = StatusBar{Text: fmt.Sprintf("toggled %q", task.Name)}
		}
	case "a":
		if section, ok := m.selectedSection(); ok {
			m.AddingTask = true
			m.quickAddInput.SetValue("")
			m.quickAddInput.Focus()
			m.Status = StatusBar{Text: fmt.Sprintf("adding task to %s", section.Name)}
		}
	case "d":
		if section, task, ok := m.selectedTask(); ok {
			m.Session.RemoveTask(section.ID, task.ID)
			m.Status = StatusBar{Text: fmt.Sprintf("removed %q", task.Name)}
		}
	}
	return m, nil
}

func (m Model) handleQuickAddKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.AddingTask = false
		m.quickAddInput.Blur()
		m.Status = StatusBar{}
		return m, nil
	case "enter":
		m.AddingTask = false
		m.quickAddInput.Blur()
		section, ok := m.selectedSection()
		if !ok {
			return m, nil
		}
		name, xp, dueAt, err := parseQuickAdd(m.quickAddInput.Value())
		if err != nil {
			m.Status = StatusBar{Text: "error: " + err.Error(), IsError: true}
			return m, nil
		}
		m.Session.AddTask(section.ID, name, xp, dueAt)
		m.Status = StatusBar{Text: fmt.Sprintf("added %q (+%d xp)", name, xp)}
		return m, nil
	}

	var cmd tea.Cmd
	m.quickAddInput, cmd = m.quickAddInput.Update(msg)
	return m, cmd
}

// parseQuickAdd reads "name words xp:N due:RFC3339"; xp defaults to 10.
func parseQuickAdd(input string) (string, int, *time.Time, error) {
	xp := 10
	var dueAt *time.Time
	words := make([]string, 0)
	for _, token := range strings.Fields(input) {
		lower := strings.ToLower(token)
		switch {
		case strings.HasPrefix(lower, "xp:"):
			parsed, err := strconv.Atoi(strings.TrimPrefix(lower, "xp:"))
			if err != nil || parsed <= 0 {
				return "", 0, nil, fmt.Errorf("xp must be a positive integer")
			}
			xp = parsed
		case strings.HasPrefix(lower, "due:"):
			at, err := time.Parse(time.RFC3339, strings.TrimPrefix(token, "due:"))
			if err != nil {
				return "", 0, nil, fmt.Errorf("due must be RFC3339")
			}
			dueAt = &at
		default:
			words = append(words, token)
		}
	}
	name := strings.TrimSpace(strings.Join(words, " "))
	if name == "" {
		return "", 0, nil, fmt.Errorf("task name is required")
	}
	return name, xp, dueAt, nil
}

func (m *Model) moveTaskCursor(delta int) {
	section, ok := m.selectedSection()
	if !ok || len(section.Tasks) == 0 {
		return
	}
	m.TaskCursor += delta
	if m.TaskCursor < 0 {
		m.TaskCursor = 0
	}
	if m.TaskCursor >= len(section.Tasks) {
		m.TaskCursor = len(section.Tasks) - 1
	}
}

func (m *Model) moveSectionCursor(delta int) {
	if len(m.state.Sections) == 0 {
		return
	}
	m.SectionCursor += delta
	if m.SectionCursor < 0 {
		m.SectionCursor = 0
	}
	if m.SectionCursor >= len(m.state.Sections) {
		m.SectionCursor = len(m.state.Sections) - 1
	}
	m.TaskCursor = 0
}

func (m Model) selectedSection() (model.Section, bool) {
	if m.SectionCursor < 0 || m.SectionCursor >= len(m.state.Sections) {
		return model.Section{}, false
	}
	return m.state.Sections[m.SectionCursor], true
}

func (m Model) selectedTask() (model.Section, model.Task, bool) {
	section, ok := m.selectedSection()
	if !ok {
		return model.Section{}, model.Task{}, false
	}
	if m.TaskCursor < 0 || m.TaskCursor >= len(section.Tasks) {
		return model.Section{}, model.Task{}, false
	}
	return section, section.Tasks[m.TaskCursor], true
}
