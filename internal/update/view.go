package update

import (
	"fmt"

	"github.com/lvlup-app/lvlup/internal/engine"
	"github.com/lvlup-app/lvlup/internal/views"
)

func (m Model) View() string {
	if m.Quitting {
		return "bye\n"
	}

	var left string
	switch m.CurrentView {
	case ViewCalendar:
		left = views.RenderCalendarPanel(views.CalendarPanelData{
			TableView: m.historyTable.View(),
			Days:      m.state.History.Len(),
		})
	default:
		left = views.RenderBoardPanel(m.boardPanelData())
	}
	if m.Palette.Active {
		left = views.RenderPalettePanel(views.PalettePanelData{InputView: m.commandInput.View()})
	}

	right := views.RenderStatsPanel(views.StatsPanelData{
		Level:       m.state.Level,
		CurrentXP:   m.state.CurrentXP,
		RequiredXP:  engine.XPPerLevel,
		TotalXP:     m.state.TotalXP,
		TodayXP:     engine.TodayXP(m.state),
		Streak:      m.state.Streak,
		ProgressBar: m.xpBar.ViewAs(float64(m.state.CurrentXP) / float64(engine.XPPerLevel)),
	})

	footer := m.helpModel.ShortHelpView(m.keyMap.ShortHelp())
	if m.HelpVisible {
		footer = views.RenderHelpPanel(views.HelpPanelData{HelpView: views.RenderMarkdown(helpMarkdown)})
	}

	return views.RenderApp(views.AppData{
		Header:     fmt.Sprintf("lvlup — level %d — %s", m.state.Level, m.state.LastActiveDate),
		LeftPane:   left,
		RightPane:  right,
		StatusLine: m.Status.Text,
		Footer:     footer,
	})
}

func (m Model) boardPanelData() views.BoardPanelData {
	sections := make([]views.BoardSectionData, 0, len(m.state.Sections))
	for si, section := range m.state.Sections {
		tasks := make([]views.BoardTaskData, 0, len(section.Tasks))
		for ti, task := range section.Tasks {
			due := ""
			if task.DueAt != nil {
				due = task.DueAt.Format("15:04")
			}
			tasks = append(tasks, views.BoardTaskData{
				ID:        task.ID,
				Name:      task.Name,
				XP:        task.XP,
				Completed: task.Completed,
				DueAt:     due,
				Selected:  si == m.SectionCursor && ti == m.TaskCursor,
			})
		}
		sections = append(sections, views.BoardSectionData{
			ID:       section.ID,
			Name:     section.Name,
			Icon:     section.Icon,
			Tasks:    tasks,
			Selected: si == m.SectionCursor,
		})
	}
	return views.BoardPanelData{
		Sections:     sections,
		QuickAddView: m.quickAddInput.View(),
		AddingTask:   m.AddingTask,
	}
}

const helpMarkdown = `# lvlup

Complete tasks to earn XP. Every 100 XP is a level. Incomplete tasks
cost their full XP at midnight; tasks with a deadline cost full XP the
moment the deadline passes. Deleting an unfinished task costs half.

## Keys

| Key | Action |
|-----|--------|
| j/k | move between tasks |
| J/K | move between sections |
| space | toggle task |
| a | add task to current section |
| d | remove selected task |
| / | command palette |
| 1/2 | board / activity view |
| q | quit |

## Palette

    toggle <section> <task>
    add <section> <name> [xp:N] [due:RFC3339]
    rm <section> <task>
    section <name> [icon:X]
    rename <section> <name> [icon:X]
    rmsection <section>
    reset
`
