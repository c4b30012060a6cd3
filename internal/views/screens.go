package views

import (
	"fmt"
	"strings"
)

type BoardTaskData struct {
	ID        string
	Name      string
	XP        int
	Completed bool
	DueAt     string
	Selected  bool
}

type BoardSectionData struct {
	ID       string
	Name     string
	Icon     string
	Tasks    []BoardTaskData
	Selected bool
}

type BoardPanelData struct {
	Sections     []BoardSectionData
	QuickAddView string
	AddingTask   bool
}

type StatsPanelData struct {
	Level       int
	CurrentXP   int
	RequiredXP  int
	TotalXP     int
	TodayXP     int
	Streak      int
	ProgressBar string
}

type CalendarPanelData struct {
	TableView string
	Days      int
}

type PalettePanelData struct {
	InputView string
}

type HelpPanelData struct {
	HelpView string
}

func RenderBoardPanel(data BoardPanelData) string {
	var b strings.Builder
	b.WriteString("board:\n")
	b.WriteString("actions: [j/k]task [J/K]section [space]toggle [a]add [d]remove [/]palette\n")
	for _, section := range data.Sections {
		cursor := " "
		if section.Selected {
			cursor = ">"
		}
		b.WriteString(fmt.Sprintf("%s %s %s\n", cursor, section.Icon, section.Name))
		for _, task := range section.Tasks {
			b.WriteString("  " + renderBoardTask(task) + "\n")
		}
		if len(section.Tasks) == 0 {
			b.WriteString("  (no tasks)\n")
		}
	}
	if data.AddingTask {
		b.WriteString("\nnew task (name [xp:N] [due:RFC3339]):\n")
		b.WriteString(data.QuickAddView + "\n")
	}
	return strings.TrimSpace(b.String())
}

func renderBoardTask(task BoardTaskData) string {
	cursor := " "
	if task.Selected {
		cursor = ">"
	}
	box := "[ ]"
	name := task.Name
	if task.Completed {
		box = "[x]"
		name = doneStyle.Render(name)
	}
	line := fmt.Sprintf("%s %s %s %s", cursor, box, name, xpStyle.Render(fmt.Sprintf("+%d", task.XP)))
	if task.DueAt != "" {
		line += " due " + task.DueAt
	}
	return line
}

func RenderStatsPanel(data StatsPanelData) string {
	var b strings.Builder
	b.WriteString("stats:\n")
	b.WriteString(fmt.Sprintf("level: %d\n", data.Level))
	b.WriteString(fmt.Sprintf("xp: %d/%d\n", data.CurrentXP, data.RequiredXP))
	b.WriteString(data.ProgressBar + "\n")
	b.WriteString(fmt.Sprintf("total xp: %d\n", data.TotalXP))
	b.WriteString(fmt.Sprintf("today xp: %d\n", data.TodayXP))
	b.WriteString(fmt.Sprintf("streak: %d\n", data.Streak))
	return strings.TrimSpace(b.String())
}

func RenderCalendarPanel(data CalendarPanelData) string {
	var b strings.Builder
	b.WriteString("activity:\n")
	if data.Days == 0 {
		b.WriteString("(no history yet)")
		return b.String()
	}
	b.WriteString(data.TableView)
	return strings.TrimSpace(b.String())
}

func RenderPalettePanel(data PalettePanelData) string {
	var b strings.Builder
	b.WriteString("command:\n")
	b.WriteString(data.InputView + "\n")
	b.WriteString("verbs: toggle add rm section rename rmsection reset")
	return b.String()
}

func RenderHelpPanel(data HelpPanelData) string {
	return data.HelpView
}
