package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lvlup-app/lvlup/internal/commands"
	"github.com/lvlup-app/lvlup/internal/model"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.Palette = CommandPaletteState{}
		m.commandInput.Blur()
		m.Status = StatusBar{}
		return m, nil
	case "enter":
		input := m.commandInput.Value()
		m.Palette = CommandPaletteState{}
		m.commandInput.Blur()
		result, err := m.executePalette(input)
		if err != nil {
			m.Status = StatusBar{Text: "error: " + err.Error(), IsError: true}
			return m, nil
		}
		m.Status = StatusBar{Text: result.Message}
		return m, nil
	}

	var cmd tea.Cmd
	m.commandInput, cmd = m.commandInput.Update(msg)
	m.Palette.Input = m.commandInput.Value()
	return m, cmd
}

func (m Model) executePalette(input string) (commands.Result, error) {
	cmd, err := commands.Parse(input)
	if err != nil {
		return commands.Result{}, err
	}
	return commands.Execute(cmd, commands.Handlers{
		Toggle: func(args commands.ToggleArgs) (commands.Result, error) {
			section, task, err := m.resolveTask(args.Section, args.Task)
			if err != nil {
				return commands.Result{}, err
			}
			m.Session.ToggleTask(section.ID, task.ID)
			return commands.Result{Message: fmt.Sprintf("toggled %q", task.Name)}, nil
		},
		Add: func(args commands.AddArgs) (commands.Result, error) {
			section, err := m.resolveSection(args.Section)
			if err != nil {
				return commands.Result{}, err
			}
			m.Session.AddTask(section.ID, args.Name, args.XP, args.DueAt)
			return commands.Result{Message: fmt.Sprintf("added %q to %s", args.Name, section.Name)}, nil
		},
		Remove: func(args commands.RemoveArgs) (commands.Result, error) {
			section, task, err := m.resolveTask(args.Section, args.Task)
			if err != nil {
				return commands.Result{}, err
			}
			m.Session.RemoveTask(section.ID, task.ID)
			return commands.Result{Message: fmt.Sprintf("removed %q", task.Name)}, nil
		},
		Section: func(args commands.SectionArgs) (commands.Result, error) {
			m.Session.AddSection(args.Name, args.Icon)
			return commands.Result{Message: fmt.Sprintf("added section %q", args.Name)}, nil
		},
		Rename: func(args commands.RenameArgs) (commands.Result, error) {
			section, err := m.resolveSection(args.Section)
			if err != nil {
				return commands.Result{}, err
			}
			icon := args.Icon
			if icon == "" {
				icon = section.Icon
			}
			m.Session.UpdateSection(section.ID, args.Name, icon)
			return commands.Result{Message: fmt.Sprintf("renamed %q to %q", section.Name, args.Name)}, nil
		},
		RemoveSection: func(args commands.RemoveSectionArgs) (commands.Result, error) {
			section, err := m.resolveSection(args.Section)
			if err != nil {
				return commands.Result{}, err
			}
			m.Session.RemoveSection(section.ID)
			return commands.Result{Message: fmt.Sprintf("removed section %q", section.Name)}, nil
		},
		Reset: func() (commands.Result, error) {
			m.Session.ResetDaily()
			return commands.Result{Message: "daily completion reset"}, nil
		},
	})
}

// resolveSection matches by id, exact name, then unique name prefix,
// case-insensitively.
func (m Model) resolveSection(ref string) (model.Section, error) {
	lower := strings.ToLower(ref)
	var prefix []model.Section
	for _, section := range m.state.Sections {
		if section.ID == ref || strings.ToLower(section.Name) == lower {
			return section, nil
		}
		if strings.HasPrefix(strings.ToLower(section.Name), lower) {
			prefix = append(prefix, section)
		}
	}
	if len(prefix) == 1 {
		return prefix[0], nil
	}
	if len(prefix) > 1 {
		return model.Section{}, fmt.Errorf("section %q is ambiguous", ref)
	}
	return model.Section{}, fmt.Errorf("no section matches %q", ref)
}

func (m Model) resolveTask(sectionRef, taskRef string) (model.Section, model.Task, error) {
	section, err := m.resolveSection(sectionRef)
	if err != nil {
		return model.Section{}, model.Task{}, err
	}
	lower := strings.ToLower(taskRef)
	var prefix []model.Task
	for _, task := range section.Tasks {
		if task.ID == taskRef || strings.ToLower(task.Name) == lower {
			return section, task, nil
		}
		if strings.HasPrefix(strings.ToLower(task.Name), lower) {
			prefix = append(prefix, task)
		}
	}
	if len(prefix) == 1 {
		return section, prefix[0], nil
	}
	if len(prefix) > 1 {
		return model.Section{}, model.Task{}, fmt.Errorf("task %q is ambiguous in %s", taskRef, section.Name)
	}
	return model.Section{}, model.Task{}, fmt.Errorf("no task matches %q in %s", taskRef, section.Name)
}
