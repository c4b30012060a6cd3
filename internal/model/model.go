package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lvlup-app/lvlup/internal/history"
)

var (
	ErrInvalidXPValue  = errors.New("model: task xp value must be positive")
	ErrDuplicateID     = errors.New("model: duplicate id")
	ErrDerivedMismatch = errors.New("model: level/currentXP inconsistent with totalXP")
)

// Task is a single completable item. DueAt nil means the task is due by
// end of the current calendar day; an explicit instant is only set when
// the user picks a non-default deadline.
type Task struct {
	ID        string
	Name      string
	XP        int
	Completed bool
	DueAt     *time.Time
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("model: task id is required")
	}
	if strings.TrimSpace(t.Name) == "" {
		return errors.New("model: task name is required")
	}
	if t.XP <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidXPValue, t.XP)
	}
	return nil
}

func (t Task) Clone() Task {
	out := t
	if t.DueAt != nil {
		due := *t.DueAt
		out.DueAt = &due
	}
	return out
}

// Section owns an ordered list of tasks. Removing a section cascades to
// its tasks.
type Section struct {
	ID       string
	Name     string
	Icon     string
	ColorTag string
	Tasks    []Task
}

func (s Section) Validate() error {
	if strings.TrimSpace(s.ID) == "" {
		return errors.New("model: section id is required")
	}
	if strings.TrimSpace(s.Name) == "" {
		return errors.New("model: section name is required")
	}
	seen := make(map[string]struct{}, len(s.Tasks))
	for _, task := range s.Tasks {
		if err := task.Validate(); err != nil {
			return err
		}
		if _, dup := seen[task.ID]; dup {
			return fmt.Errorf("%w: task %q in section %q", ErrDuplicateID, task.ID, s.ID)
		}
		seen[task.ID] = struct{}{}
	}
	return nil
}

func (s Section) Clone() Section {
	out := s
	if s.Tasks != nil {
		out.Tasks = make([]Task, len(s.Tasks))
		for i, task := range s.Tasks {
			out.Tasks[i] = task.Clone()
		}
	}
	return out
}

// AppState is the root aggregate. Level and CurrentXP are derived from
// TotalXP and recomputed after every XP-changing transition.
type AppState struct {
	TotalXP        int
	Level          int
	CurrentXP      int
	Streak         int
	Sections       []Section
	LastActiveDate string
	History        history.Ledger
}

func (st AppState) Validate() error {
	if st.TotalXP < 0 {
		return errors.New("model: totalXP must be non-negative")
	}
	if st.Level != st.TotalXP/100+1 || st.CurrentXP != st.TotalXP%100 {
		return fmt.Errorf("%w: totalXP=%d level=%d currentXP=%d", ErrDerivedMismatch, st.TotalXP, st.Level, st.CurrentXP)
	}
	seen := make(map[string]struct{}, len(st.Sections))
	for _, section := range st.Sections {
		if err := section.Validate(); err != nil {
			return err
		}
		if _, dup := seen[section.ID]; dup {
			return fmt.Errorf("%w: section %q", ErrDuplicateID, section.ID)
		}
		seen[section.ID] = struct{}{}
	}
	return nil
}

func (st AppState) Clone() AppState {
	out := st
	if st.Sections != nil {
		out.Sections = make([]Section, len(st.Sections))
		for i, section := range st.Sections {
			out.Sections[i] = section.Clone()
		}
	}
	out.History = st.History.Clone()
	return out
}

// SectionIndex returns the position of the section with the given id,
// or -1 when absent.
func (st AppState) SectionIndex(sectionID string) int {
	for i, section := range st.Sections {
		if section.ID == sectionID {
			return i
		}
	}
	return -1
}

// TaskIndex returns the position of the task within the section, or -1.
func (s Section) TaskIndex(taskID string) int {
	for i, task := range s.Tasks {
		if task.ID == taskID {
			return i
		}
	}
	return -1
}
