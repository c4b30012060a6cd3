package engine

import "time"

type Kind string

const (
	KindToggleTask        Kind = "toggle_task"
	KindAddTask           Kind = "add_task"
	KindRemoveTask        Kind = "remove_task"
	KindAddSection        Kind = "add_section"
	KindUpdateSection     Kind = "update_section"
	KindRemoveSection     Kind = "remove_section"
	KindCheckOverdue      Kind = "check_overdue"
	KindApplyDailyPenalty Kind = "apply_daily_penalty"
	KindResetDaily        Kind = "reset_daily"
)

type ToggleTaskArgs struct {
	SectionID string
	TaskID    string
}

type AddTaskArgs struct {
	SectionID string
	Name      string
	XP        int
	DueAt     *time.Time
}

type RemoveTaskArgs struct {
	SectionID string
	TaskID    string
}

type AddSectionArgs struct {
	Name     string
	Icon     string
	ColorTag string
}

type UpdateSectionArgs struct {
	SectionID string
	Name      string
	Icon      string
}

type RemoveSectionArgs struct {
	SectionID string
}

// Command is the closed set of state transitions. Exactly the args
// pointer matching Kind is populated; the timer-driven kinds carry none.
type Command struct {
	Kind          Kind
	ToggleTask    *ToggleTaskArgs
	AddTask       *AddTaskArgs
	RemoveTask    *RemoveTaskArgs
	AddSection    *AddSectionArgs
	UpdateSection *UpdateSectionArgs
	RemoveSection *RemoveSectionArgs
}

func ToggleTask(sectionID, taskID string) Command {
	return Command{Kind: KindToggleTask, ToggleTask: &ToggleTaskArgs{SectionID: sectionID, TaskID: taskID}}
}

func AddTask(sectionID, name string, xp int, dueAt *time.Time) Command {
	return Command{Kind: KindAddTask, AddTask: &AddTaskArgs{SectionID: sectionID, Name: name, XP: xp, DueAt: dueAt}}
}

func RemoveTask(sectionID, taskID string) Command {
	return Command{Kind: KindRemoveTask, RemoveTask: &RemoveTaskArgs{SectionID: sectionID, TaskID: taskID}}
}

func AddSection(name, icon, colorTag string) Command {
	return Command{Kind: KindAddSection, AddSection: &AddSectionArgs{Name: name, Icon: icon, ColorTag: colorTag}}
}

func UpdateSection(sectionID, name, icon string) Command {
	return Command{Kind: KindUpdateSection, UpdateSection: &UpdateSectionArgs{SectionID: sectionID, Name: name, Icon: icon}}
}

func RemoveSection(sectionID string) Command {
	return Command{Kind: KindRemoveSection, RemoveSection: &RemoveSectionArgs{SectionID: sectionID}}
}

func CheckOverdue() Command { return Command{Kind: KindCheckOverdue} }

func ApplyDailyPenalty() Command { return Command{Kind: KindApplyDailyPenalty} }

func ResetDaily() Command { return Command{Kind: KindResetDaily} }
