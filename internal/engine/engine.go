package engine

import (
	"github.com/google/uuid"

	"github.com/lvlup-app/lvlup/internal/model"
)

// XPPerLevel is the flat cost of every level.
const XPPerLevel = 100

// LevelForTotalXP returns the level derived from cumulative XP.
func LevelForTotalXP(totalXP int) int {
	if totalXP < 0 {
		totalXP = 0
	}
	return totalXP/XPPerLevel + 1
}

// CurrentXPForTotal returns progress within the current level, in [0,100).
func CurrentXPForTotal(totalXP int) int {
	if totalXP < 0 {
		totalXP = 0
	}
	return totalXP % XPPerLevel
}

// TodayXP sums the XP of all currently-completed tasks.
func TodayXP(st model.AppState) int {
	total := 0
	for _, section := range st.Sections {
		for _, task := range section.Tasks {
			if task.Completed {
				total += task.XP
			}
		}
	}
	return total
}

func NewTaskID() string { return "task_" + uuid.NewString() }

func NewSectionID() string { return "section_" + uuid.NewString() }

// Transition computes the next state from the current state and one
// command. It is pure: the input state is never mutated, and unknown
// section/task ids make the command a no-op that returns the input
// unchanged. Every XP change is clamped at zero and the effective
// (post-clamp) delta is recorded in the ledger, so the sum of ledger
// deltas always equals the net XP change.
func Transition(st model.AppState, cmd Command, clock Clock) model.AppState {
	switch cmd.Kind {
	case KindToggleTask:
		return applyToggleTask(st, *cmd.ToggleTask, clock)
	case KindAddTask:
		return applyAddTask(st, *cmd.AddTask)
	case KindRemoveTask:
		return applyRemoveTask(st, *cmd.RemoveTask, clock)
	case KindAddSection:
		return applyAddSection(st, *cmd.AddSection)
	case KindUpdateSection:
		return applyUpdateSection(st, *cmd.UpdateSection)
	case KindRemoveSection:
		return applyRemoveSection(st, *cmd.RemoveSection, clock)
	case KindCheckOverdue:
		return applyCheckOverdue(st, clock)
	case KindApplyDailyPenalty:
		return applyDailyPenalty(st, clock)
	case KindResetDaily:
		return applyResetDaily(st, clock)
	default:
		return st
	}
}

// creditXP applies a signed XP delta, clamps the balance at zero,
// recomputes the derived level fields, and returns the delta that was
// actually applied.
func creditXP(st *model.AppState, delta int) int {
	next := st.TotalXP + delta
	if next < 0 {
		next = 0
	}
	applied := next - st.TotalXP
	st.TotalXP = next
	st.Level = LevelForTotalXP(next)
	st.CurrentXP = CurrentXPForTotal(next)
	return applied
}

func applyToggleTask(st model.AppState, args ToggleTaskArgs, clock Clock) model.AppState {
	si := st.SectionIndex(args.SectionID)
	if si < 0 {
		return st
	}
	ti := st.Sections[si].TaskIndex(args.TaskID)
	if ti < 0 {
		return st
	}

	next := st.Clone()
	task := &next.Sections[si].Tasks[ti]
	wasCompleted := task.Completed
	task.Completed = !wasCompleted

	delta := task.XP
	tasksDelta := 1
	if wasCompleted {
		delta = -task.XP
		tasksDelta = -1
	}
	applied := creditXP(&next, delta)
	next.History.Upsert(clock.Today(), applied, tasksDelta)
	return next
}

func applyAddTask(st model.AppState, args AddTaskArgs) model.AppState {
	si := st.SectionIndex(args.SectionID)
	if si < 0 {
		return st
	}
	next := st.Clone()
	task := model.Task{ID: NewTaskID(), Name: args.Name, XP: args.XP}
	if args.DueAt != nil {
		due := *args.DueAt
		task.DueAt = &due
	}
	next.Sections[si].Tasks = append(next.Sections[si].Tasks, task)
	return next
}

func applyRemoveTask(st model.AppState, args RemoveTaskArgs, clock Clock) model.AppState {
	si := st.SectionIndex(args.SectionID)
	if si < 0 {
		return st
	}
	ti := st.Sections[si].TaskIndex(args.TaskID)
	if ti < 0 {
		return st
	}

	next := st.Clone()
	task := next.Sections[si].Tasks[ti]
	next.Sections[si].Tasks = append(next.Sections[si].Tasks[:ti], next.Sections[si].Tasks[ti+1:]...)

	// Abandoning an incomplete task costs half its XP. Completed tasks
	// leave without penalty.
	if !task.Completed {
		if applied := creditXP(&next, -(task.XP / 2)); applied != 0 {
			next.History.Upsert(clock.Today(), applied, 0)
		}
	}
	return next
}

func applyAddSection(st model.AppState, args AddSectionArgs) model.AppState {
	next := st.Clone()
	colorTag := args.ColorTag
	if colorTag == "" {
		colorTag = "custom"
	}
	next.Sections = append(next.Sections, model.Section{
		ID:       NewSectionID(),
		Name:     args.Name,
		Icon:     args.Icon,
		ColorTag: colorTag,
		Tasks:    []model.Task{},
	})
	return next
}

func applyUpdateSection(st model.AppState, args UpdateSectionArgs) model.AppState {
	si := st.SectionIndex(args.SectionID)
	if si < 0 {
		return st
	}
	next := st.Clone()
	next.Sections[si].Name = args.Name
	next.Sections[si].Icon = args.Icon
	return next
}

func applyRemoveSection(st model.AppState, args RemoveSectionArgs, clock Clock) model.AppState {
	si := st.SectionIndex(args.SectionID)
	if si < 0 {
		return st
	}

	next := st.Clone()
	penalty := 0
	for _, task := range next.Sections[si].Tasks {
		if !task.Completed {
			penalty += task.XP / 2
		}
	}
	next.Sections = append(next.Sections[:si], next.Sections[si+1:]...)

	if penalty > 0 {
		if applied := creditXP(&next, -penalty); applied != 0 {
			next.History.Upsert(clock.Today(), applied, 0)
		}
	}
	return next
}

func applyCheckOverdue(st model.AppState, clock Clock) model.AppState {
	now := clock.Now()

	penalty := 0
	for _, section := range st.Sections {
		for _, task := range section.Tasks {
			if task.DueAt != nil && !task.Completed && task.DueAt.Before(now) {
				penalty += task.XP
			}
		}
	}
	if penalty == 0 {
		return st
	}

	next := st.Clone()
	for si := range next.Sections {
		for ti := range next.Sections[si].Tasks {
			task := &next.Sections[si].Tasks[ti]
			if task.DueAt != nil && !task.Completed && task.DueAt.Before(now) {
				// Marking the task completed and dropping its deadline is
				// the idempotency guard: a later sweep skips it.
				task.Completed = true
				task.DueAt = nil
			}
		}
	}
	if applied := creditXP(&next, -penalty); applied != 0 {
		next.History.Upsert(clock.Today(), applied, 0)
	}
	return next
}

func applyDailyPenalty(st model.AppState, clock Clock) model.AppState {
	today := clock.Today()
	// Self-guarding: at most one rollover per day boundary, no matter
	// how often the sweep fires.
	if st.LastActiveDate == today {
		return st
	}

	next := st.Clone()
	penalty := 0
	for si := range next.Sections {
		for ti := range next.Sections[si].Tasks {
			task := &next.Sections[si].Tasks[ti]
			if !task.Completed {
				penalty += task.XP
			}
			task.Completed = false
			task.DueAt = nil
		}
	}

	// The debit belongs to the day that ended, not the new day.
	if penalty > 0 && next.LastActiveDate != "" {
		if applied := creditXP(&next, -penalty); applied != 0 {
			next.History.Upsert(next.LastActiveDate, applied, 0)
		}
	}
	next.LastActiveDate = today
	return next
}

func applyResetDaily(st model.AppState, clock Clock) model.AppState {
	next := st.Clone()
	for si := range next.Sections {
		for ti := range next.Sections[si].Tasks {
			next.Sections[si].Tasks[ti].Completed = false
		}
	}
	next.LastActiveDate = clock.Today()
	return next
}
