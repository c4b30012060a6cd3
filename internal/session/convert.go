package session

import (
	"github.com/lvlup-app/lvlup/internal/engine"
	"github.com/lvlup-app/lvlup/internal/history"
	"github.com/lvlup-app/lvlup/internal/model"
	"github.com/lvlup-app/lvlup/internal/storage"
)

// stateFromSnapshot rebuilds engine state from a persisted snapshot.
// Level and currentXP are rederived from totalXP rather than trusted,
// and the last-active date restarts at today: day accounting for the
// gap is the rollover sweep's job, not the loader's.
func stateFromSnapshot(snap storage.Snapshot, today string) model.AppState {
	totalXP := snap.TotalXP
	if totalXP < 0 {
		totalXP = 0
	}

	sections := make([]model.Section, 0, len(snap.Sections))
	for _, sec := range snap.Sections {
		tasks := make([]model.Task, 0, len(sec.Tasks))
		for _, task := range sec.Tasks {
			mt := model.Task{ID: task.ID, Name: task.Name, XP: task.XP, Completed: task.Completed}
			if task.DueAt != nil {
				due := *task.DueAt
				mt.DueAt = &due
			}
			tasks = append(tasks, mt)
		}
		sections = append(sections, model.Section{
			ID:       sec.ID,
			Name:     sec.Name,
			Icon:     sec.Icon,
			ColorTag: sec.ColorTag,
			Tasks:    tasks,
		})
	}
	if len(sections) == 0 {
		sections = model.DefaultSections()
	}

	entries := make([]history.Entry, 0, len(snap.History))
	for _, h := range snap.History {
		entries = append(entries, history.Entry{Date: h.Date, XP: h.XP, TasksCompleted: h.TasksCompleted})
	}

	return model.AppState{
		TotalXP:        totalXP,
		Level:          engine.LevelForTotalXP(totalXP),
		CurrentXP:      engine.CurrentXPForTotal(totalXP),
		Streak:         snap.Streak,
		Sections:       sections,
		LastActiveDate: today,
		History:        history.FromEntries(entries),
	}
}

func snapshotFromState(st model.AppState) storage.Snapshot {
	sections := make([]storage.SectionRecord, 0, len(st.Sections))
	for _, sec := range st.Sections {
		tasks := make([]storage.TaskRecord, 0, len(sec.Tasks))
		for _, task := range sec.Tasks {
			tr := storage.TaskRecord{ID: task.ID, Name: task.Name, XP: task.XP, Completed: task.Completed}
			if task.DueAt != nil {
				due := *task.DueAt
				tr.DueAt = &due
			}
			tasks = append(tasks, tr)
		}
		sections = append(sections, storage.SectionRecord{
			ID:       sec.ID,
			Name:     sec.Name,
			Icon:     sec.Icon,
			ColorTag: sec.ColorTag,
			Tasks:    tasks,
		})
	}

	entries := st.History.Snapshot()
	hist := make([]storage.HistoryRecord, 0, len(entries))
	for _, e := range entries {
		hist = append(hist, storage.HistoryRecord{Date: e.Date, XP: e.XP, TasksCompleted: e.TasksCompleted})
	}

	return storage.Snapshot{
		TotalXP:  st.TotalXP,
		Level:    st.Level,
		Streak:   st.Streak,
		Sections: sections,
		History:  hist,
	}
}
