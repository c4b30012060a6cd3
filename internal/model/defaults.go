package model

import "github.com/lvlup-app/lvlup/internal/history"

// DefaultSections returns the stock sections a fresh account starts
// with. Returned values are freshly allocated and safe to mutate.
func DefaultSections() []Section {
	return []Section{
		{
			ID:       "career",
			Name:     "Career",
			Icon:     "💼",
			ColorTag: "career",
			Tasks: []Task{
				{ID: "c1", Name: "Deep work session (2+ hours)", XP: 20},
				{ID: "c2", Name: "Learn something new", XP: 15},
				{ID: "c3", Name: "Networking/outreach", XP: 10},
			},
		},
		{
			ID:       "health",
			Name:     "Health",
			Icon:     "❤️",
			ColorTag: "health",
			Tasks: []Task{
				{ID: "h1", Name: "Exercise (30+ min)", XP: 20},
				{ID: "h2", Name: "Healthy meals all day", XP: 15},
				{ID: "h3", Name: "Sleep 7+ hours", XP: 15},
				{ID: "h4", Name: "Meditation/mindfulness", XP: 10},
			},
		},
		{
			ID:       "creativity",
			Name:     "Creativity",
			Icon:     "🎨",
			ColorTag: "creativity",
			Tasks: []Task{
				{ID: "cr1", Name: "Creative project work", XP: 15},
				{ID: "cr2", Name: "Read for 30+ min", XP: 10},
				{ID: "cr3", Name: "Journal/reflect", XP: 10},
			},
		},
	}
}

// NewState builds a pristine state for the given date key: default
// sections, zero XP, empty history.
func NewState(today string) AppState {
	return AppState{
		Level:          1,
		Sections:       DefaultSections(),
		LastActiveDate: today,
		History:        history.New(),
	}
}
