package history

import "sort"

// Entry is the accumulated activity for one calendar day. XP and
// TasksCompleted are signed running deltas, not absolute totals.
type Entry struct {
	Date           string
	XP             int
	TasksCompleted int
}

// Ledger maps date keys to daily activity entries. Entries are created
// lazily on the first delta for a date and accumulated afterwards; they
// are never deleted. Corrections are recorded as further signed deltas.
type Ledger struct {
	entries []Entry
	index   map[string]int
}

func New() Ledger {
	return Ledger{index: make(map[string]int)}
}

// FromEntries rebuilds a ledger from a persisted snapshot. Duplicate
// dates are accumulated rather than rejected.
func FromEntries(entries []Entry) Ledger {
	l := New()
	for _, e := range entries {
		l.Upsert(e.Date, e.XP, e.TasksCompleted)
	}
	return l
}

// Upsert accumulates the deltas into the entry for date, creating the
// entry if this is the first delta for that date.
func (l *Ledger) Upsert(date string, xpDelta, tasksDelta int) {
	if l.index == nil {
		l.index = make(map[string]int)
	}
	if i, ok := l.index[date]; ok {
		l.entries[i].XP += xpDelta
		l.entries[i].TasksCompleted += tasksDelta
		return
	}
	l.index[date] = len(l.entries)
	l.entries = append(l.entries, Entry{Date: date, XP: xpDelta, TasksCompleted: tasksDelta})
}

// Entry returns the accumulated entry for date, if one exists.
func (l Ledger) Entry(date string) (Entry, bool) {
	i, ok := l.index[date]
	if !ok {
		return Entry{}, false
	}
	return l.entries[i], true
}

// Snapshot returns a copy of all entries ordered by date key. Date keys
// are ISO YYYY-MM-DD, so lexicographic order is chronological order.
func (l Ledger) Snapshot() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// XPTotal is the sum of all XP deltas since the ledger began.
func (l Ledger) XPTotal() int {
	total := 0
	for _, e := range l.entries {
		total += e.XP
	}
	return total
}

func (l Ledger) Len() int {
	return len(l.entries)
}

// Clone returns an independent copy. The ledger is embedded in the
// application state, which transitions treat as a value; nil-ness of
// the internals is preserved so clones compare equal to their source.
func (l Ledger) Clone() Ledger {
	var out Ledger
	if l.entries != nil {
		out.entries = make([]Entry, len(l.entries))
		copy(out.entries, l.entries)
	}
	if l.index != nil {
		out.index = make(map[string]int, len(l.index))
		for k, v := range l.index {
			out.index[k] = v
		}
	}
	return out
}
