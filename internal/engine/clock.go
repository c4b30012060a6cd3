package engine

import "time"

// DateKeyLayout is the calendar-day partition key format used by the
// history ledger and the rollover check.
const DateKeyLayout = "2006-01-02"

// Clock supplies wall-clock time to the engine and scheduler. It exists
// so transitions can be tested against a fixed or stepping clock.
type Clock interface {
	Now() time.Time
	Today() string
}

// SystemClock reads the real local wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

func (SystemClock) Today() string { return time.Now().Format(DateKeyLayout) }

// DateKey formats an instant as the calendar-day key in its location.
func DateKey(t time.Time) string { return t.Format(DateKeyLayout) }
