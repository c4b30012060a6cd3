package scheduler

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lvlup-app/lvlup/internal/engine"
)

var ErrInvalidPeriod = errors.New("scheduler: sweep period must be positive")

const (
	DefaultOverduePeriod  = 30 * time.Second
	DefaultRolloverPeriod = time.Minute
)

type SweepKind string

const (
	SweepOverdue  SweepKind = "overdue"
	SweepRollover SweepKind = "rollover"
)

// SweepEvent is a time-triggered request for a state transition. The
// consumer maps it onto CheckOverdue / ApplyDailyPenalty; both of those
// commands are idempotent, so an over-delivered sweep is harmless.
type SweepEvent struct {
	Kind SweepKind
	At   time.Time
}

// Engine owns the two periodic sweep timers. The overdue sweep fires
// unconditionally; the rollover sweep fires only when the clock's date
// key has moved past the state's last-active date, read through the
// injected provider. One rollover check also runs immediately at Start,
// covering a process that was dormant across midnight.
type Engine struct {
	clock          engine.Clock
	lastActive     func() string
	overduePeriod  time.Duration
	rolloverPeriod time.Duration

	mu      sync.Mutex
	out     chan SweepEvent
	stopCh  chan struct{}
	doneCh  chan struct{}
	started bool
	stopped bool
	dropped uint64
}

// NewEngine builds a stopped sweep engine. lastActive is called from the
// engine's own goroutine and must be safe for concurrent use.
func NewEngine(clock engine.Clock, lastActive func() string, overduePeriod, rolloverPeriod time.Duration, bufferSize int) (*Engine, error) {
	if overduePeriod <= 0 || rolloverPeriod <= 0 {
		return nil, ErrInvalidPeriod
	}
	if bufferSize <= 0 {
		bufferSize = 1
	}
	return &Engine{
		clock:          clock,
		lastActive:     lastActive,
		overduePeriod:  overduePeriod,
		rolloverPeriod: rolloverPeriod,
		out:            make(chan SweepEvent, bufferSize),
		stopCh:         make(chan struct{}),
		doneCh:         make(chan struct{}),
	}, nil
}

func (e *Engine) C() <-chan SweepEvent {
	return e.out
}

func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started {
		return
	}
	e.started = true
	go e.loop()
}

// Stop tears down both timers and waits for the loop to exit. After Stop
// returns no further sweep is emitted.
func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.started || e.stopped {
		e.mu.Unlock()
		return
	}
	e.stopped = true
	close(e.stopCh)
	e.mu.Unlock()
	<-e.doneCh
}

// Dropped counts sweeps discarded because the consumer lagged behind the
// buffer. Dropped sweeps are recovered by the next periodic fire.
func (e *Engine) Dropped() uint64 {
	return atomic.LoadUint64(&e.dropped)
}

func (e *Engine) loop() {
	defer close(e.doneCh)
	defer close(e.out)

	// Session-start rollover check before the first tick.
	e.checkRollover()

	overdue := time.NewTicker(e.overduePeriod)
	defer overdue.Stop()
	rollover := time.NewTicker(e.rolloverPeriod)
	defer rollover.Stop()

	for {
		select {
		case <-overdue.C:
			e.emit(SweepEvent{Kind: SweepOverdue, At: e.clock.Now()})
		case <-rollover.C:
			e.checkRollover()
		case <-e.stopCh:
			return
		}
	}
}

func (e *Engine) checkRollover() {
	if e.clock.Today() == e.lastActive() {
		return
	}
	e.emit(SweepEvent{Kind: SweepRollover, At: e.clock.Now()})
}

func (e *Engine) emit(ev SweepEvent) {
	select {
	case e.out <- ev:
	default:
		atomic.AddUint64(&e.dropped, 1)
	}
}
