package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"reflect"
	"sync"
	"time"

	"github.com/lvlup-app/lvlup/internal/engine"
	"github.com/lvlup-app/lvlup/internal/model"
	"github.com/lvlup-app/lvlup/internal/scheduler"
	"github.com/lvlup-app/lvlup/internal/storage"
)

const (
	defaultSweepBuffer = 8
	defaultCmdBuffer   = 64
	defaultLoadTimeout = 10 * time.Second
	defaultSaveTimeout = 5 * time.Second
)

type Config struct {
	Clock     engine.Clock
	Gateway   storage.Gateway // nil for guest mode
	AccountID string          // empty for guest mode
	Logger    *slog.Logger

	OverduePeriod  time.Duration
	RolloverPeriod time.Duration
	LoadTimeout    time.Duration
	SaveTimeout    time.Duration
}

// Session owns the application state. All transitions — user-initiated
// and timer-initiated — are applied one at a time by a single goroutine,
// so the pure transition function never runs concurrently with itself.
// Readers only ever see deep-copied snapshots.
type Session struct {
	clock     engine.Clock
	gateway   storage.Gateway
	accountID string
	logger    *slog.Logger

	loadTimeout time.Duration
	saveTimeout time.Duration

	sched *scheduler.Engine

	cmds      chan engine.Command
	stopCh    chan struct{}
	doneCh    chan struct{}
	saves     chan storage.Snapshot
	saverDone chan struct{}

	startOnce sync.Once
	stopOnce  sync.Once

	mu        sync.RWMutex
	published model.AppState
}

func New(cfg Config) (*Session, error) {
	if cfg.Clock == nil {
		cfg.Clock = engine.SystemClock{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.OverduePeriod <= 0 {
		cfg.OverduePeriod = scheduler.DefaultOverduePeriod
	}
	if cfg.RolloverPeriod <= 0 {
		cfg.RolloverPeriod = scheduler.DefaultRolloverPeriod
	}
	if cfg.LoadTimeout <= 0 {
		cfg.LoadTimeout = defaultLoadTimeout
	}
	if cfg.SaveTimeout <= 0 {
		cfg.SaveTimeout = defaultSaveTimeout
	}
	if cfg.AccountID != "" && cfg.Gateway == nil {
		return nil, errors.New("session: account requires a gateway")
	}

	s := &Session{
		clock:       cfg.Clock,
		gateway:     cfg.Gateway,
		accountID:   cfg.AccountID,
		logger:      cfg.Logger,
		loadTimeout: cfg.LoadTimeout,
		saveTimeout: cfg.SaveTimeout,
		cmds:        make(chan engine.Command, defaultCmdBuffer),
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
		saves:       make(chan storage.Snapshot, 1),
		saverDone:   make(chan struct{}),
	}

	// Account change means a fresh session, so state never leaks
	// between accounts: the pristine default state is published before
	// anything else can observe the session.
	s.published = model.NewState(s.clock.Today())

	sched, err := scheduler.NewEngine(s.clock, s.lastActiveDate, cfg.OverduePeriod, cfg.RolloverPeriod, defaultSweepBuffer)
	if err != nil {
		return nil, err
	}
	s.sched = sched
	return s, nil
}

// Start loads the saved snapshot (if any) and begins applying commands.
// Saves are structurally suppressed until the load has settled: the
// command loop performs the load as its first action and no save is
// issued before that point, so fresh defaults can never overwrite the
// remote copy.
func (s *Session) Start() {
	s.startOnce.Do(func() {
		if s.persistent() {
			go s.saver()
		} else {
			close(s.saverDone)
		}
		go s.loop()
	})
}

// Close tears down the sweep timers and the command loop. After Close
// returns, no timer-submitted command is applied.
func (s *Session) Close() {
	s.stopOnce.Do(func() {
		s.sched.Stop()
		close(s.stopCh)
		<-s.doneCh
		close(s.saves)
		<-s.saverDone
	})
}

// Snapshot returns a deep copy of the current state.
func (s *Session) Snapshot() model.AppState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.published.Clone()
}

// Fire-and-forget command surface. Observers see the result through
// Snapshot once the command has been applied.

func (s *Session) ToggleTask(sectionID, taskID string) {
	s.submit(engine.ToggleTask(sectionID, taskID))
}

func (s *Session) AddTask(sectionID, name string, xp int, dueAt *time.Time) {
	s.submit(engine.AddTask(sectionID, name, xp, dueAt))
}

func (s *Session) RemoveTask(sectionID, taskID string) {
	s.submit(engine.RemoveTask(sectionID, taskID))
}

func (s *Session) AddSection(name, icon string) {
	s.submit(engine.AddSection(name, icon, ""))
}

func (s *Session) UpdateSection(sectionID, name, icon string) {
	s.submit(engine.UpdateSection(sectionID, name, icon))
}

func (s *Session) RemoveSection(sectionID string) {
	s.submit(engine.RemoveSection(sectionID))
}

func (s *Session) ResetDaily() {
	s.submit(engine.ResetDaily())
}

func (s *Session) submit(cmd engine.Command) {
	select {
	case s.cmds <- cmd:
	case <-s.stopCh:
	}
}

func (s *Session) persistent() bool {
	return s.gateway != nil && s.accountID != ""
}

func (s *Session) lastActiveDate() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.published.LastActiveDate
}

func (s *Session) loop() {
	defer close(s.doneCh)

	state := model.NewState(s.clock.Today())
	if s.persistent() {
		state = s.loadInitial(state)
	}
	s.publish(state)

	// The scheduler starts only after the load has settled; its first
	// act is the session-start rollover check.
	s.sched.Start()

	for {
		select {
		case cmd := <-s.cmds:
			state = s.apply(state, cmd)
		case sweep, ok := <-s.sched.C():
			if !ok {
				continue
			}
			state = s.apply(state, sweepCommand(sweep))
		case <-s.stopCh:
			return
		}
	}
}

func (s *Session) loadInitial(defaults model.AppState) model.AppState {
	ctx, cancel := context.WithTimeout(context.Background(), s.loadTimeout)
	defer cancel()

	snap, ok, err := s.gateway.Load(ctx, s.accountID)
	if err != nil {
		// Load failure degrades to fresh defaults, never blocks usage.
		s.logger.Warn("snapshot load failed",
			slog.String("account", s.accountID),
			slog.String("error", err.Error()))
		return defaults
	}
	if !ok {
		return defaults
	}
	return stateFromSnapshot(snap, s.clock.Today())
}

func sweepCommand(sweep scheduler.SweepEvent) engine.Command {
	if sweep.Kind == scheduler.SweepRollover {
		return engine.ApplyDailyPenalty()
	}
	return engine.CheckOverdue()
}

func (s *Session) apply(state model.AppState, cmd engine.Command) model.AppState {
	next := engine.Transition(state, cmd, s.clock)
	// No-op transitions (unknown ids, nothing overdue, same-day
	// rollover) return the input unchanged; skip publish and save.
	if reflect.DeepEqual(next, state) {
		return state
	}
	s.publish(next)
	if s.persistent() {
		s.requestSave(snapshotFromState(next))
	}
	return next
}

func (s *Session) publish(state model.AppState) {
	clone := state.Clone()
	s.mu.Lock()
	s.published = clone
	s.mu.Unlock()
}

// requestSave hands the snapshot to the saver without blocking the
// command loop. A pending unsent snapshot is superseded, which keeps
// issued saves in commit order.
func (s *Session) requestSave(snap storage.Snapshot) {
	for {
		select {
		case s.saves <- snap:
			return
		default:
		}
		select {
		case <-s.saves:
		default:
		}
	}
}

func (s *Session) saver() {
	defer close(s.saverDone)
	for snap := range s.saves {
		ctx, cancel := context.WithTimeout(context.Background(), s.saveTimeout)
		err := s.gateway.Save(ctx, s.accountID, snap)
		cancel()
		if err != nil {
			// Best effort: the next successful save supersedes this one.
			s.logger.Warn("snapshot save failed",
				slog.String("account", s.accountID),
				slog.String("error", err.Error()))
		}
	}
}
