package timer

import (
	"fmt"
	"sync"
	"time"

	"github.com/momentum-md/momentum/internal/core/model"
	"github.com/momentum-md/momentum/internal/util"
)

// SaveFunc persists the active timer; nil means the idle state. A returned
// error triggers rollback of the in-memory transition.
type SaveFunc func(state *model.ActiveTimerState) error

// Listener receives timer snapshots on every state change and tick.
type Listener func(snapshot model.TimerSnapshot)

// Options configures a Service.
type Options struct {
	InitialTimer *model.ActiveTimerState
	Save         SaveFunc
	Now          func() time.Time // defaults to time.Now
	TickInterval time.Duration    // defaults to one second
}

// Service owns the single active-timer slot. It applies transitions in memory
// and notifies subscribers before awaiting persistence; a failed save rolls
// the transition back, notifies again, and returns the error, so callers never
// observe a ghost timer.
type Service struct {
	mu           sync.Mutex
	activeTimer  *model.ActiveTimerState
	save         SaveFunc
	now          func() time.Time
	tickInterval time.Duration

	listeners  map[int]Listener
	nextListen int

	tickStop chan struct{}
	tickWG   sync.WaitGroup
}

// NewService creates a timer service seeded with persisted state. A restored
// running timer resumes ticking immediately.
func NewService(opts Options) *Service {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	interval := opts.TickInterval
	if interval <= 0 {
		interval = time.Second
	}

	s := &Service{
		activeTimer:  opts.InitialTimer,
		save:         opts.Save,
		now:          now,
		tickInterval: interval,
		listeners:    make(map[int]Listener),
	}

	s.mu.Lock()
	s.syncTickerLocked()
	s.mu.Unlock()

	return s
}

// ActiveTimer returns the current active timer, or nil when idle.
func (s *Service) ActiveTimer() *model.ActiveTimerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeTimer
}

// IsRunning reports whether a timer is currently active.
func (s *Service) IsRunning() bool {
	return s.ActiveTimer() != nil
}

// Snapshot returns the current timer view with elapsed milliseconds.
func (s *Service) Snapshot() model.TimerSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked(s.nowMs())
}

// Subscribe registers a listener, emits the current snapshot to it
// immediately, and returns an unsubscribe function.
func (s *Service) Subscribe(listener Listener) func() {
	s.mu.Lock()
	id := s.nextListen
	s.nextListen++
	s.listeners[id] = listener
	snapshot := s.snapshotLocked(s.nowMs())
	s.mu.Unlock()

	emit(listener, snapshot)

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// Start begins a new timer. Returns false without error when a timer is
// already running. Backdated starts are clamped so they never sit in the future.
func (s *Service) Start(input model.TimerStartInput) (bool, error) {
	s.mu.Lock()
	if s.activeTimer != nil {
		s.mu.Unlock()
		return false, nil
	}

	now := s.nowMs()
	startedAt := now
	if input.StartedAtMs > 0 && input.StartedAtMs < now {
		startedAt = input.StartedAtMs
	}

	next := &model.ActiveTimerState{
		ProjectPath: input.ProjectPath,
		ProjectName: input.ProjectName,
		StartedAt:   startedAt,
	}

	s.activeTimer = next
	s.syncTickerLocked()
	s.mu.Unlock()
	s.broadcast()

	if err := s.save(next); err != nil {
		s.mu.Lock()
		s.activeTimer = nil
		s.syncTickerLocked()
		s.mu.Unlock()
		s.broadcast()
		return false, fmt.Errorf("persist timer start: %w", err)
	}

	return true, nil
}

// AdjustStart replaces the start timestamp of the running timer, clamped to
// now. Returns false without error when idle.
func (s *Service) AdjustStart(startedAtMs int64) (bool, error) {
	s.mu.Lock()
	previous := s.activeTimer
	if previous == nil {
		s.mu.Unlock()
		return false, nil
	}

	now := s.nowMs()
	if startedAtMs <= 0 || startedAtMs > now {
		startedAtMs = now
	}

	next := &model.ActiveTimerState{
		ProjectPath: previous.ProjectPath,
		ProjectName: previous.ProjectName,
		StartedAt:   startedAtMs,
	}

	s.activeTimer = next
	s.mu.Unlock()
	s.broadcast()

	if err := s.save(next); err != nil {
		s.mu.Lock()
		s.activeTimer = previous
		s.mu.Unlock()
		s.broadcast()
		return false, fmt.Errorf("persist timer adjustment: %w", err)
	}

	return true, nil
}

// StopDetails computes the derived stop view without mutating state.
// Returns nil when idle. A zero stoppedAtMs means "now".
func (s *Service) StopDetails(stoppedAtMs int64) *model.TimerStopDetails {
	s.mu.Lock()
	active := s.activeTimer
	if stoppedAtMs <= 0 {
		stoppedAtMs = s.nowMs()
	}
	s.mu.Unlock()

	if active == nil {
		return nil
	}

	elapsedMs := stoppedAtMs - active.StartedAt
	if elapsedMs < 0 {
		elapsedMs = 0
	}

	// Round half up, never below one logged minute.
	durationMinutes := int((elapsedMs + 30_000) / 60_000)
	if durationMinutes < 1 {
		durationMinutes = 1
	}

	return &model.TimerStopDetails{
		ActiveTimer:     *active,
		StartedAt:       time.UnixMilli(active.StartedAt),
		StoppedAt:       time.UnixMilli(stoppedAtMs),
		ElapsedMs:       elapsedMs,
		DurationMinutes: durationMinutes,
	}
}

// Clear drops the active timer and persists the idle state. Returns the
// cleared timer on success and nil when nothing was running.
func (s *Service) Clear() (*model.ActiveTimerState, error) {
	s.mu.Lock()
	previous := s.activeTimer
	if previous == nil {
		s.mu.Unlock()
		return nil, nil
	}

	s.activeTimer = nil
	s.syncTickerLocked()
	s.mu.Unlock()
	s.broadcast()

	if err := s.save(nil); err != nil {
		s.mu.Lock()
		s.activeTimer = previous
		s.syncTickerLocked()
		s.mu.Unlock()
		s.broadcast()
		return nil, fmt.Errorf("persist timer clear: %w", err)
	}

	return previous, nil
}

// Dispose stops the tick goroutine and drops all listeners.
func (s *Service) Dispose() {
	s.mu.Lock()
	s.activeTimer = nil
	s.syncTickerLocked()
	s.listeners = make(map[int]Listener)
	s.mu.Unlock()
	s.tickWG.Wait()
}

func (s *Service) nowMs() int64 {
	return s.now().UnixMilli()
}

func (s *Service) snapshotLocked(now int64) model.TimerSnapshot {
	var elapsed int64
	if s.activeTimer != nil {
		elapsed = now - s.activeTimer.StartedAt
		if elapsed < 0 {
			elapsed = 0
		}
	}
	return model.TimerSnapshot{ActiveTimer: s.activeTimer, Now: now, ElapsedMs: elapsed}
}

// broadcast emits the current snapshot to all listeners. The listener set is
// copied under the lock but delivery happens outside it, so a subscriber may
// call back into the service without deadlocking.
func (s *Service) broadcast() {
	s.mu.Lock()
	snapshot := s.snapshotLocked(s.nowMs())
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	for _, listener := range listeners {
		emit(listener, snapshot)
	}
}

// syncTickerLocked keeps the tick goroutine alive iff a timer is running.
// Callers hold s.mu.
func (s *Service) syncTickerLocked() {
	if s.activeTimer != nil && s.tickStop == nil {
		stop := make(chan struct{})
		s.tickStop = stop
		s.tickWG.Add(1)
		go s.runTicker(stop)
	}

	if s.activeTimer == nil && s.tickStop != nil {
		close(s.tickStop)
		s.tickStop = nil
	}
}

func (s *Service) runTicker(stop chan struct{}) {
	defer s.tickWG.Done()
	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			s.broadcast()
		}
	}
}

// emit isolates listener panics so one faulty subscriber cannot break
// delivery to the others or to the caller that triggered the change.
func emit(listener Listener, snapshot model.TimerSnapshot) {
	defer func() {
		if r := recover(); r != nil {
			util.LogErrorf("timer listener panicked: %v", r)
		}
	}()
	listener(snapshot)
}
