package focus

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/tgienger/focusflow/internal/models"
)

// Recorder stores intervals that ran to completion
type Recorder interface {
	RecordSession(s models.FocusSession) error
}

// Service owns the process-wide timer. The countdown keeps running whatever
// screen is displayed; screens send commands and render published state.
type Service struct {
	mu       sync.Mutex
	timer    *Timer
	interval time.Duration
	recorder Recorder
	now      func() time.Time
	restart  chan struct{} // countdown went from paused to running

	subs   map[int]chan State
	nextID int
}

// Option configures a Service
type Option func(*Service)

// WithInterval sets how often the countdown ticks. Defaults to one second.
func WithInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithRecorder sets where finished sessions are written
func WithRecorder(r Recorder) Option {
	return func(s *Service) { s.recorder = r }
}

// WithClock overrides time.Now for session timestamps
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a service with an inactive work interval
func NewService(opts ...Option) *Service {
	s := &Service{
		timer:    NewTimer(),
		interval: time.Second,
		now:      time.Now,
		restart:  make(chan struct{}, 1),
		subs:     make(map[int]chan State),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run ticks the countdown until ctx is done. The first tick after a start
// or resume comes one full interval later.
func (s *Service) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.restart:
			ticker.Reset(s.interval)
		case <-ticker.C:
			s.mu.Lock()
			// a start that raced this tick wins
			select {
			case <-s.restart:
				s.mu.Unlock()
				ticker.Reset(s.interval)
				continue
			default:
			}
			s.tickLocked()
		}
	}
}

func (s *Service) tick() {
	s.mu.Lock()
	s.tickLocked()
}

// tickLocked advances the countdown. Caller holds s.mu; it is released
// before returning.
func (s *Service) tickLocked() {
	if !s.timer.Active() {
		s.mu.Unlock()
		return
	}
	expired := s.timer.Tick()
	state := s.timer.Snapshot()
	state.Expired = expired
	if !expired {
		s.publish(state)
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	// the session is in the ledger before subscribers hear about expiry
	s.record(state)

	s.mu.Lock()
	defer s.mu.Unlock()
	// a command may have run during the write
	current := s.timer.Snapshot()
	current.Expired = !current.Active && current.RemainingSeconds == 0
	s.publish(current)
}

func (s *Service) record(state State) {
	if s.recorder == nil {
		return
	}
	session := models.FocusSession{
		Mode:        string(state.Mode),
		TaskID:      state.TaskID,
		Duration:    state.Mode.Duration(),
		CompletedAt: s.now(),
	}
	if err := s.recorder.RecordSession(session); err != nil {
		log.Printf("focus: recording %s session: %v", state.Mode, err)
	}
}

// Start refills the current interval and begins counting down
func (s *Service) Start() {
	s.update(func(t *Timer) {
		t.Reset()
		t.Toggle()
	})
}

// Stop pauses the countdown, keeping the remaining time
func (s *Service) Stop() {
	s.update(func(t *Timer) {
		if t.Active() {
			t.Toggle()
		}
	})
}

// Resume continues a paused countdown
func (s *Service) Resume() {
	s.update(func(t *Timer) {
		if !t.Active() {
			t.Toggle()
		}
	})
}

// Toggle pauses a running countdown or resumes a paused one
func (s *Service) Toggle() {
	s.update((*Timer).Toggle)
}

// Reset stops and refills the current interval
func (s *Service) Reset() {
	s.update((*Timer).Reset)
}

// SwitchMode selects work or break and refills the interval
func (s *Service) SwitchMode(m Mode) {
	s.update(func(t *Timer) { t.SwitchMode(m) })
}

// SelectTask sets the task shown alongside the clock
func (s *Service) SelectTask(id string) {
	s.update(func(t *Timer) { t.SelectTask(id) })
}

// State returns the current snapshot
func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timer.Snapshot()
}

// Subscribe returns a channel of state snapshots and a cancel function.
// Only the latest snapshot is kept for a slow reader.
func (s *Service) Subscribe() (<-chan State, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	ch := make(chan State, 1)
	s.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subs, id)
			close(ch)
		})
	}
}

func (s *Service) update(fn func(*Timer)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	wasActive, before := s.timer.Active(), s.timer.RemainingSeconds()
	fn(s.timer)
	// started, resumed or refilled while running
	if s.timer.Active() && (!wasActive || s.timer.RemainingSeconds() > before) {
		select {
		case s.restart <- struct{}{}:
		default:
		}
	}
	s.publish(s.timer.Snapshot())
}

// publish hands state to every subscriber. Caller holds s.mu.
func (s *Service) publish(state State) {
	for _, ch := range s.subs {
		select {
		case <-ch:
		default:
		}
		ch <- state
	}
}
