package shell

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/pthm-cable/menagerie/game"
)

// Scheduler errors.
var (
	ErrAlreadyRunning = errors.New("simulation is already running")
	ErrNotRunning     = errors.New("simulation is not running")
)

// Ticker runs one interaction per call.
type Ticker interface {
	RunOneTick() game.Outcome
}

// Scheduler drives a Ticker from one goroutine at a fixed interval.
type Scheduler struct {
	target Ticker

	mu       sync.Mutex
	cancel   context.CancelFunc
	done     chan struct{}
	interval time.Duration
}

// NewScheduler creates a stopped scheduler for target.
func NewScheduler(target Ticker) *Scheduler {
	return &Scheduler{target: target}
}

// Start begins ticking every interval.
func (s *Scheduler) Start(interval time.Duration) error {
	if interval <= 0 {
		return ErrInvalidInterval
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return ErrAlreadyRunning
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	s.cancel = cancel
	s.done = done
	s.interval = interval

	go s.loop(ctx, interval, done)
	return nil
}

func (s *Scheduler) loop(ctx context.Context, interval time.Duration, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.target.RunOneTick()
		}
	}
}

// Stop cancels future ticks and waits for an in-flight tick to finish.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return ErrNotRunning
	}
	cancel()
	<-done
	return nil
}

// Running reports whether the scheduler is ticking.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

// Interval returns the interval of the current or last run.
func (s *Scheduler) Interval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interval
}
