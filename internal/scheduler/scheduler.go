// Package scheduler implements the four scheduler request kinds from
// spec.md §4.4: timers, wall-clock alarms, raw (async) loopbacks, and
// cancel hooks. It runs independently of the engine loop and feeds
// completed payloads into a single sink, which internal/engine wires to
// its loopback channel so scheduled work re-enters the same serialized
// Run loop that handles external commands.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// CancelFunc cancels a previously scheduled timer or alarm. Cancelling
// after the hook has already fired is a safe no-op — spec.md §5 requires
// defensive handling of a cancel racing a fire.
type CancelFunc func()

// Sink receives a loopback payload once a scheduled or async task completes.
// internal/engine supplies one that pushes the payload unchanged onto its
// loopback channel, which its Run loop drains alongside external commands.
type Sink func(payload any)

// Scheduler owns all pending timers, alarms and raw loopbacks.
type Scheduler struct {
	sink Sink
	log  *slog.Logger

	cronSched *cron.Cron

	mu     sync.Mutex
	timers map[uint64]*time.Timer
	nextID uint64
}

// New creates a Scheduler that delivers completed payloads to sink.
func New(sink Sink, log *slog.Logger) *Scheduler {
	if log == nil {
		log = slog.Default()
	}
	s := &Scheduler{
		sink:      sink,
		log:       log,
		cronSched: cron.New(cron.WithSeconds()),
		timers:    make(map[uint64]*time.Timer),
	}
	return s
}

// Start begins running the alarm cron loop. Timers and raw loopbacks need
// no separate start: they run on their own goroutines/time.Timer as soon
// as they're created.
func (s *Scheduler) Start() {
	s.cronSched.Start()
}

// Stop halts the alarm cron loop and cancels every pending timer.
func (s *Scheduler) Stop(ctx context.Context) {
	cronCtx := s.cronSched.Stop()
	select {
	case <-cronCtx.Done():
	case <-ctx.Done():
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
}

// CreateTimer enqueues payload after duration elapses.
func (s *Scheduler) CreateTimer(duration time.Duration, payload any) CancelFunc {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.mu.Unlock()

	t := time.AfterFunc(duration, func() {
		s.mu.Lock()
		_, stillPending := s.timers[id]
		delete(s.timers, id)
		s.mu.Unlock()
		if !stillPending {
			return
		}
		s.sink(payload)
	})

	s.mu.Lock()
	s.timers[id] = t
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if t, ok := s.timers[id]; ok {
			t.Stop()
			delete(s.timers, id)
		}
	}
}

// CreateAlarm enqueues payload at the next occurrence of the given
// local-clock time of day. Grounded on robfig/cron/v3: a one-shot cron
// entry is scheduled for "seconds minute hour * * *" and removed from the
// cron after it fires once.
func (s *Scheduler) CreateAlarm(at time.Time, payload any) (CancelFunc, error) {
	spec := fmt.Sprintf("%d %d %d * * *", at.Second(), at.Minute(), at.Hour())

	var entryID cron.EntryID
	var mu sync.Mutex
	id, err := s.cronSched.AddFunc(spec, func() {
		mu.Lock()
		eid := entryID
		mu.Unlock()
		s.cronSched.Remove(eid)
		s.sink(payload)
	})
	if err != nil {
		return nil, fmt.Errorf("scheduling alarm for %s: %w", at.Format("15:04:05"), err)
	}
	mu.Lock()
	entryID = id
	mu.Unlock()

	return func() {
		s.cronSched.Remove(id)
	}, nil
}

// RawLoopback runs fn in its own goroutine and sinks its returned payload
// on completion. Used for async store operations such as autosave, where
// the engine hands off a snapshot transaction and resumes when it settles.
func (s *Scheduler) RawLoopback(ctx context.Context, fn func(context.Context) any) {
	go func() {
		payload := fn(ctx)
		if payload == nil {
			return
		}
		s.sink(payload)
	}()
}
