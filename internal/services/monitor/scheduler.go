package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/NordCoder/Sitewatch/internal/domain/target"

	"go.uber.org/zap"
)

// TickFunc is one tick's worth of work for one target. It must not panic
// and must honor the target's own timeouts.
type TickFunc func(ctx context.Context, t *target.Target)

// Scheduler owns exactly one repeating task per enabled target, keyed by
// target id. Re-registering is strictly cancel-then-start, never additive.
// Each task fires on its own timer and re-arms only after its tick
// completes, so two ticks of the same target can never overlap while
// different targets never wait on each other.
type Scheduler struct {
	log  *zap.Logger
	tick TickFunc

	mu      sync.Mutex
	tasks   map[int64]*task
	stopped bool
	wg      sync.WaitGroup
}

type task struct {
	target *target.Target
	stop   chan struct{}
}

func NewScheduler(log *zap.Logger, tick TickFunc) *Scheduler {
	return &Scheduler{
		log:   log.With(zap.String("component", "scheduler")),
		tick:  tick,
		tasks: make(map[int64]*task),
	}
}

// Upsert schedules the target, cancelling any existing task for its id
// first. Disabled targets are removed instead.
func (s *Scheduler) Upsert(ctx context.Context, t *target.Target) {
	if !t.Enabled || t.Interval <= 0 {
		s.Remove(t.ID)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}

	if old, ok := s.tasks[t.ID]; ok {
		close(old.stop)
	}

	tk := &task{target: t, stop: make(chan struct{})}
	s.tasks[t.ID] = tk

	s.wg.Add(1)
	go s.run(ctx, tk)

	s.log.Debug("target scheduled",
		zap.Int64("target_id", t.ID),
		zap.Duration("interval", t.Interval),
	)
}

func (s *Scheduler) run(ctx context.Context, tk *task) {
	defer s.wg.Done()

	// first tick fires immediately so a fresh target shows up on the
	// dashboard without waiting a full interval
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-tk.stop:
			return
		case <-timer.C:
			s.tick(ctx, tk.target)

			// never re-arm a cancelled task, even if the timer raced
			select {
			case <-tk.stop:
				return
			case <-ctx.Done():
				return
			default:
			}
			timer.Reset(tk.target.Interval)
		}
	}
}

func (s *Scheduler) Remove(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if tk, ok := s.tasks[id]; ok {
		close(tk.stop)
		delete(s.tasks, id)
	}
}

// Reload reconciles the task map against a registry snapshot: new targets
// get a task, vanished or disabled ones are cancelled, and a target whose
// schedule-relevant config changed is restarted with the new settings.
func (s *Scheduler) Reload(ctx context.Context, targets []*target.Target) {
	seen := make(map[int64]bool, len(targets))
	for _, t := range targets {
		seen[t.ID] = true

		s.mu.Lock()
		existing, ok := s.tasks[t.ID]
		unchanged := ok &&
			existing.target.Interval == t.Interval &&
			existing.target.Timeout == t.Timeout &&
			existing.target.URL == t.URL
		s.mu.Unlock()

		if unchanged {
			continue
		}
		s.Upsert(ctx, t)
	}

	s.mu.Lock()
	var stale []int64
	for id := range s.tasks {
		if !seen[id] {
			stale = append(stale, id)
		}
	}
	s.mu.Unlock()

	for _, id := range stale {
		s.log.Debug("target unscheduled", zap.Int64("target_id", id))
		s.Remove(id)
	}
}

// Stop cancels every task and waits for in-flight ticks to finish. Ticks
// are bounded by their per-check timeouts, so the wait is bounded too.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	for id, tk := range s.tasks {
		close(tk.stop)
		delete(s.tasks, id)
	}
	s.mu.Unlock()

	s.wg.Wait()
}

func (s *Scheduler) ActiveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}
