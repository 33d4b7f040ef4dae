package monitor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/NordCoder/Sitewatch/internal/domain/result"
	"github.com/NordCoder/Sitewatch/internal/domain/target"
	"github.com/NordCoder/Sitewatch/internal/repository/postgres"

	"go.uber.org/zap"
)

// ErrTargetNotFound is returned by RunSingleCheck for an unknown id.
var ErrTargetNotFound = errors.New("target not found")

// SchedulerStatus is the health snapshot exposed to the API layer.
type SchedulerStatus struct {
	Running       bool          `json:"running"`
	ActiveTargets int           `json:"active_targets"`
	Uptime        time.Duration `json:"uptime"`
}

// Service is the monitoring core's outer surface: lifecycle, status, and
// on-demand checks. The HTTP layer needs nothing else from the core.
type Service struct {
	log      *zap.Logger
	registry *Registry
	sched    *Scheduler
	handler  *TickHandler
	targets  target.Repo

	refreshInterval time.Duration
	defaultInterval time.Duration
	defaultTimeout  time.Duration

	mu        sync.Mutex
	running   bool
	startedAt time.Time
	cancel    context.CancelFunc
	done      chan struct{}
}

func NewService(
	log *zap.Logger,
	registry *Registry,
	handler *TickHandler,
	targets target.Repo,
	refreshInterval, defaultInterval, defaultTimeout time.Duration,
) *Service {
	if refreshInterval <= 0 {
		refreshInterval = 5 * time.Minute
	}
	s := &Service{
		log:             log.With(zap.String("component", "monitor_service")),
		registry:        registry,
		handler:         handler,
		targets:         targets,
		refreshInterval: refreshInterval,
		defaultInterval: defaultInterval,
		defaultTimeout:  defaultTimeout,
	}
	s.sched = NewScheduler(log, s.tickTarget)
	return s
}

func (s *Service) tickTarget(ctx context.Context, t *target.Target) {
	start := time.Now()
	res, err := s.handler.RunCheck(ctx, t)
	mTickDur.Observe(time.Since(start).Seconds())
	if err != nil {
		s.log.Warn("tick failed", zap.Int64("target_id", t.ID), zap.Error(err))
		return
	}
	mTicks.WithLabelValues(string(res.Status)).Inc()
}

// Start loads the registry and schedules every enabled target. An
// unreachable backing store at startup is fatal and surfaced to the
// caller; later failures only freeze the schedule at its last good state.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return errors.New("scheduler already running")
	}

	// direct probe, no fallback: a dead store at boot should abort startup
	if _, err := s.targets.ListEnabled(ctx); err != nil {
		return fmt.Errorf("load targets: %w", err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	s.running = true
	s.startedAt = time.Now()

	s.sched.Reload(runCtx, s.registry.Snapshot(runCtx))
	mRefresh.Inc()

	go s.refreshLoop(runCtx)

	s.log.Info("scheduler started",
		zap.Int("targets", s.sched.ActiveCount()),
		zap.Duration("refresh_interval", s.refreshInterval),
	)
	return nil
}

// refreshLoop re-polls the registry so target edits, additions, and
// disables take effect without a restart.
func (s *Service) refreshLoop(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sched.Reload(ctx, s.registry.Snapshot(ctx))
			mRefresh.Inc()
			s.log.Debug("registry refreshed", zap.Int("active", s.sched.ActiveCount()))
		}
	}
}

// Stop cancels all timers and waits for in-flight ticks to drain.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	cancel := s.cancel
	done := s.done
	s.mu.Unlock()

	cancel()
	s.sched.Stop()
	<-done
	s.log.Info("scheduler stopped")
}

func (s *Service) Status() SchedulerStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := SchedulerStatus{
		Running:       s.running,
		ActiveTargets: s.sched.ActiveCount(),
	}
	if s.running {
		st.Uptime = time.Since(s.startedAt)
	}
	return st
}

// RunSingleCheck executes one immediate tick for the target, outside its
// schedule. The scheduled timer is left untouched.
func (s *Service) RunSingleCheck(ctx context.Context, targetID int64) (*result.CheckResult, error) {
	t, err := s.targets.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return nil, ErrTargetNotFound
		}
		return nil, fmt.Errorf("load target: %w", err)
	}
	t.Normalize(s.defaultInterval, s.defaultTimeout)

	mOnDemand.Inc()
	return s.handler.RunCheck(ctx, t)
}
