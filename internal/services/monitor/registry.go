package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/NordCoder/Sitewatch/internal/domain/target"
	"github.com/NordCoder/Sitewatch/internal/obs/retry"

	"go.uber.org/zap"
)

// Registry is the only component reading target configuration. Snapshot
// never fails the caller: on storage trouble it serves the last list that
// loaded cleanly, so running timers are never torn down by a flaky store.
type Registry struct {
	log  *zap.Logger
	repo target.Repo
	pol  retry.Policy

	defaultInterval time.Duration
	defaultTimeout  time.Duration

	mu   sync.RWMutex
	last []*target.Target
}

func NewRegistry(log *zap.Logger, repo target.Repo, defaultInterval, defaultTimeout time.Duration) *Registry {
	return &Registry{
		log:             log.With(zap.String("component", "registry")),
		repo:            repo,
		pol:             retry.DefaultStorePolicy(log),
		defaultInterval: defaultInterval,
		defaultTimeout:  defaultTimeout,
	}
}

func (r *Registry) Snapshot(ctx context.Context) []*target.Target {
	var fresh []*target.Target
	err := retry.Do(ctx, func() error {
		list, err := r.repo.ListEnabled(ctx)
		if err != nil {
			return err
		}
		fresh = list
		return nil
	}, r.pol)

	if err != nil {
		r.mu.RLock()
		defer r.mu.RUnlock()
		r.log.Warn("registry load failed, serving last known snapshot",
			zap.Int("targets", len(r.last)), zap.Error(err))
		return append([]*target.Target(nil), r.last...)
	}

	for _, t := range fresh {
		t.Normalize(r.defaultInterval, r.defaultTimeout)
	}

	r.mu.Lock()
	r.last = fresh
	r.mu.Unlock()
	return append([]*target.Target(nil), fresh...)
}
