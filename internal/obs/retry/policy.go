package retry

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// DefaultStorePolicy covers short transient failures against the backing
// store (registry refresh, rule lookup). It is deliberately tight: callers
// fall back to their last-known-good state when it exhausts.
func DefaultStorePolicy(log *zap.Logger) Policy {
	return Policy{
		Name:     "store",
		Attempts: 3,
		Backoff:  ExpoJitter{Base: 100 * time.Millisecond, Max: 2 * time.Second, Jitter: 0.2},
		OnAttempt: func(i int, err error) {
			if log != nil {
				log.Warn("store retry", zap.Int("attempt", i+1), zap.Error(err))
			}
		},
		OnExhaust: func(err error) {
			if log != nil && !errors.Is(err, context.Canceled) {
				log.Error("store retries exhausted", zap.Error(err))
			}
		},
	}
}
