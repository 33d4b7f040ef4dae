package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/NordCoder/Sitewatch/internal/domain/broadcast"

	"go.uber.org/zap"
)

// AsyncBroadcaster decouples the scheduling path from the push transport.
// Publishes are queued and flushed by one worker; when the queue is full
// the event is dropped and counted, never blocking a tick.
type AsyncBroadcaster struct {
	log   *zap.Logger
	inner broadcast.Broadcaster
	queue chan func(ctx context.Context)

	pubTimeout time.Duration
	closeOnce  sync.Once
	done       chan struct{}
}

var _ broadcast.Broadcaster = (*AsyncBroadcaster)(nil)

func NewAsyncBroadcaster(log *zap.Logger, inner broadcast.Broadcaster, buffer int) *AsyncBroadcaster {
	if buffer <= 0 {
		buffer = 256
	}
	b := &AsyncBroadcaster{
		log:        log.With(zap.String("component", "broadcaster")),
		inner:      inner,
		queue:      make(chan func(ctx context.Context), buffer),
		pubTimeout: 5 * time.Second,
		done:       make(chan struct{}),
	}
	go b.worker()
	return b
}

func (b *AsyncBroadcaster) worker() {
	for {
		select {
		case <-b.done:
			return
		case fn := <-b.queue:
			ctx, cancel := context.WithTimeout(context.Background(), b.pubTimeout)
			fn(ctx)
			cancel()
		}
	}
}

func (b *AsyncBroadcaster) enqueue(kind string, fn func(ctx context.Context)) error {
	select {
	case b.queue <- fn:
		return nil
	default:
		mBroadcastDropped.Inc()
		b.log.Debug("broadcast queue full, event dropped", zap.String("kind", kind))
		return nil // fire-and-forget: a drop is not the scheduler's problem
	}
}

func (b *AsyncBroadcaster) PublishUpdate(_ context.Context, u broadcast.Update) error {
	return b.enqueue("update", func(ctx context.Context) {
		if err := b.inner.PublishUpdate(ctx, u); err != nil {
			b.log.Debug("publish update", zap.Int64("target_id", u.TargetID), zap.Error(err))
		}
	})
}

func (b *AsyncBroadcaster) PublishAlert(_ context.Context, n broadcast.Notice) error {
	return b.enqueue("alert", func(ctx context.Context) {
		if err := b.inner.PublishAlert(ctx, n); err != nil {
			b.log.Debug("publish alert", zap.Int64("target_id", n.TargetID), zap.Error(err))
		}
	})
}

func (b *AsyncBroadcaster) Close() {
	b.closeOnce.Do(func() { close(b.done) })
}
