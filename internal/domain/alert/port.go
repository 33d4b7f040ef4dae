package alert

import (
	"context"
	"time"
)

type Repo interface {
	InsertEvent(ctx context.Context, e *Event) error
	// LastEventAfter reports whether an event of the given type exists for
	// the target with triggered_at after the cutoff. Suppression probe.
	LastEventAfter(ctx context.Context, targetID int64, typ Type, cutoff time.Time) (bool, error)
	ResolveOpen(ctx context.Context, targetID int64, typ Type, at time.Time) error
	ListRules(ctx context.Context, targetID int64) ([]*Rule, error)
}

// Sender hands a fired event to one rule's delivery channel. Transport
// mechanics (mail, SMS, webhook dispatch) live outside the core.
type Sender interface {
	Send(ctx context.Context, r *Rule, e *Event) error
}
