package broadcast

import (
	"context"
	"time"

	"github.com/NordCoder/Sitewatch/internal/domain/result"
)

// Update is the realtime monitoring event pushed after every persisted tick.
type Update struct {
	TargetID         int64           `json:"target_id"`
	Status           result.Status   `json:"status"`
	ResponseTimeMS   int64           `json:"response_time_ms"`
	Timestamp        time.Time       `json:"timestamp"`
	TLS              *result.TLSInfo `json:"tls,omitempty"`
	PerformanceScore *int            `json:"performance_score,omitempty"`
}

// Notice is the realtime event pushed for every fired alert.
type Notice struct {
	TargetID  int64     `json:"target_id"`
	AlertType string    `json:"alert_type"`
	Message   string    `json:"message"`
	Severity  string    `json:"severity"`
	Timestamp time.Time `json:"timestamp"`
}

// Broadcaster fans events out to live dashboard clients. The core treats it
// as fire-and-forget: no acknowledgement, no delivery guarantee, and it may
// be a no-op when no transport is configured.
type Broadcaster interface {
	PublishUpdate(ctx context.Context, u Update) error
	PublishAlert(ctx context.Context, n Notice) error
}

// Noop runs the core headless.
type Noop struct{}

func (Noop) PublishUpdate(context.Context, Update) error { return nil }
func (Noop) PublishAlert(context.Context, Notice) error  { return nil }
