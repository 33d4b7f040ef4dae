package kafka

import (
	"context"
	"time"

	"github.com/NordCoder/Sitewatch/internal/domain/alert"
	"github.com/NordCoder/Sitewatch/internal/domain/broadcast"
)

// MonitorEventsKafka fans monitoring updates and alert notices out to the
// dashboard topics and hands fired alerts to the delivery service's inbound
// topic. All three paths are fire-and-forget from the core's perspective.
type MonitorEventsKafka struct {
	updates *Producer
	alerts  *Producer
	notify  *Producer
}

func NewMonitorEventsKafka(updates, alerts, notify *Producer) *MonitorEventsKafka {
	return &MonitorEventsKafka{updates: updates, alerts: alerts, notify: notify}
}

var (
	_ broadcast.Broadcaster = (*MonitorEventsKafka)(nil)
	_ alert.Sender          = (*MonitorEventsKafka)(nil)
)

func (e *MonitorEventsKafka) PublishUpdate(ctx context.Context, u broadcast.Update) error {
	return e.updates.PublishJSON(ctx, KeyFromInt64(u.TargetID), u)
}

func (e *MonitorEventsKafka) PublishAlert(ctx context.Context, n broadcast.Notice) error {
	return e.alerts.PublishJSON(ctx, KeyFromInt64(n.TargetID), n)
}

// notifyRequest is the hand-off shape consumed by the delivery service.
type notifyRequest struct {
	TargetID    int64     `json:"target_id"`
	Channel     string    `json:"channel"`
	Destination string    `json:"destination"`
	AlertType   string    `json:"alert_type"`
	Severity    string    `json:"severity"`
	Message     string    `json:"message"`
	TriggeredAt time.Time `json:"triggered_at"`
}

func (e *MonitorEventsKafka) Send(ctx context.Context, r *alert.Rule, ev *alert.Event) error {
	return e.notify.PublishJSON(ctx, KeyFromInt64(ev.TargetID), notifyRequest{
		TargetID:    ev.TargetID,
		Channel:     string(r.Channel),
		Destination: r.Destination,
		AlertType:   string(ev.Type),
		Severity:    string(ev.Severity),
		Message:     ev.Message,
		TriggeredAt: ev.TriggeredAt,
	})
}

func (e *MonitorEventsKafka) Close() error {
	_ = e.updates.Close()
	_ = e.alerts.Close()
	return e.notify.Close()
}
