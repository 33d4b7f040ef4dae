package alert

import "time"

type Type string

const (
	TypeStatusChange Type = "status_change"
	TypeSSLExpiry    Type = "ssl_expiry"
	TypePerformance  Type = "performance"
)

type Channel string

const (
	ChannelEmail   Channel = "email"
	ChannelSMS     Channel = "sms"
	ChannelWebhook Channel = "webhook"
)

type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

type DeliveryStatus string

const (
	DeliverySent   DeliveryStatus = "sent"
	DeliveryFailed DeliveryStatus = "failed"
)

// Rule is the per-target, per-channel alert configuration. Several rules
// per channel are allowed; each enabled rule receives every fired event.
type Rule struct {
	ID            int64   `json:"id"`
	TargetID      int64   `json:"target_id"`
	Channel       Channel `json:"channel"`
	Destination   string  `json:"destination"`
	Enabled       bool    `json:"enabled"`
	SlowThreshold int64   `json:"slow_threshold_ms"`
}

// Event records one alert firing. Events of the same (target, type) are
// suppressed inside the trailing suppression window.
type Event struct {
	ID             int64          `json:"id"`
	TargetID       int64          `json:"target_id"`
	Type           Type           `json:"type"`
	Message        string         `json:"message"`
	Severity       Severity       `json:"severity"`
	TriggeredAt    time.Time      `json:"triggered_at"`
	ResolvedAt     *time.Time     `json:"resolved_at,omitempty"`
	DeliveryStatus DeliveryStatus `json:"delivery_status"`
}
