package monitor

import (
	"context"
	"fmt"
	"time"

	"github.com/NordCoder/Sitewatch/internal/domain/alert"
	"github.com/NordCoder/Sitewatch/internal/domain/clock"
	"github.com/NordCoder/Sitewatch/internal/domain/result"
	"github.com/NordCoder/Sitewatch/internal/domain/target"
	"github.com/NordCoder/Sitewatch/internal/obs"

	"go.uber.org/zap"
)

type EngineConfig struct {
	SuppressionWindow time.Duration
	DegradedHighMS    int64
	PerfCeilingMS     int64
	ExpiryWarnDays    int
}

// Engine evaluates one merged result against the alerting rules and owns
// the anti-spam contract: at most one event per (target, type) inside the
// trailing suppression window.
type Engine struct {
	log    *zap.Logger
	repo   alert.Repo
	sender alert.Sender
	clock  clock.Clock
	cfg    EngineConfig
}

func NewEngine(log *zap.Logger, repo alert.Repo, sender alert.Sender, clk clock.Clock, cfg EngineConfig) *Engine {
	if cfg.SuppressionWindow <= 0 {
		cfg.SuppressionWindow = 15 * time.Minute
	}
	return &Engine{
		log:    log.With(zap.String("component", "alert_engine")),
		repo:   repo,
		sender: sender,
		clock:  clk,
		cfg:    cfg,
	}
}

// Evaluate runs every rule independently and returns the events that fired.
// Persistence or delivery trouble for one event never blocks the others.
func (e *Engine) Evaluate(ctx context.Context, t *target.Target, res *result.CheckResult) []*alert.Event {
	var fired []*alert.Event
	for _, cand := range e.candidates(t, res) {
		ev, err := e.fire(ctx, t, cand, res.ResponseTimeMS)
		if err != nil {
			obs.WithTrace(ctx, e.log).Warn("alert evaluation",
				zap.Int64("target_id", t.ID), zap.String("type", string(cand.Type)), zap.Error(err))
			continue
		}
		if ev != nil {
			fired = append(fired, ev)
		}
	}
	return fired
}

func (e *Engine) candidates(t *target.Target, res *result.CheckResult) []*alert.Event {
	now := e.clock.Now()
	var out []*alert.Event

	switch {
	case res.Status == result.StatusDown:
		msg := fmt.Sprintf("%s is down", t.Name)
		if res.ErrorMessage != nil {
			msg = fmt.Sprintf("%s is down: %s", t.Name, *res.ErrorMessage)
		}
		out = append(out, &alert.Event{
			TargetID:    t.ID,
			Type:        alert.TypeStatusChange,
			Message:     msg,
			Severity:    alert.SeverityCritical,
			TriggeredAt: now,
		})
	case res.Status == result.StatusDegraded && res.ResponseTimeMS > e.cfg.DegradedHighMS:
		out = append(out, &alert.Event{
			TargetID:    t.ID,
			Type:        alert.TypeStatusChange,
			Message:     fmt.Sprintf("%s is degraded (%dms)", t.Name, res.ResponseTimeMS),
			Severity:    alert.SeverityWarning,
			TriggeredAt: now,
		})
	}

	if res.TLS != nil && res.TLS.DaysUntilExpiry <= e.cfg.ExpiryWarnDays {
		out = append(out, e.sslCandidate(t, res.TLS, now))
	}

	if res.ResponseTimeMS > e.cfg.PerfCeilingMS {
		out = append(out, &alert.Event{
			TargetID:    t.ID,
			Type:        alert.TypePerformance,
			Message:     fmt.Sprintf("%s response time %dms exceeds %dms", t.Name, res.ResponseTimeMS, e.cfg.PerfCeilingMS),
			Severity:    alert.SeverityWarning,
			TriggeredAt: now,
		})
	}

	return out
}

// sslCandidate escalates the message urgency as expiry approaches. The
// suppression key stays ssl_expiry at every escalation level.
func (e *Engine) sslCandidate(t *target.Target, info *result.TLSInfo, now time.Time) *alert.Event {
	days := info.DaysUntilExpiry
	var msg string
	sev := alert.SeverityWarning
	switch {
	case days < 0:
		msg = fmt.Sprintf("certificate for %s expired %d days ago", t.Name, -days)
		sev = alert.SeverityCritical
	case days <= 1:
		msg = fmt.Sprintf("certificate for %s expires within a day", t.Name)
		sev = alert.SeverityCritical
	case days <= 7:
		msg = fmt.Sprintf("certificate for %s expires in %d days", t.Name, days)
		sev = alert.SeverityCritical
	default:
		msg = fmt.Sprintf("certificate for %s expires in %d days", t.Name, days)
	}
	return &alert.Event{
		TargetID:    t.ID,
		Type:        alert.TypeSSLExpiry,
		Message:     msg,
		Severity:    sev,
		TriggeredAt: now,
	}
}

func (e *Engine) fire(ctx context.Context, t *target.Target, ev *alert.Event, respMS int64) (*alert.Event, error) {
	cutoff := ev.TriggeredAt.Add(-e.cfg.SuppressionWindow)
	exists, err := e.repo.LastEventAfter(ctx, t.ID, ev.Type, cutoff)
	if err != nil {
		return nil, fmt.Errorf("suppression probe: %w", err)
	}
	if exists {
		mAlertsSuppressed.WithLabelValues(string(ev.Type)).Inc()
		return nil, nil
	}

	ev.DeliveryStatus = alert.DeliverySent
	rules, err := e.repo.ListRules(ctx, t.ID)
	if err != nil {
		obs.WithTrace(ctx, e.log).Warn("list alert rules", zap.Int64("target_id", t.ID), zap.Error(err))
		rules = nil
	}
	for _, r := range rules {
		if !r.Enabled {
			continue
		}
		// a rule may raise the bar for performance alerts on its channel
		if ev.Type == alert.TypePerformance && r.SlowThreshold > 0 && respMS <= r.SlowThreshold {
			continue
		}
		if err := e.sender.Send(ctx, r, ev); err != nil {
			ev.DeliveryStatus = alert.DeliveryFailed
			mAlertDeliveries.WithLabelValues("failed").Inc()
			obs.WithTrace(ctx, e.log).Warn("alert delivery",
				zap.Int64("target_id", t.ID),
				zap.String("channel", string(r.Channel)),
				zap.Error(err))
			continue
		}
		mAlertDeliveries.WithLabelValues("sent").Inc()
	}

	if err := e.repo.InsertEvent(ctx, ev); err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}
	mAlertsFired.WithLabelValues(string(ev.Type)).Inc()
	return ev, nil
}

// Resolve closes open status_change events once a target reports up again.
func (e *Engine) Resolve(ctx context.Context, targetID int64) {
	if err := e.repo.ResolveOpen(ctx, targetID, alert.TypeStatusChange, e.clock.Now()); err != nil {
		obs.WithTrace(ctx, e.log).Warn("resolve alerts", zap.Int64("target_id", targetID), zap.Error(err))
	}
}
