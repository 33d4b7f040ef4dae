package monitor

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/NordCoder/Sitewatch/internal/domain/broadcast"
	"github.com/NordCoder/Sitewatch/internal/domain/clock"
	"github.com/NordCoder/Sitewatch/internal/domain/result"
	"github.com/NordCoder/Sitewatch/internal/domain/target"
	"github.com/NordCoder/Sitewatch/internal/obs"
	"github.com/NordCoder/Sitewatch/internal/repository/postgres"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// TickHandler runs the full check pipeline for one target: the three
// sub-checks in parallel, merge, persist, alert evaluation, broadcast.
type TickHandler struct {
	log     *zap.Logger
	targets target.Repo
	results result.Repo
	tx      postgres.Transactor
	engine  *Engine
	bcast   broadcast.Broadcaster
	clock   clock.Clock

	uptime *UptimeChecker
	tls    *TLSChecker
	perf   *PerfChecker
}

func NewTickHandler(
	log *zap.Logger,
	targets target.Repo,
	results result.Repo,
	tx postgres.Transactor,
	engine *Engine,
	bcast broadcast.Broadcaster,
	clk clock.Clock,
	uptime *UptimeChecker,
	tlsCheck *TLSChecker,
	perf *PerfChecker,
) *TickHandler {
	return &TickHandler{
		log:     log.With(zap.String("component", "tick_handler")),
		targets: targets,
		results: results,
		tx:      tx,
		engine:  engine,
		bcast:   bcast,
		clock:   clk,
		uptime:  uptime,
		tls:     tlsCheck,
		perf:    perf,
	}
}

// RunCheck executes one tick. It returns the merged result; the error is
// non-nil only when the result could not be assembled at all, never for a
// target that is merely down.
func (h *TickHandler) RunCheck(ctx context.Context, t *target.Target) (*result.CheckResult, error) {
	tr := otel.Tracer("monitor.tick")
	ctx, span := tr.Start(ctx, "monitor.tick",
		trace.WithAttributes(
			attribute.Int64("target.id", t.ID),
			attribute.String("target.url", t.URL),
		),
	)
	defer span.End()

	res := h.merge(ctx, t)

	h.persist(ctx, t, res)
	h.alertAndBroadcast(ctx, t, res)

	return res, nil
}

// merge runs the three checks concurrently. TLS and performance failures
// degrade only their own contribution; uptime alone drives the status.
func (h *TickHandler) merge(ctx context.Context, t *target.Target) *result.CheckResult {
	var (
		wg      sync.WaitGroup
		up      UptimeOutcome
		tlsInfo *result.TLSInfo
		perf    *int
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		up = h.uptime.Check(ctx, t.URL, t.Timeout)
	}()

	if t.IsHTTPS() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tlsInfo = h.tls.Check(ctx, t.URL)
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		perf = h.perf.Check(ctx, t.URL, t.Timeout)
	}()

	wg.Wait()

	return &result.CheckResult{
		TargetID:         t.ID,
		CheckedAt:        h.clock.Now(),
		Status:           up.Status,
		ResponseTimeMS:   up.ResponseTimeMS,
		StatusCode:       up.StatusCode,
		ErrorMessage:     up.ErrorMessage,
		PerformanceScore: perf,
		TLS:              tlsInfo,
	}
}

// persist writes the result and the target's cached status in one tx.
// A storage failure is logged and the tick still counts as complete; the
// next tick produces a fresh data point anyway.
func (h *TickHandler) persist(ctx context.Context, t *target.Target, res *result.CheckResult) {
	err := h.tx.WithTx(ctx, func(txCtx context.Context) error {
		if err := h.results.Insert(txCtx, res); err != nil {
			return fmt.Errorf("insert result: %w", err)
		}
		if err := h.targets.UpdateLastStatus(txCtx, t.ID, string(res.Status)); err != nil {
			if errors.Is(err, postgres.ErrNotFound) {
				return nil // target deleted mid-tick, keep the history row
			}
			return fmt.Errorf("update last_status: %w", err)
		}
		return nil
	})
	if err != nil {
		obs.WithTrace(ctx, h.log).Warn("persist tick",
			zap.Int64("target_id", t.ID), zap.Error(err))
	}
}

func (h *TickHandler) alertAndBroadcast(ctx context.Context, t *target.Target, res *result.CheckResult) {
	recovered := t.LastStatus != nil &&
		result.Status(*t.LastStatus) == result.StatusDown &&
		res.Status == result.StatusUp
	if recovered {
		h.engine.Resolve(ctx, t.ID)
	}

	events := h.engine.Evaluate(ctx, t, res)

	if err := h.bcast.PublishUpdate(ctx, broadcast.Update{
		TargetID:         t.ID,
		Status:           res.Status,
		ResponseTimeMS:   res.ResponseTimeMS,
		Timestamp:        res.CheckedAt,
		TLS:              res.TLS,
		PerformanceScore: res.PerformanceScore,
	}); err != nil {
		obs.WithTrace(ctx, h.log).Debug("broadcast update", zap.Int64("target_id", t.ID), zap.Error(err))
	}

	for _, ev := range events {
		if err := h.bcast.PublishAlert(ctx, broadcast.Notice{
			TargetID:  ev.TargetID,
			AlertType: string(ev.Type),
			Message:   ev.Message,
			Severity:  string(ev.Severity),
			Timestamp: ev.TriggeredAt,
		}); err != nil {
			obs.WithTrace(ctx, h.log).Debug("broadcast alert", zap.Int64("target_id", t.ID), zap.Error(err))
		}
	}

	// keep the in-memory copy current so the next tick sees this status
	s := string(res.Status)
	t.LastStatus = &s
}
