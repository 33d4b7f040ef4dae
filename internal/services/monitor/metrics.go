package monitor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	mTicks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "monitor_ticks_total", Help: "Completed ticks, by resulting status.",
	}, []string{"status"})
	mTickDur = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "monitor_tick_duration_seconds",
		Help:    "Full tick duration (checks + persist + alerting).",
		Buckets: prometheus.DefBuckets,
	})
	mRefresh = promauto.NewCounter(prometheus.CounterOpts{
		Name: "monitor_registry_refreshes_total", Help: "Registry snapshots applied to the scheduler.",
	})
	mOnDemand = promauto.NewCounter(prometheus.CounterOpts{
		Name: "monitor_on_demand_checks_total", Help: "RunSingleCheck invocations.",
	})

	mAlertsFired = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "monitor_alerts_fired_total", Help: "Alert events created, by type.",
	}, []string{"type"})
	mAlertsSuppressed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "monitor_alerts_suppressed_total", Help: "Alerts skipped inside the suppression window, by type.",
	}, []string{"type"})
	mAlertDeliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "monitor_alert_deliveries_total", Help: "Per-rule delivery attempts, by outcome.",
	}, []string{"outcome"})

	mBroadcastDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "monitor_broadcast_dropped_total",
		Help: "Realtime events dropped because the publish queue was full.",
	})
)
