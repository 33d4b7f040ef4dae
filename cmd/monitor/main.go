package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/NordCoder/Sitewatch/internal/config/monitor"
	"github.com/NordCoder/Sitewatch/internal/domain/alert"
	"github.com/NordCoder/Sitewatch/internal/domain/broadcast"
	"github.com/NordCoder/Sitewatch/internal/domain/clock"
	"github.com/NordCoder/Sitewatch/internal/obs"
	kafkax "github.com/NordCoder/Sitewatch/internal/repository/kafka"
	pg "github.com/NordCoder/Sitewatch/internal/repository/postgres"
	"github.com/NordCoder/Sitewatch/internal/services/monitor"

	"go.uber.org/zap"
)

// noopSender is used when kafka is disabled: alerts are still evaluated
// and recorded, only the delivery hand-off is absent.
type noopSender struct{}

func (noopSender) Send(context.Context, *alert.Rule, *alert.Event) error { return nil }

func main() {
	// init
	root, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfgPath := os.Getenv("MONITOR_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/monitor.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal(err)
	}

	// logger
	l, err := obs.NewLogger(cfg.Log.AsLoggerConfig())
	if err != nil {
		log.Fatal(err)
	}
	l.Info("starting monitor",
		zap.String("metrics_addr", cfg.Server.MetricsAddr),
		zap.Bool("kafka", cfg.Kafka.Enable),
	)

	// otel
	otelCloser, err := obs.SetupOTel(root, cfg.OTEL.AsOTELConfig())
	if err != nil {
		l.Fatal("otel init", zap.Error(err))
	}
	defer func() { _ = otelCloser.Shutdown(context.Background()) }()

	// db
	db, err := pg.NewDB(root, cfg.DB)
	if err != nil {
		l.Fatal("db connect", zap.Error(err))
	}
	defer db.Close()

	// metrics
	ms := obs.BootstrapMetricsServer(cfg.Server.MetricsAddr, func(ctx context.Context) error {
		hctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
		defer cancel()
		return db.Pool.Ping(hctx)
	}, l)

	// kafka; the core runs fully headless without it
	var (
		bcast  broadcast.Broadcaster = broadcast.Noop{}
		sender alert.Sender          = noopSender{}
	)
	if cfg.Kafka.Enable {
		events := kafkax.NewMonitorEventsKafka(
			kafkax.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.UpdatesTopic).WithLogger(l),
			kafkax.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.AlertsTopic).WithLogger(l),
			kafkax.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.NotifyTopic).WithLogger(l),
		)
		defer func() { _ = events.Close() }()
		bcast = events
		sender = events
	}
	async := monitor.NewAsyncBroadcaster(l, bcast, 256)
	defer async.Close()

	// wiring
	clk := clock.System{}
	targets := pg.NewTargetRepo(db)
	results := pg.NewResultRepo(db)
	alerts := pg.NewAlertRepo(db)
	tx := pg.NewTransactor(db, l)

	registry := monitor.NewRegistry(l, targets, cfg.Sched.DefaultInterval, cfg.Sched.DefaultTimeout)
	uptime := monitor.NewUptimeChecker(cfg.HTTP)
	tlsCheck := monitor.NewTLSChecker(l, clk, cfg.TLS.Timeout)
	perf := monitor.NewPerfChecker(l, uptime.Client(), cfg.HTTP.UserAgent)
	engine := monitor.NewEngine(l, alerts, sender, clk, monitor.EngineConfig{
		SuppressionWindow: cfg.Alerts.SuppressionWindow,
		DegradedHighMS:    cfg.Alerts.DegradedHighMS,
		PerfCeilingMS:     cfg.Alerts.PerfCeilingMS,
		ExpiryWarnDays:    cfg.Alerts.ExpiryWarnDays,
	})
	handler := monitor.NewTickHandler(l, targets, results, tx, engine, async, clk, uptime, tlsCheck, perf)
	svc := monitor.NewService(l, registry, handler, targets,
		cfg.Sched.RefreshInterval, cfg.Sched.DefaultInterval, cfg.Sched.DefaultTimeout)

	// run
	if err := svc.Start(root); err != nil {
		l.Fatal("scheduler start", zap.Error(err))
	}

	<-root.Done()

	// graceful shutdown
	svc.Stop()
	shCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	_ = ms.Shutdown(shCtx)
	l.Info("bye")
}
