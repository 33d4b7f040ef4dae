package monitor_config

import (
	"time"

	"github.com/NordCoder/Sitewatch/internal/obs"
	pginfra "github.com/NordCoder/Sitewatch/internal/repository/postgres"
)

type Kafka struct {
	Enable       bool     `mapstructure:"enable"`
	Brokers      []string `mapstructure:"brokers"`
	UpdatesTopic string   `mapstructure:"updates_topic"`
	AlertsTopic  string   `mapstructure:"alerts_topic"`
	NotifyTopic  string   `mapstructure:"notify_topic"`
}

type HTTPCheck struct {
	Timeout         time.Duration `mapstructure:"timeout"`
	UserAgent       string        `mapstructure:"user_agent"`
	FollowRedirects bool          `mapstructure:"follow_redirects"`
	SlowThresholdMS int64         `mapstructure:"slow_threshold_ms"`
}

type TLSCheck struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

type Sched struct {
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
	DefaultInterval time.Duration `mapstructure:"default_interval"`
	DefaultTimeout  time.Duration `mapstructure:"default_timeout"`
}

type Alerts struct {
	SuppressionWindow time.Duration `mapstructure:"suppression_window"`
	DegradedHighMS    int64         `mapstructure:"degraded_high_ms"`
	PerfCeilingMS     int64         `mapstructure:"perf_ceiling_ms"`
	ExpiryWarnDays    int           `mapstructure:"expiry_warn_days"`
}

type Server struct {
	MetricsAddr string `mapstructure:"metrics_addr"`
}

type OTEL struct {
	Enable       bool    `mapstructure:"enable"`
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	ServiceName  string  `mapstructure:"service_name"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
}

func (oc *OTEL) AsOTELConfig() obs.OTELConfig {
	return obs.OTELConfig{
		Enable:      oc.Enable,
		Endpoint:    oc.OTLPEndpoint,
		ServiceName: oc.ServiceName,
		SampleRatio: oc.SampleRatio,
	}
}

type Log struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
	Env    string `mapstructure:"env"`
}

func (lc *Log) AsLoggerConfig() obs.LogConfig {
	return obs.LogConfig{
		Level:  lc.Level,
		Pretty: lc.Pretty,
		App:    "sitewatch/monitor",
		Env:    lc.Env,
	}
}

type Config struct {
	DB     pginfra.Config `mapstructure:"db"`
	Kafka  Kafka          `mapstructure:"kafka"`
	HTTP   HTTPCheck      `mapstructure:"http"`
	TLS    TLSCheck       `mapstructure:"tls"`
	Sched  Sched          `mapstructure:"sched"`
	Alerts Alerts         `mapstructure:"alerts"`
	Server Server         `mapstructure:"server"`
	OTEL   OTEL           `mapstructure:"otel"`
	Log    Log            `mapstructure:"log"`
}
