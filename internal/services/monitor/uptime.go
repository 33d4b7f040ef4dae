package monitor

import (
	"context"
	"crypto/tls"
	"errors"
	"net"
	"net/http"
	"time"

	config "github.com/NordCoder/Sitewatch/internal/config/monitor"
	"github.com/NordCoder/Sitewatch/internal/domain/result"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// UptimeOutcome is the uptime probe's contribution to one tick. It alone
// decides the overall status of the merged result.
type UptimeOutcome struct {
	Status         result.Status
	ResponseTimeMS int64
	StatusCode     *int
	ErrorMessage   *string
}

type UptimeChecker struct {
	client    *http.Client
	userAgent string
	slowMS    int64
}

func NewUptimeChecker(cfg config.HTTPCheck) *UptimeChecker {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   cfg.Timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	}

	client := &http.Client{
		Timeout:   cfg.Timeout,
		Transport: otelhttp.NewTransport(transport),
	}
	if !cfg.FollowRedirects {
		client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	return &UptimeChecker{
		client:    client,
		userAgent: cfg.UserAgent,
		slowMS:    cfg.SlowThresholdMS,
	}
}

// Client exposes the probe's http client so the performance sampler can
// share its transport and connection pool.
func (c *UptimeChecker) Client() *http.Client { return c.client }

// Check issues one GET bounded by the target's own timeout. Network and
// timeout failures come back as a down outcome, never as an error.
func (c *UptimeChecker) Check(ctx context.Context, url string, timeout time.Duration) UptimeOutcome {
	if timeout <= 0 {
		timeout = c.client.Timeout
	}
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		msg := "invalid request: " + err.Error()
		return UptimeOutcome{Status: result.StatusDown, ErrorMessage: &msg}
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.client.Do(req)
	elapsed := time.Since(start).Milliseconds()
	if err != nil {
		msg := classifyProbeError(err)
		return UptimeOutcome{
			Status:         result.StatusDown,
			ResponseTimeMS: elapsed,
			ErrorMessage:   &msg,
		}
	}
	defer resp.Body.Close()

	code := resp.StatusCode
	out := UptimeOutcome{ResponseTimeMS: elapsed, StatusCode: &code}

	switch {
	case code >= 500:
		msg := "server error: " + resp.Status
		out.Status = result.StatusDown
		out.ErrorMessage = &msg
	case code >= 400:
		msg := "client error: " + resp.Status
		out.Status = result.StatusDegraded
		out.ErrorMessage = &msg
	case elapsed > c.slowMS:
		msg := "slow response"
		out.Status = result.StatusDegraded
		out.ErrorMessage = &msg
	default:
		out.Status = result.StatusUp
	}
	return out
}

func classifyProbeError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "timeout"
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return "dns failure: " + dnsErr.Name
	}
	return "connection failed: " + err.Error()
}
