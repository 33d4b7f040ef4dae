package monitor

import (
	"context"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// perfBands maps response time onto a coarse 0-100 score. The banding is a
// design choice, not a measured SLA; swap the table to retune it.
var perfBands = []struct {
	BelowMS int64
	Score   int
}{
	{200, 100},
	{500, 90},
	{1000, 75},
	{2000, 60},
	{5000, 50},
}

const perfFloorScore = 30

// PerfChecker samples a second lightweight GET and derives a proxy score
// from status code, elapsed time, and payload size. No browser timing.
type PerfChecker struct {
	log       *zap.Logger
	client    *http.Client
	userAgent string
}

func NewPerfChecker(log *zap.Logger, client *http.Client, userAgent string) *PerfChecker {
	return &PerfChecker{
		log:       log.With(zap.String("component", "perf_check")),
		client:    client,
		userAgent: userAgent,
	}
}

// Check returns nil when the sample could not be taken; an absent score
// never degrades the tick's overall status.
func (c *PerfChecker) Check(ctx context.Context, url string, timeout time.Duration) *int {
	if timeout <= 0 {
		timeout = c.client.Timeout
	}
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Debug("perf sample failed", zap.String("url", url), zap.Error(err))
		return nil
	}
	defer resp.Body.Close()

	size, _ := io.Copy(io.Discard, resp.Body)
	elapsed := time.Since(start).Milliseconds()

	score := scorePerf(resp.StatusCode, elapsed)
	c.log.Debug("perf sample",
		zap.String("url", url),
		zap.Int64("elapsed_ms", elapsed),
		zap.Int64("bytes", size),
		zap.Int("score", score),
	)
	return &score
}

func scorePerf(statusCode int, elapsedMS int64) int {
	switch {
	case statusCode >= 500:
		return 0
	case statusCode >= 400:
		return 25
	}
	for _, b := range perfBands {
		if elapsedMS < b.BelowMS {
			return b.Score
		}
	}
	return perfFloorScore
}
