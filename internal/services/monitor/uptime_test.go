package monitor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	config "github.com/NordCoder/Sitewatch/internal/config/monitor"
	"github.com/NordCoder/Sitewatch/internal/domain/result"

	"github.com/stretchr/testify/require"
)

func testUptimeChecker(slowMS int64) *UptimeChecker {
	return NewUptimeChecker(config.HTTPCheck{
		Timeout:         5 * time.Second,
		UserAgent:       "sitewatch-test/1.0",
		FollowRedirects: true,
		SlowThresholdMS: slowMS,
	})
}

func TestUptimeCheck_OK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "sitewatch-test/1.0", r.Header.Get("User-Agent"))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	out := testUptimeChecker(5000).Check(context.Background(), srv.URL, 2*time.Second)

	require.Equal(t, result.StatusUp, out.Status)
	require.NotNil(t, out.StatusCode)
	require.Equal(t, http.StatusOK, *out.StatusCode)
	require.Nil(t, out.ErrorMessage)
	require.GreaterOrEqual(t, out.ResponseTimeMS, int64(0))
}

func TestUptimeCheck_ClientErrorIsDegraded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	out := testUptimeChecker(5000).Check(context.Background(), srv.URL, 2*time.Second)

	require.Equal(t, result.StatusDegraded, out.Status)
	require.NotNil(t, out.StatusCode)
	require.Equal(t, http.StatusNotFound, *out.StatusCode)
	require.NotNil(t, out.ErrorMessage)
	require.Contains(t, *out.ErrorMessage, "client error")
}

func TestUptimeCheck_ServerErrorIsDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	out := testUptimeChecker(5000).Check(context.Background(), srv.URL, 2*time.Second)

	require.Equal(t, result.StatusDown, out.Status)
	require.NotNil(t, out.StatusCode)
	require.Equal(t, http.StatusServiceUnavailable, *out.StatusCode)
	require.NotNil(t, out.ErrorMessage)
	require.Contains(t, *out.ErrorMessage, "server error")
}

func TestUptimeCheck_SlowResponseIsDegraded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(60 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	// threshold well below the handler's sleep
	out := testUptimeChecker(10).Check(context.Background(), srv.URL, 2*time.Second)

	require.Equal(t, result.StatusDegraded, out.Status)
	require.NotNil(t, out.ErrorMessage)
	require.Equal(t, "slow response", *out.ErrorMessage)
	require.NotNil(t, out.StatusCode)
	require.Equal(t, http.StatusOK, *out.StatusCode)
}

func TestUptimeCheck_TimeoutIsDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	out := testUptimeChecker(5000).Check(context.Background(), srv.URL, 50*time.Millisecond)

	require.Equal(t, result.StatusDown, out.Status)
	require.Nil(t, out.StatusCode)
	require.NotNil(t, out.ErrorMessage)
	require.Equal(t, "timeout", *out.ErrorMessage)
}

func TestUptimeCheck_ConnectionRefusedIsDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	url := srv.URL
	srv.Close() // nobody listening anymore

	out := testUptimeChecker(5000).Check(context.Background(), url, 2*time.Second)

	require.Equal(t, result.StatusDown, out.Status)
	require.Nil(t, out.StatusCode)
	require.NotNil(t, out.ErrorMessage)
}

func TestUptimeCheck_InvalidURL(t *testing.T) {
	out := testUptimeChecker(5000).Check(context.Background(), "http://\x00bad", 2*time.Second)

	require.Equal(t, result.StatusDown, out.Status)
	require.NotNil(t, out.ErrorMessage)
}
