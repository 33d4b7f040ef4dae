package monitor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestScorePerf(t *testing.T) {
	cases := []struct {
		name      string
		status    int
		elapsedMS int64
		want      int
	}{
		{"fast", 200, 50, 100},
		{"sub-half-second", 200, 350, 90},
		{"sub-second", 200, 800, 75},
		{"sub-two-seconds", 200, 1500, 60},
		{"sub-five-seconds", 200, 4000, 50},
		{"crawling", 200, 9000, 30},
		{"band edge 200ms", 200, 200, 90},
		{"band edge 5000ms", 200, 5000, 30},
		{"client error", 404, 50, 25},
		{"server error", 503, 50, 0},
		{"server error ignores speed", 500, 9000, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, scorePerf(tc.status, tc.elapsedMS))
		})
	}
}

func TestPerfCheck_SampleOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("hello"))
	}))
	defer srv.Close()

	c := NewPerfChecker(zap.NewNop(), srv.Client(), "sitewatch-test/1.0")
	score := c.Check(context.Background(), srv.URL, 2*time.Second)

	require.NotNil(t, score)
	assert.Greater(t, *score, 0)
}

func TestPerfCheck_ServerErrorScoresZero(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewPerfChecker(zap.NewNop(), srv.Client(), "")
	score := c.Check(context.Background(), srv.URL, 2*time.Second)

	require.NotNil(t, score)
	assert.Equal(t, 0, *score)
}

func TestPerfCheck_NetworkFailureYieldsNil(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	url := srv.URL
	client := srv.Client()
	srv.Close()

	c := NewPerfChecker(zap.NewNop(), client, "")
	assert.Nil(t, c.Check(context.Background(), url, time.Second))
}
