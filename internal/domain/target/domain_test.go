package target

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name         string
		in           Target
		wantInterval time.Duration
		wantTimeout  time.Duration
	}{
		{
			name:         "zero values take defaults",
			in:           Target{},
			wantInterval: time.Minute,
			wantTimeout:  10 * time.Second,
		},
		{
			name:         "valid row untouched",
			in:           Target{Interval: 5 * time.Minute, Timeout: 30 * time.Second},
			wantInterval: 5 * time.Minute,
			wantTimeout:  30 * time.Second,
		},
		{
			name:         "timeout at or above interval falls back",
			in:           Target{Interval: 5 * time.Minute, Timeout: 5 * time.Minute},
			wantInterval: 5 * time.Minute,
			wantTimeout:  10 * time.Second,
		},
		{
			name: "default timeout above a tiny interval is halved",
			in:   Target{Interval: 5 * time.Second},
			// default 10s >= 5s interval, so interval/2 wins
			wantInterval: 5 * time.Second,
			wantTimeout:  2500 * time.Millisecond,
		},
		{
			name:         "negative interval takes default",
			in:           Target{Interval: -time.Minute, Timeout: 5 * time.Second},
			wantInterval: time.Minute,
			wantTimeout:  5 * time.Second,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tg := tc.in
			tg.Normalize(time.Minute, 10*time.Second)
			assert.Equal(t, tc.wantInterval, tg.Interval)
			assert.Equal(t, tc.wantTimeout, tg.Timeout)
			assert.Equal(t, KindUptime, tg.Kind)
		})
	}
}

func TestIsHTTPS(t *testing.T) {
	assert.True(t, (&Target{URL: "https://example.com"}).IsHTTPS())
	assert.False(t, (&Target{URL: "http://example.com"}).IsHTTPS())
	assert.False(t, (&Target{URL: ""}).IsHTTPS())
	assert.False(t, (&Target{URL: "https:/"}).IsHTTPS())
}
