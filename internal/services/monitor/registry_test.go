package monitor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/NordCoder/Sitewatch/internal/domain/target"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRegistry_SnapshotNormalizes(t *testing.T) {
	repo := newFakeTargetRepo(&target.Target{
		ID: 1, Name: "site", URL: "http://example.com", Enabled: true,
		// interval and timeout deliberately unset
	})
	r := NewRegistry(zap.NewNop(), repo, time.Minute, 10*time.Second)

	got := r.Snapshot(context.Background())
	require.Len(t, got, 1)
	assert.Equal(t, time.Minute, got[0].Interval)
	assert.Equal(t, 10*time.Second, got[0].Timeout)
	assert.Equal(t, target.KindUptime, got[0].Kind)
}

func TestRegistry_ServesLastKnownGoodOnFailure(t *testing.T) {
	repo := newFakeTargetRepo(&target.Target{
		ID: 1, Name: "site", URL: "http://example.com",
		Interval: time.Minute, Timeout: 10 * time.Second, Enabled: true,
	})
	r := NewRegistry(zap.NewNop(), repo, time.Minute, 10*time.Second)
	ctx := context.Background()

	first := r.Snapshot(ctx)
	require.Len(t, first, 1)

	repo.setListErr(errors.New("store down"))
	second := r.Snapshot(ctx)
	require.Len(t, second, 1, "fallback must serve the last good list")
	assert.Equal(t, int64(1), second[0].ID)

	repo.setListErr(nil)
	third := r.Snapshot(ctx)
	require.Len(t, third, 1)
}

func TestRegistry_EmptyBeforeFirstLoad(t *testing.T) {
	repo := newFakeTargetRepo()
	repo.setListErr(errors.New("store down"))
	r := NewRegistry(zap.NewNop(), repo, time.Minute, 10*time.Second)

	// a failure with no prior good load yields an empty schedule, not a panic
	assert.Empty(t, r.Snapshot(context.Background()))
}
