package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/NordCoder/Sitewatch/internal/domain/alert"
	"github.com/NordCoder/Sitewatch/internal/domain/broadcast"
	"github.com/NordCoder/Sitewatch/internal/domain/result"
	"github.com/NordCoder/Sitewatch/internal/domain/target"
	"github.com/NordCoder/Sitewatch/internal/repository/postgres"
)

// Shared in-memory fakes for the monitor package tests. All of them are
// safe for concurrent use because scheduler tests tick from goroutines.

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(at time.Time) *fakeClock { return &fakeClock{now: at} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fakeTargetRepo struct {
	mu       sync.Mutex
	targets  map[int64]*target.Target
	listErr  error
	getErr   error
	statuses map[int64]string
}

func newFakeTargetRepo(ts ...*target.Target) *fakeTargetRepo {
	r := &fakeTargetRepo{
		targets:  make(map[int64]*target.Target),
		statuses: make(map[int64]string),
	}
	for _, t := range ts {
		r.targets[t.ID] = t
	}
	return r
}

func (r *fakeTargetRepo) GetByID(_ context.Context, id int64) (*target.Target, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	t, ok := r.targets[id]
	if !ok {
		return nil, postgres.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTargetRepo) ListEnabled(_ context.Context) ([]*target.Target, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []*target.Target
	for _, t := range r.targets {
		if t.Enabled {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeTargetRepo) UpdateLastStatus(_ context.Context, id int64, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.targets[id]; !ok {
		return postgres.ErrNotFound
	}
	r.statuses[id] = status
	return nil
}

func (r *fakeTargetRepo) setListErr(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listErr = err
}

type fakeResultRepo struct {
	mu        sync.Mutex
	inserted  []*result.CheckResult
	insertErr error
}

func (r *fakeResultRepo) Insert(_ context.Context, res *result.CheckResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertErr != nil {
		return r.insertErr
	}
	r.inserted = append(r.inserted, res)
	return nil
}

func (r *fakeResultRepo) LatestByTarget(_ context.Context, targetID int64) (*result.CheckResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.inserted) - 1; i >= 0; i-- {
		if r.inserted[i].TargetID == targetID {
			return r.inserted[i], nil
		}
	}
	return nil, postgres.ErrNotFound
}

func (r *fakeResultRepo) ListSince(_ context.Context, targetID int64, since time.Time) ([]*result.CheckResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*result.CheckResult
	for _, res := range r.inserted {
		if res.TargetID == targetID && !res.CheckedAt.Before(since) {
			out = append(out, res)
		}
	}
	return out, nil
}

func (r *fakeResultRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.inserted)
}

type fakeAlertRepo struct {
	mu       sync.Mutex
	events   []*alert.Event
	rules    map[int64][]*alert.Rule
	resolved []int64
	probeErr error
}

func newFakeAlertRepo() *fakeAlertRepo {
	return &fakeAlertRepo{rules: make(map[int64][]*alert.Rule)}
}

func (r *fakeAlertRepo) InsertEvent(_ context.Context, e *alert.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *e
	r.events = append(r.events, &cp)
	return nil
}

func (r *fakeAlertRepo) LastEventAfter(_ context.Context, targetID int64, typ alert.Type, cutoff time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.probeErr != nil {
		return false, r.probeErr
	}
	for _, e := range r.events {
		if e.TargetID == targetID && e.Type == typ && e.TriggeredAt.After(cutoff) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeAlertRepo) ResolveOpen(_ context.Context, targetID int64, _ alert.Type, _ time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resolved = append(r.resolved, targetID)
	return nil
}

func (r *fakeAlertRepo) ListRules(_ context.Context, targetID int64) ([]*alert.Rule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rules[targetID], nil
}

func (r *fakeAlertRepo) eventCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

type fakeSender struct {
	mu    sync.Mutex
	sent  []*alert.Event
	fail  bool
	rules []*alert.Rule
}

func (s *fakeSender) Send(_ context.Context, r *alert.Rule, e *alert.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return context.DeadlineExceeded
	}
	s.sent = append(s.sent, e)
	s.rules = append(s.rules, r)
	return nil
}

func (s *fakeSender) sentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

type fakeBroadcaster struct {
	mu      sync.Mutex
	updates []broadcast.Update
	notices []broadcast.Notice
}

func (b *fakeBroadcaster) PublishUpdate(_ context.Context, u broadcast.Update) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.updates = append(b.updates, u)
	return nil
}

func (b *fakeBroadcaster) PublishAlert(_ context.Context, n broadcast.Notice) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.notices = append(b.notices, n)
	return nil
}

func (b *fakeBroadcaster) updateCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.updates)
}

func (b *fakeBroadcaster) noticeCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.notices)
}

// passTx satisfies postgres.Transactor without a database: the callback
// runs directly on the fakes, which do not distinguish tx contexts.
type passTx struct{}

func (passTx) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func ptrStr(s string) *string { return &s }
