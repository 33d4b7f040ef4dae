package result

import (
	"context"
	"time"
)

type Repo interface {
	Insert(ctx context.Context, r *CheckResult) error
	LatestByTarget(ctx context.Context, targetID int64) (*CheckResult, error)
	ListSince(ctx context.Context, targetID int64, since time.Time) ([]*CheckResult, error)
}
