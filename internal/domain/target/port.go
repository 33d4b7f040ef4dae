package target

import "context"

type Repo interface {
	GetByID(ctx context.Context, id int64) (*Target, error)
	ListEnabled(ctx context.Context) ([]*Target, error)
	UpdateLastStatus(ctx context.Context, id int64, status string) error
}
