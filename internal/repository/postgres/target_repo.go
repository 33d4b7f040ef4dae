package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/NordCoder/Sitewatch/internal/domain/target"

	"github.com/jackc/pgx/v5"
)

var _ target.Repo = (*TargetRepoImpl)(nil)

type TargetRepoImpl struct {
	db *DB
}

func NewTargetRepo(db *DB) *TargetRepoImpl { return &TargetRepoImpl{db: db} }

const (
	qTargetGetByID = `
SELECT id, owner_id, name, url, kind, check_interval_s, timeout_s, enabled, last_status, created_at, updated_at
FROM targets
WHERE id = $1;
`

	qTargetListEnabled = `
SELECT id, owner_id, name, url, kind, check_interval_s, timeout_s, enabled, last_status, created_at, updated_at
FROM targets
WHERE enabled = TRUE
ORDER BY id;
`

	qTargetUpdateStatus = `
UPDATE targets
SET last_status = $2, updated_at = NOW()
WHERE id = $1;
`
)

func scanTarget(row pgx.Row, t *target.Target) error {
	var intervalSec, timeoutSec int
	if err := row.Scan(
		&t.ID,
		&t.OwnerID,
		&t.Name,
		&t.URL,
		&t.Kind,
		&intervalSec,
		&timeoutSec,
		&t.Enabled,
		&t.LastStatus,
		&t.CreatedAt,
		&t.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("scan target: %w", err)
	}
	t.Interval = time.Duration(intervalSec) * time.Second
	t.Timeout = time.Duration(timeoutSec) * time.Second
	return nil
}

func (r *TargetRepoImpl) GetByID(ctx context.Context, id int64) (*target.Target, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	var t target.Target
	if err := scanTarget(r.db.Pool.QueryRow(ctx, qTargetGetByID, id), &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TargetRepoImpl) ListEnabled(ctx context.Context) ([]*target.Target, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.Pool.Query(ctx, qTargetListEnabled)
	if err != nil {
		return nil, fmt.Errorf("query targets: %w", err)
	}
	defer rows.Close()

	var out []*target.Target
	for rows.Next() {
		var t target.Target
		if err := scanTarget(rows, &t); err != nil {
			return nil, err
		}
		out = append(out, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

func (r *TargetRepoImpl) UpdateLastStatus(ctx context.Context, id int64, status string) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	eq := r.db.execQueryer(ctx)
	cmd, err := eq.Exec(ctx, qTargetUpdateStatus, id, status)
	if err != nil {
		return fmt.Errorf("update last_status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
