package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/NordCoder/Sitewatch/internal/domain/alert"
)

var _ alert.Repo = (*AlertRepoImpl)(nil)

type AlertRepoImpl struct {
	db *DB
}

func NewAlertRepo(db *DB) *AlertRepoImpl { return &AlertRepoImpl{db: db} }

const (
	qAlertInsert = `
INSERT INTO alert_events (target_id, alert_type, message, severity, triggered_at, resolved_at, delivery_status)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id;
`

	qAlertExistsAfter = `
SELECT EXISTS (
  SELECT 1 FROM alert_events
  WHERE target_id = $1 AND alert_type = $2 AND triggered_at > $3
);
`

	qAlertResolveOpen = `
UPDATE alert_events
SET resolved_at = $3
WHERE target_id = $1 AND alert_type = $2 AND resolved_at IS NULL;
`

	qAlertListRules = `
SELECT id, target_id, channel, destination, enabled, slow_threshold_ms
FROM alert_rules
WHERE target_id = $1
ORDER BY id;
`
)

func (r *AlertRepoImpl) InsertEvent(ctx context.Context, e *alert.Event) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	eq := r.db.execQueryer(ctx)
	if err := eq.QueryRow(ctx, qAlertInsert,
		e.TargetID,
		string(e.Type),
		e.Message,
		string(e.Severity),
		e.TriggeredAt,
		e.ResolvedAt,
		string(e.DeliveryStatus),
	).Scan(&e.ID); err != nil {
		return fmt.Errorf("insert alert_event: %w", err)
	}
	return nil
}

func (r *AlertRepoImpl) LastEventAfter(ctx context.Context, targetID int64, typ alert.Type, cutoff time.Time) (bool, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	var exists bool
	if err := r.db.Pool.QueryRow(ctx, qAlertExistsAfter, targetID, string(typ), cutoff).Scan(&exists); err != nil {
		return false, fmt.Errorf("probe alert_events: %w", err)
	}
	return exists, nil
}

func (r *AlertRepoImpl) ResolveOpen(ctx context.Context, targetID int64, typ alert.Type, at time.Time) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	eq := r.db.execQueryer(ctx)
	if _, err := eq.Exec(ctx, qAlertResolveOpen, targetID, string(typ), at); err != nil {
		return fmt.Errorf("resolve alert_events: %w", err)
	}
	return nil
}

func (r *AlertRepoImpl) ListRules(ctx context.Context, targetID int64) ([]*alert.Rule, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.Pool.Query(ctx, qAlertListRules, targetID)
	if err != nil {
		return nil, fmt.Errorf("query alert_rules: %w", err)
	}
	defer rows.Close()

	var out []*alert.Rule
	for rows.Next() {
		var rl alert.Rule
		if err := rows.Scan(&rl.ID, &rl.TargetID, &rl.Channel, &rl.Destination, &rl.Enabled, &rl.SlowThreshold); err != nil {
			return nil, fmt.Errorf("scan alert_rule: %w", err)
		}
		out = append(out, &rl)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}
