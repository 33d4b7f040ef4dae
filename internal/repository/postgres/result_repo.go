package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/NordCoder/Sitewatch/internal/domain/result"

	"github.com/jackc/pgx/v5"
)

var _ result.Repo = (*ResultRepoImpl)(nil)

type ResultRepoImpl struct {
	db *DB
}

func NewResultRepo(db *DB) *ResultRepoImpl { return &ResultRepoImpl{db: db} }

const (
	qResultInsert = `
INSERT INTO check_results (target_id, checked_at, status, response_time_ms, status_code, error_message, ssl_expiry_days, ssl_valid, ssl_grade, performance_score)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING id;
`

	qResultLatest = `
SELECT id, target_id, checked_at, status, response_time_ms, status_code, error_message, ssl_expiry_days, ssl_valid, ssl_grade, performance_score
FROM check_results
WHERE target_id = $1
ORDER BY checked_at DESC
LIMIT 1;
`

	qResultSince = `
SELECT id, target_id, checked_at, status, response_time_ms, status_code, error_message, ssl_expiry_days, ssl_valid, ssl_grade, performance_score
FROM check_results
WHERE target_id = $1 AND checked_at >= $2
ORDER BY checked_at DESC;
`
)

// resultRow mirrors the check_results table. Optional columns are pointers
// so NULLs survive the trip through the store unchanged.
type resultRow struct {
	ID               int64
	TargetID         int64
	CheckedAt        time.Time
	Status           string
	ResponseTimeMS   int64
	StatusCode       *int
	ErrorMessage     *string
	SSLExpiryDays    *int
	SSLValid         *bool
	SSLGrade         *string
	PerformanceScore *int
}

func rowFromResult(r *result.CheckResult) resultRow {
	row := resultRow{
		ID:               r.ID,
		TargetID:         r.TargetID,
		CheckedAt:        r.CheckedAt,
		Status:           string(r.Status),
		ResponseTimeMS:   r.ResponseTimeMS,
		StatusCode:       r.StatusCode,
		ErrorMessage:     r.ErrorMessage,
		PerformanceScore: r.PerformanceScore,
	}
	if r.TLS != nil {
		days := r.TLS.DaysUntilExpiry
		valid := r.TLS.CertificateValid
		grade := r.TLS.Grade
		row.SSLExpiryDays = &days
		row.SSLValid = &valid
		row.SSLGrade = &grade
	}
	return row
}

func (row resultRow) toResult() *result.CheckResult {
	r := &result.CheckResult{
		ID:               row.ID,
		TargetID:         row.TargetID,
		CheckedAt:        row.CheckedAt,
		Status:           result.Status(row.Status),
		ResponseTimeMS:   row.ResponseTimeMS,
		StatusCode:       row.StatusCode,
		ErrorMessage:     row.ErrorMessage,
		PerformanceScore: row.PerformanceScore,
	}
	if row.SSLExpiryDays != nil && row.SSLValid != nil {
		tls := &result.TLSInfo{
			DaysUntilExpiry:  *row.SSLExpiryDays,
			CertificateValid: *row.SSLValid,
			ChainValid:       *row.SSLValid,
		}
		if row.SSLGrade != nil {
			tls.Grade = *row.SSLGrade
		}
		r.TLS = tls
	}
	return r
}

func scanResultRow(row pgx.Row) (*result.CheckResult, error) {
	var rr resultRow
	if err := row.Scan(
		&rr.ID,
		&rr.TargetID,
		&rr.CheckedAt,
		&rr.Status,
		&rr.ResponseTimeMS,
		&rr.StatusCode,
		&rr.ErrorMessage,
		&rr.SSLExpiryDays,
		&rr.SSLValid,
		&rr.SSLGrade,
		&rr.PerformanceScore,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan check_result: %w", err)
	}
	return rr.toResult(), nil
}

func (r *ResultRepoImpl) Insert(ctx context.Context, res *result.CheckResult) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	row := rowFromResult(res)
	eq := r.db.execQueryer(ctx)
	if err := eq.QueryRow(ctx, qResultInsert,
		row.TargetID,
		row.CheckedAt,
		row.Status,
		row.ResponseTimeMS,
		row.StatusCode,
		row.ErrorMessage,
		row.SSLExpiryDays,
		row.SSLValid,
		row.SSLGrade,
		row.PerformanceScore,
	).Scan(&res.ID); err != nil {
		return fmt.Errorf("insert check_result: %w", err)
	}
	return nil
}

func (r *ResultRepoImpl) LatestByTarget(ctx context.Context, targetID int64) (*result.CheckResult, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	return scanResultRow(r.db.Pool.QueryRow(ctx, qResultLatest, targetID))
}

func (r *ResultRepoImpl) ListSince(ctx context.Context, targetID int64, since time.Time) ([]*result.CheckResult, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.Pool.Query(ctx, qResultSince, targetID, since)
	if err != nil {
		return nil, fmt.Errorf("query check_results: %w", err)
	}
	defer rows.Close()

	var out []*result.CheckResult
	for rows.Next() {
		res, err := scanResultRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}
