package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Estimate is one persisted estimate row. The table is append-only: rows
// are inserted by the submission pipeline and never updated.
type Estimate struct {
	ID            uuid.UUID
	AccountID     uuid.UUID
	ProjectID     uuid.UUID
	ServiceKey    string
	ServiceLabel  string
	Unit          string
	Measurement   decimal.Decimal
	EstimatedCost decimal.Decimal
	Description   string
	Address       sql.NullString
	CreatedAt     time.Time
}

const insertEstimate = `
INSERT INTO estimates (id, account_id, project_id, service_key, service_label, unit, measurement, estimated_cost, description, address)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING id, account_id, project_id, service_key, service_label, unit, measurement, estimated_cost, description, address, created_at
`

// InsertEstimateParams contains the columns for a new estimate row.
type InsertEstimateParams struct {
	ID            uuid.UUID
	AccountID     uuid.UUID
	ProjectID     uuid.UUID
	ServiceKey    string
	ServiceLabel  string
	Unit          string
	Measurement   decimal.Decimal
	EstimatedCost decimal.Decimal
	Description   string
	Address       sql.NullString
}

// InsertEstimate appends one estimate.
func (q *Queries) InsertEstimate(ctx context.Context, arg InsertEstimateParams) (Estimate, error) {
	row := q.db.QueryRowContext(ctx, insertEstimate,
		arg.ID,
		arg.AccountID,
		arg.ProjectID,
		arg.ServiceKey,
		arg.ServiceLabel,
		arg.Unit,
		arg.Measurement,
		arg.EstimatedCost,
		arg.Description,
		arg.Address,
	)
	var e Estimate
	err := row.Scan(
		&e.ID,
		&e.AccountID,
		&e.ProjectID,
		&e.ServiceKey,
		&e.ServiceLabel,
		&e.Unit,
		&e.Measurement,
		&e.EstimatedCost,
		&e.Description,
		&e.Address,
		&e.CreatedAt,
	)
	return e, err
}

const countEstimatesInPeriod = `
SELECT COUNT(*)
FROM estimates
WHERE account_id = $1 AND created_at >= $2 AND created_at < $3
`

// CountEstimatesInPeriodParams bounds the usage count to one billing
// period. The usage counter is always derived from this count rather
// than maintained as a mutable field, so it cannot drift.
type CountEstimatesInPeriodParams struct {
	AccountID   uuid.UUID
	PeriodStart time.Time
	PeriodEnd   time.Time
}

// CountEstimatesInPeriod counts an account's estimates in a time window.
func (q *Queries) CountEstimatesInPeriod(ctx context.Context, arg CountEstimatesInPeriodParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, countEstimatesInPeriod, arg.AccountID, arg.PeriodStart, arg.PeriodEnd)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const listEstimatesByProject = `
SELECT id, account_id, project_id, service_key, service_label, unit, measurement, estimated_cost, description, address, created_at
FROM estimates
WHERE account_id = $1 AND project_id = $2
ORDER BY created_at
`

// ListEstimatesByProjectParams identifies one drawing session.
type ListEstimatesByProjectParams struct {
	AccountID uuid.UUID
	ProjectID uuid.UUID
}

// ListEstimatesByProject returns a session's estimates in creation order.
func (q *Queries) ListEstimatesByProject(ctx context.Context, arg ListEstimatesByProjectParams) ([]Estimate, error) {
	rows, err := q.db.QueryContext(ctx, listEstimatesByProject, arg.AccountID, arg.ProjectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Estimate
	for rows.Next() {
		var e Estimate
		if err := rows.Scan(
			&e.ID,
			&e.AccountID,
			&e.ProjectID,
			&e.ServiceKey,
			&e.ServiceLabel,
			&e.Unit,
			&e.Measurement,
			&e.EstimatedCost,
			&e.Description,
			&e.Address,
			&e.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return items, rows.Err()
}
