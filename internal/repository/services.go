package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service is one catalog row. The primary key is (account_id, key); the
// key never changes after insert.
type Service struct {
	AccountID   uuid.UUID
	Key         string
	Label       string
	Unit        string
	BasePrice   decimal.Decimal
	Calc        string
	UsesStories bool
	Position    int32
	CreatedAt   time.Time
	UpdatedAt   sql.NullTime
}

const listServicesByAccount = `
SELECT account_id, key, label, unit, base_price, calc, uses_stories, position, created_at, updated_at
FROM services
WHERE account_id = $1
ORDER BY position, key
`

// ListServicesByAccount returns the account's catalog in insertion order.
func (q *Queries) ListServicesByAccount(ctx context.Context, accountID uuid.UUID) ([]Service, error) {
	rows, err := q.db.QueryContext(ctx, listServicesByAccount, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Service
	for rows.Next() {
		var s Service
		if err := rows.Scan(
			&s.AccountID,
			&s.Key,
			&s.Label,
			&s.Unit,
			&s.BasePrice,
			&s.Calc,
			&s.UsesStories,
			&s.Position,
			&s.CreatedAt,
			&s.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

const getServiceByKey = `
SELECT account_id, key, label, unit, base_price, calc, uses_stories, position, created_at, updated_at
FROM services
WHERE account_id = $1 AND key = $2
`

// GetServiceByKeyParams identifies one service within an account.
type GetServiceByKeyParams struct {
	AccountID uuid.UUID
	Key       string
}

// GetServiceByKey fetches a single service by account and key.
func (q *Queries) GetServiceByKey(ctx context.Context, arg GetServiceByKeyParams) (Service, error) {
	row := q.db.QueryRowContext(ctx, getServiceByKey, arg.AccountID, arg.Key)
	var s Service
	err := row.Scan(
		&s.AccountID,
		&s.Key,
		&s.Label,
		&s.Unit,
		&s.BasePrice,
		&s.Calc,
		&s.UsesStories,
		&s.Position,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	return s, err
}

const insertService = `
INSERT INTO services (account_id, key, label, unit, base_price, calc, uses_stories, position)
VALUES ($1, $2, $3, $4, $5, $6, $7,
        (SELECT COALESCE(MAX(position) + 1, 0) FROM services WHERE account_id = $1))
RETURNING account_id, key, label, unit, base_price, calc, uses_stories, position, created_at, updated_at
`

// InsertServiceParams contains the columns for a new service row. The
// position is assigned from the current catalog tail.
type InsertServiceParams struct {
	AccountID   uuid.UUID
	Key         string
	Label       string
	Unit        string
	BasePrice   decimal.Decimal
	Calc        string
	UsesStories bool
}

// InsertService appends a service to the account's catalog. A duplicate
// key fails with a unique violation from the primary key.
func (q *Queries) InsertService(ctx context.Context, arg InsertServiceParams) (Service, error) {
	row := q.db.QueryRowContext(ctx, insertService,
		arg.AccountID,
		arg.Key,
		arg.Label,
		arg.Unit,
		arg.BasePrice,
		arg.Calc,
		arg.UsesStories,
	)
	var s Service
	err := row.Scan(
		&s.AccountID,
		&s.Key,
		&s.Label,
		&s.Unit,
		&s.BasePrice,
		&s.Calc,
		&s.UsesStories,
		&s.Position,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	return s, err
}

const updateServiceByKey = `
UPDATE services
SET label = $3, unit = $4, base_price = $5, calc = $6, updated_at = now()
WHERE account_id = $1 AND key = $2
RETURNING account_id, key, label, unit, base_price, calc, uses_stories, position, created_at, updated_at
`

// UpdateServiceByKeyParams contains the editable columns of a service.
type UpdateServiceByKeyParams struct {
	AccountID uuid.UUID
	Key       string
	Label     string
	Unit      string
	BasePrice decimal.Decimal
	Calc      string
}

// UpdateServiceByKey edits a service in place. Returns sql.ErrNoRows when
// the key is absent.
func (q *Queries) UpdateServiceByKey(ctx context.Context, arg UpdateServiceByKeyParams) (Service, error) {
	row := q.db.QueryRowContext(ctx, updateServiceByKey,
		arg.AccountID,
		arg.Key,
		arg.Label,
		arg.Unit,
		arg.BasePrice,
		arg.Calc,
	)
	var s Service
	err := row.Scan(
		&s.AccountID,
		&s.Key,
		&s.Label,
		&s.Unit,
		&s.BasePrice,
		&s.Calc,
		&s.UsesStories,
		&s.Position,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	return s, err
}

const deleteServiceByKey = `
DELETE FROM services
WHERE account_id = $1 AND key = $2
`

// DeleteServiceByKeyParams identifies the service to remove.
type DeleteServiceByKeyParams struct {
	AccountID uuid.UUID
	Key       string
}

// DeleteServiceByKey removes a service. Deleting an absent key affects
// zero rows and is not an error.
func (q *Queries) DeleteServiceByKey(ctx context.Context, arg DeleteServiceByKeyParams) error {
	_, err := q.db.ExecContext(ctx, deleteServiceByKey, arg.AccountID, arg.Key)
	return err
}
