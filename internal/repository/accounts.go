package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Account is one business account row. Subscription fields are written by
// the billing webhook processor, which is outside this module; here they
// are read-only inputs to the usage policy.
type Account struct {
	ID                 uuid.UUID
	Email              string
	Tier               string
	TrialExpiry        time.Time
	SubscriptionActive bool
	PeriodLimit        int64
	CreatedAt          time.Time
	UpdatedAt          sql.NullTime
}

const getAccount = `
SELECT id, email, tier, trial_expiry, subscription_active, period_limit, created_at, updated_at
FROM accounts
WHERE id = $1
`

// GetAccount fetches a single account by ID.
func (q *Queries) GetAccount(ctx context.Context, id uuid.UUID) (Account, error) {
	row := q.db.QueryRowContext(ctx, getAccount, id)
	var a Account
	err := row.Scan(
		&a.ID,
		&a.Email,
		&a.Tier,
		&a.TrialExpiry,
		&a.SubscriptionActive,
		&a.PeriodLimit,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	return a, err
}
