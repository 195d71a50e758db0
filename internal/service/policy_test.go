package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prestimate/prestimate/internal/domain"
	"github.com/prestimate/prestimate/internal/repository"
)

// =============================================================================
// Fakes
// =============================================================================

type fakePolicyStore struct {
	account    repository.Account
	accountErr error
	count      int64
	countArgs  []repository.CountEstimatesInPeriodParams
}

func (f *fakePolicyStore) GetAccount(ctx context.Context, id uuid.UUID) (repository.Account, error) {
	if f.accountErr != nil {
		return repository.Account{}, f.accountErr
	}
	return f.account, nil
}

func (f *fakePolicyStore) CountEstimatesInPeriod(ctx context.Context, arg repository.CountEstimatesInPeriodParams) (int64, error) {
	f.countArgs = append(f.countArgs, arg)
	return f.count, nil
}

func newPolicyService(store *fakePolicyStore, now time.Time) PolicyService {
	return &policyService{
		store:  store,
		logger: testLogger(),
		now:    func() time.Time { return now },
	}
}

// =============================================================================
// Snapshot Tests
// =============================================================================

func TestPolicyService_Snapshot(t *testing.T) {
	accountID := uuid.New()
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	expiry := now.Add(10 * 24 * time.Hour)

	store := &fakePolicyStore{
		account: repository.Account{
			ID:          accountID,
			Email:       "owner@example.com",
			Tier:        "Trial",
			TrialExpiry: expiry,
			PeriodLimit: 100,
		},
		count: 7,
	}

	policy, err := newPolicyService(store, now).Snapshot(context.Background(), accountID)
	require.NoError(t, err)

	assert.Equal(t, accountID, policy.AccountID)
	assert.Equal(t, "owner@example.com", policy.Email)
	assert.Equal(t, domain.TierTrial, policy.Tier)
	assert.Equal(t, expiry, policy.TrialExpiry)
	assert.Equal(t, int64(7), policy.EstimatesThisPeriod)
	assert.Equal(t, int64(100), policy.PeriodLimit)
	assert.Equal(t, now, policy.AsOf)
	assert.Equal(t, domain.PolicyStateTrial, policy.State())
}

func TestPolicyService_Snapshot_CountsCurrentCalendarMonth(t *testing.T) {
	now := time.Date(2026, 3, 15, 23, 30, 0, 0, time.UTC)
	store := &fakePolicyStore{account: repository.Account{ID: uuid.New()}}

	_, err := newPolicyService(store, now).Snapshot(context.Background(), store.account.ID)
	require.NoError(t, err)

	require.Len(t, store.countArgs, 1)
	arg := store.countArgs[0]
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), arg.PeriodStart)
	assert.Equal(t, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), arg.PeriodEnd)
}

func TestPolicyService_Snapshot_AccountNotFound(t *testing.T) {
	store := &fakePolicyStore{accountErr: sql.ErrNoRows}

	policy, err := newPolicyService(store, time.Now()).Snapshot(context.Background(), uuid.New())
	assert.Nil(t, policy)
	assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))
}

// =============================================================================
// Usage Tests
// =============================================================================

func TestPolicyService_Usage(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	store := &fakePolicyStore{
		account: repository.Account{
			ID:          uuid.New(),
			Tier:               "Basic",
			PeriodLimit:        100,
			SubscriptionActive: true,
		},
		count: 42,
	}

	summary, err := newPolicyService(store, now).Usage(context.Background(), store.account.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(42), summary.Used)
	assert.Equal(t, int64(100), summary.Limit)
	assert.False(t, summary.Unlimited)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), summary.PeriodStart)
	assert.Equal(t, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), summary.PeriodEnd)
}

func TestPolicyService_Usage_ProIsUnlimited(t *testing.T) {
	store := &fakePolicyStore{
		account: repository.Account{
			ID:                 uuid.New(),
			Tier:               "Pro",
			SubscriptionActive: true,
		},
	}

	summary, err := newPolicyService(store, time.Now()).Usage(context.Background(), store.account.ID)
	require.NoError(t, err)
	assert.True(t, summary.Unlimited)
}
