// Package service contains the business logic layer.
//
// This file builds usage policy snapshots: subscription state from the
// account row plus the estimate count for the current calendar month,
// derived by counting persisted rows rather than kept as a counter.
package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/prestimate/prestimate/internal/domain"
	"github.com/prestimate/prestimate/internal/repository"
)

// =============================================================================
// Interface Definition
// =============================================================================

// PolicyService builds usage policy snapshots for the feature gate.
type PolicyService interface {
	// Snapshot loads the account and period usage into a pure policy
	// snapshot. Returns domain.ENOTFOUND for unknown accounts.
	Snapshot(ctx context.Context, accountID uuid.UUID) (*domain.UsagePolicy, error)

	// Usage returns month-to-date consumption for the dashboard.
	Usage(ctx context.Context, accountID uuid.UUID) (*domain.UsageSummary, error)
}

// policyStore is the slice of the repository the policy needs.
// *repository.Queries satisfies it.
type policyStore interface {
	GetAccount(ctx context.Context, id uuid.UUID) (repository.Account, error)
	CountEstimatesInPeriod(ctx context.Context, arg repository.CountEstimatesInPeriodParams) (int64, error)
}

// =============================================================================
// Implementation
// =============================================================================

type policyService struct {
	store  policyStore
	logger *slog.Logger
	now    func() time.Time
}

// NewPolicyService creates a new PolicyService.
func NewPolicyService(store policyStore, logger *slog.Logger) PolicyService {
	return &policyService{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Snapshot loads the account row and current-period estimate count.
func (s *policyService) Snapshot(ctx context.Context, accountID uuid.UUID) (*domain.UsagePolicy, error) {
	const op = "policy.snapshot"

	account, err := s.store.GetAccount(ctx, accountID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound(op, "account", accountID.String())
		}
		return nil, domain.Internal(err, op, "failed to get account")
	}

	now := s.now().UTC()
	start, end := currentMonthBoundaries(now)

	count, err := s.store.CountEstimatesInPeriod(ctx, repository.CountEstimatesInPeriodParams{
		AccountID:   accountID,
		PeriodStart: start,
		PeriodEnd:   end,
	})
	if err != nil {
		return nil, domain.Internal(err, op, "failed to count estimates")
	}

	return &domain.UsagePolicy{
		AccountID:           account.ID,
		Email:               account.Email,
		Tier:                domain.Tier(account.Tier),
		TrialExpiry:         account.TrialExpiry,
		SubscriptionActive:  account.SubscriptionActive,
		EstimatesThisPeriod: count,
		PeriodLimit:         account.PeriodLimit,
		AsOf:                now,
	}, nil
}

// Usage returns month-to-date consumption. Pro accounts are unlimited;
// the limit is only meaningful for the Basic tier.
func (s *policyService) Usage(ctx context.Context, accountID uuid.UUID) (*domain.UsageSummary, error) {
	policy, err := s.Snapshot(ctx, accountID)
	if err != nil {
		return nil, err
	}

	start, end := currentMonthBoundaries(policy.AsOf)
	return &domain.UsageSummary{
		Used:        policy.EstimatesThisPeriod,
		Limit:       policy.PeriodLimit,
		Unlimited:   policy.State() == domain.PolicyStatePro,
		PeriodStart: start,
		PeriodEnd:   end,
	}, nil
}

// currentMonthBoundaries returns the start and end of the calendar month
// containing t, in UTC.
func currentMonthBoundaries(t time.Time) (start, end time.Time) {
	t = t.UTC()
	start = time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	end = start.AddDate(0, 1, 0)
	return start, end
}
