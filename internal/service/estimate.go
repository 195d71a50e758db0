// Package service contains the business logic layer.
//
// This file implements the estimate submission pipeline: gate check,
// calculation, persistence, and best-effort notification. Collaborators
// are injected as interfaces; there is no ambient client state.
package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/prestimate/prestimate/internal/domain"
	"github.com/prestimate/prestimate/internal/metrics"
	"github.com/prestimate/prestimate/internal/pricing"
	"github.com/prestimate/prestimate/internal/repository"
)

// DefaultSubmitTimeout bounds each external call the pipeline makes
// (persistence write, notification send).
const DefaultSubmitTimeout = 10 * time.Second

// =============================================================================
// Collaborator Interfaces
// =============================================================================

// PolicyProvider supplies the usage policy snapshot for the gate check.
// PolicyService satisfies it.
type PolicyProvider interface {
	Snapshot(ctx context.Context, accountID uuid.UUID) (*domain.UsagePolicy, error)
}

// ServiceResolver resolves a service definition by key.
// CatalogService satisfies it.
type ServiceResolver interface {
	Get(ctx context.Context, accountID uuid.UUID, key string) (*domain.ServiceDefinition, error)
}

// EstimateStore is the append-only estimate collection.
type EstimateStore interface {
	// Insert persists one estimate.
	Insert(ctx context.Context, estimate *domain.Estimate) error

	// ListByProject returns a drawing session's estimates in creation
	// order.
	ListByProject(ctx context.Context, accountID, projectID uuid.UUID) ([]domain.Estimate, error)
}

// NotificationSender delivers the estimate summary to the business.
// Sends are best-effort from the pipeline's perspective.
type NotificationSender interface {
	SendEstimateCreated(ctx context.Context, notification domain.EstimateNotification) error
}

// =============================================================================
// Interface Definition
// =============================================================================

// EstimateService orchestrates estimate submission.
type EstimateService interface {
	// Submit runs the pipeline for one drawing event: load policy, gate,
	// resolve service, calculate, redact, persist, notify.
	//
	// Returns domain.ELIMIT when the gate rejects, domain.ENOTFOUND for
	// an unknown service key, domain.EINVALID for a geometry mismatch,
	// and domain.EUNAVAILABLE when the write fails (the estimate is not
	// created; the caller may resubmit). A failed notification is logged
	// and never surfaces as an error.
	Submit(ctx context.Context, params domain.SubmitEstimateParams) (*domain.Estimate, error)

	// ListByProject returns the estimates created in one drawing session.
	ListByProject(ctx context.Context, accountID, projectID uuid.UUID) ([]domain.Estimate, error)
}

// =============================================================================
// Implementation
// =============================================================================

type estimateService struct {
	policies PolicyProvider
	catalog  ServiceResolver
	store    EstimateStore
	notifier NotificationSender
	logger   *slog.Logger
	timeout  time.Duration
}

// NewEstimateService creates a new EstimateService. A zero timeout falls
// back to DefaultSubmitTimeout.
func NewEstimateService(
	policies PolicyProvider,
	catalog ServiceResolver,
	store EstimateStore,
	notifier NotificationSender,
	logger *slog.Logger,
	timeout time.Duration,
) EstimateService {
	if timeout <= 0 {
		timeout = DefaultSubmitTimeout
	}
	return &estimateService{
		policies: policies,
		catalog:  catalog,
		store:    store,
		notifier: notifier,
		logger:   logger,
		timeout:  timeout,
	}
}

// Submit runs the submission pipeline.
//
// The gate check is advisory: it reads the period count and then writes,
// with no cross-invocation lock, so a rapid double-submit from one
// account can let both pass before either persists. Accepted tradeoff
// for a low-volume single-operator UI.
func (s *estimateService) Submit(ctx context.Context, params domain.SubmitEstimateParams) (*domain.Estimate, error) {
	const op = "estimate.submit"

	policy, err := s.policies.Snapshot(ctx, params.AccountID)
	if err != nil {
		return nil, err
	}

	if !policy.CanCreateEstimate() {
		metrics.UsageLimitRejections.Inc()
		s.logger.Info("estimate rejected by usage policy",
			"account_id", params.AccountID,
			"state", policy.State(),
			"used", policy.EstimatesThisPeriod,
			"limit", policy.PeriodLimit,
		)
		if policy.State() == domain.PolicyStateExpired {
			return nil, domain.SubscriptionExpired(op)
		}
		return nil, domain.UsageLimitExceeded(op, policy.EstimatesThisPeriod, policy.PeriodLimit)
	}

	svc, err := s.catalog.Get(ctx, params.AccountID, params.ServiceKey)
	if err != nil {
		if domain.ErrorCode(err) == domain.ENOTFOUND {
			return nil, domain.UnknownService(op, params.ServiceKey)
		}
		return nil, err
	}

	quote, err := pricing.ComputeEstimate(params.Geometry, *svc, params.Modifiers)
	if err != nil {
		return nil, err
	}

	estimate := &domain.Estimate{
		ID:            uuid.New(),
		ProjectID:     params.ProjectID,
		AccountID:     params.AccountID,
		ServiceKey:    svc.Key,
		ServiceLabel:  svc.Label,
		Unit:          quote.Unit,
		Measurement:   quote.Measurement,
		EstimatedCost: quote.EstimatedCost,
		Description:   quote.Description,
		Address:       s.resolveAddress(params, policy),
	}

	persistCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.store.Insert(persistCtx, estimate); err != nil {
		return nil, domain.PersistenceFailed(err, op)
	}

	metrics.EstimatesCreated.Inc()
	s.logger.Info("estimate created",
		"estimate_id", estimate.ID,
		"account_id", params.AccountID,
		"service_key", svc.Key,
		"measurement", estimate.Measurement,
		"cost", estimate.EstimatedCost,
	)

	s.notify(ctx, policy, estimate)

	return estimate, nil
}

// resolveAddress picks the stored address: the confirmed one, a lat/lon
// label from the shape's first coordinate when none was confirmed, or
// nil when the policy redacts addresses.
func (s *estimateService) resolveAddress(params domain.SubmitEstimateParams, policy *domain.UsagePolicy) *string {
	if policy.ShouldRedactAddress() {
		return nil
	}
	address := params.Address
	if address == "" {
		if lon, lat, ok := params.Geometry.FirstLonLat(); ok {
			address = fmt.Sprintf("Lat: %.5f, Lon: %.5f", lat, lon)
		} else {
			address = "Unknown location"
		}
	}
	return &address
}

// notify sends the estimate summary, best-effort. Failure is logged and
// counted but never rolls back the persisted estimate.
func (s *estimateService) notify(ctx context.Context, policy *domain.UsagePolicy, estimate *domain.Estimate) {
	notifyCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	err := s.notifier.SendEstimateCreated(notifyCtx, domain.EstimateNotification{
		Recipient:     policy.Email,
		Address:       estimate.Address,
		ServiceKey:    estimate.ServiceKey,
		Measurement:   estimate.Measurement,
		Unit:          estimate.Unit,
		EstimatedCost: estimate.EstimatedCost,
		Description:   estimate.Description,
	})
	if err != nil {
		metrics.NotificationFailures.Inc()
		s.logger.Warn("estimate notification failed",
			"estimate_id", estimate.ID,
			"account_id", estimate.AccountID,
			"error", err,
		)
	}
}

// ListByProject returns the estimates created in one drawing session.
func (s *estimateService) ListByProject(ctx context.Context, accountID, projectID uuid.UUID) ([]domain.Estimate, error) {
	return s.store.ListByProject(ctx, accountID, projectID)
}

// =============================================================================
// Repository-backed Estimate Store
// =============================================================================

// estimateStore adapts repository queries to the EstimateStore interface.
type estimateStore struct {
	queries *repository.Queries
}

// NewEstimateStore creates an EstimateStore backed by the repository.
func NewEstimateStore(queries *repository.Queries) EstimateStore {
	return &estimateStore{queries: queries}
}

func (s *estimateStore) Insert(ctx context.Context, estimate *domain.Estimate) error {
	row, err := s.queries.InsertEstimate(ctx, repository.InsertEstimateParams{
		ID:            estimate.ID,
		AccountID:     estimate.AccountID,
		ProjectID:     estimate.ProjectID,
		ServiceKey:    estimate.ServiceKey,
		ServiceLabel:  estimate.ServiceLabel,
		Unit:          string(estimate.Unit),
		Measurement:   estimate.Measurement,
		EstimatedCost: estimate.EstimatedCost,
		Description:   estimate.Description,
		Address:       toNullString(estimate.Address),
	})
	if err != nil {
		return err
	}
	estimate.CreatedAt = row.CreatedAt
	return nil
}

func (s *estimateStore) ListByProject(ctx context.Context, accountID, projectID uuid.UUID) ([]domain.Estimate, error) {
	const op = "estimate.list_by_project"

	rows, err := s.queries.ListEstimatesByProject(ctx, repository.ListEstimatesByProjectParams{
		AccountID: accountID,
		ProjectID: projectID,
	})
	if err != nil {
		return nil, domain.Internal(err, op, "failed to list estimates")
	}

	estimates := make([]domain.Estimate, 0, len(rows))
	for _, row := range rows {
		estimates = append(estimates, domain.Estimate{
			ID:            row.ID,
			ProjectID:     row.ProjectID,
			AccountID:     row.AccountID,
			ServiceKey:    row.ServiceKey,
			ServiceLabel:  row.ServiceLabel,
			Unit:          domain.Unit(row.Unit),
			Measurement:   row.Measurement,
			EstimatedCost: row.EstimatedCost,
			Description:   row.Description,
			Address:       nullStringPtr(row.Address),
			CreatedAt:     row.CreatedAt,
		})
	}
	return estimates, nil
}

// =============================================================================
// Helper Functions
// =============================================================================

func toNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullStringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}
