// Package service contains the business logic layer.
//
// This file implements the service catalog: the ordered set of priced
// offerings configured per account, seeded with defaults on first read.
package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/prestimate/prestimate/internal/domain"
	"github.com/prestimate/prestimate/internal/metrics"
	"github.com/prestimate/prestimate/internal/repository"
)

// uniqueViolation is the Postgres error code for a duplicate primary key.
const uniqueViolation = "23505"

// =============================================================================
// Interface Definition
// =============================================================================

// CatalogService defines operations on an account's service catalog.
type CatalogService interface {
	// List returns the catalog in insertion order. An empty catalog is
	// seeded with the default services first; seeding is a one-time,
	// idempotent side effect of the first read.
	List(ctx context.Context, accountID uuid.UUID) ([]domain.ServiceDefinition, error)

	// Get resolves a single service by key.
	// Returns domain.ENOTFOUND if the key is absent.
	Get(ctx context.Context, accountID uuid.UUID, key string) (*domain.ServiceDefinition, error)

	// Add appends a service. The key is derived from the label and is
	// immutable afterwards. Returns domain.ECONFLICT when the derived
	// key already exists.
	Add(ctx context.Context, params domain.AddServiceParams) (*domain.ServiceDefinition, error)

	// Update edits a service's label, unit and price in place.
	// Returns domain.ENOTFOUND if the key is absent.
	Update(ctx context.Context, params domain.UpdateServiceParams) (*domain.ServiceDefinition, error)

	// Remove deletes a service. Removing an absent key is a no-op.
	Remove(ctx context.Context, accountID uuid.UUID, key string) error
}

// catalogStore is the slice of the repository the catalog needs.
// *repository.Queries satisfies it.
type catalogStore interface {
	ListServicesByAccount(ctx context.Context, accountID uuid.UUID) ([]repository.Service, error)
	GetServiceByKey(ctx context.Context, arg repository.GetServiceByKeyParams) (repository.Service, error)
	InsertService(ctx context.Context, arg repository.InsertServiceParams) (repository.Service, error)
	UpdateServiceByKey(ctx context.Context, arg repository.UpdateServiceByKeyParams) (repository.Service, error)
	DeleteServiceByKey(ctx context.Context, arg repository.DeleteServiceByKeyParams) error
}

// =============================================================================
// Implementation
// =============================================================================

type catalogService struct {
	store  catalogStore
	logger *slog.Logger
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(store catalogStore, logger *slog.Logger) CatalogService {
	return &catalogService{
		store:  store,
		logger: logger,
	}
}

// List returns the catalog, seeding defaults when it is empty.
func (s *catalogService) List(ctx context.Context, accountID uuid.UUID) ([]domain.ServiceDefinition, error) {
	const op = "catalog.list"

	rows, err := s.store.ListServicesByAccount(ctx, accountID)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to list services")
	}

	if len(rows) == 0 {
		return s.seedDefaults(ctx, accountID)
	}

	services := make([]domain.ServiceDefinition, 0, len(rows))
	for _, row := range rows {
		services = append(services, rowToService(row))
	}
	return services, nil
}

// seedDefaults populates an empty catalog with the default service set.
// A concurrent first read can race the inserts; the losing writer hits
// the primary key and re-reads instead of failing.
func (s *catalogService) seedDefaults(ctx context.Context, accountID uuid.UUID) ([]domain.ServiceDefinition, error) {
	const op = "catalog.seed"

	for _, def := range domain.DefaultServices() {
		_, err := s.store.InsertService(ctx, repository.InsertServiceParams{
			AccountID:   accountID,
			Key:         def.Key,
			Label:       def.Label,
			Unit:        string(def.Unit),
			BasePrice:   def.BasePrice,
			Calc:        string(def.Calc),
			UsesStories: def.UsesStories,
		})
		if err != nil {
			if isUniqueViolation(err) {
				continue
			}
			return nil, domain.Internal(err, op, "failed to seed default services")
		}
	}

	metrics.CatalogsSeeded.Inc()
	s.logger.Info("catalog seeded with defaults", "account_id", accountID)

	rows, err := s.store.ListServicesByAccount(ctx, accountID)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to list services after seeding")
	}
	services := make([]domain.ServiceDefinition, 0, len(rows))
	for _, row := range rows {
		services = append(services, rowToService(row))
	}
	return services, nil
}

// Get resolves a single service by key.
func (s *catalogService) Get(ctx context.Context, accountID uuid.UUID, key string) (*domain.ServiceDefinition, error) {
	const op = "catalog.get"

	row, err := s.store.GetServiceByKey(ctx, repository.GetServiceByKeyParams{
		AccountID: accountID,
		Key:       key,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound(op, "service", key)
		}
		return nil, domain.Internal(err, op, "failed to get service")
	}

	svc := rowToService(row)
	return &svc, nil
}

// Add appends a service with a key derived from its label.
func (s *catalogService) Add(ctx context.Context, params domain.AddServiceParams) (*domain.ServiceDefinition, error) {
	const op = "catalog.add"

	if err := validateServiceParams(op, params.Label, params.Unit, params.BasePrice); err != nil {
		return nil, err
	}

	key := domain.DeriveServiceKey(params.Label)
	if key == "" {
		return nil, domain.Invalid(op, "label must contain at least one letter or digit")
	}

	row, err := s.store.InsertService(ctx, repository.InsertServiceParams{
		AccountID: params.AccountID,
		Key:       key,
		Label:     strings.TrimSpace(params.Label),
		Unit:      string(params.Unit),
		BasePrice: params.BasePrice,
		Calc:      string(domain.CalcKindForUnit(params.Unit)),
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.DuplicateKey(op, key)
		}
		return nil, domain.Internal(err, op, "failed to add service")
	}

	s.logger.Info("service added",
		"account_id", params.AccountID,
		"key", key,
		"unit", params.Unit,
	)

	svc := rowToService(row)
	return &svc, nil
}

// Update edits a service in place. The key is never regenerated, even
// when the label changes: historical estimates reference it. The
// calculation kind survives edits within the same unit family, so a
// price change on the fence service keeps its height formula; it is
// re-derived only when the unit flips between area and length.
func (s *catalogService) Update(ctx context.Context, params domain.UpdateServiceParams) (*domain.ServiceDefinition, error) {
	const op = "catalog.update"

	if err := validateServiceParams(op, params.Label, params.Unit, params.BasePrice); err != nil {
		return nil, err
	}

	current, err := s.store.GetServiceByKey(ctx, repository.GetServiceByKeyParams{
		AccountID: params.AccountID,
		Key:       params.Key,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound(op, "service", params.Key)
		}
		return nil, domain.Internal(err, op, "failed to get service")
	}

	calc := domain.CalcKind(current.Calc)
	if calc.IsArea() != params.Unit.IsArea() {
		calc = domain.CalcKindForUnit(params.Unit)
	}

	row, err := s.store.UpdateServiceByKey(ctx, repository.UpdateServiceByKeyParams{
		AccountID: params.AccountID,
		Key:       params.Key,
		Label:     strings.TrimSpace(params.Label),
		Unit:      string(params.Unit),
		BasePrice: params.BasePrice,
		Calc:      string(calc),
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound(op, "service", params.Key)
		}
		return nil, domain.Internal(err, op, "failed to update service")
	}

	s.logger.Info("service updated",
		"account_id", params.AccountID,
		"key", params.Key,
	)

	svc := rowToService(row)
	return &svc, nil
}

// Remove deletes a service. Deletion is idempotent: an absent key is a
// no-op, not an error.
func (s *catalogService) Remove(ctx context.Context, accountID uuid.UUID, key string) error {
	const op = "catalog.remove"

	err := s.store.DeleteServiceByKey(ctx, repository.DeleteServiceByKeyParams{
		AccountID: accountID,
		Key:       key,
	})
	if err != nil {
		return domain.Internal(err, op, "failed to remove service")
	}

	s.logger.Info("service removed", "account_id", accountID, "key", key)
	return nil
}

// =============================================================================
// Helper Functions
// =============================================================================

// validateServiceParams validates the editable fields of a service.
func validateServiceParams(op, label string, unit domain.Unit, basePrice decimal.Decimal) error {
	if strings.TrimSpace(label) == "" {
		return domain.Invalid(op, "label is required")
	}
	if len(label) > 255 {
		return domain.Invalid(op, "label must be 255 characters or less")
	}
	if !unit.Valid() {
		return domain.Invalid(op, "unit must be one of ft², m², ft, m")
	}
	if basePrice.IsNegative() {
		return domain.Invalid(op, "base price must not be negative")
	}
	return nil
}

// isUniqueViolation reports whether err is a Postgres duplicate-key error.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// rowToService converts a repository row to a domain ServiceDefinition.
func rowToService(row repository.Service) domain.ServiceDefinition {
	return domain.ServiceDefinition{
		AccountID:   row.AccountID,
		Key:         row.Key,
		Label:       row.Label,
		Unit:        domain.Unit(row.Unit),
		BasePrice:   row.BasePrice,
		Calc:        domain.CalcKind(row.Calc),
		UsesStories: row.UsesStories,
		Position:    row.Position,
	}
}
