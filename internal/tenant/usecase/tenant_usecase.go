// Package usecase implements tenant provisioning and lookup.
package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	"github.com/capitaldesk/desk/internal/tenant/domain"
	customValidation "github.com/capitaldesk/desk/internal/validation"
)

// TenantRepository defines persistence operations for tenants.
type TenantRepository interface {
	Create(ctx context.Context, tenant *domain.Tenant) error
	Get(ctx context.Context, id uuid.UUID) (*domain.Tenant, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Tenant, error)
	List(ctx context.Context, offset, limit int) ([]*domain.Tenant, error)
}

// TenantUseCase defines tenant operations. Tenants are provisioned from the CLI;
// there is no HTTP surface for them.
type TenantUseCase interface {
	Create(ctx context.Context, input *domain.CreateTenantInput) (*domain.Tenant, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Tenant, error)

	// ResolveActive returns the active tenant with the given slug. Unknown and
	// inactive tenants both return ErrTenantNotFound so login does not reveal which
	// operators exist.
	ResolveActive(ctx context.Context, slug string) (*domain.Tenant, error)

	List(ctx context.Context, offset, limit int) ([]*domain.Tenant, error)
}

type tenantUseCase struct {
	repo TenantRepository
}

// NewTenantUseCase creates a new TenantUseCase.
func NewTenantUseCase(repo TenantRepository) TenantUseCase {
	return &tenantUseCase{repo: repo}
}

func (uc *tenantUseCase) Create(ctx context.Context, input *domain.CreateTenantInput) (*domain.Tenant, error) {
	slug := strings.ToLower(strings.TrimSpace(input.Slug))
	name := strings.TrimSpace(input.Name)

	err := validation.Errors{
		"slug": validation.Validate(slug, validation.Required, customValidation.Slug),
		"name": validation.Validate(name, validation.Required, validation.Length(1, 255)),
	}.Filter()
	if err != nil {
		return nil, customValidation.WrapValidationError(err)
	}

	now := time.Now().UTC()
	tenant := &domain.Tenant{
		ID:        uuid.Must(uuid.NewV7()),
		Slug:      slug,
		Name:      name,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, tenant); err != nil {
		return nil, err
	}
	return tenant, nil
}

func (uc *tenantUseCase) Get(ctx context.Context, id uuid.UUID) (*domain.Tenant, error) {
	return uc.repo.Get(ctx, id)
}

func (uc *tenantUseCase) ResolveActive(ctx context.Context, slug string) (*domain.Tenant, error) {
	tenant, err := uc.repo.GetBySlug(ctx, strings.ToLower(strings.TrimSpace(slug)))
	if err != nil {
		return nil, err
	}
	if !tenant.IsActive {
		return nil, domain.ErrTenantNotFound
	}
	return tenant, nil
}

func (uc *tenantUseCase) List(ctx context.Context, offset, limit int) ([]*domain.Tenant, error) {
	if limit <= 0 {
		limit = 50
	}
	return uc.repo.List(ctx, offset, limit)
}
