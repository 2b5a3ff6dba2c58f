// Package repository provides persistence for tenants.
//
// The tenants table is the root of isolation and is not itself tenant-owned, so these
// queries are unscoped and written per dialect through database.Rebind.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/capitaldesk/desk/internal/database"
	apperrors "github.com/capitaldesk/desk/internal/errors"
	"github.com/capitaldesk/desk/internal/tenant/domain"
)

const tenantSelect = `SELECT id, slug, name, is_active, created_at, updated_at FROM tenants`

// TenantRepository persists tenants.
type TenantRepository struct {
	db      *sql.DB
	dialect database.Dialect
}

// NewTenantRepository creates a new TenantRepository.
func NewTenantRepository(db *sql.DB, dialect database.Dialect) *TenantRepository {
	return &TenantRepository{db: db, dialect: dialect}
}

// Create inserts a tenant.
func (r *TenantRepository) Create(ctx context.Context, tenant *domain.Tenant) error {
	querier := database.GetTx(ctx, r.db)

	query := database.Rebind(r.dialect,
		`INSERT INTO tenants (id, slug, name, is_active, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`)

	_, err := querier.ExecContext(ctx, query,
		tenant.ID, tenant.Slug, tenant.Name, tenant.IsActive, tenant.CreatedAt, tenant.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return domain.ErrTenantSlugExists
		}
		return apperrors.Wrap(err, "failed to create tenant")
	}
	return nil
}

// Get retrieves a tenant by id.
func (r *TenantRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Tenant, error) {
	querier := database.GetTx(ctx, r.db)
	query := database.Rebind(r.dialect, tenantSelect+` WHERE id = ?`)
	return scanTenant(querier.QueryRowContext(ctx, query, id))
}

// GetBySlug retrieves a tenant by slug. Login uses it before any tenant is known.
func (r *TenantRepository) GetBySlug(ctx context.Context, slug string) (*domain.Tenant, error) {
	querier := database.GetTx(ctx, r.db)
	query := database.Rebind(r.dialect, tenantSelect+` WHERE slug = ?`)
	return scanTenant(querier.QueryRowContext(ctx, query, slug))
}

// List returns tenants ordered by slug.
func (r *TenantRepository) List(ctx context.Context, offset, limit int) ([]*domain.Tenant, error) {
	querier := database.GetTx(ctx, r.db)
	query := database.Rebind(r.dialect, tenantSelect+` ORDER BY slug LIMIT ? OFFSET ?`)

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list tenants")
	}
	defer rows.Close() //nolint:errcheck

	tenants := make([]*domain.Tenant, 0)
	for rows.Next() {
		tenant, err := scanTenant(rows)
		if err != nil {
			return nil, err
		}
		tenants = append(tenants, tenant)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate tenants")
	}
	return tenants, nil
}

func scanTenant(row database.RowScanner) (*domain.Tenant, error) {
	var t domain.Tenant
	err := row.Scan(&t.ID, &t.Slug, &t.Name, &t.IsActive, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTenantNotFound
		}
		return nil, apperrors.Wrap(err, "failed to scan tenant")
	}
	return &t, nil
}
