// Package repository implements persistence for users, sessions and password reset
// tokens.
//
// Every tenant-owned query is built through database.Scope, so one implementation
// serves both PostgreSQL and MySQL. The few lookups that run before a tenant is known
// (session and reset token by hash) are marked as unscoped.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	authDomain "github.com/capitaldesk/desk/internal/auth/domain"
	"github.com/capitaldesk/desk/internal/database"
	apperrors "github.com/capitaldesk/desk/internal/errors"
)

var userColumns = []string{
	"id", "tenant_id", "email", "name", "password_hash", "role", "capabilities",
	"session_version", "is_active", "failed_attempts", "locked_until", "created_at", "updated_at",
}

// UserRepository persists users.
type UserRepository struct {
	db      *sql.DB
	dialect database.Dialect
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sql.DB, dialect database.Dialect) *UserRepository {
	return &UserRepository{db: db, dialect: dialect}
}

// Create inserts a new user.
func (r *UserRepository) Create(ctx context.Context, scope database.Scope, user *authDomain.User) error {
	q, err := scope.Insert("users").
		Set("id", user.ID).
		Set("email", user.Email).
		Set("name", user.Name).
		Set("password_hash", user.PasswordHash).
		Set("role", string(user.Role)).
		Set("capabilities", user.Capabilities.Encode()).
		Set("session_version", user.SessionVersion).
		Set("is_active", user.IsActive).
		Set("failed_attempts", user.FailedAttempts).
		Set("locked_until", database.NullTime(user.LockedUntil)).
		Set("created_at", user.CreatedAt).
		Set("updated_at", user.UpdatedAt).
		Build(r.dialect)
	if err != nil {
		return err
	}

	querier := database.GetTx(ctx, r.db)
	if _, err := querier.ExecContext(ctx, q.SQL, q.Args...); err != nil {
		if database.IsUniqueViolation(err) {
			return authDomain.ErrEmailAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create user")
	}
	return nil
}

// Update writes every mutable column of the user.
func (r *UserRepository) Update(ctx context.Context, scope database.Scope, user *authDomain.User) error {
	q, err := scope.Update("users").
		Set("name", user.Name).
		Set("password_hash", user.PasswordHash).
		Set("role", string(user.Role)).
		Set("capabilities", user.Capabilities.Encode()).
		Set("session_version", user.SessionVersion).
		Set("is_active", user.IsActive).
		Set("failed_attempts", user.FailedAttempts).
		Set("locked_until", database.NullTime(user.LockedUntil)).
		Set("updated_at", user.UpdatedAt).
		Where("id = ?", user.ID).
		Build(r.dialect)
	if err != nil {
		return err
	}

	querier := database.GetTx(ctx, r.db)
	res, err := querier.ExecContext(ctx, q.SQL, q.Args...)
	if err != nil {
		return apperrors.Wrap(err, "failed to update user")
	}
	return requireAffected(res, authDomain.ErrUserNotFound)
}

// Get retrieves a user by ID.
func (r *UserRepository) Get(ctx context.Context, scope database.Scope, id uuid.UUID) (*authDomain.User, error) {
	return r.getOne(ctx, scope.Select("users", userColumns...).Where("id = ?", id), "failed to get user")
}

// GetForUpdate retrieves a user by ID and locks the row for the current transaction.
func (r *UserRepository) GetForUpdate(
	ctx context.Context,
	scope database.Scope,
	id uuid.UUID,
) (*authDomain.User, error) {
	return r.getOne(
		ctx,
		scope.Select("users", userColumns...).Where("id = ?", id).ForUpdate(),
		"failed to lock user",
	)
}

// GetByEmail retrieves a user by email within the tenant.
func (r *UserRepository) GetByEmail(
	ctx context.Context,
	scope database.Scope,
	email string,
) (*authDomain.User, error) {
	return r.getOne(
		ctx,
		scope.Select("users", userColumns...).Where("email = ?", email),
		"failed to get user by email",
	)
}

// List returns users ordered by email.
func (r *UserRepository) List(
	ctx context.Context,
	scope database.Scope,
	filter authDomain.UserListFilter,
) ([]*authDomain.User, error) {
	b := scope.Select("users", userColumns...)
	if filter.Role != "" {
		b = b.Where("role = ?", string(filter.Role))
	}
	q, err := b.OrderBy("email ASC").Limit(filter.Limit).Offset(filter.Offset).Build(r.dialect)
	if err != nil {
		return nil, err
	}

	querier := database.GetTx(ctx, r.db)
	rows, err := querier.QueryContext(ctx, q.SQL, q.Args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list users")
	}
	defer func() {
		_ = rows.Close()
	}()

	users := make([]*authDomain.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan user")
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate users")
	}
	return users, nil
}

func (r *UserRepository) getOne(
	ctx context.Context,
	b *database.SelectBuilder,
	failure string,
) (*authDomain.User, error) {
	q, err := b.Build(r.dialect)
	if err != nil {
		return nil, err
	}

	querier := database.GetTx(ctx, r.db)
	user, err := scanUser(querier.QueryRowContext(ctx, q.SQL, q.Args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, authDomain.ErrUserNotFound
		}
		return nil, apperrors.Wrap(err, failure)
	}
	return user, nil
}

func scanUser(row database.RowScanner) (*authDomain.User, error) {
	var (
		user         authDomain.User
		role         string
		capabilities string
		lockedUntil  sql.NullTime
	)

	err := row.Scan(
		&user.ID,
		&user.TenantID,
		&user.Email,
		&user.Name,
		&user.PasswordHash,
		&role,
		&capabilities,
		&user.SessionVersion,
		&user.IsActive,
		&user.FailedAttempts,
		&lockedUntil,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	user.Role = authDomain.Role(role)
	user.Capabilities = authDomain.DecodeCapabilities(capabilities)
	user.LockedUntil = database.TimePtr(lockedUntil)
	return &user, nil
}

func requireAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to read affected rows")
	}
	if n == 0 {
		return notFound
	}
	return nil
}
