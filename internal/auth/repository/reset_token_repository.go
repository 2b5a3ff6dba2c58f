package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/capitaldesk/desk/internal/auth/domain"
	"github.com/capitaldesk/desk/internal/database"
	apperrors "github.com/capitaldesk/desk/internal/errors"
)

// ResetTokenRepository persists password reset tokens.
type ResetTokenRepository struct {
	db      *sql.DB
	dialect database.Dialect
}

// NewResetTokenRepository creates a new ResetTokenRepository.
func NewResetTokenRepository(db *sql.DB, dialect database.Dialect) *ResetTokenRepository {
	return &ResetTokenRepository{db: db, dialect: dialect}
}

// Create inserts a new reset token.
func (r *ResetTokenRepository) Create(
	ctx context.Context,
	scope database.Scope,
	token *authDomain.PasswordResetToken,
) error {
	q, err := scope.Insert("password_reset_tokens").
		Set("id", token.ID).
		Set("user_id", token.UserID).
		Set("token_hash", token.TokenHash).
		Set("expires_at", token.ExpiresAt).
		Set("used_at", database.NullTime(token.UsedAt)).
		Set("created_at", token.CreatedAt).
		Build(r.dialect)
	if err != nil {
		return err
	}

	querier := database.GetTx(ctx, r.db)
	if _, err := querier.ExecContext(ctx, q.SQL, q.Args...); err != nil {
		return apperrors.Wrap(err, "failed to create password reset token")
	}
	return nil
}

// GetByTokenHash looks a reset token up by its hash.
//
// Unscoped: the person confirming a reset is not signed in.
func (r *ResetTokenRepository) GetByTokenHash(
	ctx context.Context,
	tokenHash string,
) (*authDomain.PasswordResetToken, error) {
	query := database.Rebind(r.dialect,
		`SELECT id, tenant_id, user_id, token_hash, expires_at, used_at, created_at
		 FROM password_reset_tokens WHERE token_hash = ?`)

	var (
		token  authDomain.PasswordResetToken
		usedAt sql.NullTime
	)

	querier := database.GetTx(ctx, r.db)
	err := querier.QueryRowContext(ctx, query, tokenHash).Scan(
		&token.ID,
		&token.TenantID,
		&token.UserID,
		&token.TokenHash,
		&token.ExpiresAt,
		&usedAt,
		&token.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, authDomain.ErrResetTokenNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get password reset token")
	}
	token.UsedAt = database.TimePtr(usedAt)
	return &token, nil
}

// MarkUsed consumes a token. It fails with ErrResetTokenInvalid when the token was
// already used, so a token can be redeemed only once even under concurrent requests.
func (r *ResetTokenRepository) MarkUsed(ctx context.Context, scope database.Scope, id uuid.UUID, at time.Time) error {
	q, err := scope.Update("password_reset_tokens").
		Set("used_at", at).
		Where("id = ? AND used_at IS NULL", id).
		Build(r.dialect)
	if err != nil {
		return err
	}

	querier := database.GetTx(ctx, r.db)
	res, err := querier.ExecContext(ctx, q.SQL, q.Args...)
	if err != nil {
		return apperrors.Wrap(err, "failed to mark password reset token used")
	}
	return requireAffected(res, authDomain.ErrResetTokenInvalid)
}
