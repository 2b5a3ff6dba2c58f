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

var sessionColumns = []string{
	"id", "tenant_id", "user_id", "token_hash", "session_version", "expires_at", "revoked_at", "created_at",
}

// SessionRepository persists login sessions.
type SessionRepository struct {
	db      *sql.DB
	dialect database.Dialect
}

// NewSessionRepository creates a new SessionRepository.
func NewSessionRepository(db *sql.DB, dialect database.Dialect) *SessionRepository {
	return &SessionRepository{db: db, dialect: dialect}
}

// Create inserts a new session.
func (r *SessionRepository) Create(ctx context.Context, scope database.Scope, session *authDomain.Session) error {
	q, err := scope.Insert("sessions").
		Set("id", session.ID).
		Set("user_id", session.UserID).
		Set("token_hash", session.TokenHash).
		Set("session_version", session.SessionVersion).
		Set("expires_at", session.ExpiresAt).
		Set("revoked_at", database.NullTime(session.RevokedAt)).
		Set("created_at", session.CreatedAt).
		Build(r.dialect)
	if err != nil {
		return err
	}

	querier := database.GetTx(ctx, r.db)
	if _, err := querier.ExecContext(ctx, q.SQL, q.Args...); err != nil {
		return apperrors.Wrap(err, "failed to create session")
	}
	return nil
}

// GetByTokenHash looks a session up by its token hash.
//
// Unscoped: the tenant is only known once the session is found. The returned
// session's TenantID is what every later query is scoped to.
func (r *SessionRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*authDomain.Session, error) {
	query := database.Rebind(r.dialect,
		`SELECT id, tenant_id, user_id, token_hash, session_version, expires_at, revoked_at, created_at
		 FROM sessions WHERE token_hash = ?`)

	querier := database.GetTx(ctx, r.db)
	session, err := scanSession(querier.QueryRowContext(ctx, query, tokenHash))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, authDomain.ErrSessionNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get session")
	}
	return session, nil
}

// Revoke marks one session revoked.
func (r *SessionRepository) Revoke(ctx context.Context, scope database.Scope, id uuid.UUID, at time.Time) error {
	q, err := scope.Update("sessions").
		Set("revoked_at", at).
		Where("id = ? AND revoked_at IS NULL", id).
		Build(r.dialect)
	if err != nil {
		return err
	}

	querier := database.GetTx(ctx, r.db)
	if _, err := querier.ExecContext(ctx, q.SQL, q.Args...); err != nil {
		return apperrors.Wrap(err, "failed to revoke session")
	}
	return nil
}

// RevokeAllForUser revokes every open session of a user.
func (r *SessionRepository) RevokeAllForUser(
	ctx context.Context,
	scope database.Scope,
	userID uuid.UUID,
	at time.Time,
) (int64, error) {
	q, err := scope.Update("sessions").
		Set("revoked_at", at).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Build(r.dialect)
	if err != nil {
		return 0, err
	}

	querier := database.GetTx(ctx, r.db)
	res, err := querier.ExecContext(ctx, q.SQL, q.Args...)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to revoke user sessions")
	}
	return res.RowsAffected()
}

// DeleteExpired removes sessions that expired before the given time, across tenants.
//
// Unscoped: maintenance job run by the operator.
func (r *SessionRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	query := database.Rebind(r.dialect, `DELETE FROM sessions WHERE expires_at < ?`)

	querier := database.GetTx(ctx, r.db)
	res, err := querier.ExecContext(ctx, query, before)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete expired sessions")
	}
	return res.RowsAffected()
}

func scanSession(row database.RowScanner) (*authDomain.Session, error) {
	var (
		session   authDomain.Session
		revokedAt sql.NullTime
	)
	err := row.Scan(
		&session.ID,
		&session.TenantID,
		&session.UserID,
		&session.TokenHash,
		&session.SessionVersion,
		&session.ExpiresAt,
		&revokedAt,
		&session.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	session.RevokedAt = database.TimePtr(revokedAt)
	return &session, nil
}
