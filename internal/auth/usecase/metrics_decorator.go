package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/capitaldesk/desk/internal/auth/domain"
	"github.com/capitaldesk/desk/internal/metrics"
)

func recordAuth(ctx context.Context, m metrics.BusinessMetrics, operation string, start time.Time, err error) {
	status := metrics.StatusSuccess
	if err != nil {
		status = metrics.StatusError
	}
	m.RecordOperation(ctx, "auth", operation, status)
	m.RecordDuration(ctx, "auth", operation, time.Since(start), status)
}

// sessionUseCaseWithMetrics decorates SessionUseCase with metrics instrumentation.
type sessionUseCaseWithMetrics struct {
	next    SessionUseCase
	metrics metrics.BusinessMetrics
}

// NewSessionUseCaseWithMetrics wraps a SessionUseCase with metrics recording.
func NewSessionUseCaseWithMetrics(useCase SessionUseCase, m metrics.BusinessMetrics) SessionUseCase {
	return &sessionUseCaseWithMetrics{next: useCase, metrics: m}
}

// Login records metrics for sign-in attempts.
func (s *sessionUseCaseWithMetrics) Login(
	ctx context.Context,
	input *authDomain.LoginInput,
) (*authDomain.LoginOutput, error) {
	start := time.Now()
	output, err := s.next.Login(ctx, input)
	recordAuth(ctx, s.metrics, "login", start, err)
	return output, err
}

// Authenticate records metrics for session validation.
func (s *sessionUseCaseWithMetrics) Authenticate(ctx context.Context, tokenHash string) (*authDomain.Principal, error) {
	start := time.Now()
	principal, err := s.next.Authenticate(ctx, tokenHash)
	recordAuth(ctx, s.metrics, "session_authenticate", start, err)
	return principal, err
}

// Logout records metrics for sign-out.
func (s *sessionUseCaseWithMetrics) Logout(ctx context.Context, principal *authDomain.Principal) error {
	start := time.Now()
	err := s.next.Logout(ctx, principal)
	recordAuth(ctx, s.metrics, "logout", start, err)
	return err
}

// CleanExpired records metrics for session cleanup.
func (s *sessionUseCaseWithMetrics) CleanExpired(ctx context.Context, olderThan time.Duration) (int64, error) {
	start := time.Now()
	n, err := s.next.CleanExpired(ctx, olderThan)
	recordAuth(ctx, s.metrics, "session_clean_expired", start, err)
	return n, err
}

// passwordResetUseCaseWithMetrics decorates PasswordResetUseCase with metrics instrumentation.
type passwordResetUseCaseWithMetrics struct {
	next    PasswordResetUseCase
	metrics metrics.BusinessMetrics
}

// NewPasswordResetUseCaseWithMetrics wraps a PasswordResetUseCase with metrics recording.
func NewPasswordResetUseCaseWithMetrics(useCase PasswordResetUseCase, m metrics.BusinessMetrics) PasswordResetUseCase {
	return &passwordResetUseCaseWithMetrics{next: useCase, metrics: m}
}

// Request records metrics for reset requests.
func (p *passwordResetUseCaseWithMetrics) Request(ctx context.Context, input *authDomain.PasswordResetRequest) error {
	start := time.Now()
	err := p.next.Request(ctx, input)
	recordAuth(ctx, p.metrics, "password_reset_request", start, err)
	return err
}

// Confirm records metrics for reset confirmations.
func (p *passwordResetUseCaseWithMetrics) Confirm(ctx context.Context, input *authDomain.PasswordResetConfirm) error {
	start := time.Now()
	err := p.next.Confirm(ctx, input)
	recordAuth(ctx, p.metrics, "password_reset_confirm", start, err)
	return err
}

// AdminReset records metrics for administrator resets.
func (p *passwordResetUseCaseWithMetrics) AdminReset(
	ctx context.Context,
	principal *authDomain.Principal,
	userID uuid.UUID,
) (*authDomain.AdminResetOutput, error) {
	start := time.Now()
	output, err := p.next.AdminReset(ctx, principal, userID)
	recordAuth(ctx, p.metrics, "admin_password_reset", start, err)
	return output, err
}
