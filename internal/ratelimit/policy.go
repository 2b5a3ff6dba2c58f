package ratelimit

import (
	"context"
	"log/slog"
	"time"

	"github.com/capitaldesk/desk/internal/config"
	apperrors "github.com/capitaldesk/desk/internal/errors"
)

// Policy is a named limit applied to one kind of sensitive request.
type Policy struct {
	Name   string
	Limit  int
	Window time.Duration
}

// Policy names.
const (
	PolicyLogin              = "login"
	PolicyPasswordReset      = "password_reset"
	PolicyAdminPasswordReset = "admin_password_reset"
)

// Policies groups the limits applied by the authentication flows.
type Policies struct {
	Login              Policy
	PasswordReset      Policy
	AdminPasswordReset Policy
}

// DefaultPolicies returns the built-in limits.
func DefaultPolicies() Policies {
	return Policies{
		Login:              Policy{Name: PolicyLogin, Limit: 10, Window: 10 * time.Minute},
		PasswordReset:      Policy{Name: PolicyPasswordReset, Limit: 10, Window: 15 * time.Minute},
		AdminPasswordReset: Policy{Name: PolicyAdminPasswordReset, Limit: 8, Window: 15 * time.Minute},
	}
}

// PoliciesFromConfig returns the limits configured through the environment.
func PoliciesFromConfig(cfg *config.Config) Policies {
	return Policies{
		Login: Policy{
			Name:   PolicyLogin,
			Limit:  cfg.RateLimitLoginMax,
			Window: cfg.RateLimitLoginWindow,
		},
		PasswordReset: Policy{
			Name:   PolicyPasswordReset,
			Limit:  cfg.RateLimitPasswordResetMax,
			Window: cfg.RateLimitPasswordResetWindow,
		},
		AdminPasswordReset: Policy{
			Name:   PolicyAdminPasswordReset,
			Limit:  cfg.RateLimitAdminResetMax,
			Window: cfg.RateLimitAdminResetWindow,
		},
	}
}

// DecisionRecorder receives every limiter decision.
type DecisionRecorder interface {
	RecordRateLimit(ctx context.Context, policy string, allowed bool)
}

// Guard applies policies on top of a Limiter and turns denials into domain errors.
type Guard struct {
	limiter  Limiter
	recorder DecisionRecorder
	logger   *slog.Logger
}

// NewGuard creates a Guard. recorder may be nil.
func NewGuard(limiter Limiter, recorder DecisionRecorder, logger *slog.Logger) *Guard {
	return &Guard{limiter: limiter, recorder: recorder, logger: logger}
}

// Enforce counts a hit for key under policy. It returns a *errors.RateLimitError
// when the window is exhausted.
//
// Limiter backend failures are logged and the request is let through.
func (g *Guard) Enforce(ctx context.Context, policy Policy, key string) error {
	res, err := g.limiter.Check(ctx, policy.Name+":"+key, policy.Limit, policy.Window)
	if err != nil {
		if g.logger != nil {
			g.logger.Warn("rate limiter unavailable",
				slog.String("policy", policy.Name),
				slog.Any("error", err),
			)
		}
		return nil
	}

	if g.recorder != nil {
		g.recorder.RecordRateLimit(ctx, policy.Name, res.Allowed)
	}

	if !res.Allowed {
		if g.logger != nil {
			g.logger.Warn("rate limit exceeded",
				slog.String("policy", policy.Name),
				slog.Duration("retry_after", res.RetryAfter),
			)
		}
		return apperrors.NewRateLimitError(policy.Name, res.RetryAfter)
	}
	return nil
}
