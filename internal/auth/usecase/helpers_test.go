package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	authDomain "github.com/capitaldesk/desk/internal/auth/domain"
	"github.com/capitaldesk/desk/internal/config"
	"github.com/capitaldesk/desk/internal/database"
	outboxDomain "github.com/capitaldesk/desk/internal/outbox/domain"
	"github.com/capitaldesk/desk/internal/ratelimit"
	tenantDomain "github.com/capitaldesk/desk/internal/tenant/domain"
)

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) Create(ctx context.Context, scope database.Scope, user *authDomain.User) error {
	return m.Called(ctx, scope, user).Error(0)
}

func (m *mockUserRepository) Update(ctx context.Context, scope database.Scope, user *authDomain.User) error {
	return m.Called(ctx, scope, user).Error(0)
}

func (m *mockUserRepository) Get(ctx context.Context, scope database.Scope, id uuid.UUID) (*authDomain.User, error) {
	args := m.Called(ctx, scope, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.User), args.Error(1)
}

func (m *mockUserRepository) GetForUpdate(
	ctx context.Context,
	scope database.Scope,
	id uuid.UUID,
) (*authDomain.User, error) {
	args := m.Called(ctx, scope, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.User), args.Error(1)
}

func (m *mockUserRepository) GetByEmail(
	ctx context.Context,
	scope database.Scope,
	email string,
) (*authDomain.User, error) {
	args := m.Called(ctx, scope, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.User), args.Error(1)
}

func (m *mockUserRepository) List(
	ctx context.Context,
	scope database.Scope,
	filter authDomain.UserListFilter,
) ([]*authDomain.User, error) {
	args := m.Called(ctx, scope, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*authDomain.User), args.Error(1)
}

type mockSessionRepository struct {
	mock.Mock
}

func (m *mockSessionRepository) Create(ctx context.Context, scope database.Scope, session *authDomain.Session) error {
	return m.Called(ctx, scope, session).Error(0)
}

func (m *mockSessionRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*authDomain.Session, error) {
	args := m.Called(ctx, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.Session), args.Error(1)
}

func (m *mockSessionRepository) Revoke(ctx context.Context, scope database.Scope, id uuid.UUID, at time.Time) error {
	return m.Called(ctx, scope, id, at).Error(0)
}

func (m *mockSessionRepository) RevokeAllForUser(
	ctx context.Context,
	scope database.Scope,
	userID uuid.UUID,
	at time.Time,
) (int64, error) {
	args := m.Called(ctx, scope, userID, at)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockSessionRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}

type mockResetTokenRepository struct {
	mock.Mock
}

func (m *mockResetTokenRepository) Create(
	ctx context.Context,
	scope database.Scope,
	token *authDomain.PasswordResetToken,
) error {
	return m.Called(ctx, scope, token).Error(0)
}

func (m *mockResetTokenRepository) GetByTokenHash(
	ctx context.Context,
	tokenHash string,
) (*authDomain.PasswordResetToken, error) {
	args := m.Called(ctx, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.PasswordResetToken), args.Error(1)
}

func (m *mockResetTokenRepository) MarkUsed(ctx context.Context, scope database.Scope, id uuid.UUID, at time.Time) error {
	return m.Called(ctx, scope, id, at).Error(0)
}

type mockOutboxRepository struct {
	mock.Mock
}

func (m *mockOutboxRepository) Create(ctx context.Context, scope database.Scope, event *outboxDomain.OutboxEvent) error {
	return m.Called(ctx, scope, event).Error(0)
}

type mockTenantResolver struct {
	mock.Mock
}

func (m *mockTenantResolver) ResolveActive(ctx context.Context, slug string) (*tenantDomain.Tenant, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tenantDomain.Tenant), args.Error(1)
}

type mockGuard struct {
	mock.Mock
}

func (m *mockGuard) Enforce(ctx context.Context, policy ratelimit.Policy, key string) error {
	return m.Called(ctx, policy, key).Error(0)
}

type mockPasswordService struct {
	mock.Mock
}

func (m *mockPasswordService) Hash(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *mockPasswordService) Compare(password, hash string) bool {
	return m.Called(password, hash).Bool(0)
}

func (m *mockPasswordService) GenerateTemporary() (string, string, error) {
	args := m.Called()
	return args.String(0), args.String(1), args.Error(2)
}

type mockTokenService struct {
	mock.Mock
}

func (m *mockTokenService) GenerateToken() (string, string, error) {
	args := m.Called()
	return args.String(0), args.String(1), args.Error(2)
}

func (m *mockTokenService) HashToken(plainToken string) string {
	return m.Called(plainToken).String(0)
}

type mockSealer struct {
	mock.Mock
}

func (m *mockSealer) Seal(ctx context.Context, plaintext string) (string, error) {
	args := m.Called(ctx, plaintext)
	return args.String(0), args.Error(1)
}

func testAuthConfig() *config.Config {
	return &config.Config{
		SessionExpiration:       12 * time.Hour,
		PasswordResetExpiration: 30 * time.Minute,
		LockoutMaxAttempts:      3,
		LockoutDuration:         30 * time.Minute,
	}
}

func scopeFor(tenantID uuid.UUID) any {
	return mock.MatchedBy(func(s database.Scope) bool { return s.TenantID() == tenantID })
}

func newTenant() *tenantDomain.Tenant {
	return &tenantDomain.Tenant{ID: uuid.Must(uuid.NewV7()), Slug: "metro", Name: "Metro", IsActive: true}
}

func newUser(tenantID uuid.UUID, role authDomain.Role) *authDomain.User {
	now := time.Now().UTC()
	return &authDomain.User{
		ID:             uuid.Must(uuid.NewV7()),
		TenantID:       tenantID,
		Email:          "ops@metro.test",
		Name:           "Ops",
		PasswordHash:   "$argon2id$hash",
		Role:           role,
		SessionVersion: 4,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func adminPrincipal(tenantID uuid.UUID) *authDomain.Principal {
	return &authDomain.Principal{
		UserID:    uuid.Must(uuid.NewV7()),
		TenantID:  tenantID,
		Role:      authDomain.RoleAdmin,
		SessionID: uuid.Must(uuid.NewV7()),
	}
}
