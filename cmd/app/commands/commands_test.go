package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authDomain "github.com/capitaldesk/desk/internal/auth/domain"
	authMocks "github.com/capitaldesk/desk/internal/auth/usecase/mocks"
	fleetDomain "github.com/capitaldesk/desk/internal/fleet/domain"
	fleetMocks "github.com/capitaldesk/desk/internal/fleet/usecase/mocks"
	tenantDomain "github.com/capitaldesk/desk/internal/tenant/domain"
	tenantMocks "github.com/capitaldesk/desk/internal/tenant/usecase/mocks"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunCreateTenant(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_JSON", func(t *testing.T) {
		tenants := tenantMocks.NewMockTenantUseCase(t)
		tenant := &tenantDomain.Tenant{ID: uuid.Must(uuid.NewV7()), Slug: "capital", Name: "Capital Transit"}
		tenants.On("Create", ctx, &tenantDomain.CreateTenantInput{Slug: "capital", Name: "Capital Transit"}).
			Return(tenant, nil).
			Once()

		var out bytes.Buffer
		err := RunCreateTenant(ctx, tenants, discardLogger(), &out, "capital", "Capital Transit", "json")
		require.NoError(t, err)

		var body map[string]string
		require.NoError(t, json.Unmarshal(out.Bytes(), &body))
		assert.Equal(t, tenant.ID.String(), body["tenant_id"])
		assert.Equal(t, "capital", body["slug"])
	})

	t.Run("Error_SlugExists", func(t *testing.T) {
		tenants := tenantMocks.NewMockTenantUseCase(t)
		tenants.On("Create", ctx, mock.Anything).Return(nil, tenantDomain.ErrTenantSlugExists).Once()

		var out bytes.Buffer
		err := RunCreateTenant(ctx, tenants, discardLogger(), &out, "capital", "Capital Transit", "text")
		assert.ErrorIs(t, err, tenantDomain.ErrTenantSlugExists)
		assert.Empty(t, out.String())
	})
}

func TestRunCreateUser(t *testing.T) {
	ctx := context.Background()
	tenant := &tenantDomain.Tenant{ID: uuid.Must(uuid.NewV7()), Slug: "capital", IsActive: true}

	t.Run("Success_PromptsForPassword", func(t *testing.T) {
		tenants := tenantMocks.NewMockTenantUseCase(t)
		users := authMocks.NewMockUserUseCase(t)

		tenants.On("ResolveActive", ctx, "capital").Return(tenant, nil).Once()
		users.On("CreateInTenant", ctx, tenant.ID, mock.MatchedBy(func(in *authDomain.CreateUserInput) bool {
			return in.Password == "s3cret-pass-123" &&
				in.Role == authDomain.RoleAdmin &&
				in.Capabilities.Has(authDomain.CapStsAdmin)
		})).Return(&authDomain.User{
			ID:           uuid.Must(uuid.NewV7()),
			TenantID:     tenant.ID,
			Email:        "admin@capital.test",
			Role:         authDomain.RoleAdmin,
			Capabilities: authDomain.Capabilities{authDomain.CapStsAdmin},
		}, nil).Once()

		var out bytes.Buffer
		tuple := IOTuple{Reader: strings.NewReader("s3cret-pass-123\ns3cret-pass-123\n"), Writer: &out}
		err := RunCreateUser(ctx, tenants, users, discardLogger(), tuple, CreateUserArgs{
			TenantSlug:   " Capital ",
			Email:        "admin@capital.test",
			Name:         "Admin",
			Role:         "admin",
			Capabilities: "STS_ADMIN, ",
			Format:       "text",
		})
		require.NoError(t, err)
		assert.Contains(t, out.String(), "User created successfully!")
		assert.Contains(t, out.String(), "Role: ADMIN")
	})

	t.Run("Error_PasswordMismatch", func(t *testing.T) {
		tenants := tenantMocks.NewMockTenantUseCase(t)
		users := authMocks.NewMockUserUseCase(t)
		tenants.On("ResolveActive", ctx, "capital").Return(tenant, nil).Once()

		tuple := IOTuple{Reader: strings.NewReader("first-password\nsecond-password\n"), Writer: io.Discard}
		err := RunCreateUser(ctx, tenants, users, discardLogger(), tuple, CreateUserArgs{
			TenantSlug: "capital",
			Email:      "admin@capital.test",
			Role:       "ADMIN",
		})
		assert.EqualError(t, err, "passwords do not match")
	})

	t.Run("Error_UnknownRole", func(t *testing.T) {
		tenants := tenantMocks.NewMockTenantUseCase(t)
		users := authMocks.NewMockUserUseCase(t)

		err := RunCreateUser(ctx, tenants, users, discardLogger(), IOTuple{Writer: io.Discard}, CreateUserArgs{
			TenantSlug: "capital",
			Role:       "DRIVER",
			Password:   "whatever-123",
		})
		assert.Error(t, err)
	})

	t.Run("Error_UnknownTenant", func(t *testing.T) {
		tenants := tenantMocks.NewMockTenantUseCase(t)
		users := authMocks.NewMockUserUseCase(t)
		tenants.On("ResolveActive", ctx, "ghost").Return(nil, tenantDomain.ErrTenantNotFound).Once()

		err := RunCreateUser(ctx, tenants, users, discardLogger(), IOTuple{Writer: io.Discard}, CreateUserArgs{
			TenantSlug: "ghost",
			Role:       "ADMIN",
			Password:   "whatever-123",
		})
		assert.ErrorIs(t, err, tenantDomain.ErrTenantNotFound)
	})
}

func TestRunCleanExpiredSessions(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		sessions := authMocks.NewMockSessionUseCase(t)
		sessions.On("CleanExpired", ctx, 7*24*time.Hour).Return(int64(12), nil).Once()

		var out bytes.Buffer
		err := RunCleanExpiredSessions(ctx, sessions, discardLogger(), &out, 7, "json")
		require.NoError(t, err)

		var body map[string]any
		require.NoError(t, json.Unmarshal(out.Bytes(), &body))
		assert.Equal(t, float64(12), body["count"])
		assert.Equal(t, float64(7), body["days"])
	})

	t.Run("Error_NegativeDays", func(t *testing.T) {
		sessions := authMocks.NewMockSessionUseCase(t)
		err := RunCleanExpiredSessions(ctx, sessions, discardLogger(), io.Discard, -1, "text")
		assert.Error(t, err)
	})

	t.Run("Error_Repository", func(t *testing.T) {
		sessions := authMocks.NewMockSessionUseCase(t)
		sessions.On("CleanExpired", ctx, time.Duration(0)).Return(int64(0), errors.New("db down")).Once()
		err := RunCleanExpiredSessions(ctx, sessions, discardLogger(), io.Discard, 0, "text")
		assert.ErrorContains(t, err, "db down")
	})
}

const seedFixture = `
tenants:
  - slug: capital
    name: Capital Transit
    users:
      - email: admin@capital.test
        name: Admin
        role: ADMIN
        password: change-me-now-1
      - email: tech@capital.test
        name: Tech
        role: TECHNICIAN
        password: change-me-now-2
    buses:
      - fleet_number: "1042"
        plate: CT-1042
        model: Citaro
        depot: North
      - fleet_number: "1043"
        plate: CT-1043
`

func TestRunSeed(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_SkipsExisting", func(t *testing.T) {
		tenants := tenantMocks.NewMockTenantUseCase(t)
		users := authMocks.NewMockUserUseCase(t)
		buses := fleetMocks.NewMockBusUseCase(t)
		tenant := &tenantDomain.Tenant{ID: uuid.Must(uuid.NewV7()), Slug: "capital"}

		tenants.On("Create", ctx, &tenantDomain.CreateTenantInput{Slug: "capital", Name: "Capital Transit"}).
			Return(nil, tenantDomain.ErrTenantSlugExists).
			Once()
		tenants.On("ResolveActive", ctx, "capital").Return(tenant, nil).Once()

		users.On("CreateInTenant", ctx, tenant.ID, mock.MatchedBy(func(in *authDomain.CreateUserInput) bool {
			return in.Email == "admin@capital.test"
		})).Return(nil, authDomain.ErrEmailAlreadyExists).Once()
		users.On("CreateInTenant", ctx, tenant.ID, mock.MatchedBy(func(in *authDomain.CreateUserInput) bool {
			return in.Email == "tech@capital.test" && in.Role == authDomain.RoleTechnician
		})).Return(&authDomain.User{ID: uuid.Must(uuid.NewV7())}, nil).Once()

		isTenantAdmin := mock.MatchedBy(func(p *authDomain.Principal) bool {
			return p.TenantID == tenant.ID && p.Role == authDomain.RoleAdmin
		})
		buses.On("Create", ctx, isTenantAdmin, mock.MatchedBy(func(in *fleetDomain.CreateBusInput) bool {
			return in.FleetNumber == "1042" && in.Depot == "North"
		})).Return(&fleetDomain.Bus{ID: uuid.Must(uuid.NewV7())}, nil).Once()
		buses.On("Create", ctx, isTenantAdmin, mock.MatchedBy(func(in *fleetDomain.CreateBusInput) bool {
			return in.FleetNumber == "1043"
		})).Return(nil, fleetDomain.ErrFleetNumberExists).Once()

		var out bytes.Buffer
		deps := SeedDeps{Tenants: tenants, Users: users, Buses: buses}
		err := RunSeed(ctx, deps, discardLogger(), strings.NewReader(seedFixture), &out, "json")
		require.NoError(t, err)

		var result SeedResult
		require.NoError(t, json.Unmarshal(out.Bytes(), &result))
		assert.Equal(t, SeedResult{
			TenantsCreated: 0,
			UsersCreated:   1,
			UsersSkipped:   1,
			BusesCreated:   1,
			BusesSkipped:   1,
		}, result)
	})

	t.Run("Error_InvalidYAML", func(t *testing.T) {
		deps := SeedDeps{
			Tenants: tenantMocks.NewMockTenantUseCase(t),
			Users:   authMocks.NewMockUserUseCase(t),
			Buses:   fleetMocks.NewMockBusUseCase(t),
		}
		err := RunSeed(ctx, deps, discardLogger(), strings.NewReader("tenants: [oops"), io.Discard, "text")
		assert.ErrorContains(t, err, "failed to parse seed fixture")
	})

	t.Run("Error_UnknownRoleStops", func(t *testing.T) {
		tenants := tenantMocks.NewMockTenantUseCase(t)
		tenant := &tenantDomain.Tenant{ID: uuid.Must(uuid.NewV7()), Slug: "capital"}
		tenants.On("Create", ctx, mock.Anything).Return(tenant, nil).Once()

		deps := SeedDeps{
			Tenants: tenants,
			Users:   authMocks.NewMockUserUseCase(t),
			Buses:   fleetMocks.NewMockBusUseCase(t),
		}
		fixture := "tenants:\n  - slug: capital\n    name: Capital\n    users:\n      - email: x@capital.test\n        role: DRIVER\n"
		err := RunSeed(ctx, deps, discardLogger(), strings.NewReader(fixture), io.Discard, "text")
		assert.ErrorContains(t, err, "x@capital.test")
	})
}

func TestValidateFormat(t *testing.T) {
	assert.NoError(t, ValidateFormat(FormatText))
	assert.NoError(t, ValidateFormat(FormatJSON))

	err := ValidateFormat("yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid format "yaml"`)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"STS_READ", "PLANNER"}, splitList(" STS_READ, ,PLANNER,"))
	assert.Nil(t, splitList(""))
}
