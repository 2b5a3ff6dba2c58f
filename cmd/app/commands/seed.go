package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"gopkg.in/yaml.v3"

	authDomain "github.com/capitaldesk/desk/internal/auth/domain"
	authUseCase "github.com/capitaldesk/desk/internal/auth/usecase"
	apperrors "github.com/capitaldesk/desk/internal/errors"
	fleetDomain "github.com/capitaldesk/desk/internal/fleet/domain"
	fleetUseCase "github.com/capitaldesk/desk/internal/fleet/usecase"
	tenantDomain "github.com/capitaldesk/desk/internal/tenant/domain"
	tenantUseCase "github.com/capitaldesk/desk/internal/tenant/usecase"
)

// SeedFixture is the YAML document read by the seed command.
//
//	tenants:
//	  - slug: capital
//	    name: Capital Transit
//	    users:
//	      - email: admin@capital.test
//	        name: Admin
//	        role: ADMIN
//	        password: Change-me-now-1
//	    buses:
//	      - fleet_number: "1042"
//	        plate: CT-1042
type SeedFixture struct {
	Tenants []SeedTenant `yaml:"tenants"`
}

// SeedTenant is one tenant with its users and buses.
type SeedTenant struct {
	Slug  string     `yaml:"slug"`
	Name  string     `yaml:"name"`
	Users []SeedUser `yaml:"users"`
	Buses []SeedBus  `yaml:"buses"`
}

// SeedUser is a user created inside its tenant.
type SeedUser struct {
	Email        string   `yaml:"email"`
	Name         string   `yaml:"name"`
	Role         string   `yaml:"role"`
	Capabilities []string `yaml:"capabilities"`
	Password     string   `yaml:"password"`
}

// SeedBus is a bus created inside its tenant.
type SeedBus struct {
	FleetNumber string `yaml:"fleet_number"`
	Plate       string `yaml:"plate"`
	Model       string `yaml:"model"`
	Depot       string `yaml:"depot"`
}

// SeedResult counts what the seed command created and skipped.
type SeedResult struct {
	TenantsCreated int `json:"tenants_created"`
	UsersCreated   int `json:"users_created"`
	UsersSkipped   int `json:"users_skipped"`
	BusesCreated   int `json:"buses_created"`
	BusesSkipped   int `json:"buses_skipped"`
}

// SeedDeps are the use cases the seed command writes through.
type SeedDeps struct {
	Tenants tenantUseCase.TenantUseCase
	Users   authUseCase.UserUseCase
	Buses   fleetUseCase.BusUseCase
}

// RunSeed loads a YAML fixture and creates its tenants, users and buses. Records that
// already exist are skipped, so the command can be run repeatedly.
func RunSeed(
	ctx context.Context,
	deps SeedDeps,
	logger *slog.Logger,
	reader io.Reader,
	writer io.Writer,
	format string,
) error {
	var fixture SeedFixture
	if err := yaml.NewDecoder(reader).Decode(&fixture); err != nil {
		return fmt.Errorf("failed to parse seed fixture: %w", err)
	}

	var result SeedResult
	for _, ft := range fixture.Tenants {
		if err := seedTenant(ctx, deps, logger, ft, &result); err != nil {
			return err
		}
	}

	if format == FormatJSON {
		writeJSON(writer, result)
	} else {
		_, _ = fmt.Fprintln(writer, "\nSeed completed")
		_, _ = fmt.Fprintf(writer, "Tenants created: %d\n", result.TenantsCreated)
		_, _ = fmt.Fprintf(writer, "Users created: %d (skipped %d)\n", result.UsersCreated, result.UsersSkipped)
		_, _ = fmt.Fprintf(writer, "Buses created: %d (skipped %d)\n", result.BusesCreated, result.BusesSkipped)
	}

	logger.Info("seed completed",
		slog.Int("tenants_created", result.TenantsCreated),
		slog.Int("users_created", result.UsersCreated),
		slog.Int("buses_created", result.BusesCreated),
	)
	return nil
}

func seedTenant(
	ctx context.Context,
	deps SeedDeps,
	logger *slog.Logger,
	ft SeedTenant,
	result *SeedResult,
) error {
	tenant, err := deps.Tenants.Create(ctx, &tenantDomain.CreateTenantInput{Slug: ft.Slug, Name: ft.Name})
	switch {
	case err == nil:
		result.TenantsCreated++
	case apperrors.Is(err, tenantDomain.ErrTenantSlugExists):
		tenant, err = deps.Tenants.ResolveActive(ctx, ft.Slug)
		if err != nil {
			return fmt.Errorf("failed to resolve tenant %q: %w", ft.Slug, err)
		}
	default:
		return fmt.Errorf("failed to create tenant %q: %w", ft.Slug, err)
	}

	for _, fu := range ft.Users {
		role, err := authDomain.ParseRole(fu.Role)
		if err != nil {
			return fmt.Errorf("user %s: %w", fu.Email, err)
		}
		caps, err := authDomain.ParseCapabilities(fu.Capabilities)
		if err != nil {
			return fmt.Errorf("user %s: %w", fu.Email, err)
		}

		_, err = deps.Users.CreateInTenant(ctx, tenant.ID, &authDomain.CreateUserInput{
			Email:        fu.Email,
			Name:         fu.Name,
			Password:     fu.Password,
			Role:         role,
			Capabilities: caps,
		})
		switch {
		case err == nil:
			result.UsersCreated++
		case apperrors.Is(err, authDomain.ErrEmailAlreadyExists):
			result.UsersSkipped++
			logger.Debug("seed user exists", slog.String("tenant", ft.Slug), slog.String("email", fu.Email))
		default:
			return fmt.Errorf("failed to create user %s: %w", fu.Email, err)
		}
	}

	// Buses are written as the tenant's administrator.
	operator := &authDomain.Principal{TenantID: tenant.ID, Role: authDomain.RoleAdmin}
	for _, fb := range ft.Buses {
		_, err := deps.Buses.Create(ctx, operator, &fleetDomain.CreateBusInput{
			FleetNumber: fb.FleetNumber,
			Plate:       fb.Plate,
			Model:       fb.Model,
			Depot:       fb.Depot,
		})
		switch {
		case err == nil:
			result.BusesCreated++
		case apperrors.Is(err, fleetDomain.ErrFleetNumberExists):
			result.BusesSkipped++
		default:
			return fmt.Errorf("failed to create bus %s: %w", fb.FleetNumber, err)
		}
	}
	return nil
}
