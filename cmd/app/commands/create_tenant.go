package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	tenantDomain "github.com/capitaldesk/desk/internal/tenant/domain"
	tenantUseCase "github.com/capitaldesk/desk/internal/tenant/usecase"
)

// RunCreateTenant provisions a new operator. Tenants have no HTTP surface; this
// command is the only way to create one.
func RunCreateTenant(
	ctx context.Context,
	tenants tenantUseCase.TenantUseCase,
	logger *slog.Logger,
	writer io.Writer,
	slug string,
	name string,
	format string,
) error {
	logger.Info("creating tenant", slog.String("slug", slug))

	tenant, err := tenants.Create(ctx, &tenantDomain.CreateTenantInput{Slug: slug, Name: name})
	if err != nil {
		return fmt.Errorf("failed to create tenant: %w", err)
	}

	if format == FormatJSON {
		writeJSON(writer, map[string]string{
			"tenant_id": tenant.ID.String(),
			"slug":      tenant.Slug,
			"name":      tenant.Name,
		})
	} else {
		_, _ = fmt.Fprintln(writer, "\nTenant created successfully!")
		_, _ = fmt.Fprintf(writer, "Tenant ID: %s\n", tenant.ID.String())
		_, _ = fmt.Fprintf(writer, "Slug: %s\n", tenant.Slug)
	}

	logger.Info("tenant created successfully",
		slog.String("tenant_id", tenant.ID.String()),
		slog.String("slug", tenant.Slug),
	)
	return nil
}
