package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	authDomain "github.com/capitaldesk/desk/internal/auth/domain"
	authUseCase "github.com/capitaldesk/desk/internal/auth/usecase"
	tenantUseCase "github.com/capitaldesk/desk/internal/tenant/usecase"
)

// CreateUserArgs are the create-user flags.
type CreateUserArgs struct {
	TenantSlug   string
	Email        string
	Name         string
	Role         string
	Capabilities string
	Password     string
	Format       string
}

// RunCreateUser provisions a user inside a tenant without a signed-in principal. It
// is how the first ADMIN of a tenant is created. When no password is given it is read
// from the input.
func RunCreateUser(
	ctx context.Context,
	tenants tenantUseCase.TenantUseCase,
	users authUseCase.UserUseCase,
	logger *slog.Logger,
	io IOTuple,
	args CreateUserArgs,
) error {
	role, err := authDomain.ParseRole(args.Role)
	if err != nil {
		return err
	}
	caps, err := authDomain.ParseCapabilities(splitList(args.Capabilities))
	if err != nil {
		return err
	}

	tenant, err := tenants.ResolveActive(ctx, strings.ToLower(strings.TrimSpace(args.TenantSlug)))
	if err != nil {
		return fmt.Errorf("failed to resolve tenant %q: %w", args.TenantSlug, err)
	}

	password := args.Password
	if password == "" {
		password, err = promptForPassword(io)
		if err != nil {
			return err
		}
	}

	logger.Info("creating user",
		slog.String("tenant_id", tenant.ID.String()),
		slog.String("role", string(role)),
	)

	user, err := users.CreateInTenant(ctx, tenant.ID, &authDomain.CreateUserInput{
		Email:        args.Email,
		Name:         args.Name,
		Password:     password,
		Role:         role,
		Capabilities: caps,
	})
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	if args.Format == FormatJSON {
		writeJSON(io.Writer, map[string]any{
			"user_id":      user.ID.String(),
			"tenant_id":    user.TenantID.String(),
			"email":        user.Email,
			"role":         string(user.Role),
			"capabilities": user.Capabilities.Strings(),
		})
	} else {
		_, _ = fmt.Fprintln(io.Writer, "\nUser created successfully!")
		_, _ = fmt.Fprintf(io.Writer, "User ID: %s\n", user.ID.String())
		_, _ = fmt.Fprintf(io.Writer, "Email: %s\n", user.Email)
		_, _ = fmt.Fprintf(io.Writer, "Role: %s\n", user.Role)
	}

	logger.Info("user created successfully", slog.String("user_id", user.ID.String()))
	return nil
}

// promptForPassword reads the password twice and checks both entries match.
func promptForPassword(io IOTuple) (string, error) {
	reader := bufio.NewReader(io.Reader)

	_, _ = fmt.Fprint(io.Writer, "Password: ")
	first, err := readLine(reader)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	_, _ = fmt.Fprint(io.Writer, "Repeat password: ")
	second, err := readLine(reader)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	if first == "" {
		return "", fmt.Errorf("password cannot be empty")
	}
	if first != second {
		return "", fmt.Errorf("passwords do not match")
	}
	return first, nil
}

func readLine(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
