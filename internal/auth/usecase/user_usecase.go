package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	authDomain "github.com/capitaldesk/desk/internal/auth/domain"
	authService "github.com/capitaldesk/desk/internal/auth/service"
	"github.com/capitaldesk/desk/internal/database"
	apperrors "github.com/capitaldesk/desk/internal/errors"
	customValidation "github.com/capitaldesk/desk/internal/validation"
)

// userUseCase implements UserUseCase.
type userUseCase struct {
	txManager       database.TxManager
	userRepo        UserRepository
	sessionRepo     SessionRepository
	passwordService authService.PasswordService
	now             func() time.Time
}

// NewUserUseCase creates a new UserUseCase with the provided dependencies.
func NewUserUseCase(
	txManager database.TxManager,
	userRepo UserRepository,
	sessionRepo SessionRepository,
	passwordService authService.PasswordService,
) UserUseCase {
	return &userUseCase{
		txManager:       txManager,
		userRepo:        userRepo,
		sessionRepo:     sessionRepo,
		passwordService: passwordService,
		now:             func() time.Time { return time.Now().UTC() },
	}
}

// adminScope checks the principal is an administrator and returns its tenant scope.
func adminScope(principal *authDomain.Principal) (database.Scope, error) {
	if principal == nil {
		return database.Scope{}, apperrors.ErrUnauthorized
	}
	if !principal.IsAdmin() {
		return database.Scope{}, authDomain.ErrAdminRequired
	}
	return database.NewScope(principal.TenantID)
}

func (u *userUseCase) Create(
	ctx context.Context,
	principal *authDomain.Principal,
	input *authDomain.CreateUserInput,
) (*authDomain.User, error) {
	if _, err := adminScope(principal); err != nil {
		return nil, err
	}
	return u.CreateInTenant(ctx, principal.TenantID, input)
}

func (u *userUseCase) CreateInTenant(
	ctx context.Context,
	tenantID uuid.UUID,
	input *authDomain.CreateUserInput,
) (*authDomain.User, error) {
	scope, err := database.NewScope(tenantID)
	if err != nil {
		return nil, err
	}

	email := normalizeEmail(input.Email)
	name := strings.TrimSpace(input.Name)

	err = validation.Errors{
		"email":    validation.Validate(email, validation.Required, customValidation.Email),
		"name":     validation.Validate(name, validation.Required, validation.Length(1, 255)),
		"password": validation.Validate(input.Password, validation.Required, customValidation.DefaultPassword),
		"role": validation.Validate(string(input.Role), validation.Required,
			customValidation.OneOf(authDomain.RoleNames()...)),
	}.Filter()
	if err != nil {
		return nil, customValidation.WrapValidationError(err)
	}

	hash, err := u.passwordService.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	now := u.now()
	user := &authDomain.User{
		ID:             uuid.Must(uuid.NewV7()),
		TenantID:       tenantID,
		Email:          email,
		Name:           name,
		PasswordHash:   hash,
		Role:           input.Role,
		Capabilities:   input.Capabilities,
		SessionVersion: 1,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := u.userRepo.Create(ctx, scope, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (u *userUseCase) Get(
	ctx context.Context,
	principal *authDomain.Principal,
	userID uuid.UUID,
) (*authDomain.User, error) {
	scope, err := adminScope(principal)
	if err != nil {
		return nil, err
	}
	return u.userRepo.Get(ctx, scope, userID)
}

func (u *userUseCase) List(
	ctx context.Context,
	principal *authDomain.Principal,
	filter authDomain.UserListFilter,
) ([]*authDomain.User, error) {
	scope, err := adminScope(principal)
	if err != nil {
		return nil, err
	}
	if filter.Role != "" && !filter.Role.Valid() {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidInput, "unknown role %q", filter.Role)
	}
	return u.userRepo.List(ctx, scope, filter)
}

func (u *userUseCase) Update(
	ctx context.Context,
	principal *authDomain.Principal,
	userID uuid.UUID,
	input *authDomain.UpdateUserInput,
) (*authDomain.User, error) {
	scope, err := adminScope(principal)
	if err != nil {
		return nil, err
	}

	if input.Role != nil && !input.Role.Valid() {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidInput, "unknown role %q", *input.Role)
	}
	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "name: cannot be blank")
	}
	if userID == principal.UserID {
		demoted := input.Role != nil && *input.Role != authDomain.RoleAdmin
		deactivated := input.IsActive != nil && !*input.IsActive
		if demoted || deactivated {
			return nil, authDomain.ErrSelfDemotion
		}
	}

	var user *authDomain.User
	err = u.txManager.WithTx(ctx, func(ctx context.Context) error {
		var err error
		user, err = u.userRepo.GetForUpdate(ctx, scope, userID)
		if err != nil {
			return err
		}

		now := u.now()
		if input.Name != nil {
			user.Name = strings.TrimSpace(*input.Name)
		}
		if input.Role != nil {
			user.Role = *input.Role
		}
		if input.Capabilities != nil {
			user.Capabilities = *input.Capabilities
		}
		if input.IsActive != nil {
			user.IsActive = *input.IsActive
		}
		if input.ChangesAccess() {
			user.SessionVersion++
		}
		user.UpdatedAt = now

		if err := u.userRepo.Update(ctx, scope, user); err != nil {
			return err
		}
		if input.ChangesAccess() {
			if _, err := u.sessionRepo.RevokeAllForUser(ctx, scope, user.ID, now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}
