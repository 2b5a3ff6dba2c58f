package dto

import (
	"time"

	authDomain "github.com/capitaldesk/desk/internal/auth/domain"
)

// PermissionsResponse is the derived permission set of a principal.
type PermissionsResponse struct {
	StsRead       bool `json:"sts_read"`
	StsWrite      bool `json:"sts_write"`
	StsAdmin      bool `json:"sts_admin"`
	StsAccess     bool `json:"sts_access"`
	PlannerAccess bool `json:"planner_access"`
	CaseAssign    bool `json:"case_assign"`
}

// MeResponse describes the signed-in caller.
type MeResponse struct {
	UserID       string              `json:"user_id"`
	TenantID     string              `json:"tenant_id"`
	Email        string              `json:"email"`
	Name         string              `json:"name"`
	Role         string              `json:"role"`
	Capabilities []string            `json:"capabilities"`
	Permissions  PermissionsResponse `json:"permissions"`
}

// MapPrincipalToMeResponse converts a principal into the /me response.
func MapPrincipalToMeResponse(p *authDomain.Principal) MeResponse {
	perms := p.Permissions()
	return MeResponse{
		UserID:       p.UserID.String(),
		TenantID:     p.TenantID.String(),
		Email:        p.Email,
		Name:         p.Name,
		Role:         string(p.Role),
		Capabilities: p.Capabilities.Strings(),
		Permissions: PermissionsResponse{
			StsRead:       perms.StsRead,
			StsWrite:      perms.StsWrite,
			StsAdmin:      perms.StsAdmin,
			StsAccess:     perms.StsAccess,
			PlannerAccess: perms.PlannerAccess,
			CaseAssign:    perms.CaseAssign,
		},
	}
}

// LoginResponse is returned after a successful login. The token is shown once.
type LoginResponse struct {
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expires_at"`
	User      MeResponse `json:"user"`
}

// MapLoginOutputToResponse converts a login output into the HTTP response.
func MapLoginOutputToResponse(out *authDomain.LoginOutput) LoginResponse {
	return LoginResponse{
		Token:     out.Token,
		ExpiresAt: out.ExpiresAt,
		User:      MapPrincipalToMeResponse(out.Principal),
	}
}

// UserResponse represents a user in API responses. The password hash is never exposed.
type UserResponse struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	Name         string     `json:"name"`
	Role         string     `json:"role"`
	Capabilities []string   `json:"capabilities"`
	IsActive     bool       `json:"is_active"`
	LockedUntil  *time.Time `json:"locked_until,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// MapUserToResponse converts a domain user into an API response.
func MapUserToResponse(u *authDomain.User) UserResponse {
	return UserResponse{
		ID:           u.ID.String(),
		Email:        u.Email,
		Name:         u.Name,
		Role:         string(u.Role),
		Capabilities: u.Capabilities.Strings(),
		IsActive:     u.IsActive,
		LockedUntil:  u.LockedUntil,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

// ListUsersResponse represents a paginated list of users.
type ListUsersResponse struct {
	Data []UserResponse `json:"data"`
}

// MapUsersToListResponse converts a slice of users into a list response.
func MapUsersToListResponse(users []*authDomain.User) ListUsersResponse {
	data := make([]UserResponse, 0, len(users))
	for _, u := range users {
		data = append(data, MapUserToResponse(u))
	}
	return ListUsersResponse{Data: data}
}

// AdminResetResponse carries the temporary password issued by an administrator.
type AdminResetResponse struct {
	UserID            string `json:"user_id"`
	TemporaryPassword string `json:"temporary_password"`
}

// AcceptedResponse acknowledges a request without revealing its outcome.
type AcceptedResponse struct {
	Message string `json:"message"`
}
