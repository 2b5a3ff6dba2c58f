package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authDomain "github.com/capitaldesk/desk/internal/auth/domain"
	"github.com/capitaldesk/desk/internal/auth/http/dto"
	usecaseMocks "github.com/capitaldesk/desk/internal/auth/usecase/mocks"
)

func TestPasswordResetHandler_Request(t *testing.T) {
	t.Run("always accepted", func(t *testing.T) {
		resets := usecaseMocks.NewMockPasswordResetUseCase(t)
		handler := NewPasswordResetHandler(resets, discardLogger())
		router := setupRouter(nil)
		handler.RegisterRoutes(&router.RouterGroup)

		resets.On("Request", mock.Anything, mock.MatchedBy(func(in *authDomain.PasswordResetRequest) bool {
			return in.TenantSlug == "metro" && in.Email == "nobody@metro.test"
		})).Return(nil).Once()

		w := httptest.NewRecorder()
		router.ServeHTTP(w, jsonRequest(t, http.MethodPost, "/password-reset", dto.PasswordResetRequest{
			Tenant: "metro", Email: "nobody@metro.test",
		}))

		assert.Equal(t, http.StatusAccepted, w.Code)
	})

	t.Run("invalid email", func(t *testing.T) {
		handler := NewPasswordResetHandler(usecaseMocks.NewMockPasswordResetUseCase(t), discardLogger())
		router := setupRouter(nil)
		handler.RegisterRoutes(&router.RouterGroup)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, jsonRequest(t, http.MethodPost, "/password-reset", dto.PasswordResetRequest{
			Tenant: "metro", Email: "not-an-email",
		}))

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestPasswordResetHandler_Confirm(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		resets := usecaseMocks.NewMockPasswordResetUseCase(t)
		handler := NewPasswordResetHandler(resets, discardLogger())
		router := setupRouter(nil)
		handler.RegisterRoutes(&router.RouterGroup)

		resets.On("Confirm", mock.Anything, mock.MatchedBy(func(in *authDomain.PasswordResetConfirm) bool {
			return in.Token == "tok" && in.NewPassword == "New-password-42"
		})).Return(nil).Once()

		w := httptest.NewRecorder()
		router.ServeHTTP(w, jsonRequest(t, http.MethodPost, "/password-reset/confirm", dto.PasswordResetConfirmRequest{
			Token: "tok", NewPassword: "New-password-42",
		}))

		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		resets := usecaseMocks.NewMockPasswordResetUseCase(t)
		handler := NewPasswordResetHandler(resets, discardLogger())
		router := setupRouter(nil)
		handler.RegisterRoutes(&router.RouterGroup)

		resets.On("Confirm", mock.Anything, mock.Anything).Return(authDomain.ErrResetTokenInvalid).Once()

		w := httptest.NewRecorder()
		router.ServeHTTP(w, jsonRequest(t, http.MethodPost, "/password-reset/confirm", dto.PasswordResetConfirmRequest{
			Token: "tok", NewPassword: "New-password-42",
		}))

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestPasswordResetHandler_AdminReset(t *testing.T) {
	admin := newPrincipal(authDomain.RoleAdmin)

	t.Run("success", func(t *testing.T) {
		resets := usecaseMocks.NewMockPasswordResetUseCase(t)
		handler := NewPasswordResetHandler(resets, discardLogger())
		router := setupRouter(admin)
		router.POST("/admin/users/:id/reset-password", handler.AdminResetHandler)

		userID := uuid.Must(uuid.NewV7())
		resets.On("AdminReset", mock.Anything, admin, userID).
			Return(&authDomain.AdminResetOutput{UserID: userID, TemporaryPassword: "Tmp-1234abcd"}, nil).Once()

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/admin/users/"+userID.String()+"/reset-password", nil))

		require.Equal(t, http.StatusOK, w.Code)
		var resp dto.AdminResetResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Tmp-1234abcd", resp.TemporaryPassword)
	})

	t.Run("invalid id", func(t *testing.T) {
		handler := NewPasswordResetHandler(usecaseMocks.NewMockPasswordResetUseCase(t), discardLogger())
		router := setupRouter(admin)
		router.POST("/admin/users/:id/reset-password", handler.AdminResetHandler)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/admin/users/nope/reset-password", nil))

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}
