package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authDomain "github.com/capitaldesk/desk/internal/auth/domain"
	authHTTP "github.com/capitaldesk/desk/internal/auth/http"
	"github.com/capitaldesk/desk/internal/sts/domain"
	"github.com/capitaldesk/desk/internal/sts/usecase/mocks"
)

func setupRouter(
	t *testing.T,
	role authDomain.Role,
	caps ...authDomain.Capability,
) (*mocks.MockStsUseCase, *authDomain.Principal, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	p := &authDomain.Principal{
		UserID:       uuid.Must(uuid.NewV7()),
		TenantID:     uuid.Must(uuid.NewV7()),
		Role:         role,
		Capabilities: caps,
	}
	uc := mocks.NewMockStsUseCase(t)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Request = c.Request.WithContext(authHTTP.WithPrincipal(c.Request.Context(), p))
		c.Next()
	})
	NewStsHandler(uc, slog.New(slog.NewTextHandler(io.Discard, nil))).RegisterRoutes(&router.RouterGroup)
	return uc, p, router
}

func doJSON(router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestStsHandler_Summary(t *testing.T) {
	uc, p, router := setupRouter(t, authDomain.RoleAuditor)
	summary := domain.NewSummary()
	summary.Add(domain.StatusOpen, 2)
	uc.On("Summary", mock.Anything, p).Return(summary, nil).Once()

	w := doJSON(router, http.MethodGet, "/sts/summary", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Counts map[string]int `json:"counts"`
		Total  int            `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Counts["open"])
	assert.Equal(t, 0, body.Counts["new"])
	assert.Equal(t, 2, body.Total)
}

func TestStsHandler_CapabilityGates(t *testing.T) {
	id := uuid.Must(uuid.NewV7())

	tests := []struct {
		name   string
		role   authDomain.Role
		caps   []authDomain.Capability
		method string
		path   string
		body   any
	}{
		{"auditor cannot list", authDomain.RoleAuditor, nil, http.MethodGet, "/sts/tickets", nil},
		{"reader cannot create", authDomain.RoleBackoffice, []authDomain.Capability{authDomain.CapStsRead},
			http.MethodPost, "/sts/tickets", map[string]string{"subject": "x"}},
		{"writer cannot delete", authDomain.RoleBackoffice, []authDomain.Capability{authDomain.CapStsWrite},
			http.MethodDelete, "/sts/tickets/" + id.String(), nil},
		{"writer cannot close", authDomain.RoleBackoffice, []authDomain.Capability{authDomain.CapStsWrite},
			http.MethodPost, "/sts/tickets/" + id.String() + "/close", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, router := setupRouter(t, tt.role, tt.caps...)

			w := doJSON(router, tt.method, tt.path, tt.body)
			assert.Equal(t, http.StatusForbidden, w.Code)
			assert.Contains(t, w.Body.String(), `"capability"`)
		})
	}
}

func TestStsHandler_CreateTicket(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		uc, p, router := setupRouter(t, authDomain.RoleBackoffice, authDomain.CapStsWrite)
		ticket := &domain.Ticket{
			ID: uuid.Must(uuid.NewV7()), Subject: "Radio dead", Category: "radio",
			Priority: domain.PriorityHigh, Status: domain.StatusNew, CreatedBy: p.UserID,
		}
		uc.On("CreateTicket", mock.Anything, p, &domain.CreateTicketInput{
			Subject: "Radio dead", Category: "radio", Priority: domain.PriorityHigh,
		}).Return(ticket, nil).Once()

		w := doJSON(router, http.MethodPost, "/sts/tickets", map[string]string{
			"subject": "Radio dead", "category": "radio", "priority": "high",
		})
		require.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"new"`)
	})

	t.Run("unknown priority", func(t *testing.T) {
		_, _, router := setupRouter(t, authDomain.RoleAdmin)

		w := doJSON(router, http.MethodPost, "/sts/tickets", map[string]string{
			"subject": "Radio dead", "priority": "whenever",
		})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestStsHandler_ChangeStatus(t *testing.T) {
	t.Run("closed is not a writable status", func(t *testing.T) {
		_, _, router := setupRouter(t, authDomain.RoleAdmin)

		w := doJSON(router, http.MethodPost, "/sts/tickets/"+uuid.NewString()+"/status",
			map[string]string{"status": "closed"})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("invalid transition", func(t *testing.T) {
		uc, p, router := setupRouter(t, authDomain.RoleAdmin)
		id := uuid.Must(uuid.NewV7())
		uc.On("ChangeStatus", mock.Anything, p, id, domain.StatusPending).
			Return(nil, domain.ErrInvalidTransition).Once()

		w := doJSON(router, http.MethodPost, "/sts/tickets/"+id.String()+"/status",
			map[string]string{"status": "pending"})
		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestStsHandler_DeleteTicket(t *testing.T) {
	uc, p, router := setupRouter(t, authDomain.RoleBackoffice, authDomain.CapStsAdmin)
	id := uuid.Must(uuid.NewV7())
	uc.On("DeleteTicket", mock.Anything, p, id).Return(nil).Once()

	w := doJSON(router, http.MethodDelete, "/sts/tickets/"+id.String(), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestStsHandler_Comments(t *testing.T) {
	t.Run("add", func(t *testing.T) {
		uc, p, router := setupRouter(t, authDomain.RoleAdmin)
		ticketID := uuid.Must(uuid.NewV7())
		comment := &domain.Comment{ID: uuid.Must(uuid.NewV7()), TicketID: ticketID, AuthorID: p.UserID,
			Body: "Swapped handset", Internal: true}
		uc.On("AddComment", mock.Anything, p, ticketID, &domain.CreateCommentInput{
			Body: "Swapped handset", Internal: true,
		}).Return(comment, nil).Once()

		w := doJSON(router, http.MethodPost, "/sts/tickets/"+ticketID.String()+"/comments",
			map[string]any{"body": "Swapped handset", "internal": true})
		require.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"internal":true`)
	})

	t.Run("list", func(t *testing.T) {
		uc, p, router := setupRouter(t, authDomain.RoleBackoffice, authDomain.CapStsRead)
		ticketID := uuid.Must(uuid.NewV7())
		uc.On("ListComments", mock.Anything, p, ticketID).Return([]*domain.Comment{}, nil).Once()

		w := doJSON(router, http.MethodGet, "/sts/tickets/"+ticketID.String()+"/comments", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"data":[]}`, w.Body.String())
	})
}
