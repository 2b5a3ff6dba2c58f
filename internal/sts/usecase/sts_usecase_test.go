package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authDomain "github.com/capitaldesk/desk/internal/auth/domain"
	"github.com/capitaldesk/desk/internal/database"
	databaseMocks "github.com/capitaldesk/desk/internal/database/mocks"
	apperrors "github.com/capitaldesk/desk/internal/errors"
	outboxDomain "github.com/capitaldesk/desk/internal/outbox/domain"
	"github.com/capitaldesk/desk/internal/sts/domain"
)

type mockTicketRepository struct {
	mock.Mock
}

func (m *mockTicketRepository) Create(ctx context.Context, scope database.Scope, t *domain.Ticket) error {
	return m.Called(ctx, scope, t).Error(0)
}

func (m *mockTicketRepository) Update(ctx context.Context, scope database.Scope, t *domain.Ticket) error {
	return m.Called(ctx, scope, t).Error(0)
}

func (m *mockTicketRepository) Delete(ctx context.Context, scope database.Scope, id uuid.UUID) error {
	return m.Called(ctx, scope, id).Error(0)
}

func (m *mockTicketRepository) Get(ctx context.Context, scope database.Scope, id uuid.UUID) (*domain.Ticket, error) {
	args := m.Called(ctx, scope, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ticket), args.Error(1)
}

func (m *mockTicketRepository) GetForUpdate(
	ctx context.Context,
	scope database.Scope,
	id uuid.UUID,
) (*domain.Ticket, error) {
	args := m.Called(ctx, scope, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ticket), args.Error(1)
}

func (m *mockTicketRepository) List(
	ctx context.Context,
	scope database.Scope,
	filter domain.ListFilter,
) ([]*domain.Ticket, error) {
	args := m.Called(ctx, scope, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Ticket), args.Error(1)
}

func (m *mockTicketRepository) CountByStatus(ctx context.Context, scope database.Scope) (*domain.Summary, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Summary), args.Error(1)
}

type mockCommentRepository struct {
	mock.Mock
}

func (m *mockCommentRepository) Create(ctx context.Context, scope database.Scope, c *domain.Comment) error {
	return m.Called(ctx, scope, c).Error(0)
}

func (m *mockCommentRepository) ListByTicket(
	ctx context.Context,
	scope database.Scope,
	ticketID uuid.UUID,
	includeInternal bool,
) ([]*domain.Comment, error) {
	args := m.Called(ctx, scope, ticketID, includeInternal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Comment), args.Error(1)
}

func (m *mockCommentRepository) DeleteByTicket(ctx context.Context, scope database.Scope, ticketID uuid.UUID) error {
	return m.Called(ctx, scope, ticketID).Error(0)
}

type mockUserLookup struct {
	mock.Mock
}

func (m *mockUserLookup) Get(ctx context.Context, scope database.Scope, id uuid.UUID) (*authDomain.User, error) {
	args := m.Called(ctx, scope, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.User), args.Error(1)
}

type mockOutboxRepository struct {
	mock.Mock
}

func (m *mockOutboxRepository) Create(ctx context.Context, scope database.Scope, event *outboxDomain.OutboxEvent) error {
	return m.Called(ctx, scope, event).Error(0)
}

type stsDeps struct {
	tx       *databaseMocks.MockTxManager
	tickets  *mockTicketRepository
	comments *mockCommentRepository
	users    *mockUserLookup
	outbox   *mockOutboxRepository
	uc       StsUseCase
}

func newStsUseCase(t *testing.T) *stsDeps {
	t.Helper()
	d := &stsDeps{
		tx:       databaseMocks.NewMockTxManager(t),
		tickets:  &mockTicketRepository{},
		comments: &mockCommentRepository{},
		users:    &mockUserLookup{},
		outbox:   &mockOutboxRepository{},
	}
	d.uc = NewStsUseCase(d.tx, d.tickets, d.comments, d.users, d.outbox)
	t.Cleanup(func() {
		d.tickets.AssertExpectations(t)
		d.comments.AssertExpectations(t)
		d.users.AssertExpectations(t)
		d.outbox.AssertExpectations(t)
	})
	return d
}

func principal(role authDomain.Role, caps ...authDomain.Capability) *authDomain.Principal {
	return &authDomain.Principal{
		UserID:       uuid.Must(uuid.NewV7()),
		TenantID:     uuid.Must(uuid.NewV7()),
		Role:         role,
		Capabilities: caps,
	}
}

func tenantScope(tenantID uuid.UUID) any {
	return mock.MatchedBy(func(s database.Scope) bool { return s.TenantID() == tenantID })
}

func existingTicket(tenantID uuid.UUID, status domain.Status) *domain.Ticket {
	return &domain.Ticket{
		ID:        uuid.Must(uuid.NewV7()),
		TenantID:  tenantID,
		Subject:   "Ticket machine offline",
		Priority:  domain.PriorityNormal,
		Status:    status,
		CreatedBy: uuid.Must(uuid.NewV7()),
		UpdatedAt: time.Now().Add(-time.Hour).UTC(),
	}
}

func TestStsUseCase_Summary(t *testing.T) {
	ctx := context.Background()

	t.Run("HelpdeskAllowed", func(t *testing.T) {
		d := newStsUseCase(t)
		p := principal(authDomain.RoleHelpdesk)
		summary := domain.NewSummary()
		summary.Add(domain.StatusOpen, 4)

		d.tickets.On("CountByStatus", ctx, tenantScope(p.TenantID)).Return(summary, nil).Once()

		got, err := d.uc.Summary(ctx, p)
		require.NoError(t, err)
		assert.Equal(t, 4, got.Total)
	})

	t.Run("TechnicianDenied", func(t *testing.T) {
		d := newStsUseCase(t)

		_, err := d.uc.Summary(ctx, principal(authDomain.RoleTechnician))
		assert.ErrorIs(t, err, domain.ErrSectionDenied)
		assert.ErrorIs(t, err, apperrors.ErrCapabilityDenied)
	})
}

func TestStsUseCase_Permissions(t *testing.T) {
	ctx := context.Background()
	id := uuid.Must(uuid.NewV7())

	t.Run("HelpdeskCannotRead", func(t *testing.T) {
		d := newStsUseCase(t)

		_, err := d.uc.GetTicket(ctx, principal(authDomain.RoleHelpdesk), id)
		assert.ErrorIs(t, err, domain.ErrReadDenied)
	})

	t.Run("ReaderCannotWrite", func(t *testing.T) {
		d := newStsUseCase(t)
		p := principal(authDomain.RoleBackoffice, authDomain.CapStsRead)

		_, err := d.uc.CreateTicket(ctx, p, &domain.CreateTicketInput{Subject: "x"})
		assert.ErrorIs(t, err, domain.ErrWriteDenied)
	})

	t.Run("WriterCannotClose", func(t *testing.T) {
		d := newStsUseCase(t)
		p := principal(authDomain.RoleBackoffice, authDomain.CapStsWrite)

		_, err := d.uc.CloseTicket(ctx, p, id)
		assert.ErrorIs(t, err, domain.ErrAdminDenied)
		assert.ErrorIs(t, d.uc.DeleteTicket(ctx, p, id), domain.ErrAdminDenied)
	})

	t.Run("CapabilityOnNonBackofficeRoleIgnored", func(t *testing.T) {
		d := newStsUseCase(t)
		p := principal(authDomain.RoleSupervisor, authDomain.CapStsAdmin)

		_, err := d.uc.ListTickets(ctx, p, domain.ListFilter{})
		assert.ErrorIs(t, err, domain.ErrReadDenied)
	})
}

func TestStsUseCase_CreateTicket(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		d := newStsUseCase(t)
		p := principal(authDomain.RoleBackoffice, authDomain.CapStsWrite)

		d.tickets.On("Create", ctx, tenantScope(p.TenantID), mock.MatchedBy(func(tk *domain.Ticket) bool {
			return tk.Subject == "Printer jam" && tk.Category == "it" && tk.Status == domain.StatusNew &&
				tk.Priority == domain.PriorityNormal && tk.CreatedBy == p.UserID
		})).Return(nil).Once()

		tk, err := d.uc.CreateTicket(ctx, p, &domain.CreateTicketInput{Subject: " Printer jam ", Category: "IT"})
		require.NoError(t, err)
		assert.Equal(t, p.TenantID, tk.TenantID)
	})

	t.Run("BlankSubject", func(t *testing.T) {
		d := newStsUseCase(t)

		_, err := d.uc.CreateTicket(ctx, principal(authDomain.RoleAdmin), &domain.CreateTicketInput{Subject: "  "})
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})
}

func TestStsUseCase_AssignTicket(t *testing.T) {
	ctx := context.Background()

	t.Run("EnqueuesEventAndOpens", func(t *testing.T) {
		d := newStsUseCase(t)
		p := principal(authDomain.RoleAdmin)
		tk := existingTicket(p.TenantID, domain.StatusNew)
		assignee := &authDomain.User{
			ID: uuid.Must(uuid.NewV7()), IsActive: true, Role: authDomain.RoleBackoffice,
			Capabilities: authDomain.Capabilities{authDomain.CapStsWrite},
		}

		d.tx.On("WithTx", ctx, mock.Anything).Return(nil).Once()
		d.tickets.On("GetForUpdate", ctx, tenantScope(p.TenantID), tk.ID).Return(tk, nil).Once()
		d.users.On("Get", ctx, tenantScope(p.TenantID), assignee.ID).Return(assignee, nil).Once()
		d.tickets.On("Update", ctx, tenantScope(p.TenantID), tk).Return(nil).Once()
		d.outbox.On("Create", ctx, tenantScope(p.TenantID), mock.MatchedBy(func(e *outboxDomain.OutboxEvent) bool {
			var payload outboxDomain.AssignmentPayload
			return e.EventType == outboxDomain.EventStsTicketAssigned &&
				e.Decode(&payload) == nil && payload.AssigneeID == assignee.ID && payload.ResourceID == tk.ID
		})).Return(nil).Once()

		got, err := d.uc.AssignTicket(ctx, p, tk.ID, assignee.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusOpen, got.Status)
		require.NotNil(t, got.AssigneeID)
		assert.Equal(t, assignee.ID, *got.AssigneeID)
	})

	t.Run("AssigneeWithoutWriteAccess", func(t *testing.T) {
		d := newStsUseCase(t)
		p := principal(authDomain.RoleAdmin)
		tk := existingTicket(p.TenantID, domain.StatusOpen)
		assignee := &authDomain.User{ID: uuid.Must(uuid.NewV7()), IsActive: true, Role: authDomain.RoleHelpdesk}

		d.tx.On("WithTx", ctx, mock.Anything).Return(nil).Once()
		d.tickets.On("GetForUpdate", ctx, mock.Anything, tk.ID).Return(tk, nil).Once()
		d.users.On("Get", ctx, mock.Anything, assignee.ID).Return(assignee, nil).Once()

		_, err := d.uc.AssignTicket(ctx, p, tk.ID, assignee.ID)
		assert.ErrorIs(t, err, domain.ErrInvalidAssignee)
	})

	t.Run("ClosedTicket", func(t *testing.T) {
		d := newStsUseCase(t)
		p := principal(authDomain.RoleAdmin)
		tk := existingTicket(p.TenantID, domain.StatusClosed)

		d.tx.On("WithTx", ctx, mock.Anything).Return(nil).Once()
		d.tickets.On("GetForUpdate", ctx, mock.Anything, tk.ID).Return(tk, nil).Once()

		_, err := d.uc.AssignTicket(ctx, p, tk.ID, uuid.Must(uuid.NewV7()))
		assert.ErrorIs(t, err, domain.ErrTicketClosed)
	})
}

func TestStsUseCase_ChangeStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("OpenToPending", func(t *testing.T) {
		d := newStsUseCase(t)
		p := principal(authDomain.RoleBackoffice, authDomain.CapStsAdmin)
		tk := existingTicket(p.TenantID, domain.StatusOpen)

		d.tx.On("WithTx", ctx, mock.Anything).Return(nil).Once()
		d.tickets.On("GetForUpdate", ctx, tenantScope(p.TenantID), tk.ID).Return(tk, nil).Once()
		d.tickets.On("Update", ctx, tenantScope(p.TenantID), tk).Return(nil).Once()

		got, err := d.uc.ChangeStatus(ctx, p, tk.ID, domain.StatusPending)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusPending, got.Status)
	})

	t.Run("CloseNotAllowedHere", func(t *testing.T) {
		d := newStsUseCase(t)
		p := principal(authDomain.RoleAdmin)
		tk := existingTicket(p.TenantID, domain.StatusSolved)

		d.tx.On("WithTx", ctx, mock.Anything).Return(nil).Once()
		d.tickets.On("GetForUpdate", ctx, mock.Anything, tk.ID).Return(tk, nil).Once()

		_, err := d.uc.ChangeStatus(ctx, p, tk.ID, domain.StatusClosed)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})
}

func TestStsUseCase_CloseTicket(t *testing.T) {
	ctx := context.Background()
	d := newStsUseCase(t)
	p := principal(authDomain.RoleBackoffice, authDomain.CapStsAdmin)
	tk := existingTicket(p.TenantID, domain.StatusPending)

	d.tx.On("WithTx", ctx, mock.Anything).Return(nil).Once()
	d.tickets.On("GetForUpdate", ctx, tenantScope(p.TenantID), tk.ID).Return(tk, nil).Once()
	d.tickets.On("Update", ctx, tenantScope(p.TenantID), tk).Return(nil).Once()

	got, err := d.uc.CloseTicket(ctx, p, tk.ID)
	require.NoError(t, err)
	assert.True(t, got.IsClosed())
	assert.NotNil(t, got.ClosedAt)
}

func TestStsUseCase_DeleteTicket(t *testing.T) {
	ctx := context.Background()
	d := newStsUseCase(t)
	p := principal(authDomain.RoleAdmin)
	tk := existingTicket(p.TenantID, domain.StatusOpen)

	d.tx.On("WithTx", ctx, mock.Anything).Return(nil).Once()
	d.tickets.On("GetForUpdate", ctx, tenantScope(p.TenantID), tk.ID).Return(tk, nil).Once()
	d.comments.On("DeleteByTicket", ctx, tenantScope(p.TenantID), tk.ID).Return(nil).Once()
	d.tickets.On("Delete", ctx, tenantScope(p.TenantID), tk.ID).Return(nil).Once()

	require.NoError(t, d.uc.DeleteTicket(ctx, p, tk.ID))
}

func TestStsUseCase_AddComment(t *testing.T) {
	ctx := context.Background()

	t.Run("PublicReplyReopensPending", func(t *testing.T) {
		d := newStsUseCase(t)
		p := principal(authDomain.RoleBackoffice, authDomain.CapStsWrite)
		tk := existingTicket(p.TenantID, domain.StatusPending)

		d.tx.On("WithTx", ctx, mock.Anything).Return(nil).Once()
		d.tickets.On("GetForUpdate", ctx, tenantScope(p.TenantID), tk.ID).Return(tk, nil).Once()
		d.comments.On("Create", ctx, tenantScope(p.TenantID), mock.MatchedBy(func(c *domain.Comment) bool {
			return c.TicketID == tk.ID && c.AuthorID == p.UserID && c.Body == "Replaced the fuse"
		})).Return(nil).Once()
		d.tickets.On("Update", ctx, tenantScope(p.TenantID), tk).Return(nil).Once()

		c, err := d.uc.AddComment(ctx, p, tk.ID, &domain.CreateCommentInput{Body: "Replaced the fuse"})
		require.NoError(t, err)
		assert.False(t, c.Internal)
		assert.Equal(t, domain.StatusOpen, tk.Status)
	})

	t.Run("EmptyBody", func(t *testing.T) {
		d := newStsUseCase(t)

		_, err := d.uc.AddComment(ctx, principal(authDomain.RoleAdmin), uuid.Must(uuid.NewV7()),
			&domain.CreateCommentInput{Body: " "})
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})
}

func TestStsUseCase_ListComments(t *testing.T) {
	ctx := context.Background()

	t.Run("ReaderSeesPublicOnly", func(t *testing.T) {
		d := newStsUseCase(t)
		p := principal(authDomain.RoleBackoffice, authDomain.CapStsRead)
		tk := existingTicket(p.TenantID, domain.StatusOpen)

		d.tickets.On("Get", ctx, tenantScope(p.TenantID), tk.ID).Return(tk, nil).Once()
		d.comments.On("ListByTicket", ctx, tenantScope(p.TenantID), tk.ID, false).
			Return([]*domain.Comment{}, nil).Once()

		_, err := d.uc.ListComments(ctx, p, tk.ID)
		require.NoError(t, err)
	})

	t.Run("WriterSeesInternal", func(t *testing.T) {
		d := newStsUseCase(t)
		p := principal(authDomain.RoleAdmin)
		tk := existingTicket(p.TenantID, domain.StatusOpen)

		d.tickets.On("Get", ctx, mock.Anything, tk.ID).Return(tk, nil).Once()
		d.comments.On("ListByTicket", ctx, mock.Anything, tk.ID, true).Return([]*domain.Comment{}, nil).Once()

		_, err := d.uc.ListComments(ctx, p, tk.ID)
		require.NoError(t, err)
	})

	t.Run("UnknownTicket", func(t *testing.T) {
		d := newStsUseCase(t)
		p := principal(authDomain.RoleAdmin)
		id := uuid.Must(uuid.NewV7())

		d.tickets.On("Get", ctx, mock.Anything, id).Return(nil, domain.ErrTicketNotFound).Once()

		_, err := d.uc.ListComments(ctx, p, id)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}
