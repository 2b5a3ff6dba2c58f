package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	notificationDomain "github.com/capitaldesk/desk/internal/notification/domain"
	"github.com/capitaldesk/desk/internal/outbox/domain"
	"github.com/capitaldesk/desk/internal/outbox/service"
)

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Notify(
	ctx context.Context,
	tenantID uuid.UUID,
	input *notificationDomain.CreateNotificationInput,
) (*notificationDomain.Notification, error) {
	args := m.Called(ctx, tenantID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notificationDomain.Notification), args.Error(1)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, msg service.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *mockPublisher) Shutdown(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func assignmentEvent(t *testing.T, eventType string, payload domain.AssignmentPayload) *domain.OutboxEvent {
	t.Helper()
	event, err := domain.NewEvent(uuid.Must(uuid.NewV7()), eventType, payload)
	require.NoError(t, err)
	return event
}

func TestNotificationProcessor_Assignments(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		eventType string
		kind      notificationDomain.Kind
		title     string
	}{
		{domain.EventCaseAssigned, notificationDomain.KindCaseAssigned, "Case assigned: Brake noise"},
		{domain.EventWorkOrderAssigned, notificationDomain.KindWorkOrderAssigned, "Work order assigned: Brake noise"},
		{domain.EventStsTicketAssigned, notificationDomain.KindTicketAssigned, "Ticket assigned: Brake noise"},
	}

	for _, tt := range tests {
		t.Run(tt.eventType, func(t *testing.T) {
			notifier := &mockNotifier{}
			publisher := &mockPublisher{}
			p := NewNotificationProcessor(notifier, publisher, discardLogger())

			payload := domain.AssignmentPayload{
				ResourceID: uuid.Must(uuid.NewV7()),
				AssigneeID: uuid.Must(uuid.NewV7()),
				AssignedBy: uuid.Must(uuid.NewV7()),
				Title:      "Brake noise",
			}
			event := assignmentEvent(t, tt.eventType, payload)

			notification := &notificationDomain.Notification{
				ID:         uuid.Must(uuid.NewV7()),
				TenantID:   event.TenantID,
				UserID:     payload.AssigneeID,
				Kind:       tt.kind,
				Title:      tt.title,
				ResourceID: &payload.ResourceID,
			}

			notifier.On("Notify", ctx, event.TenantID, mock.MatchedBy(
				func(in *notificationDomain.CreateNotificationInput) bool {
					return in.UserID == payload.AssigneeID &&
						in.Kind == tt.kind &&
						in.Title == tt.title &&
						*in.ResourceID == payload.ResourceID
				})).Return(notification, nil).Once()
			publisher.On("Publish", ctx, mock.MatchedBy(func(msg service.Message) bool {
				var body NotificationMessage
				if err := json.Unmarshal(msg.Body, &body); err != nil {
					return false
				}
				return msg.TenantID == event.TenantID.String() &&
					msg.EventType == tt.eventType &&
					body.NotificationID == notification.ID
			})).Return(nil).Once()

			assert.NoError(t, p.Process(ctx, event))
			notifier.AssertExpectations(t)
			publisher.AssertExpectations(t)
		})
	}
}

func TestNotificationProcessor_SelfAssignmentIsSilent(t *testing.T) {
	notifier := &mockNotifier{}
	publisher := &mockPublisher{}
	p := NewNotificationProcessor(notifier, publisher, discardLogger())

	userID := uuid.Must(uuid.NewV7())
	event := assignmentEvent(t, domain.EventCaseAssigned, domain.AssignmentPayload{
		ResourceID: uuid.Must(uuid.NewV7()),
		AssigneeID: userID,
		AssignedBy: userID,
		Title:      "Mirror",
	})

	assert.NoError(t, p.Process(context.Background(), event))
	notifier.AssertNotCalled(t, "Notify")
	publisher.AssertNotCalled(t, "Publish")
}

func TestNotificationProcessor_NotifyErrorIsReturned(t *testing.T) {
	ctx := context.Background()
	notifier := &mockNotifier{}
	publisher := &mockPublisher{}
	p := NewNotificationProcessor(notifier, publisher, discardLogger())

	event := assignmentEvent(t, domain.EventCaseAssigned, domain.AssignmentPayload{
		ResourceID: uuid.Must(uuid.NewV7()),
		AssigneeID: uuid.Must(uuid.NewV7()),
		AssignedBy: uuid.Must(uuid.NewV7()),
		Title:      "Mirror",
	})

	notifier.On("Notify", ctx, event.TenantID, mock.Anything).Return(nil, errors.New("insert failed")).Once()

	err := p.Process(ctx, event)
	assert.ErrorContains(t, err, "insert failed")
	publisher.AssertNotCalled(t, "Publish")
}

func TestNotificationProcessor_PublishErrorIsNotRetried(t *testing.T) {
	ctx := context.Background()
	notifier := &mockNotifier{}
	publisher := &mockPublisher{}
	p := NewNotificationProcessor(notifier, publisher, discardLogger())

	payload := domain.AssignmentPayload{
		ResourceID: uuid.Must(uuid.NewV7()),
		AssigneeID: uuid.Must(uuid.NewV7()),
		AssignedBy: uuid.Must(uuid.NewV7()),
		Title:      "Mirror",
	}
	event := assignmentEvent(t, domain.EventCaseAssigned, payload)

	notifier.On("Notify", ctx, event.TenantID, mock.Anything).
		Return(&notificationDomain.Notification{ID: uuid.Must(uuid.NewV7()), UserID: payload.AssigneeID}, nil).
		Once()
	publisher.On("Publish", ctx, mock.Anything).Return(errors.New("topic closed")).Once()

	assert.NoError(t, p.Process(ctx, event))
	publisher.AssertExpectations(t)
}

func TestNotificationProcessor_PasswordResetIsForwarded(t *testing.T) {
	ctx := context.Background()
	notifier := &mockNotifier{}
	publisher := &mockPublisher{}
	p := NewNotificationProcessor(notifier, publisher, discardLogger())

	event, err := domain.NewEvent(uuid.Must(uuid.NewV7()), domain.EventPasswordResetRequested,
		domain.PasswordResetPayload{UserID: uuid.Must(uuid.NewV7()), Email: "ops@metro.test", SealedToken: "c2VhbGVk"})
	require.NoError(t, err)

	publisher.On("Publish", ctx, service.Message{
		TenantID:  event.TenantID.String(),
		EventType: domain.EventPasswordResetRequested,
		Body:      []byte(event.Payload),
	}).Return(errors.New("broker down")).Once()

	err = p.Process(ctx, event)
	assert.ErrorContains(t, err, "broker down")
	notifier.AssertNotCalled(t, "Notify")
}

func TestNotificationProcessor_UnknownEvent(t *testing.T) {
	p := NewNotificationProcessor(&mockNotifier{}, &mockPublisher{}, discardLogger())

	event := &domain.OutboxEvent{ID: uuid.Must(uuid.NewV7()), EventType: "bus.retired", Payload: `{}`}
	assert.NoError(t, p.Process(context.Background(), event))
}

func TestNotificationProcessor_InvalidPayload(t *testing.T) {
	p := NewNotificationProcessor(&mockNotifier{}, &mockPublisher{}, discardLogger())

	event := &domain.OutboxEvent{ID: uuid.Must(uuid.NewV7()), EventType: domain.EventCaseAssigned, Payload: "nope"}
	assert.Error(t, p.Process(context.Background(), event))
}
