package usecase

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"

	notificationDomain "github.com/capitaldesk/desk/internal/notification/domain"
	"github.com/capitaldesk/desk/internal/outbox/domain"
	"github.com/capitaldesk/desk/internal/outbox/service"
)

// Notifier stores an in-app notification for a tenant user.
type Notifier interface {
	Notify(
		ctx context.Context,
		tenantID uuid.UUID,
		input *notificationDomain.CreateNotificationInput,
	) (*notificationDomain.Notification, error)
}

type assignmentKind struct {
	kind   notificationDomain.Kind
	prefix string
}

var assignmentKinds = map[string]assignmentKind{
	domain.EventCaseAssigned:      {notificationDomain.KindCaseAssigned, "Case assigned"},
	domain.EventWorkOrderAssigned: {notificationDomain.KindWorkOrderAssigned, "Work order assigned"},
	domain.EventStsTicketAssigned: {notificationDomain.KindTicketAssigned, "Ticket assigned"},
}

// NotificationMessage is the body published for a delivered notification.
type NotificationMessage struct {
	NotificationID uuid.UUID  `json:"notification_id"`
	UserID         uuid.UUID  `json:"user_id"`
	Kind           string     `json:"kind"`
	Title          string     `json:"title"`
	ResourceID     *uuid.UUID `json:"resource_id,omitempty"`
}

// NotificationProcessor turns assignment events into notifications and forwards
// password reset requests to the mail integration through the publisher.
type NotificationProcessor struct {
	notifier  Notifier
	publisher service.Publisher
	logger    *slog.Logger
}

// NewNotificationProcessor creates a new NotificationProcessor.
func NewNotificationProcessor(
	notifier Notifier,
	publisher service.Publisher,
	logger *slog.Logger,
) *NotificationProcessor {
	return &NotificationProcessor{
		notifier:  notifier,
		publisher: publisher,
		logger:    logger,
	}
}

// Process handles one event. Unknown event types are logged and treated as processed.
func (p *NotificationProcessor) Process(ctx context.Context, event *domain.OutboxEvent) error {
	if event.EventType == domain.EventPasswordResetRequested {
		return p.publisher.Publish(ctx, service.Message{
			TenantID:  event.TenantID.String(),
			EventType: event.EventType,
			Body:      []byte(event.Payload),
		})
	}

	ak, ok := assignmentKinds[event.EventType]
	if !ok {
		p.logger.Warn("unknown outbox event type",
			slog.String("event_id", event.ID.String()),
			slog.String("event_type", event.EventType),
		)
		return nil
	}

	var payload domain.AssignmentPayload
	if err := event.Decode(&payload); err != nil {
		return err
	}
	if payload.AssigneeID == payload.AssignedBy {
		return nil
	}

	resourceID := payload.ResourceID
	n, err := p.notifier.Notify(ctx, event.TenantID, &notificationDomain.CreateNotificationInput{
		UserID:     payload.AssigneeID,
		Kind:       ak.kind,
		Title:      ak.prefix + ": " + payload.Title,
		ResourceID: &resourceID,
	})
	if err != nil {
		return err
	}

	body, err := json.Marshal(NotificationMessage{
		NotificationID: n.ID,
		UserID:         n.UserID,
		Kind:           string(n.Kind),
		Title:          n.Title,
		ResourceID:     n.ResourceID,
	})
	if err != nil {
		return err
	}

	// The inbox row is the source of truth; a failed fan-out is not retried so the
	// notification is never stored twice.
	if err := p.publisher.Publish(ctx, service.Message{
		TenantID:  event.TenantID.String(),
		EventType: event.EventType,
		Body:      body,
	}); err != nil {
		p.logger.Warn("failed to publish notification",
			slog.String("notification_id", n.ID.String()),
			slog.Any("error", err),
		)
	}
	return nil
}
