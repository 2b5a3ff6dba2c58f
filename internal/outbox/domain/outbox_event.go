// Package domain defines the transactional outbox: events written in the same
// transaction as the state change they describe and delivered later by the worker.
package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/capitaldesk/desk/internal/errors"
)

// OutboxEventStatus represents the status of an outbox event
type OutboxEventStatus string

const (
	OutboxEventStatusPending   OutboxEventStatus = "pending"
	OutboxEventStatusProcessed OutboxEventStatus = "processed"
	OutboxEventStatusFailed    OutboxEventStatus = "failed"
)

// Event types.
const (
	EventCaseAssigned           = "case.assigned"
	EventWorkOrderAssigned      = "work_order.assigned"
	EventPasswordResetRequested = "password_reset.requested"
	EventStsTicketAssigned      = "sts_ticket.assigned"
)

// OutboxEvent represents an event in the transactional outbox pattern
type OutboxEvent struct {
	ID          uuid.UUID
	TenantID    uuid.UUID
	EventType   string
	Payload     string
	Status      OutboxEventStatus
	Retries     int
	LastError   *string
	ProcessedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewEvent builds a pending event with a JSON-encoded payload.
func NewEvent(tenantID uuid.UUID, eventType string, payload any) (*OutboxEvent, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to encode outbox payload")
	}
	now := time.Now().UTC()
	return &OutboxEvent{
		ID:        uuid.Must(uuid.NewV7()),
		TenantID:  tenantID,
		EventType: eventType,
		Payload:   string(body),
		Status:    OutboxEventStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Decode unmarshals the payload into v.
func (e *OutboxEvent) Decode(v any) error {
	if err := json.Unmarshal([]byte(e.Payload), v); err != nil {
		return apperrors.Wrapf(err, "failed to decode %s payload", e.EventType)
	}
	return nil
}

// AssignmentPayload describes a record being assigned to a user.
type AssignmentPayload struct {
	ResourceID uuid.UUID `json:"resource_id"`
	AssigneeID uuid.UUID `json:"assignee_id"`
	AssignedBy uuid.UUID `json:"assigned_by"`
	Title      string    `json:"title"`
}

// PasswordResetPayload is handed to the mail integration. Token is sealed with the
// outbox keeper before the event is stored.
type PasswordResetPayload struct {
	UserID      uuid.UUID `json:"user_id"`
	Email       string    `json:"email"`
	SealedToken string    `json:"sealed_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}
