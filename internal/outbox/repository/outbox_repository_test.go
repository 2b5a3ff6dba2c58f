package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/capitaldesk/desk/internal/database"
	"github.com/capitaldesk/desk/internal/outbox/domain"
)

func TestOutboxEventRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close() //nolint:errcheck

	tenantID := uuid.Must(uuid.NewV7())
	scope, err := database.NewScope(tenantID)
	require.NoError(t, err)

	event, err := domain.NewEvent(tenantID, domain.EventCaseAssigned, map[string]string{"k": "v"})
	require.NoError(t, err)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO outbox_events (tenant_id, id, event_type, payload, status")).
		WithArgs(tenantID, event.ID, domain.EventCaseAssigned, `{"k":"v"}`, "pending", 0,
			nil, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewOutboxEventRepository(db, database.DialectPostgres)
	require.NoError(t, repo.Create(context.Background(), scope, event))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxEventRepository_GetPendingEvents(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close() //nolint:errcheck

	id := uuid.Must(uuid.NewV7())
	tenantID := uuid.Must(uuid.NewV7())
	now := time.Now().UTC()

	columns := []string{"id", "tenant_id", "event_type", "payload", "status", "retries",
		"last_error", "processed_at", "created_at", "updated_at"}
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE SKIP LOCKED")).
		WithArgs("pending", 10).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(id.String(), tenantID.String(), domain.EventWorkOrderAssigned, "{}", "pending", 1,
				"boom", nil, now, now))
	mock.ExpectCommit()

	repo := NewOutboxEventRepository(db, database.DialectPostgres)
	var events []*domain.OutboxEvent
	err = database.NewTxManager(db).WithTx(context.Background(), func(ctx context.Context) error {
		var err error
		events, err = repo.GetPendingEvents(ctx, 10)
		return err
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
	require.Len(t, events, 1)

	assert.Equal(t, id, events[0].ID)
	assert.Equal(t, tenantID, events[0].TenantID)
	assert.Equal(t, domain.OutboxEventStatusPending, events[0].Status)
	require.NotNil(t, events[0].LastError)
	assert.Equal(t, "boom", *events[0].LastError)
	assert.Nil(t, events[0].ProcessedAt)
}

func TestOutboxEventRepository_GetPendingEventsRequiresTransaction(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close() //nolint:errcheck

	repo := NewOutboxEventRepository(db, database.DialectMySQL)
	events, err := repo.GetPendingEvents(context.Background(), 10)
	assert.ErrorIs(t, err, database.ErrNoTransaction)
	assert.Nil(t, events)
}

func TestOutboxEventRepository_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close() //nolint:errcheck

	now := time.Now().UTC()
	event := &domain.OutboxEvent{
		ID:          uuid.Must(uuid.NewV7()),
		Status:      domain.OutboxEventStatusProcessed,
		ProcessedAt: &now,
		UpdatedAt:   now,
	}

	mock.ExpectExec(regexp.QuoteMeta("UPDATE outbox_events")).
		WithArgs("processed", 0, nil, sqlmock.AnyArg(), now, event.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewOutboxEventRepository(db, database.DialectMySQL)
	require.NoError(t, repo.Update(context.Background(), event))
	assert.NoError(t, mock.ExpectationsWereMet())
}
