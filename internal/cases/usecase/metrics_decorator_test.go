package usecase_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	authDomain "github.com/capitaldesk/desk/internal/auth/domain"
	"github.com/capitaldesk/desk/internal/cases/domain"
	"github.com/capitaldesk/desk/internal/cases/usecase"
	"github.com/capitaldesk/desk/internal/cases/usecase/mocks"
	metricsMocks "github.com/capitaldesk/desk/internal/metrics/mocks"
)

func TestCaseUseCaseWithMetrics(t *testing.T) {
	ctx := context.Background()
	p := &authDomain.Principal{UserID: uuid.New(), TenantID: uuid.New(), Role: authDomain.RoleAdmin}

	t.Run("Assign success", func(t *testing.T) {
		next := mocks.NewMockCaseUseCase(t)
		m := metricsMocks.NewMockBusinessMetrics(t)
		uc := usecase.NewCaseUseCaseWithMetrics(next, m)
		id, assignee := uuid.New(), uuid.New()
		c := &domain.Case{ID: id, AssigneeID: &assignee}

		next.On("Assign", ctx, p, id, assignee).Return(c, nil).Once()
		m.ExpectOperation(ctx, "cases", "case_assign", "success")

		got, err := uc.Assign(ctx, p, id, assignee)
		assert.NoError(t, err)
		assert.Equal(t, c, got)
	})

	t.Run("ChangeStatus error", func(t *testing.T) {
		next := mocks.NewMockCaseUseCase(t)
		m := metricsMocks.NewMockBusinessMetrics(t)
		uc := usecase.NewCaseUseCaseWithMetrics(next, m)
		id := uuid.New()

		next.On("ChangeStatus", ctx, p, id, domain.StatusClosed).Return(nil, domain.ErrInvalidTransition).Once()
		m.ExpectOperation(ctx, "cases", "case_change_status", "error")

		_, err := uc.ChangeStatus(ctx, p, id, domain.StatusClosed)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("List success", func(t *testing.T) {
		next := mocks.NewMockCaseUseCase(t)
		m := metricsMocks.NewMockBusinessMetrics(t)
		uc := usecase.NewCaseUseCaseWithMetrics(next, m)
		filter := domain.ListFilter{Limit: 50}

		next.On("List", ctx, p, filter).Return([]*domain.Case{}, nil).Once()
		m.ExpectOperation(ctx, "cases", "case_list", "success")

		_, err := uc.List(ctx, p, filter)
		assert.NoError(t, err)
	})
}
