// Package mocks provides testify mocks for the metrics package.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockBusinessMetrics is a mock implementation of metrics.BusinessMetrics.
type MockBusinessMetrics struct {
	mock.Mock
}

// NewMockBusinessMetrics creates a mock whose expectations are asserted on cleanup.
func NewMockBusinessMetrics(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockBusinessMetrics {
	m := &MockBusinessMetrics{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	m.Called(ctx, domain, operation, status)
}

func (m *MockBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	m.Called(ctx, domain, operation, duration, status)
}

func (m *MockBusinessMetrics) RecordRateLimit(ctx context.Context, policy string, allowed bool) {
	m.Called(ctx, policy, allowed)
}

// ExpectOperation registers the counter and histogram calls one decorated operation makes.
func (m *MockBusinessMetrics) ExpectOperation(ctx context.Context, domain, operation, status string) {
	m.On("RecordOperation", ctx, domain, operation, status).Return().Once()
	m.On("RecordDuration", ctx, domain, operation, mock.AnythingOfType("time.Duration"), status).Return().Once()
}
