package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"ossvat/internal/domain"
)

// MockTransactionRepo is a mock implementation of port.TransactionRepository.
type MockTransactionRepo struct {
	mock.Mock
}

func (m *MockTransactionRepo) InsertIgnoringDuplicates(ctx context.Context, txns []domain.Transaction) (int64, error) {
	args := m.Called(ctx, txns)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTransactionRepo) ListInRange(ctx context.Context, userID string, from, to time.Time, types []domain.TransactionType) ([]domain.Transaction, error) {
	args := m.Called(ctx, userID, from, to, types)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepo) ListDetails(ctx context.Context, filter domain.DetailFilter) ([]domain.TransactionDetail, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TransactionDetail), args.Error(1)
}

func (m *MockTransactionRepo) DistinctDates(ctx context.Context, userID string) ([]time.Time, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]time.Time), args.Error(1)
}
