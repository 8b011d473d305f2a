package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"ossvat/internal/period"
	"ossvat/internal/service"
)

// MockTransactionService is a mock implementation of service.TransactionService.
type MockTransactionService struct {
	mock.Mock
}

func (m *MockTransactionService) AvailablePeriods(ctx context.Context, userID string, freq period.Frequency) ([]period.Period, error) {
	args := m.Called(ctx, userID, freq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]period.Period), args.Error(1)
}

func (m *MockTransactionService) Summaries(ctx context.Context, userID string, p period.Period) (*service.SummaryReport, error) {
	args := m.Called(ctx, userID, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SummaryReport), args.Error(1)
}

func (m *MockTransactionService) DetailsByCountry(ctx context.Context, userID string, p period.Period, countryCode string) (*service.CountryDetails, error) {
	args := m.Called(ctx, userID, p, countryCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CountryDetails), args.Error(1)
}
