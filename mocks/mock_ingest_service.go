package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"ossvat/internal/service"
)

// MockIngestService is a mock implementation of service.IngestService.
type MockIngestService struct {
	mock.Mock
}

func (m *MockIngestService) IngestReport(ctx context.Context, input service.IngestInput) (*service.IngestOutcome, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.IngestOutcome), args.Error(1)
}
