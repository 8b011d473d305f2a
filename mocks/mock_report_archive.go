package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"ossvat/internal/port"
)

// MockReportArchive is a mock implementation of port.ReportArchive.
type MockReportArchive struct {
	mock.Mock
}

func (m *MockReportArchive) Put(ctx context.Context, key string, body io.Reader, contentType string) (*port.ArchivedReport, error) {
	args := m.Called(ctx, key, body, contentType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.ArchivedReport), args.Error(1)
}

func (m *MockReportArchive) Remove(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
