package store

import (
	"context"

	"github.com/stretchr/testify/mock"

	"page-slicer/internal/slices"
)

// MockStore is a mock implementation of Store using testify/mock.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) SaveSlices(ctx context.Context, recs []slices.Record) (Stats, error) {
	args := m.Called(ctx, recs)
	return args.Get(0).(Stats), args.Error(1)
}

func (m *MockStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
