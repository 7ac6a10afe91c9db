package cache

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"page-slicer/internal/slices"
)

// MockCache is a mock implementation of the Cache interface for testing
type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetSlices(ctx context.Context, key string) ([]slices.Record, bool, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]slices.Record), args.Bool(1), args.Error(2)
}

func (m *MockCache) SetSlices(ctx context.Context, key string, recs []slices.Record, ttl time.Duration) error {
	args := m.Called(ctx, key, recs, ttl)
	return args.Error(0)
}

func (m *MockCache) Close() error {
	args := m.Called()
	return args.Error(0)
}
