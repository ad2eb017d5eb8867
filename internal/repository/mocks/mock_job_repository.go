package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"jobsink/internal/model"
	"jobsink/internal/repository"
)

type MockJobRepository struct {
	mock.Mock
}

func (m *MockJobRepository) Create(ctx context.Context, job *model.Job) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockJobRepository) Dump(ctx context.Context) (*repository.Table, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Table), args.Error(1)
}
