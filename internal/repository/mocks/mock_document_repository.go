package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"

	"jobsink/internal/model"
)

type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) Insert(ctx context.Context, collection string, job *model.Job) (string, error) {
	args := m.Called(ctx, collection, job)
	return args.String(0), args.Error(1)
}

func (m *MockDocumentRepository) All(ctx context.Context, collection string) ([]bson.D, error) {
	args := m.Called(ctx, collection)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]bson.D), args.Error(1)
}
