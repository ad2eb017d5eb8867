package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"jobsink/internal/model"
	"jobsink/internal/service"
)

type MockIngestService struct {
	mock.Mock
}

func (m *MockIngestService) Ingest(ctx context.Context, job *model.Job) (service.Outcome, error) {
	args := m.Called(ctx, job)
	return args.Get(0).(service.Outcome), args.Error(1)
}
