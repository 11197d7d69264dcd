package mocks

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/Rishitj1972/Secure-Share/backend/internal/domain/entity"
)

// MockUploadSessionRepository is a mock of repository.UploadSessionRepository
type MockUploadSessionRepository struct {
	mock.Mock
}

func NewMockUploadSessionRepository(t *testing.T) *MockUploadSessionRepository {
	m := &MockUploadSessionRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockUploadSessionRepository) Create(ctx context.Context, session *entity.UploadSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockUploadSessionRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.UploadSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.UploadSession), args.Error(1)
}

func (m *MockUploadSessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUploadSessionRepository) AppendReceivedChunk(ctx context.Context, id uuid.UUID, chunkNumber int) ([]int, error) {
	args := m.Called(ctx, id, chunkNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int), args.Error(1)
}

func (m *MockUploadSessionRepository) CompleteIfInProgress(ctx context.Context, id uuid.UUID, fileHash string, completedAt time.Time) (bool, error) {
	args := m.Called(ctx, id, fileHash, completedAt)
	return args.Bool(0), args.Error(1)
}

func (m *MockUploadSessionRepository) FailIfInProgress(ctx context.Context, id uuid.UUID, reason string) (bool, error) {
	args := m.Called(ctx, id, reason)
	return args.Bool(0), args.Error(1)
}

func (m *MockUploadSessionRepository) CancelIfInProgress(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockUploadSessionRepository) FindExpiredInProgress(ctx context.Context, now time.Time) ([]*entity.UploadSession, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.UploadSession), args.Error(1)
}
