package mocks

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/Rishitj1972/Secure-Share/backend/internal/domain/service"
)

// MockChunkStore is a mock of service.ChunkStore
type MockChunkStore struct {
	mock.Mock
}

func NewMockChunkStore(t *testing.T) *MockChunkStore {
	m := &MockChunkStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockChunkStore) CreateNamespace(ctx context.Context, uploadID string) error {
	args := m.Called(ctx, uploadID)
	return args.Error(0)
}

func (m *MockChunkStore) StoreChunk(ctx context.Context, uploadID string, chunkNumber int, tempPath string) error {
	args := m.Called(ctx, uploadID, chunkNumber, tempPath)
	return args.Error(0)
}

func (m *MockChunkStore) OpenChunk(ctx context.Context, uploadID string, chunkNumber int) (io.ReadCloser, error) {
	args := m.Called(ctx, uploadID, chunkNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *MockChunkStore) ChunkExists(ctx context.Context, uploadID string, chunkNumber int) (bool, error) {
	args := m.Called(ctx, uploadID, chunkNumber)
	return args.Bool(0), args.Error(1)
}

func (m *MockChunkStore) RemoveNamespace(ctx context.Context, uploadID string) error {
	args := m.Called(ctx, uploadID)
	return args.Error(0)
}

func (m *MockChunkStore) ListNamespaces(ctx context.Context) ([]service.ChunkNamespace, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.ChunkNamespace), args.Error(1)
}

func (m *MockChunkStore) CreateScratch(ctx context.Context) (string, io.WriteCloser, error) {
	args := m.Called(ctx)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(io.WriteCloser), args.Error(2)
}

func (m *MockChunkStore) CreateIngest(ctx context.Context) (string, io.WriteCloser, error) {
	args := m.Called(ctx)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(io.WriteCloser), args.Error(2)
}

// MockArtifactStore is a mock of service.ArtifactStore
type MockArtifactStore struct {
	mock.Mock
}

func NewMockArtifactStore(t *testing.T) *MockArtifactStore {
	m := &MockArtifactStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockArtifactStore) Store(ctx context.Context, storedName string, localPath string, contentType string) error {
	args := m.Called(ctx, storedName, localPath, contentType)
	return args.Error(0)
}

func (m *MockArtifactStore) Remove(ctx context.Context, storedName string) error {
	args := m.Called(ctx, storedName)
	return args.Error(0)
}

// MockStrayFileStore is a mock of service.StrayFileStore
type MockStrayFileStore struct {
	mock.Mock
}

func NewMockStrayFileStore(t *testing.T) *MockStrayFileStore {
	m := &MockStrayFileStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockStrayFileStore) ListStrayFiles(ctx context.Context) ([]service.StrayFile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.StrayFile), args.Error(1)
}

func (m *MockStrayFileStore) RemoveStrayFile(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}
