package job

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Rishitj1972/Secure-Share/backend/internal/domain/entity"
	"github.com/Rishitj1972/Secure-Share/backend/internal/domain/valueobject"
	"github.com/Rishitj1972/Secure-Share/backend/tests/testutil/mocks"
)

func newExpiredSession(t *testing.T) *entity.UploadSession {
	t.Helper()
	fileName, err := valueobject.NewFileName("report.pdf")
	require.NoError(t, err)
	mimeType, err := valueobject.NewMimeType("application/pdf")
	require.NoError(t, err)

	fileSize := int64(12 * 1024 * 1024)
	session := entity.NewUploadSession(
		uuid.New(), uuid.New(), fileName, mimeType,
		fileSize, entity.DetermineChunkSize(fileSize, 0),
		valueobject.EncryptionEnvelope{},
	)
	session.ExpiresAt = time.Now().Add(-time.Hour)
	return session
}

func TestSessionExpiryJob_Run_FailsExpiredSessionsAndRemovesChunks(t *testing.T) {
	ctx := context.Background()
	sessionRepo := mocks.NewMockUploadSessionRepository(t)
	chunkStore := mocks.NewMockChunkStore(t)

	s1 := newExpiredSession(t)
	s2 := newExpiredSession(t)

	sessionRepo.On("FindExpiredInProgress", ctx, mock.AnythingOfType("time.Time")).
		Return([]*entity.UploadSession{s1, s2}, nil)
	sessionRepo.On("FailIfInProgress", ctx, s1.ID, "Upload session expired").Return(true, nil)
	sessionRepo.On("FailIfInProgress", ctx, s2.ID, "Upload session expired").Return(true, nil)
	chunkStore.On("RemoveNamespace", ctx, s1.ID.String()).Return(nil)
	chunkStore.On("RemoveNamespace", ctx, s2.ID.String()).Return(nil)

	count, err := NewSessionExpiryJob(sessionRepo, chunkStore).Run(ctx)

	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestSessionExpiryJob_Run_LostTransition_ChunksUntouched(t *testing.T) {
	ctx := context.Background()
	sessionRepo := mocks.NewMockUploadSessionRepository(t)
	chunkStore := mocks.NewMockChunkStore(t)

	s1 := newExpiredSession(t)

	sessionRepo.On("FindExpiredInProgress", ctx, mock.AnythingOfType("time.Time")).
		Return([]*entity.UploadSession{s1}, nil)
	sessionRepo.On("FailIfInProgress", ctx, s1.ID, "Upload session expired").Return(false, nil)

	count, err := NewSessionExpiryJob(sessionRepo, chunkStore).Run(ctx)

	require.NoError(t, err)
	assert.Equal(t, 0, count)
	chunkStore.AssertNotCalled(t, "RemoveNamespace", ctx, s1.ID.String())
}

func TestSessionExpiryJob_Run_OneFailureDoesNotStopSweep(t *testing.T) {
	ctx := context.Background()
	sessionRepo := mocks.NewMockUploadSessionRepository(t)
	chunkStore := mocks.NewMockChunkStore(t)

	s1 := newExpiredSession(t)
	s2 := newExpiredSession(t)

	sessionRepo.On("FindExpiredInProgress", ctx, mock.AnythingOfType("time.Time")).
		Return([]*entity.UploadSession{s1, s2}, nil)
	sessionRepo.On("FailIfInProgress", ctx, s1.ID, "Upload session expired").
		Return(false, errors.New("db down"))
	sessionRepo.On("FailIfInProgress", ctx, s2.ID, "Upload session expired").Return(true, nil)
	chunkStore.On("RemoveNamespace", ctx, s2.ID.String()).Return(nil)

	count, err := NewSessionExpiryJob(sessionRepo, chunkStore).Run(ctx)

	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
