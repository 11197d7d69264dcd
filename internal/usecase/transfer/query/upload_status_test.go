package query_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rishitj1972/Secure-Share/backend/internal/domain/entity"
	"github.com/Rishitj1972/Secure-Share/backend/internal/domain/valueobject"
	"github.com/Rishitj1972/Secure-Share/backend/internal/usecase/transfer/query"
	"github.com/Rishitj1972/Secure-Share/backend/pkg/apperror"
	"github.com/Rishitj1972/Secure-Share/backend/tests/testutil/mocks"
)

func newStatusSession(t *testing.T, received []int) *entity.UploadSession {
	t.Helper()
	fileName, err := valueobject.NewFileName("dataset.csv")
	require.NoError(t, err)
	mimeType, err := valueobject.NewMimeType("text/csv")
	require.NoError(t, err)

	now := time.Now()
	return entity.ReconstructUploadSession(
		uuid.New(), uuid.New(), uuid.New(), fileName, mimeType,
		60*1024*1024, 5*1024*1024, 12, received,
		entity.UploadSessionStatusInProgress, valueobject.EncryptionEnvelope{},
		"", "", now, now, nil, now.Add(6*24*time.Hour),
	)
}

func TestUploadStatusQuery_Execute_ReturnsProgress(t *testing.T) {
	ctx := context.Background()
	sessionRepo := mocks.NewMockUploadSessionRepository(t)

	session := newStatusSession(t, []int{1, 2, 3, 5})
	sessionRepo.On("FindByID", ctx, session.ID).Return(session, nil)

	output, err := query.NewUploadStatusQuery(sessionRepo).Execute(ctx, query.UploadStatusInput{
		UploadID:    session.ID,
		RequesterID: session.OwnerID,
	})

	require.NoError(t, err)
	assert.Equal(t, entity.UploadSessionStatusInProgress, output.Status)
	assert.Equal(t, 4, output.ReceivedCount)
	assert.Equal(t, 12, output.TotalChunks)
	assert.Equal(t, 33, output.Progress)
	assert.Equal(t, []int{1, 2, 3, 5}, output.ReceivedChunks)
	assert.Equal(t, "dataset.csv", output.FileName)
}

func TestUploadStatusQuery_Execute_FailedSession_IncludesReason(t *testing.T) {
	ctx := context.Background()
	sessionRepo := mocks.NewMockUploadSessionRepository(t)

	session := newStatusSession(t, []int{1})
	require.NoError(t, session.Fail("Upload session expired"))
	sessionRepo.On("FindByID", ctx, session.ID).Return(session, nil)

	output, err := query.NewUploadStatusQuery(sessionRepo).Execute(ctx, query.UploadStatusInput{
		UploadID:    session.ID,
		RequesterID: session.OwnerID,
	})

	require.NoError(t, err)
	assert.Equal(t, entity.UploadSessionStatusFailed, output.Status)
	assert.Equal(t, "Upload session expired", output.FailureReason)
}

func TestUploadStatusQuery_Execute_NotOwner_ReturnsForbidden(t *testing.T) {
	ctx := context.Background()
	sessionRepo := mocks.NewMockUploadSessionRepository(t)

	session := newStatusSession(t, nil)
	sessionRepo.On("FindByID", ctx, session.ID).Return(session, nil)

	output, err := query.NewUploadStatusQuery(sessionRepo).Execute(ctx, query.UploadStatusInput{
		UploadID:    session.ID,
		RequesterID: uuid.New(),
	})

	require.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, apperror.IsForbidden(err))
}

func TestUploadStatusQuery_Execute_UnknownSession_ReturnsNotFound(t *testing.T) {
	ctx := context.Background()
	sessionRepo := mocks.NewMockUploadSessionRepository(t)

	uploadID := uuid.New()
	sessionRepo.On("FindByID", ctx, uploadID).Return(nil, apperror.NewNotFoundError("upload session"))

	output, err := query.NewUploadStatusQuery(sessionRepo).Execute(ctx, query.UploadStatusInput{
		UploadID:    uploadID,
		RequesterID: uuid.New(),
	})

	require.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, apperror.IsNotFound(err))
}
