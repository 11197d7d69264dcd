package command_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rishitj1972/Secure-Share/backend/internal/domain/entity"
	"github.com/Rishitj1972/Secure-Share/backend/internal/domain/valueobject"
	"github.com/Rishitj1972/Secure-Share/backend/internal/usecase/transfer/command"
	"github.com/Rishitj1972/Secure-Share/backend/pkg/apperror"
	"github.com/Rishitj1972/Secure-Share/backend/tests/testutil/mocks"
)

type receiveChunkTestDeps struct {
	sessionRepo *mocks.MockUploadSessionRepository
	chunkStore  *mocks.MockChunkStore
}

func newReceiveChunkTestDeps(t *testing.T) *receiveChunkTestDeps {
	t.Helper()
	return &receiveChunkTestDeps{
		sessionRepo: mocks.NewMockUploadSessionRepository(t),
		chunkStore:  mocks.NewMockChunkStore(t),
	}
}

func (d *receiveChunkTestDeps) newCommand() *command.ReceiveChunkCommand {
	return command.NewReceiveChunkCommand(d.sessionRepo, d.chunkStore)
}

// newSessionForTest は12MB（5MBチャンク3個）の進行中セッションを作成します
func newSessionForTest(t *testing.T) *entity.UploadSession {
	t.Helper()
	fileName, err := valueobject.NewFileName("photo.jpg")
	require.NoError(t, err)
	mimeType, err := valueobject.NewMimeType("image/jpeg")
	require.NoError(t, err)

	fileSize := int64(12 * 1024 * 1024)
	return entity.NewUploadSession(
		uuid.New(), uuid.New(), fileName, mimeType,
		fileSize, entity.DetermineChunkSize(fileSize, 0),
		valueobject.EncryptionEnvelope{},
	)
}

func TestReceiveChunkCommand_Execute_StoresChunkAndRecordsReceipt(t *testing.T) {
	ctx := context.Background()
	deps := newReceiveChunkTestDeps(t)

	session := newSessionForTest(t)

	deps.sessionRepo.On("FindByID", ctx, session.ID).Return(session, nil)
	deps.chunkStore.On("StoreChunk", ctx, session.ID.String(), 1, "/tmp/spool-1").Return(nil)
	deps.sessionRepo.On("AppendReceivedChunk", ctx, session.ID, 1).Return([]int{1}, nil)

	output, err := deps.newCommand().Execute(ctx, command.ReceiveChunkInput{
		UploadID:         session.ID,
		SenderID:         session.OwnerID,
		ChunkNumber:      1,
		TotalChunksClaim: 3,
		TempPath:         "/tmp/spool-1",
		ChunkSize:        5 * 1024 * 1024,
	})

	require.NoError(t, err)
	assert.Equal(t, 1, output.ReceivedCount)
	assert.Equal(t, 3, output.TotalChunks)
	assert.Equal(t, 33, output.Progress)
	assert.False(t, output.AllReceived)
}

func TestReceiveChunkCommand_Execute_LastChunk_ReportsAllReceived(t *testing.T) {
	ctx := context.Background()
	deps := newReceiveChunkTestDeps(t)

	session := newSessionForTest(t)
	session.ReceivedChunks = []int{1, 2}

	deps.sessionRepo.On("FindByID", ctx, session.ID).Return(session, nil)
	deps.chunkStore.On("StoreChunk", ctx, session.ID.String(), 3, "/tmp/spool-3").Return(nil)
	deps.sessionRepo.On("AppendReceivedChunk", ctx, session.ID, 3).Return([]int{1, 2, 3}, nil)

	output, err := deps.newCommand().Execute(ctx, command.ReceiveChunkInput{
		UploadID:         session.ID,
		SenderID:         session.OwnerID,
		ChunkNumber:      3,
		TotalChunksClaim: 3,
		TempPath:         "/tmp/spool-3",
		ChunkSize:        2 * 1024 * 1024, // 最終チャンクは端数で小さくてよい
	})

	require.NoError(t, err)
	assert.Equal(t, 3, output.ReceivedCount)
	assert.Equal(t, 100, output.Progress)
	assert.True(t, output.AllReceived)
}

func TestReceiveChunkCommand_Execute_ReuploadIsIdempotent(t *testing.T) {
	ctx := context.Background()
	deps := newReceiveChunkTestDeps(t)

	session := newSessionForTest(t)
	session.ReceivedChunks = []int{1, 2}

	deps.sessionRepo.On("FindByID", ctx, session.ID).Return(session, nil)
	deps.chunkStore.On("StoreChunk", ctx, session.ID.String(), 2, "/tmp/spool-2").Return(nil)
	// 受領済み番号の再追加は集合を変えない
	deps.sessionRepo.On("AppendReceivedChunk", ctx, session.ID, 2).Return([]int{1, 2}, nil)

	output, err := deps.newCommand().Execute(ctx, command.ReceiveChunkInput{
		UploadID:         session.ID,
		SenderID:         session.OwnerID,
		ChunkNumber:      2,
		TotalChunksClaim: 3,
		TempPath:         "/tmp/spool-2",
		ChunkSize:        5 * 1024 * 1024,
	})

	require.NoError(t, err)
	assert.Equal(t, 2, output.ReceivedCount)
	assert.False(t, output.AllReceived)
}

func TestReceiveChunkCommand_Execute_WrongSender_ReturnsForbidden(t *testing.T) {
	ctx := context.Background()
	deps := newReceiveChunkTestDeps(t)

	session := newSessionForTest(t)
	deps.sessionRepo.On("FindByID", ctx, session.ID).Return(session, nil)

	_, err := deps.newCommand().Execute(ctx, command.ReceiveChunkInput{
		UploadID:         session.ID,
		SenderID:         uuid.New(),
		ChunkNumber:      1,
		TotalChunksClaim: 3,
		TempPath:         "/tmp/spool-1",
		ChunkSize:        5 * 1024 * 1024,
	})

	require.Error(t, err)
	assert.True(t, apperror.IsForbidden(err))
}

func TestReceiveChunkCommand_Execute_CancelledSession_ReturnsConflict(t *testing.T) {
	ctx := context.Background()
	deps := newReceiveChunkTestDeps(t)

	session := newSessionForTest(t)
	require.NoError(t, session.Cancel())

	deps.sessionRepo.On("FindByID", ctx, session.ID).Return(session, nil)

	_, err := deps.newCommand().Execute(ctx, command.ReceiveChunkInput{
		UploadID:         session.ID,
		SenderID:         session.OwnerID,
		ChunkNumber:      1,
		TotalChunksClaim: 3,
		TempPath:         "/tmp/spool-1",
		ChunkSize:        5 * 1024 * 1024,
	})

	require.Error(t, err)
	assert.True(t, apperror.IsConflict(err))
}

func TestReceiveChunkCommand_Execute_CancelWinsAppendRace_ReturnsConflict(t *testing.T) {
	ctx := context.Background()
	deps := newReceiveChunkTestDeps(t)

	// FindByIDの時点では進行中だが、保存と記録の間に取消が先着した
	session := newSessionForTest(t)

	deps.sessionRepo.On("FindByID", ctx, session.ID).Return(session, nil)
	deps.chunkStore.On("StoreChunk", ctx, session.ID.String(), 1, "/tmp/spool-1").Return(nil)
	deps.sessionRepo.On("AppendReceivedChunk", ctx, session.ID, 1).
		Return(nil, apperror.NewConflictError("upload session is no longer accepting chunks"))

	output, err := deps.newCommand().Execute(ctx, command.ReceiveChunkInput{
		UploadID:         session.ID,
		SenderID:         session.OwnerID,
		ChunkNumber:      1,
		TotalChunksClaim: 3,
		TempPath:         "/tmp/spool-1",
		ChunkSize:        5 * 1024 * 1024,
	})

	require.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, apperror.IsConflict(err))
}

func TestReceiveChunkCommand_Execute_ExpiredSession_FailsAndReturnsConflict(t *testing.T) {
	ctx := context.Background()
	deps := newReceiveChunkTestDeps(t)

	session := newSessionForTest(t)
	session.ExpiresAt = time.Now().Add(-time.Hour)

	deps.sessionRepo.On("FindByID", ctx, session.ID).Return(session, nil)
	deps.sessionRepo.On("FailIfInProgress", ctx, session.ID, "Upload session expired").Return(true, nil)

	_, err := deps.newCommand().Execute(ctx, command.ReceiveChunkInput{
		UploadID:         session.ID,
		SenderID:         session.OwnerID,
		ChunkNumber:      1,
		TotalChunksClaim: 3,
		TempPath:         "/tmp/spool-1",
		ChunkSize:        5 * 1024 * 1024,
	})

	require.Error(t, err)
	assert.True(t, apperror.IsConflict(err))
}

func TestReceiveChunkCommand_Execute_ChunkNumberOutOfRange_ReturnsValidationError(t *testing.T) {
	ctx := context.Background()
	deps := newReceiveChunkTestDeps(t)

	session := newSessionForTest(t)
	deps.sessionRepo.On("FindByID", ctx, session.ID).Return(session, nil)

	for _, chunkNumber := range []int{0, 4, -1} {
		_, err := deps.newCommand().Execute(ctx, command.ReceiveChunkInput{
			UploadID:         session.ID,
			SenderID:         session.OwnerID,
			ChunkNumber:      chunkNumber,
			TotalChunksClaim: 3,
			TempPath:         "/tmp/spool",
			ChunkSize:        5 * 1024 * 1024,
		})

		require.Error(t, err)
		var appErr *apperror.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperror.CodeValidationError, appErr.Code)
	}
}

func TestReceiveChunkCommand_Execute_TotalChunksClaimMismatch_ReturnsValidationError(t *testing.T) {
	ctx := context.Background()
	deps := newReceiveChunkTestDeps(t)

	session := newSessionForTest(t)
	deps.sessionRepo.On("FindByID", ctx, session.ID).Return(session, nil)

	// 申告された総数がセッションと食い違うリクエストは保存前に拒否する
	_, err := deps.newCommand().Execute(ctx, command.ReceiveChunkInput{
		UploadID:         session.ID,
		SenderID:         session.OwnerID,
		ChunkNumber:      1,
		TotalChunksClaim: 5,
		TempPath:         "/tmp/spool-1",
		ChunkSize:        5 * 1024 * 1024,
	})

	require.Error(t, err)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.CodeValidationError, appErr.Code)
	assert.Contains(t, err.Error(), "expects 3, got 5")
	deps.chunkStore.AssertNotCalled(t, "StoreChunk", ctx, session.ID.String(), 1, "/tmp/spool-1")
}

func TestReceiveChunkCommand_Execute_OversizedChunk_ReturnsValidationError(t *testing.T) {
	ctx := context.Background()
	deps := newReceiveChunkTestDeps(t)

	session := newSessionForTest(t)
	deps.sessionRepo.On("FindByID", ctx, session.ID).Return(session, nil)

	_, err := deps.newCommand().Execute(ctx, command.ReceiveChunkInput{
		UploadID:         session.ID,
		SenderID:         session.OwnerID,
		ChunkNumber:      1,
		TotalChunksClaim: 3,
		TempPath:         "/tmp/spool-1",
		ChunkSize:        6 * 1024 * 1024,
	})

	require.Error(t, err)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.CodeValidationError, appErr.Code)
}
