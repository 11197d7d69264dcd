package handler_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Rishitj1972/Secure-Share/backend/internal/domain/entity"
	"github.com/Rishitj1972/Secure-Share/backend/internal/domain/valueobject"
	"github.com/Rishitj1972/Secure-Share/backend/internal/infrastructure/di"
	"github.com/Rishitj1972/Secure-Share/backend/internal/infrastructure/storage"
	"github.com/Rishitj1972/Secure-Share/backend/internal/interface/middleware"
	"github.com/Rishitj1972/Secure-Share/backend/internal/interface/validator"
	"github.com/Rishitj1972/Secure-Share/backend/internal/usecase/transfer/command"
	"github.com/Rishitj1972/Secure-Share/backend/internal/usecase/transfer/query"
	"github.com/Rishitj1972/Secure-Share/backend/tests/testutil"
	"github.com/Rishitj1972/Secure-Share/backend/tests/testutil/mocks"
)

type uploadHandlerTestDeps struct {
	sessionRepo *mocks.MockUploadSessionRepository
	fileRepo    *mocks.MockFileRepository
	userRepo    *mocks.MockUserRepository
	txManager   *mocks.MockTransactionManager
	store       *storage.LocalStore
}

// newUploadTestServer はチャンクアップロードのルートを備えたテスト用Echoを構築します
// チャンク保管は実ディスク（一時ディレクトリ）、セッション永続化はモックです
func newUploadTestServer(t *testing.T, userID uuid.UUID) (*echo.Echo, *uploadHandlerTestDeps) {
	t.Helper()

	store, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	deps := &uploadHandlerTestDeps{
		sessionRepo: mocks.NewMockUploadSessionRepository(t),
		fileRepo:    mocks.NewMockFileRepository(t),
		userRepo:    mocks.NewMockUserRepository(t),
		txManager:   mocks.NewMockTransactionManager(t),
		store:       store,
	}

	noSweep := func(ctx context.Context) (int, error) { return 0, nil }
	container := &di.Container{
		ChunkStore: store,
		Transfer: &di.TransferUseCases{
			InitUpload:     command.NewInitUploadCommand(deps.sessionRepo, deps.userRepo, store),
			ReceiveChunk:   command.NewReceiveChunkCommand(deps.sessionRepo, store),
			CompleteUpload: command.NewCompleteUploadCommand(deps.sessionRepo, deps.fileRepo, store, store, deps.txManager),
			CancelUpload:   command.NewCancelUploadCommand(deps.sessionRepo, store),
			RunCleanup:     command.NewRunCleanupCommand(noSweep, noSweep, noSweep),
			UploadStatus:   query.NewUploadStatusQuery(deps.sessionRepo),
		},
	}
	handlers := di.NewHandlersForTest(container)

	e := echo.New()
	e.Validator = validator.NewCustomValidator()
	e.HTTPErrorHandler = middleware.CustomHTTPErrorHandler

	auth := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if userID != uuid.Nil {
				middleware.SetUserID(c, userID.String())
			}
			return next(c)
		}
	}

	g := e.Group("/api/files/chunked", auth)
	g.POST("/init", handlers.Upload.InitUpload)
	g.POST("/upload-chunk", handlers.Upload.UploadChunk)
	g.POST("/complete", handlers.Upload.CompleteUpload)
	g.GET("/status/:uploadId", handlers.Upload.GetStatus)
	g.DELETE("/:uploadId", handlers.Upload.CancelUpload)

	return e, deps
}

func newHandlerTestSession(t *testing.T, ownerID uuid.UUID) *entity.UploadSession {
	t.Helper()
	fileName, err := valueobject.NewFileName("photo.jpg")
	require.NoError(t, err)
	mimeType, err := valueobject.NewMimeType("image/jpeg")
	require.NoError(t, err)

	fileSize := int64(12 * 1024 * 1024)
	return entity.NewUploadSession(
		ownerID, uuid.New(), fileName, mimeType,
		fileSize, entity.DetermineChunkSize(fileSize, 0),
		valueobject.EncryptionEnvelope{},
	)
}

func TestUploadHandler_InitUpload_ReturnsChunkPlan(t *testing.T) {
	userID := uuid.New()
	e, deps := newUploadTestServer(t, userID)

	receiverID := uuid.New()
	receiver := entity.ReconstructUser(receiverID, "receiver", "receiver@example.com", time.Now())
	deps.userRepo.On("FindByID", mock.Anything, receiverID).Return(receiver, nil)
	deps.sessionRepo.On("Create", mock.Anything, mock.AnythingOfType("*entity.UploadSession")).Return(nil)

	res := testutil.DoRequest(t, e, testutil.HTTPRequest{
		Method: http.MethodPost,
		Path:   "/api/files/chunked/init",
		Body: map[string]interface{}{
			"receiverId": receiverID.String(),
			"fileName":   "photo.jpg",
			"mimeType":   "image/jpeg",
			"fileSize":   12 * 1024 * 1024,
		},
	})

	res.AssertStatus(http.StatusCreated).
		AssertJSONPath("data.chunkSize", float64(5*1024*1024)).
		AssertJSONPath("data.totalChunks", float64(3)).
		AssertJSONPathExists("data.uploadId")
}

func TestUploadHandler_InitUpload_InvalidBody_ReturnsValidationError(t *testing.T) {
	e, _ := newUploadTestServer(t, uuid.New())

	res := testutil.DoRequest(t, e, testutil.HTTPRequest{
		Method: http.MethodPost,
		Path:   "/api/files/chunked/init",
		Body: map[string]interface{}{
			"receiverId": "not-a-uuid",
			"fileName":   "photo.jpg",
			"mimeType":   "image/jpeg",
		},
	})

	res.AssertStatus(http.StatusBadRequest).AssertJSONError("VALIDATION_ERROR", "")
}

func TestUploadHandler_InitUpload_Unauthenticated_ReturnsUnauthorized(t *testing.T) {
	e, _ := newUploadTestServer(t, uuid.Nil)

	res := testutil.DoRequest(t, e, testutil.HTTPRequest{
		Method: http.MethodPost,
		Path:   "/api/files/chunked/init",
		Body: map[string]interface{}{
			"receiverId": uuid.New().String(),
			"fileName":   "photo.jpg",
			"mimeType":   "image/jpeg",
			"fileSize":   1024,
		},
	})

	res.AssertStatus(http.StatusUnauthorized).AssertJSONError("UNAUTHORIZED", "")
}

func TestUploadHandler_UploadChunk_SpoolsAndStoresChunk(t *testing.T) {
	userID := uuid.New()
	e, deps := newUploadTestServer(t, userID)

	session := newHandlerTestSession(t, userID)
	require.NoError(t, deps.store.CreateNamespace(context.Background(), session.ID.String()))

	deps.sessionRepo.On("FindByID", mock.Anything, session.ID).Return(session, nil)
	deps.sessionRepo.On("AppendReceivedChunk", mock.Anything, session.ID, 1).Return([]int{1}, nil)

	res := testutil.DoMultipartRequest(t, e, testutil.MultipartRequest{
		Method: http.MethodPost,
		Path:   "/api/files/chunked/upload-chunk",
		Fields: map[string]string{
			"uploadId":    session.ID.String(),
			"chunkNumber": "1",
			"totalChunks": "3",
		},
		FilePart:    "chunk",
		FileName:    "blob",
		FileContent: []byte("chunk payload"),
	})

	res.AssertStatus(http.StatusOK).
		AssertJSONPath("data.receivedCount", float64(1)).
		AssertJSONPath("data.progress", float64(33)).
		AssertJSONPath("data.allReceived", false)

	// チャンクは保管域へrenameされている
	exists, err := deps.store.ChunkExists(context.Background(), session.ID.String(), 1)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestUploadHandler_UploadChunk_TotalChunksMismatch_ReturnsValidationError(t *testing.T) {
	userID := uuid.New()
	e, deps := newUploadTestServer(t, userID)

	session := newHandlerTestSession(t, userID)
	deps.sessionRepo.On("FindByID", mock.Anything, session.ID).Return(session, nil)

	res := testutil.DoMultipartRequest(t, e, testutil.MultipartRequest{
		Method: http.MethodPost,
		Path:   "/api/files/chunked/upload-chunk",
		Fields: map[string]string{
			"uploadId":    session.ID.String(),
			"chunkNumber": "1",
			"totalChunks": "7",
		},
		FilePart:    "chunk",
		FileName:    "blob",
		FileContent: []byte("chunk payload"),
	})

	res.AssertStatus(http.StatusBadRequest).AssertJSONError("VALIDATION_ERROR", "")
}

func TestUploadHandler_CompleteUpload_MissingChunks_ReturnsConflict(t *testing.T) {
	userID := uuid.New()
	e, deps := newUploadTestServer(t, userID)

	session := newHandlerTestSession(t, userID)
	session.ReceivedChunks = []int{1}

	deps.sessionRepo.On("FindByID", mock.Anything, session.ID).Return(session, nil)

	res := testutil.DoRequest(t, e, testutil.HTTPRequest{
		Method: http.MethodPost,
		Path:   "/api/files/chunked/complete",
		Body: map[string]interface{}{
			"uploadId": session.ID.String(),
		},
	})

	res.AssertStatus(http.StatusConflict).AssertJSONError("CONFLICT", "Missing chunks. Received 1/3")
}

func TestUploadHandler_GetStatus_ReturnsProgress(t *testing.T) {
	userID := uuid.New()
	e, deps := newUploadTestServer(t, userID)

	session := newHandlerTestSession(t, userID)
	session.ReceivedChunks = []int{1, 2}

	deps.sessionRepo.On("FindByID", mock.Anything, session.ID).Return(session, nil)

	res := testutil.DoRequest(t, e, testutil.HTTPRequest{
		Method: http.MethodGet,
		Path:   "/api/files/chunked/status/" + session.ID.String(),
	})

	res.AssertStatus(http.StatusOK).
		AssertJSONPath("data.status", "in-progress").
		AssertJSONPath("data.receivedCount", float64(2)).
		AssertJSONPath("data.progress", float64(67))
}

func TestUploadHandler_CancelUpload_ReturnsAck(t *testing.T) {
	userID := uuid.New()
	e, deps := newUploadTestServer(t, userID)

	session := newHandlerTestSession(t, userID)

	deps.sessionRepo.On("FindByID", mock.Anything, session.ID).Return(session, nil)
	deps.sessionRepo.On("CancelIfInProgress", mock.Anything, session.ID).Return(true, nil)

	res := testutil.DoRequest(t, e, testutil.HTTPRequest{
		Method: http.MethodDelete,
		Path:   "/api/files/chunked/" + session.ID.String(),
	})

	res.AssertStatus(http.StatusOK)
}
