package handler

import (
	"io"
	"mime/multipart"
	"os"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Rishitj1972/Secure-Share/backend/internal/domain/service"
	"github.com/Rishitj1972/Secure-Share/backend/internal/interface/dto/request"
	"github.com/Rishitj1972/Secure-Share/backend/internal/interface/dto/response"
	"github.com/Rishitj1972/Secure-Share/backend/internal/interface/middleware"
	"github.com/Rishitj1972/Secure-Share/backend/internal/interface/presenter"
	transfercmd "github.com/Rishitj1972/Secure-Share/backend/internal/usecase/transfer/command"
	transferqry "github.com/Rishitj1972/Secure-Share/backend/internal/usecase/transfer/query"
	"github.com/Rishitj1972/Secure-Share/backend/pkg/apperror"
)

// UploadHandler はチャンクアップロード関連のHTTPハンドラーです
type UploadHandler struct {
	initUploadCommand     *transfercmd.InitUploadCommand
	receiveChunkCommand   *transfercmd.ReceiveChunkCommand
	completeUploadCommand *transfercmd.CompleteUploadCommand
	cancelUploadCommand   *transfercmd.CancelUploadCommand
	runCleanupCommand     *transfercmd.RunCleanupCommand
	uploadStatusQuery     *transferqry.UploadStatusQuery
	chunkStore            service.ChunkStore
}

// NewUploadHandler は新しいUploadHandlerを作成します
func NewUploadHandler(
	initUploadCommand *transfercmd.InitUploadCommand,
	receiveChunkCommand *transfercmd.ReceiveChunkCommand,
	completeUploadCommand *transfercmd.CompleteUploadCommand,
	cancelUploadCommand *transfercmd.CancelUploadCommand,
	runCleanupCommand *transfercmd.RunCleanupCommand,
	uploadStatusQuery *transferqry.UploadStatusQuery,
	chunkStore service.ChunkStore,
) *UploadHandler {
	return &UploadHandler{
		initUploadCommand:     initUploadCommand,
		receiveChunkCommand:   receiveChunkCommand,
		completeUploadCommand: completeUploadCommand,
		cancelUploadCommand:   cancelUploadCommand,
		runCleanupCommand:     runCleanupCommand,
		uploadStatusQuery:     uploadStatusQuery,
		chunkStore:            chunkStore,
	}
}

// InitUpload はチャンクアップロードセッションを開始します
// @Summary チャンクアップロード開始
// @Description ファイルサイズからチャンク計画を確定し、アップロードセッションを作成します
// @Tags ChunkedUpload
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body request.InitChunkedUploadRequest true "アップロード情報"
// @Success 201 {object} handler.SwaggerInitChunkedUploadResponse
// @Failure 400 {object} handler.SwaggerErrorResponse
// @Failure 401 {object} handler.SwaggerErrorResponse
// @Router /files/chunked/init [post]
func (h *UploadHandler) InitUpload(c echo.Context) error {
	senderID, err := requireUserID(c)
	if err != nil {
		return err
	}

	var req request.InitChunkedUploadRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewValidationError("invalid request body", nil)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	receiverID, err := uuid.Parse(req.ReceiverID)
	if err != nil {
		return apperror.NewValidationError("invalid receiver ID", nil)
	}

	output, err := h.initUploadCommand.Execute(c.Request().Context(), transfercmd.InitUploadInput{
		SenderID:           senderID,
		ReceiverID:         receiverID,
		FileName:           req.FileName,
		MimeType:           req.MimeType,
		FileSize:           req.FileSize,
		PreferredChunkSize: req.ChunkSize,
		WrappedKey:         req.WrappedKey,
		IV:                 req.IV,
		ExpectedHash:       req.ExpectedHash,
	})
	if err != nil {
		return err
	}

	return presenter.Created(c, response.ToInitChunkedUploadResponse(output))
}

// UploadChunk はチャンクを受領します
// @Summary チャンク送信
// @Description multipartで送られたチャンクを検証して保管します。同じチャンクの再送は冪等です
// @Tags ChunkedUpload
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param uploadId formData string true "アップロードID"
// @Param chunkNumber formData int true "チャンク番号（1始まり）"
// @Param totalChunks formData int true "総チャンク数（セッションと一致すること）"
// @Param chunkHash formData string false "チャンクのハッシュ（受領のみ、検証は完了時）"
// @Param chunk formData file true "チャンクデータ"
// @Success 200 {object} handler.SwaggerUploadChunkResponse
// @Failure 400 {object} handler.SwaggerErrorResponse
// @Failure 409 {object} handler.SwaggerErrorResponse
// @Router /files/chunked/upload-chunk [post]
func (h *UploadHandler) UploadChunk(c echo.Context) error {
	senderID, err := requireUserID(c)
	if err != nil {
		return err
	}

	var form request.UploadChunkForm
	if err := c.Bind(&form); err != nil {
		return apperror.NewValidationError("invalid form data", nil)
	}
	if err := c.Validate(&form); err != nil {
		return err
	}

	uploadID, err := uuid.Parse(form.UploadID)
	if err != nil {
		return apperror.NewValidationError("invalid upload ID", nil)
	}

	fileHeader, err := c.FormFile("chunk")
	if err != nil {
		return apperror.NewValidationError("chunk file part is required", nil)
	}

	tempPath, size, err := h.spoolChunk(c, fileHeader)
	if err != nil {
		return err
	}
	// 成功時はStoreChunkがrename済みなので、ここの削除は失敗時だけ効く
	defer os.Remove(tempPath)

	output, err := h.receiveChunkCommand.Execute(c.Request().Context(), transfercmd.ReceiveChunkInput{
		UploadID:         uploadID,
		SenderID:         senderID,
		ChunkNumber:      form.ChunkNumber,
		TotalChunksClaim: form.TotalChunks,
		TempPath:         tempPath,
		ChunkSize:        size,
	})
	if err != nil {
		return err
	}

	return presenter.OK(c, response.ToUploadChunkResponse(output))
}

// spoolChunk はmultipartのチャンクを一時ファイルへ書き出します
func (h *UploadHandler) spoolChunk(c echo.Context, fileHeader *multipart.FileHeader) (string, int64, error) {
	src, err := fileHeader.Open()
	if err != nil {
		return "", 0, apperror.NewValidationError("cannot read chunk data", nil)
	}
	defer src.Close()

	tempPath, dst, err := h.chunkStore.CreateIngest(c.Request().Context())
	if err != nil {
		return "", 0, err
	}

	size, err := io.Copy(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tempPath)
		return "", 0, apperror.NewStorageError("spool chunk", err)
	}

	return tempPath, size, nil
}

// GetStatus はアップロード状況を返します
// @Summary アップロード状況照会
// @Description セッションの進捗・受領済みチャンク・状態を返します
// @Tags ChunkedUpload
// @Produce json
// @Security BearerAuth
// @Param uploadId path string true "アップロードID"
// @Success 200 {object} handler.SwaggerUploadStatusResponse
// @Failure 404 {object} handler.SwaggerErrorResponse
// @Router /files/chunked/status/{uploadId} [get]
func (h *UploadHandler) GetStatus(c echo.Context) error {
	requesterID, err := requireUserID(c)
	if err != nil {
		return err
	}

	uploadID, err := uuid.Parse(c.Param("uploadId"))
	if err != nil {
		return apperror.NewValidationError("invalid upload ID", nil)
	}

	output, err := h.uploadStatusQuery.Execute(c.Request().Context(), transferqry.UploadStatusInput{
		UploadID:    uploadID,
		RequesterID: requesterID,
	})
	if err != nil {
		return err
	}

	return presenter.OK(c, response.ToUploadStatusResponse(output))
}

// CompleteUpload は全チャンクを組み立ててアップロードを完了します
// @Summary チャンクアップロード完了
// @Description 受領済みチャンクを番号順に連結・検証し、完成ファイルとして登録します
// @Tags ChunkedUpload
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body request.CompleteChunkedUploadRequest true "アップロードID"
// @Success 200 {object} handler.SwaggerCompleteChunkedUploadResponse
// @Failure 409 {object} handler.SwaggerErrorResponse
// @Failure 422 {object} handler.SwaggerErrorResponse
// @Router /files/chunked/complete [post]
func (h *UploadHandler) CompleteUpload(c echo.Context) error {
	senderID, err := requireUserID(c)
	if err != nil {
		return err
	}

	var req request.CompleteChunkedUploadRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewValidationError("invalid request body", nil)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	uploadID, err := uuid.Parse(req.UploadID)
	if err != nil {
		return apperror.NewValidationError("invalid upload ID", nil)
	}

	output, err := h.completeUploadCommand.Execute(c.Request().Context(), transfercmd.CompleteUploadInput{
		UploadID:     uploadID,
		SenderID:     senderID,
		ExpectedHash: req.ExpectedHash,
	})
	if err != nil {
		return err
	}

	return presenter.OK(c, response.ToCompleteChunkedUploadResponse(output))
}

// CancelUpload はアップロードを取り消します
// @Summary チャンクアップロード取消
// @Description セッションを取消状態にし、受領済みチャンクを破棄します
// @Tags ChunkedUpload
// @Produce json
// @Security BearerAuth
// @Param uploadId path string true "アップロードID"
// @Success 200 {object} handler.SwaggerErrorResponse
// @Failure 409 {object} handler.SwaggerErrorResponse
// @Router /files/chunked/{uploadId} [delete]
func (h *UploadHandler) CancelUpload(c echo.Context) error {
	senderID, err := requireUserID(c)
	if err != nil {
		return err
	}

	uploadID, err := uuid.Parse(c.Param("uploadId"))
	if err != nil {
		return apperror.NewValidationError("invalid upload ID", nil)
	}

	err = h.cancelUploadCommand.Execute(c.Request().Context(), transfercmd.CancelUploadInput{
		UploadID: uploadID,
		SenderID: senderID,
	})
	if err != nil {
		return err
	}

	return presenter.Deleted(c, "upload cancelled")
}

// CleanupAll はクリーンアップを即時実行します
// @Summary クリーンアップ実行
// @Description 期限切れセッション・孤立チャンク・迷子ファイルの掃除を即時実行します
// @Tags ChunkedUpload
// @Produce json
// @Security BearerAuth
// @Success 200 {object} handler.SwaggerCleanupResponse
// @Router /files/chunked/cleanup/all [delete]
func (h *UploadHandler) CleanupAll(c echo.Context) error {
	if _, err := requireUserID(c); err != nil {
		return err
	}

	output, err := h.runCleanupCommand.Execute(c.Request().Context())
	if err != nil {
		return err
	}

	return presenter.OK(c, response.ToCleanupResponse(output))
}

// requireUserID は認証済みユーザーIDを取得します
func requireUserID(c echo.Context) (uuid.UUID, error) {
	userID, err := middleware.GetUserUUID(c)
	if err != nil || userID == uuid.Nil {
		return uuid.Nil, apperror.NewUnauthorizedError("authentication required")
	}
	return userID, nil
}
