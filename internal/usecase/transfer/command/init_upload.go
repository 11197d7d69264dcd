package command

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Rishitj1972/Secure-Share/backend/internal/domain/entity"
	"github.com/Rishitj1972/Secure-Share/backend/internal/domain/repository"
	"github.com/Rishitj1972/Secure-Share/backend/internal/domain/service"
	"github.com/Rishitj1972/Secure-Share/backend/internal/domain/valueobject"
	"github.com/Rishitj1972/Secure-Share/backend/pkg/apperror"
)

// InitUploadInput はアップロードセッション開始の入力を定義します
type InitUploadInput struct {
	SenderID           uuid.UUID
	ReceiverID         uuid.UUID
	FileName           string
	MimeType           string
	FileSize           int64
	PreferredChunkSize int64 // 0の場合はサイズに応じて自動決定
	WrappedKey         string
	IV                 string
	ExpectedHash       string
}

// InitUploadOutput はアップロードセッション開始の出力を定義します
type InitUploadOutput struct {
	UploadID    uuid.UUID
	ChunkSize   int64
	TotalChunks int
	ExpiresAt   time.Time
}

// InitUploadCommand はアップロードセッション開始コマンドです
type InitUploadCommand struct {
	sessionRepo repository.UploadSessionRepository
	userRepo    repository.UserRepository
	chunkStore  service.ChunkStore
}

// NewInitUploadCommand は新しいInitUploadCommandを作成します
func NewInitUploadCommand(
	sessionRepo repository.UploadSessionRepository,
	userRepo repository.UserRepository,
	chunkStore service.ChunkStore,
) *InitUploadCommand {
	return &InitUploadCommand{
		sessionRepo: sessionRepo,
		userRepo:    userRepo,
		chunkStore:  chunkStore,
	}
}

// Execute はアップロードセッションを開始します
func (c *InitUploadCommand) Execute(ctx context.Context, input InitUploadInput) (*InitUploadOutput, error) {
	// 1. 入力の検証
	fileName, err := valueobject.NewFileName(input.FileName)
	if err != nil {
		return nil, apperror.NewValidationError(err.Error(), nil)
	}

	mimeType, err := valueobject.NewMimeType(input.MimeType)
	if err != nil {
		return nil, apperror.NewValidationError(err.Error(), nil)
	}

	if input.FileSize <= 0 {
		return nil, apperror.NewValidationError("file size must be positive", nil)
	}
	if input.FileSize > entity.MaxTransferSize {
		return nil, apperror.NewValidationError(entity.ErrFileSizeExceeded.Error(), nil)
	}
	if input.SenderID == input.ReceiverID {
		return nil, apperror.NewValidationError(entity.ErrSelfTransfer.Error(), nil)
	}

	// 2. 受信者の実在確認
	if _, err := c.userRepo.FindByID(ctx, input.ReceiverID); err != nil {
		return nil, err
	}

	// 暗号化メタデータは3点セットか、まったく無いかのどちらか
	var encryption valueobject.EncryptionEnvelope
	if input.WrappedKey != "" || input.IV != "" || input.ExpectedHash != "" {
		encryption, err = valueobject.NewEncryptionEnvelope(input.WrappedKey, input.IV, input.ExpectedHash)
		if err != nil {
			return nil, apperror.NewValidationError(err.Error(), nil)
		}
	}

	// 3. セッション作成
	chunkSize := entity.DetermineChunkSize(input.FileSize, input.PreferredChunkSize)
	session := entity.NewUploadSession(
		input.SenderID,
		input.ReceiverID,
		fileName,
		mimeType,
		input.FileSize,
		chunkSize,
		encryption,
	)

	if err := c.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	// 4. チャンク保管域の用意
	if err := c.chunkStore.CreateNamespace(ctx, session.ID.String()); err != nil {
		// セッションだけ残しても仕方がないので巻き戻す
		if derr := c.sessionRepo.Delete(ctx, session.ID); derr != nil {
			slog.Error("failed to roll back upload session", "upload_id", session.ID, "error", derr)
		}
		return nil, err
	}

	slog.Info("upload session initialized",
		"upload_id", session.ID,
		"file_size", session.FileSize,
		"chunk_size", session.ChunkSize,
		"total_chunks", session.TotalChunks,
	)

	return &InitUploadOutput{
		UploadID:    session.ID,
		ChunkSize:   session.ChunkSize,
		TotalChunks: session.TotalChunks,
		ExpiresAt:   session.ExpiresAt,
	}, nil
}
