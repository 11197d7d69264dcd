package command

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Rishitj1972/Secure-Share/backend/internal/domain/repository"
	"github.com/Rishitj1972/Secure-Share/backend/internal/domain/service"
	"github.com/Rishitj1972/Secure-Share/backend/pkg/apperror"
)

// CancelUploadInput はアップロード取消の入力を定義します
type CancelUploadInput struct {
	UploadID uuid.UUID
	SenderID uuid.UUID
}

// CancelUploadCommand はアップロード取消コマンドです
type CancelUploadCommand struct {
	sessionRepo repository.UploadSessionRepository
	chunkStore  service.ChunkStore
}

// NewCancelUploadCommand は新しいCancelUploadCommandを作成します
func NewCancelUploadCommand(
	sessionRepo repository.UploadSessionRepository,
	chunkStore service.ChunkStore,
) *CancelUploadCommand {
	return &CancelUploadCommand{
		sessionRepo: sessionRepo,
		chunkStore:  chunkStore,
	}
}

// Execute はセッションを取消状態へ遷移させ、受領済みチャンクを破棄します
func (c *CancelUploadCommand) Execute(ctx context.Context, input CancelUploadInput) error {
	session, err := c.sessionRepo.FindByID(ctx, input.UploadID)
	if err != nil {
		return err
	}

	if !session.IsOwnedBy(input.SenderID) {
		return apperror.NewForbiddenError("upload session belongs to another user")
	}

	transitioned, err := c.sessionRepo.CancelIfInProgress(ctx, session.ID)
	if err != nil {
		return err
	}
	if !transitioned {
		return apperror.NewConflictError("upload session is already finalized")
	}

	if err := c.chunkStore.RemoveNamespace(ctx, session.ID.String()); err != nil {
		// チャンクの削除失敗はクリーンアップが拾う
		slog.Error("failed to remove chunk namespace", "upload_id", session.ID, "error", err)
	}

	slog.Info("upload cancelled", "upload_id", session.ID)
	return nil
}
