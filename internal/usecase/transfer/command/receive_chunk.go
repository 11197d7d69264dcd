package command

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Rishitj1972/Secure-Share/backend/internal/domain/entity"
	"github.com/Rishitj1972/Secure-Share/backend/internal/domain/repository"
	"github.com/Rishitj1972/Secure-Share/backend/internal/domain/service"
	"github.com/Rishitj1972/Secure-Share/backend/pkg/apperror"
)

// ReceiveChunkInput はチャンク受領の入力を定義します
// TempPath はスプール済みのチャンクデータを指すローカルパスです
// TotalChunksClaim は送信側が申告した総チャンク数で、セッションとの整合確認にのみ使われます
type ReceiveChunkInput struct {
	UploadID         uuid.UUID
	SenderID         uuid.UUID
	ChunkNumber      int
	TotalChunksClaim int
	TempPath         string
	ChunkSize        int64
}

// ReceiveChunkOutput はチャンク受領の出力を定義します
type ReceiveChunkOutput struct {
	UploadID      uuid.UUID
	ChunkNumber   int
	ReceivedCount int
	TotalChunks   int
	Progress      int
	AllReceived   bool
}

// ReceiveChunkCommand はチャンク受領コマンドです
type ReceiveChunkCommand struct {
	sessionRepo repository.UploadSessionRepository
	chunkStore  service.ChunkStore
}

// NewReceiveChunkCommand は新しいReceiveChunkCommandを作成します
func NewReceiveChunkCommand(
	sessionRepo repository.UploadSessionRepository,
	chunkStore service.ChunkStore,
) *ReceiveChunkCommand {
	return &ReceiveChunkCommand{
		sessionRepo: sessionRepo,
		chunkStore:  chunkStore,
	}
}

// Execute はチャンクを検証して保管し、受領済み集合へ記録します
// 同じチャンクの再送は上書き保存され、受領済み集合への追加は冪等です
func (c *ReceiveChunkCommand) Execute(ctx context.Context, input ReceiveChunkInput) (*ReceiveChunkOutput, error) {
	// 1. セッション取得と状態チェック
	session, err := c.sessionRepo.FindByID(ctx, input.UploadID)
	if err != nil {
		return nil, err
	}

	if !session.IsOwnedBy(input.SenderID) {
		return nil, apperror.NewForbiddenError("upload session belongs to another user")
	}

	if !session.CanAcceptChunk() {
		return nil, apperror.NewConflictError("upload session is no longer accepting chunks")
	}

	if session.IsExpired() {
		// 期限切れはここで打ち切る。遷移の敗者はクリーンアップに任せる
		if _, err := c.sessionRepo.FailIfInProgress(ctx, session.ID, "Upload session expired"); err != nil {
			slog.Error("failed to expire upload session", "upload_id", session.ID, "error", err)
		}
		return nil, apperror.NewConflictError("upload session expired")
	}

	// 2. チャンク番号とサイズの検証
	if !session.ValidChunkNumber(input.ChunkNumber) {
		return nil, apperror.NewValidationError(entity.ErrInvalidChunkNumber.Error(), nil)
	}
	if input.TotalChunksClaim != session.TotalChunks {
		return nil, apperror.NewValidationError(fmt.Sprintf(
			"total chunks mismatch: session expects %d, got %d", session.TotalChunks, input.TotalChunksClaim,
		), nil)
	}
	if input.ChunkSize <= 0 || input.ChunkSize > session.ChunkSize {
		return nil, apperror.NewValidationError("chunk size out of range", nil)
	}

	// 3. チャンクを保管域へ移動（再送時は上書き）
	if err := c.chunkStore.StoreChunk(ctx, session.ID.String(), input.ChunkNumber, input.TempPath); err != nil {
		return nil, err
	}

	// 4. 受領済み集合へアトミックに追加
	received, err := c.sessionRepo.AppendReceivedChunk(ctx, session.ID, input.ChunkNumber)
	if err != nil {
		return nil, err
	}

	session.ReceivedChunks = received
	return &ReceiveChunkOutput{
		UploadID:      session.ID,
		ChunkNumber:   input.ChunkNumber,
		ReceivedCount: len(received),
		TotalChunks:   session.TotalChunks,
		Progress:      session.Progress(),
		AllReceived:   session.AllChunksReceived(),
	}, nil
}
