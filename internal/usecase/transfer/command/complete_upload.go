package command

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/Rishitj1972/Secure-Share/backend/internal/domain/entity"
	"github.com/Rishitj1972/Secure-Share/backend/internal/domain/repository"
	"github.com/Rishitj1972/Secure-Share/backend/internal/domain/service"
	"github.com/Rishitj1972/Secure-Share/backend/internal/domain/valueobject"
	"github.com/Rishitj1972/Secure-Share/backend/pkg/apperror"
)

const (
	// 組み立て時のコピーバッファサイズ
	assembleBufferSize = 256 * 1024

	// このサイズ以下のファイルは期待値がなくてもハッシュを計算する
	// 巨大ファイルは期待値が与えられた場合のみ計算する
	hashComputeThreshold = 200 * 1024 * 1024
)

// CompleteUploadInput はアップロード完了の入力を定義します
// ExpectedHash を指定するとファイルサイズによらずハッシュを計算して照合します
type CompleteUploadInput struct {
	UploadID     uuid.UUID
	SenderID     uuid.UUID
	ExpectedHash string
}

// CompleteUploadOutput はアップロード完了の出力を定義します
type CompleteUploadOutput struct {
	FileID      uuid.UUID
	StoredName  string
	FileSize    int64
	FileHash    string
	CompletedAt time.Time
}

// CompleteUploadCommand はチャンクの組み立てとアップロード完了を行うコマンドです
type CompleteUploadCommand struct {
	sessionRepo   repository.UploadSessionRepository
	fileRepo      repository.FileRepository
	chunkStore    service.ChunkStore
	artifactStore service.ArtifactStore
	txManager     repository.TransactionManager
}

// NewCompleteUploadCommand は新しいCompleteUploadCommandを作成します
func NewCompleteUploadCommand(
	sessionRepo repository.UploadSessionRepository,
	fileRepo repository.FileRepository,
	chunkStore service.ChunkStore,
	artifactStore service.ArtifactStore,
	txManager repository.TransactionManager,
) *CompleteUploadCommand {
	return &CompleteUploadCommand{
		sessionRepo:   sessionRepo,
		fileRepo:      fileRepo,
		chunkStore:    chunkStore,
		artifactStore: artifactStore,
		txManager:     txManager,
	}
}

// Execute は全チャンクを番号順に連結して検証し、完成ファイルとして登録します
// 同一セッションへの並行完了は先勝ちで、負けた側はConflictを返します
func (c *CompleteUploadCommand) Execute(ctx context.Context, input CompleteUploadInput) (*CompleteUploadOutput, error) {
	// 1. セッション取得と状態チェック
	session, err := c.sessionRepo.FindByID(ctx, input.UploadID)
	if err != nil {
		return nil, err
	}

	if !session.IsOwnedBy(input.SenderID) {
		return nil, apperror.NewForbiddenError("upload session belongs to another user")
	}

	if session.IsTerminal() {
		return nil, apperror.NewConflictError("upload session is already finalized")
	}

	if session.IsExpired() {
		if _, err := c.sessionRepo.FailIfInProgress(ctx, session.ID, "Upload session expired"); err != nil {
			slog.Error("failed to expire upload session", "upload_id", session.ID, "error", err)
		}
		return nil, apperror.NewConflictError("upload session expired")
	}

	// 2. 受領済みチャンクの完全性チェック
	if !session.AllChunksReceived() {
		return nil, apperror.NewConflictError(fmt.Sprintf(
			"Missing chunks. Received %d/%d", session.ReceivedCount(), session.TotalChunks,
		))
	}

	// 完了時に指定された期待値が、セッション作成時のものより優先される
	expectedHash := input.ExpectedHash
	if expectedHash == "" {
		expectedHash = session.Encryption.ExpectedHash()
	}

	// 3. チャンクを番号順に連結
	scratchPath, fileHash, written, err := c.assemble(ctx, session, expectedHash)
	if err != nil {
		return nil, err
	}

	// 4. サイズとハッシュの検証
	if err := c.verify(ctx, session, scratchPath, fileHash, expectedHash, written); err != nil {
		return nil, err
	}

	// 5. 完成ファイルを保管域へ昇格
	storedName := valueobject.NewStoredName(session.FileName)
	if err := c.artifactStore.Store(ctx, storedName.String(), scratchPath, session.MimeType.String()); err != nil {
		os.Remove(scratchPath)
		c.failSession(ctx, session.ID, "Artifact promotion failed")
		return nil, err
	}

	// 6. セッション完了とファイル登録（先勝ちのcompare-and-set）
	file := entity.NewFileFromSession(session, storedName, fileHash)
	err = c.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		transitioned, err := c.sessionRepo.CompleteIfInProgress(ctx, session.ID, fileHash, file.CreatedAt)
		if err != nil {
			return err
		}
		if !transitioned {
			return apperror.NewConflictError("upload session is already finalized")
		}
		return c.fileRepo.Create(ctx, file)
	})
	if err != nil {
		// 負けた側の成果物は残さない
		if rerr := c.artifactStore.Remove(ctx, storedName.String()); rerr != nil {
			slog.Error("failed to remove losing artifact", "stored_name", storedName, "error", rerr)
		}
		// Conflictは先勝ちの敗者なのでセッションには触れない
		if !apperror.IsConflict(err) {
			c.failSession(ctx, session.ID, "File registration failed")
		}
		return nil, err
	}

	// 7. チャンクの後始末（失敗してもクリーンアップが拾う）
	if err := c.chunkStore.RemoveNamespace(ctx, session.ID.String()); err != nil {
		slog.Error("failed to remove chunk namespace", "upload_id", session.ID, "error", err)
	}

	slog.Info("upload completed",
		"upload_id", session.ID,
		"file_id", file.ID,
		"size", written,
	)

	return &CompleteUploadOutput{
		FileID:      file.ID,
		StoredName:  storedName.String(),
		FileSize:    written,
		FileHash:    fileHash,
		CompletedAt: file.CreatedAt,
	}, nil
}

// assemble はチャンクを番号順にscratchファイルへ連結します
// 戻り値のハッシュは計算対象外の場合は空文字列です
func (c *CompleteUploadCommand) assemble(ctx context.Context, session *entity.UploadSession, expectedHash string) (string, string, int64, error) {
	scratchPath, w, err := c.chunkStore.CreateScratch(ctx)
	if err != nil {
		return "", "", 0, err
	}

	var hasher hash.Hash
	var dst io.Writer = w
	if expectedHash != "" || session.FileSize <= hashComputeThreshold {
		hasher = sha256.New()
		dst = io.MultiWriter(w, hasher)
	}

	buf := make([]byte, assembleBufferSize)
	var written int64
	for i := 1; i <= session.TotalChunks; i++ {
		n, err := c.appendChunk(ctx, session.ID.String(), i, dst, buf)
		if err != nil {
			w.Close()
			os.Remove(scratchPath)
			// チャンク欠落はセッションを終端させない。再送すればやり直せる
			if apperror.IsNotFound(err) {
				return "", "", 0, err
			}
			c.failSession(ctx, session.ID, "Chunk assembly failed")
			return "", "", 0, err
		}
		written += n
	}

	if err := w.Close(); err != nil {
		os.Remove(scratchPath)
		c.failSession(ctx, session.ID, "Chunk assembly failed")
		return "", "", 0, apperror.NewStorageError("finalize assembled file", err)
	}

	fileHash := ""
	if hasher != nil {
		fileHash = hex.EncodeToString(hasher.Sum(nil))
	}
	return scratchPath, fileHash, written, nil
}

func (c *CompleteUploadCommand) appendChunk(ctx context.Context, uploadID string, chunkNumber int, dst io.Writer, buf []byte) (int64, error) {
	r, err := c.chunkStore.OpenChunk(ctx, uploadID, chunkNumber)
	if err != nil {
		return 0, err
	}
	defer r.Close()

	n, err := io.CopyBuffer(dst, r, buf)
	if err != nil {
		return n, apperror.NewStorageError("append chunk", err)
	}
	return n, nil
}

// verify は組み立て結果のサイズとハッシュを検証します
// 失敗時はscratchを破棄してセッションを失敗状態へ遷移させます
func (c *CompleteUploadCommand) verify(ctx context.Context, session *entity.UploadSession, scratchPath, fileHash, expectedHash string, written int64) error {
	if written != session.FileSize {
		os.Remove(scratchPath)
		reason := fmt.Sprintf("Assembled size mismatch: expected %d, got %d", session.FileSize, written)
		c.failSession(ctx, session.ID, reason)
		return apperror.NewIntegrityError(reason)
	}

	if expectedHash != "" && fileHash != expectedHash {
		os.Remove(scratchPath)
		c.failSession(ctx, session.ID, "File hash mismatch")
		return apperror.NewIntegrityError("file hash does not match expected value")
	}

	return nil
}

func (c *CompleteUploadCommand) failSession(ctx context.Context, id uuid.UUID, reason string) {
	if _, err := c.sessionRepo.FailIfInProgress(ctx, id, reason); err != nil {
		slog.Error("failed to mark upload session failed", "upload_id", id, "error", err)
	}
}
