package entity

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Rishitj1972/Secure-Share/backend/internal/domain/valueobject"
)

// アップロードセッションステータス
// in-progress以外はすべて終端状態であり、一度遷移したら戻らない
type UploadSessionStatus string

const (
	UploadSessionStatusInProgress UploadSessionStatus = "in-progress"
	UploadSessionStatusCompleted  UploadSessionStatus = "completed"
	UploadSessionStatusFailed     UploadSessionStatus = "failed"
	UploadSessionStatusCancelled  UploadSessionStatus = "cancelled"
)

// チャンクアップロード関連定数
const (
	MaxTransferSize  = 4 * 1024 * 1024 * 1024 // 4GB
	MinChunkSize     = 5 * 1024 * 1024        // 5MB
	MediumChunkSize  = 25 * 1024 * 1024       // 25MB
	MaxChunkSize     = 50 * 1024 * 1024       // 50MB
	MediumSizeTier   = 50 * 1024 * 1024       // このサイズ以上で25MBチャンク
	LargeSizeTier    = 500 * 1024 * 1024      // このサイズ以上で50MBチャンク
	UploadSessionTTL = 7 * 24 * time.Hour
)

// アップロードセッション関連エラー
var (
	ErrUploadSessionTerminal = errors.New("upload session is in a terminal state")
	ErrFileSizeExceeded      = errors.New("file size exceeds maximum limit of 4GB")
	ErrInvalidChunkNumber    = errors.New("invalid chunk number")
	ErrSelfTransfer          = errors.New("cannot send file to yourself")
)

// UploadSession はチャンクアップロードセッションエンティティ
// 送信者（OwnerID）だけがセッションを操作できる。受信者は完成ファイルの宛先。
type UploadSession struct {
	ID             uuid.UUID // uploadId（主キー・不変）
	OwnerID        uuid.UUID // 送信者
	ReceiverID     uuid.UUID // 受信者
	FileName       valueobject.FileName
	MimeType       valueobject.MimeType
	FileSize       int64
	ChunkSize      int64 // 作成時に確定、以後不変
	TotalChunks    int   // ceil(FileSize / ChunkSize)、以後再計算しない
	ReceivedChunks []int // 受領済みチャンク番号（1始まり・重複なし）
	Status         UploadSessionStatus
	Encryption     valueobject.EncryptionEnvelope
	FileHash       string // 完了時に解決されたSHA-256（16進）
	FailureReason  string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	CompletedAt    *time.Time
	ExpiresAt      time.Time
}

// DetermineChunkSize は申告サイズとクライアント希望値から実効チャンクサイズを決定します
// サイズ帯で基準値を選び、希望値があれば [MinChunkSize, MaxChunkSize] に収めて優先します
func DetermineChunkSize(fileSize int64, preferred int64) int64 {
	chunkSize := int64(MinChunkSize)
	if fileSize >= LargeSizeTier {
		chunkSize = MaxChunkSize
	} else if fileSize >= MediumSizeTier {
		chunkSize = MediumChunkSize
	}

	if preferred > 0 {
		chunkSize = preferred
		if chunkSize < MinChunkSize {
			chunkSize = MinChunkSize
		}
		if chunkSize > MaxChunkSize {
			chunkSize = MaxChunkSize
		}
	}

	return chunkSize
}

// CalculateTotalChunks はチャンク総数を計算します（切り上げ除算）
func CalculateTotalChunks(fileSize, chunkSize int64) int {
	return int((fileSize + chunkSize - 1) / chunkSize)
}

// NewUploadSession は新しいアップロードセッションを作成します
func NewUploadSession(
	ownerID uuid.UUID,
	receiverID uuid.UUID,
	fileName valueobject.FileName,
	mimeType valueobject.MimeType,
	fileSize int64,
	chunkSize int64,
	encryption valueobject.EncryptionEnvelope,
) *UploadSession {
	now := time.Now()
	return &UploadSession{
		ID:             uuid.New(),
		OwnerID:        ownerID,
		ReceiverID:     receiverID,
		FileName:       fileName,
		MimeType:       mimeType,
		FileSize:       fileSize,
		ChunkSize:      chunkSize,
		TotalChunks:    CalculateTotalChunks(fileSize, chunkSize),
		ReceivedChunks: []int{},
		Status:         UploadSessionStatusInProgress,
		Encryption:     encryption,
		CreatedAt:      now,
		UpdatedAt:      now,
		ExpiresAt:      now.Add(UploadSessionTTL),
	}
}

// ReconstructUploadSession はDBからアップロードセッションを復元します
func ReconstructUploadSession(
	id uuid.UUID,
	ownerID uuid.UUID,
	receiverID uuid.UUID,
	fileName valueobject.FileName,
	mimeType valueobject.MimeType,
	fileSize int64,
	chunkSize int64,
	totalChunks int,
	receivedChunks []int,
	status UploadSessionStatus,
	encryption valueobject.EncryptionEnvelope,
	fileHash string,
	failureReason string,
	createdAt time.Time,
	updatedAt time.Time,
	completedAt *time.Time,
	expiresAt time.Time,
) *UploadSession {
	if receivedChunks == nil {
		receivedChunks = []int{}
	}
	return &UploadSession{
		ID:             id,
		OwnerID:        ownerID,
		ReceiverID:     receiverID,
		FileName:       fileName,
		MimeType:       mimeType,
		FileSize:       fileSize,
		ChunkSize:      chunkSize,
		TotalChunks:    totalChunks,
		ReceivedChunks: receivedChunks,
		Status:         status,
		Encryption:     encryption,
		FileHash:       fileHash,
		FailureReason:  failureReason,
		CreatedAt:      createdAt,
		UpdatedAt:      updatedAt,
		CompletedAt:    completedAt,
		ExpiresAt:      expiresAt,
	}
}

// IsTerminal は終端状態かどうかを判定します
func (us *UploadSession) IsTerminal() bool {
	return us.Status != UploadSessionStatusInProgress
}

// IsInProgress は進行中かどうかを判定します
func (us *UploadSession) IsInProgress() bool {
	return us.Status == UploadSessionStatusInProgress
}

// IsCompleted は完了済みかどうかを判定します
func (us *UploadSession) IsCompleted() bool {
	return us.Status == UploadSessionStatusCompleted
}

// CanAcceptChunk はチャンクを受け付けられるかどうかを判定します
func (us *UploadSession) CanAcceptChunk() bool {
	return us.Status == UploadSessionStatusInProgress
}

// ValidChunkNumber はチャンク番号が計画の範囲内かどうかを判定します
func (us *UploadSession) ValidChunkNumber(chunkNumber int) bool {
	return chunkNumber >= 1 && chunkNumber <= us.TotalChunks
}

// HasChunk は指定チャンクが受領済みかどうかを判定します
func (us *UploadSession) HasChunk(chunkNumber int) bool {
	for _, n := range us.ReceivedChunks {
		if n == chunkNumber {
			return true
		}
	}
	return false
}

// ReceivedCount は受領済みチャンク数を返します
func (us *UploadSession) ReceivedCount() int {
	return len(us.ReceivedChunks)
}

// AllChunksReceived は全チャンクが受領済みかどうかを判定します
func (us *UploadSession) AllChunksReceived() bool {
	return len(us.ReceivedChunks) >= us.TotalChunks
}

// Progress はアップロード進捗を返します（0-100、四捨五入）
func (us *UploadSession) Progress() int {
	if us.TotalChunks == 0 {
		return 0
	}
	return (len(us.ReceivedChunks)*100 + us.TotalChunks/2) / us.TotalChunks
}

// Complete はセッションを完了状態にします
// 解決済みハッシュ（計算値または申告値）と完了時刻を記録します
func (us *UploadSession) Complete(fileHash string) error {
	if us.IsTerminal() {
		return ErrUploadSessionTerminal
	}
	now := time.Now()
	us.Status = UploadSessionStatusCompleted
	us.FileHash = fileHash
	us.CompletedAt = &now
	us.UpdatedAt = now
	return nil
}

// Fail はセッションを失敗状態にして理由を記録します
func (us *UploadSession) Fail(reason string) error {
	if us.IsTerminal() {
		return ErrUploadSessionTerminal
	}
	us.Status = UploadSessionStatusFailed
	us.FailureReason = reason
	us.UpdatedAt = time.Now()
	return nil
}

// Cancel はセッションを取消状態にします
func (us *UploadSession) Cancel() error {
	if us.IsTerminal() {
		return ErrUploadSessionTerminal
	}
	us.Status = UploadSessionStatusCancelled
	us.UpdatedAt = time.Now()
	return nil
}

// IsExpired は保持期限を過ぎているかどうかを判定します
func (us *UploadSession) IsExpired() bool {
	return time.Now().After(us.ExpiresAt)
}

// IsOwnedBy は指定ユーザーが送信者かどうかを判定します
func (us *UploadSession) IsOwnedBy(userID uuid.UUID) bool {
	return us.OwnerID == userID
}
