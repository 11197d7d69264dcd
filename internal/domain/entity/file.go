package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/Rishitj1972/Secure-Share/backend/internal/domain/valueobject"
)

// File は完成ファイルエンティティ
// チャンク組み立てが成功したときにAssemblerだけが作成する永続レコード。
// 作成後のライフサイクルはアップロードセッションから独立する。
type File struct {
	ID           uuid.UUID
	SenderID     uuid.UUID
	ReceiverID   uuid.UUID
	OriginalName valueobject.FileName
	StoredName   valueobject.StoredName // サーバー払い出しの保存名（元名は再利用しない）
	Size         int64
	MimeType     valueobject.MimeType
	Encryption   valueobject.EncryptionEnvelope
	FileHash     string // 組み立て時に解決されたSHA-256（未計算なら空）
	IsDownloaded bool
	DownloadedAt *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewFileFromSession は完了したアップロードセッションから完成ファイルを作成します
func NewFileFromSession(session *UploadSession, storedName valueobject.StoredName, fileHash string) *File {
	now := time.Now()
	return &File{
		ID:           uuid.New(),
		SenderID:     session.OwnerID,
		ReceiverID:   session.ReceiverID,
		OriginalName: session.FileName,
		StoredName:   storedName,
		Size:         session.FileSize,
		MimeType:     session.MimeType,
		Encryption:   session.Encryption,
		FileHash:     fileHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// ReconstructFile はDBから完成ファイルを復元します
func ReconstructFile(
	id uuid.UUID,
	senderID uuid.UUID,
	receiverID uuid.UUID,
	originalName valueobject.FileName,
	storedName valueobject.StoredName,
	size int64,
	mimeType valueobject.MimeType,
	encryption valueobject.EncryptionEnvelope,
	fileHash string,
	isDownloaded bool,
	downloadedAt *time.Time,
	createdAt time.Time,
	updatedAt time.Time,
) *File {
	return &File{
		ID:           id,
		SenderID:     senderID,
		ReceiverID:   receiverID,
		OriginalName: originalName,
		StoredName:   storedName,
		Size:         size,
		MimeType:     mimeType,
		Encryption:   encryption,
		FileHash:     fileHash,
		IsDownloaded: isDownloaded,
		DownloadedAt: downloadedAt,
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
	}
}

// MarkDownloaded はダウンロード済みフラグを立てます
func (f *File) MarkDownloaded() {
	now := time.Now()
	f.IsDownloaded = true
	f.DownloadedAt = &now
	f.UpdatedAt = now
}

// IsAccessibleBy は指定ユーザーが閲覧できるかどうかを判定します
// 送信者と受信者のみアクセス可能
func (f *File) IsAccessibleBy(userID uuid.UUID) bool {
	return f.SenderID == userID || f.ReceiverID == userID
}
