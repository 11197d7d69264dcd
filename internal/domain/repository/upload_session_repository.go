package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Rishitj1972/Secure-Share/backend/internal/domain/entity"
)

// UploadSessionRepository はアップロードセッションリポジトリのインターフェース
// ステータス遷移はすべてcompare-and-set形式で、in-progressからの遷移だけが成立する。
// 同一セッションに対する並行操作は「先に遷移した方が勝つ」ルールで調停される。
type UploadSessionRepository interface {
	// 基本CRUD
	Create(ctx context.Context, session *entity.UploadSession) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.UploadSession, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// AppendReceivedChunk は受領済みチャンク集合へ番号をアトミックに追加します
	// 追加後のソート済み集合を返します。既に存在する番号の追加は冪等です。
	AppendReceivedChunk(ctx context.Context, id uuid.UUID, chunkNumber int) ([]int, error)

	// CompleteIfInProgress はin-progressの場合のみ完了状態へ遷移させます
	// 遷移できたかどうかを返します（falseなら他の操作が先に終端状態へ遷移済み）
	CompleteIfInProgress(ctx context.Context, id uuid.UUID, fileHash string, completedAt time.Time) (bool, error)

	// FailIfInProgress はin-progressの場合のみ失敗状態へ遷移させて理由を記録します
	FailIfInProgress(ctx context.Context, id uuid.UUID, reason string) (bool, error)

	// CancelIfInProgress はin-progressの場合のみ取消状態へ遷移させます
	CancelIfInProgress(ctx context.Context, id uuid.UUID) (bool, error)

	// FindExpiredInProgress は保持期限を過ぎた進行中セッションを検索します（クリーンアップ用）
	FindExpiredInProgress(ctx context.Context, now time.Time) ([]*entity.UploadSession, error)
}

// FileRepository は完成ファイルリポジトリのインターフェース
type FileRepository interface {
	Create(ctx context.Context, file *entity.File) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.File, error)
	Update(ctx context.Context, file *entity.File) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// UserRepository はユーザーリポジトリのインターフェース
// ユーザー管理自体は外部の責務。ここでは受信者の実在確認に使う参照だけを定義する。
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
}
