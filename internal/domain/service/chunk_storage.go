package service

import (
	"context"
	"io"
	"time"
)

// ChunkNamespace はセッション単位のチャンク保管域の情報を表します
type ChunkNamespace struct {
	UploadID   string
	ModifiedAt time.Time
}

// ChunkStore はセッション単位のチャンク保管域を提供するドメインサービスインターフェースです
// チャンクは単一ノードのローカルディスクに置かれ、組み立て時に同じノードから読み出される
type ChunkStore interface {
	// CreateNamespace はセッション用のチャンク保管域を作成します
	CreateNamespace(ctx context.Context, uploadID string) error

	// StoreChunk は一時ファイルをチャンク番号の位置へアトミックに移動します
	// コピーではなくrenameで配置するため、書きかけのチャンクが見えることはない
	StoreChunk(ctx context.Context, uploadID string, chunkNumber int, tempPath string) error

	// OpenChunk はチャンクをストリーミング読み出し用に開きます
	OpenChunk(ctx context.Context, uploadID string, chunkNumber int) (io.ReadCloser, error)

	// ChunkExists はチャンクが存在するかを確認します
	ChunkExists(ctx context.Context, uploadID string, chunkNumber int) (bool, error)

	// RemoveNamespace はセッションの保管域全体を再帰的に削除します
	RemoveNamespace(ctx context.Context, uploadID string) error

	// ListNamespaces は存在する保管域の一覧を最終更新時刻付きで返します（クリーンアップ用）
	ListNamespaces(ctx context.Context) ([]ChunkNamespace, error)

	// CreateScratch は組み立て先の一時ファイルを作成してパスと書き込み口を返します
	CreateScratch(ctx context.Context) (string, io.WriteCloser, error)

	// CreateIngest は受信チャンクのスプール用一時ファイルを作成します
	// StoreChunkに渡すか、失敗時に呼び出し側が削除する
	CreateIngest(ctx context.Context) (string, io.WriteCloser, error)
}

// StrayFile はアップロードディレクトリ直下に残された一時ファイルの情報を表します
type StrayFile struct {
	Name       string
	ModifiedAt time.Time
}

// StrayFileStore は取り込み層が残した一時ファイルの列挙と削除を提供します（クリーンアップ用）
type StrayFileStore interface {
	ListStrayFiles(ctx context.Context) ([]StrayFile, error)
	RemoveStrayFile(ctx context.Context, name string) error
}

// ArtifactStore は完成ファイルの保管域を提供するドメインサービスインターフェースです
// ローカルディスク実装とS3互換オブジェクトストレージ実装がある
type ArtifactStore interface {
	// Store は検証済みのローカルファイルを保存名で保管域へ昇格させます
	Store(ctx context.Context, storedName string, localPath string, contentType string) error

	// Remove は保管済みファイルを削除します
	Remove(ctx context.Context, storedName string) error
}
