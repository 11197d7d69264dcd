package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Rishitj1972/Secure-Share/backend/internal/domain/service"
	"github.com/Rishitj1972/Secure-Share/backend/pkg/apperror"
)

const chunksDirName = "chunks"

// LocalStore はローカルファイルシステム上にチャンクと完成ファイルを保管します。
// チャンクは <uploadDir>/chunks/<uploadId>/chunk_<n> に、完成ファイルは
// <uploadDir> 直下に格納されます。
type LocalStore struct {
	uploadDir string
	chunksDir string
}

// NewLocalStore は新しいLocalStoreを作成し、必要なディレクトリを用意します
func NewLocalStore(uploadDir string) (*LocalStore, error) {
	chunksDir := filepath.Join(uploadDir, chunksDirName)
	if err := os.MkdirAll(chunksDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directories: %w", err)
	}

	return &LocalStore{
		uploadDir: uploadDir,
		chunksDir: chunksDir,
	}, nil
}

func (s *LocalStore) namespacePath(uploadID string) string {
	return filepath.Join(s.chunksDir, uploadID)
}

func (s *LocalStore) chunkPath(uploadID string, chunkNumber int) string {
	return filepath.Join(s.namespacePath(uploadID), "chunk_"+strconv.Itoa(chunkNumber))
}

// CreateNamespace はアップロードID用のチャンク格納ディレクトリを作成します
func (s *LocalStore) CreateNamespace(ctx context.Context, uploadID string) error {
	if err := os.MkdirAll(s.namespacePath(uploadID), 0o755); err != nil {
		return apperror.NewStorageError("create chunk namespace", err)
	}
	return nil
}

// StoreChunk は一時ファイルをチャンクの最終位置へ原子的に移動します。
// 同一チャンク番号の既存ファイルは上書きされます（再送の冪等性）。
// 保管域はセッション開始時に作られたものだけを使い、ここで作り直すことは
// しない。取消で消された保管域が並行アップロードで復活してしまうため。
func (s *LocalStore) StoreChunk(ctx context.Context, uploadID string, chunkNumber int, tempPath string) error {
	if err := os.Rename(tempPath, s.chunkPath(uploadID, chunkNumber)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return apperror.NewConflictError("chunk namespace no longer exists")
		}
		return apperror.NewStorageError("store chunk", err)
	}
	return nil
}

// OpenChunk は保存済みチャンクを読み取り用に開きます
func (s *LocalStore) OpenChunk(ctx context.Context, uploadID string, chunkNumber int) (io.ReadCloser, error) {
	f, err := os.Open(s.chunkPath(uploadID, chunkNumber))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("chunk %d", chunkNumber))
		}
		return nil, apperror.NewStorageError("open chunk", err)
	}
	return f, nil
}

// ChunkExists はチャンクが保存済みかどうかを返します
func (s *LocalStore) ChunkExists(ctx context.Context, uploadID string, chunkNumber int) (bool, error) {
	_, err := os.Stat(s.chunkPath(uploadID, chunkNumber))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, apperror.NewStorageError("stat chunk", err)
	}
	return true, nil
}

// RemoveNamespace はアップロードIDのチャンクディレクトリを丸ごと削除します。
// 存在しない場合もエラーにはなりません。
func (s *LocalStore) RemoveNamespace(ctx context.Context, uploadID string) error {
	if err := os.RemoveAll(s.namespacePath(uploadID)); err != nil {
		return apperror.NewStorageError("remove chunk namespace", err)
	}
	return nil
}

// ListNamespaces は存在するチャンクディレクトリの一覧を最終更新時刻付きで返します
func (s *LocalStore) ListNamespaces(ctx context.Context) ([]service.ChunkNamespace, error) {
	entries, err := os.ReadDir(s.chunksDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, apperror.NewStorageError("list chunk namespaces", err)
	}

	namespaces := make([]service.ChunkNamespace, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		namespaces = append(namespaces, service.ChunkNamespace{
			UploadID:   entry.Name(),
			ModifiedAt: info.ModTime(),
		})
	}
	return namespaces, nil
}

// CreateScratch はアップロードディレクトリ内に組み立て用の一時ファイルを作成します。
// 呼び出し側は書き込み完了後にStoreへ渡すか、失敗時に削除する責任を持ちます。
func (s *LocalStore) CreateScratch(ctx context.Context) (string, io.WriteCloser, error) {
	f, err := os.CreateTemp(s.uploadDir, ".assembling-*")
	if err != nil {
		return "", nil, apperror.NewStorageError("create scratch file", err)
	}
	return f.Name(), f, nil
}

// Store は組み立て済みファイルを保存名で最終位置へ原子的に移動します
func (s *LocalStore) Store(ctx context.Context, storedName string, localPath string, contentType string) error {
	if err := os.Rename(localPath, filepath.Join(s.uploadDir, storedName)); err != nil {
		return apperror.NewStorageError("store artifact", err)
	}
	return nil
}

// Remove は保存済みファイルを削除します
func (s *LocalStore) Remove(ctx context.Context, storedName string) error {
	if err := os.Remove(filepath.Join(s.uploadDir, storedName)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return apperror.NewStorageError("remove artifact", err)
	}
	return nil
}

// ListStrayFiles はアップロードディレクトリ直下に残された一時ファイルを列挙します。
// chunksディレクトリと保存済みファイル以外（組み立て途中の残骸など）が対象です。
func (s *LocalStore) ListStrayFiles(ctx context.Context) ([]service.StrayFile, error) {
	entries, err := os.ReadDir(s.uploadDir)
	if err != nil {
		return nil, apperror.NewStorageError("list stray files", err)
	}

	var strays []service.StrayFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !strings.HasPrefix(entry.Name(), ".assembling-") && !strings.HasPrefix(entry.Name(), ".ingest-") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		strays = append(strays, service.StrayFile{
			Name:       entry.Name(),
			ModifiedAt: info.ModTime(),
		})
	}
	return strays, nil
}

// RemoveStrayFile は一時ファイルを削除します
func (s *LocalStore) RemoveStrayFile(ctx context.Context, name string) error {
	if err := os.Remove(filepath.Join(s.uploadDir, name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return apperror.NewStorageError("remove stray file", err)
	}
	return nil
}

// CreateIngest はチャンク受信時のスプール用一時ファイルを作成します
func (s *LocalStore) CreateIngest(ctx context.Context) (string, io.WriteCloser, error) {
	f, err := os.CreateTemp(s.uploadDir, ".ingest-*")
	if err != nil {
		return "", nil, apperror.NewStorageError("create ingest file", err)
	}
	return f.Name(), f, nil
}
