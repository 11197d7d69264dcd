package storage

import (
	"context"
	"errors"
	"os"

	"github.com/minio/minio-go/v7"

	"github.com/Rishitj1972/Secure-Share/backend/pkg/apperror"
)

// MinIOArtifactStore は完成ファイルをS3互換オブジェクトストレージに保管します。
// チャンクの組み立てはローカルディスクで行い、検証済みのファイルだけを昇格させる。
type MinIOArtifactStore struct {
	client *MinIOClient
}

// NewMinIOArtifactStore は新しいMinIOArtifactStoreを作成します
func NewMinIOArtifactStore(client *MinIOClient) *MinIOArtifactStore {
	return &MinIOArtifactStore{client: client}
}

// Store はローカルの組み立て済みファイルをオブジェクトとしてアップロードします。
// アップロード成功後、ローカルの一時ファイルは削除されます。
func (s *MinIOArtifactStore) Store(ctx context.Context, storedName string, localPath string, contentType string) error {
	_, err := s.client.Client().FPutObject(ctx, s.client.BucketName(), storedName, localPath, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return apperror.NewStorageError("upload artifact", err)
	}

	// アップロード済みの元ファイルは不要。削除失敗は迷子ファイル掃除に任せる
	_ = os.Remove(localPath)
	return nil
}

// Remove はオブジェクトを削除します
func (s *MinIOArtifactStore) Remove(ctx context.Context, storedName string) error {
	err := s.client.Client().RemoveObject(ctx, s.client.BucketName(), storedName, minio.RemoveObjectOptions{})
	if err != nil {
		var resp minio.ErrorResponse
		if errors.As(err, &resp) && resp.Code == "NoSuchKey" {
			return nil
		}
		return apperror.NewStorageError("remove artifact", err)
	}
	return nil
}
