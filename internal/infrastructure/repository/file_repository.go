package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Rishitj1972/Secure-Share/backend/internal/domain/entity"
	"github.com/Rishitj1972/Secure-Share/backend/internal/domain/valueobject"
	"github.com/Rishitj1972/Secure-Share/backend/internal/infrastructure/database"
	"github.com/Rishitj1972/Secure-Share/backend/pkg/apperror"
)

const fileColumns = `id, sender_id, receiver_id, original_name, stored_name, file_size,
	mime_type, encrypted_aes_key, iv, expected_hash, file_hash,
	is_downloaded, downloaded_at, created_at, updated_at`

// FileRepository は完成ファイルリポジトリの実装です
type FileRepository struct {
	*database.BaseRepository
}

// NewFileRepository は新しいFileRepositoryを作成します
func NewFileRepository(txManager *database.TxManager) *FileRepository {
	return &FileRepository{
		BaseRepository: database.NewBaseRepository(txManager),
	}
}

// Create は完成ファイルレコードを作成します
func (r *FileRepository) Create(ctx context.Context, file *entity.File) error {
	querier := r.Querier(ctx)

	_, err := querier.Exec(ctx, `
		INSERT INTO files (`+fileColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		file.ID,
		file.SenderID,
		file.ReceiverID,
		file.OriginalName.String(),
		file.StoredName.String(),
		file.Size,
		file.MimeType.String(),
		file.Encryption.WrappedKey(),
		file.Encryption.IV(),
		file.Encryption.ExpectedHash(),
		file.FileHash,
		file.IsDownloaded,
		file.DownloadedAt,
		file.CreatedAt,
		file.UpdatedAt,
	)
	if err := r.HandleError(err); err != nil {
		if database.IsConflictError(err) {
			return apperror.NewConflictError("stored file name already exists")
		}
		return apperror.NewInternalError(err)
	}

	return nil
}

// FindByID はIDで完成ファイルを検索します
func (r *FileRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.File, error) {
	querier := r.Querier(ctx)

	row := querier.QueryRow(ctx, `
		SELECT `+fileColumns+`
		FROM files
		WHERE id = $1`, id)

	file, err := scanFile(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError("file")
		}
		return nil, apperror.NewInternalError(err)
	}

	return file, nil
}

// Update は完成ファイルを更新します（ダウンロード状態の記録用）
func (r *FileRepository) Update(ctx context.Context, file *entity.File) error {
	querier := r.Querier(ctx)

	_, err := querier.Exec(ctx, `
		UPDATE files
		SET is_downloaded = $2, downloaded_at = $3, updated_at = $4
		WHERE id = $1`,
		file.ID,
		file.IsDownloaded,
		file.DownloadedAt,
		file.UpdatedAt,
	)
	if err != nil {
		return apperror.NewInternalError(err)
	}
	return nil
}

// Delete は完成ファイルレコードを削除します
func (r *FileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	querier := r.Querier(ctx)

	_, err := querier.Exec(ctx, `DELETE FROM files WHERE id = $1`, id)
	if err != nil {
		return apperror.NewInternalError(err)
	}
	return nil
}

// scanFile は1行をエンティティへ復元します
func scanFile(row pgx.Row) (*entity.File, error) {
	var (
		id, senderID, receiverID     uuid.UUID
		originalName, storedName     string
		size                         int64
		mimeType                     string
		wrappedKey, iv, expectedHash string
		fileHash                     string
		isDownloaded                 bool
		downloadedAt                 *time.Time
		createdAt, updatedAt         time.Time
	)

	err := row.Scan(
		&id, &senderID, &receiverID, &originalName, &storedName, &size,
		&mimeType, &wrappedKey, &iv, &expectedHash, &fileHash,
		&isDownloaded, &downloadedAt, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	name, err := valueobject.NewFileName(originalName)
	if err != nil {
		return nil, err
	}
	stored, err := valueobject.NewStoredNameFromString(storedName)
	if err != nil {
		return nil, err
	}

	return entity.ReconstructFile(
		id, senderID, receiverID,
		name, stored, size,
		valueobject.ReconstructMimeType(mimeType),
		valueobject.ReconstructEncryptionEnvelope(wrappedKey, iv, expectedHash),
		fileHash, isDownloaded, downloadedAt,
		createdAt, updatedAt,
	), nil
}
