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

const uploadSessionColumns = `id, owner_id, receiver_id, file_name, mime_type, file_size,
	chunk_size, total_chunks, received_chunks, status,
	encrypted_aes_key, iv, expected_hash, file_hash, failure_reason,
	created_at, updated_at, completed_at, expires_at`

// UploadSessionRepository はアップロードセッションリポジトリの実装です
type UploadSessionRepository struct {
	*database.BaseRepository
}

// NewUploadSessionRepository は新しいUploadSessionRepositoryを作成します
func NewUploadSessionRepository(txManager *database.TxManager) *UploadSessionRepository {
	return &UploadSessionRepository{
		BaseRepository: database.NewBaseRepository(txManager),
	}
}

// Create はアップロードセッションを作成します
// ID衝突はユニーク制約違反としてConflictエラーになります
func (r *UploadSessionRepository) Create(ctx context.Context, session *entity.UploadSession) error {
	querier := r.Querier(ctx)

	_, err := querier.Exec(ctx, `
		INSERT INTO upload_sessions (`+uploadSessionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`,
		session.ID,
		session.OwnerID,
		session.ReceiverID,
		session.FileName.String(),
		session.MimeType.String(),
		session.FileSize,
		session.ChunkSize,
		int32(session.TotalChunks),
		toInt32Slice(session.ReceivedChunks),
		string(session.Status),
		session.Encryption.WrappedKey(),
		session.Encryption.IV(),
		session.Encryption.ExpectedHash(),
		session.FileHash,
		session.FailureReason,
		session.CreatedAt,
		session.UpdatedAt,
		session.CompletedAt,
		session.ExpiresAt,
	)
	if err := r.HandleError(err); err != nil {
		if database.IsConflictError(err) {
			return apperror.NewConflictError("upload session already exists")
		}
		return apperror.NewInternalError(err)
	}

	return nil
}

// FindByID はIDでアップロードセッションを検索します
func (r *UploadSessionRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.UploadSession, error) {
	querier := r.Querier(ctx)

	row := querier.QueryRow(ctx, `
		SELECT `+uploadSessionColumns+`
		FROM upload_sessions
		WHERE id = $1`, id)

	session, err := scanUploadSession(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError("upload session")
		}
		return nil, apperror.NewInternalError(err)
	}

	return session, nil
}

// Delete はアップロードセッションを削除します
func (r *UploadSessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	querier := r.Querier(ctx)

	_, err := querier.Exec(ctx, `DELETE FROM upload_sessions WHERE id = $1`, id)
	if err != nil {
		return apperror.NewInternalError(err)
	}
	return nil
}

// AppendReceivedChunk は受領済みチャンク集合へ番号をアトミックに追加します
// 集合和を単一のUPDATE文で行うため、同一セッションへの並行追加でも取りこぼさない
// statusを条件に含めることで、取消や完了と競合した追加は0行更新になり拒否される
func (r *UploadSessionRepository) AppendReceivedChunk(ctx context.Context, id uuid.UUID, chunkNumber int) ([]int, error) {
	querier := r.Querier(ctx)

	row := querier.QueryRow(ctx, `
		UPDATE upload_sessions
		SET received_chunks = (
			SELECT COALESCE(ARRAY_AGG(DISTINCT n ORDER BY n), '{}')
			FROM UNNEST(received_chunks || $2::int) AS n
		),
		updated_at = NOW()
		WHERE id = $1 AND status = $3
		RETURNING received_chunks`,
		id, int32(chunkNumber), string(entity.UploadSessionStatusInProgress))

	var received []int32
	if err := row.Scan(&received); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewConflictError("upload session is no longer accepting chunks")
		}
		return nil, apperror.NewInternalError(err)
	}

	return toIntSlice(received), nil
}

// CompleteIfInProgress はin-progressの場合のみ完了状態へ遷移させます
// statusカラムを条件に含めたUPDATEの行数で遷移の成否を判定する（先勝ちCAS）
func (r *UploadSessionRepository) CompleteIfInProgress(ctx context.Context, id uuid.UUID, fileHash string, completedAt time.Time) (bool, error) {
	querier := r.Querier(ctx)

	tag, err := querier.Exec(ctx, `
		UPDATE upload_sessions
		SET status = $2, file_hash = $3, completed_at = $4, updated_at = NOW()
		WHERE id = $1 AND status = $5`,
		id,
		string(entity.UploadSessionStatusCompleted),
		fileHash,
		completedAt,
		string(entity.UploadSessionStatusInProgress),
	)
	if err != nil {
		return false, apperror.NewInternalError(err)
	}

	return tag.RowsAffected() == 1, nil
}

// FailIfInProgress はin-progressの場合のみ失敗状態へ遷移させて理由を記録します
func (r *UploadSessionRepository) FailIfInProgress(ctx context.Context, id uuid.UUID, reason string) (bool, error) {
	querier := r.Querier(ctx)

	tag, err := querier.Exec(ctx, `
		UPDATE upload_sessions
		SET status = $2, failure_reason = $3, updated_at = NOW()
		WHERE id = $1 AND status = $4`,
		id,
		string(entity.UploadSessionStatusFailed),
		reason,
		string(entity.UploadSessionStatusInProgress),
	)
	if err != nil {
		return false, apperror.NewInternalError(err)
	}

	return tag.RowsAffected() == 1, nil
}

// CancelIfInProgress はin-progressの場合のみ取消状態へ遷移させます
func (r *UploadSessionRepository) CancelIfInProgress(ctx context.Context, id uuid.UUID) (bool, error) {
	querier := r.Querier(ctx)

	tag, err := querier.Exec(ctx, `
		UPDATE upload_sessions
		SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status = $3`,
		id,
		string(entity.UploadSessionStatusCancelled),
		string(entity.UploadSessionStatusInProgress),
	)
	if err != nil {
		return false, apperror.NewInternalError(err)
	}

	return tag.RowsAffected() == 1, nil
}

// FindExpiredInProgress は保持期限を過ぎた進行中セッションを検索します
func (r *UploadSessionRepository) FindExpiredInProgress(ctx context.Context, now time.Time) ([]*entity.UploadSession, error) {
	querier := r.Querier(ctx)

	rows, err := querier.Query(ctx, `
		SELECT `+uploadSessionColumns+`
		FROM upload_sessions
		WHERE status = $1 AND expires_at < $2
		ORDER BY expires_at`,
		string(entity.UploadSessionStatusInProgress), now)
	if err != nil {
		return nil, apperror.NewInternalError(err)
	}
	defer rows.Close()

	var sessions []*entity.UploadSession
	for rows.Next() {
		session, err := scanUploadSession(rows)
		if err != nil {
			return nil, apperror.NewInternalError(err)
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewInternalError(err)
	}

	return sessions, nil
}

// scanUploadSession は1行をエンティティへ復元します
func scanUploadSession(row pgx.Row) (*entity.UploadSession, error) {
	var (
		id, ownerID, receiverID               uuid.UUID
		fileName, mimeType                    string
		fileSize, chunkSize                   int64
		totalChunks                           int32
		receivedChunks                        []int32
		status                                string
		wrappedKey, iv, expectedHash          string
		fileHash, failureReason               string
		createdAt, updatedAt, expiresAt       time.Time
		completedAt                           *time.Time
	)

	err := row.Scan(
		&id, &ownerID, &receiverID, &fileName, &mimeType, &fileSize,
		&chunkSize, &totalChunks, &receivedChunks, &status,
		&wrappedKey, &iv, &expectedHash, &fileHash, &failureReason,
		&createdAt, &updatedAt, &completedAt, &expiresAt,
	)
	if err != nil {
		return nil, err
	}

	name, err := valueobject.NewFileName(fileName)
	if err != nil {
		return nil, err
	}

	return entity.ReconstructUploadSession(
		id, ownerID, receiverID,
		name,
		valueobject.ReconstructMimeType(mimeType),
		fileSize, chunkSize, int(totalChunks),
		toIntSlice(receivedChunks),
		entity.UploadSessionStatus(status),
		valueobject.ReconstructEncryptionEnvelope(wrappedKey, iv, expectedHash),
		fileHash, failureReason,
		createdAt, updatedAt, completedAt, expiresAt,
	), nil
}

func toInt32Slice(in []int) []int32 {
	out := make([]int32, len(in))
	for i, n := range in {
		out[i] = int32(n)
	}
	return out
}

func toIntSlice(in []int32) []int {
	out := make([]int, len(in))
	for i, n := range in {
		out[i] = int(n)
	}
	return out
}
