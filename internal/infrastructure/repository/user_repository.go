package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Rishitj1972/Secure-Share/backend/internal/domain/entity"
	"github.com/Rishitj1972/Secure-Share/backend/internal/infrastructure/database"
	"github.com/Rishitj1972/Secure-Share/backend/pkg/apperror"
)

// UserRepository はユーザーリポジトリの実装です
// ユーザーの作成・認証は別サービスの責務。このリポジトリは参照専用。
type UserRepository struct {
	*database.BaseRepository
}

// NewUserRepository は新しいUserRepositoryを作成します
func NewUserRepository(txManager *database.TxManager) *UserRepository {
	return &UserRepository{
		BaseRepository: database.NewBaseRepository(txManager),
	}
}

// FindByID はIDでユーザーを検索します
func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	querier := r.Querier(ctx)

	row := querier.QueryRow(ctx, `
		SELECT id, username, email, created_at
		FROM users
		WHERE id = $1`, id)

	var (
		userID    uuid.UUID
		username  string
		email     string
		createdAt time.Time
	)
	if err := row.Scan(&userID, &username, &email, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError("receiver user")
		}
		return nil, apperror.NewInternalError(err)
	}

	return entity.ReconstructUser(userID, username, email, createdAt), nil
}
