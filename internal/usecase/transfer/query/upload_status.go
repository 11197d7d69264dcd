package query

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Rishitj1972/Secure-Share/backend/internal/domain/entity"
	"github.com/Rishitj1972/Secure-Share/backend/internal/domain/repository"
	"github.com/Rishitj1972/Secure-Share/backend/pkg/apperror"
)

// UploadStatusInput はアップロード状況照会の入力を定義します
type UploadStatusInput struct {
	UploadID    uuid.UUID
	RequesterID uuid.UUID
}

// UploadStatusOutput はアップロード状況照会の出力を定義します
type UploadStatusOutput struct {
	UploadID       uuid.UUID
	Status         entity.UploadSessionStatus
	FileName       string
	FileSize       int64
	ChunkSize      int64
	TotalChunks    int
	ReceivedChunks []int
	ReceivedCount  int
	Progress       int
	FailureReason  string
	ExpiresAt      time.Time
}

// UploadStatusQuery はアップロード状況照会クエリです
type UploadStatusQuery struct {
	sessionRepo repository.UploadSessionRepository
}

// NewUploadStatusQuery は新しいUploadStatusQueryを作成します
func NewUploadStatusQuery(sessionRepo repository.UploadSessionRepository) *UploadStatusQuery {
	return &UploadStatusQuery{sessionRepo: sessionRepo}
}

// Execute はセッションの進捗と状態を返します。照会できるのは送信者本人だけです
func (q *UploadStatusQuery) Execute(ctx context.Context, input UploadStatusInput) (*UploadStatusOutput, error) {
	session, err := q.sessionRepo.FindByID(ctx, input.UploadID)
	if err != nil {
		return nil, err
	}

	if !session.IsOwnedBy(input.RequesterID) {
		return nil, apperror.NewForbiddenError("upload session belongs to another user")
	}

	return &UploadStatusOutput{
		UploadID:       session.ID,
		Status:         session.Status,
		FileName:       session.FileName.String(),
		FileSize:       session.FileSize,
		ChunkSize:      session.ChunkSize,
		TotalChunks:    session.TotalChunks,
		ReceivedChunks: session.ReceivedChunks,
		ReceivedCount:  session.ReceivedCount(),
		Progress:       session.Progress(),
		FailureReason:  session.FailureReason,
		ExpiresAt:      session.ExpiresAt,
	}, nil
}
