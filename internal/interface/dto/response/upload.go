package response

import (
	"time"

	"github.com/Rishitj1972/Secure-Share/backend/internal/usecase/transfer/command"
	"github.com/Rishitj1972/Secure-Share/backend/internal/usecase/transfer/query"
)

// InitChunkedUploadResponse はチャンクアップロード開始レスポンスです
type InitChunkedUploadResponse struct {
	UploadID    string    `json:"uploadId"`
	ChunkSize   int64     `json:"chunkSize"`
	TotalChunks int       `json:"totalChunks"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// ToInitChunkedUploadResponse はInitUploadOutputをレスポンスへ変換します
func ToInitChunkedUploadResponse(output *command.InitUploadOutput) InitChunkedUploadResponse {
	return InitChunkedUploadResponse{
		UploadID:    output.UploadID.String(),
		ChunkSize:   output.ChunkSize,
		TotalChunks: output.TotalChunks,
		ExpiresAt:   output.ExpiresAt,
	}
}

// UploadChunkResponse はチャンク受領レスポンスです
type UploadChunkResponse struct {
	UploadID      string `json:"uploadId"`
	ChunkNumber   int    `json:"chunkNumber"`
	ReceivedCount int    `json:"receivedCount"`
	TotalChunks   int    `json:"totalChunks"`
	Progress      int    `json:"progress"`
	AllReceived   bool   `json:"allReceived"`
}

// ToUploadChunkResponse はReceiveChunkOutputをレスポンスへ変換します
func ToUploadChunkResponse(output *command.ReceiveChunkOutput) UploadChunkResponse {
	return UploadChunkResponse{
		UploadID:      output.UploadID.String(),
		ChunkNumber:   output.ChunkNumber,
		ReceivedCount: output.ReceivedCount,
		TotalChunks:   output.TotalChunks,
		Progress:      output.Progress,
		AllReceived:   output.AllReceived,
	}
}

// CompleteChunkedUploadResponse はアップロード完了レスポンスです
type CompleteChunkedUploadResponse struct {
	FileID      string    `json:"fileId"`
	StoredName  string    `json:"storedName"`
	FileSize    int64     `json:"fileSize"`
	FileHash    string    `json:"fileHash,omitempty"`
	CompletedAt time.Time `json:"completedAt"`
}

// ToCompleteChunkedUploadResponse はCompleteUploadOutputをレスポンスへ変換します
func ToCompleteChunkedUploadResponse(output *command.CompleteUploadOutput) CompleteChunkedUploadResponse {
	return CompleteChunkedUploadResponse{
		FileID:      output.FileID.String(),
		StoredName:  output.StoredName,
		FileSize:    output.FileSize,
		FileHash:    output.FileHash,
		CompletedAt: output.CompletedAt,
	}
}

// UploadStatusResponse はアップロード状況レスポンスです
type UploadStatusResponse struct {
	UploadID       string    `json:"uploadId"`
	Status         string    `json:"status"`
	FileName       string    `json:"fileName"`
	FileSize       int64     `json:"fileSize"`
	ChunkSize      int64     `json:"chunkSize"`
	TotalChunks    int       `json:"totalChunks"`
	ReceivedChunks []int     `json:"receivedChunks"`
	ReceivedCount  int       `json:"receivedCount"`
	Progress       int       `json:"progress"`
	FailureReason  string    `json:"failureReason,omitempty"`
	ExpiresAt      time.Time `json:"expiresAt"`
}

// ToUploadStatusResponse はUploadStatusOutputをレスポンスへ変換します
func ToUploadStatusResponse(output *query.UploadStatusOutput) UploadStatusResponse {
	return UploadStatusResponse{
		UploadID:       output.UploadID.String(),
		Status:         string(output.Status),
		FileName:       output.FileName,
		FileSize:       output.FileSize,
		ChunkSize:      output.ChunkSize,
		TotalChunks:    output.TotalChunks,
		ReceivedChunks: output.ReceivedChunks,
		ReceivedCount:  output.ReceivedCount,
		Progress:       output.Progress,
		FailureReason:  output.FailureReason,
		ExpiresAt:      output.ExpiresAt,
	}
}

// CleanupResponse はクリーンアップ実行レスポンスです
type CleanupResponse struct {
	ExpiredSessions int `json:"expiredSessions"`
	OrphanedChunks  int `json:"orphanedChunks"`
	StrayFiles      int `json:"strayFiles"`
}

// ToCleanupResponse はRunCleanupOutputをレスポンスへ変換します
func ToCleanupResponse(output *command.RunCleanupOutput) CleanupResponse {
	return CleanupResponse{
		ExpiredSessions: output.ExpiredSessions,
		OrphanedChunks:  output.OrphanedChunks,
		StrayFiles:      output.StrayFiles,
	}
}
