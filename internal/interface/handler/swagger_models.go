package handler

import (
	"github.com/Rishitj1972/Secure-Share/backend/internal/interface/dto/response"
	"github.com/Rishitj1972/Secure-Share/backend/internal/interface/middleware"
	"github.com/Rishitj1972/Secure-Share/backend/internal/interface/presenter"
)

// swagger:model を使って presenter.Response の interface{} を具体型に置き換える

// SwaggerInitChunkedUploadResponse は InitChunkedUploadResponse のラッパー
type SwaggerInitChunkedUploadResponse struct {
	Data response.InitChunkedUploadResponse `json:"data"`
	Meta *presenter.Meta                    `json:"meta"`
}

// SwaggerUploadChunkResponse は UploadChunkResponse のラッパー
type SwaggerUploadChunkResponse struct {
	Data response.UploadChunkResponse `json:"data"`
	Meta *presenter.Meta              `json:"meta"`
}

// SwaggerCompleteChunkedUploadResponse は CompleteChunkedUploadResponse のラッパー
type SwaggerCompleteChunkedUploadResponse struct {
	Data response.CompleteChunkedUploadResponse `json:"data"`
	Meta *presenter.Meta                        `json:"meta"`
}

// SwaggerUploadStatusResponse は UploadStatusResponse のラッパー
type SwaggerUploadStatusResponse struct {
	Data response.UploadStatusResponse `json:"data"`
	Meta *presenter.Meta               `json:"meta"`
}

// SwaggerCleanupResponse は CleanupResponse のラッパー
type SwaggerCleanupResponse struct {
	Data response.CleanupResponse `json:"data"`
	Meta *presenter.Meta          `json:"meta"`
}

// SwaggerErrorResponse はエラーレスポンス
type SwaggerErrorResponse struct {
	Error middleware.ErrorBody `json:"error"`
	Meta  *presenter.Meta      `json:"meta"`
}
