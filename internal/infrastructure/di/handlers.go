package di

import (
	"github.com/Rishitj1972/Secure-Share/backend/internal/interface/handler"
)

// Handlers はアプリケーションのハンドラーを保持します
type Handlers struct {
	Health *handler.HealthHandler
	Upload *handler.UploadHandler
}

// NewHandlers はContainerから全てのハンドラーを初期化します
func NewHandlers(c *Container) *Handlers {
	// Health Handler
	healthHandler := handler.NewHealthHandler()
	if c.PgClient != nil {
		healthHandler.RegisterChecker("postgres", c.PgClient)
	}
	if c.RedisClient != nil {
		healthHandler.RegisterChecker("redis", c.RedisClient)
	}
	if c.MinIOClient != nil {
		healthHandler.RegisterChecker("minio", c.MinIOClient)
	}

	// Upload Handler
	uploadHandler := handler.NewUploadHandler(
		c.Transfer.InitUpload,
		c.Transfer.ReceiveChunk,
		c.Transfer.CompleteUpload,
		c.Transfer.CancelUpload,
		c.Transfer.RunCleanup,
		c.Transfer.UploadStatus,
		c.ChunkStore,
	)

	return &Handlers{
		Health: healthHandler,
		Upload: uploadHandler,
	}
}

// NewHandlersForTest はテスト用にハンドラーを初期化します（HealthHandlerなし）
func NewHandlersForTest(c *Container) *Handlers {
	uploadHandler := handler.NewUploadHandler(
		c.Transfer.InitUpload,
		c.Transfer.ReceiveChunk,
		c.Transfer.CompleteUpload,
		c.Transfer.CancelUpload,
		c.Transfer.RunCleanup,
		c.Transfer.UploadStatus,
		c.ChunkStore,
	)

	return &Handlers{
		Health: nil, // テストではHealthHandlerは不要
		Upload: uploadHandler,
	}
}
