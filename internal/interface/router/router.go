package router

import (
	"github.com/labstack/echo/v4"

	"github.com/Rishitj1972/Secure-Share/backend/internal/infrastructure/di"
	"github.com/Rishitj1972/Secure-Share/backend/internal/interface/middleware"
	"github.com/Rishitj1972/Secure-Share/backend/internal/interface/presenter"
)

// Router はルート定義を管理します
type Router struct {
	echo        *echo.Echo
	handlers    *di.Handlers
	middlewares *di.Middlewares
}

// NewRouter は新しいRouterを作成します
func NewRouter(e *echo.Echo, handlers *di.Handlers, middlewares *di.Middlewares) *Router {
	return &Router{
		echo:        e,
		handlers:    handlers,
		middlewares: middlewares,
	}
}

// Setup は全てのルートを設定します
func (r *Router) Setup() {
	r.setupHealthRoutes()
	r.setupAPIRoutes()
}

// setupHealthRoutes はヘルスチェックルートを設定します
func (r *Router) setupHealthRoutes() {
	if r.handlers.Health == nil {
		return
	}
	r.echo.GET("/health", r.handlers.Health.Check)
	r.echo.GET("/ready", r.handlers.Health.Ready)
}

// setupAPIRoutes はAPIルートを設定します
func (r *Router) setupAPIRoutes() {
	api := r.echo.Group("/api")

	// Debug route
	api.GET("/", func(c echo.Context) error {
		return presenter.OK(c, map[string]string{
			"message": "Secure Share API",
		})
	})

	r.setupChunkedUploadRoutes(api)
}

// setupChunkedUploadRoutes はチャンクアップロード関連ルートを設定します
func (r *Router) setupChunkedUploadRoutes(api *echo.Group) {
	if r.handlers.Upload == nil {
		return
	}

	// Chunked upload routes (authenticated)
	chunkedGroup := api.Group("/files/chunked", r.middlewares.JWTAuth.Authenticate())

	chunkedGroup.POST("/init", r.handlers.Upload.InitUpload,
		r.middlewares.RateLimit.ByUser(middleware.RateLimitUploadInit))
	chunkedGroup.POST("/upload-chunk", r.handlers.Upload.UploadChunk,
		r.middlewares.RateLimit.ByUser(middleware.RateLimitUploadChunk))
	chunkedGroup.POST("/complete", r.handlers.Upload.CompleteUpload,
		r.middlewares.RateLimit.ByUser(middleware.RateLimitAPIDefault))
	chunkedGroup.GET("/status/:uploadId", r.handlers.Upload.GetStatus,
		r.middlewares.RateLimit.ByUser(middleware.RateLimitAPIDefault))
	chunkedGroup.DELETE("/:uploadId", r.handlers.Upload.CancelUpload,
		r.middlewares.RateLimit.ByUser(middleware.RateLimitAPIDefault))
	chunkedGroup.DELETE("/cleanup/all", r.handlers.Upload.CleanupAll,
		r.middlewares.RateLimit.ByUser(middleware.RateLimitAPIDefault))
}
