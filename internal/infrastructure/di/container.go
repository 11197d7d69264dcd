package di

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Rishitj1972/Secure-Share/backend/internal/domain/repository"
	"github.com/Rishitj1972/Secure-Share/backend/internal/domain/service"
	"github.com/Rishitj1972/Secure-Share/backend/internal/infrastructure/cache"
	"github.com/Rishitj1972/Secure-Share/backend/internal/infrastructure/database"
	infraRepo "github.com/Rishitj1972/Secure-Share/backend/internal/infrastructure/repository"
	"github.com/Rishitj1972/Secure-Share/backend/internal/infrastructure/storage"
	"github.com/Rishitj1972/Secure-Share/backend/internal/job"
	"github.com/Rishitj1972/Secure-Share/backend/pkg/config"
	"github.com/Rishitj1972/Secure-Share/backend/pkg/jwt"
)

// Container はアプリケーションの依存関係を保持するDIコンテナです
type Container struct {
	// Infrastructure
	PgClient    *database.PostgresClient
	RedisClient *cache.RedisClient
	MinIOClient *storage.MinIOClient
	TxManager   *database.TxManager

	// Services
	JWTService  *jwt.JWTService
	RateLimiter *cache.RateLimiter

	// Storage
	LocalStore    *storage.LocalStore
	ChunkStore    service.ChunkStore
	ArtifactStore service.ArtifactStore

	// Repositories
	SessionRepo repository.UploadSessionRepository
	FileRepo    repository.FileRepository
	UserRepo    repository.UserRepository

	// Transfer UseCases
	Transfer *TransferUseCases

	// Cleanup Jobs
	Jobs *CleanupJobs

	// config
	config *config.Config
}

// NewContainer は新しいContainerを作成します
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	c := &Container{
		config: cfg,
	}

	// PostgreSQL
	slog.Info("connecting to PostgreSQL...")
	pgClient, err := database.NewPostgresClient(ctx, cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	c.PgClient = pgClient
	c.TxManager = database.NewTxManager(pgClient.Pool())
	slog.Info("connected to PostgreSQL")

	// Redis
	slog.Info("connecting to Redis...")
	redisConfig := cache.DefaultConfig()
	redisConfig.URL = cfg.Redis.URL
	redisClient, err := cache.NewRedisClient(redisConfig)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	c.RedisClient = redisClient
	c.RateLimiter = cache.NewRateLimiter(redisClient.Client())
	slog.Info("connected to Redis")

	// JWT Service
	jwtConfig := jwt.Config{
		SecretKey:         cfg.JWT.SecretKey,
		Issuer:            cfg.JWT.Issuer,
		Audience:          cfg.JWT.Audience,
		AccessTokenExpiry: cfg.JWT.AccessTokenExpiry,
	}
	c.JWTService = jwt.NewJWTService(jwtConfig)

	// Chunk storage (always local disk)
	localStore, err := storage.NewLocalStore(cfg.Storage.UploadDir)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to initialize upload directory: %w", err)
	}
	c.LocalStore = localStore
	c.ChunkStore = localStore

	// Artifact storage (local disk or MinIO)
	if cfg.Storage.Backend == "minio" {
		slog.Info("connecting to MinIO...")
		minioClient, err := storage.NewMinIOClient(storage.MinIOConfig{
			Endpoint:        cfg.Storage.MinioEndpoint,
			AccessKeyID:     cfg.Storage.MinioAccessKey,
			SecretAccessKey: cfg.Storage.MinioSecretKey,
			BucketName:      cfg.Storage.MinioBucket,
			UseSSL:          cfg.Storage.MinioUseSSL,
		})
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("failed to connect to MinIO: %w", err)
		}
		if err := minioClient.EnsureBucket(ctx); err != nil {
			c.Close()
			return nil, fmt.Errorf("failed to ensure MinIO bucket: %w", err)
		}
		c.MinIOClient = minioClient
		c.ArtifactStore = storage.NewMinIOArtifactStore(minioClient)
		slog.Info("connected to MinIO")
	} else {
		c.ArtifactStore = localStore
	}

	// Repositories
	c.SessionRepo = infraRepo.NewUploadSessionRepository(c.TxManager)
	c.FileRepo = infraRepo.NewFileRepository(c.TxManager)
	c.UserRepo = infraRepo.NewUserRepository(c.TxManager)

	return c, nil
}

// InitTransferUseCases はTransfer UseCasesとクリーンアップジョブを初期化します
func (c *Container) InitTransferUseCases() {
	c.Jobs = &CleanupJobs{
		SessionExpiry:  job.NewSessionExpiryJob(c.SessionRepo, c.ChunkStore),
		ChunkSweep:     job.NewChunkSweepJob(c.SessionRepo, c.ChunkStore, c.config.Cleanup.ChunkMaxAge),
		StrayFileSweep: job.NewStrayFileSweepJob(c.LocalStore, c.config.Cleanup.StrayFileAge),
	}
	c.Transfer = NewTransferUseCases(c, c.Jobs)
}

// Close はリソースをクリーンアップします
func (c *Container) Close() error {
	var errs []error

	if c.PgClient != nil {
		c.PgClient.Close()
	}

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors during close: %v", errs)
	}
	return nil
}
