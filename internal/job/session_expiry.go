package job

import (
	"context"
	"log/slog"
	"time"

	"github.com/Rishitj1972/Secure-Share/backend/internal/domain/repository"
	"github.com/Rishitj1972/Secure-Share/backend/internal/domain/service"
)

// SessionExpiryJob is a background job that fails upload sessions whose
// retention window has passed and reclaims their chunk storage.
type SessionExpiryJob struct {
	sessionRepo repository.UploadSessionRepository
	chunkStore  service.ChunkStore
}

// NewSessionExpiryJob creates a new SessionExpiryJob.
func NewSessionExpiryJob(
	sessionRepo repository.UploadSessionRepository,
	chunkStore service.ChunkStore,
) *SessionExpiryJob {
	return &SessionExpiryJob{
		sessionRepo: sessionRepo,
		chunkStore:  chunkStore,
	}
}

// Run marks expired in-progress sessions as failed and removes their chunks.
// Each session is handled independently so one failure does not stop the sweep.
func (j *SessionExpiryJob) Run(ctx context.Context) (int, error) {
	expired, err := j.sessionRepo.FindExpiredInProgress(ctx, time.Now())
	if err != nil {
		return 0, err
	}

	swept := 0
	for _, session := range expired {
		transitioned, err := j.sessionRepo.FailIfInProgress(ctx, session.ID, "Upload session expired")
		if err != nil {
			slog.Error("session expiry: fail transition failed", "upload_id", session.ID, "error", err)
			continue
		}
		if !transitioned {
			// Someone completed or cancelled it between the query and now.
			continue
		}

		if err := j.chunkStore.RemoveNamespace(ctx, session.ID.String()); err != nil {
			slog.Error("session expiry: chunk removal failed", "upload_id", session.ID, "error", err)
		}
		swept++
	}

	if swept > 0 {
		slog.Info("session expiry: expired sessions failed", "count", swept)
	}
	return swept, nil
}
