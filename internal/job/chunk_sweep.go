package job

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Rishitj1972/Secure-Share/backend/internal/domain/entity"
	"github.com/Rishitj1972/Secure-Share/backend/internal/domain/repository"
	"github.com/Rishitj1972/Secure-Share/backend/internal/domain/service"
	"github.com/Rishitj1972/Secure-Share/backend/pkg/apperror"
)

// ChunkSweepJob is a background job that removes chunk namespaces left behind
// by sessions that are gone, failed, or cancelled. Namespaces younger than
// MaxAge are skipped so large uploads in flight are never touched.
type ChunkSweepJob struct {
	sessionRepo repository.UploadSessionRepository
	chunkStore  service.ChunkStore
	maxAge      time.Duration
}

// NewChunkSweepJob creates a new ChunkSweepJob.
func NewChunkSweepJob(
	sessionRepo repository.UploadSessionRepository,
	chunkStore service.ChunkStore,
	maxAge time.Duration,
) *ChunkSweepJob {
	return &ChunkSweepJob{
		sessionRepo: sessionRepo,
		chunkStore:  chunkStore,
		maxAge:      maxAge,
	}
}

// Run removes orphaned chunk namespaces and returns how many were swept.
func (j *ChunkSweepJob) Run(ctx context.Context) (int, error) {
	namespaces, err := j.chunkStore.ListNamespaces(ctx)
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().Add(-j.maxAge)
	swept := 0
	for _, ns := range namespaces {
		if ns.ModifiedAt.After(cutoff) {
			continue
		}

		orphaned, err := j.isOrphaned(ctx, ns.UploadID)
		if err != nil {
			slog.Error("chunk sweep: session lookup failed", "upload_id", ns.UploadID, "error", err)
			continue
		}
		if !orphaned {
			continue
		}

		if err := j.chunkStore.RemoveNamespace(ctx, ns.UploadID); err != nil {
			slog.Error("chunk sweep: namespace removal failed", "upload_id", ns.UploadID, "error", err)
			continue
		}
		swept++
	}

	if swept > 0 {
		slog.Info("chunk sweep: orphaned namespaces removed", "count", swept)
	}
	return swept, nil
}

func (j *ChunkSweepJob) isOrphaned(ctx context.Context, uploadID string) (bool, error) {
	id, err := uuid.Parse(uploadID)
	if err != nil {
		// Not a directory we created. Leave it alone.
		return false, nil
	}

	session, err := j.sessionRepo.FindByID(ctx, id)
	if err != nil {
		if apperror.IsNotFound(err) {
			return true, nil
		}
		return false, err
	}

	// Completed sessions purge their namespace as part of completion,
	// so only abandoned failures and cancellations are reclaimed here.
	return session.Status == entity.UploadSessionStatusFailed ||
		session.Status == entity.UploadSessionStatusCancelled, nil
}
