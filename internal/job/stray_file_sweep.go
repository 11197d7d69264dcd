package job

import (
	"context"
	"log/slog"
	"time"

	"github.com/Rishitj1972/Secure-Share/backend/internal/domain/service"
)

// StrayFileSweepJob is a background job that removes spool and assembly temp
// files abandoned by crashed or interrupted requests. Files younger than
// maxAge are skipped because they may still be written to.
type StrayFileSweepJob struct {
	strayStore service.StrayFileStore
	maxAge     time.Duration
}

// NewStrayFileSweepJob creates a new StrayFileSweepJob.
func NewStrayFileSweepJob(strayStore service.StrayFileStore, maxAge time.Duration) *StrayFileSweepJob {
	return &StrayFileSweepJob{
		strayStore: strayStore,
		maxAge:     maxAge,
	}
}

// Run removes stale temp files and returns how many were swept.
func (j *StrayFileSweepJob) Run(ctx context.Context) (int, error) {
	strays, err := j.strayStore.ListStrayFiles(ctx)
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().Add(-j.maxAge)
	swept := 0
	for _, stray := range strays {
		if stray.ModifiedAt.After(cutoff) {
			continue
		}
		if err := j.strayStore.RemoveStrayFile(ctx, stray.Name); err != nil {
			slog.Error("stray file sweep: removal failed", "name", stray.Name, "error", err)
			continue
		}
		swept++
	}

	if swept > 0 {
		slog.Info("stray file sweep: temp files removed", "count", swept)
	}
	return swept, nil
}
