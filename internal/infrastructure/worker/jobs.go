package worker

import (
	"context"
	"log/slog"
	"time"
)

// SweepFn はクリーンアップ処理を実行して掃除件数を返す関数です
type SweepFn func(ctx context.Context) (int, error)

// NewSweepJob はクリーンアップ系の定期ジョブを作成します
// fn の戻り値が0件の場合はログを出しません
func NewSweepJob(name string, interval time.Duration, fn SweepFn) Job {
	return Job{
		Name:     name,
		Interval: interval,
		Fn: func(ctx context.Context) error {
			count, err := fn(ctx)
			if err != nil {
				return err
			}
			if count > 0 {
				slog.Info("sweep completed", "job", name, "count", count)
			}
			return nil
		},
	}
}

// NewHealthCheckJob はヘルスチェックジョブを作成します（データベース接続確認など）
func NewHealthCheckJob(checkFn func(ctx context.Context) error) Job {
	return Job{
		Name:     "health_check",
		Interval: 5 * time.Minute,
		Fn: func(ctx context.Context) error {
			if err := checkFn(ctx); err != nil {
				slog.Warn("health check failed", "error", err)
				return err
			}
			return nil
		},
	}
}
