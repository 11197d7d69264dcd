package command

import (
	"context"
	"log/slog"
)

// SweepFn はクリーンアップ処理を実行して掃除件数を返す関数です
type SweepFn func(ctx context.Context) (int, error)

// RunCleanupOutput はクリーンアップ実行の出力を定義します
type RunCleanupOutput struct {
	ExpiredSessions int
	OrphanedChunks  int
	StrayFiles      int
}

// RunCleanupCommand は全クリーンアップを即時実行するコマンドです
// 定期実行と同じ処理を運用エンドポイントから叩けるようにしたもの
type RunCleanupCommand struct {
	sweepExpiredSessions SweepFn
	sweepOrphanedChunks  SweepFn
	sweepStrayFiles      SweepFn
}

// NewRunCleanupCommand は新しいRunCleanupCommandを作成します
func NewRunCleanupCommand(
	sweepExpiredSessions SweepFn,
	sweepOrphanedChunks SweepFn,
	sweepStrayFiles SweepFn,
) *RunCleanupCommand {
	return &RunCleanupCommand{
		sweepExpiredSessions: sweepExpiredSessions,
		sweepOrphanedChunks:  sweepOrphanedChunks,
		sweepStrayFiles:      sweepStrayFiles,
	}
}

// Execute は期限切れセッション・孤立チャンク・迷子ファイルの掃除を順に実行します
// 一部が失敗しても残りは実行し、最初のエラーを返します
func (c *RunCleanupCommand) Execute(ctx context.Context) (*RunCleanupOutput, error) {
	output := &RunCleanupOutput{}
	var firstErr error

	run := func(name string, fn SweepFn, dst *int) {
		count, err := fn(ctx)
		if err != nil {
			slog.Error("cleanup sweep failed", "sweep", name, "error", err)
			if firstErr == nil {
				firstErr = err
			}
			return
		}
		*dst = count
	}

	run("expired_sessions", c.sweepExpiredSessions, &output.ExpiredSessions)
	run("orphaned_chunks", c.sweepOrphanedChunks, &output.OrphanedChunks)
	run("stray_files", c.sweepStrayFiles, &output.StrayFiles)

	if firstErr != nil {
		return output, firstErr
	}
	return output, nil
}
