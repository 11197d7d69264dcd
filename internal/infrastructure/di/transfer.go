package di

import (
	"github.com/Rishitj1972/Secure-Share/backend/internal/job"
	transfercmd "github.com/Rishitj1972/Secure-Share/backend/internal/usecase/transfer/command"
	transferqry "github.com/Rishitj1972/Secure-Share/backend/internal/usecase/transfer/query"
)

// TransferUseCases はTransfer関連のUseCaseを保持します
type TransferUseCases struct {
	// Commands
	InitUpload     *transfercmd.InitUploadCommand
	ReceiveChunk   *transfercmd.ReceiveChunkCommand
	CompleteUpload *transfercmd.CompleteUploadCommand
	CancelUpload   *transfercmd.CancelUploadCommand
	RunCleanup     *transfercmd.RunCleanupCommand

	// Queries
	UploadStatus *transferqry.UploadStatusQuery
}

// CleanupJobs はクリーンアップジョブを保持します
// 定期実行とcleanupエンドポイントの両方から同じロジックを使います
type CleanupJobs struct {
	SessionExpiry  *job.SessionExpiryJob
	ChunkSweep     *job.ChunkSweepJob
	StrayFileSweep *job.StrayFileSweepJob
}

// NewTransferUseCases は新しいTransferUseCasesを作成します
func NewTransferUseCases(c *Container, jobs *CleanupJobs) *TransferUseCases {
	return &TransferUseCases{
		InitUpload:     transfercmd.NewInitUploadCommand(c.SessionRepo, c.UserRepo, c.ChunkStore),
		ReceiveChunk:   transfercmd.NewReceiveChunkCommand(c.SessionRepo, c.ChunkStore),
		CompleteUpload: transfercmd.NewCompleteUploadCommand(c.SessionRepo, c.FileRepo, c.ChunkStore, c.ArtifactStore, c.TxManager),
		CancelUpload:   transfercmd.NewCancelUploadCommand(c.SessionRepo, c.ChunkStore),
		RunCleanup: transfercmd.NewRunCleanupCommand(
			jobs.SessionExpiry.Run,
			jobs.ChunkSweep.Run,
			jobs.StrayFileSweep.Run,
		),
		UploadStatus: transferqry.NewUploadStatusQuery(c.SessionRepo),
	}
}
