package request

// InitChunkedUploadRequest はチャンクアップロード開始リクエストです
type InitChunkedUploadRequest struct {
	ReceiverID   string `json:"receiverId" validate:"required,uuid"`
	FileName     string `json:"fileName" validate:"required,filename"`
	MimeType     string `json:"mimeType" validate:"required,mimetype"`
	FileSize     int64  `json:"fileSize" validate:"required,gt=0"`
	ChunkSize    int64  `json:"chunkSize" validate:"omitempty,gt=0"`
	WrappedKey   string `json:"wrappedKey" validate:"omitempty"`
	IV           string `json:"iv" validate:"omitempty"`
	ExpectedHash string `json:"expectedHash" validate:"omitempty,len=64,hexadecimal"`
}

// UploadChunkForm はチャンク送信のmultipartフォームフィールドです
// チャンク本体は "chunk" パートで送られます。
// ChunkHashは受け取るだけで検証はしない。整合性の確認は完了時の
// 全体ハッシュに寄せている
type UploadChunkForm struct {
	UploadID    string `form:"uploadId" validate:"required,uuid"`
	ChunkNumber int    `form:"chunkNumber" validate:"required,min=1"`
	TotalChunks int    `form:"totalChunks" validate:"required,min=1"`
	ChunkHash   string `form:"chunkHash" validate:"omitempty"`
}

// CompleteChunkedUploadRequest はチャンクアップロード完了リクエストです
type CompleteChunkedUploadRequest struct {
	UploadID     string `json:"uploadId" validate:"required,uuid"`
	ExpectedHash string `json:"expectedHash" validate:"omitempty,len=64,hexadecimal"`
}
