package valueobject

import (
	"errors"
	"strings"
)

var (
	ErrIncompleteEncryptionMetadata = errors.New("encrypted upload requires wrapped key, IV, and file hash together")
)

// EncryptionEnvelope はクライアント側暗号化のメタデータを表す値オブジェクト
// サーバーは一切復号しない。ラップ済みAES鍵・IV・平文全体のSHA-256を
// 不透明な文字列として保持し、完成ファイルへそのまま引き継ぐだけ。
// 3点すべてが揃っているか、すべて無いかのどちらかしか許さない。
type EncryptionEnvelope struct {
	wrappedKey   string
	iv           string
	expectedHash string
}

// NewEncryptionEnvelope は暗号化メタデータを生成します
// いずれか一つでも欠けている場合はエラーを返します
func NewEncryptionEnvelope(wrappedKey, iv, expectedHash string) (EncryptionEnvelope, error) {
	wrappedKey = strings.TrimSpace(wrappedKey)
	iv = strings.TrimSpace(iv)
	expectedHash = strings.TrimSpace(expectedHash)

	if wrappedKey == "" || iv == "" || expectedHash == "" {
		return EncryptionEnvelope{}, ErrIncompleteEncryptionMetadata
	}

	return EncryptionEnvelope{
		wrappedKey:   wrappedKey,
		iv:           iv,
		expectedHash: expectedHash,
	}, nil
}

// ReconstructEncryptionEnvelope はDBから暗号化メタデータを復元します
// 部分的なデータは空のエンベロープとして扱います
func ReconstructEncryptionEnvelope(wrappedKey, iv, expectedHash string) EncryptionEnvelope {
	if wrappedKey == "" || iv == "" || expectedHash == "" {
		return EncryptionEnvelope{}
	}
	return EncryptionEnvelope{
		wrappedKey:   wrappedKey,
		iv:           iv,
		expectedHash: expectedHash,
	}
}

// WrappedKey はラップ済みAES鍵を返します
func (e EncryptionEnvelope) WrappedKey() string {
	return e.wrappedKey
}

// IV は初期化ベクトルを返します
func (e EncryptionEnvelope) IV() string {
	return e.iv
}

// ExpectedHash は期待される全体ハッシュを返します
func (e EncryptionEnvelope) ExpectedHash() string {
	return e.expectedHash
}

// IsZero は暗号化メタデータが無いかどうかを判定します
func (e EncryptionEnvelope) IsZero() bool {
	return e.wrappedKey == "" && e.iv == "" && e.expectedHash == ""
}
