package valueobject

import (
	"errors"
	"strings"
)

var (
	ErrInvalidMimeType = errors.New("invalid MIME type")
)

// MimeType はMIMEタイプを表す値オブジェクト
// 中身の検証は行わない（クライアント申告値をそのまま保持する）
type MimeType struct {
	value string
}

// NewMimeType は文字列からMimeTypeを生成します
func NewMimeType(mimeType string) (MimeType, error) {
	trimmed := strings.TrimSpace(mimeType)

	if trimmed == "" {
		return MimeType{}, ErrInvalidMimeType
	}

	// 基本的な形式チェック（type/subtype）
	parts := strings.Split(trimmed, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return MimeType{}, ErrInvalidMimeType
	}

	return MimeType{value: strings.ToLower(trimmed)}, nil
}

// ReconstructMimeType はDBからMimeTypeを復元します
func ReconstructMimeType(value string) MimeType {
	return MimeType{value: value}
}

// Value は値を返します
func (mt MimeType) Value() string {
	return mt.value
}

// String は文字列を返します（Stringerインターフェース）
func (mt MimeType) String() string {
	return mt.value
}

// IsEmpty は空かどうかを判定します
func (mt MimeType) IsEmpty() bool {
	return mt.value == ""
}
