package valueobject

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrInvalidStoredName = errors.New("invalid stored name")
)

// StoredName はサーバーが払い出すディスク上の保存名を表す値オブジェクト
// 形式: {uuid}{元ファイルの拡張子}
// 元ファイル名をそのままディスクに書くことはない（衝突・パストラバーサル対策）
type StoredName struct {
	value string
}

// NewStoredName は元ファイル名から衝突耐性のある保存名を生成します
func NewStoredName(original FileName) StoredName {
	return StoredName{value: uuid.New().String() + original.Extension()}
}

// NewStoredNameFromString は文字列からStoredNameを復元します
func NewStoredNameFromString(name string) (StoredName, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return StoredName{}, ErrInvalidStoredName
	}
	if strings.ContainsAny(trimmed, "/\\") {
		return StoredName{}, ErrInvalidStoredName
	}
	return StoredName{value: trimmed}, nil
}

// Value は値を返します
func (sn StoredName) Value() string {
	return sn.value
}

// String は文字列を返します（Stringerインターフェース）
func (sn StoredName) String() string {
	return sn.value
}

// IsEmpty は空かどうかを判定します
func (sn StoredName) IsEmpty() bool {
	return sn.value == ""
}
