package entity

import (
	"time"

	"github.com/google/uuid"
)

// User はユーザーエンティティ
// 認証・登録はこのサービスの外側の責務。ここでは受信者の実在確認と
// 所有者照合に必要な最小限の属性だけを扱う。
type User struct {
	ID        uuid.UUID
	Username  string
	Email     string
	CreatedAt time.Time
}

// ReconstructUser はDBからユーザーを復元します
func ReconstructUser(id uuid.UUID, username, email string, createdAt time.Time) *User {
	return &User{
		ID:        id,
		Username:  username,
		Email:     email,
		CreatedAt: createdAt,
	}
}
