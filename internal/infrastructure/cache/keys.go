package cache

import "fmt"

// KeyPrefix はRedisキーのプレフィックスを定義します
type KeyPrefix string

const (
	// レート制限
	PrefixRateLimit KeyPrefix = "ratelimit" // ratelimit:{type}:{identifier}:{window}
)

// RateLimitKey はレート制限キーを生成します
func RateLimitKey(limitType, identifier string, windowStart int64) string {
	return fmt.Sprintf("%s:%s:%s:%d", PrefixRateLimit, limitType, identifier, windowStart)
}
