package cache

import (
	"context"
	"fmt"
	"time"
)

// 公开文章详情缓存
// 短 TTL 兜底，任何文章变更会主动失效对应 slug。
const publicPostCacheTTL = 60 * time.Second

func publicPostKey(slug string) string {
	return fmt.Sprintf("public:post:%s", slug)
}

// GetPublicPost 读取公开文章缓存
func GetPublicPost(ctx context.Context, slug string, dest interface{}) (bool, error) {
	if slug == "" {
		return false, nil
	}
	return GetJSON(ctx, publicPostKey(slug), dest)
}

// SetPublicPost 写入公开文章缓存
func SetPublicPost(ctx context.Context, slug string, value interface{}) error {
	if slug == "" {
		return nil
	}
	return SetJSON(ctx, publicPostKey(slug), value, publicPostCacheTTL)
}

// DelPublicPost 删除公开文章缓存
func DelPublicPost(ctx context.Context, slug string) error {
	if slug == "" {
		return nil
	}
	return Del(ctx, publicPostKey(slug))
}
