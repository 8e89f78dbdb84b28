package public

import "github.com/mowen-next/internal/provider"

// Handler 公开接口处理器入口
// 说明：该处理器承载公开阅读面与认证入口。
type Handler struct {
	*provider.Container
}

// New 创建公开处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
