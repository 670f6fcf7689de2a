package admin

import "github.com/ram-us/internal/provider"

// Handler /api/v1/admin 下的后台接口：目录、订单、二手市场审核、预订与权限
type Handler struct {
	*provider.Container
}

// New 创建后台处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
