package public

import "github.com/ram-us/internal/provider"

// Handler Mini App 接口：公开目录、/me 买家接口、运费查询与 YooKassa 回调
type Handler struct {
	*provider.Container
}

// New 创建前台处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
