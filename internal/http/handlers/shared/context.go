package shared

import (
	"github.com/ram-us/internal/http/response"

	"github.com/gin-gonic/gin"
)

// ContextUint 读取中间件写入的 uint 值（admin_id、user_id），缺失或非法返回 0
func ContextUint(c *gin.Context, key string) uint {
	value, exists := c.Get(key)
	if !exists {
		return 0
	}
	id, ok := toUint(value)
	if !ok {
		return 0
	}
	return id
}

// GetContextUintWithKeys 读取鉴权中间件写入的 ID，失败时直接写出错误响应
func GetContextUintWithKeys(c *gin.Context, key, invalidKey, typeInvalidKey string) (uint, bool) {
	value, exists := c.Get(key)
	if !exists {
		RespondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
		return 0, false
	}
	id, ok := toUint(value)
	if !ok {
		switch value.(type) {
		case uint, int, int64, float64:
			RespondError(c, response.CodeBadRequest, invalidKey, nil)
		default:
			RespondError(c, response.CodeInternal, typeInvalidKey, nil)
		}
		return 0, false
	}
	return id, true
}

// toUint JWT claims 解析后可能是 uint、int 或 float64
func toUint(value interface{}) (uint, bool) {
	switch v := value.(type) {
	case uint:
		return v, v > 0
	case int:
		return uint(v), v > 0
	case int64:
		return uint(v), v > 0
	case float64:
		return uint(v), v > 0
	default:
		return 0, false
	}
}
