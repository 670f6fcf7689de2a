package admin

import (
	"strconv"
	"strings"

	handlershared "github.com/ram-us/internal/http/handlers/shared"
	"github.com/ram-us/internal/http/response"

	"github.com/gin-gonic/gin"
)

func getAdminID(c *gin.Context) (uint, bool) {
	return handlershared.GetContextUintWithKeys(c, "admin_id", "error.admin_id_invalid", "error.admin_id_type_invalid")
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(c.Param(name)), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return 0, false
	}
	return uint(id), true
}

func queryPage(c *gin.Context) (int, int) {
	return handlershared.QueryPagination(c)
}

func currentAdminID(c *gin.Context) uint {
	return handlershared.ContextUint(c, "admin_id")
}

func currentUsername(c *gin.Context) string {
	return contextString(c, "username")
}

func currentRequestID(c *gin.Context) string {
	return contextString(c, "request_id")
}

func contextString(c *gin.Context, key string) string {
	value, exists := c.Get(key)
	if !exists {
		return ""
	}
	if text, ok := value.(string); ok {
		return strings.TrimSpace(text)
	}
	return ""
}

func parseOptionalUint(raw string) (uint, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(value), nil
}
