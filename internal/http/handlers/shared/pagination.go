package shared

import (
	"strconv"
	"strings"

	"github.com/ram-us/internal/constants"

	"github.com/gin-gonic/gin"
)

// NormalizePagination 页码至少为 1，page_size 缺省 20、上限 100
func NormalizePagination(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	switch {
	case pageSize <= 0:
		pageSize = constants.DefaultPageSize
	case pageSize > constants.MaxPageSize:
		pageSize = constants.MaxPageSize
	}
	return page, pageSize
}

// QueryPagination 读取 ?page=&page_size=，非法值按缺省处理
func QueryPagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(strings.TrimSpace(c.Query("page")))
	pageSize, _ := strconv.Atoi(strings.TrimSpace(c.Query("page_size")))
	return NormalizePagination(page, pageSize)
}
