package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const successMsg = "success"

// Response 所有接口的信封；HTTP 状态恒为 200，结果看 status_code
type Response struct {
	StatusCode int         `json:"status_code"`
	Msg        string      `json:"msg"`
	Data       interface{} `json:"data"`
	Pagination *Pagination `json:"pagination,omitempty"` // 仅列表接口返回
}

// Pagination 列表分页信息
type Pagination struct {
	Page      int   `json:"page"`
	PageSize  int   `json:"page_size"`
	Total     int64 `json:"total"`
	TotalPage int64 `json:"total_page"`
}

// BuildPagination pageSize 非正时总页数为 0
func BuildPagination(page, pageSize int, total int64) Pagination {
	p := Pagination{Page: page, PageSize: pageSize, Total: total}
	if pageSize > 0 {
		p.TotalPage = (total + int64(pageSize) - 1) / int64(pageSize)
	}
	return p
}

func write(c *gin.Context, body Response) {
	c.JSON(http.StatusOK, body)
}

// Success 返回 data
func Success(c *gin.Context, data interface{}) {
	write(c, Response{StatusCode: CodeOK, Msg: successMsg, Data: data})
}

// SuccessWithPage 返回一页数据与分页信息
func SuccessWithPage(c *gin.Context, data interface{}, pagination Pagination) {
	write(c, Response{StatusCode: CodeOK, Msg: successMsg, Data: data, Pagination: &pagination})
}

// Error 输出业务错误；有 request_id 时放进 data
func Error(c *gin.Context, statusCode int, msg string) {
	body := Response{StatusCode: statusCode, Msg: msg}
	if id := c.GetString("request_id"); id != "" {
		body.Data = gin.H{"request_id": id}
	}
	write(c, body)
}

// Unauthorized 401
func Unauthorized(c *gin.Context, msg string) {
	Error(c, CodeUnauthorized, msg)
}

// Forbidden 403
func Forbidden(c *gin.Context, msg string) {
	Error(c, CodeForbidden, msg)
}
