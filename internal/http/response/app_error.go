package response

import (
	"errors"

	"github.com/ram-us/internal/i18n"

	"github.com/gin-gonic/gin"
)

// AppError 业务码 + i18n key，Err 为可选的原始错误
type AppError struct {
	Code int
	Key  string
	Err  error
}

// NewAppError 创建业务错误
func NewAppError(code int, key string, err error) *AppError {
	return &AppError{Code: code, Key: key, Err: err}
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Key
	}
	return e.Key + ": " + e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Message 按语言翻译 Key
func (e *AppError) Message(locale string) string {
	return i18n.T(locale, e.Key)
}

// Abort 以请求语言输出错误信封
func (e *AppError) Abort(c *gin.Context) {
	Error(c, e.Code, e.Message(i18n.ResolveLocale(c)))
}

// AsAppError 从错误链中取出 AppError
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
