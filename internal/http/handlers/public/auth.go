package public

import (
	"time"

	"github.com/ram-us/internal/http/response"

	"github.com/gin-gonic/gin"
)

// TelegramLoginRequest Mini-App 登录请求
type TelegramLoginRequest struct {
	InitData string `json:"init_data" binding:"required"`
}

// TelegramLogin 校验 initData 并签发用户 Token
func (h *Handler) TelegramLogin(c *gin.Context) {
	var req TelegramLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, token, expiresAt, err := h.UserAuthService.LoginTelegram(req.InitData)
	if err != nil {
		respondWithMappedError(c, err, authErrorRules)
		return
	}
	requestLog(c).Infow("telegram_login_succeeded", "user_id", user.ID, "telegram_id", user.TelegramID)
	response.Success(c, gin.H{
		"token":      token,
		"expires_at": expiresAt.Format(time.RFC3339),
		"user":       user,
	})
}

// GetMe 当前用户资料
func (h *Handler) GetMe(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	user, err := h.UserAuthService.GetUser(uid)
	if err != nil {
		respondWithMappedError(c, err, authErrorRules)
		return
	}
	response.Success(c, user)
}
