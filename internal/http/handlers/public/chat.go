package public

import (
	"github.com/ram-us/internal/chat"
	"github.com/ram-us/internal/http/response"

	"github.com/gin-gonic/gin"
)

// ChatRequest 顾问提问请求；历史由客户端保存并回传
type ChatRequest struct {
	Question string         `json:"question" binding:"required"`
	History  []chat.Message `json:"history" binding:"max=50"`
}

// AskChat 向配件顾问提问
func (h *Handler) AskChat(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	answer, err := h.ChatService.Ask(c.Request.Context(), uid, req.History, req.Question)
	if err != nil {
		respondWithMappedError(c, err, chatErrorRules)
		return
	}
	response.Success(c, gin.H{"answer": answer})
}
