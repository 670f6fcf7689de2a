package public

import (
	"errors"
	"io"
	"net/http"

	"github.com/ram-us/internal/http/response"
	"github.com/ram-us/internal/service"

	"github.com/gin-gonic/gin"
)

// maxWebhookBodyBytes 回调请求体上限
const maxWebhookBodyBytes = 64 << 10

// YooKassaWebhook YooKassa 支付通知；状态以回查结果为准
func (h *Handler) YooKassaWebhook(c *gin.Context) {
	log := requestLog(c)
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBodyBytes))
	if err != nil {
		log.Warnw("yookassa_webhook_body_read_failed", "error", err)
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	log.Infow("yookassa_webhook_received",
		"client_ip", c.ClientIP(),
		"body_size", len(body),
	)
	if err := h.PaymentService.HandleWebhook(c.Request.Context(), body); err != nil {
		log.Warnw("yookassa_webhook_handle_failed", "error", err)
		if errors.Is(err, service.ErrPaymentFailed) {
			// 回查失败时返回非 2xx，由 YooKassa 重投
			c.AbortWithStatus(http.StatusServiceUnavailable)
			return
		}
		respondWithMappedError(c, err, paymentErrorRules)
		return
	}
	response.Success(c, nil)
}
