package public

import (
	"strings"

	"github.com/ram-us/internal/http/response"
	"github.com/ram-us/internal/repository"
	"github.com/ram-us/internal/storefront"

	"github.com/gin-gonic/gin"
)

// CreateOrderRequest 下单请求（Mini-App 结算页组装的草稿）
type CreateOrderRequest struct {
	Items        []storefront.OrderDraftItem `json:"items" binding:"required,min=1,dive"`
	ContactName  string                      `json:"contact_name" binding:"max=200"`
	Phone        string                      `json:"phone" binding:"required,ru_phone"`
	Comment      string                      `json:"comment" binding:"max=1000"`
	DeliveryMode string                      `json:"delivery_mode" binding:"required,oneof=courier pvz pickup"`
	CityCode     int                         `json:"city_code"`
	CityName     string                      `json:"city_name"`
	Address      string                      `json:"address" binding:"max=500"`
	TariffCode   int                         `json:"tariff_code"`
	PvzCode      string                      `json:"pvz_code"`
}

func (r CreateOrderRequest) toDraft() storefront.OrderDraft {
	return storefront.OrderDraft{
		Items:        r.Items,
		ContactName:  strings.TrimSpace(r.ContactName),
		Phone:        r.Phone,
		Comment:      strings.TrimSpace(r.Comment),
		DeliveryMode: r.DeliveryMode,
		CityCode:     r.CityCode,
		CityName:     strings.TrimSpace(r.CityName),
		Address:      strings.TrimSpace(r.Address),
		TariffCode:   r.TariffCode,
		PvzCode:      strings.TrimSpace(r.PvzCode),
	}
}

// CreateOrder 提交订单
func (h *Handler) CreateOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	order, err := h.OrderService.CreateOrder(c.Request.Context(), uid, req.toDraft())
	if err != nil {
		respondWithMappedError(c, err, orderErrorRules)
		return
	}
	response.Success(c, storefront.OrderReceipt{
		OrderNo:      order.OrderNo,
		Status:       order.Status,
		ItemsAmount:  order.ItemsAmount,
		DeliveryCost: order.DeliveryCost,
		TotalAmount:  order.TotalAmount,
	})
}

// ListOrders 我的订单
func (h *Handler) ListOrders(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	page, pageSize := queryPage(c)
	orders, total, err := h.OrderService.ListOrdersByUser(repository.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   uid,
		Status:   strings.TrimSpace(c.Query("status")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, orders, response.BuildPagination(page, pageSize, total))
}

// GetOrder 订单详情
func (h *Handler) GetOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	order, err := h.OrderService.GetOrderByUserOrderNo(strings.TrimSpace(c.Param("order_no")), uid)
	if err != nil {
		respondWithMappedError(c, err, orderErrorRules)
		return
	}
	response.Success(c, order)
}

// CancelOrder 取消待支付订单
func (h *Handler) CancelOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	order, err := h.OrderService.CancelOrder(c.Request.Context(), strings.TrimSpace(c.Param("order_no")), uid)
	if err != nil {
		respondWithMappedError(c, err, orderErrorRules)
		return
	}
	response.Success(c, order)
}

// PayOrder 发起订单支付，返回跳转链接
func (h *Handler) PayOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	redirect, err := h.PaymentService.PayOrder(c.Request.Context(), uid, strings.TrimSpace(c.Param("order_no")))
	if err != nil {
		respondWithMappedError(c, err, paymentErrorRules)
		return
	}
	response.Success(c, redirect)
}
