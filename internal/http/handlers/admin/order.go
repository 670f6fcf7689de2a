package admin

import (
	"strings"

	"github.com/ram-us/internal/http/response"
	"github.com/ram-us/internal/models"
	"github.com/ram-us/internal/repository"
	"github.com/ram-us/internal/service"

	"github.com/gin-gonic/gin"
)

// UpdateOrderStatusRequest 订单状态变更请求
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// GetAdminOrders 订单列表
func (h *Handler) GetAdminOrders(c *gin.Context) {
	page, pageSize := queryPage(c)
	userID, err := parseOptionalUint(c.Query("user_id"))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	createdFrom, err := parseTimeNullable(c.Query("created_from"))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	createdTo, err := parseTimeNullable(c.Query("created_to"))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	orders, total, err := h.OrderService.ListOrdersForAdmin(repository.OrderListFilter{
		Page:        page,
		PageSize:    pageSize,
		UserID:      userID,
		Status:      strings.TrimSpace(c.Query("status")),
		OrderNo:     strings.TrimSpace(c.Query("order_no")),
		Phone:       strings.TrimSpace(c.Query("phone")),
		CreatedFrom: createdFrom,
		CreatedTo:   createdTo,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, orders, response.BuildPagination(page, pageSize, total))
}

// GetAdminOrder 订单详情
func (h *Handler) GetAdminOrder(c *gin.Context) {
	orderNo := strings.TrimSpace(c.Param("order_no"))
	if orderNo == "" {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	order, err := h.OrderService.GetOrderForAdmin(orderNo)
	if err != nil {
		respondWithMappedError(c, err, orderErrorRules)
		return
	}
	response.Success(c, order)
}

// UpdateAdminOrderStatus 推进订单状态
func (h *Handler) UpdateAdminOrderStatus(c *gin.Context) {
	orderNo := strings.TrimSpace(c.Param("order_no"))
	if orderNo == "" {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	order, err := h.OrderService.UpdateOrderStatus(c.Request.Context(), orderNo, req.Status)
	if err != nil {
		respondWithMappedError(c, err, orderErrorRules)
		return
	}
	h.recordAudit(c, service.AdminAuditEntry{
		Action:   service.AuditActionOrderStatus,
		Resource: service.AuditResource("order", order.OrderNo),
		Detail:   models.JSON{"status": order.Status},
	})
	response.Success(c, order)
}

// GetAdminPayments 支付记录列表
func (h *Handler) GetAdminPayments(c *gin.Context) {
	page, pageSize := queryPage(c)
	orderID, err := parseOptionalUint(c.Query("order_id"))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	sellerID, err := parseOptionalUint(c.Query("seller_id"))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	payments, total, err := h.PaymentService.ListForAdmin(repository.PaymentListFilter{
		Page:     page,
		PageSize: pageSize,
		OrderID:  orderID,
		SellerID: sellerID,
		Purpose:  strings.TrimSpace(c.Query("purpose")),
		Status:   strings.TrimSpace(c.Query("status")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, payments, response.BuildPagination(page, pageSize, total))
}
