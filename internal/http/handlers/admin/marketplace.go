package admin

import (
	"strings"

	"github.com/ram-us/internal/http/response"
	"github.com/ram-us/internal/models"
	"github.com/ram-us/internal/repository"
	"github.com/ram-us/internal/service"

	"github.com/gin-gonic/gin"
)

// StatusRequest 审核/状态变更请求
type StatusRequest struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason"`
}

// GetAdminSellers 卖家列表
func (h *Handler) GetAdminSellers(c *gin.Context) {
	page, pageSize := queryPage(c)
	sellers, total, err := h.SellerService.ListForAdmin(repository.SellerListFilter{
		Page:     page,
		PageSize: pageSize,
		Status:   strings.TrimSpace(c.Query("status")),
		Keyword:  strings.TrimSpace(c.Query("keyword")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, sellers, response.BuildPagination(page, pageSize, total))
}

// GetAdminSeller 卖家详情
func (h *Handler) GetAdminSeller(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	seller, err := h.SellerService.Get(id)
	if err != nil {
		respondWithMappedError(c, err, sellerErrorRules)
		return
	}
	response.Success(c, seller)
}

// UpdateSellerStatus 审核卖家（通过/驳回/封禁）
func (h *Handler) UpdateSellerStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	seller, err := h.SellerService.UpdateStatus(id, req.Status, req.Reason)
	if err != nil {
		respondWithMappedError(c, err, sellerErrorRules)
		return
	}
	h.recordAudit(c, service.AdminAuditEntry{
		Action:   service.AuditActionSellerReview,
		Resource: service.AuditResource("seller", seller.ID),
		Detail:   models.JSON{"status": seller.Status, "reason": req.Reason},
	})
	response.Success(c, seller)
}

// GetAdminListings 二手商品列表
func (h *Handler) GetAdminListings(c *gin.Context) {
	page, pageSize := queryPage(c)
	sellerID, err := parseOptionalUint(c.Query("seller_id"))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	listings, total, err := h.ListingService.ListForAdmin(repository.ListingListFilter{
		Page:     page,
		PageSize: pageSize,
		SellerID: sellerID,
		Status:   strings.TrimSpace(c.Query("status")),
		Keyword:  strings.TrimSpace(c.Query("keyword")),
		CarMake:  strings.TrimSpace(c.Query("car_make")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, listings, response.BuildPagination(page, pageSize, total))
}

// UpdateListingStatus 审核二手商品
func (h *Handler) UpdateListingStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	listing, err := h.ListingService.UpdateStatus(id, req.Status, req.Reason)
	if err != nil {
		respondWithMappedError(c, err, listingErrorRules)
		return
	}
	h.recordAudit(c, service.AdminAuditEntry{
		Action:   service.AuditActionListingReview,
		Resource: service.AuditResource("listing", listing.ID),
		Detail:   models.JSON{"status": listing.Status, "reason": req.Reason},
	})
	response.Success(c, listing)
}

// DeleteListing 删除二手商品
func (h *Handler) DeleteListing(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.ListingService.Delete(id); err != nil {
		respondWithMappedError(c, err, listingErrorRules)
		return
	}
	h.recordAudit(c, service.AdminAuditEntry{
		Action:   service.AuditActionListingReview,
		Resource: service.AuditResource("listing", id),
		Detail:   models.JSON{"deleted": true},
	})
	response.Success(c, nil)
}

// GetAdminPreorders 预订请求列表
func (h *Handler) GetAdminPreorders(c *gin.Context) {
	page, pageSize := queryPage(c)
	preorders, total, err := h.PreorderService.ListForAdmin(repository.PreorderListFilter{
		Page:     page,
		PageSize: pageSize,
		Status:   strings.TrimSpace(c.Query("status")),
		Keyword:  strings.TrimSpace(c.Query("keyword")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, preorders, response.BuildPagination(page, pageSize, total))
}

// UpdatePreorderStatus 处理预订请求
func (h *Handler) UpdatePreorderStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	preorder, err := h.PreorderService.UpdateStatus(id, req.Status, req.Reason)
	if err != nil {
		respondWithMappedError(c, err, preorderErrorRules)
		return
	}
	h.recordAudit(c, service.AdminAuditEntry{
		Action:   service.AuditActionPreorderStatus,
		Resource: service.AuditResource("preorder", preorder.ID),
		Detail:   models.JSON{"status": preorder.Status, "reason": req.Reason},
	})
	response.Success(c, preorder)
}

// UserStatusRequest 用户状态变更请求
type UserStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=active disabled"`
}

// GetAdminUsers 买家列表
func (h *Handler) GetAdminUsers(c *gin.Context) {
	page, pageSize := queryPage(c)
	users, total, err := h.UserAuthService.ListUsers(repository.UserListFilter{
		Page:     page,
		PageSize: pageSize,
		Keyword:  strings.TrimSpace(c.Query("keyword")),
		Status:   strings.TrimSpace(c.Query("status")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, users, response.BuildPagination(page, pageSize, total))
}

// UpdateUserStatus 启用/禁用买家
func (h *Handler) UpdateUserStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req UserStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if err := h.UserAuthService.SetUserStatus(id, req.Status); err != nil {
		respondWithMappedError(c, err, userErrorRules)
		return
	}
	requestLog(c).Infow("admin_user_status_updated", "user_id", id, "status", req.Status, "admin_id", currentAdminID(c))
	h.recordAudit(c, service.AdminAuditEntry{
		Action:   service.AuditActionUserStatus,
		Resource: service.AuditResource("user", id),
		Detail:   models.JSON{"status": req.Status},
	})
	response.Success(c, nil)
}
