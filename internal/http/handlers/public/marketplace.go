package public

import (
	"github.com/ram-us/internal/http/response"
	"github.com/ram-us/internal/service"

	"github.com/gin-gonic/gin"
)

// SellerApplyRequest 卖家入驻申请
type SellerApplyRequest struct {
	ShopName    string `json:"shop_name" binding:"required,max=200"`
	Phone       string `json:"phone" binding:"required,ru_phone"`
	City        string `json:"city" binding:"max=200"`
	Description string `json:"description" binding:"max=2000"`
}

// ListingRequest 二手商品提交请求
type ListingRequest struct {
	Title       string   `json:"title" binding:"required,max=300"`
	Description string   `json:"description"`
	PartNumber  string   `json:"part_number" binding:"max=100"`
	CarMake     string   `json:"car_make" binding:"max=100"`
	CarModel    string   `json:"car_model" binding:"max=100"`
	Condition   string   `json:"condition" binding:"omitempty,oneof=new used"`
	PriceRub    string   `json:"price_rub" binding:"required"`
	Images      []string `json:"images" binding:"max=10,dive,url"`
}

func (r ListingRequest) toInput() service.ListingInput {
	return service.ListingInput{
		Title:       r.Title,
		Description: r.Description,
		PartNumber:  r.PartNumber,
		CarMake:     r.CarMake,
		CarModel:    r.CarModel,
		Condition:   r.Condition,
		PriceRub:    r.PriceRub,
		Images:      r.Images,
	}
}

// PreorderRequest 配件预订请求
type PreorderRequest struct {
	PartName   string `json:"part_name" binding:"required,max=300"`
	PartNumber string `json:"part_number" binding:"max=100"`
	VIN        string `json:"vin" binding:"omitempty,len=17"`
	Phone      string `json:"phone" binding:"required,ru_phone"`
	Comment    string `json:"comment" binding:"max=2000"`
}

// ApplySeller 提交/重新提交卖家申请
func (h *Handler) ApplySeller(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req SellerApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	seller, err := h.SellerService.Apply(uid, service.SellerApplyInput{
		ShopName:    req.ShopName,
		Phone:       req.Phone,
		City:        req.City,
		Description: req.Description,
	})
	if err != nil {
		respondWithMappedError(c, err, marketplaceErrorRules)
		return
	}
	response.Success(c, seller)
}

// GetMySeller 我的卖家资料
func (h *Handler) GetMySeller(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	seller, err := h.SellerService.GetByUser(uid)
	if err != nil {
		respondWithMappedError(c, err, marketplaceErrorRules)
		return
	}
	response.Success(c, gin.H{
		"seller":           seller,
		"subscription_fee": h.SellerService.SubscriptionFee(),
	})
}

// PaySellerSubscription 支付卖家订阅
func (h *Handler) PaySellerSubscription(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	redirect, err := h.PaymentService.PaySellerSubscription(c.Request.Context(), uid)
	if err != nil {
		respondWithMappedError(c, err, paymentErrorRules)
		return
	}
	response.Success(c, redirect)
}

// CreateListing 发布二手商品（进入待审核）
func (h *Handler) CreateListing(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req ListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	listing, err := h.ListingService.Create(uid, req.toInput())
	if err != nil {
		respondWithMappedError(c, err, marketplaceErrorRules)
		return
	}
	response.Success(c, listing)
}

// ListMyListings 我发布的二手商品
func (h *Handler) ListMyListings(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	page, pageSize := queryPage(c)
	listings, total, err := h.ListingService.ListMine(uid, page, pageSize)
	if err != nil {
		respondWithMappedError(c, err, marketplaceErrorRules)
		return
	}
	response.SuccessWithPage(c, listings, response.BuildPagination(page, pageSize, total))
}

// UpdateListing 修改二手商品（重新进入待审核）
func (h *Handler) UpdateListing(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req ListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	listing, err := h.ListingService.Update(uid, id, req.toInput())
	if err != nil {
		respondWithMappedError(c, err, marketplaceErrorRules)
		return
	}
	response.Success(c, listing)
}

// DeleteListing 删除自己的二手商品
func (h *Handler) DeleteListing(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.ListingService.DeleteOwn(uid, id); err != nil {
		respondWithMappedError(c, err, marketplaceErrorRules)
		return
	}
	response.Success(c, nil)
}

// CreatePreorder 提交配件预订
func (h *Handler) CreatePreorder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req PreorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	preorder, err := h.PreorderService.Create(uid, service.PreorderInput{
		PartName:   req.PartName,
		PartNumber: req.PartNumber,
		VIN:        req.VIN,
		Phone:      req.Phone,
		Comment:    req.Comment,
	})
	if err != nil {
		respondWithMappedError(c, err, marketplaceErrorRules)
		return
	}
	response.Success(c, preorder)
}

// ListMyPreorders 我的预订
func (h *Handler) ListMyPreorders(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	page, pageSize := queryPage(c)
	preorders, total, err := h.PreorderService.ListMine(uid, page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, preorders, response.BuildPagination(page, pageSize, total))
}
