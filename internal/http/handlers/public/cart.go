package public

import (
	"github.com/ram-us/internal/http/response"
	"github.com/ram-us/internal/storefront"

	"github.com/gin-gonic/gin"
)

// CartItemRequest 加入购物车请求
type CartItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity"`
}

// CartQuantityRequest 修改数量请求
type CartQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// GetCart 获取购物车
func (h *Handler) GetCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	response.Success(c, h.CartService.Get(c.Request.Context(), uid))
}

// AddCartItem 加入购物车（已存在则累加数量）
func (h *Handler) AddCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	view, err := h.CartService.AddItem(c.Request.Context(), uid, req.ProductID, req.Quantity)
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules)
		return
	}
	response.Success(c, view)
}

// UpdateCartItem 修改数量，数量 <= 0 时移除
func (h *Handler) UpdateCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req CartQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	view, err := h.CartService.UpdateQuantity(c.Request.Context(), uid, productID, req.Quantity)
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules)
		return
	}
	response.Success(c, view)
}

// RemoveCartItem 移除购物车商品
func (h *Handler) RemoveCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	response.Success(c, h.CartService.RemoveItem(c.Request.Context(), uid, productID))
}

// ClearCart 清空购物车
func (h *Handler) ClearCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	h.CartService.Clear(c.Request.Context(), uid)
	response.Success(c, h.CartService.Get(c.Request.Context(), uid))
}

// GetGarage 当前车辆
func (h *Handler) GetGarage(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	response.Success(c, gin.H{"vehicle": h.GarageService.Get(c.Request.Context(), uid)})
}

// SetGarage 设置车辆
func (h *Handler) SetGarage(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req storefront.Vehicle
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	vehicle, err := h.GarageService.Set(c.Request.Context(), uid, req)
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules)
		return
	}
	response.Success(c, gin.H{"vehicle": vehicle})
}

// ClearGarage 清除车辆
func (h *Handler) ClearGarage(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	h.GarageService.Clear(c.Request.Context(), uid)
	response.Success(c, gin.H{"vehicle": nil})
}

// GetFavorites 收藏的商品 ID
func (h *Handler) GetFavorites(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	ids, err := h.FavoriteService.ListProductIDs(uid)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, gin.H{"product_ids": ids})
}

// ToggleFavorite 切换收藏
func (h *Handler) ToggleFavorite(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	productID, ok := parseIDParam(c, "product_id")
	if !ok {
		return
	}
	favorite, err := h.FavoriteService.Toggle(uid, productID)
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules)
		return
	}
	response.Success(c, gin.H{"product_id": productID, "favorite": favorite})
}
