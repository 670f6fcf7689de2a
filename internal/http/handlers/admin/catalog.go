package admin

import (
	"strconv"
	"strings"

	"github.com/ram-us/internal/http/response"
	"github.com/ram-us/internal/models"
	"github.com/ram-us/internal/service"

	"github.com/gin-gonic/gin"
)

// CategoryRequest 分类创建/更新请求
type CategoryRequest struct {
	ParentID  *uint  `json:"parent_id"`
	Slug      string `json:"slug" binding:"required"`
	Name      string `json:"name" binding:"required"`
	Icon      string `json:"icon"`
	SortOrder int    `json:"sort_order"`
	IsActive  *bool  `json:"is_active"`
}

func (r CategoryRequest) toInput() service.CategoryInput {
	return service.CategoryInput{
		ParentID:  r.ParentID,
		Slug:      r.Slug,
		Name:      r.Name,
		Icon:      r.Icon,
		SortOrder: r.SortOrder,
		IsActive:  r.IsActive,
	}
}

// ProductRequest 商品创建/更新请求
type ProductRequest struct {
	CategoryID             uint     `json:"category_id" binding:"required"`
	Name                   string   `json:"name" binding:"required"`
	PartNumber             string   `json:"part_number"`
	Brand                  string   `json:"brand"`
	Description            string   `json:"description"`
	PriceRub               string   `json:"price_rub" binding:"required"`
	ImageURL               string   `json:"image_url"`
	Images                 []string `json:"images"`
	Compatibility          []string `json:"compatibility"`
	IsInstallmentAvailable bool     `json:"is_installment_available"`
	Stock                  int      `json:"stock" binding:"gte=0"`
	WeightGrams            int      `json:"weight_grams" binding:"gte=0"`
	IsActive               *bool    `json:"is_active"`
	SortOrder              int      `json:"sort_order"`
}

func (r ProductRequest) toInput() service.ProductInput {
	return service.ProductInput{
		CategoryID:             r.CategoryID,
		Name:                   r.Name,
		PartNumber:             r.PartNumber,
		Brand:                  r.Brand,
		Description:            r.Description,
		PriceRub:               r.PriceRub,
		ImageURL:               r.ImageURL,
		Images:                 r.Images,
		Compatibility:          r.Compatibility,
		IsInstallmentAvailable: r.IsInstallmentAvailable,
		Stock:                  r.Stock,
		WeightGrams:            r.WeightGrams,
		IsActive:               r.IsActive,
		SortOrder:              r.SortOrder,
	}
}

// ShowcaseRequest 橱窗替换请求
type ShowcaseRequest struct {
	ProductIDs []uint `json:"product_ids"`
}

// GetAdminCategories 获取分类列表（含未展示）
func (h *Handler) GetAdminCategories(c *gin.Context) {
	categories, err := h.CategoryService.List(false)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, categories)
}

// CreateCategory 创建分类
func (h *Handler) CreateCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	category, err := h.CategoryService.Create(req.toInput())
	if err != nil {
		respondWithMappedError(c, err, catalogErrorRules)
		return
	}
	response.Success(c, category)
}

// UpdateCategory 更新分类
func (h *Handler) UpdateCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	category, err := h.CategoryService.Update(id, req.toInput())
	if err != nil {
		respondWithMappedError(c, err, catalogErrorRules)
		return
	}
	response.Success(c, category)
}

// DeleteCategory 删除分类
func (h *Handler) DeleteCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.CategoryService.Delete(id); err != nil {
		respondWithMappedError(c, err, catalogErrorRules)
		return
	}
	response.Success(c, nil)
}

// GetAdminProducts 获取商品列表 (Admin)
func (h *Handler) GetAdminProducts(c *gin.Context) {
	page, pageSize := queryPage(c)
	categoryID, err := parseOptionalUint(c.Query("category_id"))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	inStock, _ := strconv.ParseBool(c.DefaultQuery("in_stock", "false"))

	products, total, err := h.ProductService.ListAdmin(service.ProductListInput{
		Page:       page,
		PageSize:   pageSize,
		CategoryID: categoryID,
		Search:     strings.TrimSpace(c.Query("search")),
		Brand:      strings.TrimSpace(c.Query("brand")),
		InStock:    inStock,
		MinPrice:   c.Query("min_price"),
		MaxPrice:   c.Query("max_price"),
		Sort:       c.Query("sort"),
	})
	if err != nil {
		respondWithMappedError(c, err, catalogErrorRules)
		return
	}
	response.SuccessWithPage(c, products, response.BuildPagination(page, pageSize, total))
}

// GetAdminProduct 获取商品详情 (Admin)
func (h *Handler) GetAdminProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	product, err := h.ProductService.GetAdmin(id)
	if err != nil {
		respondWithMappedError(c, err, catalogErrorRules)
		return
	}
	response.Success(c, product)
}

// CreateProduct 创建商品
func (h *Handler) CreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	product, err := h.ProductService.Create(req.toInput())
	if err != nil {
		respondWithMappedError(c, err, catalogErrorRules)
		return
	}
	requestLog(c).Infow("admin_product_created", "product_id", product.ID, "admin_id", currentAdminID(c))
	response.Success(c, product)
}

// UpdateProduct 更新商品
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	product, err := h.ProductService.Update(id, req.toInput())
	if err != nil {
		respondWithMappedError(c, err, catalogErrorRules)
		return
	}
	response.Success(c, product)
}

// DeleteProduct 删除商品
func (h *Handler) DeleteProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.ProductService.Delete(id); err != nil {
		respondWithMappedError(c, err, catalogErrorRules)
		return
	}
	requestLog(c).Infow("admin_product_deleted", "product_id", id, "admin_id", currentAdminID(c))
	response.Success(c, nil)
}

// GetAdminShowcase 获取橱窗配置
func (h *Handler) GetAdminShowcase(c *gin.Context) {
	items, err := h.ShowcaseService.ListForAdmin()
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, items)
}

// ReplaceShowcase 按顺序整体替换橱窗商品
func (h *Handler) ReplaceShowcase(c *gin.Context) {
	var req ShowcaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	items, err := h.ShowcaseService.Replace(req.ProductIDs)
	if err != nil {
		respondWithMappedError(c, err, catalogErrorRules)
		return
	}
	productIDs := make([]uint, 0, len(items))
	for _, item := range items {
		productIDs = append(productIDs, item.ProductID)
	}
	h.recordAudit(c, service.AdminAuditEntry{
		Action:   service.AuditActionShowcaseUpdate,
		Resource: "showcase",
		Detail:   models.JSON{"product_ids": productIDs},
	})
	response.Success(c, items)
}
