package public

import (
	"strconv"
	"strings"
	"time"

	"github.com/ram-us/internal/cache"
	"github.com/ram-us/internal/http/response"
	"github.com/ram-us/internal/repository"
	"github.com/ram-us/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	publicConfigCacheKey = "public:config"
	publicConfigCacheTTL = 5 * time.Minute
)

// GetConfig 前台可用能力与门店信息
func (h *Handler) GetConfig(c *gin.Context) {
	var cached map[string]interface{}
	if hit, err := cache.GetJSON(c.Request.Context(), publicConfigCacheKey, &cached); err == nil && hit {
		response.Success(c, cached)
		return
	}

	data := map[string]interface{}{
		"languages":        []string{"ru", "en"},
		"currency":         "RUB",
		"pickup_address":   h.Config.Order.PickupAddress,
		"shipping":         h.ShippingService.Enabled(),
		"online_payment":   h.PaymentService.Enabled(),
		"chat":             h.ChatService.Enabled(),
		"seller_plan_fee":  h.SellerService.SubscriptionFee(),
		"seller_plan_days": h.Config.Seller.SubscriptionDays,
	}
	_ = cache.SetJSON(c.Request.Context(), publicConfigCacheKey, data, publicConfigCacheTTL)
	response.Success(c, data)
}

// GetCategories 分类树
func (h *Handler) GetCategories(c *gin.Context) {
	tree, err := h.CategoryService.Tree(true)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, tree)
}

// GetProducts 获取商品列表
func (h *Handler) GetProducts(c *gin.Context) {
	page, pageSize := queryPage(c)
	var categoryID uint
	if raw := strings.TrimSpace(c.Query("category_id")); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			respondError(c, response.CodeBadRequest, "error.bad_request", err)
			return
		}
		categoryID = uint(parsed)
	}
	inStock, _ := strconv.ParseBool(c.DefaultQuery("in_stock", "false"))

	products, total, err := h.ProductService.ListPublic(service.ProductListInput{
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

// GetProduct 商品详情
func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	product, err := h.ProductService.GetPublic(id)
	if err != nil {
		respondWithMappedError(c, err, catalogErrorRules)
		return
	}
	response.Success(c, product)
}

// GetBrands 品牌列表
func (h *Handler) GetBrands(c *gin.Context) {
	brands, err := h.ProductService.Brands()
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, brands)
}

// GetShowcase 首页橱窗
func (h *Handler) GetShowcase(c *gin.Context) {
	products, err := h.ShowcaseService.ListPublic()
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, products)
}

// GetListings 二手市场（仅已审核）
func (h *Handler) GetListings(c *gin.Context) {
	page, pageSize := queryPage(c)
	listings, total, err := h.ListingService.ListPublic(repository.ListingListFilter{
		Page:     page,
		PageSize: pageSize,
		Keyword:  strings.TrimSpace(c.Query("keyword")),
		CarMake:  strings.TrimSpace(c.Query("car_make")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, listings, response.BuildPagination(page, pageSize, total))
}

// GetListing 二手商品详情
func (h *Handler) GetListing(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	listing, err := h.ListingService.GetPublic(id)
	if err != nil {
		respondWithMappedError(c, err, catalogErrorRules)
		return
	}
	response.Success(c, listing)
}
