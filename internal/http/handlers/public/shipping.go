package public

import (
	"strconv"
	"strings"

	"github.com/ram-us/internal/http/response"
	"github.com/ram-us/internal/storefront"

	"github.com/gin-gonic/gin"
)

// TariffsRequest 运费计算请求；未给出重量时按件数估算
type TariffsRequest struct {
	CityCode    int    `json:"city_code" binding:"required,gt=0"`
	WeightGrams int    `json:"weight_grams" binding:"gte=0"`
	Items       int    `json:"items" binding:"gte=0"`
	Mode        string `json:"mode" binding:"omitempty,oneof=courier pvz"`
}

// SearchCities 城市联想
func (h *Handler) SearchCities(c *gin.Context) {
	cities, err := h.ShippingService.SearchCities(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondWithMappedError(c, err, shippingErrorRules)
		return
	}
	response.Success(c, cities)
}

// CalculateTariffs 运费报价；指定 mode 时按配送方式过滤
func (h *Handler) CalculateTariffs(c *gin.Context) {
	var req TariffsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	weight := req.WeightGrams
	if weight == 0 {
		weight = storefront.ShipmentWeight(req.Items)
	}
	tariffs, err := h.ShippingService.CalculateTariffs(c.Request.Context(), req.CityCode, weight)
	if err != nil {
		respondWithMappedError(c, err, shippingErrorRules)
		return
	}
	if req.Mode != "" {
		tariffs = storefront.FilterTariffs(tariffs, req.Mode)
	}
	response.Success(c, gin.H{
		"tariffs":  tariffs,
		"cheapest": storefront.CheapestTariff(tariffs),
	})
}

// ListPickupPoints 城市自提点
func (h *Handler) ListPickupPoints(c *gin.Context) {
	cityCode, err := strconv.Atoi(strings.TrimSpace(c.Query("city_code")))
	if err != nil || cityCode <= 0 {
		respondError(c, response.CodeBadRequest, "error.delivery_invalid", nil)
		return
	}
	points, err := h.ShippingService.ListPickupPoints(c.Request.Context(), cityCode)
	if err != nil {
		respondWithMappedError(c, err, shippingErrorRules)
		return
	}
	response.Success(c, points)
}
