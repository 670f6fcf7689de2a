package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ram-us/internal/cache"
	"github.com/ram-us/internal/logger"
	"github.com/ram-us/internal/metrics"
	"github.com/ram-us/internal/models"
	"github.com/ram-us/internal/shipping/cdek"
	"github.com/ram-us/internal/storefront"

	"github.com/shopspring/decimal"
)

// ShippingProvider 物流承运商接口（CDEK 客户端实现）
type ShippingProvider interface {
	SearchCities(ctx context.Context, query string, size int) ([]cdek.City, error)
	CalculateTariffs(ctx context.Context, toCityCode, weightGrams int) ([]cdek.Tariff, error)
	ListDeliveryPoints(ctx context.Context, cityCode int) ([]cdek.DeliveryPoint, error)
}

// ShippingService 物流查询服务，结果按 TTL 缓存到 Redis
type ShippingService struct {
	provider ShippingProvider
	cacheTTL time.Duration
	metrics  *metrics.Metrics
}

// NewShippingService 创建物流服务，provider 为 nil 表示未配置
func NewShippingService(provider ShippingProvider, cacheTTL time.Duration, m *metrics.Metrics) *ShippingService {
	return &ShippingService{
		provider: provider,
		cacheTTL: cacheTTL,
		metrics:  m,
	}
}

// Enabled 是否已配置承运商
func (s *ShippingService) Enabled() bool {
	return s != nil && s.provider != nil
}

// SearchCities 搜索城市，少于 2 个字符直接返回空
func (s *ShippingService) SearchCities(ctx context.Context, query string) ([]storefront.City, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < storefront.MinCityQueryRunes {
		return []storefront.City{}, nil
	}
	if !s.Enabled() {
		return nil, ErrShippingUnavailable
	}
	key := "shipping:cities:" + strings.ToLower(query)
	var cities []storefront.City
	if s.cacheGet(ctx, key, &cities) {
		return cities, nil
	}
	raw, err := s.provider.SearchCities(ctx, query, storefront.MaxCityResults)
	s.metrics.ObserveUpstream("cdek", "cities", err)
	if err != nil {
		logger.Warnw("shipping_city_search_failed", "query", query, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrShippingFailed, err)
	}
	cities = make([]storefront.City, 0, len(raw))
	for _, c := range raw {
		cities = append(cities, storefront.City{Code: c.Code, City: c.City, Region: c.Region, Country: c.Country})
		if len(cities) == storefront.MaxCityResults {
			break
		}
	}
	s.cacheSet(ctx, key, cities)
	return cities, nil
}

// CalculateTariffs 计算运费报价（全部承运商资费，过滤由客户端按配送方式完成）
func (s *ShippingService) CalculateTariffs(ctx context.Context, cityCode, weightGrams int) ([]storefront.Tariff, error) {
	if cityCode <= 0 {
		return nil, ErrDeliveryInvalid
	}
	if !s.Enabled() {
		return nil, ErrShippingUnavailable
	}
	if weightGrams < storefront.GramsPerItem {
		weightGrams = storefront.GramsPerItem
	}
	key := fmt.Sprintf("shipping:tariffs:%d:%d", cityCode, weightGrams)
	var tariffs []storefront.Tariff
	if s.cacheGet(ctx, key, &tariffs) {
		return tariffs, nil
	}
	raw, err := s.provider.CalculateTariffs(ctx, cityCode, weightGrams)
	s.metrics.ObserveUpstream("cdek", "tarifflist", err)
	if err != nil {
		logger.Warnw("shipping_tariff_calc_failed", "city_code", cityCode, "weight_grams", weightGrams, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrShippingFailed, err)
	}
	tariffs = make([]storefront.Tariff, 0, len(raw))
	for _, t := range raw {
		tariffs = append(tariffs, storefront.Tariff{
			Code:        t.TariffCode,
			Name:        t.TariffName,
			Description: t.TariffDescription,
			DeliverySum: models.NewMoneyFromDecimal(decimal.NewFromFloat(t.DeliverySum)),
			PeriodMin:   t.PeriodMin,
			PeriodMax:   t.PeriodMax,
		})
	}
	s.cacheSet(ctx, key, tariffs)
	return tariffs, nil
}

// ListPickupPoints 城市自提点，最多 50 个
func (s *ShippingService) ListPickupPoints(ctx context.Context, cityCode int) ([]storefront.PickupPoint, error) {
	if cityCode <= 0 {
		return nil, ErrDeliveryInvalid
	}
	if !s.Enabled() {
		return nil, ErrShippingUnavailable
	}
	key := fmt.Sprintf("shipping:pvz:%d", cityCode)
	var points []storefront.PickupPoint
	if s.cacheGet(ctx, key, &points) {
		return points, nil
	}
	raw, err := s.provider.ListDeliveryPoints(ctx, cityCode)
	s.metrics.ObserveUpstream("cdek", "deliverypoints", err)
	if err != nil {
		logger.Warnw("shipping_pvz_list_failed", "city_code", cityCode, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrShippingFailed, err)
	}
	points = make([]storefront.PickupPoint, 0, len(raw))
	for _, p := range raw {
		address := p.Location.Address
		if address == "" {
			address = p.Location.AddressFull
		}
		points = append(points, storefront.PickupPoint{
			Code:      p.Code,
			Name:      p.Name,
			Address:   address,
			WorkTime:  p.WorkTime,
			Latitude:  p.Location.Latitude,
			Longitude: p.Location.Longitude,
		})
		if len(points) == storefront.MaxPickupPoints {
			break
		}
	}
	s.cacheSet(ctx, key, points)
	return points, nil
}

// ResolveTariff 按编码查找报价，用于下单时确认运费
func (s *ShippingService) ResolveTariff(ctx context.Context, cityCode, weightGrams, tariffCode int) (*storefront.Tariff, error) {
	tariffs, err := s.CalculateTariffs(ctx, cityCode, weightGrams)
	if err != nil {
		return nil, err
	}
	for i := range tariffs {
		if tariffs[i].Code == tariffCode {
			return &tariffs[i], nil
		}
	}
	return nil, ErrDeliveryInvalid
}

// ResolvePickupPoint 按编码查找自提点
func (s *ShippingService) ResolvePickupPoint(ctx context.Context, cityCode int, code string) (*storefront.PickupPoint, error) {
	points, err := s.ListPickupPoints(ctx, cityCode)
	if err != nil {
		return nil, err
	}
	for i := range points {
		if points[i].Code == code {
			return &points[i], nil
		}
	}
	return nil, ErrDeliveryInvalid
}

func (s *ShippingService) cacheGet(ctx context.Context, key string, dest interface{}) bool {
	if s.cacheTTL <= 0 {
		return false
	}
	hit, err := cache.GetJSON(ctx, key, dest)
	if err != nil {
		logger.Debugw("shipping_cache_get_failed", "key", key, "error", err)
		return false
	}
	return hit
}

func (s *ShippingService) cacheSet(ctx context.Context, key string, value interface{}) {
	if s.cacheTTL <= 0 {
		return
	}
	if err := cache.SetJSON(ctx, key, value, s.cacheTTL); err != nil {
		logger.Debugw("shipping_cache_set_failed", "key", key, "error", err)
	}
}
