package service

import (
	"context"

	"github.com/ram-us/internal/constants"
	"github.com/ram-us/internal/logger"
	"github.com/ram-us/internal/repository"
	"github.com/ram-us/internal/storefront"
)

// CartView 购物车视图
type CartView struct {
	Items      []storefront.CartItem `json:"items"`
	TotalPrice string                `json:"total_price"`
	TotalItems int                   `json:"total_items"`
}

// CartService 服务端购物车，按用户持久化为状态快照
type CartService struct {
	storage     storefront.Storage
	productRepo repository.ProductRepository
	maxItems    int
}

// NewCartService 创建购物车服务
func NewCartService(storage storefront.Storage, productRepo repository.ProductRepository, maxItems int) *CartService {
	return &CartService{
		storage:     storage,
		productRepo: productRepo,
		maxItems:    maxItems,
	}
}

// Store 加载用户购物车容器
func (s *CartService) Store(ctx context.Context, userID uint) *storefront.CartStore {
	store := storefront.NewCartStore(s.storage, storefront.UserKey(constants.StorageKeyCart, userID), logger.SW("user_id", userID))
	store.Hydrate(ctx)
	return store
}

// Get 查看购物车
func (s *CartService) Get(ctx context.Context, userID uint) *CartView {
	return buildCartView(s.Store(ctx, userID))
}

// AddItem 加入商品，名称与价格以当前商品数据为准
func (s *CartService) AddItem(ctx context.Context, userID, productID uint, quantity int) (*CartView, error) {
	if quantity <= 0 {
		quantity = 1
	}
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.IsActive {
		return nil, ErrProductNotFound
	}
	store := s.Store(ctx, userID)
	existing, inCart := store.Item(productID)
	if !inCart && s.maxItems > 0 && len(store.Items()) >= s.maxItems {
		return nil, ErrCartTooLarge
	}
	if existing.Quantity+quantity > product.Stock {
		return nil, ErrStockInsufficient
	}
	// 重复加入时同时刷新名称与价格快照
	store.ReplaceItem(ctx, storefront.CartItem{
		ID:                     product.ID,
		Name:                   product.Name,
		PriceRub:               product.PriceRub,
		ImageURL:               product.ImageURL,
		PartNumber:             product.PartNumber,
		Quantity:               existing.Quantity + quantity,
		IsInstallmentAvailable: product.IsInstallmentAvailable,
	})
	return buildCartView(store), nil
}

// UpdateQuantity 修改数量，<= 0 时移除
func (s *CartService) UpdateQuantity(ctx context.Context, userID, productID uint, quantity int) (*CartView, error) {
	store := s.Store(ctx, userID)
	if _, ok := store.Item(productID); !ok {
		return nil, ErrProductNotFound
	}
	if quantity > 0 {
		product, err := s.productRepo.GetByID(productID)
		if err != nil {
			return nil, err
		}
		if product != nil && quantity > product.Stock {
			return nil, ErrStockInsufficient
		}
	}
	store.UpdateQuantity(ctx, productID, quantity)
	return buildCartView(store), nil
}

// RemoveItem 移除商品
func (s *CartService) RemoveItem(ctx context.Context, userID, productID uint) *CartView {
	store := s.Store(ctx, userID)
	store.RemoveItem(ctx, productID)
	return buildCartView(store)
}

// Clear 清空购物车
func (s *CartService) Clear(ctx context.Context, userID uint) {
	s.Store(ctx, userID).Clear(ctx)
}

func buildCartView(store *storefront.CartStore) *CartView {
	return &CartView{
		Items:      store.Items(),
		TotalPrice: store.TotalPrice().String(),
		TotalItems: store.TotalItems(),
	}
}
