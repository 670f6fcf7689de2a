package service

import (
	"github.com/ram-us/internal/models"
	"github.com/ram-us/internal/repository"
)

// MaxShowcaseItems 橱窗商品上限
const MaxShowcaseItems = 20

// ShowcaseService 首页橱窗服务
type ShowcaseService struct {
	repo        repository.ShowcaseRepository
	productRepo repository.ProductRepository
}

// NewShowcaseService 创建橱窗服务
func NewShowcaseService(repo repository.ShowcaseRepository, productRepo repository.ProductRepository) *ShowcaseService {
	return &ShowcaseService{repo: repo, productRepo: productRepo}
}

// ListPublic 按位置返回上架商品，已下架或删除的商品跳过
func (s *ShowcaseService) ListPublic() ([]models.Product, error) {
	items, err := s.repo.List(true)
	if err != nil {
		return nil, err
	}
	products := make([]models.Product, 0, len(items))
	for _, item := range items {
		if item.Product == nil || !item.Product.IsActive {
			continue
		}
		products = append(products, *item.Product)
	}
	return products, nil
}

// ListForAdmin 管理端橱窗项
func (s *ShowcaseService) ListForAdmin() ([]models.ShowcaseItem, error) {
	return s.repo.List(true)
}

// Replace 按给定顺序整体替换橱窗，重复 ID 只保留第一次出现
func (s *ShowcaseService) Replace(productIDs []uint) ([]models.ShowcaseItem, error) {
	ids := make([]uint, 0, len(productIDs))
	seen := make(map[uint]struct{}, len(productIDs))
	for _, id := range productIDs {
		if id == 0 {
			return nil, ErrShowcaseInvalid
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	if len(ids) > MaxShowcaseItems {
		return nil, ErrShowcaseInvalid
	}
	if len(ids) > 0 {
		products, err := s.productRepo.ListByIDs(ids)
		if err != nil {
			return nil, err
		}
		if len(products) != len(ids) {
			return nil, ErrProductNotFound
		}
	}
	if err := s.repo.Replace(ids); err != nil {
		return nil, err
	}
	return s.repo.List(true)
}
