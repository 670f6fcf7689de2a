package service

import (
	"github.com/ram-us/internal/repository"

	"gorm.io/gorm"
)

// FavoriteService 收藏服务
type FavoriteService struct {
	repo        repository.FavoriteRepository
	productRepo repository.ProductRepository
}

// NewFavoriteService 创建收藏服务
func NewFavoriteService(repo repository.FavoriteRepository, productRepo repository.ProductRepository) *FavoriteService {
	return &FavoriteService{repo: repo, productRepo: productRepo}
}

// ListProductIDs 当前用户收藏的商品 ID
func (s *FavoriteService) ListProductIDs(userID uint) ([]uint, error) {
	return s.repo.ListProductIDs(userID)
}

// Toggle 切换收藏状态，返回切换后的状态
func (s *FavoriteService) Toggle(userID, productID uint) (bool, error) {
	if userID == 0 || productID == 0 {
		return false, ErrInvalidInput
	}
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return false, err
	}
	if product == nil {
		return false, ErrProductNotFound
	}
	var favorite bool
	err = s.repo.Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		removed, err := repo.Remove(userID, productID)
		if err != nil {
			return err
		}
		if removed > 0 {
			favorite = false
			return nil
		}
		favorite = true
		return repo.Add(userID, productID)
	})
	if err != nil {
		return false, err
	}
	return favorite, nil
}
