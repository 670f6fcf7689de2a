package service

import (
	"context"
	"errors"

	"github.com/ram-us/internal/constants"
	"github.com/ram-us/internal/logger"
	"github.com/ram-us/internal/storefront"
)

// GarageService 服务端车库
type GarageService struct {
	storage storefront.Storage
}

// NewGarageService 创建车库服务
func NewGarageService(storage storefront.Storage) *GarageService {
	return &GarageService{storage: storage}
}

func (s *GarageService) store(ctx context.Context, userID uint) *storefront.GarageStore {
	store := storefront.NewGarageStore(s.storage, storefront.UserKey(constants.StorageKeyGarage, userID), logger.SW("user_id", userID))
	store.Hydrate(ctx)
	return store
}

// Get 当前车辆，未设置返回 nil
func (s *GarageService) Get(ctx context.Context, userID uint) *storefront.Vehicle {
	return s.store(ctx, userID).Vehicle()
}

// Set 设置车辆（整体替换）
func (s *GarageService) Set(ctx context.Context, userID uint, v storefront.Vehicle) (*storefront.Vehicle, error) {
	store := s.store(ctx, userID)
	if err := store.SetVehicle(ctx, v); err != nil {
		if errors.Is(err, storefront.ErrVehicleIncomplete) {
			return nil, ErrVehicleIncomplete
		}
		return nil, err
	}
	return store.Vehicle(), nil
}

// Clear 清除车辆
func (s *GarageService) Clear(ctx context.Context, userID uint) {
	s.store(ctx, userID).ClearVehicle(ctx)
}
