package storefront

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// ErrVehicleIncomplete 车辆四项信息未填写完整
var ErrVehicleIncomplete = errors.New("vehicle make, model, year and engine are required")

// GarageStore 单车位车库，整体替换，不做合并
type GarageStore struct {
	mu       sync.RWMutex
	storage  Storage
	key      string
	log      *zap.SugaredLogger
	vehicle  *Vehicle
	hydrated bool
}

// NewGarageStore 创建车库容器
func NewGarageStore(storage Storage, key string, log *zap.SugaredLogger) *GarageStore {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &GarageStore{storage: storage, key: key, log: log}
}

// Hydrate 从存储加载，仅首次调用生效
func (s *GarageStore) Hydrate(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hydrated {
		return
	}
	s.hydrated = true
	if s.storage == nil {
		return
	}
	raw, err := s.storage.Load(ctx, s.key)
	if err != nil {
		s.log.Warnw("garage_hydrate_failed", "key", s.key, "error", err)
		return
	}
	if len(raw) == 0 || string(raw) == "null" {
		return
	}
	var stored Vehicle
	if err := json.Unmarshal(raw, &stored); err != nil {
		s.log.Warnw("garage_blob_corrupt", "key", s.key, "error", err)
		return
	}
	if stored.Complete() {
		s.vehicle = &stored
	}
}

// IsHydrated 是否已完成加载
func (s *GarageStore) IsHydrated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hydrated
}

// Vehicle 当前车辆，未设置时返回 nil
func (s *GarageStore) Vehicle() *Vehicle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.vehicle == nil {
		return nil
	}
	v := *s.vehicle
	return &v
}

// SetVehicle 整体替换车辆
func (s *GarageStore) SetVehicle(ctx context.Context, v Vehicle) error {
	v = v.trimmed()
	if !v.Complete() {
		return ErrVehicleIncomplete
	}
	s.mu.Lock()
	s.vehicle = &v
	s.mu.Unlock()
	s.persist(ctx, &v)
	return nil
}

// ClearVehicle 清空车库
func (s *GarageStore) ClearVehicle(ctx context.Context) {
	s.mu.Lock()
	s.vehicle = nil
	s.mu.Unlock()
	s.persist(ctx, nil)
}

func (s *GarageStore) persist(ctx context.Context, v *Vehicle) {
	if s.storage == nil {
		return
	}
	payload, err := json.Marshal(v)
	if err != nil {
		s.log.Warnw("garage_encode_failed", "key", s.key, "error", err)
		return
	}
	if err := s.storage.Save(ctx, s.key, payload); err != nil {
		s.log.Warnw("garage_persist_failed", "key", s.key, "error", err)
	}
}

// Complete 四项信息是否齐全
func (v Vehicle) Complete() bool {
	return v.Make != "" && v.Model != "" && v.Year != "" && v.Engine != ""
}

func (v Vehicle) trimmed() Vehicle {
	return Vehicle{
		Make:   strings.TrimSpace(v.Make),
		Model:  strings.TrimSpace(v.Model),
		Year:   strings.TrimSpace(v.Year),
		Engine: strings.TrimSpace(v.Engine),
	}
}
