package storefront

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/ram-us/internal/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CartStore 持久化购物车容器
// 每个条目数量始终 >= 1，同一商品只保留一条，保持加入顺序。
type CartStore struct {
	mu       sync.RWMutex
	storage  Storage
	key      string
	log      *zap.SugaredLogger
	items    []CartItem
	hydrated bool
}

// NewCartStore 创建购物车容器
func NewCartStore(storage Storage, key string, log *zap.SugaredLogger) *CartStore {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &CartStore{
		storage: storage,
		key:     key,
		log:     log,
		items:   make([]CartItem, 0),
	}
}

// Hydrate 从存储加载，仅首次调用生效；损坏的数据按空购物车处理
func (s *CartStore) Hydrate(ctx context.Context) {
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
		s.log.Warnw("cart_hydrate_failed", "key", s.key, "error", err)
		return
	}
	if len(raw) == 0 {
		return
	}
	var stored []CartItem
	if err := json.Unmarshal(raw, &stored); err != nil {
		s.log.Warnw("cart_blob_corrupt", "key", s.key, "error", err)
		return
	}
	s.items = normalizeCartItems(stored)
}

// IsHydrated 是否已完成加载（区分“未加载”与“已加载但为空”）
func (s *CartStore) IsHydrated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hydrated
}

// Items 当前条目快照
func (s *CartStore) Items() []CartItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]CartItem, len(s.items))
	copy(out, s.items)
	return out
}

// Item 按商品 ID 查找条目
func (s *CartStore) Item(id uint) (CartItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx := s.indexOf(id); idx >= 0 {
		return s.items[idx], true
	}
	return CartItem{}, false
}

// AddItem 加入商品；已存在时按数量累加（数量缺省为 1）
func (s *CartStore) AddItem(ctx context.Context, item CartItem) {
	qty := item.Quantity
	if qty < 1 {
		qty = 1
	}
	s.mu.Lock()
	if idx := s.indexOf(item.ID); idx >= 0 {
		s.items[idx].Quantity += qty
	} else {
		item.Quantity = qty
		s.items = append(s.items, item)
	}
	snapshot := s.snapshotLocked()
	s.mu.Unlock()
	s.persist(ctx, snapshot)
}

// ReplaceItem 用新快照覆盖同 ID 条目并保持位置，不存在时追加
func (s *CartStore) ReplaceItem(ctx context.Context, item CartItem) {
	if item.Quantity < 1 {
		item.Quantity = 1
	}
	s.mu.Lock()
	if idx := s.indexOf(item.ID); idx >= 0 {
		s.items[idx] = item
	} else {
		s.items = append(s.items, item)
	}
	snapshot := s.snapshotLocked()
	s.mu.Unlock()
	s.persist(ctx, snapshot)
}

// RemoveItem 删除条目
func (s *CartStore) RemoveItem(ctx context.Context, id uint) {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return
	}
	s.items = append(s.items[:idx], s.items[idx+1:]...)
	snapshot := s.snapshotLocked()
	s.mu.Unlock()
	s.persist(ctx, snapshot)
}

// UpdateQuantity 修改数量，qty <= 0 时删除
func (s *CartStore) UpdateQuantity(ctx context.Context, id uint, qty int) {
	if qty <= 0 {
		s.RemoveItem(ctx, id)
		return
	}
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return
	}
	s.items[idx].Quantity = qty
	snapshot := s.snapshotLocked()
	s.mu.Unlock()
	s.persist(ctx, snapshot)
}

// Clear 清空购物车
func (s *CartStore) Clear(ctx context.Context) {
	s.mu.Lock()
	s.items = make([]CartItem, 0)
	snapshot := s.snapshotLocked()
	s.mu.Unlock()
	s.persist(ctx, snapshot)
}

// TotalPrice 合计金额 = Σ 单价 × 数量
func (s *CartStore) TotalPrice() models.Money {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := decimal.Zero
	for _, item := range s.items {
		total = total.Add(item.PriceRub.Decimal.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return models.NewMoneyFromDecimal(total)
}

// TotalItems 合计件数 = Σ 数量
func (s *CartStore) TotalItems() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := 0
	for _, item := range s.items {
		total += item.Quantity
	}
	return total
}

// IsEmpty 是否为空
func (s *CartStore) IsEmpty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items) == 0
}

func (s *CartStore) indexOf(id uint) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *CartStore) snapshotLocked() []CartItem {
	out := make([]CartItem, len(s.items))
	copy(out, s.items)
	return out
}

// persist 写入失败只记录日志，内存状态保持为准
func (s *CartStore) persist(ctx context.Context, items []CartItem) {
	if s.storage == nil {
		return
	}
	payload, err := json.Marshal(items)
	if err != nil {
		s.log.Warnw("cart_encode_failed", "key", s.key, "error", err)
		return
	}
	if err := s.storage.Save(ctx, s.key, payload); err != nil {
		s.log.Warnw("cart_persist_failed", "key", s.key, "error", err)
	}
}

// normalizeCartItems 合并重复条目并剔除数量非法的条目
func normalizeCartItems(items []CartItem) []CartItem {
	out := make([]CartItem, 0, len(items))
	positions := make(map[uint]int, len(items))
	for _, item := range items {
		if item.Quantity < 1 {
			continue
		}
		if pos, ok := positions[item.ID]; ok {
			out[pos].Quantity += item.Quantity
			continue
		}
		positions[item.ID] = len(out)
		out = append(out, item)
	}
	return out
}
