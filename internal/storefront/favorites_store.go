package storefront

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// FavoritesAPI 收藏远端接口
type FavoritesAPI interface {
	ListFavorites(ctx context.Context) ([]uint, error)
	ToggleFavorite(ctx context.Context, productID uint) (bool, error)
}

// FavoritesStore 收藏集合容器，按加入顺序保存商品 ID
type FavoritesStore struct {
	mu  sync.RWMutex
	api FavoritesAPI
	log *zap.SugaredLogger
	ids []uint
	set map[uint]struct{}
}

// NewFavoritesStore 创建收藏容器
func NewFavoritesStore(api FavoritesAPI, log *zap.SugaredLogger) *FavoritesStore {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &FavoritesStore{
		api: api,
		log: log,
		ids: make([]uint, 0),
		set: make(map[uint]struct{}),
	}
}

// Fetch 用服务端列表整体替换本地集合；失败时保持原状态
func (s *FavoritesStore) Fetch(ctx context.Context) error {
	ids, err := s.api.ListFavorites(ctx)
	if err != nil {
		s.log.Warnw("favorites_fetch_failed", "error", err)
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = make([]uint, 0, len(ids))
	s.set = make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := s.set[id]; ok {
			continue
		}
		s.set[id] = struct{}{}
		s.ids = append(s.ids, id)
	}
	return nil
}

// IsFavorite 是否已收藏
func (s *FavoritesStore) IsFavorite(id uint) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.set[id]
	return ok
}

// IDs 有序快照
func (s *FavoritesStore) IDs() []uint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]uint, len(s.ids))
	copy(out, s.ids)
	return out
}

// Toggle 乐观切换收藏状态；成功时以服务端确认的状态为准，失败时回滚
func (s *FavoritesStore) Toggle(ctx context.Context, id uint) bool {
	before := s.IsFavorite(id)
	op := Tentative{
		Apply: func() { s.setMembership(id, !before) },
		Confirm: func(ctx context.Context) error {
			confirmed, err := s.api.ToggleFavorite(ctx, id)
			if err != nil {
				return err
			}
			s.setMembership(id, confirmed)
			return nil
		},
		Compensate: func() { s.setMembership(id, before) },
	}
	if err := op.Run(ctx); err != nil {
		s.log.Warnw("favorite_toggle_reverted", "product_id", id, "error", err)
	}
	return s.IsFavorite(id)
}

func (s *FavoritesStore) setMembership(id uint, member bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, exists := s.set[id]
	switch {
	case member && !exists:
		s.set[id] = struct{}{}
		s.ids = append(s.ids, id)
	case !member && exists:
		delete(s.set, id)
		for i, v := range s.ids {
			if v == id {
				s.ids = append(s.ids[:i], s.ids[i+1:]...)
				break
			}
		}
	}
}
