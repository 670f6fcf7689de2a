package storefront

import (
	"context"
	"sync"
	"time"

	"github.com/ram-us/internal/cache"
	"github.com/ram-us/internal/repository"
)

// Storage 客户端状态的键值存储（对应浏览器 localStorage 的角色）
// Load 在键不存在时返回 nil, nil。
type Storage interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, value []byte) error
}

// MemoryStorage 进程内存储，用于测试与无持久化场景
type MemoryStorage struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryStorage 创建内存存储
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{data: make(map[string][]byte)}
}

// Load 读取
func (s *MemoryStorage) Load(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.data[key]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

// Save 写入
func (s *MemoryStorage) Save(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := make([]byte, len(value))
	copy(stored, value)
	s.data[key] = stored
	return nil
}

// CacheStorage 基于 Redis 的存储，需先初始化 cache 包
type CacheStorage struct {
	ttl time.Duration
}

// NewCacheStorage 创建 Redis 存储，ttl 为 0 表示不过期
func NewCacheStorage(ttl time.Duration) *CacheStorage {
	return &CacheStorage{ttl: ttl}
}

// Load 读取
func (s *CacheStorage) Load(ctx context.Context, key string) ([]byte, error) {
	value, hit, err := cache.GetBytes(ctx, key)
	if err != nil || !hit {
		return nil, err
	}
	return value, nil
}

// Save 写入
func (s *CacheStorage) Save(ctx context.Context, key string, value []byte) error {
	return cache.SetBytes(ctx, key, value, s.ttl)
}

// BlobStorage 基于数据库 state_blobs 表的存储
type BlobStorage struct {
	repo repository.StateBlobRepository
}

// NewBlobStorage 创建数据库存储
func NewBlobStorage(repo repository.StateBlobRepository) *BlobStorage {
	return &BlobStorage{repo: repo}
}

// Load 读取
func (s *BlobStorage) Load(_ context.Context, key string) ([]byte, error) {
	blob, err := s.repo.Get(key)
	if err != nil || blob == nil {
		return nil, err
	}
	return []byte(blob.Value), nil
}

// Save 写入
func (s *BlobStorage) Save(_ context.Context, key string, value []byte) error {
	return s.repo.Put(key, value)
}

// UserKey 生成按用户隔离的存储键，如 ram-us-cart:42
func UserKey(base string, userID uint) string {
	if userID == 0 {
		return base
	}
	return base + ":" + uintToString(userID)
}
