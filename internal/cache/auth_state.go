package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/ram-us/internal/models"
)

// AuthStateTTL 鉴权快照在 Redis 中的存活时间
const AuthStateTTL = 10 * time.Minute

// UserAuthState 买家鉴权快照：封禁或登出后 TokenVersion 变化即令旧 token 失效
type UserAuthState struct {
	UserID       uint   `json:"user_id"`
	TelegramID   int64  `json:"telegram_id"`
	Status       string `json:"status"`
	TokenVersion uint64 `json:"token_version"`
	UpdatedAt    int64  `json:"updated_at"`
}

// AdminAuthState 管理员鉴权快照
type AdminAuthState struct {
	AdminID      uint   `json:"admin_id"`
	Username     string `json:"username"`
	TokenVersion uint64 `json:"token_version"`
	IsSuper      bool   `json:"is_super"`
	UpdatedAt    int64  `json:"updated_at"`
}

func authKey(kind string, id uint) string {
	return "auth:" + kind + ":" + strconv.FormatUint(uint64(id), 10)
}

func loadAuth[T any](ctx context.Context, kind string, id uint) (*T, bool, error) {
	if id == 0 {
		return nil, false, nil
	}
	state := new(T)
	hit, err := GetJSON(ctx, authKey(kind, id), state)
	if err != nil || !hit {
		return nil, false, err
	}
	return state, true, nil
}

func storeAuth(ctx context.Context, kind string, id uint, state interface{}) error {
	if id == 0 {
		return nil
	}
	return SetJSON(ctx, authKey(kind, id), state, AuthStateTTL)
}

// BuildUserAuthState 由用户模型生成快照
func BuildUserAuthState(user *models.User) *UserAuthState {
	if user == nil {
		return nil
	}
	return &UserAuthState{
		UserID:       user.ID,
		TelegramID:   user.TelegramID,
		Status:       user.Status,
		TokenVersion: user.TokenVersion,
		UpdatedAt:    time.Now().Unix(),
	}
}

// BuildAdminAuthState 由管理员模型生成快照
func BuildAdminAuthState(admin *models.Admin) *AdminAuthState {
	if admin == nil {
		return nil
	}
	return &AdminAuthState{
		AdminID:      admin.ID,
		Username:     admin.Username,
		TokenVersion: admin.TokenVersion,
		IsSuper:      admin.IsSuper,
		UpdatedAt:    time.Now().Unix(),
	}
}

// GetUserAuthState 读取买家快照
func GetUserAuthState(ctx context.Context, userID uint) (*UserAuthState, bool, error) {
	return loadAuth[UserAuthState](ctx, "user", userID)
}

// SetUserAuthState 写入买家快照
func SetUserAuthState(ctx context.Context, state *UserAuthState) error {
	if state == nil {
		return nil
	}
	return storeAuth(ctx, "user", state.UserID, state)
}

// DelUserAuthState 删除买家快照
func DelUserAuthState(ctx context.Context, userID uint) error {
	if userID == 0 {
		return nil
	}
	return Del(ctx, authKey("user", userID))
}

// GetAdminAuthState 读取管理员快照
func GetAdminAuthState(ctx context.Context, adminID uint) (*AdminAuthState, bool, error) {
	return loadAuth[AdminAuthState](ctx, "admin", adminID)
}

// SetAdminAuthState 写入管理员快照
func SetAdminAuthState(ctx context.Context, state *AdminAuthState) error {
	if state == nil {
		return nil
	}
	return storeAuth(ctx, "admin", state.AdminID, state)
}

// DelAdminAuthState 删除管理员快照
func DelAdminAuthState(ctx context.Context, adminID uint) error {
	if adminID == 0 {
		return nil
	}
	return Del(ctx, authKey("admin", adminID))
}
