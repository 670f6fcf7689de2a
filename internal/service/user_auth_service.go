package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ram-us/internal/cache"
	"github.com/ram-us/internal/config"
	"github.com/ram-us/internal/constants"
	"github.com/ram-us/internal/logger"
	"github.com/ram-us/internal/models"
	"github.com/ram-us/internal/repository"
	"github.com/ram-us/internal/telegram"
)

const defaultUserTokenHours = 168

// UserAuthService Telegram 买家认证服务
type UserAuthService struct {
	cfg      *config.Config
	userRepo repository.UserRepository
	now      func() time.Time
}

// NewUserAuthService 创建用户认证服务
func NewUserAuthService(cfg *config.Config, userRepo repository.UserRepository) *UserAuthService {
	return &UserAuthService{
		cfg:      cfg,
		userRepo: userRepo,
		now:      time.Now,
	}
}

// GenerateUserJWT 签发买家 Token，默认有效期 7 天
func (s *UserAuthService) GenerateUserJWT(user *models.User) (string, time.Time, error) {
	hours := s.cfg.UserJWT.ExpireHours
	if hours <= 0 {
		hours = defaultUserTokenHours
	}
	claims := UserJWTClaims{
		UserID:           user.ID,
		TelegramID:       user.TelegramID,
		TokenVersion:     user.TokenVersion,
		RegisteredClaims: lifetime(s.now(), time.Duration(hours)*time.Hour),
	}
	token, err := signHS256(claims, s.cfg.UserJWT.SecretKey)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, claims.ExpiresAt.Time, nil
}

// ParseUserJWT 用配置中的密钥解析买家 Token
func (s *UserAuthService) ParseUserJWT(tokenString string) (*UserJWTClaims, error) {
	return ParseUserToken(tokenString, s.cfg.UserJWT.SecretKey)
}

// LoginTelegram 校验 initData，创建或更新用户并签发 Token
func (s *UserAuthService) LoginTelegram(initData string) (*models.User, string, time.Time, error) {
	maxAge := time.Duration(s.cfg.Telegram.InitDataMaxAgeSec) * time.Second
	data, err := telegram.ValidateInitData(initData, s.cfg.Telegram.BotToken, maxAge, s.now())
	if err != nil {
		if errors.Is(err, telegram.ErrInitDataExpired) {
			return nil, "", time.Time{}, ErrInitDataExpired
		}
		logger.Debugw("telegram_init_data_rejected", "error", err)
		return nil, "", time.Time{}, ErrInitDataInvalid
	}

	user, err := s.upsertUser(data.User)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if user.Status == constants.UserStatusDisabled {
		return nil, "", time.Time{}, ErrUserDisabled
	}

	token, expiresAt, err := s.GenerateUserJWT(user)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	_ = cache.SetUserAuthState(context.Background(), cache.BuildUserAuthState(user))
	return user, token, expiresAt, nil
}

func (s *UserAuthService) upsertUser(tgUser telegram.WebAppUser) (*models.User, error) {
	if tgUser.ID == 0 {
		return nil, ErrInitDataInvalid
	}
	now := s.now()
	user, created, err := s.userRepo.SaveTelegramProfile(models.User{
		TelegramID:   tgUser.ID,
		Username:     strings.TrimSpace(tgUser.Username),
		FirstName:    strings.TrimSpace(tgUser.FirstName),
		LastName:     strings.TrimSpace(tgUser.LastName),
		LanguageCode: strings.TrimSpace(tgUser.LanguageCode),
		PhotoURL:     strings.TrimSpace(tgUser.PhotoURL),
		LastLoginAt:  &now,
	})
	if err != nil {
		return nil, err
	}
	if created {
		logger.Infow("telegram_user_registered", "user_id", user.ID, "telegram_id", user.TelegramID)
	}
	return user, nil
}

// ResolveUserState 读取用户鉴权快照，优先 Redis
func (s *UserAuthService) ResolveUserState(ctx context.Context, userID uint) (*cache.UserAuthState, error) {
	if state, hit, err := cache.GetUserAuthState(ctx, userID); err == nil && hit {
		return state, nil
	}
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	state := cache.BuildUserAuthState(user)
	_ = cache.SetUserAuthState(ctx, state)
	return state, nil
}

// GetUser 获取用户
func (s *UserAuthService) GetUser(userID uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

// ListUsers 管理端用户列表
func (s *UserAuthService) ListUsers(filter repository.UserListFilter) ([]models.User, int64, error) {
	return s.userRepo.List(filter)
}

// SetUserStatus 管理端启用/禁用用户
func (s *UserAuthService) SetUserStatus(userID uint, status string) error {
	status = strings.TrimSpace(status)
	if status != constants.UserStatusActive && status != constants.UserStatusDisabled {
		return ErrInvalidInput
	}
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrNotFound
	}
	if err := s.userRepo.UpdateStatus(userID, status); err != nil {
		return err
	}
	_ = cache.DelUserAuthState(context.Background(), userID)
	return nil
}
