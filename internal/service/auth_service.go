package service

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/ram-us/internal/cache"
	"github.com/ram-us/internal/config"
	"github.com/ram-us/internal/logger"
	"github.com/ram-us/internal/models"
	"github.com/ram-us/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength 管理员密码最少字符数
const MinPasswordLength = 8

// AuthService 后台管理员登录、Token 与账号维护
type AuthService struct {
	cfg       *config.Config
	adminRepo repository.AdminRepository
	now       func() time.Time
}

// NewAuthService 创建管理员认证服务
func NewAuthService(cfg *config.Config, adminRepo repository.AdminRepository) *AuthService {
	return &AuthService{cfg: cfg, adminRepo: adminRepo, now: time.Now}
}

// HashPassword bcrypt 默认代价
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hash), err
}

// VerifyPassword 密码与哈希不符时返回 bcrypt 错误
func (s *AuthService) VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// ValidatePassword 按字符数校验长度
func (s *AuthService) ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	return nil
}

// GenerateJWT 签发管理员 Token，有效期取 jwt.expire_hours
func (s *AuthService) GenerateJWT(admin *models.Admin) (string, time.Time, error) {
	ttl := time.Duration(s.cfg.JWT.ExpireHours) * time.Hour
	claims := JWTClaims{
		AdminID:          admin.ID,
		Username:         admin.Username,
		TokenVersion:     admin.TokenVersion,
		RegisteredClaims: lifetime(s.now(), ttl),
	}
	token, err := signHS256(claims, s.cfg.JWT.SecretKey)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, claims.ExpiresAt.Time, nil
}

// ParseJWT 用配置中的密钥解析管理员 Token
func (s *AuthService) ParseJWT(tokenString string) (*JWTClaims, error) {
	return ParseAdminToken(tokenString, s.cfg.JWT.SecretKey)
}

// ResolveAdminState 鉴权快照，Redis 未命中时回源数据库并回填
func (s *AuthService) ResolveAdminState(ctx context.Context, adminID uint) (*cache.AdminAuthState, error) {
	if state, hit, err := cache.GetAdminAuthState(ctx, adminID); err == nil && hit {
		return state, nil
	}
	admin, err := s.mustAdmin(adminID)
	if err != nil {
		return nil, err
	}
	state := cache.BuildAdminAuthState(admin)
	_ = cache.SetAdminAuthState(ctx, state)
	return state, nil
}

// Login 用户名不区分大小写；成功后记录登录时间与 IP
func (s *AuthService) Login(username, password, ip string) (*models.Admin, string, time.Time, error) {
	admin, err := s.adminRepo.GetByUsername(username)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if admin == nil || s.VerifyPassword(admin.PasswordHash, password) != nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	token, expiresAt, err := s.GenerateJWT(admin)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	now := s.now()
	if err := s.adminRepo.TouchLastLogin(admin.ID, now, ip); err != nil {
		return nil, "", time.Time{}, err
	}
	admin.LastLoginAt, admin.LastLoginIP = &now, ip
	s.refreshState(admin)
	logger.Infow("admin_login", "admin_id", admin.ID, "ip", ip)
	return admin, token, expiresAt, nil
}

// ChangePassword 校验旧密码后更新，并递增 TokenVersion 使旧 Token 失效
func (s *AuthService) ChangePassword(adminID uint, oldPassword, newPassword string) error {
	admin, err := s.mustAdmin(adminID)
	if err != nil {
		return err
	}
	if s.VerifyPassword(admin.PasswordHash, oldPassword) != nil {
		return ErrInvalidPassword
	}
	if err := s.ValidatePassword(newPassword); err != nil {
		return err
	}
	if admin.PasswordHash, err = s.HashPassword(newPassword); err != nil {
		return err
	}
	admin.TokenVersion++
	if err := s.adminRepo.Update(admin); err != nil {
		return err
	}
	s.refreshState(admin)
	return nil
}

// ListAdmins 全部管理员
func (s *AuthService) ListAdmins() ([]models.Admin, error) {
	return s.adminRepo.List()
}

// CreateAdmin 创建普通管理员，用户名小写去空格
func (s *AuthService) CreateAdmin(username, password string) (*models.Admin, error) {
	username = repository.NormalizeUsername(username)
	if username == "" {
		return nil, ErrInvalidInput
	}
	if err := s.ValidatePassword(password); err != nil {
		return nil, err
	}
	switch existing, err := s.adminRepo.GetByUsername(username); {
	case err != nil:
		return nil, err
	case existing != nil:
		return nil, ErrAdminExists
	}
	hash, err := s.HashPassword(password)
	if err != nil {
		return nil, err
	}
	admin := &models.Admin{Username: username, PasswordHash: hash}
	if err := s.adminRepo.Create(admin); err != nil {
		return nil, err
	}
	return admin, nil
}

// DeleteAdmin 吊销 Token 后软删除；超级管理员不可删除
func (s *AuthService) DeleteAdmin(adminID uint) error {
	admin, err := s.mustAdmin(adminID)
	if err != nil {
		return err
	}
	if admin.IsSuper {
		return ErrInvalidInput
	}
	if err := s.adminRepo.RevokeTokens(adminID); err != nil {
		return err
	}
	_ = cache.DelAdminAuthState(context.Background(), adminID)
	return s.adminRepo.Delete(adminID)
}

func (s *AuthService) mustAdmin(adminID uint) (*models.Admin, error) {
	admin, err := s.adminRepo.GetByID(adminID)
	if err != nil {
		return nil, err
	}
	if admin == nil {
		return nil, ErrNotFound
	}
	return admin, nil
}

func (s *AuthService) refreshState(admin *models.Admin) {
	_ = cache.SetAdminAuthState(context.Background(), cache.BuildAdminAuthState(admin))
}
