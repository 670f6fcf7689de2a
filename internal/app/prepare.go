package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ram-us/internal/config"
	"github.com/ram-us/internal/logger"
	"github.com/ram-us/internal/models"
)

const minSecretLength = 32

var placeholderSecrets = []string{"change-me", "change-in-production", "your-secret-key"}

// AdminSeed 首次启动的超级管理员，来自 RAMUS_DEFAULT_ADMIN_* 环境变量
type AdminSeed struct {
	Username string
	Password string
}

// WeakSecrets 返回过短或仍为占位值的 JWT 密钥名
func WeakSecrets(cfg *config.Config) []string {
	var weak []string
	for _, s := range []struct {
		name   string
		secret string
	}{
		{"jwt", cfg.JWT.SecretKey},
		{"user_jwt", cfg.UserJWT.SecretKey},
	} {
		if isWeakSecret(s.secret) {
			weak = append(weak, s.name)
		}
	}
	return weak
}

func isWeakSecret(secret string) bool {
	if len(secret) < minSecretLength {
		return true
	}
	lower := strings.ToLower(secret)
	for _, p := range placeholderSecrets {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// Prepare 校验密钥、连接数据库、迁移并初始化管理员；release 模式下弱密钥直接失败
func Prepare(cfg *config.Config, seed AdminSeed) error {
	if cfg == nil {
		return errors.New("config is nil")
	}
	release := cfg.Server.Mode == "release"
	if weak := WeakSecrets(cfg); len(weak) > 0 {
		if release {
			return fmt.Errorf("weak secrets in release mode: %s", strings.Join(weak, ", "))
		}
		logger.Warnw("app_weak_secrets", "secrets", weak)
	}

	if err := models.InitDB(cfg.Database); err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	if err := models.AutoMigrate(); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	if release && seed.Password == "" {
		logger.Warnw("app_default_admin_skipped", "reason", "RAMUS_DEFAULT_ADMIN_PASSWORD not set")
		return nil
	}
	if err := models.InitDefaultAdmin(models.DB, seed.Username, seed.Password); err != nil {
		logger.Warnw("app_default_admin_failed", "error", err)
	}
	return nil
}
