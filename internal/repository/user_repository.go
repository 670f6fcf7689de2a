package repository

import (
	"time"

	"github.com/ram-us/internal/constants"
	"github.com/ram-us/internal/models"

	"gorm.io/gorm"
)

// telegramProfileColumns 每次登录从 initData 刷新的列
var telegramProfileColumns = []string{"username", "first_name", "last_name", "language_code", "photo_url", "last_login_at"}

// UserRepository Telegram 买家
type UserRepository interface {
	GetByTelegramID(telegramID int64) (*models.User, error)
	GetByID(id uint) (*models.User, error)
	SaveTelegramProfile(profile models.User) (*models.User, bool, error)
	List(filter UserListFilter) ([]models.User, int64, error)
	UpdateStatus(userID uint, status string) error
}

// GormUserRepository GORM 实现
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓库
func NewUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) first(db *gorm.DB, query string, arg interface{}) (*models.User, error) {
	var users []models.User
	if err := db.Where(query, arg).Limit(1).Find(&users).Error; err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, nil
	}
	return &users[0], nil
}

// GetByTelegramID 不存在返回 nil
func (r *GormUserRepository) GetByTelegramID(telegramID int64) (*models.User, error) {
	return r.first(r.db, "telegram_id = ?", telegramID)
}

// GetByID 不存在返回 nil
func (r *GormUserRepository) GetByID(id uint) (*models.User, error) {
	return r.first(r.db, "id = ?", id)
}

// SaveTelegramProfile 按 telegram_id 新建或刷新资料；状态与 token 版本不受影响
func (r *GormUserRepository) SaveTelegramProfile(profile models.User) (*models.User, bool, error) {
	var (
		saved   *models.User
		created bool
	)
	err := r.db.Transaction(func(tx *gorm.DB) error {
		existing, err := r.first(tx, "telegram_id = ?", profile.TelegramID)
		if err != nil {
			return err
		}
		if existing == nil {
			if profile.Status == "" {
				profile.Status = constants.UserStatusActive
			}
			created = true
			saved = &profile
			return tx.Create(saved).Error
		}
		existing.Username = profile.Username
		existing.FirstName = profile.FirstName
		existing.LastName = profile.LastName
		existing.LanguageCode = profile.LanguageCode
		existing.PhotoURL = profile.PhotoURL
		existing.LastLoginAt = profile.LastLoginAt
		saved = existing
		return tx.Model(existing).Select(telegramProfileColumns).Updates(existing).Error
	})
	if err != nil {
		return nil, false, err
	}
	return saved, created, nil
}

// List 后台买家列表
func (r *GormUserRepository) List(filter UserListFilter) ([]models.User, int64, error) {
	query := applyKeywordSearch(r.db.Model(&models.User{}), filter.Keyword, "username", "first_name", "last_name", "phone")
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	users := make([]models.User, 0)
	if err := query.Scopes(paginate(filter.Page, filter.PageSize)).Order("id DESC").Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// UpdateStatus 切换状态；禁用时递增 token_version 令旧 token 失效
func (r *GormUserRepository) UpdateStatus(userID uint, status string) error {
	if userID == 0 {
		return nil
	}
	updates := map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	}
	if status == constants.UserStatusDisabled {
		updates["token_version"] = gorm.Expr("token_version + 1")
	}
	return r.db.Model(&models.User{}).Where("id = ?", userID).Updates(updates).Error
}
