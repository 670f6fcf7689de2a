package repository

import (
	"strings"
	"time"

	"github.com/ram-us/internal/models"

	"gorm.io/gorm"
)

// AdminRepository 管理员账号存取；查不到时返回 nil, nil
type AdminRepository interface {
	GetByUsername(username string) (*models.Admin, error)
	GetByID(id uint) (*models.Admin, error)
	List() ([]models.Admin, error)
	Create(admin *models.Admin) error
	Update(admin *models.Admin) error
	Delete(id uint) error
	TouchLastLogin(id uint, at time.Time, ip string) error
	RevokeTokens(id uint) error
}

// GormAdminRepository AdminRepository 的 gorm 实现
type GormAdminRepository struct {
	db *gorm.DB
}

// NewAdminRepository 创建管理员仓库
func NewAdminRepository(db *gorm.DB) *GormAdminRepository {
	return &GormAdminRepository{db: db}
}

// NormalizeUsername 去空格并转小写，登录与建号共用
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

func (r *GormAdminRepository) byID(id uint) *gorm.DB {
	return r.db.Model(&models.Admin{}).Where("id = ?", id)
}

func (r *GormAdminRepository) GetByUsername(username string) (*models.Admin, error) {
	return findOne[models.Admin](r.db.Where("username = ?", NormalizeUsername(username)))
}

func (r *GormAdminRepository) GetByID(id uint) (*models.Admin, error) {
	return findOne[models.Admin](r.db.Where("id = ?", id))
}

// List 按 ID 升序，只取列表需要的列
func (r *GormAdminRepository) List() ([]models.Admin, error) {
	admins := make([]models.Admin, 0)
	err := r.db.Select("id", "username", "is_super", "last_login_at", "last_login_ip", "created_at").
		Order("id").Find(&admins).Error
	return admins, err
}

func (r *GormAdminRepository) Create(admin *models.Admin) error {
	admin.Username = NormalizeUsername(admin.Username)
	return r.db.Create(admin).Error
}

func (r *GormAdminRepository) Update(admin *models.Admin) error {
	return r.db.Save(admin).Error
}

// Delete 软删除；id 为 0 时忽略
func (r *GormAdminRepository) Delete(id uint) error {
	if id == 0 {
		return nil
	}
	return r.db.Delete(&models.Admin{}, id).Error
}

func (r *GormAdminRepository) TouchLastLogin(id uint, at time.Time, ip string) error {
	return r.byID(id).Updates(models.Admin{LastLoginAt: &at, LastLoginIP: strings.TrimSpace(ip)}).Error
}

// RevokeTokens token_version 自增，已签发的 Token 随即失效
func (r *GormAdminRepository) RevokeTokens(id uint) error {
	return r.byID(id).UpdateColumn("token_version", gorm.Expr("token_version + ?", 1)).Error
}
