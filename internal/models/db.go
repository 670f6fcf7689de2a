package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/ram-us/internal/config"
	applog "github.com/ram-us/internal/logger"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DB 进程级数据库句柄，由 InitDB 设置
var DB *gorm.DB

const slowQueryThreshold = 500 * time.Millisecond

// Dialector 按驱动名选择方言：sqlite（默认，纯 Go）或 postgres
func Dialector(driver, dsn string) (gorm.Dialector, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", "sqlite":
		return sqlite.Open(dsn), nil
	case "postgres", "postgresql":
		return postgres.Open(dsn), nil
	}
	return nil, fmt.Errorf("unsupported database driver: %s", driver)
}

// Open 打开数据库并应用连接池，SQL 日志写入 zap
func Open(cfg config.DatabaseConfig, level gormlogger.LogLevel) (*gorm.DB, error) {
	dialector, err := Dialector(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, err
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.New(applog.StdLogger(), gormlogger.Config{
			SlowThreshold:             slowQueryThreshold,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	pool := cfg.Pool
	if pool.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(pool.MaxOpenConns)
	}
	if pool.MaxIdleConns >= 0 {
		sqlDB.SetMaxIdleConns(pool.MaxIdleConns)
	}
	if pool.ConnMaxLifetimeSeconds > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(pool.ConnMaxLifetimeSeconds) * time.Second)
	}
	if pool.ConnMaxIdleTimeSeconds > 0 {
		sqlDB.SetConnMaxIdleTime(time.Duration(pool.ConnMaxIdleTimeSeconds) * time.Second)
	}
	return db, nil
}

// InitDB 打开主库并设置 DB
func InitDB(cfg config.DatabaseConfig) error {
	db, err := Open(cfg, gormlogger.Warn)
	if err != nil {
		return err
	}
	DB = db
	return nil
}

// AllModels 需要迁移的全部模型
func AllModels() []interface{} {
	return []interface{}{
		&Admin{},
		&AuthzAuditLog{},
		&User{},
		&Category{},
		&Product{},
		&Favorite{},
		&StateBlob{},
		&Order{},
		&OrderItem{},
		&Payment{},
		&Seller{},
		&Listing{},
		&ShowcaseItem{},
		&Preorder{},
	}
}

// AutoMigrate 迁移主库
func AutoMigrate() error {
	if DB == nil {
		return fmt.Errorf("database not initialized")
	}
	return DB.AutoMigrate(AllModels()...)
}
