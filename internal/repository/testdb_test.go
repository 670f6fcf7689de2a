package repository

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/ram-us/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// openTestDB 为每个测试创建独立的内存 sqlite 数据库
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return db
}
