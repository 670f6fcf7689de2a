package models

import (
	"fmt"
	"testing"
	"time"

	"github.com/ram-us/internal/config"

	gormlogger "gorm.io/gorm/logger"
)

func TestDialectorRejectsUnknownDriver(t *testing.T) {
	if _, err := Dialector("mysql", "dsn"); err == nil {
		t.Fatalf("mysql is not supported")
	}
	for _, driver := range []string{"", "SQLite", "postgres", " postgresql "} {
		if _, err := Dialector(driver, "dsn"); err != nil {
			t.Fatalf("driver %q should be accepted: %v", driver, err)
		}
	}
}

func TestOpenMigratesAllModels(t *testing.T) {
	dsn := fmt.Sprintf("file:models_open_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := Open(config.DatabaseConfig{
		DSN:  dsn,
		Pool: config.DatabasePoolConfig{MaxOpenConns: 1, MaxIdleConns: 1},
	}, gormlogger.Silent)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if err := db.AutoMigrate(AllModels()...); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db failed: %v", err)
	}
	if sqlDB.Stats().MaxOpenConnections != 1 {
		t.Fatalf("pool not applied: %+v", sqlDB.Stats())
	}
	for _, table := range []string{"orders", "products", "sellers", "state_blobs"} {
		if !db.Migrator().HasTable(table) {
			t.Fatalf("table %s missing", table)
		}
	}
}

func TestInitDefaultAdminOnlyOnce(t *testing.T) {
	dsn := fmt.Sprintf("file:models_admin_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := Open(config.DatabaseConfig{DSN: dsn, Pool: config.DatabasePoolConfig{MaxOpenConns: 1, MaxIdleConns: 1}}, gormlogger.Silent)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if err := db.AutoMigrate(&Admin{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	if err := InitDefaultAdmin(db, " Owner ", "owner-password"); err != nil {
		t.Fatalf("init admin failed: %v", err)
	}
	if err := InitDefaultAdmin(db, "second", "another-password"); err != nil {
		t.Fatalf("second init failed: %v", err)
	}
	var admins []Admin
	if err := db.Find(&admins).Error; err != nil {
		t.Fatalf("list admins failed: %v", err)
	}
	if len(admins) != 1 || admins[0].Username != "owner" || !admins[0].IsSuper {
		t.Fatalf("unexpected admins %+v", admins)
	}
}
