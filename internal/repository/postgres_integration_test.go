//go:build integration
// +build integration

package repository

import (
	"os"
	"strings"
	"testing"

	"github.com/ram-us/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// setupPostgresIntegrationDB 初始化 PostgreSQL 集成测试数据库。
func setupPostgresIntegrationDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := strings.TrimSpace(os.Getenv("TEST_POSTGRES_DSN"))
	if dsn == "" {
		t.Skip("skip postgres integration test: TEST_POSTGRES_DSN is empty")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open postgres failed: %v", err)
	}

	all := models.AllModels()
	_ = db.Migrator().DropTable(all...)
	if err := db.AutoMigrate(all...); err != nil {
		t.Fatalf("migrate postgres models failed: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Migrator().DropTable(all...)
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func TestPostgresCyrillicSearchIsCaseInsensitive(t *testing.T) {
	db := setupPostgresIntegrationDB(t)

	category := &models.Category{Slug: "tormoza", Name: "Тормоза", IsActive: true}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("create category failed: %v", err)
	}
	productRepo := NewProductRepository(db)
	product := &models.Product{
		CategoryID: category.ID,
		Name:       "Колодки тормозные передние",
		PartNumber: "0986494524",
		Brand:      "Bosch",
		PriceRub:   models.NewMoneyFromDecimal(decimal.NewFromInt(2490)),
		Stock:      5,
		IsActive:   true,
	}
	if err := productRepo.Create(product); err != nil {
		t.Fatalf("create product failed: %v", err)
	}

	rows, total, err := productRepo.List(ProductListFilter{Page: 1, PageSize: 10, Search: "колодки"})
	if err != nil {
		t.Fatalf("product search failed: %v", err)
	}
	if total != 1 || len(rows) != 1 {
		t.Fatalf("product search want 1 got total=%d len=%d", total, len(rows))
	}

	rows, total, err = productRepo.List(ProductListFilter{Page: 1, PageSize: 10, Search: "bosch"})
	if err != nil {
		t.Fatalf("brand search failed: %v", err)
	}
	if total != 1 || len(rows) != 1 {
		t.Fatalf("brand search want 1 got total=%d len=%d", total, len(rows))
	}
}

func TestPostgresStateBlobUpsert(t *testing.T) {
	repo := NewStateBlobRepository(setupPostgresIntegrationDB(t))
	if err := repo.Put("ram-us-garage:1", []byte(`{"make":"Lada"}`)); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if err := repo.Put("ram-us-garage:1", []byte(`{"make":"Kia"}`)); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	blob, err := repo.Get("ram-us-garage:1")
	if err != nil || blob == nil || !strings.Contains(blob.Value, "Kia") {
		t.Fatalf("unexpected blob=%v err=%v", blob, err)
	}
}
