package service

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/ram-us/internal/models"
	"github.com/ram-us/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func openServiceTestDB(t *testing.T) *gorm.DB {
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

func mustMoney(t *testing.T, raw string) models.Money {
	t.Helper()
	m, err := models.NewMoneyFromString(raw)
	if err != nil {
		t.Fatalf("parse money %q failed: %v", raw, err)
	}
	return m
}

func createTestProduct(t *testing.T, db *gorm.DB, name, price string, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		CategoryID: 1,
		Name:       name,
		PartNumber: "PN-" + name,
		PriceRub:   mustMoney(t, price),
		Stock:      stock,
		IsActive:   true,
	}
	if err := repository.NewProductRepository(db).Create(product); err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func reloadProduct(t *testing.T, db *gorm.DB, id uint) *models.Product {
	t.Helper()
	product, err := repository.NewProductRepository(db).GetByID(id)
	if err != nil || product == nil {
		t.Fatalf("reload product %d failed: %v", id, err)
	}
	return product
}
