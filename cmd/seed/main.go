package main

import (
	"fmt"

	"github.com/ram-us/internal/config"
	"github.com/ram-us/internal/logger"
	"github.com/ram-us/internal/models"

	"github.com/shopspring/decimal"
)

type seedProduct struct {
	category      string
	name          string
	partNumber    string
	brand         string
	price         float64
	stock         int
	weightGrams   int
	installment   bool
	compatibility []string
	image         string
}

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 添加分类
	categories := []models.Category{
		{Slug: "engine", Name: "Двигатель", SortOrder: 50},
		{Slug: "brakes", Name: "Тормозная система", SortOrder: 40},
		{Slug: "suspension", Name: "Подвеска", SortOrder: 30},
		{Slug: "filters", Name: "Фильтры", SortOrder: 20},
		{Slug: "electrics", Name: "Электрика", SortOrder: 10},
	}
	categoryIDs := make(map[string]uint, len(categories))
	for _, cat := range categories {
		var existing models.Category
		if err := models.DB.Where("slug = ?", cat.Slug).First(&existing).Error; err != nil {
			cat.IsActive = true
			if err := models.DB.Create(&cat).Error; err != nil {
				stdLog.Printf("Failed to create category %s: %v", cat.Slug, err)
				continue
			}
			stdLog.Printf("Created category: %s", cat.Slug)
			categoryIDs[cat.Slug] = cat.ID
			continue
		}
		stdLog.Printf("Category already exists: %s", cat.Slug)
		categoryIDs[cat.Slug] = existing.ID
	}

	// 添加配件
	products := []seedProduct{
		{"engine", "Ремень ГРМ", "TB-1520", "Gates", 2890, 14, 450, false, []string{"Lada Vesta 1.6", "Lada XRAY 1.6"}, "https://images.unsplash.com/photo-1486262715619-67b85e0b08d3?w=800"},
		{"engine", "Свеча зажигания иридиевая", "SP-IR7", "NGK", 790, 120, 60, false, []string{"Kia Rio 1.6", "Hyundai Solaris 1.6"}, ""},
		{"brakes", "Колодки тормозные передние", "BP-2210", "Brembo", 4350, 22, 1800, true, []string{"Volkswagen Polo 2015-2020", "Skoda Rapid"}, "https://images.unsplash.com/photo-1600661653561-629509216228?w=800"},
		{"brakes", "Диск тормозной вентилируемый", "BD-2802", "TRW", 6120, 8, 6500, true, []string{"Toyota Camry XV70"}, ""},
		{"suspension", "Амортизатор задний газовый", "SA-3340", "Kayaba", 5480, 10, 2900, true, []string{"Renault Logan II", "Renault Sandero II"}, ""},
		{"suspension", "Шаровая опора", "BJ-0117", "Lemförder", 1960, 30, 520, false, []string{"Ford Focus III"}, ""},
		{"filters", "Фильтр масляный", "OF-0610", "MANN-FILTER", 540, 200, 350, false, []string{"Lada Granta", "Lada Kalina"}, ""},
		{"filters", "Фильтр салонный угольный", "CF-1180", "Bosch", 1120, 65, 300, false, []string{"Kia Sportage IV", "Hyundai Tucson III"}, ""},
		{"electrics", "Аккумулятор 60 Ач", "AB-6000", "Varta", 9890, 6, 15000, true, []string{}, "https://images.unsplash.com/photo-1619642751034-765dfdf7c58e?w=800"},
		{"electrics", "Лампа H7 +130%", "LH7-130", "Osram", 890, 0, 80, false, []string{}, ""},
	}
	productIDs := make([]uint, 0, len(products))
	for i, item := range products {
		categoryID, ok := categoryIDs[item.category]
		if !ok {
			stdLog.Printf("Skip product %s: category %s missing", item.partNumber, item.category)
			continue
		}
		var existing models.Product
		if err := models.DB.Where("part_number = ?", item.partNumber).First(&existing).Error; err == nil {
			stdLog.Printf("Product already exists: %s", item.partNumber)
			productIDs = append(productIDs, existing.ID)
			continue
		}
		product := models.Product{
			CategoryID:             categoryID,
			Name:                   item.name,
			PartNumber:             item.partNumber,
			Brand:                  item.brand,
			PriceRub:               models.NewMoneyFromDecimal(decimal.NewFromFloat(item.price)),
			ImageURL:               item.image,
			Compatibility:          models.StringArray(item.compatibility),
			IsInstallmentAvailable: item.installment,
			Stock:                  item.stock,
			WeightGrams:            item.weightGrams,
			IsActive:               true,
			SortOrder:              len(products) - i,
		}
		if item.image != "" {
			product.Images = models.StringArray([]string{item.image})
		}
		if err := models.DB.Create(&product).Error; err != nil {
			stdLog.Printf("Failed to create product %s: %v", item.partNumber, err)
			continue
		}
		stdLog.Printf("Created product: %s", item.partNumber)
		productIDs = append(productIDs, product.ID)
	}

	// 首页橱窗取前 4 个配件
	var showcaseCount int64
	if err := models.DB.Model(&models.ShowcaseItem{}).Count(&showcaseCount).Error; err != nil {
		stdLog.Printf("Failed to count showcase: %v", err)
	} else if showcaseCount == 0 {
		for position, id := range productIDs {
			if position >= 4 {
				break
			}
			if err := models.DB.Create(&models.ShowcaseItem{ProductID: id, Position: position}).Error; err != nil {
				stdLog.Printf("Failed to create showcase item %d: %v", id, err)
			}
		}
		stdLog.Println("Created showcase")
	}

	fmt.Println("\n✅ Catalog data created successfully!")
	fmt.Println("Summary:")
	fmt.Printf("- %d Categories\n", len(categoryIDs))
	fmt.Printf("- %d Products\n", len(productIDs))
	fmt.Println("- Showcase (up to 4 products)")
}
