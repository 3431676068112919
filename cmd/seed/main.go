package main

import (
	"time"

	"github.com/sabor-next/internal/config"
	"github.com/sabor-next/internal/constants"
	"github.com/sabor-next/internal/logger"
	"github.com/sabor-next/internal/models"

	"github.com/shopspring/decimal"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 默认超级管理员
	if err := models.InitDefaultAdmin("", ""); err != nil {
		stdLog.Printf("Failed to init default admin: %v", err)
	}

	// 菜单分类
	categories := []models.Category{
		{Slug: "starters", Name: "Entrantes", SortOrder: 10},
		{Slug: "mains", Name: "Platos principales", SortOrder: 20},
		{Slug: "drinks", Name: "Bebidas", SortOrder: 30},
		{Slug: "desserts", Name: "Postres", SortOrder: 40},
	}
	for _, cat := range categories {
		var existing models.Category
		if err := models.DB.Where("slug = ?", cat.Slug).First(&existing).Error; err != nil {
			if err := models.DB.Create(&cat).Error; err != nil {
				stdLog.Printf("Failed to create category %s: %v", cat.Slug, err)
			} else {
				stdLog.Printf("Created category: %s", cat.Slug)
			}
		} else {
			stdLog.Printf("Category already exists: %s", cat.Slug)
		}
	}

	// 获取分类ID
	categoryIDs := map[string]uint{}
	var categoryList []models.Category
	if err := models.DB.Where("slug IN ?", []string{"starters", "mains", "drinks", "desserts"}).Find(&categoryList).Error; err != nil {
		stdLog.Printf("Failed to load categories: %v", err)
	}
	for _, cat := range categoryList {
		categoryIDs[cat.Slug] = cat.ID
	}

	money := func(v float64) models.Money {
		return models.NewMoneyFromDecimal(decimal.NewFromFloat(v))
	}

	// 菜品与规格
	products := []models.Product{
		{
			CategoryID:  categoryIDs["starters"],
			Slug:        "patatas-bravas",
			Name:        "Patatas bravas",
			Description: "Patatas fritas con salsa brava casera",
			PriceAmount: money(5.50),
			Tags:        models.StringArray([]string{"vegetariano", "picante"}),
			IsActive:    true,
			SortOrder:   10,
		},
		{
			CategoryID:  categoryIDs["mains"],
			Slug:        "paella-valenciana",
			Name:        "Paella valenciana",
			Description: "Arroz con pollo, conejo y verduras de temporada",
			PriceAmount: money(14.90),
			Tags:        models.StringArray([]string{"recomendado"}),
			Allergens:   models.StringArray([]string{"mariscos"}),
			IsActive:    true,
			SortOrder:   10,
			Variants: []models.ProductVariant{
				{Name: "individual", PriceAmount: money(14.90), IsActive: true, SortOrder: 10},
				{Name: "para dos", PriceAmount: money(26.50), IsActive: true, SortOrder: 20},
			},
		},
		{
			CategoryID:  categoryIDs["mains"],
			Slug:        "hamburguesa-clasica",
			Name:        "Hamburguesa clásica",
			Description: "Carne de ternera, queso y pan brioche",
			PriceAmount: money(9.80),
			Allergens:   models.StringArray([]string{"gluten", "lácteos"}),
			IsActive:    true,
			SortOrder:   20,
		},
		{
			CategoryID:  categoryIDs["drinks"],
			Slug:        "limonada",
			Name:        "Limonada casera",
			Description: "Limonada natural con hierbabuena",
			PriceAmount: money(3.20),
			IsActive:    true,
			SortOrder:   10,
			Variants: []models.ProductVariant{
				{Name: "vaso", PriceAmount: money(3.20), IsActive: true, SortOrder: 10},
				{Name: "jarra", PriceAmount: money(7.50), IsActive: true, SortOrder: 20},
			},
		},
		{
			CategoryID:  categoryIDs["drinks"],
			Slug:        "cana",
			Name:        "Caña",
			Description: "Cerveza de barril",
			PriceAmount: money(2.50),
			IsActive:    true,
			SortOrder:   20,
		},
		{
			CategoryID:  categoryIDs["desserts"],
			Slug:        "flan-casero",
			Name:        "Flan casero",
			Description: "Flan de huevo con caramelo",
			PriceAmount: money(4.20),
			Allergens:   models.StringArray([]string{"huevo", "lácteos"}),
			IsActive:    true,
			SortOrder:   10,
		},
	}

	productIDs := map[string]uint{}
	variantIDs := map[string]uint{}
	for _, prod := range products {
		var existing models.Product
		if err := models.DB.Where("slug = ?", prod.Slug).First(&existing).Error; err != nil {
			if err := models.DB.Create(&prod).Error; err != nil {
				stdLog.Printf("Failed to create product %s: %v", prod.Slug, err)
				continue
			}
			stdLog.Printf("Created product: %s", prod.Slug)
			productIDs[prod.Slug] = prod.ID
			for _, v := range prod.Variants {
				variantIDs[prod.Slug+"/"+v.Name] = v.ID
			}
		} else {
			stdLog.Printf("Product already exists: %s", prod.Slug)
			productIDs[prod.Slug] = existing.ID
			var variants []models.ProductVariant
			if err := models.DB.Where("product_id = ?", existing.ID).Find(&variants).Error; err == nil {
				for _, v := range variants {
					variantIDs[prod.Slug+"/"+v.Name] = v.ID
				}
			}
		}
	}

	uintPtr := func(v uint) *uint {
		if v == 0 {
			return nil
		}
		return &v
	}
	strPtr := func(v string) *string { return &v }

	// 促销活动
	today := time.Now()
	monthEnd := today.AddDate(0, 1, 0)

	var count int64
	models.DB.Model(&models.Promotion{}).Count(&count)
	if count > 0 {
		stdLog.Printf("Promotions already seeded, skipping")
		return
	}

	promotions := []models.Promotion{
		{
			Type:        constants.PromotionTypeDailySpecial,
			Name:        "Menú del día: paella",
			Description: "Paella individual a precio especial, solo mediodía entre semana",
			ProductID:   uintPtr(productIDs["paella-valenciana"]),
			VariantID:   uintPtr(variantIDs["paella-valenciana/individual"]),
			PriceAmount: money(11.90),
			IsActive:    true,
			SortOrder:   10,
			ValidFrom:   &today,
			ValidUntil:  &monthEnd,
			TimeFrom:    strPtr("12:00:00"),
			TimeUntil:   strPtr("16:00:00"),
			Weekdays:    models.IntArray([]int{1, 2, 3, 4, 5}),
		},
		{
			Type:        constants.PromotionTypeTwoForOne,
			Name:        "2x1 en cañas",
			Description: "Dos cañas al precio de una, todos los jueves",
			ProductID:   uintPtr(productIDs["cana"]),
			IsActive:    true,
			SortOrder:   20,
			Weekdays:    models.IntArray([]int{4}),
		},
		{
			Type:            constants.PromotionTypePercentageDiscount,
			Name:            "Postres al 20%",
			Description:     "Descuento en flan casero por las tardes",
			ProductID:       uintPtr(productIDs["flan-casero"]),
			DiscountPercent: money(20),
			IsActive:        true,
			SortOrder:       30,
			TimeFrom:        strPtr("17:00:00"),
			TimeUntil:       strPtr("20:00:00"),
		},
		{
			Type:        constants.PromotionTypeBundleSpecial,
			Name:        "Combo hamburguesa",
			Description: "Hamburguesa clásica con bebida a elegir",
			PriceAmount: money(11.50),
			IsActive:    true,
			SortOrder:   40,
			Items: []models.BundlePromotionItem{
				{
					ProductID: uintPtr(productIDs["hamburguesa-clasica"]),
					Quantity:  1,
					SortOrder: 10,
				},
				{
					IsChoiceGroup: true,
					ChoiceLabel:   "elige tu bebida",
					Quantity:      1,
					SortOrder:     20,
					Options: []models.BundlePromotionItemOption{
						{ProductID: productIDs["limonada"], VariantID: uintPtr(variantIDs["limonada/vaso"]), SortOrder: 10},
						{ProductID: productIDs["cana"], SortOrder: 20},
					},
				},
			},
		},
	}

	for _, promo := range promotions {
		if err := models.DB.Create(&promo).Error; err != nil {
			stdLog.Printf("Failed to create promotion %s: %v", promo.Name, err)
		} else {
			stdLog.Printf("Created promotion: %s", promo.Name)
		}
	}

	stdLog.Printf("Seed completed")
}
