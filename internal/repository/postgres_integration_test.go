//go:build integration
// +build integration

package repository

import (
	"os"
	"strings"
	"testing"

	"github.com/sabor-next/internal/constants"
	"github.com/sabor-next/internal/models"

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

	cleanupModels := []interface{}{
		&models.BundlePromotionItemOption{},
		&models.BundlePromotionItem{},
		&models.Promotion{},
		&models.OrderItem{},
		&models.Order{},
		&models.ProductVariant{},
		&models.Product{},
		&models.Category{},
	}
	_ = db.Migrator().DropTable(cleanupModels...)

	if err := db.AutoMigrate(
		&models.Category{},
		&models.Product{},
		&models.ProductVariant{},
		&models.Promotion{},
		&models.BundlePromotionItem{},
		&models.BundlePromotionItemOption{},
		&models.Order{},
		&models.OrderItem{},
	); err != nil {
		t.Fatalf("migrate postgres models failed: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Migrator().DropTable(cleanupModels...)
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}

func TestPostgresProductSearchCaseInsensitive(t *testing.T) {
	db := setupPostgresIntegrationDB(t)

	category := &models.Category{Slug: "pg-mains", Name: "Platos principales"}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("create category failed: %v", err)
	}

	productRepo := NewProductRepository(db)
	product := &models.Product{
		CategoryID:  category.ID,
		Slug:        "pg-paella",
		Name:        "Paella Valenciana",
		Description: "arroz con pollo y verduras",
		PriceAmount: models.NewMoneyFromDecimal(decimal.NewFromFloat(14.90)),
		IsActive:    true,
	}
	if err := productRepo.Create(product); err != nil {
		t.Fatalf("create product failed: %v", err)
	}

	// ILIKE：小写搜索命中大写名称
	rows, total, err := productRepo.List(ProductListFilter{Page: 1, Search: "paella"})
	if err != nil {
		t.Fatalf("product search failed: %v", err)
	}
	if total != 1 || len(rows) != 1 {
		t.Fatalf("product search want 1 got total=%d len=%d", total, len(rows))
	}

	rows, total, err = productRepo.List(ProductListFilter{Page: 1, Search: "VERDURAS"})
	if err != nil {
		t.Fatalf("product search by description failed: %v", err)
	}
	if total != 1 || len(rows) != 1 {
		t.Fatalf("product search by description want 1 got total=%d len=%d", total, len(rows))
	}
}

func TestPostgresPromotionWeekdaysRoundTrip(t *testing.T) {
	db := setupPostgresIntegrationDB(t)

	repo := NewPromotionRepository(db)
	promo := &models.Promotion{
		Type:     constants.PromotionTypeTwoForOne,
		Name:     "2x1 en cañas",
		IsActive: true,
		Weekdays: models.IntArray([]int{4, 5}),
	}
	if err := repo.Create(promo); err != nil {
		t.Fatalf("create promotion failed: %v", err)
	}

	loaded, err := repo.GetByID(promo.ID)
	if err != nil {
		t.Fatalf("get promotion failed: %v", err)
	}
	if loaded == nil {
		t.Fatalf("promotion not found after create")
	}
	if len(loaded.Weekdays) != 2 || loaded.Weekdays[0] != 4 || loaded.Weekdays[1] != 5 {
		t.Fatalf("weekdays round trip mismatch, got %v", loaded.Weekdays)
	}
}

func TestPostgresOrderFilters(t *testing.T) {
	db := setupPostgresIntegrationDB(t)

	repo := NewOrderRepository(db)
	orders := []*models.Order{
		{
			OrderNo:     "PG-ORD-001",
			UserID:      1,
			Type:        constants.OrderTypeDineIn,
			Status:      constants.OrderStatusPending,
			Currency:    "EUR",
			TableNumber: "7",
			TotalAmount: models.NewMoneyFromDecimal(decimal.NewFromFloat(24.40)),
		},
		{
			OrderNo:     "PG-ORD-002",
			UserID:      2,
			Type:        constants.OrderTypeTakeaway,
			Status:      constants.OrderStatusCompleted,
			Currency:    "EUR",
			TotalAmount: models.NewMoneyFromDecimal(decimal.NewFromFloat(9.80)),
		},
	}
	for _, order := range orders {
		if err := repo.Create(order); err != nil {
			t.Fatalf("create order %s failed: %v", order.OrderNo, err)
		}
	}

	rows, total, err := repo.List(OrderListFilter{Page: 1, Status: constants.OrderStatusPending})
	if err != nil {
		t.Fatalf("order list by status failed: %v", err)
	}
	if total != 1 || len(rows) != 1 || rows[0].OrderNo != "PG-ORD-001" {
		t.Fatalf("order list by status mismatch, total=%d", total)
	}

	rows, total, err = repo.List(OrderListFilter{Page: 1, TableNumber: "7"})
	if err != nil {
		t.Fatalf("order list by table failed: %v", err)
	}
	if total != 1 || len(rows) != 1 || rows[0].Type != constants.OrderTypeDineIn {
		t.Fatalf("order list by table mismatch, total=%d", total)
	}
}
