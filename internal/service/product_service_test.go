package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/sabor-next/internal/models"
	"github.com/sabor-next/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupProductServiceTest(t *testing.T, name string) (*ProductService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:productsvc_%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Category{}, &models.Product{}, &models.ProductVariant{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	svc := NewProductService(
		repository.NewProductRepository(db),
		repository.NewProductVariantRepository(db),
		repository.NewCategoryRepository(db),
	)
	return svc, db
}

func seedTestCategory(t *testing.T, db *gorm.DB, slug string) *models.Category {
	t.Helper()
	category := &models.Category{Slug: slug, Name: slug}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("seed category failed: %v", err)
	}
	return category
}

func productInput(categoryID uint, slug string) SaveProductInput {
	return SaveProductInput{
		CategoryID:  categoryID,
		Slug:        slug,
		Name:        "Paella valenciana",
		Description: "arroz con pollo",
		PriceAmount: models.NewMoneyFromDecimal(decimal.NewFromFloat(14.90)),
		Tags:        []string{"recomendado"},
		Allergens:   []string{"mariscos"},
	}
}

func TestProductCreateValidation(t *testing.T) {
	svc, db := setupProductServiceTest(t, t.Name())
	category := seedTestCategory(t, db, "mains")

	if _, err := svc.Create(productInput(0, "paella")); !errors.Is(err, ErrProductInvalid) {
		t.Fatalf("missing category want ErrProductInvalid got %v", err)
	}
	if _, err := svc.Create(productInput(category.ID, "  ")); !errors.Is(err, ErrProductInvalid) {
		t.Fatalf("blank slug want ErrProductInvalid got %v", err)
	}
	if _, err := svc.Create(productInput(9999, "paella")); !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("unknown category want ErrCategoryNotFound got %v", err)
	}

	negative := productInput(category.ID, "paella")
	negative.PriceAmount = models.NewMoneyFromDecimal(decimal.NewFromInt(-1))
	if _, err := svc.Create(negative); !errors.Is(err, ErrProductInvalid) {
		t.Fatalf("negative price want ErrProductInvalid got %v", err)
	}

	created, err := svc.Create(productInput(category.ID, " Paella "))
	if err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	if created.Slug != "paella" {
		t.Fatalf("slug should be normalized, got %s", created.Slug)
	}
	if !created.IsActive {
		t.Fatalf("product should default to active")
	}

	if _, err := svc.Create(productInput(category.ID, "paella")); !errors.Is(err, ErrProductSlugExists) {
		t.Fatalf("duplicate slug want ErrProductSlugExists got %v", err)
	}
}

func TestProductSetActive(t *testing.T) {
	svc, db := setupProductServiceTest(t, t.Name())
	category := seedTestCategory(t, db, "mains")

	created, err := svc.Create(productInput(category.ID, "paella"))
	if err != nil {
		t.Fatalf("create product failed: %v", err)
	}

	disabled, err := svc.SetActive(created.ID, false)
	if err != nil {
		t.Fatalf("set inactive failed: %v", err)
	}
	if disabled.IsActive {
		t.Fatalf("product should be inactive after toggle")
	}

	if _, err := svc.GetBySlug("paella", true); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("inactive product should be hidden from active lookup, got %v", err)
	}
	if _, err := svc.GetBySlug("paella", false); err != nil {
		t.Fatalf("inactive product should still resolve without the active filter: %v", err)
	}
}

func TestProductVariantLifecycle(t *testing.T) {
	svc, db := setupProductServiceTest(t, t.Name())
	category := seedTestCategory(t, db, "mains")

	product, err := svc.Create(productInput(category.ID, "paella"))
	if err != nil {
		t.Fatalf("create product failed: %v", err)
	}

	variant, err := svc.CreateVariant(product.ID, SaveVariantInput{
		Name:        "individual",
		PriceAmount: models.NewMoneyFromDecimal(decimal.NewFromFloat(14.90)),
		SortOrder:   10,
	})
	if err != nil {
		t.Fatalf("create variant failed: %v", err)
	}

	// 同菜品内规格名唯一
	if _, err := svc.CreateVariant(product.ID, SaveVariantInput{
		Name:        " individual ",
		PriceAmount: models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
	}); !errors.Is(err, ErrVariantInvalid) {
		t.Fatalf("duplicate variant name want ErrVariantInvalid got %v", err)
	}

	updated, err := svc.UpdateVariant(variant.ID, SaveVariantInput{
		Name:        "para dos",
		PriceAmount: models.NewMoneyFromDecimal(decimal.NewFromFloat(26.50)),
		SortOrder:   20,
	})
	if err != nil {
		t.Fatalf("update variant failed: %v", err)
	}
	if updated.Name != "para dos" {
		t.Fatalf("variant name want para dos got %s", updated.Name)
	}

	if err := svc.DeleteVariant(variant.ID); err != nil {
		t.Fatalf("delete variant failed: %v", err)
	}
	if err := svc.DeleteVariant(variant.ID); !errors.Is(err, ErrVariantNotFound) {
		t.Fatalf("second delete want ErrVariantNotFound got %v", err)
	}

	if _, err := svc.CreateVariant(9999, SaveVariantInput{
		Name:        "vaso",
		PriceAmount: models.NewMoneyFromDecimal(decimal.NewFromInt(3)),
	}); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("variant on missing product want ErrProductNotFound got %v", err)
	}
}
