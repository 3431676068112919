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

func setupCategoryServiceTest(t *testing.T, name string) (*CategoryService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:categorysvc_%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Category{}, &models.Product{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	return NewCategoryService(repository.NewCategoryRepository(db)), db
}

func TestCategoryCreateAndUpdate(t *testing.T) {
	svc, _ := setupCategoryServiceTest(t, t.Name())

	if _, err := svc.Create(SaveCategoryInput{Slug: "", Name: "Entrantes"}); !errors.Is(err, ErrCategoryInvalid) {
		t.Fatalf("blank slug want ErrCategoryInvalid got %v", err)
	}

	created, err := svc.Create(SaveCategoryInput{Slug: " Starters ", Name: " Entrantes ", SortOrder: 10})
	if err != nil {
		t.Fatalf("create category failed: %v", err)
	}
	if created.Slug != "starters" || created.Name != "Entrantes" {
		t.Fatalf("category fields should be normalized, got %q %q", created.Slug, created.Name)
	}

	if _, err := svc.Create(SaveCategoryInput{Slug: "starters", Name: "Otra"}); !errors.Is(err, ErrCategorySlugExists) {
		t.Fatalf("duplicate slug want ErrCategorySlugExists got %v", err)
	}

	other, err := svc.Create(SaveCategoryInput{Slug: "drinks", Name: "Bebidas"})
	if err != nil {
		t.Fatalf("create second category failed: %v", err)
	}

	// 更新时撞其它分类的 slug
	if _, err := svc.Update(other.ID, SaveCategoryInput{Slug: "starters", Name: "Bebidas"}); !errors.Is(err, ErrCategorySlugExists) {
		t.Fatalf("update to taken slug want ErrCategorySlugExists got %v", err)
	}

	// 保留自身 slug 的更新不算冲突
	updated, err := svc.Update(other.ID, SaveCategoryInput{Slug: "drinks", Name: "Bebidas frías", SortOrder: 20})
	if err != nil {
		t.Fatalf("update category failed: %v", err)
	}
	if updated.Name != "Bebidas frías" || updated.SortOrder != 20 {
		t.Fatalf("update mismatch: %+v", updated)
	}

	if _, err := svc.Get(9999); !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("missing category want ErrCategoryNotFound got %v", err)
	}
}

func TestCategoryDeleteRejectsNonEmpty(t *testing.T) {
	svc, db := setupCategoryServiceTest(t, t.Name())

	category, err := svc.Create(SaveCategoryInput{Slug: "mains", Name: "Principales"})
	if err != nil {
		t.Fatalf("create category failed: %v", err)
	}

	product := &models.Product{
		CategoryID:  category.ID,
		Slug:        "paella",
		Name:        "Paella",
		PriceAmount: models.NewMoneyFromDecimal(decimal.NewFromFloat(14.90)),
		IsActive:    true,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("seed product failed: %v", err)
	}

	if err := svc.Delete(category.ID); !errors.Is(err, ErrCategoryInvalid) {
		t.Fatalf("delete non-empty category want ErrCategoryInvalid got %v", err)
	}

	if err := db.Delete(product).Error; err != nil {
		t.Fatalf("remove product failed: %v", err)
	}
	if err := svc.Delete(category.ID); err != nil {
		t.Fatalf("delete empty category failed: %v", err)
	}
	if _, err := svc.Get(category.ID); !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("deleted category want ErrCategoryNotFound got %v", err)
	}
}
