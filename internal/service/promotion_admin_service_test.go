package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/sabor-next/internal/constants"
	"github.com/sabor-next/internal/models"
	"github.com/sabor-next/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupPromotionServiceTest(t *testing.T, name string) (*gorm.DB, *repository.GormPromotionRepository, *repository.GormProductRepository) {
	t.Helper()
	dsn := fmt.Sprintf("file:promosvc_%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Product{},
		&models.ProductVariant{},
		&models.Promotion{},
		&models.BundlePromotionItem{},
		&models.BundlePromotionItemOption{},
	); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	return db, repository.NewPromotionRepository(db), repository.NewProductRepository(db)
}

func seedProduct(t *testing.T, db *gorm.DB, slug string, active bool) *models.Product {
	t.Helper()
	product := &models.Product{
		CategoryID:  1,
		Slug:        slug,
		Name:        slug,
		PriceAmount: models.NewMoneyFromDecimal(decimal.NewFromInt(8)),
		IsActive:    active,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("seed product failed: %v", err)
	}
	return product
}

type invalidateRecorder struct {
	calls int
}

func (r *invalidateRecorder) invalidate(ctx context.Context) error {
	r.calls++
	return nil
}

func bundleInput(productID uint, optionIDs ...uint) SavePromotionInput {
	items := []BundleItemInput{
		{Fixed: &BundleFixedItemInput{ProductID: productID, Quantity: 1, SortOrder: 1}},
	}
	if len(optionIDs) > 0 {
		options := make([]BundleChoiceOptionInput, 0, len(optionIDs))
		for i, id := range optionIDs {
			options = append(options, BundleChoiceOptionInput{ProductID: id, SortOrder: i})
		}
		items = append(items, BundleItemInput{
			Choice: &BundleChoiceGroupInput{Label: "elige tu bebida", Quantity: 1, SortOrder: 2, Options: options},
		})
	}
	return SavePromotionInput{
		Type:        constants.PromotionTypeBundleSpecial,
		Name:        "combinado de prueba",
		PriceAmount: models.NewMoneyFromDecimal(decimal.NewFromInt(15)),
		Items:       items,
	}
}

func TestPromotionAdminCreateBundle(t *testing.T) {
	db, promoRepo, productRepo := setupPromotionServiceTest(t, "create")
	dish := seedProduct(t, db, "paella", true)
	drink := seedProduct(t, db, "agua", true)

	recorder := &invalidateRecorder{}
	svc := NewPromotionAdminService(promoRepo, productRepo, recorder.invalidate)

	created, err := svc.Create(context.Background(), bundleInput(dish.ID, drink.ID))
	if err != nil {
		t.Fatalf("create bundle failed: %v", err)
	}
	if len(created.Items) != 2 {
		t.Fatalf("bundle items want 2 got %d", len(created.Items))
	}
	if recorder.calls != 1 {
		t.Fatalf("create must invalidate catalog once, got %d", recorder.calls)
	}
}

func TestPromotionAdminRejectsIllegalBundleShapes(t *testing.T) {
	db, promoRepo, productRepo := setupPromotionServiceTest(t, "shapes")
	dish := seedProduct(t, db, "tortilla", true)
	svc := NewPromotionAdminService(promoRepo, productRepo, nil)
	ctx := context.Background()

	// 固定项缺少菜品引用
	missingProduct := bundleInput(dish.ID)
	missingProduct.Items[0].Fixed.ProductID = 0
	if _, err := svc.Create(ctx, missingProduct); err != ErrPromotionInvalid {
		t.Fatalf("fixed item without product must be rejected, got %v", err)
	}

	// 固定项与可选组同时设置
	both := bundleInput(dish.ID)
	both.Items[0].Choice = &BundleChoiceGroupInput{Label: "x"}
	if _, err := svc.Create(ctx, both); err != ErrPromotionInvalid {
		t.Fatalf("ambiguous item shape must be rejected, got %v", err)
	}

	// 可选组选项缺少菜品引用
	badOption := bundleInput(dish.ID, dish.ID)
	badOption.Items[1].Choice.Options[0].ProductID = 0
	if _, err := svc.Create(ctx, badOption); err != ErrPromotionInvalid {
		t.Fatalf("option without product must be rejected, got %v", err)
	}

	// 非套餐类型不允许携带套餐项
	special := bundleInput(dish.ID)
	special.Type = constants.PromotionTypeDailySpecial
	special.ProductID = &dish.ID
	if _, err := svc.Create(ctx, special); err != ErrPromotionInvalid {
		t.Fatalf("non-bundle promotion with items must be rejected, got %v", err)
	}

	// 空集套餐
	empty := bundleInput(dish.ID)
	empty.Items = nil
	if _, err := svc.Create(ctx, empty); err != ErrPromotionInvalid {
		t.Fatalf("bundle without items must be rejected, got %v", err)
	}
}

func TestPromotionAdminValidationRules(t *testing.T) {
	db, promoRepo, productRepo := setupPromotionServiceTest(t, "rules")
	dish := seedProduct(t, db, "gazpacho", true)
	svc := NewPromotionAdminService(promoRepo, productRepo, nil)
	ctx := context.Background()

	invalidRange := bundleInput(dish.ID)
	from := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	until := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	invalidRange.ValidFrom = &from
	invalidRange.ValidUntil = &until
	if _, err := svc.Create(ctx, invalidRange); err != ErrPromotionInvalid {
		t.Fatalf("valid_until before valid_from must be rejected, got %v", err)
	}

	badClock := bundleInput(dish.ID)
	badClock.TimeFrom = strPtr("25:99")
	if _, err := svc.Create(ctx, badClock); err != ErrPromotionInvalid {
		t.Fatalf("unparseable time_from must be rejected, got %v", err)
	}

	// 跨午夜时段允许保存，按约定永不命中
	overnight := bundleInput(dish.ID)
	overnight.TimeFrom = strPtr("22:00:00")
	overnight.TimeUntil = strPtr("02:00:00")
	if _, err := svc.Create(ctx, overnight); err != nil {
		t.Fatalf("overnight window must be storable, got %v", err)
	}

	badWeekday := bundleInput(dish.ID)
	badWeekday.Weekdays = []int{0, 3}
	if _, err := svc.Create(ctx, badWeekday); err != ErrPromotionInvalid {
		t.Fatalf("weekday outside 1..7 must be rejected, got %v", err)
	}

	dupWeekdays := bundleInput(dish.ID)
	dupWeekdays.Weekdays = []int{5, 1, 5, 3}
	created, err := svc.Create(ctx, dupWeekdays)
	if err != nil {
		t.Fatalf("weekday normalization create failed: %v", err)
	}
	if len(created.Weekdays) != 3 || created.Weekdays[0] != 1 || created.Weekdays[2] != 5 {
		t.Fatalf("weekdays must be deduped and sorted, got %v", created.Weekdays)
	}

	percent := SavePromotionInput{
		Type:            constants.PromotionTypePercentageDiscount,
		Name:            "martes de descuento",
		DiscountPercent: models.NewMoneyFromDecimal(decimal.NewFromInt(120)),
	}
	if _, err := svc.Create(ctx, percent); err != ErrPromotionInvalid {
		t.Fatalf("discount above 100 percent must be rejected, got %v", err)
	}
}

func TestPromotionWritePathsInvalidateCatalog(t *testing.T) {
	db, promoRepo, productRepo := setupPromotionServiceTest(t, "invalidate")
	dish := seedProduct(t, db, "flan", true)

	recorder := &invalidateRecorder{}
	svc := NewPromotionAdminService(promoRepo, productRepo, recorder.invalidate)
	ctx := context.Background()

	created, err := svc.Create(ctx, bundleInput(dish.ID))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := svc.Update(ctx, created.ID, bundleInput(dish.ID)); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := svc.Restore(ctx, created.ID); err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("second delete failed: %v", err)
	}
	if err := svc.ForceDelete(ctx, created.ID); err != nil {
		t.Fatalf("force delete failed: %v", err)
	}

	// create + update + delete + restore + delete + force delete
	if recorder.calls != 6 {
		t.Fatalf("every write must invalidate the catalog, want 6 got %d", recorder.calls)
	}
}

func TestPromotionAdminBundleScheduleRoundTrip(t *testing.T) {
	db, promoRepo, productRepo := setupPromotionServiceTest(t, "roundtrip")
	dish := seedProduct(t, db, "pulpo", true)
	svc := NewPromotionAdminService(promoRepo, productRepo, nil)

	input := bundleInput(dish.ID)
	input.Weekdays = []int{1, 3, 5}
	created, err := svc.Create(context.Background(), input)
	if err != nil {
		t.Fatalf("create bundle failed: %v", err)
	}

	loaded, err := promoRepo.GetByID(created.ID)
	if err != nil {
		t.Fatalf("reload bundle failed: %v", err)
	}
	if loaded == nil {
		t.Fatalf("bundle not found after create")
	}
	if len(loaded.Weekdays) != 3 || loaded.Weekdays[0] != 1 || loaded.Weekdays[1] != 3 || loaded.Weekdays[2] != 5 {
		t.Fatalf("weekdays must survive the round trip, got %v", loaded.Weekdays)
	}
	if len(loaded.Items) != 1 || loaded.Items[0].ProductID == nil || *loaded.Items[0].ProductID != dish.ID {
		t.Fatalf("bundle item must survive the round trip, got %+v", loaded.Items)
	}
}

func TestPromotionAdminRestoreRequiresDeletedRow(t *testing.T) {
	db, promoRepo, productRepo := setupPromotionServiceTest(t, "restore")
	dish := seedProduct(t, db, "croquetas", true)
	svc := NewPromotionAdminService(promoRepo, productRepo, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, bundleInput(dish.ID))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := svc.Restore(ctx, created.ID); err != ErrPromotionNotDeleted {
		t.Fatalf("restore of live promotion must fail, got %v", err)
	}
	if err := svc.ForceDelete(ctx, created.ID); err != ErrPromotionNotDeleted {
		t.Fatalf("force delete of live promotion must fail, got %v", err)
	}
	if err := svc.Restore(ctx, 9999); err != ErrPromotionNotDeleted {
		t.Fatalf("restore of unknown id must fail, got %v", err)
	}
}
