package service

import (
	"errors"
	"testing"

	"github.com/sabor-next/internal/constants"
	"github.com/sabor-next/internal/models"
)

type stubStatusLookup struct {
	active map[uint]bool
	err    error
}

func (s *stubStatusLookup) ProductActive(productID uint) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	active, ok := s.active[productID]
	if !ok {
		return false, nil
	}
	return active, nil
}

func uintPtr(v uint) *uint {
	return &v
}

func TestBundleAvailableFixedItems(t *testing.T) {
	lookup := &stubStatusLookup{active: map[uint]bool{1: true, 2: true}}
	bundle := &models.Promotion{
		Type: constants.PromotionTypeBundleSpecial,
		Items: []models.BundlePromotionItem{
			{ProductID: uintPtr(1), Quantity: 1},
			{ProductID: uintPtr(2), Quantity: 2},
		},
	}

	if !BundleAvailable(bundle, lookup) {
		t.Fatalf("all fixed items active, bundle must be available")
	}

	// 任意一个菜品下架即整体不可售
	lookup.active[2] = false
	if BundleAvailable(bundle, lookup) {
		t.Fatalf("one inactive fixed item must make the bundle unavailable")
	}
}

func TestBundleAvailableChoiceGroups(t *testing.T) {
	lookup := &stubStatusLookup{active: map[uint]bool{1: true, 2: false, 3: false}}

	oneActive := &models.Promotion{
		Type: constants.PromotionTypeBundleSpecial,
		Items: []models.BundlePromotionItem{
			{
				IsChoiceGroup: true,
				ChoiceLabel:   "elige tu bebida",
				Options: []models.BundlePromotionItemOption{
					{ProductID: 1},
					{ProductID: 2},
					{ProductID: 3},
				},
			},
		},
	}
	if !BundleAvailable(oneActive, lookup) {
		t.Fatalf("choice group with one active option must be available")
	}

	allInactive := &models.Promotion{
		Type: constants.PromotionTypeBundleSpecial,
		Items: []models.BundlePromotionItem{
			{
				IsChoiceGroup: true,
				Options: []models.BundlePromotionItemOption{
					{ProductID: 2},
					{ProductID: 3},
				},
			},
		},
	}
	if BundleAvailable(allInactive, lookup) {
		t.Fatalf("choice group with only inactive options must be unavailable")
	}

	empty := &models.Promotion{
		Type: constants.PromotionTypeBundleSpecial,
		Items: []models.BundlePromotionItem{
			{IsChoiceGroup: true},
		},
	}
	if BundleAvailable(empty, lookup) {
		t.Fatalf("choice group with zero options must be unavailable")
	}
}

func TestBundleAvailableMixedScenario(t *testing.T) {
	lookup := &stubStatusLookup{active: map[uint]bool{1: true, 2: true, 3: false}}
	bundle := &models.Promotion{
		Type: constants.PromotionTypeBundleSpecial,
		Items: []models.BundlePromotionItem{
			{ProductID: uintPtr(1), Quantity: 1},
			{
				IsChoiceGroup: true,
				Options: []models.BundlePromotionItemOption{
					{ProductID: 2},
					{ProductID: 3},
				},
			},
		},
	}

	if !BundleAvailable(bundle, lookup) {
		t.Fatalf("fixed item active plus choice group with active option must be available")
	}

	lookup.active[1] = false
	if BundleAvailable(bundle, lookup) {
		t.Fatalf("deactivating the fixed item's product must make the bundle unavailable")
	}
}

func TestBundleAvailableDegradesGracefully(t *testing.T) {
	// 固定项缺失菜品引用按不可售处理
	dangling := &models.Promotion{
		Type:  constants.PromotionTypeBundleSpecial,
		Items: []models.BundlePromotionItem{{Quantity: 1}},
	}
	if BundleAvailable(dangling, &stubStatusLookup{}) {
		t.Fatalf("fixed item without product reference must be unavailable")
	}

	// 查询失败按不可售降级，不向上抛错
	failing := &models.Promotion{
		Type:  constants.PromotionTypeBundleSpecial,
		Items: []models.BundlePromotionItem{{ProductID: uintPtr(1), Quantity: 1}},
	}
	if BundleAvailable(failing, &stubStatusLookup{err: errors.New("db down")}) {
		t.Fatalf("lookup failure must degrade to unavailable")
	}
}

func TestBundleAvailableNonBundleTypes(t *testing.T) {
	lookup := &stubStatusLookup{}
	for _, promotionType := range []string{
		constants.PromotionTypeDailySpecial,
		constants.PromotionTypeTwoForOne,
		constants.PromotionTypePercentageDiscount,
	} {
		p := &models.Promotion{Type: promotionType, ProductID: uintPtr(99)}
		if !BundleAvailable(p, lookup) {
			t.Fatalf("type %s must be trivially available", promotionType)
		}
	}

	emptyBundle := &models.Promotion{Type: constants.PromotionTypeBundleSpecial}
	if !BundleAvailable(emptyBundle, lookup) {
		t.Fatalf("bundle without items is vacuously available")
	}
}
