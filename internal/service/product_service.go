package service

import (
	"strings"

	"github.com/sabor-next/internal/models"
	"github.com/sabor-next/internal/repository"

	"github.com/shopspring/decimal"
)

// ProductService 菜品服务
type ProductService struct {
	repo         repository.ProductRepository
	variantRepo  repository.ProductVariantRepository
	categoryRepo repository.CategoryRepository
}

// NewProductService 创建菜品服务
func NewProductService(repo repository.ProductRepository, variantRepo repository.ProductVariantRepository, categoryRepo repository.CategoryRepository) *ProductService {
	return &ProductService{
		repo:         repo,
		variantRepo:  variantRepo,
		categoryRepo: categoryRepo,
	}
}

// SaveProductInput 创建/更新菜品输入
type SaveProductInput struct {
	CategoryID  uint
	Slug        string
	Name        string
	Description string
	PriceAmount models.Money
	Images      []string
	Tags        []string
	Allergens   []string
	IsActive    *bool
	SortOrder   int
}

// SaveVariantInput 创建/更新规格输入
type SaveVariantInput struct {
	Name        string
	PriceAmount models.Money
	IsActive    *bool
	SortOrder   int
}

// List 菜品列表
func (s *ProductService) List(filter repository.ProductListFilter) ([]models.Product, int64, error) {
	return s.repo.List(filter)
}

// Get 获取菜品
func (s *ProductService) Get(id uint) (*models.Product, error) {
	if id == 0 {
		return nil, ErrProductInvalid
	}
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// GetBySlug 根据 slug 获取菜品
func (s *ProductService) GetBySlug(slug string, onlyActive bool) (*models.Product, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, ErrProductInvalid
	}
	product, err := s.repo.GetBySlug(slug, onlyActive)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// Create 创建菜品
func (s *ProductService) Create(input SaveProductInput) (*models.Product, error) {
	product, err := s.validateProductInput(input, nil)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(product); err != nil {
		return nil, err
	}
	return product, nil
}

// Update 更新菜品
func (s *ProductService) Update(id uint, input SaveProductInput) (*models.Product, error) {
	existing, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	product, err := s.validateProductInput(input, &id)
	if err != nil {
		return nil, err
	}
	product.ID = existing.ID
	product.CreatedAt = existing.CreatedAt
	if input.IsActive == nil {
		product.IsActive = existing.IsActive
	}

	if err := s.repo.Update(product); err != nil {
		return nil, err
	}
	return s.Get(id)
}

// Delete 删除菜品
func (s *ProductService) Delete(id uint) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	return s.repo.Delete(id)
}

// SetActive 启用/停用菜品
// 菜品状态是套餐可售判定的输入，切换即时生效。
func (s *ProductService) SetActive(id uint, active bool) (*models.Product, error) {
	product, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	product.IsActive = active
	if err := s.repo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *ProductService) validateProductInput(input SaveProductInput, excludeID *uint) (*models.Product, error) {
	slug := strings.ToLower(strings.TrimSpace(input.Slug))
	name := strings.TrimSpace(input.Name)
	if slug == "" || name == "" || input.CategoryID == 0 {
		return nil, ErrProductInvalid
	}
	if input.PriceAmount.Decimal.LessThan(decimal.Zero) {
		return nil, ErrProductInvalid
	}

	category, err := s.categoryRepo.GetByID(input.CategoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}

	count, err := s.repo.CountBySlug(slug, excludeID)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrProductSlugExists
	}

	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}

	return &models.Product{
		CategoryID:  input.CategoryID,
		Slug:        slug,
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		PriceAmount: input.PriceAmount,
		Images:      models.StringArray(input.Images),
		Tags:        models.StringArray(input.Tags),
		Allergens:   models.StringArray(input.Allergens),
		IsActive:    isActive,
		SortOrder:   input.SortOrder,
	}, nil
}

// CreateVariant 创建菜品规格
func (s *ProductService) CreateVariant(productID uint, input SaveVariantInput) (*models.ProductVariant, error) {
	if _, err := s.Get(productID); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrVariantInvalid
	}
	if input.PriceAmount.Decimal.LessThan(decimal.Zero) {
		return nil, ErrVariantInvalid
	}

	count, err := s.variantRepo.CountByName(productID, name, nil)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrVariantInvalid
	}

	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}
	variant := &models.ProductVariant{
		ProductID:   productID,
		Name:        name,
		PriceAmount: input.PriceAmount,
		IsActive:    isActive,
		SortOrder:   input.SortOrder,
	}
	if err := s.variantRepo.Create(variant); err != nil {
		return nil, err
	}
	return variant, nil
}

// UpdateVariant 更新菜品规格
func (s *ProductService) UpdateVariant(variantID uint, input SaveVariantInput) (*models.ProductVariant, error) {
	if variantID == 0 {
		return nil, ErrVariantInvalid
	}
	variant, err := s.variantRepo.GetByID(variantID)
	if err != nil {
		return nil, err
	}
	if variant == nil {
		return nil, ErrVariantNotFound
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrVariantInvalid
	}
	if input.PriceAmount.Decimal.LessThan(decimal.Zero) {
		return nil, ErrVariantInvalid
	}
	count, err := s.variantRepo.CountByName(variant.ProductID, name, &variantID)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrVariantInvalid
	}

	variant.Name = name
	variant.PriceAmount = input.PriceAmount
	if input.IsActive != nil {
		variant.IsActive = *input.IsActive
	}
	variant.SortOrder = input.SortOrder
	if err := s.variantRepo.Update(variant); err != nil {
		return nil, err
	}
	return variant, nil
}

// DeleteVariant 删除菜品规格
func (s *ProductService) DeleteVariant(variantID uint) error {
	if variantID == 0 {
		return ErrVariantInvalid
	}
	variant, err := s.variantRepo.GetByID(variantID)
	if err != nil {
		return err
	}
	if variant == nil {
		return ErrVariantNotFound
	}
	return s.variantRepo.Delete(variantID)
}
