package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/mercadito-pe/mercadito-api/internal/domain/entity"
	domainRepo "github.com/mercadito-pe/mercadito-api/internal/domain/repository"
	"gorm.io/gorm"
)

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *gorm.DB) domainRepo.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *entity.Product) error {
	return dbFrom(ctx, r.db).Create(product).Error
}

func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	var product entity.Product
	err := dbFrom(ctx, r.db).
		Preload("Presentations", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		First(&product, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &product, err
}

func (r *productRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error) {
	var products []entity.Product
	err := dbFrom(ctx, r.db).
		Preload("Presentations").
		Where("id IN ?", ids).
		Find(&products).Error
	return products, err
}

func (r *productRepository) GetBySlug(ctx context.Context, slug string) (*entity.Product, error) {
	var product entity.Product
	err := dbFrom(ctx, r.db).
		Preload("Presentations", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Preload("Category").
		First(&product, "slug = ?", slug).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &product, err
}

func (r *productRepository) List(ctx context.Context, params *domainRepo.ProductFilterParams) ([]entity.Product, int64, error) {
	var products []entity.Product
	var total int64

	query := dbFrom(ctx, r.db).Model(&entity.Product{})

	if params.Search != "" {
		query = query.Where("name ILIKE ?", "%"+params.Search+"%")
	}
	if params.CategoryID != nil {
		query = query.Where("category_id = ?", *params.CategoryID)
	}
	if params.ActiveOnly {
		query = query.Where("active = ?", true)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Category").
		Preload("Presentations", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Order("name ASC").
		Find(&products).Error

	return products, total, err
}

func (r *productRepository) Update(ctx context.Context, product *entity.Product) error {
	return dbFrom(ctx, r.db).Save(product).Error
}

func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return dbFrom(ctx, r.db).Delete(&entity.Product{}, "id = ?", id).Error
}

type presentationRepository struct {
	db *gorm.DB
}

// NewPresentationRepository creates a new presentation repository
func NewPresentationRepository(db *gorm.DB) domainRepo.PresentationRepository {
	return &presentationRepository{db: db}
}

func (r *presentationRepository) Create(ctx context.Context, presentation *entity.Presentation) error {
	return dbFrom(ctx, r.db).Create(presentation).Error
}

func (r *presentationRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Presentation, error) {
	var presentation entity.Presentation
	err := dbFrom(ctx, r.db).First(&presentation, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &presentation, err
}

func (r *presentationRepository) GetByProductID(ctx context.Context, productID uuid.UUID) ([]entity.Presentation, error) {
	var presentations []entity.Presentation
	err := dbFrom(ctx, r.db).
		Where("product_id = ?", productID).
		Order("sort_order ASC").
		Find(&presentations).Error
	return presentations, err
}

func (r *presentationRepository) Update(ctx context.Context, presentation *entity.Presentation) error {
	return dbFrom(ctx, r.db).Save(presentation).Error
}

func (r *presentationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return dbFrom(ctx, r.db).Delete(&entity.Presentation{}, "id = ?", id).Error
}

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *gorm.DB) domainRepo.CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, category *entity.Category) error {
	return dbFrom(ctx, r.db).Create(category).Error
}

func (r *categoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	var category entity.Category
	err := dbFrom(ctx, r.db).First(&category, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &category, err
}

func (r *categoryRepository) GetBySlug(ctx context.Context, slug string) (*entity.Category, error) {
	var category entity.Category
	err := dbFrom(ctx, r.db).First(&category, "slug = ?", slug).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &category, err
}

func (r *categoryRepository) List(ctx context.Context) ([]entity.Category, error) {
	var categories []entity.Category
	err := dbFrom(ctx, r.db).Order("sort_order ASC, name ASC").Find(&categories).Error
	return categories, err
}

func (r *categoryRepository) Update(ctx context.Context, category *entity.Category) error {
	return dbFrom(ctx, r.db).Save(category).Error
}

func (r *categoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return dbFrom(ctx, r.db).Delete(&entity.Category{}, "id = ?", id).Error
}
