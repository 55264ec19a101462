package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/mercadito-pe/mercadito-api/internal/domain/entity"
	"github.com/mercadito-pe/mercadito-api/internal/domain/repository"
	"github.com/mercadito-pe/mercadito-api/pkg/apperror"
	"github.com/mercadito-pe/mercadito-api/pkg/pagination"
	"github.com/mercadito-pe/mercadito-api/pkg/utils"
	"github.com/shopspring/decimal"
)

// ProductService handles catalog product operations
type ProductService struct {
	productRepo      repository.ProductRepository
	presentationRepo repository.PresentationRepository
	categoryRepo     repository.CategoryRepository
}

// NewProductService creates a new product service
func NewProductService(
	productRepo repository.ProductRepository,
	presentationRepo repository.PresentationRepository,
	categoryRepo repository.CategoryRepository,
) *ProductService {
	return &ProductService{
		productRepo:      productRepo,
		presentationRepo: presentationRepo,
		categoryRepo:     categoryRepo,
	}
}

// CreateProductInput represents the create product input
type CreateProductInput struct {
	CategoryID  *uuid.UUID
	Name        string
	Unit        string
	Price       decimal.Decimal
	Description *string
	ImageURL    *string
}

// CreateProduct creates a new product
func (s *ProductService) CreateProduct(ctx context.Context, input *CreateProductInput) (*entity.Product, error) {
	var fieldErrors []apperror.FieldError
	if strings.TrimSpace(input.Name) == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "name", Message: "Name is required"})
	}
	if strings.TrimSpace(input.Unit) == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "unit", Message: "Unit is required"})
	}
	if !input.Price.IsPositive() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "price", Message: "Price must be greater than zero"})
	}
	if len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError(fieldErrors)
	}

	if input.CategoryID != nil {
		category, err := s.categoryRepo.GetByID(ctx, *input.CategoryID)
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, apperror.NewNotFoundError("Category")
		}
	}

	slug := utils.Slugify(input.Name)

	existing, err := s.productRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("A product with this name already exists")
	}

	product := &entity.Product{
		CategoryID:  input.CategoryID,
		Name:        strings.TrimSpace(input.Name),
		Slug:        slug,
		Unit:        strings.TrimSpace(input.Unit),
		Price:       input.Price.Round(2),
		Active:      true,
		Description: input.Description,
		ImageURL:    input.ImageURL,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	return s.productRepo.GetByID(ctx, product.ID)
}

// GetProduct retrieves a product by slug
func (s *ProductService) GetProduct(ctx context.Context, slug string) (*entity.Product, error) {
	product, err := s.productRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// ListProducts lists products with filtering
func (s *ProductService) ListProducts(ctx context.Context, params *repository.ProductFilterParams) (*pagination.PaginatedResult[entity.Product], error) {
	products, total, err := s.productRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(products, pag), nil
}

// UpdateProductInput represents the update product input
type UpdateProductInput struct {
	Slug        string
	CategoryID  *uuid.UUID
	Name        *string
	Unit        *string
	Price       *decimal.Decimal
	Active      *bool
	Description *string
	ImageURL    *string
}

// UpdateProduct updates a product
func (s *ProductService) UpdateProduct(ctx context.Context, input *UpdateProductInput) (*entity.Product, error) {
	product, err := s.productRepo.GetBySlug(ctx, input.Slug)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}

	if input.Name != nil && *input.Name != product.Name {
		slug := utils.Slugify(*input.Name)
		existing, err := s.productRepo.GetBySlug(ctx, slug)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != product.ID {
			return nil, apperror.NewConflictError("A product with this name already exists")
		}
		product.Name = strings.TrimSpace(*input.Name)
		product.Slug = slug
	}
	if input.CategoryID != nil {
		category, err := s.categoryRepo.GetByID(ctx, *input.CategoryID)
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, apperror.NewNotFoundError("Category")
		}
		product.CategoryID = input.CategoryID
	}
	if input.Unit != nil {
		product.Unit = strings.TrimSpace(*input.Unit)
	}
	if input.Price != nil {
		if !input.Price.IsPositive() {
			return nil, apperror.NewBadRequestError("Price must be greater than zero")
		}
		product.Price = input.Price.Round(2)
	}
	if input.Active != nil {
		product.Active = *input.Active
	}
	if input.Description != nil {
		product.Description = input.Description
	}
	if input.ImageURL != nil {
		product.ImageURL = input.ImageURL
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	return s.productRepo.GetByID(ctx, product.ID)
}

// DeleteProduct soft-deletes a product
func (s *ProductService) DeleteProduct(ctx context.Context, slug string) error {
	product, err := s.productRepo.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if product == nil {
		return apperror.NewNotFoundError("Product")
	}
	return s.productRepo.Delete(ctx, product.ID)
}

// CreatePresentationInput represents the create presentation input
type CreatePresentationInput struct {
	ProductSlug string
	Name        string
	Unit        string
	Price       decimal.Decimal
	SortOrder   int
}

// CreatePresentation adds a presentation to a product
func (s *ProductService) CreatePresentation(ctx context.Context, input *CreatePresentationInput) (*entity.Presentation, error) {
	product, err := s.productRepo.GetBySlug(ctx, input.ProductSlug)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}

	if strings.TrimSpace(input.Name) == "" {
		return nil, apperror.NewBadRequestError("Presentation name is required")
	}
	if !input.Price.IsPositive() {
		return nil, apperror.NewBadRequestError("Price must be greater than zero")
	}

	unit := strings.TrimSpace(input.Unit)
	if unit == "" {
		unit = product.Unit
	}

	presentation := &entity.Presentation{
		ProductID: product.ID,
		Name:      strings.TrimSpace(input.Name),
		Unit:      unit,
		Price:     input.Price.Round(2),
		SortOrder: input.SortOrder,
		Active:    true,
	}

	if err := s.presentationRepo.Create(ctx, presentation); err != nil {
		return nil, err
	}
	return presentation, nil
}

// UpdatePresentationInput represents the update presentation input
type UpdatePresentationInput struct {
	ID        uuid.UUID
	Name      *string
	Unit      *string
	Price     *decimal.Decimal
	SortOrder *int
	Active    *bool
}

// UpdatePresentation updates a presentation
func (s *ProductService) UpdatePresentation(ctx context.Context, input *UpdatePresentationInput) (*entity.Presentation, error) {
	presentation, err := s.presentationRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if presentation == nil {
		return nil, apperror.NewNotFoundError("Presentation")
	}

	if input.Name != nil {
		presentation.Name = strings.TrimSpace(*input.Name)
	}
	if input.Unit != nil {
		presentation.Unit = strings.TrimSpace(*input.Unit)
	}
	if input.Price != nil {
		if !input.Price.IsPositive() {
			return nil, apperror.NewBadRequestError("Price must be greater than zero")
		}
		presentation.Price = input.Price.Round(2)
	}
	if input.SortOrder != nil {
		presentation.SortOrder = *input.SortOrder
	}
	if input.Active != nil {
		presentation.Active = *input.Active
	}

	if err := s.presentationRepo.Update(ctx, presentation); err != nil {
		return nil, err
	}
	return presentation, nil
}

// DeletePresentation removes a presentation from a product
func (s *ProductService) DeletePresentation(ctx context.Context, id uuid.UUID) error {
	presentation, err := s.presentationRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if presentation == nil {
		return apperror.NewNotFoundError("Presentation")
	}
	return s.presentationRepo.Delete(ctx, id)
}
