package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/mercadito-pe/mercadito-api/internal/domain/entity"
	"github.com/mercadito-pe/mercadito-api/internal/domain/repository"
	"github.com/mercadito-pe/mercadito-api/pkg/apperror"
	"github.com/mercadito-pe/mercadito-api/pkg/utils"
)

// CategoryService handles product category operations
type CategoryService struct {
	categoryRepo repository.CategoryRepository
}

// NewCategoryService creates a new category service
func NewCategoryService(categoryRepo repository.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// CreateCategory creates a new category
func (s *CategoryService) CreateCategory(ctx context.Context, name string, sortOrder int) (*entity.Category, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apperror.NewBadRequestError("Category name is required")
	}

	slug := utils.Slugify(name)

	existing, err := s.categoryRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("A category with this name already exists")
	}

	category := &entity.Category{
		Name:      strings.TrimSpace(name),
		Slug:      slug,
		SortOrder: sortOrder,
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// GetCategory retrieves a category by slug
func (s *CategoryService) GetCategory(ctx context.Context, slug string) (*entity.Category, error) {
	category, err := s.categoryRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, apperror.NewNotFoundError("Category")
	}
	return category, nil
}

// ListCategories lists all categories ordered by sort order
func (s *CategoryService) ListCategories(ctx context.Context) ([]entity.Category, error) {
	return s.categoryRepo.List(ctx)
}

// UpdateCategoryInput represents the update category input
type UpdateCategoryInput struct {
	Slug      string
	Name      *string
	SortOrder *int
}

// UpdateCategory updates a category
func (s *CategoryService) UpdateCategory(ctx context.Context, input *UpdateCategoryInput) (*entity.Category, error) {
	category, err := s.categoryRepo.GetBySlug(ctx, input.Slug)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, apperror.NewNotFoundError("Category")
	}

	if input.Name != nil && *input.Name != category.Name {
		slug := utils.Slugify(*input.Name)
		existing, err := s.categoryRepo.GetBySlug(ctx, slug)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != category.ID {
			return nil, apperror.NewConflictError("A category with this name already exists")
		}
		category.Name = strings.TrimSpace(*input.Name)
		category.Slug = slug
	}
	if input.SortOrder != nil {
		category.SortOrder = *input.SortOrder
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory deletes a category
func (s *CategoryService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if category == nil {
		return apperror.NewNotFoundError("Category")
	}
	return s.categoryRepo.Delete(ctx, id)
}
