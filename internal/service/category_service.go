package service

import (
	"context"

	"github.com/google/uuid"

	apperrors "storefront/internal/errors"
	"storefront/internal/model"
	"storefront/internal/repository"
	"storefront/internal/validation"
)

// UpdateCategoryInput carries a partial category update.
type UpdateCategoryInput struct {
	Name        *string
	Description *string
}

// CategoryService exposes category operations.
type CategoryService interface {
	CreateCategory(ctx context.Context, category *model.Category) (*model.Category, error)
	GetCategory(ctx context.Context, id uuid.UUID, includeDeleted bool) (*model.Category, error)
	ListCategories(ctx context.Context, includeDeleted bool) ([]model.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, input UpdateCategoryInput) (*model.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
	ListProducts(ctx context.Context, categoryID uuid.UUID) ([]model.Product, error)
}

type categoryService struct {
	store    *repository.Store
	validate *validation.Validator
}

// NewCategoryService builds a CategoryService.
func NewCategoryService(store *repository.Store, validate *validation.Validator) CategoryService {
	return &categoryService{store: store, validate: validate}
}

func (s *categoryService) CreateCategory(ctx context.Context, category *model.Category) (*model.Category, error) {
	if err := s.validate.Struct("category", category); err != nil {
		return nil, err
	}
	if err := s.store.Categories.Create(ctx, category); err != nil {
		if apperrors.IsConflict(apperrors.FromDB("category", err)) {
			return nil, apperrors.Conflict("category", "name")
		}
		return nil, apperrors.FromDB("category", err)
	}
	return category, nil
}

func (s *categoryService) GetCategory(ctx context.Context, id uuid.UUID, includeDeleted bool) (*model.Category, error) {
	category, err := s.store.Categories.FindByID(ctx, id, includeDeleted)
	if err != nil {
		return nil, apperrors.FromDB("category", err)
	}
	return category, nil
}

func (s *categoryService) ListCategories(ctx context.Context, includeDeleted bool) ([]model.Category, error) {
	categories, err := s.store.Categories.List(ctx, includeDeleted)
	if err != nil {
		return nil, apperrors.FromDB("category", err)
	}
	return categories, nil
}

func (s *categoryService) UpdateCategory(ctx context.Context, id uuid.UUID, input UpdateCategoryInput) (*model.Category, error) {
	category, err := s.store.Categories.FindByID(ctx, id, false)
	if err != nil {
		return nil, apperrors.FromDB("category", err)
	}

	if input.Name != nil {
		category.Name = *input.Name
	}
	if input.Description != nil {
		category.Description = *input.Description
	}

	if err := s.validate.Struct("category", category); err != nil {
		return nil, err
	}
	if err := s.store.Categories.Save(ctx, category); err != nil {
		if apperrors.IsConflict(apperrors.FromDB("category", err)) {
			return nil, apperrors.Conflict("category", "name")
		}
		return nil, apperrors.FromDB("category", err)
	}
	return category, nil
}

// DeleteCategory soft-deletes a category. The delete is restricted while
// non-deleted products still reference the category.
func (s *categoryService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return s.store.WithTransaction(ctx, func(ctx context.Context, tx *repository.Store) error {
		if _, err := tx.Categories.FindByID(ctx, id, false); err != nil {
			return apperrors.FromDB("category", err)
		}

		count, err := tx.Products.CountByCategory(ctx, id)
		if err != nil {
			return apperrors.FromDB("product", err)
		}
		if count > 0 {
			return apperrors.ReferentialIntegrity("category", "category still has products")
		}

		if err := tx.Categories.SoftDelete(ctx, id); err != nil {
			return apperrors.FromDB("category", err)
		}
		return nil
	})
}

func (s *categoryService) ListProducts(ctx context.Context, categoryID uuid.UUID) ([]model.Product, error) {
	if _, err := s.store.Categories.FindByID(ctx, categoryID, false); err != nil {
		return nil, apperrors.FromDB("category", err)
	}
	products, err := s.store.Products.ListByCategory(ctx, categoryID)
	if err != nil {
		return nil, apperrors.FromDB("product", err)
	}
	return products, nil
}
