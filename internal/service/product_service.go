package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"storefront/internal/cache"
	apperrors "storefront/internal/errors"
	"storefront/internal/model"
	"storefront/internal/repository"
	"storefront/internal/validation"
)

const productCacheTTL = 5 * time.Minute

// UpdateProductInput carries a partial product update.
type UpdateProductInput struct {
	Name          *string
	Description   *string
	Price         *decimal.Decimal
	StockQuantity *int
	CategoryID    *uuid.UUID
}

// ProductService exposes catalog operations including image management.
type ProductService interface {
	CreateProduct(ctx context.Context, product *model.Product) (*model.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID, includeDeleted bool) (*model.Product, error)
	ListProducts(ctx context.Context, includeDeleted bool) ([]model.Product, error)
	SearchProducts(ctx context.Context, query string) ([]model.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*model.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	AddImage(ctx context.Context, productID uuid.UUID, image *model.ProductImage) (*model.ProductImage, error)
	RemoveImage(ctx context.Context, productID, imageID uuid.UUID) error
	ListImages(ctx context.Context, productID uuid.UUID) ([]model.ProductImage, error)
}

type productService struct {
	store    *repository.Store
	cache    *cache.Client
	validate *validation.Validator
}

// NewProductService builds a ProductService with storage, cache and validation.
func NewProductService(store *repository.Store, cache *cache.Client, validate *validation.Validator) ProductService {
	return &productService{store: store, cache: cache, validate: validate}
}

func productCacheKey(id uuid.UUID) string {
	return fmt.Sprintf("product:%s", id)
}

func (s *productService) CreateProduct(ctx context.Context, product *model.Product) (*model.Product, error) {
	if err := s.validate.Struct("product", product); err != nil {
		return nil, err
	}
	if product.Price.IsNegative() {
		return nil, apperrors.Validation("product", "price", "min")
	}
	if _, err := s.store.Categories.FindByID(ctx, product.CategoryID, false); err != nil {
		return nil, apperrors.FromDB("category", err)
	}
	if err := s.store.Products.Create(ctx, product); err != nil {
		return nil, apperrors.FromDB("product", err)
	}
	return product, nil
}

func (s *productService) GetProduct(ctx context.Context, id uuid.UUID, includeDeleted bool) (*model.Product, error) {
	if !includeDeleted {
		if data, _ := s.cache.Get(ctx, productCacheKey(id)); data != nil {
			var cached model.Product
			if err := json.Unmarshal(data, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	product, err := s.store.Products.FindByID(ctx, id, includeDeleted)
	if err != nil {
		return nil, apperrors.FromDB("product", err)
	}

	if !includeDeleted {
		if payload, err := json.Marshal(product); err == nil {
			_ = s.cache.Set(ctx, productCacheKey(id), payload, productCacheTTL)
		}
	}
	return product, nil
}

func (s *productService) ListProducts(ctx context.Context, includeDeleted bool) ([]model.Product, error) {
	products, err := s.store.Products.List(ctx, includeDeleted)
	if err != nil {
		return nil, apperrors.FromDB("product", err)
	}
	return products, nil
}

func (s *productService) SearchProducts(ctx context.Context, query string) ([]model.Product, error) {
	products, err := s.store.Products.Search(ctx, query)
	if err != nil {
		return nil, apperrors.FromDB("product", err)
	}
	return products, nil
}

func (s *productService) UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*model.Product, error) {
	product, err := s.store.Products.FindByID(ctx, id, false)
	if err != nil {
		return nil, apperrors.FromDB("product", err)
	}

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, apperrors.Validation("product", "price", "min")
		}
		product.Price = *input.Price
	}
	if input.StockQuantity != nil {
		product.StockQuantity = *input.StockQuantity
	}
	if input.CategoryID != nil {
		if _, err := s.store.Categories.FindByID(ctx, *input.CategoryID, false); err != nil {
			return nil, apperrors.FromDB("category", err)
		}
		product.CategoryID = *input.CategoryID
	}

	if err := s.validate.Struct("product", product); err != nil {
		return nil, err
	}
	if err := s.store.Products.Save(ctx, product); err != nil {
		return nil, apperrors.FromDB("product", err)
	}
	_ = s.cache.Delete(ctx, productCacheKey(id))
	return product, nil
}

// DeleteProduct soft-deletes a product and cascades to its images. The delete
// is restricted while non-deleted order items reference the product.
func (s *productService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx *repository.Store) error {
		if _, err := tx.Products.FindByID(ctx, id, false); err != nil {
			return apperrors.FromDB("product", err)
		}

		referenced, err := tx.OrderItems.ExistsByProduct(ctx, id)
		if err != nil {
			return apperrors.FromDB("order_item", err)
		}
		if referenced {
			return apperrors.ReferentialIntegrity("product", "product is referenced by order items")
		}

		if err := tx.ProductImages.SoftDeleteByProduct(ctx, id); err != nil {
			return apperrors.FromDB("product_image", err)
		}
		if err := tx.Products.SoftDelete(ctx, id); err != nil {
			return apperrors.FromDB("product", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	_ = s.cache.Delete(ctx, productCacheKey(id))
	return nil
}

// AddImage attaches an image to a product. Creating a primary image clears
// is_primary on every sibling inside the same transaction, so at most one
// primary exists per product at any instant.
func (s *productService) AddImage(ctx context.Context, productID uuid.UUID, image *model.ProductImage) (*model.ProductImage, error) {
	image.ProductID = productID
	if err := s.validate.Struct("product_image", image); err != nil {
		return nil, err
	}

	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx *repository.Store) error {
		if _, err := tx.Products.FindByID(ctx, productID, false); err != nil {
			return apperrors.FromDB("product", err)
		}
		if image.IsPrimary {
			if err := tx.ProductImages.ClearPrimary(ctx, productID); err != nil {
				return apperrors.FromDB("product_image", err)
			}
		}
		if err := tx.ProductImages.Create(ctx, image); err != nil {
			return apperrors.FromDB("product_image", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return image, nil
}

func (s *productService) RemoveImage(ctx context.Context, productID, imageID uuid.UUID) error {
	image, err := s.store.ProductImages.FindByID(ctx, imageID)
	if err != nil {
		return apperrors.FromDB("product_image", err)
	}
	if image.ProductID != productID {
		return apperrors.NotFound("product_image")
	}
	if err := s.store.ProductImages.SoftDelete(ctx, imageID); err != nil {
		return apperrors.FromDB("product_image", err)
	}
	return nil
}

func (s *productService) ListImages(ctx context.Context, productID uuid.UUID) ([]model.ProductImage, error) {
	if _, err := s.store.Products.FindByID(ctx, productID, false); err != nil {
		return nil, apperrors.FromDB("product", err)
	}
	images, err := s.store.ProductImages.ListByProduct(ctx, productID)
	if err != nil {
		return nil, apperrors.FromDB("product_image", err)
	}
	return images, nil
}
