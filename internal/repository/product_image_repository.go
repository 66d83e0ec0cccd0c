package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"storefront/internal/model"
)

// ProductImageRepository defines product image persistence operations.
type ProductImageRepository interface {
	Create(ctx context.Context, image *model.ProductImage) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ProductImage, error)
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]model.ProductImage, error)
	ClearPrimary(ctx context.Context, productID uuid.UUID) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	SoftDeleteByProduct(ctx context.Context, productID uuid.UUID) error
}

type productImageRepository struct {
	db *gorm.DB
}

// NewProductImageRepository builds a GORM-backed repository.
func NewProductImageRepository(db *gorm.DB) ProductImageRepository {
	return &productImageRepository{db: db}
}

func (r *productImageRepository) Create(ctx context.Context, image *model.ProductImage) error {
	return r.db.WithContext(ctx).Create(image).Error
}

func (r *productImageRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.ProductImage, error) {
	var image model.ProductImage
	if err := scope(r.db.WithContext(ctx), false).
		Where("id = ?", id).First(&image).Error; err != nil {
		return nil, err
	}
	return &image, nil
}

func (r *productImageRepository) ListByProduct(ctx context.Context, productID uuid.UUID) ([]model.ProductImage, error) {
	var images []model.ProductImage
	if err := scope(r.db.WithContext(ctx), false).
		Where("product_id = ?", productID).
		Order("created_at").Find(&images).Error; err != nil {
		return nil, err
	}
	return images, nil
}

// ClearPrimary unsets is_primary on every non-deleted image of the product.
func (r *productImageRepository) ClearPrimary(ctx context.Context, productID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.ProductImage{}).
		Where("product_id = ? AND is_primary = ? AND is_deleted = ?", productID, true, false).
		Update("is_primary", false).Error
}

func (r *productImageRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.ProductImage{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(softDeleteValues()).Error
}

func (r *productImageRepository) SoftDeleteByProduct(ctx context.Context, productID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.ProductImage{}).
		Where("product_id = ? AND is_deleted = ?", productID, false).
		Updates(softDeleteValues()).Error
}
