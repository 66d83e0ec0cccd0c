package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"storefront/internal/model"
)

// OrderRepository defines order persistence operations.
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	Save(ctx context.Context, order *model.Order) error
	FindByID(ctx context.Context, id uuid.UUID, includeDeleted bool) (*model.Order, error)
	List(ctx context.Context, includeDeleted bool) ([]model.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Order, error)
	IDsByUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
	SoftDeleteByUser(ctx context.Context, userID uuid.UUID) error
}

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository builds a GORM-backed repository.
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *orderRepository) Save(ctx context.Context, order *model.Order) error {
	return r.db.WithContext(ctx).Save(order).Error
}

func (r *orderRepository) FindByID(ctx context.Context, id uuid.UUID, includeDeleted bool) (*model.Order, error) {
	var order model.Order
	if err := scope(r.db.WithContext(ctx), includeDeleted).
		Where("id = ?", id).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) List(ctx context.Context, includeDeleted bool) ([]model.Order, error) {
	var orders []model.Order
	if err := scope(r.db.WithContext(ctx), includeDeleted).
		Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Order, error) {
	var orders []model.Order
	if err := scope(r.db.WithContext(ctx), false).
		Where("user_id = ?", userID).
		Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// IDsByUser returns the ids of the user's non-deleted orders, for cascading
// deletes across order items and payments.
func (r *orderRepository) IDsByUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := scope(r.db.WithContext(ctx).Model(&model.Order{}), false).
		Where("user_id = ?", userID).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *orderRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(softDeleteValues()).Error
}

func (r *orderRepository) SoftDeleteByUser(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Order{}).
		Where("user_id = ? AND is_deleted = ?", userID, false).
		Updates(softDeleteValues()).Error
}

// OrderItemRepository defines order item persistence operations.
type OrderItemRepository interface {
	CreateBatch(ctx context.Context, items []model.OrderItem) error
	Save(ctx context.Context, item *model.OrderItem) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.OrderItem, error)
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]model.OrderItem, error)
	ExistsByProduct(ctx context.Context, productID uuid.UUID) (bool, error)
	SoftDeleteByOrders(ctx context.Context, orderIDs []uuid.UUID) error
}

type orderItemRepository struct {
	db *gorm.DB
}

// NewOrderItemRepository builds a GORM-backed repository.
func NewOrderItemRepository(db *gorm.DB) OrderItemRepository {
	return &orderItemRepository{db: db}
}

func (r *orderItemRepository) CreateBatch(ctx context.Context, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(items, 100).Error
}

func (r *orderItemRepository) Save(ctx context.Context, item *model.OrderItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *orderItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.OrderItem, error) {
	var item model.OrderItem
	if err := scope(r.db.WithContext(ctx), false).
		Where("id = ?", id).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *orderItemRepository) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]model.OrderItem, error) {
	var items []model.OrderItem
	if err := scope(r.db.WithContext(ctx), false).
		Where("order_id = ?", orderID).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// ExistsByProduct reports whether any non-deleted order item references the
// product. Used to restrict product deletion.
func (r *orderItemRepository) ExistsByProduct(ctx context.Context, productID uuid.UUID) (bool, error) {
	var count int64
	if err := scope(r.db.WithContext(ctx).Model(&model.OrderItem{}), false).
		Where("product_id = ?", productID).
		Limit(1).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *orderItemRepository) SoftDeleteByOrders(ctx context.Context, orderIDs []uuid.UUID) error {
	if len(orderIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&model.OrderItem{}).
		Where("order_id IN ? AND is_deleted = ?", orderIDs, false).
		Updates(softDeleteValues()).Error
}
