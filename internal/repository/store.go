package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// Store bundles all repositories over one database handle. It is constructed
// once at process start and passed explicitly to services; inside
// WithTransaction every repository is bound to the same transaction.
type Store struct {
	db *gorm.DB

	Users         UserRepository
	Categories    CategoryRepository
	Products      ProductRepository
	ProductImages ProductImageRepository
	Orders        OrderRepository
	OrderItems    OrderItemRepository
	Payments      PaymentRepository
}

// NewStore builds a Store with all repositories bound to db.
func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:            db,
		Users:         NewUserRepository(db),
		Categories:    NewCategoryRepository(db),
		Products:      NewProductRepository(db),
		ProductImages: NewProductImageRepository(db),
		Orders:        NewOrderRepository(db),
		OrderItems:    NewOrderItemRepository(db),
		Payments:      NewPaymentRepository(db),
	}
}

// WithTransaction executes fn against a store whose repositories share one
// database transaction. A store built without a database handle (unit tests
// with mock repositories) runs fn against itself.
func (s *Store) WithTransaction(ctx context.Context, fn func(ctx context.Context, s *Store) error) error {
	if s.db == nil {
		return fn(ctx, s)
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, NewStore(tx))
	})
}

// scope filters out soft-deleted rows unless includeDeleted is set.
func scope(db *gorm.DB, includeDeleted bool) *gorm.DB {
	if includeDeleted {
		return db
	}
	return db.Where("is_deleted = ?", false)
}

// softDeleteValues are the column writes for a soft delete. No other field
// is touched.
func softDeleteValues() map[string]interface{} {
	now := time.Now()
	return map[string]interface{}{
		"is_deleted": true,
		"deleted_at": now,
	}
}
