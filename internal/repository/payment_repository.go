package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"storefront/internal/model"
)

// PaymentRepository defines payment persistence operations.
type PaymentRepository interface {
	Create(ctx context.Context, payment *model.Payment) error
	Save(ctx context.Context, payment *model.Payment) error
	FindByID(ctx context.Context, id uuid.UUID, includeDeleted bool) (*model.Payment, error)
	FindByOrder(ctx context.Context, orderID uuid.UUID) (*model.Payment, error)
	FindByTransactionID(ctx context.Context, transactionID string) (*model.Payment, error)
	List(ctx context.Context, includeDeleted bool) ([]model.Payment, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
	SoftDeleteByOrders(ctx context.Context, orderIDs []uuid.UUID) error
}

type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository builds a GORM-backed repository.
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, payment *model.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *paymentRepository) Save(ctx context.Context, payment *model.Payment) error {
	return r.db.WithContext(ctx).Save(payment).Error
}

func (r *paymentRepository) FindByID(ctx context.Context, id uuid.UUID, includeDeleted bool) (*model.Payment, error) {
	var payment model.Payment
	if err := scope(r.db.WithContext(ctx), includeDeleted).
		Where("id = ?", id).First(&payment).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) (*model.Payment, error) {
	var payment model.Payment
	if err := scope(r.db.WithContext(ctx), false).
		Where("order_id = ?", orderID).First(&payment).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) FindByTransactionID(ctx context.Context, transactionID string) (*model.Payment, error) {
	var payment model.Payment
	if err := scope(r.db.WithContext(ctx), false).
		Where("transaction_id = ?", transactionID).First(&payment).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) List(ctx context.Context, includeDeleted bool) ([]model.Payment, error) {
	var payments []model.Payment
	if err := scope(r.db.WithContext(ctx), includeDeleted).
		Order("created_at DESC").Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *paymentRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Payment{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(softDeleteValues()).Error
}

func (r *paymentRepository) SoftDeleteByOrders(ctx context.Context, orderIDs []uuid.UUID) error {
	if len(orderIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&model.Payment{}).
		Where("order_id IN ? AND is_deleted = ?", orderIDs, false).
		Updates(softDeleteValues()).Error
}
