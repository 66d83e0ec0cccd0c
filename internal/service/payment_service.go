package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	apperrors "storefront/internal/errors"
	"storefront/internal/model"
	"storefront/internal/repository"
	"storefront/internal/validation"
)

// CreatePaymentInput carries the fields accepted when recording a payment.
type CreatePaymentInput struct {
	OrderID       uuid.UUID
	Method        string
	Amount        decimal.Decimal
	TransactionID string
	ReceiptURL    string
}

// UpdatePaymentInput carries a partial payment update. A status change to
// completed stamps paid_at exactly once.
type UpdatePaymentInput struct {
	Status     *model.PaymentStatus
	Method     *string
	ReceiptURL *string
}

// PaymentService exposes payment operations including webhook updates.
type PaymentService interface {
	CreatePayment(ctx context.Context, input CreatePaymentInput) (*model.Payment, error)
	GetPayment(ctx context.Context, id uuid.UUID, includeDeleted bool) (*model.Payment, error)
	ListPayments(ctx context.Context, includeDeleted bool) ([]model.Payment, error)
	GetPaymentByOrder(ctx context.Context, orderID uuid.UUID) (*model.Payment, error)
	UpdatePayment(ctx context.Context, id uuid.UUID, input UpdatePaymentInput) (*model.Payment, error)
	HandleWebhook(ctx context.Context, transactionID string, status model.PaymentStatus) (*model.Payment, error)
}

type paymentService struct {
	store    *repository.Store
	validate *validation.Validator
	now      func() time.Time
}

// NewPaymentService builds a PaymentService.
func NewPaymentService(store *repository.Store, validate *validation.Validator) PaymentService {
	return &paymentService{store: store, validate: validate, now: time.Now}
}

// CreatePayment records the single payment for an order.
func (s *paymentService) CreatePayment(ctx context.Context, input CreatePaymentInput) (*model.Payment, error) {
	if input.Amount.IsNegative() {
		return nil, apperrors.Validation("payment", "amount", "min")
	}

	payment := &model.Payment{
		OrderID:       input.OrderID,
		Method:        input.Method,
		Status:        model.PaymentStatusPending,
		Amount:        input.Amount,
		TransactionID: input.TransactionID,
		ReceiptURL:    input.ReceiptURL,
	}
	if err := s.validate.Struct("payment", payment); err != nil {
		return nil, err
	}

	if _, err := s.store.Orders.FindByID(ctx, input.OrderID, false); err != nil {
		return nil, apperrors.FromDB("order", err)
	}
	if _, err := s.store.Payments.FindByOrder(ctx, input.OrderID); err == nil {
		return nil, apperrors.Conflict("payment", "order_id")
	}

	if err := s.store.Payments.Create(ctx, payment); err != nil {
		if apperrors.IsConflict(apperrors.FromDB("payment", err)) {
			return nil, apperrors.Conflict("payment", "transaction_id")
		}
		return nil, apperrors.FromDB("payment", err)
	}
	return payment, nil
}

func (s *paymentService) GetPayment(ctx context.Context, id uuid.UUID, includeDeleted bool) (*model.Payment, error) {
	payment, err := s.store.Payments.FindByID(ctx, id, includeDeleted)
	if err != nil {
		return nil, apperrors.FromDB("payment", err)
	}
	return payment, nil
}

func (s *paymentService) ListPayments(ctx context.Context, includeDeleted bool) ([]model.Payment, error) {
	payments, err := s.store.Payments.List(ctx, includeDeleted)
	if err != nil {
		return nil, apperrors.FromDB("payment", err)
	}
	return payments, nil
}

func (s *paymentService) GetPaymentByOrder(ctx context.Context, orderID uuid.UUID) (*model.Payment, error) {
	payment, err := s.store.Payments.FindByOrder(ctx, orderID)
	if err != nil {
		return nil, apperrors.FromDB("payment", err)
	}
	return payment, nil
}

// UpdatePayment applies a partial update. The pending-to-completed transition
// stamps paid_at; no other transition touches it.
func (s *paymentService) UpdatePayment(ctx context.Context, id uuid.UUID, input UpdatePaymentInput) (*model.Payment, error) {
	payment, err := s.store.Payments.FindByID(ctx, id, false)
	if err != nil {
		return nil, apperrors.FromDB("payment", err)
	}
	return s.applyUpdate(ctx, payment, input)
}

// HandleWebhook resolves a payment by its gateway transaction id and applies
// the reported status through the same update path as UpdatePayment.
func (s *paymentService) HandleWebhook(ctx context.Context, transactionID string, status model.PaymentStatus) (*model.Payment, error) {
	payment, err := s.store.Payments.FindByTransactionID(ctx, transactionID)
	if err != nil {
		return nil, apperrors.FromDB("payment", err)
	}
	return s.applyUpdate(ctx, payment, UpdatePaymentInput{Status: &status})
}

func (s *paymentService) applyUpdate(ctx context.Context, payment *model.Payment, input UpdatePaymentInput) (*model.Payment, error) {
	if input.Status != nil {
		if !model.ValidPaymentStatus(*input.Status) {
			return nil, apperrors.Validation("payment", "status", "oneof")
		}
		payment.ApplyStatus(*input.Status, s.now())
	}
	if input.Method != nil {
		payment.Method = *input.Method
	}
	if input.ReceiptURL != nil {
		payment.ReceiptURL = *input.ReceiptURL
	}

	if err := s.validate.Struct("payment", payment); err != nil {
		return nil, err
	}
	if err := s.store.Payments.Save(ctx, payment); err != nil {
		return nil, apperrors.FromDB("payment", err)
	}
	return payment, nil
}
