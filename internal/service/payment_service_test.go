package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	apperrors "storefront/internal/errors"
	"storefront/internal/model"
	"storefront/internal/validation"
)

func newPaymentService(m *storeMocks, now func() time.Time) PaymentService {
	if now == nil {
		now = time.Now
	}
	return &paymentService{store: m.store, validate: validation.New(), now: now}
}

func TestCreatePayment_Success(t *testing.T) {
	m := newStoreMocks()
	svc := newPaymentService(m, nil)

	orderID := uuid.New()
	m.orders.On("FindByID", mock.Anything, orderID, false).Return(&model.Order{ID: orderID}, nil)
	m.payments.On("FindByOrder", mock.Anything, orderID).Return(nil, gorm.ErrRecordNotFound)
	m.payments.On("Create", mock.Anything, mock.AnythingOfType("*model.Payment")).Return(nil)

	payment, err := svc.CreatePayment(context.Background(), CreatePaymentInput{
		OrderID:       orderID,
		Method:        "card",
		Amount:        decimal.NewFromFloat(38.00),
		TransactionID: "txn-001",
	})

	assert.NoError(t, err)
	assert.Equal(t, model.PaymentStatusPending, payment.Status)
	assert.Nil(t, payment.PaidAt)
}

func TestCreatePayment_NegativeAmount(t *testing.T) {
	m := newStoreMocks()
	svc := newPaymentService(m, nil)

	_, err := svc.CreatePayment(context.Background(), CreatePaymentInput{
		OrderID: uuid.New(),
		Method:  "card",
		Amount:  decimal.NewFromInt(-5),
	})

	assert.True(t, apperrors.IsValidation(err))
	m.payments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreatePayment_OrderAlreadyPaid(t *testing.T) {
	m := newStoreMocks()
	svc := newPaymentService(m, nil)

	orderID := uuid.New()
	m.orders.On("FindByID", mock.Anything, orderID, false).Return(&model.Order{ID: orderID}, nil)
	m.payments.On("FindByOrder", mock.Anything, orderID).Return(&model.Payment{ID: uuid.New(), OrderID: orderID}, nil)

	_, err := svc.CreatePayment(context.Background(), CreatePaymentInput{
		OrderID: orderID,
		Method:  "card",
		Amount:  decimal.NewFromFloat(10.00),
	})

	assert.True(t, apperrors.IsConflict(err))
	m.payments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreatePayment_DuplicateTransactionID(t *testing.T) {
	m := newStoreMocks()
	svc := newPaymentService(m, nil)

	orderID := uuid.New()
	m.orders.On("FindByID", mock.Anything, orderID, false).Return(&model.Order{ID: orderID}, nil)
	m.payments.On("FindByOrder", mock.Anything, orderID).Return(nil, gorm.ErrRecordNotFound)
	m.payments.On("Create", mock.Anything, mock.AnythingOfType("*model.Payment")).Return(gorm.ErrDuplicatedKey)

	_, err := svc.CreatePayment(context.Background(), CreatePaymentInput{
		OrderID:       orderID,
		Method:        "card",
		Amount:        decimal.NewFromFloat(10.00),
		TransactionID: "txn-001",
	})

	assert.True(t, apperrors.IsConflict(err))
}

func TestUpdatePayment_CompletedStampsPaidAtOnce(t *testing.T) {
	m := newStoreMocks()
	paidTime := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	svc := newPaymentService(m, func() time.Time { return paidTime })

	id := uuid.New()
	payment := &model.Payment{ID: id, OrderID: uuid.New(), Method: "card", Status: model.PaymentStatusPending}
	m.payments.On("FindByID", mock.Anything, id, false).Return(payment, nil)
	m.payments.On("Save", mock.Anything, payment).Return(nil)

	completed := model.PaymentStatusCompleted
	got, err := svc.UpdatePayment(context.Background(), id, UpdatePaymentInput{Status: &completed})

	assert.NoError(t, err)
	assert.Equal(t, model.PaymentStatusCompleted, got.Status)
	assert.NotNil(t, got.PaidAt)
	assert.Equal(t, paidTime, *got.PaidAt)

	// A second completed update must not move the stamp.
	later := paidTime.Add(time.Hour)
	svc = newPaymentService(m, func() time.Time { return later })
	got, err = svc.UpdatePayment(context.Background(), id, UpdatePaymentInput{Status: &completed})

	assert.NoError(t, err)
	assert.Equal(t, paidTime, *got.PaidAt)
}

func TestUpdatePayment_CancelledLeavesPaidAtEmpty(t *testing.T) {
	m := newStoreMocks()
	svc := newPaymentService(m, nil)

	id := uuid.New()
	payment := &model.Payment{ID: id, OrderID: uuid.New(), Method: "card", Status: model.PaymentStatusPending}
	m.payments.On("FindByID", mock.Anything, id, false).Return(payment, nil)
	m.payments.On("Save", mock.Anything, payment).Return(nil)

	cancelled := model.PaymentStatusCancelled
	got, err := svc.UpdatePayment(context.Background(), id, UpdatePaymentInput{Status: &cancelled})

	assert.NoError(t, err)
	assert.Equal(t, model.PaymentStatusCancelled, got.Status)
	assert.Nil(t, got.PaidAt)
}

func TestUpdatePayment_UnknownStatus(t *testing.T) {
	m := newStoreMocks()
	svc := newPaymentService(m, nil)

	id := uuid.New()
	payment := &model.Payment{ID: id, OrderID: uuid.New(), Method: "card", Status: model.PaymentStatusPending}
	m.payments.On("FindByID", mock.Anything, id, false).Return(payment, nil)

	bogus := model.PaymentStatus("refunded")
	_, err := svc.UpdatePayment(context.Background(), id, UpdatePaymentInput{Status: &bogus})

	assert.True(t, apperrors.IsValidation(err))
	m.payments.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestHandleWebhook_CompletesByTransactionID(t *testing.T) {
	m := newStoreMocks()
	paidTime := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	svc := newPaymentService(m, func() time.Time { return paidTime })

	payment := &model.Payment{ID: uuid.New(), OrderID: uuid.New(), Method: "card", Status: model.PaymentStatusPending, TransactionID: "txn-001"}
	m.payments.On("FindByTransactionID", mock.Anything, "txn-001").Return(payment, nil)
	m.payments.On("Save", mock.Anything, payment).Return(nil)

	got, err := svc.HandleWebhook(context.Background(), "txn-001", model.PaymentStatusCompleted)

	assert.NoError(t, err)
	assert.Equal(t, model.PaymentStatusCompleted, got.Status)
	assert.NotNil(t, got.PaidAt)
	assert.Equal(t, paidTime, *got.PaidAt)
}

func TestHandleWebhook_UnknownTransaction(t *testing.T) {
	m := newStoreMocks()
	svc := newPaymentService(m, nil)

	m.payments.On("FindByTransactionID", mock.Anything, "txn-missing").Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.HandleWebhook(context.Background(), "txn-missing", model.PaymentStatusCompleted)

	assert.True(t, apperrors.IsNotFound(err))
}
