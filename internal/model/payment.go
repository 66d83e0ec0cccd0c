package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentStatus represents the status of a payment.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusCancelled PaymentStatus = "cancelled"
)

// ValidPaymentStatus reports whether s is a known payment status.
func ValidPaymentStatus(s PaymentStatus) bool {
	switch s {
	case PaymentStatusPending, PaymentStatusCompleted, PaymentStatusCancelled:
		return true
	}
	return false
}

// Payment is the single payment attached to an order.
type Payment struct {
	ID            uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	OrderID       uuid.UUID       `json:"order_id" gorm:"type:char(36);uniqueIndex;not null"`
	Method        string          `json:"method" gorm:"size:250;not null" validate:"required,max=250"`
	Status        PaymentStatus   `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	Amount        decimal.Decimal `json:"amount" gorm:"type:decimal(12,2);not null"`
	TransactionID string          `json:"transaction_id,omitempty" gorm:"uniqueIndex;size:100" validate:"omitempty,max=100"`
	ReceiptURL    string          `json:"receipt_url,omitempty" gorm:"size:500" validate:"omitempty,url,max=500"`
	PaidAt        *time.Time      `json:"paid_at,omitempty"`
	IsDeleted     bool            `json:"-" gorm:"not null;default:false;index"`
	DeletedAt     *time.Time      `json:"-"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`

	// Relations
	Order Order `json:"-" gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" validate:"-"`
}

// BeforeCreate sets UUID before creating the record.
func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// ApplyStatus transitions the payment to status, stamping PaidAt exactly once
// when the payment first becomes completed. Must run before the update is
// persisted.
func (p *Payment) ApplyStatus(status PaymentStatus, now time.Time) {
	if status == PaymentStatusCompleted && p.Status != PaymentStatusCompleted && p.PaidAt == nil {
		paidAt := now
		p.PaidAt = &paidAt
	}
	p.Status = status
}

// IsSuccessful reports whether the payment completed.
func (p *Payment) IsSuccessful() bool {
	return p.Status == PaymentStatusCompleted
}

// IsPending reports whether the payment is still pending.
func (p *Payment) IsPending() bool {
	return p.Status == PaymentStatusPending
}
