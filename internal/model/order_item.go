package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderItem is a line on an order, snapshotting the product price at
// purchase time.
type OrderItem struct {
	ID            uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	OrderID       uuid.UUID       `json:"order_id" gorm:"type:char(36);not null;index"`
	ProductID     uuid.UUID       `json:"product_id" gorm:"type:char(36);not null;index"`
	Quantity      int             `json:"quantity" gorm:"not null" validate:"required,min=1"`
	UnitPrice     decimal.Decimal `json:"unit_price" gorm:"type:decimal(10,2);not null"`
	SubtotalPrice decimal.Decimal `json:"subtotal_price" gorm:"type:decimal(10,2);not null"`
	IsDeleted     bool            `json:"-" gorm:"not null;default:false;index"`
	DeletedAt     *time.Time      `json:"-"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`

	// Relations
	Order   Order   `json:"-" gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" validate:"-"`
	Product Product `json:"-" gorm:"foreignKey:ProductID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" validate:"-"`
}

// BeforeCreate sets UUID before creating the record.
func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// ComputeSubtotal recomputes subtotal_price from quantity and unit_price.
// Must run before every persist that touches either field.
func (i *OrderItem) ComputeSubtotal() {
	i.SubtotalPrice = i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
