package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is a catalog item belonging to one category.
type Product struct {
	ID            uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	Name          string          `json:"name" gorm:"size:200;not null;index" validate:"required,min=3,max=200"`
	Description   string          `json:"description,omitempty" gorm:"type:text"`
	Price         decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null;index"`
	CategoryID    uuid.UUID       `json:"category_id" gorm:"type:char(36);not null;index"`
	StockQuantity int             `json:"stock_quantity" gorm:"not null;default:0" validate:"min=0"`
	IsDeleted     bool            `json:"-" gorm:"not null;default:false;index"`
	DeletedAt     *time.Time      `json:"-"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`

	// Relations
	Category Category       `json:"category,omitempty" gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" validate:"-"`
	Images   []ProductImage `json:"images,omitempty" gorm:"foreignKey:ProductID;constraint:OnUpdate:CASCADE"`
}

// BeforeCreate sets UUID before creating the record.
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// InStock reports whether at least quantity units are available.
func (p *Product) InStock(quantity int) bool {
	return p.StockQuantity >= quantity
}

// ReduceStock decrements stock by quantity, reporting whether enough
// stock was available.
func (p *Product) ReduceStock(quantity int) bool {
	if !p.InStock(quantity) {
		return false
	}
	p.StockQuantity -= quantity
	return true
}
