package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductImage is an image attached to a product. At most one image per
// product carries IsPrimary at any time; the swap happens in the same
// transaction as the insert.
type ProductImage struct {
	ID        uuid.UUID  `json:"id" gorm:"type:char(36);primaryKey"`
	ProductID uuid.UUID  `json:"product_id" gorm:"type:char(36);not null;index"`
	ImageURL  string     `json:"image_url" gorm:"size:500;not null" validate:"required,url,max=500"`
	IsPrimary bool       `json:"is_primary" gorm:"not null;default:false;index"`
	IsDeleted bool       `json:"-" gorm:"not null;default:false;index"`
	DeletedAt *time.Time `json:"-"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	// Relations
	Product Product `json:"-" gorm:"foreignKey:ProductID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" validate:"-"`
}

// BeforeCreate sets UUID before creating the record.
func (i *ProductImage) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
