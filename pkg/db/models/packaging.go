package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PackagingType is a packaging family on the price list (pouch, box, label).
type PackagingType struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	Name      string          `gorm:"column:name;not null"`
	Sizes     []PackagingSize `gorm:"foreignKey:TypeID"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt gorm.DeletedAt  `gorm:"column:deleted_at;index"`
}

func (p *PackagingType) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// PackagingSize is a priced size of a packaging type.
type PackagingSize struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	TypeID    uuid.UUID       `gorm:"column:type_id;type:uuid;not null;index"`
	Size      string          `gorm:"column:size;not null"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(15,2);not null;default:0"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt gorm.DeletedAt  `gorm:"column:deleted_at;index"`
}

func (p *PackagingSize) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
