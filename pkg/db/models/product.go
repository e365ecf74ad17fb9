package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Product is a customer's branded item that orders print packaging for.
type Product struct {
	ID            uuid.UUID      `gorm:"column:id;type:uuid;primaryKey"`
	CustomerID    uuid.UUID      `gorm:"column:customer_id;type:uuid;not null;index"`
	Code          string         `gorm:"column:code;not null;uniqueIndex"`
	Name          string         `gorm:"column:name;not null"`
	Brand         string         `gorm:"column:brand;not null"`
	Variants      pq.StringArray `gorm:"column:variants;type:text[];not null;default:'{}'"`
	Netto         *string        `gorm:"column:netto"`
	PackagingType *string        `gorm:"column:packaging_type"`
	PackagingSize *string        `gorm:"column:packaging_size"`
	NIB           *string        `gorm:"column:nib"`
	Halal         *string        `gorm:"column:halal"`
	PIRT          *string        `gorm:"column:pirt"`
	CreatedAt     time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt     gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Variants == nil {
		p.Variants = pq.StringArray{}
	}
	return nil
}
