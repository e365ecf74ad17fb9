package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Material groups stock items, for example "Kertas" or "Tinta".
type Material struct {
	ID        uuid.UUID      `gorm:"column:id;type:uuid;primaryKey"`
	Name      string         `gorm:"column:name;not null"`
	Items     []MaterialItem `gorm:"foreignKey:MaterialID"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (m *Material) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// MaterialItem is a stock keeping unit. Stock moves only through inventory logs.
type MaterialItem struct {
	ID         uuid.UUID      `gorm:"column:id;type:uuid;primaryKey"`
	MaterialID uuid.UUID      `gorm:"column:material_id;type:uuid;not null;index"`
	Name       string         `gorm:"column:name;not null"`
	Unit       string         `gorm:"column:unit;not null;default:pcs"`
	Stock      int            `gorm:"column:stock;not null;default:0"`
	CreatedAt  time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt  gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (m *MaterialItem) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
