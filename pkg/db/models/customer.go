package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Customer is a client of the print shop.
type Customer struct {
	ID        uuid.UUID      `gorm:"column:id;type:uuid;primaryKey"`
	Code      string         `gorm:"column:code;not null;uniqueIndex"`
	Name      string         `gorm:"column:name;not null"`
	Phone     string         `gorm:"column:phone;not null"`
	Email     *string        `gorm:"column:email"`
	Address   *string        `gorm:"column:address"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (c *Customer) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
