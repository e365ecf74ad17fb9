package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/simkemas/simkemas-backend/pkg/enums"
)

// InventoryLog is an append-only stock movement. Quantity is the requested amount
// for in and out and CurrentStock - PreviousStock for opname.
type InventoryLog struct {
	ID            uuid.UUID              `gorm:"column:id;type:uuid;primaryKey"`
	ItemID        uuid.UUID              `gorm:"column:item_id;type:uuid;not null;index"`
	Type          enums.InventoryLogType `gorm:"column:type;not null"`
	Quantity      int                    `gorm:"column:quantity;not null"`
	PreviousStock int                    `gorm:"column:previous_stock;not null"`
	CurrentStock  int                    `gorm:"column:current_stock;not null"`
	Note          *string                `gorm:"column:note"`
	UserID        *uuid.UUID             `gorm:"column:user_id;type:uuid"`
	OrderID       *uuid.UUID             `gorm:"column:order_id;type:uuid"`
	CreatedAt     time.Time              `gorm:"column:created_at;autoCreateTime"`
}

// Delta is the signed stock change of the movement.
func (l InventoryLog) Delta() int {
	return l.CurrentStock - l.PreviousStock
}

func (l *InventoryLog) BeforeCreate(*gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
