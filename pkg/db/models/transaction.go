package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/simkemas/simkemas-backend/pkg/enums"
)

// Transaction is a cash ledger entry. Amount is always positive; Type carries the sign.
type Transaction struct {
	ID             uuid.UUID             `gorm:"column:id;type:uuid;primaryKey"`
	Type           enums.TransactionType `gorm:"column:type;not null"`
	Category       string                `gorm:"column:category;not null"`
	Amount         decimal.Decimal       `gorm:"column:amount;type:numeric(15,2);not null"`
	Description    string                `gorm:"column:description;not null"`
	RelatedOrderID *uuid.UUID            `gorm:"column:related_order_id;type:uuid"`
	UserID         *uuid.UUID            `gorm:"column:user_id;type:uuid"`
	CreatedAt      time.Time             `gorm:"column:created_at;autoCreateTime"`
}

func (t *Transaction) BeforeCreate(*gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
