package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/simkemas/simkemas-backend/pkg/enums"
)

// Order is the aggregate root of the order lifecycle. PaymentStatus is a cached
// projection of the amount columns and Version is bumped on every mutation.
type Order struct {
	ID               uuid.UUID              `gorm:"column:id;type:uuid;primaryKey"`
	Code             string                 `gorm:"column:code;not null;uniqueIndex"`
	CustomerID       uuid.UUID              `gorm:"column:customer_id;type:uuid;not null;index"`
	TotalAmount      decimal.Decimal        `gorm:"column:total_amount;type:numeric(15,2);not null;default:0"`
	Discount         decimal.Decimal        `gorm:"column:discount;type:numeric(15,2);not null;default:0"`
	FinalAdjustment  decimal.Decimal        `gorm:"column:final_adjustment;type:numeric(15,2);not null;default:0"`
	PaidAmount       decimal.Decimal        `gorm:"column:paid_amount;type:numeric(15,2);not null;default:0"`
	PaymentOption    enums.PaymentOption    `gorm:"column:payment_option;not null"`
	PaymentStatus    enums.PaymentStatus    `gorm:"column:payment_status;not null"`
	ProductionStatus enums.ProductionStatus `gorm:"column:production_status;not null"`
	Deadline         *time.Time             `gorm:"column:deadline"`
	ActualQuantity   *int                   `gorm:"column:actual_quantity"`
	DesignerID       *uuid.UUID             `gorm:"column:designer_id;type:uuid"`
	OperatorID       *uuid.UUID             `gorm:"column:operator_id;type:uuid"`
	CreatedBy        *uuid.UUID             `gorm:"column:created_by;type:uuid"`
	Note             *string                `gorm:"column:note"`
	PickedUpAt       *time.Time             `gorm:"column:picked_up_at"`
	Version          int64                  `gorm:"column:version;not null;default:1"`
	CreatedAt        time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time              `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt        gorm.DeletedAt         `gorm:"column:deleted_at;index"`

	Customer *Customer   `gorm:"foreignKey:CustomerID"`
	Items    []OrderItem `gorm:"foreignKey:OrderID"`
}

func (o *Order) BeforeCreate(*gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	if o.Version == 0 {
		o.Version = 1
	}
	return nil
}

// OrderItem is a line on an order. Subtotal is quantity * price at creation time.
type OrderItem struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	OrderID   uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	Variant   *string         `gorm:"column:variant"`
	Quantity  int             `gorm:"column:quantity;not null"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(15,2);not null"`
	Subtotal  decimal.Decimal `gorm:"column:subtotal;type:numeric(15,2);not null"`
	Note      *string         `gorm:"column:note"`
	HasDesign bool            `gorm:"column:has_design;not null;default:false"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`

	Product *Product `gorm:"foreignKey:ProductID"`
}

func (i *OrderItem) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
