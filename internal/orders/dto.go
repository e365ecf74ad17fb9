package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simkemas/simkemas-backend/pkg/enums"
	"github.com/simkemas/simkemas-backend/pkg/pagination"
)

// ItemInput is a requested order line.
type ItemInput struct {
	ProductID uuid.UUID
	Variant   *string
	Quantity  int
	Price     decimal.Decimal
	Note      *string
	HasDesign bool
}

// CreateInput is the cashier's order intake.
type CreateInput struct {
	CustomerID    uuid.UUID
	Items         []ItemInput
	PaymentOption enums.PaymentOption
	PaidAmount    decimal.Decimal
	Discount      decimal.Decimal
	Note          *string
	Deadline      *time.Time
	CreatedBy     uuid.UUID
}

// CreateResult identifies a newly created order.
type CreateResult struct {
	OrderID uuid.UUID `json:"orderId"`
	Code    string    `json:"code"`
}

// ListInput filters the order book.
type ListInput struct {
	Search string
	pagination.Params
}

// ListResult is one page of the order book.
type ListResult struct {
	Orders     []OrderView `json:"orders"`
	NextCursor string      `json:"next_cursor,omitempty"`
}

// QueueSort selects the ordering of a workflow queue.
type QueueSort int

const (
	// SortByDeadline orders by deadline ascending with nulls last, then by age.
	SortByDeadline QueueSort = iota
	// SortRecentlyUpdated orders by updated_at descending.
	SortRecentlyUpdated
)

// QueueQuery selects orders for a workflow desk.
type QueueQuery struct {
	Statuses   []enums.ProductionStatus
	DesignerID *uuid.UUID
	OperatorID *uuid.UUID
	Sort       QueueSort
	Limit      int
}

type CustomerView struct {
	ID      uuid.UUID `json:"id"`
	Code    string    `json:"code"`
	Name    string    `json:"name"`
	Phone   string    `json:"phone"`
	Email   *string   `json:"email,omitempty"`
	Address *string   `json:"address,omitempty"`
}

type ItemView struct {
	ID            uuid.UUID       `json:"id"`
	ProductID     uuid.UUID       `json:"product_id"`
	ProductName   string          `json:"product_name"`
	Brand         string          `json:"brand"`
	PackagingType *string         `json:"packaging_type,omitempty"`
	PackagingSize *string         `json:"packaging_size,omitempty"`
	Netto         *string         `json:"netto,omitempty"`
	PIRT          *string         `json:"pirt,omitempty"`
	Halal         *string         `json:"halal,omitempty"`
	NIB           *string         `json:"nib,omitempty"`
	Variant       *string         `json:"variant,omitempty"`
	Quantity      int             `json:"quantity"`
	Price         decimal.Decimal `json:"price"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Note          *string         `json:"note,omitempty"`
	HasDesign     bool            `json:"has_design"`
}

// OrderView is the read model every order endpoint renders. PaymentStatus is
// recomputed from the amounts on every read (see DerivePaymentStatus).
type OrderView struct {
	ID               uuid.UUID              `json:"id"`
	Code             string                 `json:"code"`
	CustomerID       uuid.UUID              `json:"customer_id"`
	Customer         *CustomerView          `json:"customer,omitempty"`
	TotalAmount      decimal.Decimal        `json:"total_amount"`
	Discount         decimal.Decimal        `json:"discount"`
	FinalAdjustment  decimal.Decimal        `json:"final_adjustment"`
	PaidAmount       decimal.Decimal        `json:"paid_amount"`
	RemainingAmount  decimal.Decimal        `json:"remaining_amount"`
	PaymentOption    enums.PaymentOption    `json:"payment_option"`
	PaymentStatus    enums.PaymentStatus    `json:"payment_status"`
	ProductionStatus enums.ProductionStatus `json:"production_status"`
	Deadline         *time.Time             `json:"deadline,omitempty"`
	ActualQuantity   *int                   `json:"actual_quantity,omitempty"`
	DesignerID       *uuid.UUID             `json:"designer_id,omitempty"`
	OperatorID       *uuid.UUID             `json:"operator_id,omitempty"`
	CreatedBy        *uuid.UUID             `json:"created_by,omitempty"`
	Note             *string                `json:"note,omitempty"`
	PickedUpAt       *time.Time             `json:"picked_up_at,omitempty"`
	Version          int64                  `json:"version"`
	CreatedAt        time.Time              `json:"created_at"`
	UpdatedAt        time.Time              `json:"updated_at"`
	Items            []ItemView             `json:"items"`
}
