package inventory

import (
	"time"

	"github.com/google/uuid"

	"github.com/simkemas/simkemas-backend/pkg/enums"
)

// StockRow is a material item with its category name.
type StockRow struct {
	ID           uuid.UUID `json:"id"`
	ItemName     string    `json:"item_name"`
	Stock        int       `json:"stock"`
	Unit         string    `json:"unit"`
	MaterialID   uuid.UUID `json:"material_id"`
	MaterialName string    `json:"material_name"`
}

// LogRow is an inventory log joined with item, material and user names.
// Quantity is the amount as entered; Delta is the signed stock change.
type LogRow struct {
	ID            uuid.UUID              `json:"id"`
	ItemID        uuid.UUID              `json:"item_id"`
	Type          enums.InventoryLogType `json:"type"`
	Quantity      int                    `json:"quantity"`
	Delta         int                    `json:"delta"`
	PreviousStock int                    `json:"previous_stock"`
	CurrentStock  int                    `json:"current_stock"`
	Note          *string                `json:"note,omitempty"`
	UserID        *uuid.UUID             `json:"user_id,omitempty"`
	OrderID       *uuid.UUID             `json:"order_id,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
	ItemName      string                 `json:"item_name"`
	MaterialName  string                 `json:"material_name"`
	UserName      *string                `json:"user_name,omitempty"`
}

// UpdateInput is a manual stock movement from the inventory screen.
type UpdateInput struct {
	ItemID   uuid.UUID
	Type     enums.InventoryLogType
	Quantity int
	Note     string
	UserID   uuid.UUID
}

// MutationResult reports the stock before and after a movement.
type MutationResult struct {
	LogID         uuid.UUID              `json:"log_id"`
	ItemID        uuid.UUID              `json:"item_id"`
	Type          enums.InventoryLogType `json:"type"`
	Quantity      int                    `json:"quantity"`
	PreviousStock int                    `json:"previous_stock"`
	CurrentStock  int                    `json:"current_stock"`
	Delta         int                    `json:"delta"`
}
