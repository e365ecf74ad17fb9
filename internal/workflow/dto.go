package workflow

import (
	"github.com/google/uuid"

	"github.com/simkemas/simkemas-backend/pkg/enums"
)

// Actor is the authenticated staff member performing a workflow step.
type Actor struct {
	UserID uuid.UUID
	Role   enums.Role
}

// MaterialUse is one material item consumed by a production step.
type MaterialUse struct {
	ItemID   uuid.UUID
	Quantity int
}

// DesignInput moves an order through the design desk.
type DesignInput struct {
	OrderID         uuid.UUID
	Status          enums.ProductionStatus
	Note            *string
	ExpectedVersion *int64
	Actor           Actor
}

// ProductionInput moves an order across the print floor.
type ProductionInput struct {
	OrderID         uuid.UUID
	Status          enums.ProductionStatus
	Note            *string
	ActualQuantity  *int
	MaterialsUsed   []MaterialUse
	ExpectedVersion *int64
	Actor           Actor
}
