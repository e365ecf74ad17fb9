package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simkemas/simkemas-backend/pkg/db/models"
	"github.com/simkemas/simkemas-backend/pkg/enums"
)

// ReportInput carries the raw YYYY-MM-DD bounds from the query string.
type ReportInput struct {
	Start string
	End   string
}

// ManualInput is a cash entry typed in by staff.
type ManualInput struct {
	Type        enums.TransactionType
	Amount      decimal.Decimal
	Description string
	Category    string
	UserID      uuid.UUID
}

type TransactionView struct {
	ID             uuid.UUID             `json:"id"`
	Type           enums.TransactionType `json:"type"`
	Category       string                `json:"category"`
	Amount         decimal.Decimal       `json:"amount"`
	Description    string                `json:"description"`
	RelatedOrderID *uuid.UUID            `json:"related_order_id,omitempty"`
	UserID         *uuid.UUID            `json:"user_id,omitempty"`
	CreatedAt      time.Time             `json:"created_at"`
}

type Summary struct {
	TotalIn  decimal.Decimal `json:"total_in"`
	TotalOut decimal.Decimal `json:"total_out"`
	Balance  decimal.Decimal `json:"balance"`
}

type Report struct {
	Transactions []TransactionView `json:"transactions"`
	Summary      Summary           `json:"summary"`
}

func toView(t models.Transaction) TransactionView {
	return TransactionView{
		ID:             t.ID,
		Type:           t.Type,
		Category:       t.Category,
		Amount:         t.Amount,
		Description:    t.Description,
		RelatedOrderID: t.RelatedOrderID,
		UserID:         t.UserID,
		CreatedAt:      t.CreatedAt,
	}
}
