package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/simkemas/simkemas-backend/pkg/db/models"
	"github.com/simkemas/simkemas-backend/pkg/enums"
	pkgerrors "github.com/simkemas/simkemas-backend/pkg/errors"
)

// ErrStockChanged means the item's stock moved between read and write.
var ErrStockChanged = errors.New("stock changed concurrently")

// Mutation is a single stock movement request.
type Mutation struct {
	ItemID   uuid.UUID
	Type     enums.InventoryLogType
	Quantity int
	Note     string
	UserID   *uuid.UUID
	OrderID  *uuid.UUID
}

// NextStock applies a movement to the previous stock. No floor or ceiling is
// enforced: out may drive stock negative and opname overwrites.
func NextStock(previous int, kind enums.InventoryLogType, quantity int) int {
	switch kind {
	case enums.InventoryLogTypeIn:
		return previous + quantity
	case enums.InventoryLogTypeOut:
		return previous - quantity
	default:
		return quantity
	}
}

// LogQuantity is the quantity recorded on the log row: the requested amount for
// in and out, the signed correction for opname.
func LogQuantity(kind enums.InventoryLogType, quantity, previous, current int) int {
	if kind == enums.InventoryLogTypeOpname {
		return current - previous
	}
	return quantity
}

type mutationMetrics interface {
	StockMutation(kind string)
}

// Ledger writes stock changes and their log rows. Callers own the transaction.
type Ledger struct {
	repo    Repository
	metrics mutationMetrics
}

// NewLedger builds the stock ledger primitive.
func NewLedger(repo Repository, metrics mutationMetrics) (*Ledger, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	return &Ledger{repo: repo, metrics: metrics}, nil
}

// Apply locks the item, writes the new stock with a compare-and-swap on the
// previous value and appends the log row, all inside tx.
func (l *Ledger) Apply(ctx context.Context, tx *gorm.DB, m Mutation) (*models.InventoryLog, error) {
	if m.ItemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item_id is required")
	}
	if !m.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "type must be in, out or opname")
	}
	if m.Quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must not be negative")
	}

	repo := l.repo.WithTx(tx)
	item, err := repo.LockItem(ctx, m.ItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "material item not found").
				WithDetails(map[string]any{"item_id": m.ItemID})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load material item")
	}

	previous := item.Stock
	current := NextStock(previous, m.Type, m.Quantity)

	if err := repo.SwapStock(ctx, item.ID, previous, current); err != nil {
		if errors.Is(err, ErrStockChanged) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "stock changed, reload and retry").
				WithDetails(map[string]any{"item_id": item.ID})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update stock")
	}

	entry := &models.InventoryLog{
		ItemID:        item.ID,
		Type:          m.Type,
		Quantity:      LogQuantity(m.Type, m.Quantity, previous, current),
		PreviousStock: previous,
		CurrentStock:  current,
		UserID:        m.UserID,
		OrderID:       m.OrderID,
	}
	if m.Note != "" {
		note := m.Note
		entry.Note = &note
	}
	if err := repo.CreateLog(ctx, entry); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append inventory log")
	}
	if l.metrics != nil {
		l.metrics.StockMutation(string(m.Type))
	}
	return entry, nil
}
