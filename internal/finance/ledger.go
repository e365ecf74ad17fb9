package finance

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/simkemas/simkemas-backend/pkg/db/models"
	"github.com/simkemas/simkemas-backend/pkg/enums"
	pkgerrors "github.com/simkemas/simkemas-backend/pkg/errors"
)

const (
	CategorySales   = "Penjualan"
	CategoryGeneral = "Umum"
)

// Entry is a single cash movement to append to the ledger.
type Entry struct {
	Type           enums.TransactionType
	Category       string
	Amount         decimal.Decimal
	Description    string
	RelatedOrderID *uuid.UUID
	UserID         *uuid.UUID
}

type entryMetrics interface {
	CashEntry(kind, category string)
}

// Ledger appends cash entries. It never owns a transaction: callers pass the
// *gorm.DB of the unit of work the entry belongs to.
type Ledger struct {
	repo    Repository
	metrics entryMetrics
}

// NewLedger builds the cash ledger primitive.
func NewLedger(repo Repository, metrics entryMetrics) (*Ledger, error) {
	if repo == nil {
		return nil, fmt.Errorf("finance repository required")
	}
	return &Ledger{repo: repo, metrics: metrics}, nil
}

// Record validates and appends e inside tx.
func (l *Ledger) Record(ctx context.Context, tx *gorm.DB, e Entry) (*models.Transaction, error) {
	if !e.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction type must be in or out")
	}
	if !e.Amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be greater than zero")
	}
	desc := strings.TrimSpace(e.Description)
	if desc == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "description is required")
	}
	category := strings.TrimSpace(e.Category)
	if category == "" {
		category = CategoryGeneral
	}

	txn := &models.Transaction{
		Type:           e.Type,
		Category:       category,
		Amount:         e.Amount,
		Description:    desc,
		RelatedOrderID: e.RelatedOrderID,
		UserID:         e.UserID,
	}
	if err := l.repo.WithTx(tx).Create(ctx, txn); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record transaction")
	}
	if l.metrics != nil {
		l.metrics.CashEntry(string(txn.Type), txn.Category)
	}
	return txn, nil
}

// SalesDescription renders the description used for order payments, e.g.
// "INV INV/20250101/1234 - Budi - Down Payment (DP)".
func SalesDescription(code, customer, label string) string {
	if strings.TrimSpace(customer) == "" {
		customer = "Pelanggan"
	}
	return fmt.Sprintf("INV %s - %s - %s", code, customer, label)
}
