package finance

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/simkemas/simkemas-backend/pkg/db/models"
	"github.com/simkemas/simkemas-backend/pkg/enums"
)

// Range is a half-open created_at window. Zero bounds are unbounded.
type Range struct {
	From  time.Time
	Until time.Time
}

// Repository defines persistence for the cash ledger.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, txn *models.Transaction) error
	List(ctx context.Context, r Range) ([]models.Transaction, error)
	Totals(ctx context.Context, r Range) (map[enums.TransactionType]decimal.Decimal, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a finance repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, txn *models.Transaction) error {
	return r.db.WithContext(ctx).Create(txn).Error
}

func (r *repository) List(ctx context.Context, rng Range) ([]models.Transaction, error) {
	var rows []models.Transaction
	err := r.scoped(ctx, rng).
		Order("created_at DESC").
		Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) Totals(ctx context.Context, rng Range) (map[enums.TransactionType]decimal.Decimal, error) {
	var rows []struct {
		Type  enums.TransactionType
		Total decimal.Decimal
	}
	err := r.scoped(ctx, rng).
		Select("type, COALESCE(SUM(amount), 0) AS total").
		Group("type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := map[enums.TransactionType]decimal.Decimal{
		enums.TransactionTypeIn:  decimal.Zero,
		enums.TransactionTypeOut: decimal.Zero,
	}
	for _, row := range rows {
		out[row.Type] = row.Total
	}
	return out, nil
}

func (r *repository) scoped(ctx context.Context, rng Range) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.Transaction{})
	if !rng.From.IsZero() {
		q = q.Where("created_at >= ?", rng.From)
	}
	if !rng.Until.IsZero() {
		q = q.Where("created_at < ?", rng.Until)
	}
	return q
}
