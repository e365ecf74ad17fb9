package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgerrors "github.com/simkemas/simkemas-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type resourceLocker interface {
	WithLock(ctx context.Context, resource, id string, fn func(ctx context.Context) error) error
}

// LockResource is the lock namespace for material items.
const LockResource = "material_item"

// Service exposes stock levels and manual movements.
type Service interface {
	Stocks(ctx context.Context) ([]StockRow, error)
	Logs(ctx context.Context) ([]LogRow, error)
	Update(ctx context.Context, input UpdateInput) (*MutationResult, error)
}

type service struct {
	repo   Repository
	ledger *Ledger
	tx     txRunner
	locks  resourceLocker
}

// NewService builds the inventory service.
func NewService(repo Repository, ledger *Ledger, tx txRunner, locks resourceLocker) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if ledger == nil {
		return nil, fmt.Errorf("stock ledger required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if locks == nil {
		return nil, fmt.Errorf("resource locker required")
	}
	return &service{repo: repo, ledger: ledger, tx: tx, locks: locks}, nil
}

func (s *service) Stocks(ctx context.Context) ([]StockRow, error) {
	rows, err := s.repo.ListStocks(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list stocks")
	}
	return rows, nil
}

func (s *service) Logs(ctx context.Context) ([]LogRow, error) {
	rows, err := s.repo.ListLogs(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list inventory logs")
	}
	return rows, nil
}

func (s *service) Update(ctx context.Context, input UpdateInput) (*MutationResult, error) {
	if input.ItemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item_id is required")
	}
	m := Mutation{ItemID: input.ItemID, Type: input.Type, Quantity: input.Quantity, Note: input.Note}
	if input.UserID != uuid.Nil {
		uid := input.UserID
		m.UserID = &uid
	}

	var result MutationResult
	err := s.locks.WithLock(ctx, LockResource, input.ItemID.String(), func(ctx context.Context) error {
		return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			entry, err := s.ledger.Apply(ctx, tx, m)
			if err != nil {
				return err
			}
			result = MutationResult{
				LogID:         entry.ID,
				ItemID:        entry.ItemID,
				Type:          entry.Type,
				PreviousStock: entry.PreviousStock,
				Quantity:      entry.Quantity,
				CurrentStock:  entry.CurrentStock,
				Delta:         entry.Delta(),
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}
