package pickup

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/simkemas/simkemas-backend/internal/finance"
	"github.com/simkemas/simkemas-backend/internal/orders"
	"github.com/simkemas/simkemas-backend/internal/workflow"
	"github.com/simkemas/simkemas-backend/pkg/db/models"
	"github.com/simkemas/simkemas-backend/pkg/enums"
	pkgerrors "github.com/simkemas/simkemas-backend/pkg/errors"
	"github.com/simkemas/simkemas-backend/pkg/logger"
)

const settlementLabel = "Pelunasan"

// Input is a cashier's pickup or pay-only visit.
type Input struct {
	OrderID         uuid.UUID
	Adjustment      decimal.Decimal
	PaymentAmount   decimal.Decimal
	Note            *string
	Action          enums.PickupAction
	ExpectedVersion *int64
	ActorID         uuid.UUID
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type resourceLocker interface {
	WithLock(ctx context.Context, resource, id string, fn func(ctx context.Context) error) error
}

type cashRecorder interface {
	Record(ctx context.Context, tx *gorm.DB, e finance.Entry) (*models.Transaction, error)
}

type pickupMetrics interface {
	Transition(from, to string)
	ObserveMutation(operation string, started time.Time, err error)
}

// Service settles finished orders at the counter.
type Service interface {
	Queue(ctx context.Context) ([]orders.OrderView, error)
	Complete(ctx context.Context, input Input) (*orders.OrderView, error)
}

// Deps are the collaborators of the pickup service. Metrics may be nil.
type Deps struct {
	Orders         orders.Repository
	Views          orders.Service
	Cash           cashRecorder
	Tx             txRunner
	Locks          resourceLocker
	Metrics        pickupMetrics
	Logger         *logger.Logger
	Transitions    workflow.Transitions
	RecordPayments bool
}

type service struct {
	Deps
	now func() time.Time
}

// NewService builds the pickup service.
func NewService(deps Deps) (Service, error) {
	switch {
	case deps.Orders == nil:
		return nil, fmt.Errorf("orders repository required")
	case deps.Views == nil:
		return nil, fmt.Errorf("orders service required")
	case deps.Cash == nil:
		return nil, fmt.Errorf("cash ledger required")
	case deps.Tx == nil:
		return nil, fmt.Errorf("transaction runner required")
	case deps.Locks == nil:
		return nil, fmt.Errorf("resource locker required")
	case deps.Logger == nil:
		return nil, fmt.Errorf("logger required")
	}
	return &service{Deps: deps, now: time.Now}, nil
}

func (s *service) Queue(ctx context.Context) ([]orders.OrderView, error) {
	return s.Views.Queue(ctx, orders.QueueQuery{
		Statuses: []enums.ProductionStatus{enums.ProductionStatusCompleted},
		Sort:     orders.SortRecentlyUpdated,
	})
}

func (s *service) Complete(ctx context.Context, input Input) (view *orders.OrderView, err error) {
	if err := validate(input); err != nil {
		return nil, err
	}
	started := s.now()
	defer func() {
		if s.Metrics != nil {
			s.Metrics.ObserveMutation("pickup", started, err)
		}
	}()

	var (
		from       enums.ProductionStatus
		settlement orders.Settlement
	)
	err = s.Locks.WithLock(ctx, workflow.OrderLockResource, input.OrderID.String(), func(ctx context.Context) error {
		return s.Tx.WithTx(ctx, func(tx *gorm.DB) error {
			repo := s.Orders.WithTx(tx)
			order, err := repo.LockByID(ctx, input.OrderID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
			}
			if input.ExpectedVersion != nil && *input.ExpectedVersion != order.Version {
				return pkgerrors.New(pkgerrors.CodeConflict, "order was modified, reload and retry").
					WithDetails(map[string]any{"expected_version": *input.ExpectedVersion, "current_version": order.Version})
			}
			from = order.ProductionStatus

			settlement = orders.Settle(order.TotalAmount, order.PaidAmount, input.Adjustment, input.PaymentAmount)
			updates := map[string]any{
				"final_adjustment": input.Adjustment,
				"paid_amount":      settlement.PaidAmount,
				"payment_status":   settlement.Status,
			}
			if input.Note != nil {
				updates["note"] = *input.Note
			}
			if input.Action == enums.PickupActionNow {
				if !s.Transitions.Allow(from, enums.ProductionStatusPickedUp) {
					return pkgerrors.New(pkgerrors.CodeStateConflict, "transition not allowed").
						WithDetails(map[string]any{"from": from, "to": enums.ProductionStatusPickedUp})
				}
				updates["production_status"] = enums.ProductionStatusPickedUp
				updates["picked_up_at"] = s.now().UTC()
			}

			if err := repo.UpdateVersioned(ctx, order.ID, order.Version, updates); err != nil {
				if errors.Is(err, orders.ErrVersionConflict) {
					return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "order was modified, reload and retry")
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order")
			}

			if s.RecordPayments && input.PaymentAmount.IsPositive() {
				return s.recordPayment(ctx, tx, repo, order, input)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	if s.Metrics != nil && input.Action == enums.PickupActionNow {
		s.Metrics.Transition(string(from), string(enums.ProductionStatusPickedUp))
	}
	logCtx := s.Logger.WithFields(ctx, map[string]any{
		"order_id":       input.OrderID.String(),
		"action":         string(input.Action),
		"payment_status": string(settlement.Status),
	})
	s.Logger.Info(logCtx, "order.pickup")

	return s.Views.Get(ctx, input.OrderID)
}

func (s *service) recordPayment(ctx context.Context, tx *gorm.DB, repo orders.Repository, order *models.Order, input Input) error {
	name := ""
	customer, err := repo.FindCustomer(ctx, order.CustomerID)
	switch {
	case err == nil:
		name = customer.Name
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}

	entry := finance.Entry{
		Type:           enums.TransactionTypeIn,
		Category:       finance.CategorySales,
		Amount:         input.PaymentAmount,
		Description:    finance.SalesDescription(order.Code, name, settlementLabel),
		RelatedOrderID: &order.ID,
	}
	if input.ActorID != uuid.Nil {
		id := input.ActorID
		entry.UserID = &id
	}
	_, err = s.Cash.Record(ctx, tx, entry)
	return err
}

func validate(input Input) error {
	if input.OrderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	if input.Adjustment.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "adjustment must not be negative")
	}
	if input.PaymentAmount.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "paymentAmount must not be negative")
	}
	if !input.Action.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "actionType must be pickup_now or pay_only")
	}
	return nil
}
