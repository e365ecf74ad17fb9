package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/simkemas/simkemas-backend/internal/inventory"
	"github.com/simkemas/simkemas-backend/internal/orders"
	"github.com/simkemas/simkemas-backend/pkg/db/models"
	"github.com/simkemas/simkemas-backend/pkg/enums"
	pkgerrors "github.com/simkemas/simkemas-backend/pkg/errors"
	"github.com/simkemas/simkemas-backend/pkg/logger"
)

const (
	historyLimit = 50

	// OrderLockResource is the lock namespace shared by every order mutation.
	OrderLockResource = "order"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type resourceLocker interface {
	WithLock(ctx context.Context, resource, id string, fn func(ctx context.Context) error) error
}

type stockApplier interface {
	Apply(ctx context.Context, tx *gorm.DB, m inventory.Mutation) (*models.InventoryLog, error)
}

type transitionMetrics interface {
	Transition(from, to string)
	ObserveMutation(operation string, started time.Time, err error)
}

// Service drives the design and production desks.
type Service interface {
	DesignQueue(ctx context.Context) ([]orders.OrderView, error)
	DesignHistory(ctx context.Context, actor Actor) ([]orders.OrderView, error)
	UpdateDesign(ctx context.Context, input DesignInput) (*orders.OrderView, error)
	ProductionQueue(ctx context.Context) ([]orders.OrderView, error)
	ProductionHistory(ctx context.Context, actor Actor) ([]orders.OrderView, error)
	UpdateProduction(ctx context.Context, input ProductionInput) (*orders.OrderView, error)
}

// Deps are the collaborators of the workflow service. Metrics may be nil.
type Deps struct {
	Orders      orders.Repository
	Views       orders.Service
	Stock       stockApplier
	Tx          txRunner
	Locks       resourceLocker
	Metrics     transitionMetrics
	Logger      *logger.Logger
	Transitions Transitions
}

type service struct {
	Deps
}

// NewService builds the workflow service.
func NewService(deps Deps) (Service, error) {
	switch {
	case deps.Orders == nil:
		return nil, fmt.Errorf("orders repository required")
	case deps.Views == nil:
		return nil, fmt.Errorf("orders service required")
	case deps.Stock == nil:
		return nil, fmt.Errorf("stock ledger required")
	case deps.Tx == nil:
		return nil, fmt.Errorf("transaction runner required")
	case deps.Locks == nil:
		return nil, fmt.Errorf("resource locker required")
	case deps.Logger == nil:
		return nil, fmt.Errorf("logger required")
	}
	return &service{Deps: deps}, nil
}

func (s *service) DesignQueue(ctx context.Context) ([]orders.OrderView, error) {
	return s.Views.Queue(ctx, orders.QueueQuery{Statuses: enums.DesignQueueStatuses, Sort: orders.SortByDeadline})
}

func (s *service) ProductionQueue(ctx context.Context) ([]orders.OrderView, error) {
	return s.Views.Queue(ctx, orders.QueueQuery{Statuses: enums.ProductionQueueStatuses, Sort: orders.SortByDeadline})
}

func (s *service) DesignHistory(ctx context.Context, actor Actor) ([]orders.OrderView, error) {
	q := orders.QueueQuery{Statuses: enums.DesignHistoryStatuses, Sort: orders.SortRecentlyUpdated, Limit: historyLimit}
	if actor.Role == enums.RoleDesainer {
		id := actor.UserID
		q.DesignerID = &id
	}
	return s.Views.Queue(ctx, q)
}

func (s *service) ProductionHistory(ctx context.Context, actor Actor) ([]orders.OrderView, error) {
	q := orders.QueueQuery{Statuses: enums.ProductionHistoryStatuses, Sort: orders.SortRecentlyUpdated, Limit: historyLimit}
	if actor.Role == enums.RoleOperator {
		id := actor.UserID
		q.OperatorID = &id
	}
	return s.Views.Queue(ctx, q)
}

func (s *service) UpdateDesign(ctx context.Context, input DesignInput) (*orders.OrderView, error) {
	if !input.Status.In(enums.DesignTargets) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "status must be in_design, design_revision or ready_to_print").
			WithDetails(map[string]any{"status": input.Status})
	}
	step := step{
		operation: "design_status",
		orderID:   input.OrderID,
		target:    input.Status,
		expected:  input.ExpectedVersion,
		actor:     input.Actor,
		updates:   map[string]any{"designer_id": actorRef(input.Actor)},
	}
	if input.Note != nil {
		step.updates["note"] = *input.Note
	}
	return s.apply(ctx, step)
}

func (s *service) UpdateProduction(ctx context.Context, input ProductionInput) (*orders.OrderView, error) {
	if !input.Status.In(enums.ProductionTargets) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "status must be in_production or completed").
			WithDetails(map[string]any{"status": input.Status})
	}
	if err := validateMaterials(input.MaterialsUsed); err != nil {
		return nil, err
	}
	if input.ActualQuantity != nil && *input.ActualQuantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "actualQuantity must not be negative")
	}

	step := step{
		operation: "production_status",
		orderID:   input.OrderID,
		target:    input.Status,
		expected:  input.ExpectedVersion,
		actor:     input.Actor,
		updates:   map[string]any{"operator_id": actorRef(input.Actor)},
		materials: input.MaterialsUsed,
	}
	if input.Note != nil {
		step.updates["note"] = *input.Note
	}
	if input.Status == enums.ProductionStatusCompleted && input.ActualQuantity != nil {
		step.updates["actual_quantity"] = *input.ActualQuantity
	}
	return s.apply(ctx, step)
}

type step struct {
	operation string
	orderID   uuid.UUID
	target    enums.ProductionStatus
	expected  *int64
	actor     Actor
	updates   map[string]any
	materials []MaterialUse
}

func (s *service) apply(ctx context.Context, st step) (view *orders.OrderView, err error) {
	if st.orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	started := time.Now()
	defer func() {
		if s.Metrics != nil {
			s.Metrics.ObserveMutation(st.operation, started, err)
		}
	}()

	var from enums.ProductionStatus
	err = s.Locks.WithLock(ctx, OrderLockResource, st.orderID.String(), func(ctx context.Context) error {
		return s.Tx.WithTx(ctx, func(tx *gorm.DB) error {
			repo := s.Orders.WithTx(tx)
			order, err := repo.LockByID(ctx, st.orderID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
			}
			if st.expected != nil && *st.expected != order.Version {
				return pkgerrors.New(pkgerrors.CodeConflict, "order was modified, reload and retry").
					WithDetails(map[string]any{"expected_version": *st.expected, "current_version": order.Version})
			}
			from = order.ProductionStatus
			if !s.Transitions.Allow(from, st.target) {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "transition not allowed").
					WithDetails(map[string]any{"from": from, "to": st.target})
			}

			st.updates["production_status"] = st.target
			if err := repo.UpdateVersioned(ctx, order.ID, order.Version, st.updates); err != nil {
				if errors.Is(err, orders.ErrVersionConflict) {
					return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "order was modified, reload and retry")
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order")
			}
			return s.consume(ctx, tx, order, st)
		})
	})
	if err != nil {
		return nil, err
	}

	if s.Metrics != nil {
		s.Metrics.Transition(string(from), string(st.target))
	}
	logCtx := s.Logger.WithFields(ctx, map[string]any{
		"order_id": st.orderID.String(),
		"from":     string(from),
		"to":       string(st.target),
	})
	s.Logger.Info(logCtx, "order.transition")

	return s.Views.Get(ctx, st.orderID)
}

func (s *service) consume(ctx context.Context, tx *gorm.DB, order *models.Order, st step) error {
	note := fmt.Sprintf("Produksi Order #%s (%s)", order.Code, consumptionPhase(st.target))
	for _, use := range st.materials {
		if use.Quantity <= 0 {
			continue
		}
		_, err := s.Stock.Apply(ctx, tx, inventory.Mutation{
			ItemID:   use.ItemID,
			Type:     enums.InventoryLogTypeOut,
			Quantity: use.Quantity,
			Note:     note,
			UserID:   actorRef(st.actor),
			OrderID:  &order.ID,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func consumptionPhase(target enums.ProductionStatus) string {
	if target == enums.ProductionStatusInProduction {
		return "Mulai"
	}
	return "Selesai/Tambahan"
}

func validateMaterials(uses []MaterialUse) error {
	var errs error
	for i, use := range uses {
		if use.ItemID == uuid.Nil {
			errs = multierr.Append(errs, fmt.Errorf("materialsUsed[%d]: item_id is required", i))
		}
		if use.Quantity < 0 {
			errs = multierr.Append(errs, fmt.Errorf("materialsUsed[%d]: quantity must not be negative", i))
		}
	}
	if errs == nil {
		return nil
	}
	problems := make([]string, 0)
	for _, e := range multierr.Errors(errs) {
		problems = append(problems, e.Error())
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, errs, "invalid materialsUsed").
		WithDetails(map[string]any{"problems": problems})
}

func actorRef(a Actor) *uuid.UUID {
	if a.UserID == uuid.Nil {
		return nil
	}
	id := a.UserID
	return &id
}
