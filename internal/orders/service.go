package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/simkemas/simkemas-backend/internal/finance"
	"github.com/simkemas/simkemas-backend/pkg/db"
	"github.com/simkemas/simkemas-backend/pkg/db/models"
	"github.com/simkemas/simkemas-backend/pkg/enums"
	pkgerrors "github.com/simkemas/simkemas-backend/pkg/errors"
	"github.com/simkemas/simkemas-backend/pkg/logger"
	"github.com/simkemas/simkemas-backend/pkg/pagination"
)

const maxCodeAttempts = 5

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type cashRecorder interface {
	Record(ctx context.Context, tx *gorm.DB, e finance.Entry) (*models.Transaction, error)
}

type invoiceCoder interface {
	Invoice(now time.Time) string
}

type orderMetrics interface {
	OrderCreated(option string)
	ObserveMutation(operation string, started time.Time, err error)
}

// Service exposes order intake and the order read models.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*CreateResult, error)
	Get(ctx context.Context, id uuid.UUID) (*OrderView, error)
	List(ctx context.Context, input ListInput) (*ListResult, error)
	Queue(ctx context.Context, q QueueQuery) ([]OrderView, error)
	Audit(ctx context.Context, fix bool) (*AuditReport, error)
}

type service struct {
	repo    Repository
	cash    cashRecorder
	tx      txRunner
	codes   invoiceCoder
	metrics orderMetrics
	logg    *logger.Logger
	now     func() time.Time
}

// NewService wires the order service. metrics may be nil.
func NewService(repo Repository, cash cashRecorder, tx txRunner, codes invoiceCoder, metrics orderMetrics, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if cash == nil {
		return nil, fmt.Errorf("cash ledger required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if codes == nil {
		return nil, fmt.Errorf("invoice code generator required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:    repo,
		cash:    cash,
		tx:      tx,
		codes:   codes,
		metrics: metrics,
		logg:    logg,
		now:     time.Now,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (result *CreateResult, err error) {
	if err := validateCreate(input); err != nil {
		return nil, err
	}
	started := s.now()
	defer func() {
		if s.metrics != nil {
			s.metrics.ObserveMutation("create", started, err)
		}
	}()

	lines := make([]LineInput, 0, len(input.Items))
	for _, item := range input.Items {
		lines = append(lines, LineInput{Quantity: item.Quantity, Price: item.Price})
	}
	_, grand := Totals(lines, input.Discount)
	paid := InitialPayment(input.PaymentOption, input.PaidAmount, grand)

	var order *models.Order
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		customer, err := repo.FindCustomer(ctx, input.CustomerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "customer not found").
					WithDetails(map[string]any{"customer_id": input.CustomerID})
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
		}
		if err := ensureProducts(ctx, repo, input.Items); err != nil {
			return err
		}

		code, err := s.nextCode(ctx, repo)
		if err != nil {
			return err
		}

		order = &models.Order{
			Code:             code,
			CustomerID:       customer.ID,
			TotalAmount:      grand,
			Discount:         input.Discount,
			PaidAmount:       paid,
			PaymentOption:    input.PaymentOption,
			PaymentStatus:    InitialStatus(input.PaymentOption, paid, grand),
			ProductionStatus: enums.ProductionStatusPendingDesign,
			Deadline:         input.Deadline,
			Note:             input.Note,
			Items:            buildItems(input.Items),
		}
		if input.CreatedBy != uuid.Nil {
			by := input.CreatedBy
			order.CreatedBy = &by
		}
		if err := repo.Create(ctx, order); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "order code already taken, retry")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}

		if paid.IsPositive() {
			_, err := s.cash.Record(ctx, tx, finance.Entry{
				Type:           enums.TransactionTypeIn,
				Category:       finance.CategorySales,
				Amount:         paid,
				Description:    finance.SalesDescription(order.Code, customer.Name, initialPaymentLabel(input.PaymentOption)),
				RelatedOrderID: &order.ID,
				UserID:         order.CreatedBy,
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.OrderCreated(string(order.PaymentOption))
	}
	logCtx := s.logg.WithFields(ctx, map[string]any{
		"order_id":       order.ID.String(),
		"order_code":     order.Code,
		"payment_status": string(order.PaymentStatus),
	})
	s.logg.Info(logCtx, "order.created")

	return &CreateResult{OrderID: order.ID, Code: order.Code}, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*OrderView, error) {
	order, err := s.repo.FindDetail(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	view := s.render(ctx, *order)
	return &view, nil
}

func (s *service) List(ctx context.Context, input ListInput) (*ListResult, error) {
	cursor, err := pagination.ParseCursor(input.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	rows, err := s.repo.List(ctx, input.Search, cursor, input.Limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	page, next := pagination.Trim(rows, input.Limit, func(o models.Order) pagination.Cursor {
		return pagination.Cursor{CreatedAt: o.CreatedAt, ID: o.ID}
	})
	return &ListResult{Orders: s.renderAll(ctx, page), NextCursor: next}, nil
}

func (s *service) Queue(ctx context.Context, q QueueQuery) ([]OrderView, error) {
	if len(q.Statuses) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one status is required")
	}
	rows, err := s.repo.ListQueue(ctx, q)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list order queue")
	}
	return s.renderAll(ctx, rows), nil
}

func (s *service) renderAll(ctx context.Context, rows []models.Order) []OrderView {
	views := make([]OrderView, 0, len(rows))
	for _, o := range rows {
		views = append(views, s.render(ctx, o))
	}
	return views
}

func (s *service) render(ctx context.Context, o models.Order) OrderView {
	view, drifted := BuildView(o)
	if drifted {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"order_id": o.ID.String(),
			"stored":   string(o.PaymentStatus),
			"derived":  string(view.PaymentStatus),
		})
		s.logg.Warn(logCtx, "order.payment_status.drift")
	}
	return view
}

func (s *service) nextCode(ctx context.Context, repo Repository) (string, error) {
	for i := 0; i < maxCodeAttempts; i++ {
		code := s.codes.Invoice(s.now())
		taken, err := repo.CodeExists(ctx, code)
		if err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check order code")
		}
		if !taken {
			return code, nil
		}
	}
	return "", pkgerrors.New(pkgerrors.CodeConflict, "could not allocate an order code, retry")
}

func validateCreate(input CreateInput) error {
	if input.CustomerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer_id is required")
	}
	if len(input.Items) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "at least one item is required")
	}
	if !input.PaymentOption.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "payment_option must be full, dp or later")
	}
	if input.Discount.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "discount must not be negative")
	}
	if input.PaidAmount.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "paid_amount must not be negative")
	}
	for i, item := range input.Items {
		if item.ProductID == uuid.Nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "product_id is required").
				WithDetails(map[string]any{"item": i})
		}
		if item.Quantity <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive").
				WithDetails(map[string]any{"item": i})
		}
		if item.Price.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative").
				WithDetails(map[string]any{"item": i})
		}
	}
	return nil
}

func ensureProducts(ctx context.Context, repo Repository, items []ItemInput) error {
	seen := make(map[uuid.UUID]struct{}, len(items))
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}

	products, err := repo.FindProducts(ctx, ids)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load products")
	}
	for _, p := range products {
		delete(seen, p.ID)
	}
	if len(seen) > 0 {
		missing := make([]string, 0, len(seen))
		for _, id := range ids {
			if _, ok := seen[id]; ok {
				missing = append(missing, id.String())
			}
		}
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found").
			WithDetails(map[string]any{"product_ids": missing})
	}
	return nil
}

func buildItems(inputs []ItemInput) []models.OrderItem {
	items := make([]models.OrderItem, 0, len(inputs))
	for _, in := range inputs {
		items = append(items, models.OrderItem{
			ProductID: in.ProductID,
			Variant:   in.Variant,
			Quantity:  in.Quantity,
			Price:     in.Price,
			Subtotal:  in.Price.Mul(decimal.NewFromInt(int64(in.Quantity))),
			Note:      in.Note,
			HasDesign: in.HasDesign,
		})
	}
	return items
}

func initialPaymentLabel(option enums.PaymentOption) string {
	if option == enums.PaymentOptionDP {
		return "Down Payment (DP)"
	}
	return "Pelunasan Awal"
}
