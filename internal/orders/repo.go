package orders

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/simkemas/simkemas-backend/pkg/db/models"
	"github.com/simkemas/simkemas-backend/pkg/enums"
	"github.com/simkemas/simkemas-backend/pkg/pagination"
)

// ErrVersionConflict is returned when the row's version moved since it was read.
var ErrVersionConflict = errors.New("order version changed")

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, order *models.Order) error {
	items := order.Items
	order.Items = nil
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(order).Error; err != nil {
		order.Items = items
		return err
	}
	for i := range items {
		items[i].OrderID = order.ID
	}
	if len(items) > 0 {
		if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&items).Error; err != nil {
			order.Items = items
			return err
		}
	}
	order.Items = items
	return nil
}

func (r *repository) CodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Unscoped().
		Model(&models.Order{}).
		Where("code = ?", code).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) FindCustomer(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *repository) FindProducts(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	products := []models.Product{}
	if len(ids) == 0 {
		return products, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error
	return products, err
}

func (r *repository) LockByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) UpdateVersioned(ctx context.Context, id uuid.UUID, version int64, updates map[string]any) error {
	values := make(map[string]any, len(updates)+2)
	for k, v := range updates {
		values[k] = v
	}
	values["version"] = gorm.Expr("version + 1")
	values["updated_at"] = time.Now().UTC()

	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND version = ?", id, version).
		Updates(values)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrVersionConflict
	}
	return nil
}

func (r *repository) FindDetail(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.withRelations(r.db.WithContext(ctx)).
		Where("orders.id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) List(ctx context.Context, search string, cursor *pagination.Cursor, limit int) ([]models.Order, error) {
	q := r.withRelations(r.db.WithContext(ctx)).Model(&models.Order{})

	if term := strings.ToLower(strings.TrimSpace(search)); term != "" {
		like := "%" + term + "%"
		q = q.Joins("LEFT JOIN customers ON customers.id = orders.customer_id").
			Where("(LOWER(customers.name) LIKE ? OR LOWER(orders.code) LIKE ?)", like, like)
	}
	if cursor != nil {
		q = q.Where("(orders.created_at < ? OR (orders.created_at = ? AND orders.id < ?))",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	rows := []models.Order{}
	err := q.Order("orders.created_at DESC").
		Order("orders.id DESC").
		Limit(pagination.LimitWithBuffer(limit)).
		Find(&rows).Error
	return rows, err
}

func (r *repository) ListQueue(ctx context.Context, query QueueQuery) ([]models.Order, error) {
	q := r.withRelations(r.db.WithContext(ctx)).
		Where("production_status IN ?", enums.ProductionStatusStrings(query.Statuses))
	if query.DesignerID != nil {
		q = q.Where("designer_id = ?", *query.DesignerID)
	}
	if query.OperatorID != nil {
		q = q.Where("operator_id = ?", *query.OperatorID)
	}

	switch query.Sort {
	case SortRecentlyUpdated:
		q = q.Order("updated_at DESC")
	default:
		q = q.Order("(deadline IS NULL) ASC").Order("deadline ASC").Order("created_at ASC")
	}
	if query.Limit > 0 {
		q = q.Limit(query.Limit)
	}

	rows := []models.Order{}
	err := q.Find(&rows).Error
	return rows, err
}

func (r *repository) ScanAll(ctx context.Context, batch int, fn func([]models.Order) error) error {
	rows := []models.Order{}
	res := r.db.WithContext(ctx).
		FindInBatches(&rows, batch, func(tx *gorm.DB, _ int) error {
			return fn(rows)
		})
	return res.Error
}

// withRelations preloads the customer and items. Customers and products are read
// unscoped so orders keep rendering after master data is soft deleted.
func (r *repository) withRelations(q *gorm.DB) *gorm.DB {
	return q.
		Preload("Customer", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Items.Product", func(db *gorm.DB) *gorm.DB { return db.Unscoped() })
}
