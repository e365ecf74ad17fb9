package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/simkemas/simkemas-backend/pkg/db/models"
)

const logsLimit = 100

// Repository defines persistence for stock and its movement log.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	LockItem(ctx context.Context, id uuid.UUID) (*models.MaterialItem, error)
	SwapStock(ctx context.Context, id uuid.UUID, previous, current int) error
	CreateLog(ctx context.Context, entry *models.InventoryLog) error
	ListStocks(ctx context.Context) ([]StockRow, error)
	ListLogs(ctx context.Context) ([]LogRow, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an inventory repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) LockItem(ctx context.Context, id uuid.UUID) (*models.MaterialItem, error) {
	var item models.MaterialItem
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) SwapStock(ctx context.Context, id uuid.UUID, previous, current int) error {
	res := r.db.WithContext(ctx).
		Model(&models.MaterialItem{}).
		Where("id = ? AND stock = ?", id, previous).
		Updates(map[string]any{"stock": current, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStockChanged
	}
	return nil
}

func (r *repository) CreateLog(ctx context.Context, entry *models.InventoryLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) ListStocks(ctx context.Context) ([]StockRow, error) {
	rows := []StockRow{}
	err := r.db.WithContext(ctx).
		Table("material_items AS mi").
		Select("mi.id, mi.name AS item_name, mi.stock, mi.unit, m.id AS material_id, m.name AS material_name").
		Joins("JOIN materials m ON m.id = mi.material_id AND m.deleted_at IS NULL").
		Where("mi.deleted_at IS NULL").
		Order("m.name ASC").
		Order("mi.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ListLogs(ctx context.Context) ([]LogRow, error) {
	rows := []LogRow{}
	err := r.db.WithContext(ctx).
		Table("inventory_logs AS l").
		Select("l.id, l.item_id, l.type, l.quantity, l.current_stock - l.previous_stock AS delta, l.previous_stock, l.current_stock, " +
			"l.note, l.user_id, l.order_id, l.created_at, " +
			"mi.name AS item_name, m.name AS material_name, u.name AS user_name").
		Joins("JOIN material_items mi ON mi.id = l.item_id").
		Joins("JOIN materials m ON m.id = mi.material_id").
		Joins("LEFT JOIN users u ON u.id = l.user_id").
		Order("l.created_at DESC").
		Limit(logsLimit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
