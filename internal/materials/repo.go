package materials

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/simkemas/simkemas-backend/pkg/db/models"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	List(ctx context.Context) ([]models.Material, error)
	FindMaterial(ctx context.Context, id uuid.UUID) (*models.Material, error)
	CreateMaterial(ctx context.Context, m *models.Material) error
	RenameMaterial(ctx context.Context, id uuid.UUID, name string) (int64, error)
	DeleteMaterial(ctx context.Context, id uuid.UUID) (int64, error)
	DeleteItemsOf(ctx context.Context, materialID uuid.UUID) error
	FindItem(ctx context.Context, id uuid.UUID) (*models.MaterialItem, error)
	CreateItem(ctx context.Context, item *models.MaterialItem) error
	UpdateItem(ctx context.Context, id uuid.UUID, name, unit string) (int64, error)
	DeleteItem(ctx context.Context, id uuid.UUID) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) List(ctx context.Context) ([]models.Material, error) {
	rows := []models.Material{}
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("name ASC") }).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindMaterial(ctx context.Context, id uuid.UUID) (*models.Material, error) {
	var m models.Material
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("name ASC") }).
		First(&m, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *repository) CreateMaterial(ctx context.Context, m *models.Material) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *repository) RenameMaterial(ctx context.Context, id uuid.UUID, name string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Material{}).Where("id = ?", id).Update("name", name)
	return res.RowsAffected, res.Error
}

func (r *repository) DeleteMaterial(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Material{})
	return res.RowsAffected, res.Error
}

func (r *repository) DeleteItemsOf(ctx context.Context, materialID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("material_id = ?", materialID).Delete(&models.MaterialItem{}).Error
}

func (r *repository) FindItem(ctx context.Context, id uuid.UUID) (*models.MaterialItem, error) {
	var item models.MaterialItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// CreateItem inserts the item with zero stock. Stock only changes through inventory logs.
func (r *repository) CreateItem(ctx context.Context, item *models.MaterialItem) error {
	item.Stock = 0
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *repository) UpdateItem(ctx context.Context, id uuid.UUID, name, unit string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.MaterialItem{}).
		Where("id = ?", id).
		Updates(map[string]any{"name": name, "unit": unit})
	return res.RowsAffected, res.Error
}

func (r *repository) DeleteItem(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.MaterialItem{})
	return res.RowsAffected, res.Error
}
