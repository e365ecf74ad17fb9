package packaging

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/simkemas/simkemas-backend/pkg/db/models"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListTypes(ctx context.Context) ([]models.PackagingType, error)
	FindType(ctx context.Context, id uuid.UUID) (*models.PackagingType, error)
	CreateType(ctx context.Context, t *models.PackagingType) error
	RenameType(ctx context.Context, id uuid.UUID, name string) (int64, error)
	DeleteType(ctx context.Context, id uuid.UUID) (int64, error)
	DeleteSizesOf(ctx context.Context, typeID uuid.UUID) error
	FindSize(ctx context.Context, id uuid.UUID) (*models.PackagingSize, error)
	CreateSize(ctx context.Context, s *models.PackagingSize) error
	UpdateSize(ctx context.Context, id uuid.UUID, updates map[string]any) (int64, error)
	DeleteSize(ctx context.Context, id uuid.UUID) (int64, error)
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

func sizesBySize(db *gorm.DB) *gorm.DB {
	return db.Order("size ASC")
}

func (r *repository) ListTypes(ctx context.Context) ([]models.PackagingType, error) {
	rows := []models.PackagingType{}
	err := r.db.WithContext(ctx).Preload("Sizes", sizesBySize).Order("name ASC").Find(&rows).Error
	return rows, err
}

func (r *repository) FindType(ctx context.Context, id uuid.UUID) (*models.PackagingType, error) {
	var t models.PackagingType
	if err := r.db.WithContext(ctx).Preload("Sizes", sizesBySize).First(&t, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *repository) CreateType(ctx context.Context, t *models.PackagingType) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *repository) RenameType(ctx context.Context, id uuid.UUID, name string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.PackagingType{}).Where("id = ?", id).Update("name", name)
	return res.RowsAffected, res.Error
}

func (r *repository) DeleteType(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.PackagingType{})
	return res.RowsAffected, res.Error
}

func (r *repository) DeleteSizesOf(ctx context.Context, typeID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("type_id = ?", typeID).Delete(&models.PackagingSize{}).Error
}

func (r *repository) FindSize(ctx context.Context, id uuid.UUID) (*models.PackagingSize, error) {
	var s models.PackagingSize
	if err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) CreateSize(ctx context.Context, s *models.PackagingSize) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *repository) UpdateSize(ctx context.Context, id uuid.UUID, updates map[string]any) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.PackagingSize{}).Where("id = ?", id).Updates(updates)
	return res.RowsAffected, res.Error
}

func (r *repository) DeleteSize(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.PackagingSize{})
	return res.RowsAffected, res.Error
}
