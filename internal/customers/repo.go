package customers

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/simkemas/simkemas-backend/pkg/db/models"
)

const listLimit = 50

// Repository defines persistence for customers.
type Repository interface {
	List(ctx context.Context, input ListInput) ([]models.Customer, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	PhoneTaken(ctx context.Context, phone string, except uuid.UUID) (bool, error)
	Create(ctx context.Context, c *models.Customer) error
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) (int64, error)
	SoftDelete(ctx context.Context, id uuid.UUID) (int64, error)
	Restore(ctx context.Context, id uuid.UUID) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a customer repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context, input ListInput) ([]models.Customer, error) {
	q := r.db.WithContext(ctx).Model(&models.Customer{})
	if input.Deleted {
		q = q.Unscoped().Where("deleted_at IS NOT NULL")
	}
	if term := strings.ToLower(strings.TrimSpace(input.Search)); term != "" {
		like := "%" + term + "%"
		q = q.Where("(LOWER(name) LIKE ? OR phone LIKE ? OR LOWER(code) LIKE ?)", like, like, like)
	}
	rows := []models.Customer{}
	err := q.Order("created_at DESC").Limit(listLimit).Find(&rows).Error
	return rows, err
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	var c models.Customer
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repository) PhoneTaken(ctx context.Context, phone string, except uuid.UUID) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.Customer{}).Where("phone = ?", phone)
	if except != uuid.Nil {
		q = q.Where("id <> ?", except)
	}
	err := q.Count(&count).Error
	return count > 0, err
}

func (r *repository) Create(ctx context.Context, c *models.Customer) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Customer{}).Where("id = ?", id).Updates(updates)
	return res.RowsAffected, res.Error
}

func (r *repository) SoftDelete(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Customer{})
	return res.RowsAffected, res.Error
}

func (r *repository) Restore(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Unscoped().
		Model(&models.Customer{}).
		Where("id = ? AND deleted_at IS NOT NULL", id).
		Update("deleted_at", nil)
	return res.RowsAffected, res.Error
}
