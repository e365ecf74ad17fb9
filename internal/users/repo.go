package users

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/simkemas/simkemas-backend/pkg/db/models"
)

const listLimit = 100

// Repository exposes user-related persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a users repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns active users, or only soft-deleted ones when deleted is set.
func (r *Repository) List(ctx context.Context, input ListInput) ([]models.User, error) {
	q := r.db.WithContext(ctx)
	if input.Deleted {
		q = q.Unscoped().Where("deleted_at IS NOT NULL")
	}
	if term := strings.TrimSpace(input.Search); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(username) LIKE ? OR LOWER(role) LIKE ?", like, like, like)
	}
	rows := []models.User{}
	err := q.Order("created_at DESC").Limit(listLimit).Find(&rows).Error
	return rows, err
}

// Create inserts a new user.
func (r *Repository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// Taken reports whether username or email belongs to another account, deleted ones included.
func (r *Repository) Taken(ctx context.Context, username, email string, except uuid.UUID) (bool, error) {
	q := r.db.WithContext(ctx).Unscoped().Model(&models.User{})
	if username != "" {
		q = q.Where("(username = ? OR email = ?)", username, email)
	} else {
		q = q.Where("email = ?", email)
	}
	if except != uuid.Nil {
		q = q.Where("id <> ?", except)
	}
	var count int64
	err := q.Count(&count).Error
	return count > 0, err
}

// FindByUsername retrieves the active user with the given username.
func (r *Repository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID loads a user by their UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(updates)
	return res.RowsAffected, res.Error
}

// UpdateLastLogin refreshes the user's last_login_at timestamp.
func (r *Repository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("last_login_at", at).Error
}

// UpdatePasswordHash stores a rehashed password without touching updated_at.
func (r *Repository) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("password_hash", hash).Error
}

func (r *Repository) SoftDelete(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.User{})
	return res.RowsAffected, res.Error
}

func (r *Repository) Restore(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Unscoped().
		Model(&models.User{}).
		Where("id = ? AND deleted_at IS NOT NULL", id).
		Update("deleted_at", nil)
	return res.RowsAffected, res.Error
}

// Purge removes the row for good, whether or not it was soft deleted.
func (r *Repository) Purge(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Unscoped().Where("id = ?", id).Delete(&models.User{})
	return res.RowsAffected, res.Error
}
