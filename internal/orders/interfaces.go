package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/simkemas/simkemas-backend/pkg/db/models"
	"github.com/simkemas/simkemas-backend/pkg/pagination"
)

// Repository defines persistence operations for orders and their line items.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) error
	CodeExists(ctx context.Context, code string) (bool, error)
	FindCustomer(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	FindProducts(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
	LockByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	UpdateVersioned(ctx context.Context, id uuid.UUID, version int64, updates map[string]any) error
	FindDetail(ctx context.Context, id uuid.UUID) (*models.Order, error)
	List(ctx context.Context, search string, cursor *pagination.Cursor, limit int) ([]models.Order, error)
	ListQueue(ctx context.Context, q QueueQuery) ([]models.Order, error)
	ScanAll(ctx context.Context, batch int, fn func([]models.Order) error) error
}
