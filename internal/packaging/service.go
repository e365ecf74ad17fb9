package packaging

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/simkemas/simkemas-backend/pkg/db/models"
	pkgerrors "github.com/simkemas/simkemas-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service manages the packaging price list.
type Service interface {
	ListTypes(ctx context.Context) ([]TypeView, error)
	CreateType(ctx context.Context, name string) (*TypeView, error)
	RenameType(ctx context.Context, id uuid.UUID, name string) (*TypeView, error)
	DeleteType(ctx context.Context, id uuid.UUID) error
	CreateSize(ctx context.Context, typeID uuid.UUID, input SizeInput) (*SizeView, error)
	UpdateSize(ctx context.Context, id uuid.UUID, input SizeInput) (*SizeView, error)
	DeleteSize(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo Repository
	tx   txRunner
}

func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("packaging repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) ListTypes(ctx context.Context) ([]TypeView, error) {
	rows, err := s.repo.ListTypes(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list packaging types")
	}
	views := make([]TypeView, 0, len(rows))
	for _, t := range rows {
		views = append(views, toView(t))
	}
	return views, nil
}

func (s *service) CreateType(ctx context.Context, name string) (*TypeView, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	t := &models.PackagingType{Name: name}
	if err := s.repo.CreateType(ctx, t); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create packaging type")
	}
	view := toView(*t)
	return &view, nil
}

func (s *service) RenameType(ctx context.Context, id uuid.UUID, name string) (*TypeView, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	n, err := s.repo.RenameType(ctx, id, name)
	if err := affected(n, err, "rename packaging type", "packaging type not found"); err != nil {
		return nil, err
	}
	t, err := s.repo.FindType(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "packaging type not found", "load packaging type")
	}
	view := toView(*t)
	return &view, nil
}

// DeleteType soft deletes the type and every size under it.
func (s *service) DeleteType(ctx context.Context, id uuid.UUID) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		n, err := repo.DeleteType(ctx, id)
		if err := affected(n, err, "delete packaging type", "packaging type not found"); err != nil {
			return err
		}
		if err := repo.DeleteSizesOf(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete packaging sizes")
		}
		return nil
	})
}

func (s *service) CreateSize(ctx context.Context, typeID uuid.UUID, input SizeInput) (*SizeView, error) {
	size, err := validateSize(input)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.FindType(ctx, typeID); err != nil {
		return nil, notFoundOr(err, "packaging type not found", "load packaging type")
	}
	price := decimal.Zero
	if input.Price != nil {
		price = *input.Price
	}
	row := &models.PackagingSize{TypeID: typeID, Size: size, Price: price}
	if err := s.repo.CreateSize(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create packaging size")
	}
	view := toSizeView(*row)
	return &view, nil
}

// UpdateSize changes the label and, when given, the price.
func (s *service) UpdateSize(ctx context.Context, id uuid.UUID, input SizeInput) (*SizeView, error) {
	size, err := validateSize(input)
	if err != nil {
		return nil, err
	}
	updates := map[string]any{"size": size}
	if input.Price != nil {
		updates["price"] = *input.Price
	}
	n, err := s.repo.UpdateSize(ctx, id, updates)
	if err := affected(n, err, "update packaging size", "packaging size not found"); err != nil {
		return nil, err
	}
	row, err := s.repo.FindSize(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "packaging size not found", "load packaging size")
	}
	view := toSizeView(*row)
	return &view, nil
}

func (s *service) DeleteSize(ctx context.Context, id uuid.UUID) error {
	n, err := s.repo.DeleteSize(ctx, id)
	return affected(n, err, "delete packaging size", "packaging size not found")
}

func validateSize(in SizeInput) (string, error) {
	size := strings.TrimSpace(in.Size)
	if size == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "size is required")
	}
	if in.Price != nil && in.Price.IsNegative() {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}
	return size, nil
}

func affected(n int64, err error, op, missing string) error {
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, op)
	}
	if n == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, missing)
	}
	return nil
}

func notFoundOr(err error, missing, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, missing)
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, op)
}
