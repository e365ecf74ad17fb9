package materials

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/simkemas/simkemas-backend/pkg/db/models"
	pkgerrors "github.com/simkemas/simkemas-backend/pkg/errors"
)

const defaultUnit = "pcs"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service manages the material catalog. Item stock is read-only here; it moves
// through the inventory ledger.
type Service interface {
	List(ctx context.Context) ([]MaterialView, error)
	CreateMaterial(ctx context.Context, name string) (*MaterialView, error)
	RenameMaterial(ctx context.Context, id uuid.UUID, name string) (*MaterialView, error)
	DeleteMaterial(ctx context.Context, id uuid.UUID) error
	CreateItem(ctx context.Context, materialID uuid.UUID, input ItemInput) (*ItemView, error)
	UpdateItem(ctx context.Context, id uuid.UUID, input ItemInput) (*ItemView, error)
	DeleteItem(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo Repository
	tx   txRunner
}

func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("material repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) List(ctx context.Context) ([]MaterialView, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list materials")
	}
	views := make([]MaterialView, 0, len(rows))
	for _, m := range rows {
		views = append(views, toView(m))
	}
	return views, nil
}

func (s *service) CreateMaterial(ctx context.Context, name string) (*MaterialView, error) {
	name, err := requireName(name)
	if err != nil {
		return nil, err
	}
	m := &models.Material{Name: name}
	if err := s.repo.CreateMaterial(ctx, m); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create material")
	}
	view := toView(*m)
	return &view, nil
}

func (s *service) RenameMaterial(ctx context.Context, id uuid.UUID, name string) (*MaterialView, error) {
	name, err := requireName(name)
	if err != nil {
		return nil, err
	}
	n, err := s.repo.RenameMaterial(ctx, id, name)
	if err := affected(n, err, "rename material", "material not found"); err != nil {
		return nil, err
	}
	m, err := s.repo.FindMaterial(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "material not found", "load material")
	}
	view := toView(*m)
	return &view, nil
}

// DeleteMaterial soft deletes the material together with its items.
func (s *service) DeleteMaterial(ctx context.Context, id uuid.UUID) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		n, err := repo.DeleteMaterial(ctx, id)
		if err := affected(n, err, "delete material", "material not found"); err != nil {
			return err
		}
		if err := repo.DeleteItemsOf(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete material items")
		}
		return nil
	})
}

func (s *service) CreateItem(ctx context.Context, materialID uuid.UUID, input ItemInput) (*ItemView, error) {
	name, unit, err := normalizeItem(input)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.FindMaterial(ctx, materialID); err != nil {
		return nil, notFoundOr(err, "material not found", "load material")
	}
	item := &models.MaterialItem{MaterialID: materialID, Name: name, Unit: unit}
	if err := s.repo.CreateItem(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create material item")
	}
	view := toItemView(*item)
	return &view, nil
}

func (s *service) UpdateItem(ctx context.Context, id uuid.UUID, input ItemInput) (*ItemView, error) {
	name, unit, err := normalizeItem(input)
	if err != nil {
		return nil, err
	}
	n, err := s.repo.UpdateItem(ctx, id, name, unit)
	if err := affected(n, err, "update material item", "material item not found"); err != nil {
		return nil, err
	}
	item, err := s.repo.FindItem(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "material item not found", "load material item")
	}
	view := toItemView(*item)
	return &view, nil
}

func (s *service) DeleteItem(ctx context.Context, id uuid.UUID) error {
	n, err := s.repo.DeleteItem(ctx, id)
	return affected(n, err, "delete material item", "material item not found")
}

func requireName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	return name, nil
}

func normalizeItem(in ItemInput) (string, string, error) {
	name, err := requireName(in.Name)
	if err != nil {
		return "", "", err
	}
	unit := strings.TrimSpace(in.Unit)
	if unit == "" {
		unit = defaultUnit
	}
	return name, unit, nil
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
