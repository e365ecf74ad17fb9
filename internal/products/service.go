package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/simkemas/simkemas-backend/pkg/codegen"
	"github.com/simkemas/simkemas-backend/pkg/db"
	"github.com/simkemas/simkemas-backend/pkg/db/models"
	pkgerrors "github.com/simkemas/simkemas-backend/pkg/errors"
)

const codeAttempts = 3

type coder interface {
	Code(prefix, name string) string
}

// Service manages the products each customer orders packaging for.
type Service interface {
	ListByCustomer(ctx context.Context, customerID uuid.UUID, deleted bool) ([]ProductView, error)
	Create(ctx context.Context, customerID uuid.UUID, input Input) (*ProductView, error)
	Update(ctx context.Context, id uuid.UUID, input Input) (*ProductView, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Restore(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo  Repository
	codes coder
}

// NewService builds the product service.
func NewService(repo Repository, codes coder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if codes == nil {
		return nil, fmt.Errorf("code generator required")
	}
	return &service{repo: repo, codes: codes}, nil
}

func (s *service) ListByCustomer(ctx context.Context, customerID uuid.UUID, deleted bool) ([]ProductView, error) {
	rows, err := s.repo.ListByCustomer(ctx, customerID, deleted)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	views := make([]ProductView, 0, len(rows))
	for _, p := range rows {
		views = append(views, toView(p))
	}
	return views, nil
}

func (s *service) Create(ctx context.Context, customerID uuid.UUID, input Input) (*ProductView, error) {
	input, err := normalize(input)
	if err != nil {
		return nil, err
	}
	ok, err := s.repo.CustomerExists(ctx, customerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check customer")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
	}

	for attempt := 1; ; attempt++ {
		p := &models.Product{
			CustomerID:    customerID,
			Code:          s.codes.Code(codegen.ProductPrefix, input.Name),
			Name:          input.Name,
			Brand:         input.Brand,
			Variants:      pq.StringArray(input.Variants),
			Netto:         input.Netto,
			PackagingType: input.PackagingType,
			PackagingSize: input.PackagingSize,
			NIB:           input.NIB,
			Halal:         input.Halal,
			PIRT:          input.PIRT,
		}
		err := s.repo.Create(ctx, p)
		if err == nil {
			view := toView(*p)
			return &view, nil
		}
		if !db.IsUniqueViolation(err, "") || attempt == codeAttempts {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
		}
	}
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input Input) (*ProductView, error) {
	input, err := normalize(input)
	if err != nil {
		return nil, err
	}
	n, err := s.repo.Update(ctx, id, map[string]any{
		"name":           input.Name,
		"brand":          input.Brand,
		"variants":       pq.StringArray(input.Variants),
		"netto":          input.Netto,
		"packaging_type": input.PackagingType,
		"packaging_size": input.PackagingSize,
		"nib":            input.NIB,
		"halal":          input.Halal,
		"pirt":           input.PIRT,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	if n == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	view := toView(*p)
	return &view, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := s.repo.SoftDelete(ctx, id)
	return affected(n, err, "delete product")
}

func (s *service) Restore(ctx context.Context, id uuid.UUID) error {
	n, err := s.repo.Restore(ctx, id)
	return affected(n, err, "restore product")
}

func normalize(in Input) (Input, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Brand = strings.TrimSpace(in.Brand)
	if in.Name == "" || in.Brand == "" {
		return in, pkgerrors.New(pkgerrors.CodeValidation, "name and brand are required")
	}
	variants := make([]string, 0, len(in.Variants))
	for _, v := range in.Variants {
		if v = strings.TrimSpace(v); v != "" {
			variants = append(variants, v)
		}
	}
	in.Variants = variants
	return in, nil
}

func affected(n int64, err error, op string) error {
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, op)
	}
	if n == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return nil
}
