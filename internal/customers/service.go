package customers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/simkemas/simkemas-backend/pkg/codegen"
	"github.com/simkemas/simkemas-backend/pkg/db"
	"github.com/simkemas/simkemas-backend/pkg/db/models"
	pkgerrors "github.com/simkemas/simkemas-backend/pkg/errors"
)

const (
	phoneConstraint = "customers_phone_active_key"
	codeAttempts    = 3
)

var validate = validator.New()

type coder interface {
	Code(prefix, name string) string
}

// Service manages the customer book.
type Service interface {
	List(ctx context.Context, input ListInput) ([]CustomerView, error)
	Get(ctx context.Context, id uuid.UUID) (*CustomerView, error)
	Create(ctx context.Context, input Input) (*CustomerView, error)
	Update(ctx context.Context, id uuid.UUID, input Input) (*CustomerView, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Restore(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo  Repository
	codes coder
}

// NewService builds the customer service.
func NewService(repo Repository, codes coder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("customer repository required")
	}
	if codes == nil {
		return nil, fmt.Errorf("code generator required")
	}
	return &service{repo: repo, codes: codes}, nil
}

func (s *service) List(ctx context.Context, input ListInput) ([]CustomerView, error) {
	rows, err := s.repo.List(ctx, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list customers")
	}
	views := make([]CustomerView, 0, len(rows))
	for _, c := range rows {
		views = append(views, toView(c))
	}
	return views, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*CustomerView, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}
	view := toView(*c)
	return &view, nil
}

func (s *service) Create(ctx context.Context, input Input) (*CustomerView, error) {
	input, err := normalize(input)
	if err != nil {
		return nil, err
	}
	if err := s.ensurePhoneFree(ctx, input.Phone, uuid.Nil); err != nil {
		return nil, err
	}

	for attempt := 1; ; attempt++ {
		c := &models.Customer{
			Code:    s.codes.Code(codegen.CustomerPrefix, input.Name),
			Name:    input.Name,
			Phone:   input.Phone,
			Email:   input.Email,
			Address: input.Address,
		}
		err := s.repo.Create(ctx, c)
		if err == nil {
			view := toView(*c)
			return &view, nil
		}
		if db.IsUniqueViolation(err, phoneConstraint) || isPhoneViolation(err) {
			return nil, duplicatePhone()
		}
		if !db.IsUniqueViolation(err, "") || attempt == codeAttempts {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create customer")
		}
	}
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input Input) (*CustomerView, error) {
	input, err := normalize(input)
	if err != nil {
		return nil, err
	}
	if err := s.ensurePhoneFree(ctx, input.Phone, id); err != nil {
		return nil, err
	}
	n, err := s.repo.Update(ctx, id, map[string]any{
		"name":    input.Name,
		"phone":   input.Phone,
		"email":   input.Email,
		"address": input.Address,
	})
	if err != nil {
		if db.IsUniqueViolation(err, phoneConstraint) || isPhoneViolation(err) {
			return nil, duplicatePhone()
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update customer")
	}
	if n == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
	}
	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := s.repo.SoftDelete(ctx, id)
	return affected(n, err, "delete customer")
}

func (s *service) Restore(ctx context.Context, id uuid.UUID) error {
	n, err := s.repo.Restore(ctx, id)
	if err != nil && (db.IsUniqueViolation(err, phoneConstraint) || isPhoneViolation(err)) {
		return duplicatePhone()
	}
	return affected(n, err, "restore customer")
}

func (s *service) ensurePhoneFree(ctx context.Context, phone string, except uuid.UUID) error {
	taken, err := s.repo.PhoneTaken(ctx, phone, except)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check phone")
	}
	if taken {
		return duplicatePhone()
	}
	return nil
}

func normalize(in Input) (Input, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)
	if len(in.Name) < 3 {
		return in, pkgerrors.New(pkgerrors.CodeValidation, "name must be at least 3 characters")
	}
	if len(in.Phone) < 8 {
		return in, pkgerrors.New(pkgerrors.CodeValidation, "phone must be at least 8 characters")
	}
	in.Email = blankToNil(in.Email)
	in.Address = blankToNil(in.Address)
	if in.Email != nil {
		if err := validate.Var(*in.Email, "email"); err != nil {
			return in, pkgerrors.New(pkgerrors.CodeValidation, "email is not valid")
		}
	}
	return in, nil
}

func blankToNil(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func isPhoneViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "customers.phone")
}

func duplicatePhone() error {
	return pkgerrors.New(pkgerrors.CodeConflict, "phone number already registered")
}

func affected(n int64, err error, op string) error {
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, op)
	}
	if n == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
	}
	return nil
}
