package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/simkemas/simkemas-backend/pkg/config"
	"github.com/simkemas/simkemas-backend/pkg/db"
	"github.com/simkemas/simkemas-backend/pkg/db/models"
	"github.com/simkemas/simkemas-backend/pkg/enums"
	pkgerrors "github.com/simkemas/simkemas-backend/pkg/errors"
	"github.com/simkemas/simkemas-backend/pkg/security"
)

const (
	minNameLen     = 3
	minUsernameLen = 4
	minPasswordLen = 6
)

var validate = validator.New()

type repository interface {
	List(ctx context.Context, input ListInput) ([]models.User, error)
	Create(ctx context.Context, user *models.User) error
	Taken(ctx context.Context, username, email string, except uuid.UUID) (bool, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) (int64, error)
	SoftDelete(ctx context.Context, id uuid.UUID) (int64, error)
	Restore(ctx context.Context, id uuid.UUID) (int64, error)
	Purge(ctx context.Context, id uuid.UUID) (int64, error)
}

// Service manages staff accounts.
type Service interface {
	List(ctx context.Context, input ListInput) ([]UserDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*UserDTO, error)
	Create(ctx context.Context, input CreateInput) (*UserDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*UserDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Restore(ctx context.Context, id uuid.UUID) error
	DeletePermanent(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo     repository
	password config.PasswordConfig
}

func NewService(repo repository, password config.PasswordConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("user repository required")
	}
	return &service{repo: repo, password: password}, nil
}

func (s *service) List(ctx context.Context, input ListInput) ([]UserDTO, error) {
	rows, err := s.repo.List(ctx, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list users")
	}
	out := make([]UserDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*UserDTO, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err)
	}
	return FromModel(u), nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*UserDTO, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if err := validateProfile(input.Name, input.Email, input.Role); err != nil {
		return nil, err
	}
	if len(input.Username) < minUsernameLen {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("username must be at least %d characters", minUsernameLen))
	}
	if len(input.Password) < minPasswordLen {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("password must be at least %d characters", minPasswordLen))
	}

	if err := s.ensureFree(ctx, input.Username, input.Email, uuid.Nil); err != nil {
		return nil, err
	}
	hash, err := security.HashPassword(input.Password, s.password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	user := &models.User{
		Name:         input.Name,
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         input.Role,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, duplicateErr()
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}
	return FromModel(user), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*UserDTO, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if err := validateProfile(input.Name, input.Email, input.Role); err != nil {
		return nil, err
	}
	updates := map[string]any{
		"name":  input.Name,
		"email": input.Email,
		"role":  input.Role,
	}
	if input.Password != "" {
		if len(input.Password) < minPasswordLen {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("password must be at least %d characters", minPasswordLen))
		}
		hash, err := security.HashPassword(input.Password, s.password)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
		}
		updates["password_hash"] = hash
	}

	if err := s.ensureFree(ctx, "", input.Email, id); err != nil {
		return nil, err
	}
	n, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, duplicateErr()
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update user")
	}
	if n == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}
	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := s.repo.SoftDelete(ctx, id)
	return affected(n, err, "delete user")
}

func (s *service) Restore(ctx context.Context, id uuid.UUID) error {
	n, err := s.repo.Restore(ctx, id)
	return affected(n, err, "restore user")
}

func (s *service) DeletePermanent(ctx context.Context, id uuid.UUID) error {
	n, err := s.repo.Purge(ctx, id)
	return affected(n, err, "purge user")
}

func (s *service) ensureFree(ctx context.Context, username, email string, except uuid.UUID) error {
	taken, err := s.repo.Taken(ctx, username, email, except)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check username")
	}
	if taken {
		return duplicateErr()
	}
	return nil
}

func validateProfile(name, email string, role enums.Role) error {
	if len(name) < minNameLen {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("name must be at least %d characters", minNameLen))
	}
	if err := validate.Var(email, "required,email"); err != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "email is invalid")
	}
	if !role.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "role is invalid").WithDetails(map[string]any{"role": role})
	}
	return nil
}

func duplicateErr() error {
	return pkgerrors.New(pkgerrors.CodeConflict, "username or email already in use")
}

func lookupErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
}

func affected(n int64, err error, op string) error {
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, op)
	}
	if n == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}
	return nil
}
