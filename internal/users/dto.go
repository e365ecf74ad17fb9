package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/simkemas/simkemas-backend/pkg/db/models"
	"github.com/simkemas/simkemas-backend/pkg/enums"
)

// UserDTO is the transport shape that omits credentials.
type UserDTO struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	Role        enums.Role `json:"role"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
}

type ListInput struct {
	Search  string
	Deleted bool
}

type CreateInput struct {
	Name     string
	Username string
	Email    string
	Password string
	Role     enums.Role
}

// UpdateInput changes the profile. Username is fixed once created; an empty
// Password keeps the current one.
type UpdateInput struct {
	Name     string
	Email    string
	Role     enums.Role
	Password string
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}
	dto := &UserDTO{
		ID:          u.ID,
		Name:        u.Name,
		Username:    u.Username,
		Email:       u.Email,
		Role:        u.Role,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
	if u.DeletedAt.Valid {
		at := u.DeletedAt.Time
		dto.DeletedAt = &at
	}
	return dto
}
