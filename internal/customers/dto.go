package customers

import (
	"time"

	"github.com/google/uuid"

	"github.com/simkemas/simkemas-backend/pkg/db/models"
)

// ListInput filters the customer book.
type ListInput struct {
	Search  string
	Deleted bool
}

// Input carries the editable customer fields.
type Input struct {
	Name    string
	Phone   string
	Email   *string
	Address *string
}

type CustomerView struct {
	ID        uuid.UUID  `json:"id"`
	Code      string     `json:"code"`
	Name      string     `json:"name"`
	Phone     string     `json:"phone"`
	Email     *string    `json:"email,omitempty"`
	Address   *string    `json:"address,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

func toView(c models.Customer) CustomerView {
	v := CustomerView{
		ID:        c.ID,
		Code:      c.Code,
		Name:      c.Name,
		Phone:     c.Phone,
		Email:     c.Email,
		Address:   c.Address,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	if c.DeletedAt.Valid {
		at := c.DeletedAt.Time
		v.DeletedAt = &at
	}
	return v
}
