package products

import (
	"time"

	"github.com/google/uuid"

	"github.com/simkemas/simkemas-backend/pkg/db/models"
)

// Input carries the editable product fields.
type Input struct {
	Name          string
	Brand         string
	Variants      []string
	Netto         *string
	PackagingType *string
	PackagingSize *string
	NIB           *string
	Halal         *string
	PIRT          *string
}

type ProductView struct {
	ID            uuid.UUID  `json:"id"`
	CustomerID    uuid.UUID  `json:"customer_id"`
	Code          string     `json:"code"`
	Name          string     `json:"name"`
	Brand         string     `json:"brand"`
	Variants      []string   `json:"variants"`
	Netto         *string    `json:"netto,omitempty"`
	PackagingType *string    `json:"packaging_type,omitempty"`
	PackagingSize *string    `json:"packaging_size,omitempty"`
	NIB           *string    `json:"nib,omitempty"`
	Halal         *string    `json:"halal,omitempty"`
	PIRT          *string    `json:"pirt,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	DeletedAt     *time.Time `json:"deleted_at,omitempty"`
}

func toView(p models.Product) ProductView {
	variants := []string(p.Variants)
	if variants == nil {
		variants = []string{}
	}
	v := ProductView{
		ID:            p.ID,
		CustomerID:    p.CustomerID,
		Code:          p.Code,
		Name:          p.Name,
		Brand:         p.Brand,
		Variants:      variants,
		Netto:         p.Netto,
		PackagingType: p.PackagingType,
		PackagingSize: p.PackagingSize,
		NIB:           p.NIB,
		Halal:         p.Halal,
		PIRT:          p.PIRT,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	if p.DeletedAt.Valid {
		at := p.DeletedAt.Time
		v.DeletedAt = &at
	}
	return v
}
