package packaging

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simkemas/simkemas-backend/pkg/db/models"
)

type SizeInput struct {
	Size  string
	Price *decimal.Decimal
}

type SizeView struct {
	ID     uuid.UUID       `json:"id"`
	TypeID uuid.UUID       `json:"type_id"`
	Size   string          `json:"size"`
	Price  decimal.Decimal `json:"price"`
}

type TypeView struct {
	ID    uuid.UUID  `json:"id"`
	Name  string     `json:"name"`
	Sizes []SizeView `json:"sizes"`
}

func toSizeView(s models.PackagingSize) SizeView {
	return SizeView{ID: s.ID, TypeID: s.TypeID, Size: s.Size, Price: s.Price}
}

func toView(t models.PackagingType) TypeView {
	sizes := make([]SizeView, 0, len(t.Sizes))
	for _, s := range t.Sizes {
		sizes = append(sizes, toSizeView(s))
	}
	return TypeView{ID: t.ID, Name: t.Name, Sizes: sizes}
}
