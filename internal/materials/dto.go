package materials

import (
	"time"

	"github.com/google/uuid"

	"github.com/simkemas/simkemas-backend/pkg/db/models"
)

type ItemInput struct {
	Name string
	Unit string
}

type ItemView struct {
	ID         uuid.UUID `json:"id"`
	MaterialID uuid.UUID `json:"material_id"`
	Name       string    `json:"name"`
	Unit       string    `json:"unit"`
	Stock      int       `json:"stock"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type MaterialView struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Items     []ItemView `json:"items"`
	CreatedAt time.Time  `json:"created_at"`
}

func toItemView(i models.MaterialItem) ItemView {
	return ItemView{
		ID:         i.ID,
		MaterialID: i.MaterialID,
		Name:       i.Name,
		Unit:       i.Unit,
		Stock:      i.Stock,
		UpdatedAt:  i.UpdatedAt,
	}
}

func toView(m models.Material) MaterialView {
	items := make([]ItemView, 0, len(m.Items))
	for _, it := range m.Items {
		items = append(items, toItemView(it))
	}
	return MaterialView{ID: m.ID, Name: m.Name, Items: items, CreatedAt: m.CreatedAt}
}
