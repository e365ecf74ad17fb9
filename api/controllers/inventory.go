package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/simkemas/simkemas-backend/api/responses"
	"github.com/simkemas/simkemas-backend/api/validators"
	"github.com/simkemas/simkemas-backend/internal/inventory"
	"github.com/simkemas/simkemas-backend/pkg/enums"
	"github.com/simkemas/simkemas-backend/pkg/logger"
)

type inventoryUpdateRequest struct {
	ItemID   uuid.UUID `json:"item_id" validate:"required"`
	Type     string    `json:"type" validate:"required,oneof=in out opname"`
	Quantity int       `json:"quantity" validate:"gte=0"`
	Note     string    `json:"note"`
}

func InventoryStocks(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.Stocks(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

func InventoryLogs(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.Logs(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

func InventoryUpdate(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body inventoryUpdateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.Update(r.Context(), inventory.UpdateInput{
			ItemID:   body.ItemID,
			Type:     enums.InventoryLogType(strings.TrimSpace(body.Type)),
			Quantity: body.Quantity,
			Note:     body.Note,
			UserID:   actor.UserID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
