package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/simkemas/simkemas-backend/api/responses"
	"github.com/simkemas/simkemas-backend/api/validators"
	"github.com/simkemas/simkemas-backend/internal/orders"
	"github.com/simkemas/simkemas-backend/internal/workflow"
	"github.com/simkemas/simkemas-backend/pkg/enums"
	"github.com/simkemas/simkemas-backend/pkg/logger"
)

type designStatusRequest struct {
	Status          string  `json:"status" validate:"required"`
	Note            *string `json:"note"`
	ExpectedVersion *int64  `json:"expected_version"`
}

type materialUseRequest struct {
	ItemID   uuid.UUID `json:"item_id" validate:"required"`
	Quantity int       `json:"quantity" validate:"gte=0"`
}

type productionStatusRequest struct {
	Status          string               `json:"status" validate:"required"`
	Note            *string              `json:"note"`
	ActualQuantity  *int                 `json:"actualQuantity" validate:"omitempty,gte=0"`
	MaterialsUsed   []materialUseRequest `json:"materialsUsed" validate:"omitempty,dive"`
	ExpectedVersion *int64               `json:"expected_version"`
}

type queueFunc func(context.Context) ([]orders.OrderView, error)

type historyFunc func(context.Context, workflow.Actor) ([]orders.OrderView, error)

func serveQueue(logg *logger.Logger, fn queueFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := fn(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

func serveHistory(logg *logger.Logger, fn historyFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rows, err := fn(r.Context(), actor)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

func DesignQueue(svc workflow.Service, logg *logger.Logger) http.HandlerFunc {
	return serveQueue(logg, svc.DesignQueue)
}

func DesignHistory(svc workflow.Service, logg *logger.Logger) http.HandlerFunc {
	return serveHistory(logg, svc.DesignHistory)
}

func DesignUpdateStatus(svc workflow.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body designStatusRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.UpdateDesign(r.Context(), workflow.DesignInput{
			OrderID:         id,
			Status:          enums.ProductionStatus(strings.TrimSpace(body.Status)),
			Note:            body.Note,
			ExpectedVersion: body.ExpectedVersion,
			Actor:           actor,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

func ProductionQueue(svc workflow.Service, logg *logger.Logger) http.HandlerFunc {
	return serveQueue(logg, svc.ProductionQueue)
}

func ProductionHistory(svc workflow.Service, logg *logger.Logger) http.HandlerFunc {
	return serveHistory(logg, svc.ProductionHistory)
}

// ProductionUpdateStatus moves an order on the print floor and consumes materials
// when the step calls for it.
func ProductionUpdateStatus(svc workflow.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body productionStatusRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		uses := make([]workflow.MaterialUse, 0, len(body.MaterialsUsed))
		for _, m := range body.MaterialsUsed {
			uses = append(uses, workflow.MaterialUse{ItemID: m.ItemID, Quantity: m.Quantity})
		}
		order, err := svc.UpdateProduction(r.Context(), workflow.ProductionInput{
			OrderID:         id,
			Status:          enums.ProductionStatus(strings.TrimSpace(body.Status)),
			Note:            body.Note,
			ActualQuantity:  body.ActualQuantity,
			MaterialsUsed:   uses,
			ExpectedVersion: body.ExpectedVersion,
			Actor:           actor,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}
