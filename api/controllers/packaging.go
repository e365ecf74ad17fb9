package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simkemas/simkemas-backend/api/responses"
	"github.com/simkemas/simkemas-backend/api/validators"
	"github.com/simkemas/simkemas-backend/internal/packaging"
	"github.com/simkemas/simkemas-backend/pkg/logger"
)

type packagingSizeRequest struct {
	TypeID uuid.UUID        `json:"type_id"`
	Size   string           `json:"size" validate:"required"`
	Price  *decimal.Decimal `json:"price"`
}

func PackagingList(svc packaging.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.ListTypes(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

func PackagingCreateType(svc packaging.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body nameRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		kind, err := svc.CreateType(r.Context(), body.Name)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteCreated(w, kind)
	}
}

func PackagingRenameType(svc packaging.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body nameRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		kind, err := svc.RenameType(r.Context(), id, body.Name)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, kind)
	}
}

func PackagingDeleteType(svc packaging.Service, logg *logger.Logger) http.HandlerFunc {
	return idAction(logg, svc.DeleteType, "deleted")
}

func PackagingCreateSize(svc packaging.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body packagingSizeRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		size, err := svc.CreateSize(r.Context(), body.TypeID, packaging.SizeInput{Size: body.Size, Price: body.Price})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteCreated(w, size)
	}
}

func PackagingUpdateSize(svc packaging.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body packagingSizeRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		size, err := svc.UpdateSize(r.Context(), id, packaging.SizeInput{Size: body.Size, Price: body.Price})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, size)
	}
}

func PackagingDeleteSize(svc packaging.Service, logg *logger.Logger) http.HandlerFunc {
	return idAction(logg, svc.DeleteSize, "deleted")
}
