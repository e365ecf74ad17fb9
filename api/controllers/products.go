package controllers

import (
	"net/http"

	"github.com/simkemas/simkemas-backend/api/responses"
	"github.com/simkemas/simkemas-backend/api/validators"
	"github.com/simkemas/simkemas-backend/internal/products"
	"github.com/simkemas/simkemas-backend/pkg/logger"
)

type productRequest struct {
	Name          string   `json:"name" validate:"required"`
	Brand         string   `json:"brand" validate:"required"`
	Variants      []string `json:"variants"`
	Netto         *string  `json:"netto"`
	PackagingType *string  `json:"packaging_type"`
	PackagingSize *string  `json:"packaging_size"`
	NIB           *string  `json:"nib"`
	Halal         *string  `json:"halal"`
	PIRT          *string  `json:"pirt"`
}

func (p productRequest) input() products.Input {
	return products.Input{
		Name:          p.Name,
		Brand:         p.Brand,
		Variants:      p.Variants,
		Netto:         p.Netto,
		PackagingType: p.PackagingType,
		PackagingSize: p.PackagingSize,
		NIB:           p.NIB,
		Halal:         p.Halal,
		PIRT:          p.PIRT,
	}
}

// ProductsByCustomer lists the catalogue of one customer.
func ProductsByCustomer(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, err := validators.ParseUUIDParam(r, "customerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		deleted, err := validators.ParseQueryBool(r, "deleted")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rows, err := svc.ListByCustomer(r.Context(), customerID, deleted)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

func ProductsCreate(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, err := validators.ParseUUIDParam(r, "customerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body productRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.Create(r.Context(), customerID, body.input())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteCreated(w, product)
	}
}

func ProductsUpdate(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body productRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.Update(r.Context(), id, body.input())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func ProductsDelete(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return idAction(logg, svc.Delete, "deleted")
}

func ProductsRestore(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return idAction(logg, svc.Restore, "restored")
}
