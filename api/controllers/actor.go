package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/simkemas/simkemas-backend/api/middleware"
	"github.com/simkemas/simkemas-backend/api/responses"
	"github.com/simkemas/simkemas-backend/api/validators"
	"github.com/simkemas/simkemas-backend/internal/workflow"
	"github.com/simkemas/simkemas-backend/pkg/enums"
	pkgerrors "github.com/simkemas/simkemas-backend/pkg/errors"
	"github.com/simkemas/simkemas-backend/pkg/logger"
)

// actorFrom reads the authenticated user placed in the context by middleware.Auth.
func actorFrom(r *http.Request) (workflow.Actor, error) {
	id, err := uuid.Parse(middleware.UserIDFromContext(r.Context()))
	if err != nil {
		return workflow.Actor{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	return workflow.Actor{UserID: id, Role: enums.Role(middleware.RoleFromContext(r.Context()))}, nil
}

// idAction serves the delete/restore endpoints that only need the {id} path value.
func idAction(logg *logger.Logger, fn func(context.Context, uuid.UUID) error, status string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := fn(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"id": id, "status": status})
	}
}
