package middleware

import (
	"net/http"

	"github.com/simkemas/simkemas-backend/api/responses"
	"github.com/simkemas/simkemas-backend/pkg/enums"
	pkgerrors "github.com/simkemas/simkemas-backend/pkg/errors"
	"github.com/simkemas/simkemas-backend/pkg/logger"
)

// RequireRoles lets the request through when the actor holds one of the allowed roles.
func RequireRoles(logg *logger.Logger, allowed ...enums.Role) func(http.Handler) http.Handler {
	set := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		set[string(role)] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := RoleFromContext(r.Context())
			if _, ok := set[role]; !ok {
				err := pkgerrors.New(pkgerrors.CodeForbidden, "role not permitted")
				if logg != nil {
					logg.Warn(logg.WithField(r.Context(), "actor_role", role), "auth.role.denied")
				}
				responses.WriteError(r.Context(), nil, w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
