package auth

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/correspondence-management/internal"
)

// RBACAuthorization gates routes on the permission set resolved by the
// auth middleware. It must run after AuthMiddleware.
type RBACAuthorization struct {
	logger *slog.Logger
}

func NewRBACAuthorization(logger *slog.Logger) *RBACAuthorization {
	return &RBACAuthorization{logger: logger}
}

// RequirePermission passes when the user's role is admin or the named
// permission is present in the resolved set.
func (ra *RBACAuthorization) RequirePermission(permission string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := internal.UserFromContext(r.Context())
			if !ok || user == nil {
				writeAuthError(w, http.StatusUnauthorized, "Authentication required")
				return
			}

			if !user.Can(permission) {
				ra.logger.Warn("access denied: insufficient permissions",
					"user_id", user.ID,
					"required_permission", permission,
					"role", user.RoleName)
				writeAuthError(w, http.StatusForbidden, "Insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole passes only for an explicit role allow-list. Used for
// admin-only resources such as the audit log.
func (ra *RBACAuthorization) RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := internal.UserFromContext(r.Context())
			if !ok || user == nil {
				writeAuthError(w, http.StatusUnauthorized, "Authentication required")
				return
			}

			if !user.HasRole(roles...) {
				ra.logger.Warn("access denied: insufficient role privileges",
					"user_id", user.ID,
					"role", user.RoleName,
					"required_roles", roles)
				writeAuthError(w, http.StatusForbidden, "Insufficient role privileges")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(`{"error":"` + message + `"}`))
}
