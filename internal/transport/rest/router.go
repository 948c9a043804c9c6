package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/correspondence-management/internal/attachment"
	"github.com/frahmantamala/correspondence-management/internal/audit"
	"github.com/frahmantamala/correspondence-management/internal/auth"
	"github.com/frahmantamala/correspondence-management/internal/correspondence"
	"github.com/frahmantamala/correspondence-management/internal/dashboard"
	"github.com/frahmantamala/correspondence-management/internal/entity"
	"github.com/frahmantamala/correspondence-management/internal/role"
	"github.com/frahmantamala/correspondence-management/internal/transport/middleware"
	"github.com/frahmantamala/correspondence-management/internal/transport/swagger"
	"github.com/frahmantamala/correspondence-management/internal/user"
	coreuser "github.com/frahmantamala/correspondence-management/internal/core/user"
	"github.com/go-chi/chi"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth           *auth.Handler
	User           *user.Handler
	Role           *role.Handler
	Entity         *entity.Handler
	Correspondence *correspondence.Handler
	Attachment     *attachment.Handler
	Audit          *audit.Handler
	Dashboard      *dashboard.Handler
}

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, h Handlers, rbac *auth.RBACAuthorization, allowedOrigins string, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS(allowedOrigins))
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	// spec + UI live outside the API prefix
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/login", h.Auth.Login)
			sr.Post("/refresh", h.Auth.RefreshToken)

			sr.Group(func(ar chi.Router) {
				ar.Use(h.Auth.AuthMiddleware)
				ar.Get("/me", h.Auth.Me)
			})
		})

		// everything below requires a valid access token
		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			pr.Route("/correspondences", func(cr chi.Router) {
				cr.With(rbac.RequirePermission("correspondence:read")).Get("/", h.Correspondence.List)
				cr.With(rbac.RequirePermission("correspondence:read")).Get("/{id}", h.Correspondence.Get)
				cr.With(rbac.RequirePermission("correspondence:create")).Post("/", h.Correspondence.Create)
				cr.With(rbac.RequirePermission("correspondence:update")).Put("/{id}", h.Correspondence.Update)
				cr.With(rbac.RequirePermission("correspondence:update")).Patch("/{id}/status", h.Correspondence.UpdateStatus)
				cr.With(rbac.RequirePermission("correspondence:update")).Post("/{id}/reply", h.Correspondence.AddReply)
				cr.With(rbac.RequirePermission("correspondence:review")).Post("/{id}/review", h.Correspondence.Review)
				cr.With(rbac.RequirePermission("correspondence:delete")).Delete("/{id}", h.Correspondence.Delete)

				cr.With(rbac.RequirePermission("correspondence:update")).Post("/{id}/attachments", h.Attachment.Upload)
				cr.With(rbac.RequirePermission("correspondence:read")).Get("/{id}/attachments", h.Attachment.List)
			})

			pr.Route("/attachments", func(ar chi.Router) {
				ar.With(rbac.RequirePermission("correspondence:read")).Get("/{id}/download", h.Attachment.Download)
				ar.With(rbac.RequirePermission("correspondence:delete")).Delete("/{id}", h.Attachment.Delete)
			})

			pr.Route("/entities", func(er chi.Router) {
				er.With(rbac.RequirePermission("entity:read")).Get("/", h.Entity.List)
				er.With(rbac.RequirePermission("entity:read")).Get("/{id}", h.Entity.Get)
				er.With(rbac.RequirePermission("entity:create")).Post("/", h.Entity.Create)
				er.With(rbac.RequirePermission("entity:update")).Put("/{id}", h.Entity.Update)
				er.With(rbac.RequirePermission("entity:delete")).Delete("/{id}", h.Entity.Delete)
			})

			pr.Route("/users", func(ur chi.Router) {
				ur.With(rbac.RequirePermission("user:read")).Get("/", h.User.List)
				ur.With(rbac.RequirePermission("user:read")).Get("/{id}", h.User.Get)
				ur.With(rbac.RequirePermission("user:create")).Post("/", h.User.Create)
				ur.With(rbac.RequirePermission("user:update")).Put("/{id}", h.User.Update)
				ur.With(rbac.RequirePermission("user:delete")).Delete("/{id}", h.User.Delete)
			})

			pr.Route("/roles", func(rr chi.Router) {
				rr.With(rbac.RequirePermission("user:read")).Get("/", h.Role.ListRoles)
				rr.With(rbac.RequirePermission("user:read")).Get("/{id}/permissions", h.Role.GetRolePermissions)
				rr.With(rbac.RequirePermission("user:delete")).Delete("/{id}", h.Role.DeleteRole)
			})
			pr.With(rbac.RequirePermission("user:read")).Get("/permissions", h.Role.ListPermissions)

			pr.With(rbac.RequirePermission("report:read")).Get("/dashboard/stats", h.Dashboard.Stats)

			pr.Route("/audit-logs", func(ar chi.Router) {
				ar.Use(rbac.RequireRole(coreuser.AdminRole))
				ar.Get("/", h.Audit.List)
				ar.Get("/{id}", h.Audit.Get)
			})
		})
	})
}
