package auth

import (
	"encoding/json"
	"net/http"

	"github.com/frahmantamala/correspondence-management/internal"
	"github.com/frahmantamala/correspondence-management/internal/core/events"
	"github.com/frahmantamala/correspondence-management/internal/transport"
	"github.com/frahmantamala/correspondence-management/pkg/logger"
)

type Handler struct {
	*transport.BaseHandler
	Service *Service
	Bus     *events.EventBus
}

func NewHandler(svc *Service, bus *events.EventBus) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger.L()),
		Service:     svc,
		Bus:         bus,
	}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.Service.Authenticate(dto)
	if err != nil {
		switch err {
		case ErrInvalidCredentials, ErrUserInactive:
			h.WriteError(w, http.StatusUnauthorized, "Invalid credentials")
		default:
			h.WriteAppError(w, err)
		}
		return
	}

	h.Bus.Publish(r.Context(), events.NewAuditEvent(events.AuditData{
		UserID:     resp.User.ID,
		Action:     "login",
		Resource:   "auth",
		ResourceID: resp.User.ID,
	}.FromRequest(r)))

	h.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var dto RefreshTokenDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := dto.Validate(); err != nil {
		h.WriteAppError(w, err)
		return
	}

	tokens, err := h.Service.RefreshTokens(dto.RefreshToken)
	if err != nil {
		h.WriteError(w, http.StatusUnauthorized, "Invalid refresh token")
		return
	}

	h.WriteJSON(w, http.StatusOK, tokens)
}

// Me returns the identity resolved from the access token, including
// the effective permission list.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := internal.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	h.WriteJSON(w, http.StatusOK, user)
}

// AuthMiddleware resolves the bearer token and attaches the identity to
// the request context. Refresh tokens are rejected here.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			h.WriteError(w, http.StatusUnauthorized, "No token provided")
			return
		}

		user, err := h.Service.ResolveAccessToken(token)
		if err != nil {
			h.WriteError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		ctx := internal.ContextWithUser(r.Context(), user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
