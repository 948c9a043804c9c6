package user

import (
	"encoding/json"
	"net/http"
	"strconv"

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

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := transport.QueryInt(r, "page", 1)
	limit := transport.QueryInt(r, "limit", 10)

	filter := ListFilter{Search: r.URL.Query().Get("search")}
	if raw := r.URL.Query().Get("role_id"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			filter.RoleID = &id
		}
	}
	if raw := r.URL.Query().Get("is_active"); raw != "" {
		active := raw == "true"
		filter.IsActive = &active
	}

	users, total, err := h.Service.ListUsers(filter, page, limit)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, transport.PaginatedResponse{
		Data:       users,
		Pagination: transport.NewPagination(total, page, limit),
	})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.URLParamInt64(r, "id")
	if !ok {
		h.WriteError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	u, err := h.Service.GetUser(id)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, u)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var dto CreateUserDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.Service.CreateUser(dto)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.audit(r, "create", u.ID)
	h.WriteJSON(w, http.StatusCreated, u)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.URLParamInt64(r, "id")
	if !ok {
		h.WriteError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var dto UpdateUserDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.Service.UpdateUser(id, dto)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.audit(r, "update", u.ID)
	h.WriteJSON(w, http.StatusOK, u)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.URLParamInt64(r, "id")
	if !ok {
		h.WriteError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	if err := h.Service.DeleteUser(id); err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.audit(r, "delete", id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) audit(r *http.Request, action string, resourceID int64) {
	actor, _ := internal.UserFromContext(r.Context())
	var actorID int64
	if actor != nil {
		actorID = actor.ID
	}
	h.Bus.Publish(r.Context(), events.NewAuditEvent(events.AuditData{
		UserID:     actorID,
		Action:     action,
		Resource:   "user",
		ResourceID: resourceID,
	}.FromRequest(r)))
}
