package entity

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

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := transport.QueryInt(r, "page", 1)
	limit := transport.QueryInt(r, "limit", 10)

	filter := ListFilter{
		Type:   r.URL.Query().Get("type"),
		Search: r.URL.Query().Get("search"),
	}
	if raw := r.URL.Query().Get("is_active"); raw != "" {
		active := raw == "true"
		filter.IsActive = &active
	}

	entities, total, err := h.Service.ListEntities(filter, page, limit)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, transport.PaginatedResponse{
		Data:       entities,
		Pagination: transport.NewPagination(total, page, limit),
	})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.URLParamInt64(r, "id")
	if !ok {
		h.WriteError(w, http.StatusBadRequest, "invalid entity id")
		return
	}

	e, err := h.Service.GetEntity(id)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, e)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var dto CreateEntityDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	e, err := h.Service.CreateEntity(dto)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.audit(r, "create", e.ID)
	h.WriteJSON(w, http.StatusCreated, e)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.URLParamInt64(r, "id")
	if !ok {
		h.WriteError(w, http.StatusBadRequest, "invalid entity id")
		return
	}

	var dto UpdateEntityDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	e, err := h.Service.UpdateEntity(id, dto)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.audit(r, "update", e.ID)
	h.WriteJSON(w, http.StatusOK, e)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.URLParamInt64(r, "id")
	if !ok {
		h.WriteError(w, http.StatusBadRequest, "invalid entity id")
		return
	}

	if err := h.Service.DeleteEntity(id); err != nil {
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
		Resource:   "entity",
		ResourceID: resourceID,
	}.FromRequest(r)))
}
