package correspondence

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

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

	filter := parseListFilter(r)

	items, total, err := h.Service.List(filter, page, limit)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, transport.PaginatedResponse{
		Data:       items,
		Pagination: transport.NewPagination(total, page, limit),
	})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.URLParamInt64(r, "id")
	if !ok {
		h.WriteError(w, http.StatusBadRequest, "invalid correspondence id")
		return
	}

	c, err := h.Service.Get(id)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var dto CreateCorrespondenceDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := h.Service.Create(dto, h.actorID(r))
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.audit(r, "create", c.ID)
	h.WriteJSON(w, http.StatusCreated, c)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.URLParamInt64(r, "id")
	if !ok {
		h.WriteError(w, http.StatusBadRequest, "invalid correspondence id")
		return
	}

	var dto UpdateCorrespondenceDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := h.Service.Update(id, dto, h.actorID(r))
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.audit(r, "update", c.ID)
	h.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := h.URLParamInt64(r, "id")
	if !ok {
		h.WriteError(w, http.StatusBadRequest, "invalid correspondence id")
		return
	}

	var dto StatusUpdateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := h.Service.SetStatus(id, dto, h.actorID(r))
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.audit(r, "update_status", c.ID)
	h.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) Review(w http.ResponseWriter, r *http.Request) {
	id, ok := h.URLParamInt64(r, "id")
	if !ok {
		h.WriteError(w, http.StatusBadRequest, "invalid correspondence id")
		return
	}

	c, err := h.Service.MarkReviewed(id, h.actorID(r))
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.audit(r, "review", c.ID)
	h.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) AddReply(w http.ResponseWriter, r *http.Request) {
	id, ok := h.URLParamInt64(r, "id")
	if !ok {
		h.WriteError(w, http.StatusBadRequest, "invalid correspondence id")
		return
	}

	var dto ReplyDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	reply, err := h.Service.AddReply(id, dto, h.actorID(r))
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.audit(r, "reply", id)
	h.WriteJSON(w, http.StatusCreated, reply)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.URLParamInt64(r, "id")
	if !ok {
		h.WriteError(w, http.StatusBadRequest, "invalid correspondence id")
		return
	}

	if err := h.Service.Delete(id); err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.audit(r, "delete", id)
	w.WriteHeader(http.StatusNoContent)
}

func parseListFilter(r *http.Request) ListFilter {
	q := r.URL.Query()
	filter := ListFilter{
		Type:          q.Get("type"),
		CurrentStatus: q.Get("status"),
		ReviewStatus:  q.Get("review_status"),
		Search:        q.Get("search"),
	}
	if raw := q.Get("sender_entity_id"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			filter.SenderEntityID = &id
		}
	}
	if raw := q.Get("receiver_entity_id"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			filter.ReceiverEntityID = &id
		}
	}
	if raw := q.Get("start_date"); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			filter.StartDate = &t
		}
	}
	if raw := q.Get("end_date"); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			filter.EndDate = &t
		}
	}
	return filter
}

func (h *Handler) actorID(r *http.Request) int64 {
	if actor, ok := internal.UserFromContext(r.Context()); ok {
		return actor.ID
	}
	return 0
}

func (h *Handler) audit(r *http.Request, action string, resourceID int64) {
	h.Bus.Publish(r.Context(), events.NewAuditEvent(events.AuditData{
		UserID:     h.actorID(r),
		Action:     action,
		Resource:   "correspondence",
		ResourceID: resourceID,
	}.FromRequest(r)))
}
