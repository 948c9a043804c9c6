package audit

import (
	"net/http"
	"strconv"
	"time"

	"github.com/frahmantamala/correspondence-management/internal/transport"
	"github.com/frahmantamala/correspondence-management/pkg/logger"
)

type Handler struct {
	*transport.BaseHandler
	Service *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger.L()),
		Service:     svc,
	}
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.URLParamInt64(r, "id")
	if !ok {
		h.WriteError(w, http.StatusBadRequest, "invalid audit log id")
		return
	}

	l, err := h.Service.Get(id)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, l)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := transport.QueryInt(r, "page", 1)
	limit := transport.QueryInt(r, "limit", 20)

	q := r.URL.Query()
	filter := ListFilter{
		Action:   q.Get("action"),
		Resource: q.Get("resource"),
	}
	if raw := q.Get("user_id"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			filter.UserID = &id
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

	logs, total, err := h.Service.List(filter, page, limit)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, transport.PaginatedResponse{
		Data:       logs,
		Pagination: transport.NewPagination(total, page, limit),
	})
}
