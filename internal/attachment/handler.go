package attachment

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/frahmantamala/correspondence-management/internal"
	"github.com/frahmantamala/correspondence-management/internal/core/events"
	"github.com/frahmantamala/correspondence-management/internal/transport"
	"github.com/frahmantamala/correspondence-management/pkg/logger"
)

type Handler struct {
	*transport.BaseHandler
	Service *Service
	Bus     *events.EventBus
	maxSize int64
}

func NewHandler(svc *Service, bus *events.EventBus, maxSize int64) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger.L()),
		Service:     svc,
		Bus:         bus,
		maxSize:     maxSize,
	}
}

// Upload expects multipart form data with a "file" part and a
// "direction" field.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	correspondenceID, ok := h.URLParamInt64(r, "id")
	if !ok {
		h.WriteError(w, http.StatusBadRequest, "invalid correspondence id")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxSize+4096)
	if err := r.ParseMultipartForm(h.maxSize); err != nil {
		h.WriteError(w, http.StatusBadRequest, "file exceeds maximum upload size")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "missing file")
		return
	}
	defer file.Close()

	mimeType := header.Header.Get("Content-Type")
	if idx := strings.Index(mimeType, ";"); idx >= 0 {
		mimeType = strings.TrimSpace(mimeType[:idx])
	}

	var actorID int64
	if actor, ok := internal.UserFromContext(r.Context()); ok {
		actorID = actor.ID
	}

	a, err := h.Service.Upload(UploadInput{
		CorrespondenceID: correspondenceID,
		Direction:        r.FormValue("direction"),
		OriginalName:     header.Filename,
		MimeType:         mimeType,
		Size:             header.Size,
		Content:          file,
		UploadedBy:       actorID,
	})
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.audit(r, "upload", a.ID)
	h.WriteJSON(w, http.StatusCreated, a)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	correspondenceID, ok := h.URLParamInt64(r, "id")
	if !ok {
		h.WriteError(w, http.StatusBadRequest, "invalid correspondence id")
		return
	}

	attachments, err := h.Service.ListByCorrespondence(correspondenceID)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, attachments)
}

// Download streams the stored file with its original name. The
// Content-Disposition carries both a quoted fallback and the RFC 5987
// encoded form so non-ASCII (Arabic) names survive every client.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	id, ok := h.URLParamInt64(r, "id")
	if !ok {
		h.WriteError(w, http.StatusBadRequest, "invalid attachment id")
		return
	}

	a, rc, err := h.Service.OpenFile(id)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", a.MimeType)
	w.Header().Set("Content-Disposition", contentDisposition(a.OriginalName))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", a.FileSize))

	if _, err := io.Copy(w, rc); err != nil {
		h.Logger.Error("failed to stream attachment", "attachment_id", id, "error", err)
	}
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.URLParamInt64(r, "id")
	if !ok {
		h.WriteError(w, http.StatusBadRequest, "invalid attachment id")
		return
	}

	if err := h.Service.Delete(id); err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.audit(r, "delete", id)
	w.WriteHeader(http.StatusNoContent)
}

func contentDisposition(name string) string {
	fallback := strings.Map(func(r rune) rune {
		if r < 32 || r > 126 || r == '"' || r == '\\' {
			return '_'
		}
		return r
	}, name)
	return fmt.Sprintf(`attachment; filename="%s"; filename*=UTF-8''%s`, fallback, url.PathEscape(name))
}

func (h *Handler) audit(r *http.Request, action string, resourceID int64) {
	var actorID int64
	if actor, ok := internal.UserFromContext(r.Context()); ok {
		actorID = actor.ID
	}
	h.Bus.Publish(r.Context(), events.NewAuditEvent(events.AuditData{
		UserID:     actorID,
		Action:     action,
		Resource:   "attachment",
		ResourceID: resourceID,
	}.FromRequest(r)))
}
