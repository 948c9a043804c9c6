package events

import (
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const AuditRecorded = "audit.recorded"

// AuditData carries everything the audit subscriber needs to append a
// log row. Best-effort: losing one of these must not affect the request
// that produced it.
type AuditData struct {
	UserID     int64  `json:"user_id"`
	Action     string `json:"action"`
	Resource   string `json:"resource"`
	ResourceID int64  `json:"resource_id,omitempty"`
	Details    string `json:"details,omitempty"`
	IPAddress  string `json:"ip_address,omitempty"`
	UserAgent  string `json:"user_agent,omitempty"`
}

// FromRequest stamps caller metadata onto the entry.
func (d AuditData) FromRequest(r *http.Request) AuditData {
	if r == nil {
		return d
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	d.IPAddress = host
	d.UserAgent = r.UserAgent()
	return d
}

type AuditEvent struct {
	BaseEvent
	Audit AuditData
}

func NewAuditEvent(data AuditData) AuditEvent {
	return AuditEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      AuditRecorded,
			Timestamp: time.Now(),
		},
		Audit: data,
	}
}

func (e AuditEvent) Payload() interface{} {
	return e.Audit
}
