package audit

import (
	"context"
	"fmt"
	"log/slog"

	errors "github.com/frahmantamala/correspondence-management/internal"
	"github.com/frahmantamala/correspondence-management/internal/core/events"
)

type Repository interface {
	Create(l *Log) error
	GetByID(id int64) (*Log, error)
	List(filter ListFilter, limit, offset int) ([]Log, int64, error)
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// SubscribeTo registers the audit writer on the bus. Records arrive as
// event payloads; anything that is not an AuditData is dropped.
func (s *Service) SubscribeTo(bus *events.EventBus) {
	bus.Subscribe(events.AuditRecorded, s.handleAuditEvent)
}

func (s *Service) handleAuditEvent(_ context.Context, event events.Event) error {
	data, ok := event.Payload().(events.AuditData)
	if !ok {
		return fmt.Errorf("unexpected payload type %T", event.Payload())
	}
	return s.Record(data)
}

func (s *Service) Record(data events.AuditData) error {
	l := &Log{
		Action:    data.Action,
		Resource:  data.Resource,
		Details:   data.Details,
		IPAddress: data.IPAddress,
		UserAgent: data.UserAgent,
	}
	if data.UserID > 0 {
		l.UserID = &data.UserID
	}
	if data.ResourceID > 0 {
		l.ResourceID = &data.ResourceID
	}

	if err := s.repo.Create(l); err != nil {
		return fmt.Errorf("append audit log: %w", err)
	}
	return nil
}

func (s *Service) Get(id int64) (*Log, error) {
	l, err := s.repo.GetByID(id)
	if err != nil {
		return nil, errors.NewNotFoundError("Audit log not found", errors.ErrCodeAuditLogNotFound)
	}
	return l, nil
}

func (s *Service) List(filter ListFilter, page, limit int) ([]Log, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	logs, total, err := s.repo.List(filter, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, errors.NewInternalError("failed to list audit logs", err)
	}
	return logs, total, nil
}
