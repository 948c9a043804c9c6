package correspondence

import (
	"log/slog"
	"strings"
	"time"

	errors "github.com/frahmantamala/correspondence-management/internal"
	"github.com/frahmantamala/correspondence-management/internal/entity"
)

type Repository interface {
	Create(c *Correspondence) error
	GetByID(id int64) (*Correspondence, error)
	GetDetailed(id int64) (*Correspondence, error)
	List(filter ListFilter, limit, offset int) ([]Correspondence, int64, error)
	Update(c *Correspondence) error
	Delete(id int64) error
	AppendStatusHistory(h *StatusHistory) error
	CreateReply(reply *Reply) error
	GetReply(id int64) (*Reply, error)
}

// EntityGetter lets the workflow engine check that sender and receiver
// exist without owning entity persistence.
type EntityGetter interface {
	GetByID(id int64) (*entity.Entity, error)
}

type Service struct {
	repo     Repository
	entities EntityGetter
	logger   *slog.Logger
}

func NewService(repo Repository, entities EntityGetter, logger *slog.Logger) *Service {
	return &Service{repo: repo, entities: entities, logger: logger}
}

// Create validates, persists the correspondence and appends the initial
// history row (none -> starting status). Reference numbers are retried
// once when the random suffix collides.
func (s *Service) Create(dto CreateCorrespondenceDTO, actorID int64) (*Correspondence, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.entities.GetByID(dto.SenderEntityID); err != nil {
		return nil, errors.ErrEntityNotFound
	}
	if _, err := s.entities.GetByID(dto.ReceiverEntityID); err != nil {
		return nil, errors.ErrEntityNotFound
	}

	status := dto.CurrentStatus
	if status == "" {
		status = StatusDraft
	}

	c := &Correspondence{
		ReferenceNumber:    GenerateReferenceNumber(dto.Type),
		Type:               dto.Type,
		Subject:            dto.Subject,
		Description:        dto.Description,
		SenderEntityID:     dto.SenderEntityID,
		ReceiverEntityID:   dto.ReceiverEntityID,
		CorrespondenceDate: dto.CorrespondenceDate,
		ReviewStatus:       ReviewStatusNotReviewed,
		CurrentStatus:      status,
		CreatedBy:          actorID,
	}

	err := s.repo.Create(c)
	if err != nil && isUniqueViolation(err) {
		s.logger.Warn("reference number collision, retrying", "reference_number", c.ReferenceNumber)
		c.ReferenceNumber = GenerateReferenceNumber(dto.Type)
		err = s.repo.Create(c)
	}
	if err != nil {
		if isUniqueViolation(err) {
			return nil, errors.NewConflictError("Reference number already exists", errors.ErrCodeReferenceNumberTaken)
		}
		return nil, errors.NewInternalError("failed to create correspondence", err)
	}

	s.appendHistory(c.ID, StatusNone, status, actorID, "")

	s.logger.Info("correspondence created",
		"correspondence_id", c.ID,
		"reference_number", c.ReferenceNumber,
		"status", status)

	return s.repo.GetByID(c.ID)
}

func (s *Service) Get(id int64) (*Correspondence, error) {
	c, err := s.repo.GetDetailed(id)
	if err != nil {
		return nil, errors.ErrCorrespondenceNotFound
	}
	return c, nil
}

func (s *Service) List(filter ListFilter, page, limit int) ([]Correspondence, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	return s.repo.List(filter, limit, (page-1)*limit)
}

// Update applies only the supplied fields. A changed current_status
// gets one history row; setting the same status again does not.
func (s *Service) Update(id int64, dto UpdateCorrespondenceDTO, actorID int64) (*Correspondence, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	c, err := s.repo.GetByID(id)
	if err != nil {
		return nil, errors.ErrCorrespondenceNotFound
	}

	if dto.SenderEntityID != nil {
		if _, err := s.entities.GetByID(*dto.SenderEntityID); err != nil {
			return nil, errors.ErrEntityNotFound
		}
		c.SenderEntityID = *dto.SenderEntityID
	}
	if dto.ReceiverEntityID != nil {
		if _, err := s.entities.GetByID(*dto.ReceiverEntityID); err != nil {
			return nil, errors.ErrEntityNotFound
		}
		c.ReceiverEntityID = *dto.ReceiverEntityID
	}

	oldStatus := c.CurrentStatus

	if dto.Subject != nil {
		c.Subject = *dto.Subject
	}
	if dto.Description != nil {
		c.Description = *dto.Description
	}
	if dto.CorrespondenceDate != nil {
		c.CorrespondenceDate = *dto.CorrespondenceDate
	}
	if dto.CurrentStatus != nil {
		c.CurrentStatus = *dto.CurrentStatus
	}
	if dto.ReviewStatus != nil {
		c.ReviewStatus = *dto.ReviewStatus
	}

	if err := s.repo.Update(c); err != nil {
		return nil, errors.NewInternalError("failed to update correspondence", err)
	}

	if dto.CurrentStatus != nil && *dto.CurrentStatus != oldStatus {
		s.appendHistory(c.ID, oldStatus, *dto.CurrentStatus, actorID, "")
	}

	return s.repo.GetByID(c.ID)
}

// SetStatus is the dedicated status endpoint. Unlike Update it appends
// a history row unconditionally, even when old and new are equal.
func (s *Service) SetStatus(id int64, dto StatusUpdateDTO, actorID int64) (*Correspondence, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	c, err := s.repo.GetByID(id)
	if err != nil {
		return nil, errors.ErrCorrespondenceNotFound
	}

	oldStatus := c.CurrentStatus
	c.CurrentStatus = dto.Status

	if err := s.repo.Update(c); err != nil {
		return nil, errors.NewInternalError("failed to update status", err)
	}

	s.appendHistory(c.ID, oldStatus, dto.Status, actorID, dto.Notes)

	return c, nil
}

// MarkReviewed flips the one-way review flag. It does not touch
// current_status or the history ledger.
func (s *Service) MarkReviewed(id int64, actorID int64) (*Correspondence, error) {
	c, err := s.repo.GetByID(id)
	if err != nil {
		return nil, errors.ErrCorrespondenceNotFound
	}

	now := time.Now()
	c.ReviewStatus = ReviewStatusReviewed
	c.ReviewedBy = &actorID
	c.ReviewedAt = &now

	if err := s.repo.Update(c); err != nil {
		return nil, errors.NewInternalError("failed to mark reviewed", err)
	}

	return c, nil
}

// AddReply inserts the reply and forces the correspondence into the
// replied status, whatever it was before.
func (s *Service) AddReply(correspondenceID int64, dto ReplyDTO, actorID int64) (*Reply, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	c, err := s.repo.GetByID(correspondenceID)
	if err != nil {
		return nil, errors.ErrCorrespondenceNotFound
	}

	reply := &Reply{
		CorrespondenceID: c.ID,
		ParentReplyID:    dto.ParentReplyID,
		Subject:          dto.Subject,
		Body:             dto.Body,
		CreatedBy:        actorID,
	}

	if err := s.repo.CreateReply(reply); err != nil {
		return nil, errors.NewInternalError("failed to create reply", err)
	}

	priorStatus := c.CurrentStatus
	c.CurrentStatus = StatusReplied
	if err := s.repo.Update(c); err != nil {
		return nil, errors.NewInternalError("failed to update correspondence status", err)
	}

	s.appendHistory(c.ID, priorStatus, StatusReplied, actorID, "Reply added")

	return s.repo.GetReply(reply.ID)
}

func (s *Service) Delete(id int64) error {
	if _, err := s.repo.GetByID(id); err != nil {
		return errors.ErrCorrespondenceNotFound
	}
	return s.repo.Delete(id)
}

// appendHistory writes one ledger row. Create/history are two
// sequential statements, not a transaction; a failure here is logged
// and the primary write stands.
func (s *Service) appendHistory(correspondenceID int64, oldStatus, newStatus string, actorID int64, notes string) {
	h := &StatusHistory{
		CorrespondenceID: correspondenceID,
		OldStatus:        oldStatus,
		NewStatus:        newStatus,
		ChangedBy:        actorID,
		Notes:            notes,
	}
	if err := s.repo.AppendStatusHistory(h); err != nil {
		s.logger.Error("failed to append status history",
			"correspondence_id", correspondenceID,
			"old_status", oldStatus,
			"new_status", newStatus,
			"error", err)
	}
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}
