package correspondence

import (
	"time"

	errors "github.com/frahmantamala/correspondence-management/internal"
	"github.com/frahmantamala/correspondence-management/internal/attachment"
	"github.com/frahmantamala/correspondence-management/internal/core/common/validation"
	"github.com/frahmantamala/correspondence-management/internal/entity"
	"github.com/frahmantamala/correspondence-management/internal/user"
	"gorm.io/gorm"
)

// Correspondence direction.
const (
	TypeIncoming = "incoming"
	TypeOutgoing = "outgoing"
)

// Workflow statuses. The set is a fixed enumeration, not a linear state
// machine: any status may be set directly. StatusNone is the synthetic
// "old status" recorded for the creation transition only.
const (
	StatusNone        = "none"
	StatusDraft       = "draft"
	StatusSent        = "sent"
	StatusReceived    = "received"
	StatusUnderReview = "under_review"
	StatusReplied     = "replied"
	StatusClosed      = "closed"
)

var Statuses = []string{StatusDraft, StatusSent, StatusReceived, StatusUnderReview, StatusReplied, StatusClosed}

// Review flag, independent of the workflow status.
const (
	ReviewStatusReviewed    = "reviewed"
	ReviewStatusNotReviewed = "not_reviewed"
)

type Correspondence struct {
	ID                 int64                   `gorm:"primaryKey" json:"id"`
	ReferenceNumber    string                  `gorm:"column:reference_number;uniqueIndex;size:20;not null" json:"reference_number"`
	Type               string                  `gorm:"size:20;not null" json:"type"`
	Subject            string                  `gorm:"size:500;not null" json:"subject"`
	Description        string                  `gorm:"not null" json:"description"`
	SenderEntityID     int64                   `gorm:"column:sender_entity_id;not null" json:"sender_entity_id"`
	ReceiverEntityID   int64                   `gorm:"column:receiver_entity_id;not null" json:"receiver_entity_id"`
	SenderEntity       *entity.Entity          `gorm:"foreignKey:SenderEntityID" json:"senderEntity,omitempty"`
	ReceiverEntity     *entity.Entity          `gorm:"foreignKey:ReceiverEntityID" json:"receiverEntity,omitempty"`
	CorrespondenceDate time.Time               `gorm:"column:correspondence_date;not null" json:"correspondence_date"`
	ReviewStatus       string                  `gorm:"column:review_status;size:20;default:not_reviewed" json:"review_status"`
	CurrentStatus      string                  `gorm:"column:current_status;size:20;default:draft" json:"current_status"`
	CreatedBy          int64                   `gorm:"column:created_by;not null" json:"created_by"`
	Creator            *user.User              `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
	ReviewedBy         *int64                  `gorm:"column:reviewed_by" json:"reviewed_by,omitempty"`
	ReviewedAt         *time.Time              `gorm:"column:reviewed_at" json:"reviewed_at,omitempty"`
	Attachments        []attachment.Attachment `gorm:"foreignKey:CorrespondenceID" json:"attachments,omitempty"`
	Replies            []Reply                 `gorm:"foreignKey:CorrespondenceID" json:"replies,omitempty"`
	StatusHistory      []StatusHistory         `gorm:"foreignKey:CorrespondenceID" json:"statusHistory,omitempty"`
	CreatedAt          time.Time               `json:"created_at"`
	UpdatedAt          time.Time               `json:"updated_at"`
	DeletedAt          gorm.DeletedAt          `gorm:"index" json:"-"`
}

func (Correspondence) TableName() string {
	return "correspondences"
}

// Reply optionally points at a parent reply, forming a tree. Creating
// one forces the owning correspondence into the replied status.
type Reply struct {
	ID               int64      `gorm:"primaryKey" json:"id"`
	CorrespondenceID int64      `gorm:"column:correspondence_id;not null" json:"correspondence_id"`
	ParentReplyID    *int64     `gorm:"column:parent_reply_id" json:"parent_reply_id,omitempty"`
	Subject          string     `gorm:"size:500;not null" json:"subject"`
	Body             string     `gorm:"not null" json:"body"`
	CreatedBy        int64      `gorm:"column:created_by;not null" json:"created_by"`
	Creator          *user.User `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func (Reply) TableName() string {
	return "correspondence_replies"
}

// StatusHistory is an append-only ledger: exactly one row per accepted
// status transition, including the creation transition from "none".
// Rows are never updated or deleted independent of the parent.
type StatusHistory struct {
	ID               int64      `gorm:"primaryKey" json:"id"`
	CorrespondenceID int64      `gorm:"column:correspondence_id;not null" json:"correspondence_id"`
	OldStatus        string     `gorm:"column:old_status;size:20;not null" json:"old_status"`
	NewStatus        string     `gorm:"column:new_status;size:20;not null" json:"new_status"`
	ChangedBy        int64      `gorm:"column:changed_by" json:"changed_by"`
	ChangedByUser    *user.User `gorm:"foreignKey:ChangedBy" json:"changedBy,omitempty"`
	Notes            string     `json:"notes,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

func (StatusHistory) TableName() string {
	return "status_history"
}

type CreateCorrespondenceDTO struct {
	Type               string    `json:"type"`
	Subject            string    `json:"subject"`
	Description        string    `json:"description"`
	SenderEntityID     int64     `json:"sender_entity_id"`
	ReceiverEntityID   int64     `json:"receiver_entity_id"`
	CorrespondenceDate time.Time `json:"correspondence_date"`
	CurrentStatus      string    `json:"current_status,omitempty"`
}

func (dto CreateCorrespondenceDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("type", dto.Type).Required().OneOf(TypeIncoming, TypeOutgoing)
	v.Field("subject", dto.Subject).Required().MaxLength(500)
	v.Field("description", dto.Description).Required()
	v.Field("sender_entity_id", dto.SenderEntityID).Required().PositiveInt()
	v.Field("receiver_entity_id", dto.ReceiverEntityID).Required().PositiveInt()
	v.Field("correspondence_date", dto.CorrespondenceDate).Required()
	v.Field("current_status", dto.CurrentStatus).OneOf(Statuses...)
	return v.Validate()
}

type UpdateCorrespondenceDTO struct {
	Subject            *string    `json:"subject,omitempty"`
	Description        *string    `json:"description,omitempty"`
	SenderEntityID     *int64     `json:"sender_entity_id,omitempty"`
	ReceiverEntityID   *int64     `json:"receiver_entity_id,omitempty"`
	CorrespondenceDate *time.Time `json:"correspondence_date,omitempty"`
	CurrentStatus      *string    `json:"current_status,omitempty"`
	ReviewStatus       *string    `json:"review_status,omitempty"`
}

func (dto UpdateCorrespondenceDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	if dto.Subject != nil {
		v.Field("subject", *dto.Subject).Required().MaxLength(500)
	}
	if dto.Description != nil {
		v.Field("description", *dto.Description).Required()
	}
	if dto.SenderEntityID != nil {
		v.Field("sender_entity_id", *dto.SenderEntityID).PositiveInt()
	}
	if dto.ReceiverEntityID != nil {
		v.Field("receiver_entity_id", *dto.ReceiverEntityID).PositiveInt()
	}
	if dto.CurrentStatus != nil {
		v.Field("current_status", *dto.CurrentStatus).Required().OneOf(Statuses...)
	}
	if dto.ReviewStatus != nil {
		v.Field("review_status", *dto.ReviewStatus).Required().OneOf(ReviewStatusReviewed, ReviewStatusNotReviewed)
	}
	return v.Validate()
}

type ReplyDTO struct {
	Subject       string `json:"subject"`
	Body          string `json:"body"`
	ParentReplyID *int64 `json:"parent_reply_id,omitempty"`
}

func (dto ReplyDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("subject", dto.Subject).Required().MaxLength(500)
	v.Field("body", dto.Body).Required()
	if dto.ParentReplyID != nil {
		v.Field("parent_reply_id", *dto.ParentReplyID).PositiveInt()
	}
	return v.Validate()
}

type StatusUpdateDTO struct {
	Status string `json:"status"`
	Notes  string `json:"notes,omitempty"`
}

func (dto StatusUpdateDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("status", dto.Status).Required().OneOf(Statuses...)
	return v.Validate()
}
