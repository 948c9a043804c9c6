package postgres

import (
	"github.com/frahmantamala/correspondence-management/internal/attachment"
	"gorm.io/gorm"
)

type AttachmentRepository struct {
	db *gorm.DB
}

func NewAttachmentRepository(db *gorm.DB) *AttachmentRepository {
	return &AttachmentRepository{db: db}
}

func (r *AttachmentRepository) Create(a *attachment.Attachment) error {
	return r.db.Create(a).Error
}

func (r *AttachmentRepository) GetByID(id int64) (*attachment.Attachment, error) {
	var a attachment.Attachment
	err := r.db.First(&a, id).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AttachmentRepository) ListByCorrespondence(correspondenceID int64) ([]attachment.Attachment, error) {
	var attachments []attachment.Attachment
	err := r.db.
		Where("correspondence_id = ?", correspondenceID).
		Order("created_at DESC").
		Find(&attachments).Error
	return attachments, err
}

func (r *AttachmentRepository) Delete(id int64) error {
	return r.db.Delete(&attachment.Attachment{}, id).Error
}

// CorrespondenceExists queries the parent table directly so this
// package stays independent of the workflow package.
func (r *AttachmentRepository) CorrespondenceExists(id int64) (bool, error) {
	var count int64
	err := r.db.Table("correspondences").
		Where("id = ? AND deleted_at IS NULL", id).
		Count(&count).Error
	return count > 0, err
}
