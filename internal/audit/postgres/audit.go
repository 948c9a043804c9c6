package postgres

import (
	"github.com/frahmantamala/correspondence-management/internal/audit"
	"gorm.io/gorm"
)

type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) audit.Repository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Create(l *audit.Log) error {
	return r.db.Create(l).Error
}

func (r *AuditRepository) GetByID(id int64) (*audit.Log, error) {
	var l audit.Log
	err := r.db.Preload("User").First(&l, id).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *AuditRepository) List(filter audit.ListFilter, limit, offset int) ([]audit.Log, int64, error) {
	q := r.db.Model(&audit.Log{})

	if filter.UserID != nil {
		q = q.Where("user_id = ?", *filter.UserID)
	}
	if filter.Action != "" {
		q = q.Where("action = ?", filter.Action)
	}
	if filter.Resource != "" {
		q = q.Where("resource = ?", filter.Resource)
	}
	if filter.StartDate != nil {
		q = q.Where("created_at >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		q = q.Where("created_at <= ?", *filter.EndDate)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []audit.Log
	err := q.Preload("User").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&logs).Error
	return logs, total, err
}
