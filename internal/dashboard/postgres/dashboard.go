package postgres

import (
	"time"

	"github.com/frahmantamala/correspondence-management/internal/correspondence"
	"github.com/frahmantamala/correspondence-management/internal/dashboard"
	"github.com/frahmantamala/correspondence-management/internal/entity"
	"github.com/frahmantamala/correspondence-management/internal/user"
	"gorm.io/gorm"
)

type DashboardRepository struct {
	db *gorm.DB
}

func NewDashboardRepository(db *gorm.DB) dashboard.Repository {
	return &DashboardRepository{db: db}
}

func (r *DashboardRepository) CountCorrespondences() (int64, error) {
	var count int64
	err := r.db.Model(&correspondence.Correspondence{}).Count(&count).Error
	return count, err
}

func (r *DashboardRepository) CountByType(correspondenceType string) (int64, error) {
	var count int64
	err := r.db.Model(&correspondence.Correspondence{}).
		Where("type = ?", correspondenceType).
		Count(&count).Error
	return count, err
}

func (r *DashboardRepository) CountByStatus() (map[string]int64, error) {
	type row struct {
		CurrentStatus string
		Count         int64
	}
	var rows []row
	err := r.db.Model(&correspondence.Correspondence{}).
		Select("current_status, count(*) as count").
		Group("current_status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	byStatus := make(map[string]int64, len(rows))
	for _, row := range rows {
		byStatus[row.CurrentStatus] = row.Count
	}
	return byStatus, nil
}

func (r *DashboardRepository) CountPendingReview() (int64, error) {
	var count int64
	err := r.db.Model(&correspondence.Correspondence{}).
		Where("review_status = ?", correspondence.ReviewStatusNotReviewed).
		Count(&count).Error
	return count, err
}

func (r *DashboardRepository) CountCreatedSince(t time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&correspondence.Correspondence{}).
		Where("created_at >= ?", t).
		Count(&count).Error
	return count, err
}

func (r *DashboardRepository) CountActiveEntities() (int64, error) {
	var count int64
	err := r.db.Model(&entity.Entity{}).
		Where("is_active = ?", true).
		Count(&count).Error
	return count, err
}

func (r *DashboardRepository) CountActiveUsers() (int64, error) {
	var count int64
	err := r.db.Model(&user.User{}).
		Where("is_active = ?", true).
		Count(&count).Error
	return count, err
}
