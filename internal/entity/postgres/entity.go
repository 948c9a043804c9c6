package postgres

import (
	"github.com/frahmantamala/correspondence-management/internal/entity"
	"gorm.io/gorm"
)

type EntityRepository struct {
	db *gorm.DB
}

func NewEntityRepository(db *gorm.DB) entity.Repository {
	return &EntityRepository{db: db}
}

func (r *EntityRepository) Create(e *entity.Entity) error {
	return r.db.Create(e).Error
}

func (r *EntityRepository) GetByID(id int64) (*entity.Entity, error) {
	var e entity.Entity
	err := r.db.First(&e, id).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *EntityRepository) List(filter entity.ListFilter, limit, offset int) ([]entity.Entity, int64, error) {
	q := r.db.Model(&entity.Entity{})

	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}
	if filter.IsActive != nil {
		q = q.Where("is_active = ?", *filter.IsActive)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where("name_ar LIKE ? OR name_en LIKE ?", pattern, pattern)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entities []entity.Entity
	err := q.Order("name_ar ASC").
		Limit(limit).
		Offset(offset).
		Find(&entities).Error
	return entities, total, err
}

func (r *EntityRepository) Update(e *entity.Entity) error {
	return r.db.Save(e).Error
}

func (r *EntityRepository) Delete(id int64) error {
	return r.db.Delete(&entity.Entity{}, id).Error
}
