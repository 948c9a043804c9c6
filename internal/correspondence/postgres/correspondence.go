package postgres

import (
	"github.com/frahmantamala/correspondence-management/internal/correspondence"
	"gorm.io/gorm"
)

type CorrespondenceRepository struct {
	db *gorm.DB
}

func NewCorrespondenceRepository(db *gorm.DB) correspondence.Repository {
	return &CorrespondenceRepository{db: db}
}

func (r *CorrespondenceRepository) Create(c *correspondence.Correspondence) error {
	return r.db.Create(c).Error
}

func (r *CorrespondenceRepository) GetByID(id int64) (*correspondence.Correspondence, error) {
	var c correspondence.Correspondence
	err := r.db.
		Preload("SenderEntity").
		Preload("ReceiverEntity").
		Preload("Creator").
		First(&c, id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetDetailed loads the full aggregate: entities, creator, attachments,
// replies with their authors and the status ledger oldest-first.
func (r *CorrespondenceRepository) GetDetailed(id int64) (*correspondence.Correspondence, error) {
	var c correspondence.Correspondence
	err := r.db.
		Preload("SenderEntity").
		Preload("ReceiverEntity").
		Preload("Creator").
		Preload("Attachments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Preload("Replies", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Replies.Creator").
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("StatusHistory.ChangedByUser").
		First(&c, id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CorrespondenceRepository) List(filter correspondence.ListFilter, limit, offset int) ([]correspondence.Correspondence, int64, error) {
	q := r.db.Model(&correspondence.Correspondence{})

	for _, clause := range correspondence.BuildClauses(filter) {
		q = q.Where(clause.Expr, clause.Args...)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []correspondence.Correspondence
	err := q.
		Preload("SenderEntity").
		Preload("ReceiverEntity").
		Preload("Creator").
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&items).Error
	return items, total, err
}

func (r *CorrespondenceRepository) Update(c *correspondence.Correspondence) error {
	return r.db.Save(c).Error
}

func (r *CorrespondenceRepository) Delete(id int64) error {
	return r.db.Delete(&correspondence.Correspondence{}, id).Error
}

func (r *CorrespondenceRepository) AppendStatusHistory(h *correspondence.StatusHistory) error {
	return r.db.Create(h).Error
}

func (r *CorrespondenceRepository) CreateReply(reply *correspondence.Reply) error {
	return r.db.Create(reply).Error
}

func (r *CorrespondenceRepository) GetReply(id int64) (*correspondence.Reply, error) {
	var reply correspondence.Reply
	err := r.db.Preload("Creator").First(&reply, id).Error
	if err != nil {
		return nil, err
	}
	return &reply, nil
}
