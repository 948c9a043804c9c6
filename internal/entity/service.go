package entity

import (
	"log/slog"

	errors "github.com/frahmantamala/correspondence-management/internal"
)

type Repository interface {
	Create(e *Entity) error
	GetByID(id int64) (*Entity, error)
	List(filter ListFilter, limit, offset int) ([]Entity, int64, error)
	Update(e *Entity) error
	Delete(id int64) error
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) CreateEntity(dto CreateEntityDTO) (*Entity, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	e := &Entity{
		NameAr:        dto.NameAr,
		NameEn:        dto.NameEn,
		Type:          dto.Type,
		ContactPerson: dto.ContactPerson,
		ContactEmail:  dto.ContactEmail,
		ContactPhone:  dto.ContactPhone,
		Address:       dto.Address,
		IsActive:      true,
	}

	if err := s.repo.Create(e); err != nil {
		return nil, errors.NewInternalError("failed to create entity", err)
	}

	s.logger.Info("entity created", "entity_id", e.ID, "type", e.Type)
	return e, nil
}

func (s *Service) GetEntity(id int64) (*Entity, error) {
	e, err := s.repo.GetByID(id)
	if err != nil {
		return nil, errors.ErrEntityNotFound
	}
	return e, nil
}

func (s *Service) ListEntities(filter ListFilter, page, limit int) ([]Entity, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	return s.repo.List(filter, limit, (page-1)*limit)
}

func (s *Service) UpdateEntity(id int64, dto UpdateEntityDTO) (*Entity, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	e, err := s.repo.GetByID(id)
	if err != nil {
		return nil, errors.ErrEntityNotFound
	}

	if dto.NameAr != nil {
		e.NameAr = *dto.NameAr
	}
	if dto.NameEn != nil {
		e.NameEn = *dto.NameEn
	}
	if dto.Type != nil {
		e.Type = *dto.Type
	}
	if dto.ContactPerson != nil {
		e.ContactPerson = *dto.ContactPerson
	}
	if dto.ContactEmail != nil {
		e.ContactEmail = *dto.ContactEmail
	}
	if dto.ContactPhone != nil {
		e.ContactPhone = *dto.ContactPhone
	}
	if dto.Address != nil {
		e.Address = *dto.Address
	}
	if dto.IsActive != nil {
		e.IsActive = *dto.IsActive
	}

	if err := s.repo.Update(e); err != nil {
		return nil, errors.NewInternalError("failed to update entity", err)
	}

	return e, nil
}

func (s *Service) DeleteEntity(id int64) error {
	if _, err := s.repo.GetByID(id); err != nil {
		return errors.ErrEntityNotFound
	}
	return s.repo.Delete(id)
}
