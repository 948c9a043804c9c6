package role

import (
	"log/slog"

	errors "github.com/frahmantamala/correspondence-management/internal"
)

type Repository interface {
	ListRoles() ([]Role, error)
	GetRoleByID(id int64) (*Role, error)
	ListPermissions() ([]Permission, error)
	CountUsersWithRole(roleID int64) (int64, error)
	DeleteRole(id int64) error
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) ListRoles() ([]Role, error) {
	return s.repo.ListRoles()
}

func (s *Service) GetRole(id int64) (*Role, error) {
	r, err := s.repo.GetRoleByID(id)
	if err != nil {
		return nil, errors.ErrRoleNotFound
	}
	return r, nil
}

func (s *Service) ListPermissions() ([]Permission, error) {
	return s.repo.ListPermissions()
}

// DeleteRole removes a role only while no user references it. Roles are
// never silently reassigned.
func (s *Service) DeleteRole(id int64) error {
	if _, err := s.repo.GetRoleByID(id); err != nil {
		return errors.ErrRoleNotFound
	}

	count, err := s.repo.CountUsersWithRole(id)
	if err != nil {
		return errors.NewInternalError("failed to count role references", err)
	}
	if count > 0 {
		s.logger.Warn("refusing to delete referenced role", "role_id", id, "user_count", count)
		return errors.ErrRoleInUse
	}

	return s.repo.DeleteRole(id)
}
