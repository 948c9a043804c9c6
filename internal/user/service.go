package user

import (
	"log/slog"
	"strings"

	errors "github.com/frahmantamala/correspondence-management/internal"
	"golang.org/x/crypto/bcrypt"
)

type Repository interface {
	Create(u *User) error
	GetByID(id int64) (*User, error)
	List(filter ListFilter, limit, offset int) ([]User, int64, error)
	Update(u *User) error
	Delete(id int64) error
}

type Service struct {
	repo       Repository
	bcryptCost int
	logger     *slog.Logger
}

func NewService(repo Repository, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost <= 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{repo: repo, bcryptCost: bcryptCost, logger: logger}
}

func (s *Service) CreateUser(dto CreateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), s.bcryptCost)
	if err != nil {
		return nil, errors.NewInternalError("failed to hash password", err)
	}

	u := &User{
		Username:     dto.Username,
		Email:        dto.Email,
		PasswordHash: string(hash),
		FullNameAr:   dto.FullNameAr,
		FullNameEn:   dto.FullNameEn,
		RoleID:       dto.RoleID,
		IsActive:     true,
	}

	if err := s.repo.Create(u); err != nil {
		if isUniqueViolation(err) {
			return nil, errors.NewConflictError("Username or email already exists", errors.ErrCodeDuplicateKey)
		}
		return nil, errors.NewInternalError("failed to create user", err)
	}

	s.logger.Info("user created", "user_id", u.ID, "username", u.Username)
	return s.repo.GetByID(u.ID)
}

func (s *Service) GetUser(id int64) (*User, error) {
	u, err := s.repo.GetByID(id)
	if err != nil {
		return nil, errors.ErrUserNotFound
	}
	return u, nil
}

func (s *Service) ListUsers(filter ListFilter, page, limit int) ([]User, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	return s.repo.List(filter, limit, (page-1)*limit)
}

func (s *Service) UpdateUser(id int64, dto UpdateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	u, err := s.repo.GetByID(id)
	if err != nil {
		return nil, errors.ErrUserNotFound
	}

	if dto.Username != nil {
		u.Username = *dto.Username
	}
	if dto.Email != nil {
		u.Email = *dto.Email
	}
	if dto.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*dto.Password), s.bcryptCost)
		if err != nil {
			return nil, errors.NewInternalError("failed to hash password", err)
		}
		u.PasswordHash = string(hash)
	}
	if dto.FullNameAr != nil {
		u.FullNameAr = *dto.FullNameAr
	}
	if dto.FullNameEn != nil {
		u.FullNameEn = *dto.FullNameEn
	}
	if dto.RoleID != nil {
		u.RoleID = *dto.RoleID
	}
	if dto.IsActive != nil {
		u.IsActive = *dto.IsActive
	}

	if err := s.repo.Update(u); err != nil {
		if isUniqueViolation(err) {
			return nil, errors.NewConflictError("Username or email already exists", errors.ErrCodeDuplicateKey)
		}
		return nil, errors.NewInternalError("failed to update user", err)
	}

	return s.repo.GetByID(id)
}

func (s *Service) DeleteUser(id int64) error {
	if _, err := s.repo.GetByID(id); err != nil {
		return errors.ErrUserNotFound
	}
	return s.repo.Delete(id)
}

// isUniqueViolation matches duplicate-key failures across the sqlite
// and postgres drivers without importing either.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}
