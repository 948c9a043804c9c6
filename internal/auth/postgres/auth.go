package postgres

import (
	"time"

	"github.com/frahmantamala/correspondence-management/internal/auth"
	coreuser "github.com/frahmantamala/correspondence-management/internal/core/user"
	"github.com/frahmantamala/correspondence-management/internal/user"
	"gorm.io/gorm"
)

type AuthRepository struct {
	db *gorm.DB
}

func NewAuthRepository(db *gorm.DB) auth.UserRepository {
	return &AuthRepository{db: db}
}

func (r *AuthRepository) GetCredentialsByUsername(username string) (*auth.Credentials, error) {
	var u user.User
	err := r.db.Where("username = ?", username).First(&u).Error
	if err != nil {
		return nil, err
	}
	return &auth.Credentials{
		UserID:       u.ID,
		PasswordHash: u.PasswordHash,
		IsActive:     u.IsActive,
	}, nil
}

// GetUserWithPermissions joins user -> role -> permissions into the
// identity attached to the request context. Inactive and soft-deleted
// users resolve to an error, which the service maps to Unauthorized.
func (r *AuthRepository) GetUserWithPermissions(userID int64) (*coreuser.User, error) {
	var u user.User
	err := r.db.Preload("Role.Permissions").First(&u, userID).Error
	if err != nil {
		return nil, err
	}
	if !u.IsActive {
		return nil, gorm.ErrRecordNotFound
	}

	identity := &coreuser.User{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		FullNameAr:  u.FullNameAr,
		FullNameEn:  u.FullNameEn,
		Permissions: []string{},
	}
	if u.Role != nil {
		identity.RoleName = u.Role.Name
		for _, p := range u.Role.Permissions {
			identity.Permissions = append(identity.Permissions, p.Name)
		}
	}

	return identity, nil
}

func (r *AuthRepository) UpdateLastLogin(userID int64, at time.Time) error {
	return r.db.Model(&user.User{}).
		Where("id = ?", userID).
		Update("last_login", at).Error
}
