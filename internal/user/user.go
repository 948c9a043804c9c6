package user

import (
	"time"

	errors "github.com/frahmantamala/correspondence-management/internal"
	"github.com/frahmantamala/correspondence-management/internal/core/common/validation"
	"github.com/frahmantamala/correspondence-management/internal/role"
	"gorm.io/gorm"
)

// User is soft-deletable: deletion flags the row, and the unique
// username/email constraints keep applying to flagged rows too.
type User struct {
	ID           int64          `gorm:"primaryKey" json:"id"`
	Username     string         `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Email        string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string         `gorm:"column:password_hash;not null" json:"-"`
	FullNameAr   string         `gorm:"column:full_name_ar;size:200" json:"full_name_ar"`
	FullNameEn   string         `gorm:"column:full_name_en;size:200" json:"full_name_en"`
	RoleID       int64          `gorm:"column:role_id;not null" json:"role_id"`
	Role         *role.Role     `gorm:"foreignKey:RoleID" json:"role,omitempty"`
	IsActive     bool           `gorm:"column:is_active;default:true" json:"is_active"`
	LastLogin    *time.Time     `gorm:"column:last_login" json:"last_login,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

type CreateUserDTO struct {
	Username   string `json:"username"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	FullNameAr string `json:"full_name_ar"`
	FullNameEn string `json:"full_name_en"`
	RoleID     int64  `json:"role_id"`
}

func (dto CreateUserDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("username", dto.Username).Required().MinLength(3).MaxLength(50)
	v.Field("email", dto.Email).Required().Email()
	v.Field("password", dto.Password).Required().MinLength(6)
	v.Field("full_name_ar", dto.FullNameAr).Required().MaxLength(200)
	v.Field("full_name_en", dto.FullNameEn).Required().MaxLength(200)
	v.Field("role_id", dto.RoleID).Required().PositiveInt()
	return v.Validate()
}

// UpdateUserDTO patches only the supplied fields; a non-empty password
// is re-hashed.
type UpdateUserDTO struct {
	Username   *string `json:"username,omitempty"`
	Email      *string `json:"email,omitempty"`
	Password   *string `json:"password,omitempty"`
	FullNameAr *string `json:"full_name_ar,omitempty"`
	FullNameEn *string `json:"full_name_en,omitempty"`
	RoleID     *int64  `json:"role_id,omitempty"`
	IsActive   *bool   `json:"is_active,omitempty"`
}

func (dto UpdateUserDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	if dto.Username != nil {
		v.Field("username", *dto.Username).Required().MinLength(3).MaxLength(50)
	}
	if dto.Email != nil {
		v.Field("email", *dto.Email).Required().Email()
	}
	if dto.Password != nil {
		v.Field("password", *dto.Password).Required().MinLength(6)
	}
	if dto.RoleID != nil {
		v.Field("role_id", *dto.RoleID).Required().PositiveInt()
	}
	return v.Validate()
}

// ListFilter narrows the paginated user list.
type ListFilter struct {
	RoleID   *int64
	IsActive *bool
	Search   string
}
