package entity

import (
	"time"

	errors "github.com/frahmantamala/correspondence-management/internal"
	"github.com/frahmantamala/correspondence-management/internal/core/common/validation"
	"gorm.io/gorm"
)

// Entity types.
const (
	TypeSubsidiary = "subsidiary"
	TypePresidency = "presidency"
	TypeGovernment = "government"
	TypeExternal   = "external"
)

var Types = []string{TypeSubsidiary, TypePresidency, TypeGovernment, TypeExternal}

// Entity is an organizational party that sends or receives
// correspondence. Soft-deletable.
type Entity struct {
	ID            int64          `gorm:"primaryKey" json:"id"`
	NameAr        string         `gorm:"column:name_ar;size:200;not null" json:"name_ar"`
	NameEn        string         `gorm:"column:name_en;size:200;not null" json:"name_en"`
	Type          string         `gorm:"size:50;not null" json:"type"`
	ContactPerson string         `gorm:"column:contact_person;size:200" json:"contact_person"`
	ContactEmail  string         `gorm:"column:contact_email;size:255" json:"contact_email"`
	ContactPhone  string         `gorm:"column:contact_phone;size:50" json:"contact_phone"`
	Address       string         `json:"address"`
	IsActive      bool           `gorm:"column:is_active;default:true" json:"is_active"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Entity) TableName() string {
	return "entities"
}

type CreateEntityDTO struct {
	NameAr        string `json:"name_ar"`
	NameEn        string `json:"name_en"`
	Type          string `json:"type"`
	ContactPerson string `json:"contact_person"`
	ContactEmail  string `json:"contact_email"`
	ContactPhone  string `json:"contact_phone"`
	Address       string `json:"address"`
}

func (dto CreateEntityDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("name_ar", dto.NameAr).Required().MaxLength(200)
	v.Field("name_en", dto.NameEn).Required().MaxLength(200)
	v.Field("type", dto.Type).Required().OneOf(Types...)
	v.Field("contact_person", dto.ContactPerson).MaxLength(200)
	v.Field("contact_email", dto.ContactEmail).Email()
	v.Field("contact_phone", dto.ContactPhone).MaxLength(50)
	return v.Validate()
}

type UpdateEntityDTO struct {
	NameAr        *string `json:"name_ar,omitempty"`
	NameEn        *string `json:"name_en,omitempty"`
	Type          *string `json:"type,omitempty"`
	ContactPerson *string `json:"contact_person,omitempty"`
	ContactEmail  *string `json:"contact_email,omitempty"`
	ContactPhone  *string `json:"contact_phone,omitempty"`
	Address       *string `json:"address,omitempty"`
	IsActive      *bool   `json:"is_active,omitempty"`
}

func (dto UpdateEntityDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	if dto.NameAr != nil {
		v.Field("name_ar", *dto.NameAr).Required().MaxLength(200)
	}
	if dto.NameEn != nil {
		v.Field("name_en", *dto.NameEn).Required().MaxLength(200)
	}
	if dto.Type != nil {
		v.Field("type", *dto.Type).Required().OneOf(Types...)
	}
	if dto.ContactEmail != nil {
		v.Field("contact_email", *dto.ContactEmail).Email()
	}
	return v.Validate()
}

type ListFilter struct {
	Type     string
	IsActive *bool
	Search   string
}
