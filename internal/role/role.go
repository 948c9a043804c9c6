package role

import "time"

// Role is reference data: immutable once users point at it, deletable
// only while unreferenced.
type Role struct {
	ID            int64        `gorm:"primaryKey" json:"id"`
	Name          string       `gorm:"uniqueIndex;size:50;not null" json:"name"`
	NameAr        string       `gorm:"column:name_ar;size:100" json:"name_ar"`
	Description   string       `json:"description"`
	DescriptionAr string       `gorm:"column:description_ar" json:"description_ar"`
	Permissions   []Permission `gorm:"many2many:role_permissions" json:"permissions,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

func (Role) TableName() string {
	return "roles"
}

// Permission names follow the "resource:action" form, e.g.
// "correspondence:update".
type Permission struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:100;not null" json:"name"`
	NameAr    string    `gorm:"column:name_ar;size:100" json:"name_ar"`
	Resource  string    `gorm:"size:50" json:"resource"`
	Action    string    `gorm:"size:50" json:"action"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Permission) TableName() string {
	return "permissions"
}

type RolePermission struct {
	RoleID       int64 `gorm:"primaryKey" json:"role_id"`
	PermissionID int64 `gorm:"primaryKey" json:"permission_id"`
}

func (RolePermission) TableName() string {
	return "role_permissions"
}
