package postgres

import (
	"github.com/frahmantamala/correspondence-management/internal/role"
	"github.com/frahmantamala/correspondence-management/internal/user"
	"gorm.io/gorm"
)

type RoleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) role.Repository {
	return &RoleRepository{db: db}
}

func (r *RoleRepository) ListRoles() ([]role.Role, error) {
	var roles []role.Role
	err := r.db.Preload("Permissions").Order("name ASC").Find(&roles).Error
	return roles, err
}

func (r *RoleRepository) GetRoleByID(id int64) (*role.Role, error) {
	var rl role.Role
	err := r.db.Preload("Permissions").First(&rl, id).Error
	if err != nil {
		return nil, err
	}
	return &rl, nil
}

func (r *RoleRepository) ListPermissions() ([]role.Permission, error) {
	var permissions []role.Permission
	err := r.db.Order("resource ASC, action ASC").Find(&permissions).Error
	return permissions, err
}

// CountUsersWithRole includes soft-deleted users: a logically deleted
// user still references its role row.
func (r *RoleRepository) CountUsersWithRole(roleID int64) (int64, error) {
	var count int64
	err := r.db.Unscoped().Model(&user.User{}).Where("role_id = ?", roleID).Count(&count).Error
	return count, err
}

func (r *RoleRepository) DeleteRole(id int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("role_id = ?", id).Delete(&role.RolePermission{}).Error; err != nil {
			return err
		}
		return tx.Delete(&role.Role{}, id).Error
	})
}
