package rbac

import (
	"gorm.io/gorm"
)

type UserRole struct {
	UserID string
	RoleID string
}

type RolePermission struct {
	RoleID   string
	Resource string
	Action   string
}

//go:generate mockgen -source=rbac_repo.go -destination=mock/rbac_repo_mock.go -package=mock
type Repository interface {
	GetUserRoles() ([]UserRole, error)
	GetRolePermissions() ([]RolePermission, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetUserRoles() ([]UserRole, error) {
	var roles []UserRole
	err := r.db.
		Table("user_roles").
		Select("user_roles.user_id::text AS user_id, user_roles.role_id::text AS role_id").
		Scan(&roles).Error
	return roles, err
}

func (r *repository) GetRolePermissions() ([]RolePermission, error) {
	var perms []RolePermission
	err := r.db.
		Table("role_permissions").
		Select("role_permissions.role_id::text AS role_id, permissions.resource, permissions.action").
		Joins("JOIN permissions ON permissions.id = role_permissions.permission_id").
		Scan(&perms).Error
	return perms, err
}
