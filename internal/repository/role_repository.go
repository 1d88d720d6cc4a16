package repository

import (
	"context"

	"gorm.io/gorm"

	"accessgate/internal/model"
)

// RoleRepository defines persistence operations for roles and their
// permission and user links.
type RoleRepository interface {
	Create(ctx context.Context, role *model.Role) error
	Update(ctx context.Context, role *model.Role) error
	Delete(ctx context.Context, role *model.Role) error
	FindByID(ctx context.Context, id uint) (*model.Role, error)
	FindBySystemName(ctx context.Context, systemName string) (*model.Role, error)
	List(ctx context.Context) ([]model.Role, error)
	GetPermissions(ctx context.Context, roleID uint) ([]model.Permission, error)
	AddPermission(ctx context.Context, roleID, permissionID uint) error
	RemovePermission(ctx context.Context, roleID, permissionID uint) error
	AddUser(ctx context.Context, userID, roleID uint) error
	RemoveUser(ctx context.Context, userID, roleID uint) error
	GetUsers(ctx context.Context, roleID uint) ([]model.User, error)
}

type roleRepository struct {
	db *gorm.DB
}

// NewRoleRepository builds a GORM-backed repository.
func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &roleRepository{db: db}
}

func (r *roleRepository) Create(ctx context.Context, role *model.Role) error {
	return r.db.WithContext(ctx).Create(role).Error
}

func (r *roleRepository) Update(ctx context.Context, role *model.Role) error {
	return r.db.WithContext(ctx).Save(role).Error
}

func (r *roleRepository) Delete(ctx context.Context, role *model.Role) error {
	return r.db.WithContext(ctx).Delete(role).Error
}

func (r *roleRepository) FindByID(ctx context.Context, id uint) (*model.Role, error) {
	var role model.Role
	if err := r.db.WithContext(ctx).First(&role, id).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepository) FindBySystemName(ctx context.Context, systemName string) (*model.Role, error) {
	var role model.Role
	if err := r.db.WithContext(ctx).Where("system_name = ?", systemName).First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepository) List(ctx context.Context) ([]model.Role, error) {
	var roles []model.Role
	if err := r.db.WithContext(ctx).Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

// GetPermissions returns the permissions linked to the role.
func (r *roleRepository) GetPermissions(ctx context.Context, roleID uint) ([]model.Permission, error) {
	var permissions []model.Permission
	err := r.db.WithContext(ctx).
		Joins("JOIN role_permissions ON role_permissions.permission_id = permissions.id").
		Where("role_permissions.role_id = ?", roleID).
		Find(&permissions).Error
	if err != nil {
		return nil, err
	}
	return permissions, nil
}

// AddPermission links a permission to a role. Existing links are left
// untouched so the operation is idempotent.
func (r *roleRepository) AddPermission(ctx context.Context, roleID, permissionID uint) error {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.RolePermission{}).
		Where("role_id = ? AND permission_id = ?", roleID, permissionID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&model.RolePermission{
		RoleID:       roleID,
		PermissionID: permissionID,
	}).Error
}

func (r *roleRepository) RemovePermission(ctx context.Context, roleID, permissionID uint) error {
	return r.db.WithContext(ctx).
		Where("role_id = ? AND permission_id = ?", roleID, permissionID).
		Delete(&model.RolePermission{}).Error
}

// AddUser links a user to a role, idempotently.
func (r *roleRepository) AddUser(ctx context.Context, userID, roleID uint) error {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.UserRole{}).
		Where("user_id = ? AND role_id = ?", userID, roleID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&model.UserRole{
		UserID: userID,
		RoleID: roleID,
	}).Error
}

func (r *roleRepository) RemoveUser(ctx context.Context, userID, roleID uint) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND role_id = ?", userID, roleID).
		Delete(&model.UserRole{}).Error
}

// GetUsers returns the users holding the role.
func (r *roleRepository) GetUsers(ctx context.Context, roleID uint) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).
		Joins("JOIN user_roles ON user_roles.user_id = users.id").
		Where("user_roles.role_id = ?", roleID).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}
