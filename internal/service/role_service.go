package service

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"

	"gorm.io/gorm"

	"accessgate/internal/cache"
	"accessgate/internal/errors"
	"accessgate/internal/model"
	"accessgate/internal/repository"
)

const (
	roleKeyPrefix            = "role:"
	rolePermissionsKeyPrefix = "role_permissions:"
)

// RoleService manages roles, their permission links and their members.
// Role and role-permission lookups are cached; mutations evict the
// affected role-level keys. User-level permission caches are left to
// expire on their own TTL.
type RoleService interface {
	GetAllRoles(ctx context.Context) ([]model.Role, error)
	GetRole(ctx context.Context, roleID uint) (*model.Role, error)
	CreateRole(ctx context.Context, role *model.Role) (*model.Role, error)
	UpdateRole(ctx context.Context, roleID uint, name, systemName, description string) (*model.Role, error)
	DeleteRole(ctx context.Context, roleID uint) error
	GetRolePermissions(ctx context.Context, roleID uint) ([]model.Permission, error)
	AddPermissionToRole(ctx context.Context, roleID, permissionID uint) error
	RemovePermissionFromRole(ctx context.Context, roleID, permissionID uint) error
	GetUsersInRole(ctx context.Context, roleID uint) ([]model.User, error)
	AddUserToRole(ctx context.Context, userID, roleID uint) error
	RemoveUserFromRole(ctx context.Context, userID, roleID uint) error
}

type roleService struct {
	roleRepo       repository.RoleRepository
	userRepo       repository.UserRepository
	permissionRepo repository.PermissionRepository
	cache          cache.Cache
}

// NewRoleService builds a RoleService.
func NewRoleService(roleRepo repository.RoleRepository, userRepo repository.UserRepository, permissionRepo repository.PermissionRepository, c cache.Cache) RoleService {
	return &roleService{
		roleRepo:       roleRepo,
		userRepo:       userRepo,
		permissionRepo: permissionRepo,
		cache:          c,
	}
}

func roleKey(roleID uint) string {
	return fmt.Sprintf("%s%d", roleKeyPrefix, roleID)
}

func rolePermissionsKey(roleID uint) string {
	return fmt.Sprintf("%s%d", rolePermissionsKeyPrefix, roleID)
}

func (s *roleService) GetAllRoles(ctx context.Context) ([]model.Role, error) {
	return s.roleRepo.List(ctx)
}

func (s *roleService) GetRole(ctx context.Context, roleID uint) (*model.Role, error) {
	if data, _ := s.cache.Get(ctx, roleKey(roleID)); data != nil {
		var cached model.Role
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	role, err := s.roleRepo.FindByID(ctx, roleID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrNotFound
		}
		return nil, fmt.Errorf("find role: %w", err)
	}

	if payload, err := json.Marshal(role); err == nil {
		_ = s.cache.Set(ctx, roleKey(roleID), payload, resolutionCacheTTL)
	}
	return role, nil
}

func (s *roleService) CreateRole(ctx context.Context, role *model.Role) (*model.Role, error) {
	existing, err := s.roleRepo.FindBySystemName(ctx, role.SystemName)
	if err == nil && existing != nil {
		return nil, errors.ErrSystemNameTaken
	}
	if err != nil && !stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check role system name: %w", err)
	}

	// Roles created through the API are never system roles.
	role.IsSystemRole = false
	if err := s.roleRepo.Create(ctx, role); err != nil {
		return nil, fmt.Errorf("create role: %w", err)
	}
	return role, nil
}

func (s *roleService) UpdateRole(ctx context.Context, roleID uint, name, systemName, description string) (*model.Role, error) {
	role, err := s.GetRole(ctx, roleID)
	if err != nil {
		return nil, err
	}

	if role.IsSystemRole && role.SystemName != systemName {
		return nil, errors.ErrSystemRoleRename
	}
	if role.SystemName != systemName {
		existing, err := s.roleRepo.FindBySystemName(ctx, systemName)
		if err == nil && existing != nil && existing.ID != roleID {
			return nil, errors.ErrSystemNameTaken
		}
		if err != nil && !stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("check role system name: %w", err)
		}
	}

	role.Name = name
	role.SystemName = systemName
	role.Description = description
	if err := s.roleRepo.Update(ctx, role); err != nil {
		return nil, fmt.Errorf("update role: %w", err)
	}

	_ = s.cache.Delete(ctx, roleKey(roleID))
	return role, nil
}

// DeleteRole removes a role. System roles are rejected before any store
// mutation.
func (s *roleService) DeleteRole(ctx context.Context, roleID uint) error {
	role, err := s.GetRole(ctx, roleID)
	if err != nil {
		return err
	}
	if role.IsSystemRole {
		return errors.ErrSystemRoleDelete
	}

	if err := s.roleRepo.Delete(ctx, role); err != nil {
		return fmt.Errorf("delete role: %w", err)
	}

	_ = s.cache.Delete(ctx, roleKey(roleID))
	_ = s.cache.Delete(ctx, rolePermissionsKey(roleID))
	return nil
}

func (s *roleService) GetRolePermissions(ctx context.Context, roleID uint) ([]model.Permission, error) {
	if data, _ := s.cache.Get(ctx, rolePermissionsKey(roleID)); data != nil {
		var cached []model.Permission
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	permissions, err := s.roleRepo.GetPermissions(ctx, roleID)
	if err != nil {
		return nil, fmt.Errorf("resolve role permissions: %w", err)
	}

	if payload, err := json.Marshal(permissions); err == nil {
		_ = s.cache.Set(ctx, rolePermissionsKey(roleID), payload, resolutionCacheTTL)
	}
	return permissions, nil
}

// AddPermissionToRole links a permission and evicts the role-permission
// cache so the next read reflects the new link.
func (s *roleService) AddPermissionToRole(ctx context.Context, roleID, permissionID uint) error {
	if _, err := s.GetRole(ctx, roleID); err != nil {
		return err
	}
	if _, err := s.permissionRepo.FindByID(ctx, permissionID); err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return errors.ErrNotFound
		}
		return fmt.Errorf("find permission: %w", err)
	}

	if err := s.roleRepo.AddPermission(ctx, roleID, permissionID); err != nil {
		return fmt.Errorf("add permission to role: %w", err)
	}

	_ = s.cache.Delete(ctx, rolePermissionsKey(roleID))
	return nil
}

func (s *roleService) RemovePermissionFromRole(ctx context.Context, roleID, permissionID uint) error {
	if _, err := s.GetRole(ctx, roleID); err != nil {
		return err
	}

	if err := s.roleRepo.RemovePermission(ctx, roleID, permissionID); err != nil {
		return fmt.Errorf("remove permission from role: %w", err)
	}

	_ = s.cache.Delete(ctx, rolePermissionsKey(roleID))
	return nil
}

func (s *roleService) GetUsersInRole(ctx context.Context, roleID uint) ([]model.User, error) {
	if _, err := s.GetRole(ctx, roleID); err != nil {
		return nil, err
	}
	return s.roleRepo.GetUsers(ctx, roleID)
}

func (s *roleService) AddUserToRole(ctx context.Context, userID, roleID uint) error {
	if _, err := s.GetRole(ctx, roleID); err != nil {
		return err
	}
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return errors.ErrNotFound
		}
		return fmt.Errorf("find user: %w", err)
	}
	return s.roleRepo.AddUser(ctx, userID, roleID)
}

func (s *roleService) RemoveUserFromRole(ctx context.Context, userID, roleID uint) error {
	if _, err := s.GetRole(ctx, roleID); err != nil {
		return err
	}
	return s.roleRepo.RemoveUser(ctx, userID, roleID)
}
