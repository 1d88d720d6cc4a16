package service

import (
	"context"
	stderrors "errors"
	"fmt"

	"gorm.io/gorm"

	"accessgate/internal/errors"
	"accessgate/internal/model"
	"accessgate/internal/repository"
)

// PermissionAdminService manages the permission catalog. System-name
// uniqueness is enforced before any write.
type PermissionAdminService interface {
	GetAllPermissions(ctx context.Context) ([]model.Permission, error)
	GetPermission(ctx context.Context, id uint) (*model.Permission, error)
	GetPermissionsByCategory(ctx context.Context, category string) ([]model.Permission, error)
	CreatePermission(ctx context.Context, permission *model.Permission) (*model.Permission, error)
	UpdatePermission(ctx context.Context, permission *model.Permission) error
	DeletePermission(ctx context.Context, id uint) error
}

type permissionAdminService struct {
	permissionRepo repository.PermissionRepository
}

// NewPermissionAdminService builds a PermissionAdminService.
func NewPermissionAdminService(permissionRepo repository.PermissionRepository) PermissionAdminService {
	return &permissionAdminService{permissionRepo: permissionRepo}
}

func (s *permissionAdminService) GetAllPermissions(ctx context.Context) ([]model.Permission, error) {
	return s.permissionRepo.List(ctx)
}

func (s *permissionAdminService) GetPermission(ctx context.Context, id uint) (*model.Permission, error) {
	permission, err := s.permissionRepo.FindByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrNotFound
		}
		return nil, fmt.Errorf("find permission: %w", err)
	}
	return permission, nil
}

func (s *permissionAdminService) GetPermissionsByCategory(ctx context.Context, category string) ([]model.Permission, error) {
	return s.permissionRepo.ListByCategory(ctx, category)
}

func (s *permissionAdminService) CreatePermission(ctx context.Context, permission *model.Permission) (*model.Permission, error) {
	if err := s.checkSystemName(ctx, permission.SystemName, 0); err != nil {
		return nil, err
	}
	if err := s.permissionRepo.Create(ctx, permission); err != nil {
		return nil, fmt.Errorf("create permission: %w", err)
	}
	return permission, nil
}

func (s *permissionAdminService) UpdatePermission(ctx context.Context, permission *model.Permission) error {
	existing, err := s.GetPermission(ctx, permission.ID)
	if err != nil {
		return err
	}
	if existing.SystemName != permission.SystemName {
		if err := s.checkSystemName(ctx, permission.SystemName, permission.ID); err != nil {
			return err
		}
	}
	if err := s.permissionRepo.Update(ctx, permission); err != nil {
		return fmt.Errorf("update permission: %w", err)
	}
	return nil
}

func (s *permissionAdminService) DeletePermission(ctx context.Context, id uint) error {
	permission, err := s.GetPermission(ctx, id)
	if err != nil {
		return err
	}
	if err := s.permissionRepo.Delete(ctx, permission); err != nil {
		return fmt.Errorf("delete permission: %w", err)
	}
	return nil
}

func (s *permissionAdminService) checkSystemName(ctx context.Context, systemName string, selfID uint) error {
	existing, err := s.permissionRepo.FindBySystemName(ctx, systemName)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("check permission system name: %w", err)
	}
	if existing.ID != selfID {
		return errors.ErrSystemNameTaken
	}
	return nil
}
