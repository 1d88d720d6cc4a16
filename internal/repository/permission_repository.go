package repository

import (
	"context"

	"gorm.io/gorm"

	"accessgate/internal/model"
)

// PermissionRepository defines persistence operations for permissions.
type PermissionRepository interface {
	Create(ctx context.Context, permission *model.Permission) error
	Update(ctx context.Context, permission *model.Permission) error
	Delete(ctx context.Context, permission *model.Permission) error
	FindByID(ctx context.Context, id uint) (*model.Permission, error)
	FindBySystemName(ctx context.Context, systemName string) (*model.Permission, error)
	List(ctx context.Context) ([]model.Permission, error)
	ListByCategory(ctx context.Context, category string) ([]model.Permission, error)
}

type permissionRepository struct {
	db *gorm.DB
}

// NewPermissionRepository builds a GORM-backed repository.
func NewPermissionRepository(db *gorm.DB) PermissionRepository {
	return &permissionRepository{db: db}
}

func (r *permissionRepository) Create(ctx context.Context, permission *model.Permission) error {
	return r.db.WithContext(ctx).Create(permission).Error
}

func (r *permissionRepository) Update(ctx context.Context, permission *model.Permission) error {
	return r.db.WithContext(ctx).Save(permission).Error
}

func (r *permissionRepository) Delete(ctx context.Context, permission *model.Permission) error {
	return r.db.WithContext(ctx).Delete(permission).Error
}

func (r *permissionRepository) FindByID(ctx context.Context, id uint) (*model.Permission, error) {
	var permission model.Permission
	if err := r.db.WithContext(ctx).First(&permission, id).Error; err != nil {
		return nil, err
	}
	return &permission, nil
}

func (r *permissionRepository) FindBySystemName(ctx context.Context, systemName string) (*model.Permission, error) {
	var permission model.Permission
	if err := r.db.WithContext(ctx).Where("system_name = ?", systemName).First(&permission).Error; err != nil {
		return nil, err
	}
	return &permission, nil
}

func (r *permissionRepository) List(ctx context.Context) ([]model.Permission, error) {
	var permissions []model.Permission
	if err := r.db.WithContext(ctx).Find(&permissions).Error; err != nil {
		return nil, err
	}
	return permissions, nil
}

func (r *permissionRepository) ListByCategory(ctx context.Context, category string) ([]model.Permission, error) {
	var permissions []model.Permission
	if err := r.db.WithContext(ctx).Where("category = ?", category).Find(&permissions).Error; err != nil {
		return nil, err
	}
	return permissions, nil
}
