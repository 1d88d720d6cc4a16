package repository

import (
	"context"

	"gorm.io/gorm"

	"accessgate/internal/model"
)

// MenuItemRepository defines persistence operations for menu items,
// including the per-role visibility query used by menu resolution.
type MenuItemRepository interface {
	Create(ctx context.Context, item *model.MenuItem) error
	Update(ctx context.Context, item *model.MenuItem) error
	Delete(ctx context.Context, item *model.MenuItem) error
	FindByID(ctx context.Context, id uint) (*model.MenuItem, error)
	List(ctx context.Context) ([]model.MenuItem, error)
	ListTopLevel(ctx context.Context) ([]model.MenuItem, error)
	ListByParent(ctx context.Context, parentID uint) ([]model.MenuItem, error)
	VisibleForRole(ctx context.Context, roleID uint) ([]model.MenuItem, error)
}

type menuItemRepository struct {
	db *gorm.DB
}

// NewMenuItemRepository builds a GORM-backed repository.
func NewMenuItemRepository(db *gorm.DB) MenuItemRepository {
	return &menuItemRepository{db: db}
}

func (r *menuItemRepository) Create(ctx context.Context, item *model.MenuItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *menuItemRepository) Update(ctx context.Context, item *model.MenuItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *menuItemRepository) Delete(ctx context.Context, item *model.MenuItem) error {
	return r.db.WithContext(ctx).Delete(item).Error
}

func (r *menuItemRepository) FindByID(ctx context.Context, id uint) (*model.MenuItem, error) {
	var item model.MenuItem
	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *menuItemRepository) List(ctx context.Context) ([]model.MenuItem, error) {
	var items []model.MenuItem
	if err := r.db.WithContext(ctx).Order("parent_id, display_order").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *menuItemRepository) ListTopLevel(ctx context.Context) ([]model.MenuItem, error) {
	var items []model.MenuItem
	err := r.db.WithContext(ctx).
		Where("parent_id = 0 AND is_visible = ?", true).
		Order("display_order").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *menuItemRepository) ListByParent(ctx context.Context, parentID uint) ([]model.MenuItem, error) {
	var items []model.MenuItem
	err := r.db.WithContext(ctx).
		Where("parent_id = ? AND is_visible = ?", parentID, true).
		Order("display_order").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// VisibleForRole returns the visible menu items whose required
// permission is empty or held by the role, ordered by parent then
// display order.
func (r *menuItemRepository) VisibleForRole(ctx context.Context, roleID uint) ([]model.MenuItem, error) {
	held := r.db.Table("role_permissions").
		Select("permissions.system_name").
		Joins("JOIN permissions ON permissions.id = role_permissions.permission_id").
		Where("role_permissions.role_id = ?", roleID)

	var items []model.MenuItem
	err := r.db.WithContext(ctx).
		Where("is_visible = ?", true).
		Where("required_permission = '' OR required_permission IN (?)", held).
		Order("parent_id, display_order").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
